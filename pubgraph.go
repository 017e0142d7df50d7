// Package pubgraph is a flat-file site renderer built with Go, Echo, and templ.
// Pages are markdown documents with YAML front matter, read from a content
// directory or from an admin-managed SQLite store. Every rendered page runs
// through a plugin lifecycle; the built-in OpenGraph plugin adds social
// sharing tags to the page head.
package pubgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/pubgraph/internal/logfields"
	"github.com/eringen/pubgraph/views"
)

// App is the central pubgraph application. It wires together the content
// source, cache, plugins, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PageCache

	source       Source
	plugins      []PluginFactory
	layout       LayoutFunc
	logger       *slog.Logger
	metrics      *Metrics
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a new App with the given configuration. Unless disabled in the
// configuration, the OpenGraph plugin is registered before any plugin passed
// through opts.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NewMetrics(),
		layout:  views.Layout,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if cfg.OpenGraph.IsEnabled() {
		a.plugins = append([]PluginFactory{OpenGraphPlugin(a.logger)}, a.plugins...)
	}
	return a
}

// Open prepares the content source and cache. When no source was supplied
// through WithSource, the SQLite store is layered over the content directory.
func (a *App) Open() error {
	if a.source == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pubgraph: init store: %w", err)
		}
		a.Store = store
		a.source = LayeredSource{store, NewFileSource(a.Config.ContentDir)}
	}
	a.Cache = NewPageCache(a.source, a.Config.PageCacheTTL)
	a.logger.Debug("content source ready", logfields.Source(fmt.Sprintf("%T", a.source)))
	return nil
}

// Source returns the content source in use.
func (a *App) Source() Source { return a.source }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Start opens the app, mounts middleware and routes, and serves HTTP until
// ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Open(); err != nil {
		return err
	}
	defer a.Close()

	a.Setup()

	if a.Config.WatchContent {
		go func() {
			if err := a.WatchContent(ctx); err != nil {
				a.logger.Error("content watcher stopped", "error", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.Config.Addr, "base_url", a.Config.BaseURL)
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	}
}

// Setup mounts middleware and routes. Start calls it; tests call it directly
// after Open.
func (a *App) Setup() {
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{})))

	if a.Config.AdminEnabled() {
		if a.loginLimiter == nil {
			a.loginLimiter = NewLoginLimiter(5, time.Minute)
		}
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.GET("/admin/pages/", a.handleAdminPages)
		e.GET("/admin/pages/*", a.handleAdminPage)
		e.PUT("/admin/pages/*", a.handleAdminSave)
		e.DELETE("/admin/pages/*", a.handleAdminDelete)
	}

	e.GET("/", a.handlePage)
	e.GET("/*", a.handlePage)
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Title,
		URL:         a.Config.BaseURL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
