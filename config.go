package pubgraph

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/eringen/pubgraph/views"
)

// SiteConfig holds all configuration for a pubgraph site.
type SiteConfig struct {
	BaseURL     string `toml:"base_url"`    // Canonical URL without trailing slash (default "http://localhost:3000")
	Title       string `toml:"site_title"`  // Site name (default "Site")
	Description string `toml:"description"` // Site description for the head and JSON-LD
	Author      string `toml:"author"`      // Author name for JSON-LD
	RewriteURL  bool   `toml:"rewrite_url"` // Path URLs when true, "?path" URLs when false

	Addr         string `toml:"addr"`          // Listen address (default ":3000")
	ContentDir   string `toml:"content_dir"`   // Markdown root (default "content")
	DatabasePath string `toml:"database_path"` // SQLite path (default "data/pages.db")
	StaticDir    string `toml:"static_dir"`    // Static assets served under /public (default "public")

	AdminPassword string `toml:"admin_password"` // Enables admin routes together with SessionSecret
	SessionSecret string `toml:"session_secret"`
	CookieSecure  bool   `toml:"cookie_secure"` // Set true for HTTPS

	PageCacheTTL time.Duration `toml:"-"`              // Page list cache TTL (default 5min)
	CacheTTL     string        `toml:"page_cache_ttl"` // PageCacheTTL as a duration string, e.g. "10m"
	WatchContent bool          `toml:"watch_content"`  // Invalidate the page cache on content changes

	OpenGraph OpenGraphConfig `toml:"opengraph"`
}

// OpenGraphConfig is the plugin-scoped section of the configuration.
type OpenGraphConfig struct {
	Enabled      *bool  `toml:"enabled"`       // default true
	DefaultImage string `toml:"default_image"` // used when a page has no images
	EscapeValues bool   `toml:"escape_values"`
	Scanner      string `toml:"scanner"` // "regexp" or "html"
}

// IsEnabled reports whether the OpenGraph plugin should be registered.
func (o OpenGraphConfig) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Site"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
}

// AdminEnabled reports whether the admin routes can be mounted.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != "" && c.SessionSecret != ""
}

// Settings flattens the configuration into the mapping handed to plugins.
func (c SiteConfig) Settings() map[string]any {
	return map[string]any{
		"base_url":    c.BaseURL,
		"site_title":  c.Title,
		"description": c.Description,
		"author":      c.Author,
		"rewrite_url": c.RewriteURL,
		"content_dir": c.ContentDir,
		"opengraph": map[string]any{
			"enabled":       c.OpenGraph.IsEnabled(),
			"default_image": c.OpenGraph.DefaultImage,
			"escape_values": c.OpenGraph.EscapeValues,
			"scanner":       c.OpenGraph.Scanner,
		},
	}
}

// LoadConfig reads the TOML file at path (optional when empty or missing),
// loads a .env file if present, and applies PUBGRAPH_* environment overrides.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	cfg.RewriteURL = true

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("pubgraph: parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("config file not found, using defaults", slog.String("file", path))
		default:
			return SiteConfig{}, fmt.Errorf("pubgraph: read config: %w", err)
		}
	}

	if cfg.CacheTTL != "" {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("pubgraph: page_cache_ttl: %w", err)
		}
		cfg.PageCacheTTL = ttl
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("pubgraph: load .env: %w", err)
	}
	applyEnv(&cfg)
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) {
	cfg.BaseURL = EnvOr("PUBGRAPH_BASE_URL", cfg.BaseURL)
	cfg.Title = EnvOr("PUBGRAPH_SITE_TITLE", cfg.Title)
	cfg.Description = EnvOr("PUBGRAPH_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("PUBGRAPH_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("PUBGRAPH_ADDR", cfg.Addr)
	cfg.ContentDir = EnvOr("PUBGRAPH_CONTENT_DIR", cfg.ContentDir)
	cfg.DatabasePath = EnvOr("PUBGRAPH_DATABASE_PATH", cfg.DatabasePath)
	cfg.AdminPassword = EnvOr("PUBGRAPH_ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = EnvOr("PUBGRAPH_SESSION_SECRET", cfg.SessionSecret)
	cfg.OpenGraph.DefaultImage = EnvOr("PUBGRAPH_OPENGRAPH_DEFAULT_IMAGE", cfg.OpenGraph.DefaultImage)
	if v, err := strconv.ParseBool(os.Getenv("PUBGRAPH_REWRITE_URL")); err == nil {
		cfg.RewriteURL = v
	}
	if v, err := strconv.ParseBool(os.Getenv("PUBGRAPH_COOKIE_SECURE")); err == nil {
		cfg.CookieSecure = v
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithPlugin registers a plugin factory. A fresh plugin is created for every
// rendered request.
func WithPlugin(f PluginFactory) Option {
	return func(a *App) {
		a.plugins = append(a.plugins, f)
	}
}

// WithSource replaces the content source built from the configuration.
func WithSource(s Source) Option {
	return func(a *App) {
		a.source = s
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// LayoutFunc wraps a rendered body in a complete HTML document. Plugins see
// its output, so it must emit a closing head tag for OpenGraph tags to be
// injected.
type LayoutFunc func(site views.SiteConfig, meta views.PageMeta, body templ.Component) templ.Component

// WithLayout replaces the built-in views.Layout, typically with a component
// generated from the site's own .templ files.
func WithLayout(fn LayoutFunc) Option {
	return func(a *App) {
		if fn != nil {
			a.layout = fn
		}
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
