package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/eringen/pubgraph"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     pubgraph.SiteConfig
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (pubgraph.SiteConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = pubgraph.LoadConfig(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	name := "info"
	if c.logLevelFlag != nil && *c.logLevelFlag != "" {
		name = *c.logLevelFlag
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", name, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// openApp loads configuration and returns an opened App. The caller must
// Close it.
func (c *commandContext) openApp(logOut io.Writer) (*pubgraph.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(logOut)
	if err != nil {
		return nil, err
	}
	app := pubgraph.New(cfg, pubgraph.WithLogger(logger))
	if err := app.Open(); err != nil {
		return nil, err
	}
	return app, nil
}
