package pubgraph

import (
	"log/slog"

	"github.com/eringen/pubgraph/opengraph"
)

// Plugin listens to the render lifecycle of a single request. The App calls
// the methods at most once each, in declaration order; OnErrorContentLoaded
// only fires when the request resolved to the not-found document.
type Plugin interface {
	OnConfigLoaded(settings map[string]any)
	OnRequestResolved(path string)
	OnErrorContentLoaded()
	OnPageMetaParsed(meta map[string]any)
	OnContentRendered(content string) string
	OnOutputFinalized(output string) string
}

// PluginFactory creates the plugin instance for one request.
type PluginFactory func() Plugin

// OpenGraphPlugin returns a factory for the OpenGraph pipeline.
func OpenGraphPlugin(logger *slog.Logger) PluginFactory {
	return func() Plugin {
		return opengraph.New(opengraph.WithLogger(logger))
	}
}

// pluginChain fans each lifecycle event out to every plugin in registration
// order. Content and output are threaded through the plugins.
type pluginChain []Plugin

func (a *App) newChain() pluginChain {
	chain := make(pluginChain, 0, len(a.plugins))
	for _, f := range a.plugins {
		chain = append(chain, f())
	}
	return chain
}

func (c pluginChain) configLoaded(settings map[string]any) {
	for _, p := range c {
		p.OnConfigLoaded(settings)
	}
}

func (c pluginChain) requestResolved(path string) {
	for _, p := range c {
		p.OnRequestResolved(path)
	}
}

func (c pluginChain) errorContentLoaded() {
	for _, p := range c {
		p.OnErrorContentLoaded()
	}
}

func (c pluginChain) pageMetaParsed(meta map[string]any) {
	for _, p := range c {
		p.OnPageMetaParsed(meta)
	}
}

func (c pluginChain) contentRendered(content string) string {
	for _, p := range c {
		content = p.OnContentRendered(content)
	}
	return content
}

func (c pluginChain) outputFinalized(output string) string {
	for _, p := range c {
		output = p.OnOutputFinalized(output)
	}
	return output
}

// injectionReporter is implemented by plugins that can say whether they
// changed the final output.
type injectionReporter interface {
	Injected() bool
	Suppressed() bool
}
