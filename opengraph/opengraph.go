// Package opengraph derives OpenGraph tags from a rendered page and injects
// them into the page's <head>.
//
// A Pipeline listens to the host's render lifecycle for exactly one request:
// the host announces configuration, the resolved path, an optional not-found
// signal, the parsed front matter, the rendered content and finally the whole
// document. Only the last call changes anything the host sees. Pages that
// resolved to the not-found document pass through untouched.
package opengraph

import (
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/eringen/pubgraph/internal/logfields"
)

// Stage is the lifecycle position of a Pipeline.
type Stage int

const (
	StageInit Stage = iota
	StageConfigLoaded
	StageURLResolved
	StageErrorLoaded
	StageMetaParsed
	StageContentScanned
	StageRendered
)

var stageNames = [...]string{
	"init", "config_loaded", "url_resolved", "error_loaded",
	"meta_parsed", "content_scanned", "rendered",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Pipeline holds the state of one request. It is not safe for concurrent use
// and must not be reused across requests.
type Pipeline struct {
	cfg     Config
	ctx     RequestContext
	meta    Meta
	images  ImageList
	scanner Scanner
	stage   Stage
	logger  *slog.Logger

	props    PropertyMap
	injected bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes the pipeline's debug logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithScanner fixes the image scanner, overriding the configured one.
func WithScanner(s Scanner) Option {
	return func(p *Pipeline) {
		p.scanner = s
	}
}

// New returns a Pipeline for a single request.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnConfigLoaded stores a snapshot of the site settings.
func (p *Pipeline) OnConfigLoaded(settings map[string]any) {
	p.cfg = ConfigFromSettings(settings)
	if p.scanner == nil {
		p.scanner = ScannerFor(p.cfg.Scanner)
	}
	p.advance(StageConfigLoaded)
}

// OnRequestResolved records the requested path and classifies it.
func (p *Pipeline) OnRequestResolved(path string) {
	p.ctx.RequestedPath = path
	p.ctx.IsHomepage = IsHomepage(path)
	p.advance(StageURLResolved)
}

// OnErrorContentLoaded marks the request as served by the not-found
// document. The mark is never cleared.
func (p *Pipeline) OnErrorContentLoaded() {
	p.ctx.IsErrorPage = true
	p.advance(StageErrorLoaded)
}

// OnPageMetaParsed stores the page's front matter.
func (p *Pipeline) OnPageMetaParsed(meta map[string]any) {
	p.meta = Meta(maps.Clone(meta))
	p.advance(StageMetaParsed)
}

// OnContentRendered collects the page's images and returns content as given.
func (p *Pipeline) OnContentRendered(content string) string {
	scanner := p.scanner
	if scanner == nil {
		scanner = RegexpScanner{}
	}
	p.images = ResolveImages(scanner, content, p.cfg, p.ctx.RequestedPath)
	p.advance(StageContentScanned)
	p.logger.Debug("scanned content for images",
		logfields.Path(p.ctx.RequestedPath),
		slog.Int("images", len(p.images)))
	return content
}

// OnOutputFinalized injects the OpenGraph tags into output. Error pages are
// returned unchanged.
func (p *Pipeline) OnOutputFinalized(output string) string {
	p.advance(StageRendered)
	if p.ctx.IsErrorPage {
		p.logger.Debug("skipping opengraph for error page", logfields.Path(p.ctx.RequestedPath))
		return output
	}
	p.props = Synthesize(p.ctx, p.meta, p.cfg, p.images)
	out := Inject(output, p.props, p.cfg.EscapeValues)
	p.injected = len(p.props) > 0 && strings.Contains(output, HeadClose)
	p.logger.Debug("rendered opengraph tags",
		logfields.Path(p.ctx.RequestedPath),
		slog.Int("properties", len(p.props)),
		slog.Bool("injected", p.injected))
	return out
}

// Context returns the accumulated request classification.
func (p *Pipeline) Context() RequestContext { return p.ctx }

// Config returns the settings snapshot.
func (p *Pipeline) Config() Config { return p.cfg }

// Images returns the images collected from the rendered content.
func (p *Pipeline) Images() ImageList { return p.images }

// Properties returns the properties built by OnOutputFinalized, or nil if
// none were built.
func (p *Pipeline) Properties() PropertyMap { return p.props }

// Stage returns the last lifecycle stage reached.
func (p *Pipeline) Stage() Stage { return p.stage }

// Injected reports whether tags were written into the output.
func (p *Pipeline) Injected() bool { return p.injected }

// Suppressed reports whether output was left untouched because the request
// resolved to the not-found document.
func (p *Pipeline) Suppressed() bool {
	return p.ctx.IsErrorPage && p.stage == StageRendered
}

func (p *Pipeline) advance(s Stage) {
	if s < p.stage {
		p.logger.Debug("lifecycle callback out of order",
			logfields.Stage(s.String()),
			slog.String("previous", p.stage.String()))
		return
	}
	p.stage = s
}
