package pubgraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubgraph/internal/logfields"
	"github.com/eringen/pubgraph/markdown"
	"github.com/eringen/pubgraph/opengraph"
	"github.com/eringen/pubgraph/views"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// RenderPage renders the page at the normalized request path p, driving
// every registered plugin through the lifecycle. Unknown paths render the
// not-found document with status 404.
func (a *App) RenderPage(ctx context.Context, p string) (RenderResult, error) {
	chain := a.newChain()
	chain.configLoaded(a.Config.Settings())
	chain.requestResolved(p)

	res := RenderResult{Path: p, Status: http.StatusOK}
	page, err := a.source.Load(p)
	if errors.Is(err, ErrNotFound) {
		res.Status = http.StatusNotFound
		res.NotFound = true
		page, err = a.notFoundPage(ctx)
		if err == nil {
			chain.errorContentLoaded()
		}
	}
	if err != nil {
		return RenderResult{}, fmt.Errorf("pubgraph: load %q: %w", p, err)
	}

	chain.pageMetaParsed(page.Meta)

	content, err := markdown.Render(page.Body)
	if err != nil {
		return RenderResult{}, fmt.Errorf("pubgraph: render %q: %w", p, err)
	}
	content = chain.contentRendered(content)

	meta := views.PageMeta{
		Title:       page.Title(),
		Description: page.Description(),
		Homepage:    opengraph.IsHomepage(p),
		Updated:     page.Updated,
	}
	if !res.NotFound {
		meta.URL = a.PageURL(p)
	}
	var buf bytes.Buffer
	if err := a.layout(a.siteView(), meta, templ.Raw(content)).Render(ctx, &buf); err != nil {
		return RenderResult{}, fmt.Errorf("pubgraph: layout %q: %w", p, err)
	}
	res.HTML = chain.outputFinalized(buf.String())

	a.metrics.observe(res, chain)
	a.logger.Debug("rendered page", logfields.Path(p), logfields.Status(res.Status))
	return res, nil
}

// PageURL returns the public URL of the page at p.
func (a *App) PageURL(p string) string {
	if opengraph.IsHomepage(p) {
		return BuildURL(a.Config.BaseURL)
	}
	return opengraph.PageURL(opengraph.Config{BaseURL: a.Config.BaseURL, RewriteURL: a.Config.RewriteURL}, p)
}

// notFoundPage loads the site's not-found document, falling back to a
// built-in one.
func (a *App) notFoundPage(ctx context.Context) (Page, error) {
	page, err := a.source.Load(NotFoundPath)
	if !errors.Is(err, ErrNotFound) {
		return page, err
	}
	var body strings.Builder
	if err := views.NotFound().Render(ctx, &body); err != nil {
		return Page{}, err
	}
	return Page{
		Path: NotFoundPath,
		Meta: map[string]any{"title": "Page not found"},
		Body: body.String(),
	}, nil
}
