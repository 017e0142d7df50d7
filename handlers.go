package pubgraph

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubgraph/views"
)

func (a *App) handlePage(c echo.Context) error {
	p := a.requestPath(c.Request())
	res, err := a.RenderPage(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.HTML(res.Status, res.HTML)
}

// requestPath extracts the page path from r. Without URL rewriting the page
// is addressed by the query string, as in /?blog/post.
func (a *App) requestPath(r *http.Request) string {
	if !a.Config.RewriteURL && strings.Trim(r.URL.Path, "/") == "" && r.URL.RawQuery != "" {
		q := r.URL.RawQuery
		if i := strings.IndexByte(q, '&'); i >= 0 {
			q = q[:i]
		}
		if strings.Contains(q, "=") {
			return ""
		}
		if unescaped, err := url.QueryUnescape(q); err == nil {
			q = unescaped
		}
		return NormalizePath(q)
	}
	return NormalizePath(r.URL.Path)
}

func (a *App) handleSitemap(c echo.Context) error {
	pages, err := a.Cache.List()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, pages)
}

// handleRobots generates robots.txt pointing at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(a.Config.BaseURL, "/"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.layout(a.siteView(), views.PageMeta{Title: "Page not found"}, views.NotFound()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "error", err, "uri", c.Request().RequestURI)
		_ = RenderStatus(c, code, a.layout(a.siteView(), views.PageMeta{Title: "Error"}, views.ServerError()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
