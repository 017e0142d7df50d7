package pubgraph

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubgraph/internal/logfields"
	"github.com/eringen/pubgraph/opengraph"
)

const maxPageSize = 1 << 20

type adminPage struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Updated     string `json:"updated,omitempty"`
	URL         string `json:"url"`
}

type adminPageList struct {
	CSRF  string      `json:"csrf"`
	Pages []adminPage `json:"pages"`
}

type adminMessage struct {
	CSRF    string `json:"csrf,omitempty"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, adminMessage{Message: "too many login attempts, try again later"})
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		return c.JSON(http.StatusUnauthorized, adminMessage{CSRF: CsrfToken(c), Message: "invalid password"})
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminMessage{CSRF: CsrfToken(c), Message: "logged in"})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminMessage{Message: "logged out"})
}

// handleAdminPages lists the store's pages. Unauthenticated callers get an
// empty list with the CSRF token needed to log in.
func (a *App) handleAdminPages(c echo.Context) error {
	if !IsAdmin(c) {
		return c.JSON(http.StatusUnauthorized, adminMessage{CSRF: CsrfToken(c), Message: "login required"})
	}
	if a.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, adminMessage{Message: "page store not configured"})
	}
	pages, err := a.Store.List()
	if err != nil {
		return err
	}
	list := adminPageList{CSRF: CsrfToken(c), Pages: make([]adminPage, 0, len(pages))}
	for _, p := range pages {
		list.Pages = append(list.Pages, adminPage{
			Path:        p.Path,
			Title:       p.Title(),
			Description: p.Description(),
			Updated:     p.Updated,
			URL:         a.PageURL(p.Path),
		})
	}
	return c.JSON(http.StatusOK, list)
}

// handleAdminPage returns the stored document for the wildcard path, front
// matter included, ready to be edited and sent back with PUT.
func (a *App) handleAdminPage(c echo.Context) error {
	if !IsAdmin(c) {
		return c.JSON(http.StatusUnauthorized, adminMessage{CSRF: CsrfToken(c), Message: "login required"})
	}
	if a.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, adminMessage{Message: "page store not configured"})
	}
	p := adminPath(c)
	page, err := a.Store.Load(p)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, adminMessage{Message: "no such page", Path: p})
	}
	if err != nil {
		return err
	}
	c.Response().Header().Set("X-CSRF-Token", CsrfToken(c))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(FormatPage(page)))
}

// handleAdminSave stores the request body, a markdown document with optional
// front matter, as the page at the wildcard path.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.JSON(http.StatusUnauthorized, adminMessage{Message: "login required"})
	}
	if a.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, adminMessage{Message: "page store not configured"})
	}
	p := adminPath(c)

	doc, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPageSize+1))
	if err != nil {
		return err
	}
	if len(doc) > maxPageSize {
		return c.JSON(http.StatusRequestEntityTooLarge, adminMessage{Message: "page too large", Path: p})
	}
	page, err := ParsePage(p, string(doc))
	if err != nil {
		return c.JSON(http.StatusBadRequest, adminMessage{Message: err.Error(), Path: p})
	}
	if err := a.Store.SavePage(page); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.logger.Info("page saved", logfields.Path(p))
	return c.JSON(http.StatusOK, adminMessage{Message: "saved", Path: p})
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.JSON(http.StatusUnauthorized, adminMessage{Message: "login required"})
	}
	if a.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, adminMessage{Message: "page store not configured"})
	}
	p := adminPath(c)
	err := a.Store.DeletePage(p)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, adminMessage{Message: "no such page", Path: p})
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.logger.Info("page deleted", logfields.Path(p))
	return c.JSON(http.StatusOK, adminMessage{Message: "deleted", Path: p})
}

// adminPath is the store key for the wildcard path. Both "" and "index"
// address the homepage.
func adminPath(c echo.Context) string {
	p := NormalizePath(c.Param("*"))
	if opengraph.IsHomepage(p) {
		return ""
	}
	return p
}
