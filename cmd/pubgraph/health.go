package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubgraph"
)

// registerHealth adds a liveness route that also reports whether the content
// source can list pages.
func registerHealth(a *pubgraph.App) {
	a.Echo.GET("/healthz", func(c echo.Context) error {
		if _, err := a.Cache.List(); err != nil {
			return c.String(http.StatusServiceUnavailable, "content source unavailable\n")
		}
		return c.String(http.StatusOK, "ok\n")
	})
}
