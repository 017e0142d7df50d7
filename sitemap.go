package pubgraph

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists the homepage first, then every other page in order.
func (a *App) buildSitemap(pages []Page) sitemapURLSet {
	home := sitemapURL{Loc: a.PageURL("")}
	urls := []sitemapURL{home}
	for _, p := range pages {
		if p.Path == "" || p.Path == "index" {
			urls[0].LastMod = p.Updated
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     a.PageURL(p.Path),
			LastMod: p.Updated,
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, pages []Page) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(pages))
}
