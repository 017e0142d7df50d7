package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebPageJsonLD produces a Schema.org WebPage JSON-LD block for a page.
func WebPageJsonLD(cfg SiteConfig, meta PageMeta) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebPage",
		"name":     meta.Title,
		"url":      meta.URL,
		"isPartOf": map[string]string{
			"@type": "WebSite",
			"name":  cfg.Name,
			"url":   buildURL(cfg.URL),
		},
	}
	if meta.Description != "" {
		data["description"] = meta.Description
	}
	if meta.Updated != "" {
		data["dateModified"] = meta.Updated
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PageTitle formats the <title> text.
func PageTitle(cfg SiteConfig, meta PageMeta) string {
	switch {
	case meta.Title == "":
		return cfg.Name
	case meta.Homepage || meta.Title == cfg.Name:
		return meta.Title
	default:
		return meta.Title + " | " + cfg.Name
	}
}
