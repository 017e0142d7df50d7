package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Layout renders a complete HTML document around body.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		jsonLD := WebPageJsonLD(cfg, meta)
		if meta.Homepage {
			jsonLD = WebsiteJsonLD(cfg)
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}

		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("\t<meta charset=\"utf-8\">\n")
		b.WriteString("\t<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		b.WriteString("\t<title>" + templ.EscapeString(PageTitle(cfg, meta)) + "</title>\n")
		if description != "" {
			b.WriteString("\t<meta name=\"description\" content=\"" + templ.EscapeString(description) + "\">\n")
		}
		if meta.URL != "" {
			b.WriteString("\t<link rel=\"canonical\" href=\"" + templ.EscapeString(meta.URL) + "\">\n")
		}
		b.WriteString("\t<link rel=\"stylesheet\" href=\"/public/style.css\">\n")
		b.WriteString("\t<script type=\"application/ld+json\">" + jsonLD + "</script>\n")
		b.WriteString("</head>\n<body>\n")
		b.WriteString("<header><a href=\"" + templ.EscapeString(buildURL(cfg.URL)) + "\">" + templ.EscapeString(cfg.Name) + "</a></header>\n")
		b.WriteString("<main>\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// NotFound is the body used when the site has no not-found document.
func NotFound() templ.Component {
	return templ.Raw("<h1>Page not found</h1>\n<p>The page you requested does not exist.</p>\n")
}

// ServerError is the body of the generic 500 page.
func ServerError() templ.Component {
	return templ.Raw("<h1>Something went wrong</h1>\n<p>Please try again later.</p>\n")
}
