package views

// SiteConfig holds the site-wide values the layout needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page values into the <head>. OpenGraph tags are not
// part of it; they are added to the finished document by the pipeline.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
	Homepage    bool
	Updated     string // YYYY-MM-DD
}
