package pubgraph

// Page is a content document as loaded from a Source: front matter plus a
// markdown body.
type Page struct {
	Path    string         // normalized request path, "" for the homepage
	Meta    map[string]any // parsed front matter
	Raw     string         // front matter as written, without delimiters
	Body    string         // markdown after the front matter
	Updated string         // YYYY-MM-DD, empty when unknown
}

// Title returns the front matter title, or "" when absent.
func (p Page) Title() string {
	s, _ := p.Meta["title"].(string)
	return s
}

// Description returns the front matter description, or "" when absent.
func (p Page) Description() string {
	s, _ := p.Meta["description"].(string)
	return s
}

// RenderResult is the outcome of rendering one request path.
type RenderResult struct {
	Path   string
	Status int
	HTML   string
	// NotFound is set when the not-found document was served.
	NotFound bool
}
