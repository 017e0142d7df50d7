package opengraph

// HomeIdentifier is the request path that, like the empty path, names the
// site's root document.
const HomeIdentifier = "index"

// RequestContext classifies the request being rendered.
type RequestContext struct {
	RequestedPath string
	IsHomepage    bool
	IsErrorPage   bool
}

// IsHomepage reports whether path addresses the site's root document.
func IsHomepage(path string) bool {
	return path == "" || path == HomeIdentifier
}

// Meta is the front matter the host parsed from the content file.
// Only title and description are read.
type Meta map[string]any

// Title returns the title entry, or "" when absent.
func (m Meta) Title() string { return stringValue(m["title"]) }

// Description returns the description entry, or "" when absent.
func (m Meta) Description() string { return stringValue(m["description"]) }
