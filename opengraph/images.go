package opengraph

import "strings"

// SourceKind classifies an image src value.
type SourceKind int

const (
	// PageRelative sources resolve against the current page's URL.
	PageRelative SourceKind = iota
	// SiteRelative sources start with "/" and resolve against the base URL.
	SiteRelative
	// Absolute sources carry an http or https scheme and are used verbatim.
	Absolute
)

// Classify reports how src is resolved.
func Classify(src string) SourceKind {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return Absolute
	case strings.HasPrefix(src, "/"):
		return SiteRelative
	default:
		return PageRelative
	}
}

// ResolveSource turns src into the URL advertised for it.
//
// Page-relative sources are appended directly to baseURL + "/" + path with no
// further separator, so "b.png" on "blog/post1" becomes ".../blog/post1b.png".
func ResolveSource(src, baseURL, path string) string {
	switch Classify(src) {
	case Absolute:
		return src
	case SiteRelative:
		return baseURL + src
	default:
		return baseURL + "/" + path + src
	}
}

// ImageList holds resolved image URLs in document order. The first entry is
// the share image.
type ImageList []string

// First returns the share image and whether there is one.
func (l ImageList) First() (string, bool) {
	if len(l) == 0 {
		return "", false
	}
	return l[0], true
}

// ResolveImages scans content with scanner and resolves every source found.
// When nothing is found and cfg has a default image, the default is returned
// as the only entry, unresolved.
func ResolveImages(scanner Scanner, content string, cfg Config, path string) ImageList {
	var images ImageList
	for _, src := range scanner.Sources(content) {
		images = append(images, ResolveSource(src, cfg.BaseURL, path))
	}
	if len(images) == 0 && cfg.DefaultImage != "" {
		images = append(images, cfg.DefaultImage)
	}
	return images
}
