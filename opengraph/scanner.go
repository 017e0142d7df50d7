package opengraph

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Scanner finds image sources in rendered content, in document order.
// Tags without a source are skipped rather than reported.
type Scanner interface {
	Sources(content string) []string
}

var (
	reImgTag = regexp.MustCompile(`(?i)<img[^>]+>`)
	reImgSrc = regexp.MustCompile(`(?i)src="([^"]*)"`)
)

// RegexpScanner matches opening img tags with a pattern and reads the first
// double-quoted src attribute of each. Single-quoted or unquoted sources are
// not recognized.
type RegexpScanner struct{}

// Sources implements Scanner.
func (RegexpScanner) Sources(content string) []string {
	var sources []string
	for _, tag := range reImgTag.FindAllString(content, -1) {
		m := reImgSrc.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		sources = append(sources, m[1])
	}
	return sources
}

// HTMLScanner tokenizes the content and reads the src attribute of every img
// element regardless of quoting. Entity references in values are decoded.
// An empty or valueless src counts as no source.
type HTMLScanner struct{}

// Sources implements Scanner.
func (HTMLScanner) Sources(content string) []string {
	var sources []string
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the scan is over.
			return sources
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" {
					if len(val) > 0 {
						sources = append(sources, string(val))
					}
					break
				}
				if !more {
					break
				}
			}
		}
	}
}

// ScannerFor returns the scanner registered under name. Unknown names select
// the RegexpScanner.
func ScannerFor(name string) Scanner {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html":
		return HTMLScanner{}
	default:
		return RegexpScanner{}
	}
}
