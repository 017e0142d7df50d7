package pubgraph

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter is returned when a document opens a front matter
// block but never closes it.
var ErrMissingClosingDelimiter = errors.New("front matter: missing closing ---")

// SplitFrontMatter separates YAML front matter (`---` delimited) from the
// markdown body. Documents that do not start with `---` have no front matter
// and body is the whole input.
func SplitFrontMatter(doc string) (front, body string, err error) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	nl := "\n"
	if strings.Contains(doc, "\r\n") {
		nl = "\r\n"
	}
	delim := "---" + nl
	if !strings.HasPrefix(doc, delim) {
		return "", doc, nil
	}
	rest := doc[len(delim):]
	if strings.HasPrefix(rest, delim) {
		return "", rest[len(delim):], nil
	}
	if idx := strings.Index(rest, nl+delim); idx >= 0 {
		return rest[:idx], rest[idx+len(nl+delim):], nil
	}
	if strings.HasSuffix(rest, nl+"---") {
		return strings.TrimSuffix(rest, nl+"---"), "", nil
	}
	return "", "", ErrMissingClosingDelimiter
}

// ParseFrontMatter decodes YAML front matter into a map. Empty input yields
// an empty map.
func ParseFrontMatter(front string) (map[string]any, error) {
	meta := map[string]any{}
	if strings.TrimSpace(front) == "" {
		return meta, nil
	}
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// ParsePage builds a Page for path from a raw document.
func ParsePage(path, doc string) (Page, error) {
	front, body, err := SplitFrontMatter(doc)
	if err != nil {
		return Page{}, err
	}
	meta, err := ParseFrontMatter(front)
	if err != nil {
		return Page{}, err
	}
	return Page{Path: path, Meta: meta, Raw: front, Body: body}, nil
}

// FormatPage reassembles a page into its document form.
func FormatPage(p Page) string {
	if strings.TrimSpace(p.Raw) == "" {
		return p.Body
	}
	raw := strings.TrimSuffix(p.Raw, "\n")
	return "---\n" + raw + "\n---\n" + p.Body
}
