package pubgraph

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// ErrNotFound is returned when a requested page does not exist.
var ErrNotFound = errors.New("pubgraph: page not found")

// NotFoundPath names the document served for unknown paths.
const NotFoundPath = "404"

// Source loads pages by normalized request path.
type Source interface {
	// Load returns the page for path, or ErrNotFound.
	Load(path string) (Page, error)
	// List returns every servable page, sorted by path.
	List() ([]Page, error)
}

// NormalizePath turns a URL path (or the query form of one) into a request
// path: no leading or trailing slash, no dot segments, no .md suffix.
// The homepage is "".
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := path.Clean("/" + raw)
	p = strings.Trim(p, "/")
	p = strings.TrimSuffix(p, ".md")
	return p
}

// FileSource serves markdown files from a directory tree. "a/b" is looked up
// as a/b.md, then a/b/index.md; the homepage is index.md.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource returns a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{fsys: os.DirFS(dir)}
}

// NewFSSource returns a FileSource reading from fsys.
func NewFSSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

func candidates(p string) []string {
	if p == "" || p == "index" {
		return []string{"index.md"}
	}
	return []string{p + ".md", p + "/index.md"}
}

// Load implements Source.
func (s *FileSource) Load(p string) (Page, error) {
	for _, name := range candidates(p) {
		if !fs.ValidPath(name) {
			continue
		}
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Page{}, fmt.Errorf("read %s: %w", name, err)
		}
		page, err := ParsePage(p, string(data))
		if err != nil {
			return Page{}, fmt.Errorf("parse %s: %w", name, err)
		}
		if info, err := fs.Stat(s.fsys, name); err == nil {
			page.Updated = info.ModTime().UTC().Format("2006-01-02")
		}
		return page, nil
	}
	return Page{}, ErrNotFound
}

// List implements Source. The not-found document is not listed.
func (s *FileSource) List() ([]Page, error) {
	seen := make(map[string]struct{})
	var pages []Page
	err := fs.WalkDir(s.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".md" {
			return nil
		}
		p := pathForFile(name)
		if p == NotFoundPath {
			return nil
		}
		// a.md and a/index.md both map to "a"; Load serves a.md.
		if _, ok := seen[p]; ok {
			return nil
		}
		seen[p] = struct{}{}
		page, err := s.Load(p)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPages(pages)
	return pages, nil
}

// pathForFile maps a file name back to its request path.
func pathForFile(name string) string {
	p := strings.TrimSuffix(name, ".md")
	if p == "index" {
		return ""
	}
	return strings.TrimSuffix(p, "/index")
}

// LayeredSource consults its sources in order; the first one that has a page
// wins.
type LayeredSource []Source

// Load implements Source.
func (l LayeredSource) Load(p string) (Page, error) {
	for _, s := range l {
		page, err := s.Load(p)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return page, err
	}
	return Page{}, ErrNotFound
}

// List implements Source.
func (l LayeredSource) List() ([]Page, error) {
	seen := make(map[string]struct{})
	var pages []Page
	for _, s := range l {
		list, err := s.List()
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			if _, ok := seen[p.Path]; ok {
				continue
			}
			seen[p.Path] = struct{}{}
			pages = append(pages, p)
		}
	}
	sortPages(pages)
	return pages, nil
}

func sortPages(pages []Page) {
	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
}
