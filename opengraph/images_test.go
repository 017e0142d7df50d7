package opengraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHomepage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"index", true},
		{"about", false},
		{"blog/index", false},
		{"Index", false},
		{"/", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHomepage(tt.path), "IsHomepage(%q)", tt.path)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		src  string
		want SourceKind
	}{
		{"http://cdn.example.com/a.png", Absolute},
		{"https://cdn.example.com/a.png", Absolute},
		{"/img/a.png", SiteRelative},
		{"a.png", PageRelative},
		{"./a.png", PageRelative},
		{"", PageRelative},
		{"ftp://host/a.png", PageRelative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.src), "Classify(%q)", tt.src)
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
		want string
	}{
		{"site root", "/a.png", "anything", "http://x.com/a.png"},
		{"page relative joins without separator", "b.png", "blog/post1", "http://x.com/blog/post1b.png"},
		{"page relative on homepage", "b.png", "", "http://x.com/b.png"},
		{"http kept", "http://cdn.example.com/c.png", "blog/post1", "http://cdn.example.com/c.png"},
		{"https kept", "https://cdn.example.com/c.png", "blog/post1", "https://cdn.example.com/c.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSource(tt.src, "http://x.com", tt.path))
		})
	}
}

func TestResolveSourceAbsoluteIsStable(t *testing.T) {
	src := "https://cdn.example.com/a.png"
	once := ResolveSource(src, "http://x.com", "p")
	twice := ResolveSource(once, "http://x.com", "p")
	assert.Equal(t, src, once)
	assert.Equal(t, once, twice)
}

func TestResolveImages(t *testing.T) {
	cfg := Config{BaseURL: "http://x.com", DefaultImage: "/img/default.jpg"}

	t.Run("document order", func(t *testing.T) {
		content := `<p><img src="/a.png"></p><p><img src="b.png"><img src="https://c.com/c.png"></p>`
		got := ResolveImages(RegexpScanner{}, content, cfg, "blog/post1")
		assert.Equal(t, ImageList{
			"http://x.com/a.png",
			"http://x.com/blog/post1b.png",
			"https://c.com/c.png",
		}, got)
	})

	t.Run("fallback stored verbatim", func(t *testing.T) {
		got := ResolveImages(RegexpScanner{}, "<p>no images here</p>", cfg, "blog/post1")
		assert.Equal(t, ImageList{"/img/default.jpg"}, got)
	})

	t.Run("no fallback when images found", func(t *testing.T) {
		got := ResolveImages(RegexpScanner{}, `<img src="/a.png">`, cfg, "")
		assert.Equal(t, ImageList{"http://x.com/a.png"}, got)
	})

	t.Run("nothing without default", func(t *testing.T) {
		got := ResolveImages(RegexpScanner{}, "<p></p>", Config{BaseURL: "http://x.com"}, "")
		assert.Empty(t, got)
		_, ok := got.First()
		assert.False(t, ok)
	})

	t.Run("only tags without src use fallback", func(t *testing.T) {
		got := ResolveImages(RegexpScanner{}, `<img alt="no source">`, cfg, "")
		assert.Equal(t, ImageList{"/img/default.jpg"}, got)
	})
}
