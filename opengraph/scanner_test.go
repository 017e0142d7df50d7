package opengraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const scannerFixture = `<p>intro</p>
<p><img src="/a.png" alt="a"></p>
<IMG SRC="b.png">
<img alt="no source">
<img src='c.png'>
<img class="wide" src="d.png" />
<img>`

func TestRegexpScanner(t *testing.T) {
	got := RegexpScanner{}.Sources(scannerFixture)
	assert.Equal(t, []string{"/a.png", "b.png", "d.png"}, got)
}

func TestRegexpScannerEmpty(t *testing.T) {
	assert.Empty(t, RegexpScanner{}.Sources(""))
	assert.Empty(t, RegexpScanner{}.Sources("<p>text only</p>"))
}

func TestHTMLScanner(t *testing.T) {
	got := HTMLScanner{}.Sources(scannerFixture)
	assert.Equal(t, []string{"/a.png", "b.png", "c.png", "d.png"}, got)
}

func TestHTMLScannerDecodesEntities(t *testing.T) {
	got := HTMLScanner{}.Sources(`<img src="/a.png?w=1&amp;h=2">`)
	assert.Equal(t, []string{"/a.png?w=1&h=2"}, got)
}

func TestHTMLScannerSkipsEmptySource(t *testing.T) {
	got := HTMLScanner{}.Sources(`<img src><img src=""><img src="e.png">`)
	assert.Equal(t, []string{"e.png"}, got)
}

func TestHTMLScannerEmptySourceFallsBackToDefault(t *testing.T) {
	cfg := Config{BaseURL: "http://x.com", DefaultImage: "http://x.com/default.png"}
	got := ResolveImages(HTMLScanner{}, `<img src>`, cfg, "blog/p")
	assert.Equal(t, ImageList{"http://x.com/default.png"}, got)
}

func TestScannerFor(t *testing.T) {
	assert.IsType(t, HTMLScanner{}, ScannerFor("html"))
	assert.IsType(t, HTMLScanner{}, ScannerFor(" HTML "))
	assert.IsType(t, RegexpScanner{}, ScannerFor("regexp"))
	assert.IsType(t, RegexpScanner{}, ScannerFor(""))
	assert.IsType(t, RegexpScanner{}, ScannerFor("unknown"))
}
