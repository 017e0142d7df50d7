package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderHeadingAndParagraph(t *testing.T) {
	got, err := Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, `<h1 id="title">Title</h1>`) {
		t.Errorf("Render heading = %q", got)
	}
	if !strings.Contains(got, "<p>Some <strong>bold</strong> text.</p>") {
		t.Errorf("Render paragraph = %q", got)
	}
}

func TestRenderImage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"![alt](/img/a.png)", `<img src="/img/a.png" alt="alt">`},
		{"![](b.png)", `<img src="b.png" alt="">`},
		{"![x](https://cdn.example.com/c.png)", `<img src="https://cdn.example.com/c.png" alt="x">`},
	}
	for _, tt := range tests {
		got, err := Render(tt.input)
		if err != nil {
			t.Fatalf("Render(%q) failed: %v", tt.input, err)
		}
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderRawHTMLPassesThrough(t *testing.T) {
	input := "<figure><img src=\"/raw.png\"></figure>\n"
	got, err := Render(input)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, `<img src="/raw.png">`) {
		t.Errorf("Render raw html = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	got, err := Render(input)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("Render table = %q", got)
	}
}

func TestRenderTo(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTo(&buf, "hello"); err != nil {
		t.Fatalf("RenderTo failed: %v", err)
	}
	if got := buf.String(); got != "<p>hello</p>\n" {
		t.Errorf("RenderTo output = %q, want %q", got, "<p>hello</p>\n")
	}
}
