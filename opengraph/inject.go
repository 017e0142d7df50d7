package opengraph

import (
	"fmt"
	"html"
	"strings"
)

// HeadClose is the marker the tags are inserted in front of.
const HeadClose = "</head>"

// Serialize renders props as one indented meta tag per line. Values are
// written as-is unless escape is set.
func Serialize(props PropertyMap, escape bool) string {
	var b strings.Builder
	for _, p := range props {
		value := p.Value
		if escape {
			value = html.EscapeString(value)
		}
		fmt.Fprintf(&b, "\t<meta property=\"%s\" content=\"%s\" />\n", p.Name, value)
	}
	return b.String()
}

// Inject inserts the serialized props, preceded by a line break, immediately
// before the first closing head tag of output. Output without a closing head
// tag, or an empty props, is returned unchanged.
func Inject(output string, props PropertyMap, escape bool) string {
	if len(props) == 0 {
		return output
	}
	idx := strings.Index(output, HeadClose)
	if idx < 0 {
		return output
	}
	block := Serialize(props, escape)
	var b strings.Builder
	b.Grow(len(output) + len(block) + 1)
	b.WriteString(output[:idx])
	b.WriteByte('\n')
	b.WriteString(block)
	b.WriteString(output[idx:])
	return b.String()
}
