package opengraph

import (
	"fmt"
	"strconv"
)

// Settings keys read from the host configuration mapping.
const (
	KeyBaseURL      = "base_url"
	KeySiteTitle    = "site_title"
	KeyRewriteURL   = "rewrite_url"
	KeySection      = "opengraph"
	KeyDefaultImage = "default_image"
	KeyEscape       = "escape_values"
	KeyScanner      = "scanner"
)

// Config is the snapshot of site settings the pipeline reads. It is copied
// once from the host mapping and never mutated afterwards.
type Config struct {
	BaseURL      string
	SiteTitle    string
	RewriteURL   bool
	DefaultImage string // empty means no fallback image

	// EscapeValues HTML-escapes property values when serializing.
	EscapeValues bool
	// Scanner selects the image scanner: "regexp" (default) or "html".
	Scanner string
}

// ConfigFromSettings builds a Config from the host settings mapping.
// Missing or mistyped keys fall back to zero values; nothing is validated.
func ConfigFromSettings(settings map[string]any) Config {
	cfg := Config{
		BaseURL:    stringValue(settings[KeyBaseURL]),
		SiteTitle:  stringValue(settings[KeySiteTitle]),
		RewriteURL: boolValue(settings[KeyRewriteURL]),
	}
	section := mapValue(settings[KeySection])
	cfg.DefaultImage = stringValue(section[KeyDefaultImage])
	cfg.EscapeValues = boolValue(section[KeyEscape])
	cfg.Scanner = stringValue(section[KeyScanner])
	return cfg
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func boolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	case int:
		return b != 0
	case int64:
		return b != 0
	default:
		return false
	}
}

func mapValue(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	default:
		return nil
	}
}
