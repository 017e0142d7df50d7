package opengraph

// OpenGraph property names, listed in emission order.
const (
	PropType        = "og:type"
	PropTitle       = "og:title"
	PropDescription = "og:description"
	PropURL         = "og:url"
	PropSiteName    = "og:site_name"
	PropImage       = "og:image"
)

// Object types used for og:type.
const (
	TypeWebsite = "website"
	TypeArticle = "article"
)

// Property is a single OpenGraph property/content pair.
type Property struct {
	Name  string
	Value string
}

// PropertyMap is an ordered list of properties. Order determines the order
// of the emitted tags.
type PropertyMap []Property

// Get returns the value of the named property.
func (m PropertyMap) Get(name string) (string, bool) {
	for _, p := range m {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Names returns the property names in order.
func (m PropertyMap) Names() []string {
	names := make([]string, len(m))
	for i, p := range m {
		names[i] = p.Name
	}
	return names
}

// PageURL returns the canonical URL of path under cfg: a path segment when
// URL rewriting is enabled, a query string otherwise.
func PageURL(cfg Config, path string) string {
	if cfg.RewriteURL {
		return cfg.BaseURL + "/" + path
	}
	return cfg.BaseURL + "?" + path
}

// Synthesize builds the properties for a successfully resolved page.
// Callers must not call it for error pages.
func Synthesize(ctx RequestContext, meta Meta, cfg Config, images ImageList) PropertyMap {
	ogType := TypeArticle
	if ctx.IsHomepage {
		ogType = TypeWebsite
	}
	props := PropertyMap{
		{Name: PropType, Value: ogType},
		{Name: PropTitle, Value: meta.Title()},
		{Name: PropDescription, Value: meta.Description()},
		{Name: PropURL, Value: PageURL(cfg, ctx.RequestedPath)},
		{Name: PropSiteName, Value: cfg.SiteTitle},
	}
	if img, ok := images.First(); ok {
		props = append(props, Property{Name: PropImage, Value: img})
	}
	return props
}
