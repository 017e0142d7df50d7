package pubgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgraph/views"
)

func testConfig() SiteConfig {
	return SiteConfig{
		BaseURL:    "https://example.com",
		Title:      "Example",
		RewriteURL: true,
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithSource(NewFSSource(testFS()))}, opts...)
	app := New(cfg, opts...)
	require.NoError(t, app.Open())
	app.Setup()
	t.Cleanup(func() { app.Close() })
	return app
}

func get(app *App, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func metaTag(name, value string) string {
	return `<meta property="` + name + `" content="` + value + `" />`
}

func TestServeArticle(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/blog/post1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	want := "\n" +
		"\t" + metaTag("og:type", "article") + "\n" +
		"\t" + metaTag("og:title", "First") + "\n" +
		"\t" + metaTag("og:description", "The first post") + "\n" +
		"\t" + metaTag("og:url", "https://example.com/blog/post1") + "\n" +
		"\t" + metaTag("og:site_name", "Example") + "\n" +
		"\t" + metaTag("og:image", "https://example.com/blog/post1a.png") + "\n" +
		"</head>"
	assert.Contains(t, body, want)
	assert.Equal(t, 1, strings.Count(body, "og:type"))
}

func TestServeTrailingSlashRedirect(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/blog/post1/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/post1", rec.Header().Get("Location"))
}

func TestServeCanonicalURLAnswersDirectly(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/blog/post1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<link rel="canonical" href="https://example.com/blog/post1">`)
	assert.Contains(t, rec.Body.String(), metaTag("og:url", "https://example.com/blog/post1"))

	assert.Equal(t, http.StatusOK, get(app, "/").Code)
}

func TestServeHomepage(t *testing.T) {
	app := newTestApp(t, testConfig())

	body := get(app, "/").Body.String()
	assert.Contains(t, body, metaTag("og:type", "website"))
	assert.Contains(t, body, metaTag("og:url", "https://example.com/"))
	assert.NotContains(t, body, "og:image")
}

func TestServeHomepageDefaultImage(t *testing.T) {
	cfg := testConfig()
	cfg.OpenGraph.DefaultImage = "https://cdn.example.com/og.png"
	app := newTestApp(t, cfg)

	body := get(app, "/").Body.String()
	assert.Contains(t, body, metaTag("og:image", "https://cdn.example.com/og.png"))
}

func TestServeNotFoundHasNoOpenGraph(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing here")
	assert.NotContains(t, rec.Body.String(), "og:")
}

func TestServeBuiltinNotFound(t *testing.T) {
	fsys := testFS()
	delete(fsys, "404.md")
	app := newTestApp(t, testConfig(), WithSource(NewFSSource(fsys)))

	rec := get(app, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
	assert.NotContains(t, rec.Body.String(), "og:")
}

func TestServeQueryForm(t *testing.T) {
	cfg := testConfig()
	cfg.RewriteURL = false
	app := newTestApp(t, cfg)

	for _, target := range []string{"/?blog/post1", "/?blog%2Fpost1", "/?blog/post1&utm=x"} {
		t.Run(target, func(t *testing.T) {
			rec := get(app, target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), metaTag("og:url", "https://example.com?blog/post1"))
		})
	}

	rec := get(app, "/?utm_source=feed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), metaTag("og:type", "website"))
}

func TestServeOpenGraphDisabled(t *testing.T) {
	cfg := testConfig()
	disabled := false
	cfg.OpenGraph.Enabled = &disabled
	app := newTestApp(t, cfg)

	rec := get(app, "/blog/post1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "og:")
}

type recordingPlugin struct {
	events *[]string
}

func (p recordingPlugin) OnConfigLoaded(map[string]any) { *p.events = append(*p.events, "config") }
func (p recordingPlugin) OnRequestResolved(path string) {
	*p.events = append(*p.events, "request:"+path)
}
func (p recordingPlugin) OnErrorContentLoaded()          { *p.events = append(*p.events, "error") }
func (p recordingPlugin) OnPageMetaParsed(map[string]any) { *p.events = append(*p.events, "meta") }
func (p recordingPlugin) OnContentRendered(content string) string {
	*p.events = append(*p.events, "content")
	return content + "<p>footer</p>"
}
func (p recordingPlugin) OnOutputFinalized(output string) string {
	*p.events = append(*p.events, "output")
	return output
}

func TestPluginLifecycle(t *testing.T) {
	var events []string
	app := newTestApp(t, testConfig(), WithPlugin(func() Plugin { return recordingPlugin{events: &events} }))

	res, err := app.RenderPage(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "request:about", "meta", "content", "output"}, events)
	assert.Contains(t, res.HTML, "<p>footer</p>")
	assert.Contains(t, res.HTML, metaTag("og:title", "About"))

	events = nil
	res, err = app.RenderPage(context.Background(), "missing")
	require.NoError(t, err)
	assert.True(t, res.NotFound)
	assert.Equal(t, []string{"config", "request:missing", "error", "meta", "content", "output"}, events)
}

func TestSitemap(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, loc := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/about</loc>",
		"<loc>https://example.com/blog</loc>",
		"<loc>https://example.com/blog/post1</loc>",
	} {
		assert.Contains(t, body, loc)
	}
	assert.NotContains(t, body, "404")
	assert.Equal(t, 1, strings.Count(body, "<loc>https://example.com/</loc>"))
}

func TestRobots(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t, testConfig())

	get(app, "/blog/post1")
	get(app, "/missing")

	rec := get(app, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `pubgraph_pages_rendered_total{status="200"} 1`)
	assert.Contains(t, body, `pubgraph_pages_rendered_total{status="404"} 1`)
	assert.Contains(t, body, "pubgraph_opengraph_injected_total 1")
	assert.Contains(t, body, "pubgraph_opengraph_suppressed_total 1")
}

func TestAdminRoutesDisabledWithoutSecrets(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app, "/admin/pages/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// adminClient carries cookies and the CSRF token between requests.
type adminClient struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
	csrf    string
}

func (c *adminClient) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	var msg struct {
		CSRF string `json:"csrf"`
	}
	if json.Unmarshal(rec.Body.Bytes(), &msg) == nil && msg.CSRF != "" {
		c.csrf = msg.CSRF
	}
	return rec
}

func newAdminApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "about.md"), []byte("---\ntitle: About\n---\nFrom disk\n"), 0o644))

	cfg := testConfig()
	cfg.ContentDir = content
	cfg.DatabasePath = filepath.Join(dir, "data", "pages.db")
	cfg.AdminPassword = "hunter2"
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"

	app := New(cfg)
	require.NoError(t, app.Open())
	app.Setup()
	t.Cleanup(func() { app.Close() })
	return app, content
}

func TestAdminFlow(t *testing.T) {
	app, _ := newAdminApp(t)
	client := &adminClient{t: t, app: app, cookies: map[string]*http.Cookie{}}

	rec := client.do(http.MethodGet, "/admin/pages/", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, client.csrf)

	form := url.Values{"password": {"wrong"}}.Encode()
	rec = client.do(http.MethodPost, "/admin/login/", "application/x-www-form-urlencoded", form)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	form = url.Values{"password": {"hunter2"}}.Encode()
	rec = client.do(http.MethodPost, "/admin/login/", "application/x-www-form-urlencoded", form)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := "---\ntitle: News\ndescription: Latest\n---\n![x](/img/x.png)\n"
	rec = client.do(http.MethodPut, "/admin/pages/news", "text/markdown", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = client.do(http.MethodPut, "/admin/pages/about", "text/markdown", "---\ntitle: About (db)\n---\nFrom store\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = client.do(http.MethodGet, "/admin/pages/news", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, doc, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, client.do(http.MethodGet, "/admin/pages/nope", "", "").Code)

	page := get(app, "/news")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), metaTag("og:title", "News"))
	assert.Contains(t, page.Body.String(), metaTag("og:image", "https://example.com/img/x.png"))

	page = get(app, "/about")
	assert.Contains(t, page.Body.String(), "From store")

	rec = client.do(http.MethodGet, "/admin/pages/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list adminPageList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Pages, 2)
	assert.Equal(t, "about", list.Pages[0].Path)
	assert.Equal(t, "https://example.com/news", list.Pages[1].URL)

	rec = client.do(http.MethodDelete, "/admin/pages/news", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, get(app, "/news").Code)

	rec = client.do(http.MethodDelete, "/admin/pages/news", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = client.do(http.MethodPost, "/admin/logout/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = client.do(http.MethodPut, "/admin/pages/news", "text/markdown", doc)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRejectsMissingCSRF(t *testing.T) {
	app, _ := newAdminApp(t)

	req := httptest.NewRequest(http.MethodPut, "/admin/pages/news", strings.NewReader("body"))
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminLoginRateLimit(t *testing.T) {
	app, _ := newAdminApp(t)
	client := &adminClient{t: t, app: app, cookies: map[string]*http.Cookie{}}
	client.do(http.MethodGet, "/admin/pages/", "", "")

	form := url.Values{"password": {"wrong"}}.Encode()
	for i := 0; i < 5; i++ {
		rec := client.do(http.MethodPost, "/admin/login/", "application/x-www-form-urlencoded", form)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := client.do(http.MethodPost, "/admin/login/", "application/x-www-form-urlencoded", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestWatchContentInvalidatesCache(t *testing.T) {
	app, content := newAdminApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- app.WatchContent(ctx) }()

	pages, err := app.Cache.List()
	require.NoError(t, err)
	require.Len(t, pages, 1)

	fresh := filepath.Join(content, "fresh.md")
	assert.Eventually(t, func() bool {
		if err := os.WriteFile(fresh, []byte("---\ntitle: Fresh\n---\n"), 0o644); err != nil {
			return false
		}
		pages, err := app.Cache.List()
		return err == nil && len(pages) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStoredHomepageServedAtIndex(t *testing.T) {
	app, _ := newAdminApp(t)
	require.NoError(t, app.Store.SavePage(Page{Path: "", Raw: "title: Stored home", Body: "from the store"}))

	for _, p := range []string{"", "index"} {
		res, err := app.RenderPage(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status, "path %q", p)
		assert.Contains(t, res.HTML, "from the store")
		assert.Contains(t, res.HTML, metaTag("og:type", "website"))
	}
}

func customLayout(head bool) LayoutFunc {
	return func(site views.SiteConfig, meta views.PageMeta, body templ.Component) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			open := "<html><head><title>" + meta.Title + " / " + site.Name + "</title></head><body>"
			if !head {
				open = "<html><body>"
			}
			if _, err := io.WriteString(w, open); err != nil {
				return err
			}
			if err := body.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</body></html>")
			return err
		})
	}
}

func TestCustomLayout(t *testing.T) {
	app := newTestApp(t, testConfig(), WithLayout(customLayout(true)))

	res, err := app.RenderPage(context.Background(), "blog/post1")
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<title>First / Example</title>\n")
	assert.Contains(t, res.HTML, metaTag("og:image", "https://example.com/blog/post1a.png")+"\n</head>")
	assert.Contains(t, res.HTML, `<img src="a.png" alt="a">`)
}

func TestCustomLayoutWithoutHead(t *testing.T) {
	app := newTestApp(t, testConfig(), WithLayout(customLayout(false)))

	res, err := app.RenderPage(context.Background(), "blog/post1")
	require.NoError(t, err)
	assert.NotContains(t, res.HTML, "og:")
}
