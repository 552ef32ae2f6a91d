package main

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/repository"
	"github.com/debemdeboas/second-chance/internal/sink"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-data")

type testServer struct {
	app *app
	h   http.Handler

	mu          sync.Mutex
	submissions []model.Submission
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Compression = false

	ts := &testServer{}
	s := sink.Func(func(_ context.Context, sub model.Submission) error {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		ts.submissions = append(ts.submissions, sub)
		return nil
	})

	listings := repository.NewMemoryListingRepository(append(model.DefaultListings(),
		model.Listing{ID: 2, Title: "Sofa", Category: "Möbel", Price: "50€"}))

	a, err := newApp(cfg, content, listings, s, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(a.close)

	ts.app = a
	ts.h = a.routes()
	return ts
}

func (ts *testServer) submissionCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.submissions)
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(t *testing.T, target string, cookies []*http.Cookie, fields map[string]string, images ...string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for _, name := range images {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		fw.Write(pngBytes)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.do(req)
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

func TestServeIndex(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 OK, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "deny" {
		t.Errorf("Expected secure headers, got X-Frame-Options %q", got)
	}

	doc := document(t, rec)
	if got := doc.Find(".site-title").Text(); !strings.Contains(got, "Second Chance") || !strings.Contains(got, "for you") {
		t.Errorf("Expected the headline, got %q", got)
	}
	if doc.Find("article.card").Length() != 2 {
		t.Errorf("Expected 2 cards, got %d", doc.Find("article.card").Length())
	}
	if doc.Find("form#upload-form").Length() != 0 {
		t.Error("Expected no upload form")
	}

	t.Run("Admin view", func(t *testing.T) {
		doc := document(t, ts.do(httptest.NewRequest(http.MethodGet, "/?admin=1234", nil)))
		if doc.Find("form#upload-form").Length() != 1 {
			t.Error("Expected the upload form")
		}
	})

	t.Run("Unknown path", func(t *testing.T) {
		if rec := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil)); rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestStaticAndRobots(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(config.HETag) == "" {
		t.Error("Expected an ETag for static files")
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if !strings.Contains(rec.Body.String(), "Disallow: /drafts/") {
		t.Errorf("Unexpected robots.txt %q", rec.Body.String())
	}
}

func TestThemeToggle(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: config.DarkTheme})
	rec := ts.do(req)

	var got string
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.CookieTheme {
			got = c.Value
		}
	}
	if got != config.LightTheme {
		t.Errorf("Expected theme %q, got %q", config.LightTheme, got)
	}
}

func TestDraftEndpointsAreGated(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{"/drafts/images", "/drafts/submit", "/drafts/discard", "/drafts/submit?admin=12345"} {
		rec := ts.post(t, target, nil, map[string]string{"title": "Sofa"}, "a.png")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rec.Code)
		}
	}
	if ts.submissionCount() != 0 {
		t.Errorf("Expected no submissions, got %d", ts.submissionCount())
	}
}

func TestUploadFlow(t *testing.T) {
	ts := newTestServer(t)
	fields := map[string]string{
		"title":       "Sofa",
		"category":    "Möbel",
		"price":       "50€",
		"location":    "Berlin",
		"description": "Bequem",
	}

	// Submitting without images re-renders the page with the warning.
	rec := ts.post(t, "/drafts/submit?admin=1234", nil, fields)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
	doc := document(t, rec)
	if !strings.Contains(doc.Find(".message-warning").Text(), "Bitte mindestens ein Bild auswählen") {
		t.Error("Expected the no-image warning")
	}
	if v, _ := doc.Find("input[name=title]").Attr("value"); v != "Sofa" {
		t.Errorf("Expected the title to be kept, got %q", v)
	}
	if ts.submissionCount() != 0 {
		t.Fatalf("Expected the sink not to be called, got %d", ts.submissionCount())
	}
	cookies := rec.Result().Cookies()

	// Selecting images shows previews.
	rec = ts.post(t, "/drafts/images?admin=1234", cookies, nil, "a.png", "b.png")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/?admin=1234", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	doc = document(t, ts.do(req))
	previews := doc.Find("img.preview")
	if previews.Length() != 2 {
		t.Fatalf("Expected 2 previews, got %d", previews.Length())
	}
	if alt, _ := previews.First().Attr("alt"); alt != "Vorschau 1" {
		t.Errorf("Expected 'Vorschau 1', got %q", alt)
	}
	previewURL, _ := previews.First().Attr("src")

	rec = ts.do(httptest.NewRequest(http.MethodGet, previewURL, nil))
	if rec.Code != http.StatusOK || rec.Header().Get(config.HCType) != "image/png" {
		t.Fatalf("Expected the preview image, got %d %q", rec.Code, rec.Header().Get(config.HCType))
	}
	if body, _ := io.ReadAll(rec.Body); !bytes.Equal(body, pngBytes) {
		t.Error("Expected the preview to serve the selected bytes")
	}

	// Reselecting releases the old previews.
	ts.post(t, "/drafts/images?admin=1234", cookies, nil, "c.png")
	if rec := ts.do(httptest.NewRequest(http.MethodGet, previewURL, nil)); rec.Code != http.StatusNotFound {
		t.Errorf("Expected the old preview to be released, got %d", rec.Code)
	}
	if n := ts.app.previews.Outstanding(); n != 1 {
		t.Errorf("Expected 1 outstanding preview, got %d", n)
	}

	// Submitting hands the draft to the sink once.
	rec = ts.post(t, "/drafts/submit?admin=1234", cookies, fields)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if ts.submissionCount() != 1 {
		t.Fatalf("Expected one submission, got %d", ts.submissionCount())
	}
	sub := ts.submissions[0]
	if sub.Title != "Sofa" || sub.Category != "Möbel" || sub.Location != "Berlin" || len(sub.Images) != 1 || sub.Images[0].Name != "c.png" {
		t.Errorf("Unexpected submission %+v", sub)
	}

	req = httptest.NewRequest(http.MethodGet, rec.Header().Get(config.HLocation), nil)
	doc = document(t, ts.do(req))
	if got := doc.Find(".message-notice").Text(); got != "Produkt hochgeladen" {
		t.Errorf("Expected the success notice, got %q", got)
	}

	// Discarding releases everything.
	rec = ts.post(t, "/drafts/discard?admin=1234", cookies, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if n := ts.app.previews.Outstanding(); n != 0 {
		t.Errorf("Expected no outstanding previews, got %d", n)
	}
}

func TestImageSelectionKeepsFormAndFilter(t *testing.T) {
	ts := newTestServer(t)
	target := "/?admin=1234&q=sofa&category=" + url.QueryEscape("Möbel")

	rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
	cookies := rec.Result().Cookies()
	doc := document(t, rec)
	form := doc.Find("form#upload-form")
	if form.Find("input[name=title]").Length() != 1 || form.Find("input[type=file]").Length() != 1 {
		t.Fatal("Expected the text fields and the image picker in one form")
	}
	action, ok := form.Find("button#select-images").Attr("formaction")
	if !ok {
		t.Fatal("Expected the image selection button")
	}

	rec = ts.post(t, action, cookies, map[string]string{"title": "Typed title", "category": "Möbel"}, "sofa.png")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get(config.HLocation))
	if err != nil {
		t.Fatalf("Bad location: %v", err)
	}
	if q := loc.Query(); q.Get("q") != "sofa" || q.Get("category") != "Möbel" || q.Get("admin") != "1234" {
		t.Errorf("Expected the filter to be kept, got %q", loc)
	}

	req := httptest.NewRequest(http.MethodGet, loc.String(), nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	doc = document(t, ts.do(req))
	if v, _ := doc.Find("input[name=title]").Attr("value"); v != "Typed title" {
		t.Errorf("Expected the typed title to survive, got %q", v)
	}
	if doc.Find("img.preview").Length() != 1 {
		t.Errorf("Expected one preview, got %d", doc.Find("img.preview").Length())
	}
	if got := doc.Find("article.card .card-title").Text(); got != "Sofa" {
		t.Errorf("Expected the filtered result, got %q", got)
	}
	href, _ := doc.Find("article.card a").Attr("href")
	if u, _ := url.Parse(href); u.Path != "/listings/2" || u.Query().Get("admin") != "1234" {
		t.Errorf("Expected the card link to keep the admin view, got %q", href)
	}
}
