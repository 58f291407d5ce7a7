package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/sitemap"
	"github.com/goliatone/go-blog/internal/variants"
)

type publicFixture struct {
	mux    *http.ServeMux
	repo   *variants.MemoryRepository
	visits *inflow.Service
	group  uuid.UUID
	byLoc  map[locale.Locale]*variants.Variant
}

func setupPublicAPI(t *testing.T, statuses map[locale.Locale]variants.Status) publicFixture {
	t.Helper()
	repo := variants.NewMemoryRepository()
	group := uuid.New()
	byLoc := map[locale.Locale]*variants.Variant{}
	for loc, status := range statuses {
		rec := &variants.Variant{
			ID:      uuid.New(),
			GroupID: group,
			Kind:    variants.KindPost,
			Locale:  loc,
			Slug:    "hello-" + loc.String(),
			Status:  status,
			Title:   "Hello " + loc.String(),
		}
		if loc == locale.Korean {
			rec.ShortCode = "abc123"
		}
		created, err := repo.Create(context.Background(), rec)
		if err != nil {
			t.Fatalf("seed %s: %v", loc, err)
		}
		byLoc[loc] = created
	}

	links := resolver.BaseURLLinks{BaseURL: "https://blog.example"}
	visits := inflow.NewService(inflow.NewMemoryStore(), inflow.WithSiteHost("blog.example"))
	api := NewPublicAPI(
		WithResolver(resolver.New(repo, resolver.WithLinks(links))),
		WithVisitRecorder(visits),
		WithSitemap(sitemap.NewBuilder(repo, links)),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return publicFixture{mux: mux, repo: repo, visits: visits, group: group, byLoc: byLoc}
}

func allPublished() map[locale.Locale]variants.Status {
	return map[locale.Locale]variants.Status{
		locale.Korean:   variants.StatusPublished,
		locale.English:  variants.StatusPublished,
		locale.Japanese: variants.StatusPublished,
	}
}

func doGet(t *testing.T, mux *http.ServeMux, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestShortLinkRedirectsByAcceptLanguage(t *testing.T) {
	fx := setupPublicAPI(t, allPublished())

	cases := []struct {
		name    string
		path    string
		header  string
		wantLoc string
	}{
		{name: "english header", path: "/s/abc123", header: "en-US,en;q=0.9", wantLoc: "/en/blog/hello-en"},
		{name: "weighted japanese", path: "/s/abc123", header: "fr;q=0.9,ja;q=0.8", wantLoc: "/ja/blog/hello-ja"},
		{name: "unsupported falls back", path: "/s/abc123", header: "de-DE", wantLoc: "/ko/blog/hello-ko"},
		{name: "missing header", path: "/s/abc123", header: "", wantLoc: "/ko/blog/hello-ko"},
		{name: "lang query wins", path: "/s/abc123?lang=ja", header: "en", wantLoc: "/ja/blog/hello-ja"},
		{name: "chinese missing uses representative", path: "/s/abc123", header: "zh-CN", wantLoc: "/ko/blog/hello-ko"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{"User-Agent": "Mozilla/5.0"}
			if tc.header != "" {
				headers["Accept-Language"] = tc.header
			}
			rec := doGet(t, fx.mux, tc.path, headers)
			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Location"); got != tc.wantLoc {
				t.Fatalf("expected location %q, got %q", tc.wantLoc, got)
			}
		})
	}
}

func TestShortLinkSkipsUnpublishedTranslation(t *testing.T) {
	fx := setupPublicAPI(t, map[locale.Locale]variants.Status{
		locale.Korean:  variants.StatusPublished,
		locale.English: variants.StatusDraft,
	})

	rec := doGet(t, fx.mux, "/s/abc123", map[string]string{"Accept-Language": "en"})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/ko/blog/hello-ko" {
		t.Fatalf("expected korean fallback, got %q", got)
	}
}

func TestShortLinkNotFoundAndInvalidInput(t *testing.T) {
	fx := setupPublicAPI(t, allPublished())

	for _, path := range []string{"/s/missing", "/s/bad!code", "/s/ABC123"} {
		rec := doGet(t, fx.mux, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Error != "not_found" || body.Message != "" {
			t.Fatalf("%s: expected bare not_found body, got %+v", path, body)
		}
	}
}

func TestShortLinkNoPublishedVariantIsNotFound(t *testing.T) {
	fx := setupPublicAPI(t, map[locale.Locale]variants.Status{
		locale.Korean:  variants.StatusDraft,
		locale.English: variants.StatusScheduled,
	})
	if rec := doGet(t, fx.mux, "/s/abc123", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestShortLinkRecordsHumanVisitsOnly(t *testing.T) {
	fx := setupPublicAPI(t, allPublished())
	ctx := context.Background()

	doGet(t, fx.mux, "/s/abc123", map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh)",
		"Accept-Language": "en",
		"Referer":         "https://www.google.com/search?q=hello",
	})
	doGet(t, fx.mux, "/s/abc123", map[string]string{
		"User-Agent":      "Googlebot/2.1 (+http://www.google.com/bot.html)",
		"Accept-Language": "en",
	})

	english := fx.byLoc[locale.English]
	count, err := fx.visits.ViewCount(ctx, english.ID)
	if err != nil {
		t.Fatalf("view count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one human visit, got %d", count)
	}
	sources, err := fx.visits.Sources(ctx, english.ID)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if sources[inflow.SourceSearch] != 1 {
		t.Fatalf("expected search source, got %+v", sources)
	}
}

func TestPageReturnsMetadata(t *testing.T) {
	fx := setupPublicAPI(t, map[locale.Locale]variants.Status{
		locale.Korean:   variants.StatusPublished,
		locale.English:  variants.StatusPublished,
		locale.Japanese: variants.StatusDraft,
	})

	rec := doGet(t, fx.mux, "/en/blog/hello-en", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.ResolvedLocale != "en" || page.RequestedLocale != "en" {
		t.Fatalf("unexpected locales: %+v", page)
	}
	if page.CanonicalURL != "https://blog.example/en/blog/hello-en" {
		t.Fatalf("unexpected canonical %q", page.CanonicalURL)
	}
	if len(page.Alternates) != 3 {
		t.Fatalf("expected ko, en and x-default alternates, got %+v", page.Alternates)
	}
	if _, ok := page.Alternates["ja"]; ok {
		t.Fatalf("draft variant leaked into alternates: %+v", page.Alternates)
	}
	if page.Alternates[resolver.XDefault] != "https://blog.example/ko/blog/hello-ko" {
		t.Fatalf("unexpected x-default %q", page.Alternates[resolver.XDefault])
	}
}

func TestPageRedirectsFromUnpublishedVariant(t *testing.T) {
	fx := setupPublicAPI(t, map[locale.Locale]variants.Status{
		locale.Korean:  variants.StatusDraft,
		locale.English: variants.StatusPublished,
	})

	rec := doGet(t, fx.mux, "/ko/blog/hello-ko", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/en/blog/hello-en" {
		t.Fatalf("unexpected location %q", got)
	}
}

func TestPageRejectsBadInputAsNotFound(t *testing.T) {
	fx := setupPublicAPI(t, allPublished())

	for _, path := range []string{"/fr/blog/hello-en", "/EN/blog/hello-en", "/en/blog/hello-ko", "/en/landing/hello-en"} {
		if rec := doGet(t, fx.mux, path, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestSitemapRoute(t *testing.T) {
	fx := setupPublicAPI(t, allPublished())

	rec := doGet(t, fx.mux, "/sitemap.xml", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://blog.example/en/blog/hello-en</loc>",
		`hreflang="ja"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("sitemap missing %q:\n%s", want, body)
		}
	}
}

type failingResolver struct{}

func (failingResolver) ResolveShortCode(context.Context, string, locale.Locale) (*resolver.Redirect, error) {
	return nil, &resolver.LookupFailure{Op: "short code", Err: errors.New("connection refused")}
}

func (failingResolver) ResolveSlug(context.Context, variants.Kind, locale.Locale, string, bool) (*resolver.Resolution, error) {
	return nil, &resolver.LookupFailure{Op: "slug", Err: errors.New("connection refused")}
}

func TestLookupFailureIsGenericServerError(t *testing.T) {
	mux := http.NewServeMux()
	if err := NewPublicAPI(WithResolver(failingResolver{})).Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, path := range []string{"/s/abc123", "/ko/blog/hello"} {
		rec := doGet(t, mux, path, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("%s: internal detail leaked: %s", path, rec.Body.String())
		}
	}
}
