package resolver

import (
	"context"
	"errors"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/variants"
)

type fixture struct {
	repo  *variants.MemoryRepository
	group uuid.UUID
}

func newFixture(t *testing.T, records ...*variants.Variant) fixture {
	t.Helper()
	repo := variants.NewMemoryRepository()
	group := uuid.New()
	for _, rec := range records {
		rec.GroupID = group
		if rec.Kind == "" {
			rec.Kind = variants.KindPost
		}
		if _, err := repo.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed %s: %v", rec.Locale, err)
		}
	}
	return fixture{repo: repo, group: group}
}

func seed(loc locale.Locale, status variants.Status, code string) *variants.Variant {
	return &variants.Variant{
		ID:        uuid.New(),
		Locale:    loc,
		Slug:      string(loc) + "-slug",
		Status:    status,
		ShortCode: code,
		Title:     "Title " + string(loc),
	}
}

func TestResolveGroupUnknownIsEmpty(t *testing.T) {
	r := New(variants.NewMemoryRepository())

	for _, id := range []string{"nonexistent", uuid.NewString()} {
		got, err := r.ResolveGroup(context.Background(), id)
		if err != nil {
			t.Fatalf("ResolveGroup(%q): unexpected error %v", id, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("ResolveGroup(%q): expected empty slice, got %v", id, got)
		}
	}
}

func TestResolveGroupRejectsEmptyID(t *testing.T) {
	r := New(variants.NewMemoryRepository())
	if _, err := r.ResolveGroup(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolveGroupReturnsSiblings(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusPublished, ""),
		seed(locale.English, variants.StatusDraft, ""),
	)
	r := New(fx.repo)
	got, err := r.ResolveGroup(context.Background(), fx.group.String())
	if err != nil {
		t.Fatalf("ResolveGroup: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(got))
	}
}

func TestResolveGroupWrapsSourceFailure(t *testing.T) {
	boom := errors.New("connection refused")
	r := New(failingReader{err: boom})
	_, err := r.ResolveGroup(context.Background(), uuid.NewString())
	if !IsLookupFailure(err) || !errors.Is(err, boom) {
		t.Fatalf("expected LookupFailure wrapping source error, got %v", err)
	}
}

func TestResolveShortCodeRoundTrip(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusPublished, "abc1234"),
		seed(locale.English, variants.StatusDraft, ""),
	)
	r := New(fx.repo)

	redirect, err := r.ResolveShortCode(context.Background(), "abc1234", locale.English)
	if err != nil {
		t.Fatalf("ResolveShortCode: %v", err)
	}
	if redirect.Path != "/ko/blog/ko-slug" {
		t.Fatalf("expected /ko/blog/ko-slug, got %s", redirect.Path)
	}
	if redirect.RequestedLocale != locale.English {
		t.Fatalf("expected requested locale en, got %s", redirect.RequestedLocale)
	}
}

func TestResolveShortCodeUsesChosenVariantFields(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusPublished, "abc1234"),
		seed(locale.English, variants.StatusPublished, ""),
	)
	r := New(fx.repo)

	redirect, err := r.ResolveShortCode(context.Background(), "abc1234", locale.English)
	if err != nil {
		t.Fatalf("ResolveShortCode: %v", err)
	}
	if redirect.Path != "/en/blog/en-slug" {
		t.Fatalf("expected sibling path /en/blog/en-slug, got %s", redirect.Path)
	}
}

func TestResolveShortCodeDraftRepresentativeWithPublishedSibling(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Japanese, variants.StatusDraft, "jaDraft"),
		seed(locale.Chinese, variants.StatusPublished, ""),
	)
	r := New(fx.repo)

	redirect, err := r.ResolveShortCode(context.Background(), "jaDraft", locale.Japanese)
	if err != nil {
		t.Fatalf("ResolveShortCode: %v", err)
	}
	if redirect.Variant.Locale != locale.Chinese {
		t.Fatalf("expected zh sibling, got %s", redirect.Variant.Locale)
	}
}

func TestResolveShortCodeLandingPath(t *testing.T) {
	landing := seed(locale.Korean, variants.StatusPublished, "land001")
	landing.Kind = variants.KindLanding
	fx := newFixture(t, landing)
	r := New(fx.repo)

	redirect, err := r.ResolveShortCode(context.Background(), "land001", locale.Korean)
	if err != nil {
		t.Fatalf("ResolveShortCode: %v", err)
	}
	if redirect.Path != "/ko/landing/ko-slug" {
		t.Fatalf("expected landing path, got %s", redirect.Path)
	}
}

func TestResolveShortCodeNoPublishedVariant(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusDraft, "nopub01"),
		seed(locale.English, variants.StatusScheduled, ""),
	)
	r := New(fx.repo)

	for _, requested := range locale.All() {
		if _, err := r.ResolveShortCode(context.Background(), "nopub01", requested); !errors.Is(err, ErrNotFound) {
			t.Fatalf("requested %s: expected ErrNotFound, got %v", requested, err)
		}
	}
}

func TestResolveShortCodeErrors(t *testing.T) {
	fx := newFixture(t, seed(locale.Korean, variants.StatusPublished, "abc1234"))
	r := New(fx.repo)

	cases := []struct {
		name string
		code string
		want error
	}{
		{"unknown", "zzz9999", ErrNotFound},
		{"case sensitive", "ABC1234", ErrNotFound},
		{"empty", "", ErrInvalidInput},
		{"bad characters", "../etc", ErrInvalidInput},
		{"too long", "a123456789012345678901234567890123", ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.ResolveShortCode(context.Background(), tc.code, locale.Korean); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolveShortCodeLookupFailure(t *testing.T) {
	r := New(failingReader{err: errors.New("timeout")})
	_, err := r.ResolveShortCode(context.Background(), "abc1234", locale.Korean)
	if !IsLookupFailure(err) {
		t.Fatalf("expected LookupFailure, got %v", err)
	}
}

func TestResolveSlugServesExactVariant(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusPublished, ""),
		seed(locale.English, variants.StatusPublished, ""),
		seed(locale.Japanese, variants.StatusDraft, ""),
	)
	r := New(fx.repo, WithLinks(BaseURLLinks{BaseURL: "https://blog.example.com/"}))

	res, err := r.ResolveSlug(context.Background(), variants.KindPost, locale.English, "en-slug", true)
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if res.Redirect {
		t.Fatalf("expected no redirect for published exact match")
	}
	if res.Metadata.Canonical != "https://blog.example.com/en/blog/en-slug" {
		t.Fatalf("unexpected canonical %s", res.Metadata.Canonical)
	}
	if len(res.Metadata.Alternates) != 3 {
		t.Fatalf("expected ko, en and x-default alternates, got %v", res.Metadata.Alternates)
	}
	if res.Metadata.Alternates[XDefault] != "https://blog.example.com/ko/blog/ko-slug" {
		t.Fatalf("unexpected x-default %s", res.Metadata.Alternates[XDefault])
	}
	if _, ok := res.Metadata.Alternates["ja"]; ok {
		t.Fatalf("draft variant leaked into alternates")
	}
}

func TestResolveSlugRedirectsFromDraft(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusPublished, ""),
		seed(locale.English, variants.StatusDraft, ""),
	)
	r := New(fx.repo)

	res, err := r.ResolveSlug(context.Background(), variants.KindPost, locale.English, "en-slug", true)
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if !res.Redirect || res.Path != "/ko/blog/ko-slug" {
		t.Fatalf("expected redirect to /ko/blog/ko-slug, got redirect=%v path=%s", res.Redirect, res.Path)
	}

	preview, err := r.ResolveSlug(context.Background(), variants.KindPost, locale.English, "en-slug", false)
	if err != nil {
		t.Fatalf("ResolveSlug preview: %v", err)
	}
	if preview.Redirect {
		t.Fatalf("expected preview to serve the draft directly")
	}
}

func TestResolveSlugErrors(t *testing.T) {
	fx := newFixture(t, seed(locale.Korean, variants.StatusPublished, ""))
	r := New(fx.repo)

	if _, err := r.ResolveSlug(context.Background(), variants.KindLanding, locale.Korean, "ko-slug", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected kind mismatch to be not found, got %v", err)
	}
	if _, err := r.ResolveSlug(context.Background(), variants.KindPost, locale.Locale("fr"), "ko-slug", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid locale, got %v", err)
	}
	if _, err := r.ResolveSlug(context.Background(), variants.KindPost, locale.Korean, "bad slug!", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid slug, got %v", err)
	}
}

func TestPreviewGroupAcceptsDrafts(t *testing.T) {
	fx := newFixture(t,
		seed(locale.Korean, variants.StatusDraft, ""),
		seed(locale.English, variants.StatusDraft, ""),
	)
	r := New(fx.repo)

	res, err := r.PreviewGroup(context.Background(), fx.group.String(), locale.English)
	if err != nil {
		t.Fatalf("PreviewGroup: %v", err)
	}
	if res.Variant.Locale != locale.English {
		t.Fatalf("expected en preview, got %s", res.Variant.Locale)
	}
}

func TestBuildAlternateLinksCompleteness(t *testing.T) {
	group := []*variants.Variant{
		variant(locale.Korean, variants.StatusPublished),
		variant(locale.English, variants.StatusDraft),
		variant(locale.Japanese, variants.StatusPublished),
		variant(locale.Chinese, variants.StatusScheduled),
	}
	links, err := BuildAlternateLinks(group, BaseURLLinks{BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("BuildAlternateLinks: %v", err)
	}
	if len(links) != len(group) {
		t.Fatalf("expected %d entries, got %d", len(group), len(links))
	}
	for _, v := range group {
		want := "https://example.com/" + string(v.Locale) + "/blog/" + v.Slug
		if links[v.Locale] != want {
			t.Fatalf("locale %s: expected %s, got %s", v.Locale, want, links[v.Locale])
		}
	}
}

func TestURLKitLinks(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					RoutePost:    "/:locale/blog/:slug",
					RouteLanding: "/:locale/landing/:slug",
				},
			},
		},
	})
	links := NewURLKitLinks(URLKitLinksOptions{Manager: manager})

	landing := variant(locale.English, variants.StatusPublished)
	landing.Kind = variants.KindLanding
	got, err := links.AbsoluteURL(landing)
	if err != nil {
		t.Fatalf("AbsoluteURL: %v", err)
	}
	if got != "https://example.com/en/landing/en-slug" {
		t.Fatalf("unexpected url %s", got)
	}

	missing := NewURLKitLinks(URLKitLinksOptions{Manager: manager, Group: "admin"})
	if _, err := missing.AbsoluteURL(landing); err == nil {
		t.Fatalf("expected unknown group error")
	}
}

type failingReader struct {
	err error
}

func (f failingReader) GetByShortCode(context.Context, string) (*variants.Variant, error) {
	return nil, f.err
}

func (f failingReader) GetBySlug(context.Context, variants.Kind, locale.Locale, string) (*variants.Variant, error) {
	return nil, f.err
}

func (f failingReader) ListByGroup(context.Context, uuid.UUID) ([]*variants.Variant, error) {
	return nil, f.err
}
