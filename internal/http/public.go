package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Resolver is the resolution surface the public routes depend on.
type Resolver interface {
	ResolveShortCode(ctx context.Context, code string, requested locale.Locale) (*resolver.Redirect, error)
	ResolveSlug(ctx context.Context, kind variants.Kind, loc locale.Locale, slug string, requirePublished bool) (*resolver.Resolution, error)
}

// VisitRecorder stores page views.
type VisitRecorder interface {
	Record(ctx context.Context, in inflow.VisitInput) (bool, error)
}

// SitemapRenderer renders the sitemap document.
type SitemapRenderer interface {
	Render(ctx context.Context) ([]byte, error)
}

// PublicAPI registers the reader facing routes.
type PublicAPI struct {
	resolver Resolver
	visits   VisitRecorder
	sitemap  SitemapRenderer
	logger   interfaces.Logger
}

type PublicOption func(*PublicAPI)

func WithResolver(r Resolver) PublicOption {
	return func(api *PublicAPI) {
		if api != nil {
			api.resolver = r
		}
	}
}

// WithVisitRecorder enables inflow recording on redirects and page reads.
func WithVisitRecorder(recorder VisitRecorder) PublicOption {
	return func(api *PublicAPI) {
		if api != nil {
			api.visits = recorder
		}
	}
}

func WithSitemap(renderer SitemapRenderer) PublicOption {
	return func(api *PublicAPI) {
		if api != nil {
			api.sitemap = renderer
		}
	}
}

func WithPublicLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

func NewPublicAPI(opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register attaches the public endpoints to the provided mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: public api is nil")
	}
	mux.HandleFunc("GET /s/{code}", api.handleShortLink)
	mux.HandleFunc("GET /{locale}/blog/{slug}", api.handlePage(variants.KindPost))
	mux.HandleFunc("GET /{locale}/landing/{slug}", api.handlePage(variants.KindLanding))
	mux.HandleFunc("GET /sitemap.xml", api.handleSitemap)
	return nil
}

// pageResponse is the JSON view of a resolved page.
type pageResponse struct {
	ID              string            `json:"id"`
	GroupID         string            `json:"group_id"`
	Kind            variants.Kind     `json:"kind"`
	Slug            string            `json:"slug"`
	Title           string            `json:"title"`
	Summary         string            `json:"summary,omitempty"`
	BodyHTML        string            `json:"body_html,omitempty"`
	RequestedLocale string            `json:"requested_locale"`
	ResolvedLocale  string            `json:"resolved_locale"`
	CanonicalURL    string            `json:"canonical_url"`
	Alternates      map[string]string `json:"alternates,omitempty"`
}

func (api *PublicAPI) handleShortLink(w http.ResponseWriter, r *http.Request) {
	if api.resolver == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	code := r.PathValue("code")
	requested := requestedLocale(r)
	ctx := logging.ContextWithFields(r.Context(), map[string]any{
		"short_code":       code,
		"requested_locale": requested.String(),
	})

	redirect, err := api.resolver.ResolveShortCode(ctx, code, requested)
	if err != nil {
		api.logFailure(ctx, "http.short_link.failed", err)
		writePublicError(w, err)
		return
	}

	api.record(ctx, r, redirect.Variant, redirect.Path, code)
	http.Redirect(w, r, redirect.Path, http.StatusFound)
}

func (api *PublicAPI) handlePage(kind variants.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.resolver == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
			return
		}
		slug := r.PathValue("slug")
		loc, err := validation.Locale(r.PathValue("locale"))
		if err != nil {
			writePublicError(w, err)
			return
		}
		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"kind":   string(kind),
			"locale": loc.String(),
			"slug":   slug,
		})

		resolution, err := api.resolver.ResolveSlug(ctx, kind, loc, slug, true)
		if err != nil {
			api.logFailure(ctx, "http.page.failed", err)
			writePublicError(w, err)
			return
		}
		if resolution.Redirect {
			http.Redirect(w, r, resolution.Path, http.StatusFound)
			return
		}

		chosen := resolution.Variant
		api.record(ctx, r, chosen, resolution.Path, "")
		writeJSON(w, http.StatusOK, pageResponse{
			ID:              chosen.ID.String(),
			GroupID:         chosen.GroupID.String(),
			Kind:            chosen.Kind,
			Slug:            chosen.Slug,
			Title:           chosen.Title,
			Summary:         chosen.Summary,
			BodyHTML:        chosen.BodyHTML,
			RequestedLocale: resolution.RequestedLocale.String(),
			ResolvedLocale:  chosen.Locale.String(),
			CanonicalURL:    resolution.Metadata.Canonical,
			Alternates:      resolution.Metadata.Alternates,
		})
	}
}

func (api *PublicAPI) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if api.sitemap == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	body, err := api.sitemap.Render(r.Context())
	if err != nil {
		api.logFailure(r.Context(), "http.sitemap.failed", err)
		writePublicError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// record stores the visit. Failures are logged and never change the response.
func (api *PublicAPI) record(ctx context.Context, r *http.Request, v *variants.Variant, path, code string) {
	if api.visits == nil || v == nil {
		return
	}
	_, err := api.visits.Record(ctx, inflow.VisitInput{
		VariantID: v.ID,
		GroupID:   v.GroupID,
		Locale:    v.Locale,
		Path:      path,
		ShortCode: code,
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		logging.FromContext(api.logger, ctx).Warn("http.inflow.record_failed", "error", err)
	}
}

func (api *PublicAPI) logFailure(ctx context.Context, msg string, err error) {
	logger := logging.FromContext(api.logger, ctx)
	if resolver.IsLookupFailure(err) {
		logger.Error(msg, "error", err)
		return
	}
	logger.Debug(msg, "error", err)
}

// requestedLocale prefers ?lang= over Accept-Language.
func requestedLocale(r *http.Request) locale.Locale {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		if loc, ok := locale.Parse(lang); ok {
			return loc
		}
	}
	return locale.FromAcceptLanguage(r.Header.Get("Accept-Language"))
}
