// Package resolver routes public traffic to the right localized variant of a
// post or landing page.
package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// VariantReader is the read-only data handle the resolver depends on.
// variants.Repository satisfies it.
type VariantReader interface {
	GetByShortCode(ctx context.Context, code string) (*variants.Variant, error)
	GetBySlug(ctx context.Context, kind variants.Kind, loc locale.Locale, slug string) (*variants.Variant, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*variants.Variant, error)
}

// Redirect is the outcome of a short-link lookup.
type Redirect struct {
	Variant         *variants.Variant
	Path            string
	RequestedLocale locale.Locale
}

// Resolution is the outcome of a slug lookup.
type Resolution struct {
	Addressed       *variants.Variant
	Variant         *variants.Variant
	Group           []*variants.Variant
	Path            string
	Metadata        Metadata
	RequestedLocale locale.Locale
	// Redirect is set when the served variant differs from the addressed one.
	Redirect bool
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLinks sets the absolute URL builder used for metadata.
func WithLinks(links LinkBuilder) Option {
	return func(r *Resolver) {
		if links != nil {
			r.links = links
		}
	}
}

// WithDefaultLocale overrides the policy's default-locale step.
func WithDefaultLocale(loc locale.Locale) Option {
	return func(r *Resolver) {
		if loc.Valid() {
			r.defaultLocale = loc
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver is safe for concurrent use; it holds no per-request state.
type Resolver struct {
	reader        VariantReader
	links         LinkBuilder
	defaultLocale locale.Locale
	logger        interfaces.Logger
}

func New(reader VariantReader, opts ...Option) *Resolver {
	r := &Resolver{
		reader:        reader,
		links:         BaseURLLinks{},
		defaultLocale: locale.Default,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Links exposes the configured link builder.
func (r *Resolver) Links() LinkBuilder {
	return r.links
}

// ResolveGroup returns every variant sharing groupID. Unknown groups, including
// ids that are not uuids, yield an empty slice.
func (r *Resolver) ResolveGroup(ctx context.Context, groupID string) ([]*variants.Variant, error) {
	trimmed := strings.TrimSpace(groupID)
	if trimmed == "" {
		return nil, invalidInput(variants.ErrGroupRequired)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return []*variants.Variant{}, nil
	}
	return r.resolveGroup(ctx, id)
}

func (r *Resolver) resolveGroup(ctx context.Context, id uuid.UUID) ([]*variants.Variant, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LookupFailure{Op: "group", Err: err}
	}
	group, err := r.reader.ListByGroup(ctx, id)
	if err != nil {
		if errors.Is(err, variants.ErrNotFound) {
			return []*variants.Variant{}, nil
		}
		return nil, &LookupFailure{Op: "group", Err: err}
	}
	if group == nil {
		group = []*variants.Variant{}
	}
	return group, nil
}

// SelectBestVariant applies the fallback policy using the configured default
// locale.
func (r *Resolver) SelectBestVariant(group []*variants.Variant, requested locale.Locale, requirePublished bool, representative *variants.Variant) *variants.Variant {
	return selectBest(group, requested, requirePublished, representative, r.defaultLocale)
}

// ResolveShortCode maps a short code onto the canonical path of the best
// published variant in its group.
func (r *Resolver) ResolveShortCode(ctx context.Context, code string, requested locale.Locale) (*Redirect, error) {
	if err := validation.ShortCode(code); err != nil {
		return nil, invalidInput(err)
	}
	if !requested.Valid() {
		requested = r.defaultLocale
	}

	representative, err := r.reader.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, variants.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &LookupFailure{Op: "short code", Err: err}
	}

	group, err := r.resolveGroup(ctx, representative.GroupID)
	if err != nil {
		return nil, err
	}
	chosen := r.SelectBestVariant(group, requested, true, representative)
	if chosen == nil {
		return nil, ErrNotFound
	}

	logging.WithResolution(r.logger, code, requested.String(), chosen.Locale.String()).
		Debug("resolver.short_code.resolved", "variant_id", chosen.ID)

	return &Redirect{
		Variant:         chosen,
		Path:            CanonicalPath(chosen),
		RequestedLocale: requested,
	}, nil
}

// ResolveSlug resolves the variant addressed by /{locale}/.../{slug}. The
// addressed variant acts as the representative and the path locale as the
// requested locale. Metadata covers the eligible siblings only.
func (r *Resolver) ResolveSlug(ctx context.Context, kind variants.Kind, loc locale.Locale, slug string, requirePublished bool) (*Resolution, error) {
	if !kind.Valid() {
		return nil, invalidInput(variants.ErrKindInvalid)
	}
	if !loc.Valid() {
		return nil, invalidInput(variants.ErrLocaleInvalid)
	}
	if err := validation.Slug(slug); err != nil {
		return nil, invalidInput(err)
	}

	addressed, err := r.reader.GetBySlug(ctx, kind, loc, slug)
	if err != nil {
		if errors.Is(err, variants.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &LookupFailure{Op: "slug", Err: err}
	}

	group, err := r.resolveGroup(ctx, addressed.GroupID)
	if err != nil {
		return nil, err
	}
	chosen := r.SelectBestVariant(group, loc, requirePublished, addressed)
	if chosen == nil {
		return nil, ErrNotFound
	}

	meta, err := BuildMetadata(chosen, filterEligible(group, requirePublished), r.links)
	if err != nil {
		return nil, err
	}

	logging.WithResolution(r.logger, "", loc.String(), chosen.Locale.String()).
		Debug("resolver.slug.resolved", "slug", slug, "variant_id", chosen.ID)

	return &Resolution{
		Addressed:       addressed,
		Variant:         chosen,
		Group:           group,
		Path:            CanonicalPath(chosen),
		Metadata:        meta,
		RequestedLocale: loc,
		Redirect:        chosen.ID != addressed.ID,
	}, nil
}

// PreviewGroup resolves a group for admin previews, where any status is
// eligible.
func (r *Resolver) PreviewGroup(ctx context.Context, groupID string, requested locale.Locale) (*Resolution, error) {
	group, err := r.ResolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !requested.Valid() {
		requested = r.defaultLocale
	}
	chosen := r.SelectBestVariant(group, requested, false, nil)
	if chosen == nil {
		return nil, ErrNotFound
	}
	meta, err := BuildMetadata(chosen, group, r.links)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Variant:         chosen,
		Group:           group,
		Path:            CanonicalPath(chosen),
		Metadata:        meta,
		RequestedLocale: requested,
	}, nil
}
