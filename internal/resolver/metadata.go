package resolver

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/variants"
)

// XDefault is the hreflang key pointing at the default-locale variant.
const XDefault = "x-default"

// Metadata is the SEO payload rendered alongside a resolved page.
type Metadata struct {
	Canonical  string            `json:"canonical_url"`
	Alternates map[string]string `json:"alternates"`
}

// BuildAlternateLinks maps every variant's locale to its absolute URL. Status
// is ignored; callers filter to published variants first. When a locale
// repeats, the variant with the lowest id wins.
func BuildAlternateLinks(group []*variants.Variant, links LinkBuilder) (map[locale.Locale]string, error) {
	if links == nil {
		links = BaseURLLinks{}
	}
	ordered := slices.Clone(group)
	slices.SortFunc(ordered, func(a, b *variants.Variant) int {
		switch {
		case before(a, b):
			return -1
		case before(b, a):
			return 1
		}
		return 0
	})

	out := make(map[locale.Locale]string, len(ordered))
	for _, v := range ordered {
		if v == nil {
			continue
		}
		if _, seen := out[v.Locale]; seen {
			continue
		}
		href, err := links.AbsoluteURL(v)
		if err != nil {
			return nil, fmt.Errorf("resolver: alternate link for %s: %w", v.Locale, err)
		}
		out[v.Locale] = href
	}
	return out, nil
}

// BuildMetadata renders the canonical URL for chosen and the hreflang set for
// alternates, adding x-default when the default locale is present.
func BuildMetadata(chosen *variants.Variant, alternates []*variants.Variant, links LinkBuilder) (Metadata, error) {
	if links == nil {
		links = BaseURLLinks{}
	}
	meta := Metadata{Alternates: map[string]string{}}
	if chosen != nil {
		canonical, err := links.AbsoluteURL(chosen)
		if err != nil {
			return Metadata{}, fmt.Errorf("resolver: canonical link: %w", err)
		}
		meta.Canonical = canonical
	}

	byLocale, err := BuildAlternateLinks(alternates, links)
	if err != nil {
		return Metadata{}, err
	}
	for loc, href := range byLocale {
		meta.Alternates[loc.String()] = href
	}
	if href, ok := byLocale[locale.Default]; ok {
		meta.Alternates[XDefault] = href
	}
	return meta, nil
}
