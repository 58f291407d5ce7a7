package resolver

import (
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/variants"
)

// SelectBestVariant picks the variant served for requested out of a group,
// falling back to locale.Default. It returns nil when nothing is eligible.
//
// Order: exact locale, representative, default locale, then the smallest
// remaining locale code. Ties inside a locale are broken by id so repeated
// calls over the same input agree.
func SelectBestVariant(group []*variants.Variant, requested locale.Locale, requirePublished bool, representative *variants.Variant) *variants.Variant {
	return selectBest(group, requested, requirePublished, representative, locale.Default)
}

func selectBest(group []*variants.Variant, requested locale.Locale, requirePublished bool, representative *variants.Variant, fallback locale.Locale) *variants.Variant {
	if len(group) == 0 {
		return nil
	}
	eligible := func(v *variants.Variant) bool {
		return v != nil && (!requirePublished || v.IsPublished())
	}

	var exact, preferred, lowest *variants.Variant
	for _, candidate := range group {
		if !eligible(candidate) {
			continue
		}
		if candidate.Locale == requested && before(candidate, exact) {
			exact = candidate
		}
		if candidate.Locale == fallback && before(candidate, preferred) {
			preferred = candidate
		}
		if before(candidate, lowest) {
			lowest = candidate
		}
	}

	switch {
	case exact != nil:
		return exact
	case eligible(representative):
		return representative
	case preferred != nil:
		return preferred
	default:
		return lowest
	}
}

// before reports whether a sorts ahead of b; a nil b always loses.
func before(a, b *variants.Variant) bool {
	if b == nil {
		return true
	}
	if a.Locale != b.Locale {
		return a.Locale < b.Locale
	}
	return a.ID.String() < b.ID.String()
}

func filterEligible(group []*variants.Variant, requirePublished bool) []*variants.Variant {
	if !requirePublished {
		return group
	}
	out := make([]*variants.Variant, 0, len(group))
	for _, v := range group {
		if v != nil && v.IsPublished() {
			out = append(out, v)
		}
	}
	return out
}
