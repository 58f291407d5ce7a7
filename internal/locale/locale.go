// Package locale defines the closed set of locales the blog serves and the
// helpers used to negotiate one from client input.
package locale

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Locale identifies a supported content language by its two-letter code.
type Locale string

const (
	Korean   Locale = "ko"
	English  Locale = "en"
	Japanese Locale = "ja"
	Chinese  Locale = "zh"
)

// Default is the platform locale used when nothing better matches.
const Default = Korean

// maxHeaderLength bounds the Accept-Language values we are willing to parse.
const maxHeaderLength = 512

var supported = []Locale{Korean, English, Japanese, Chinese}

// All returns the supported locales in declaration order.
func All() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Codes returns the supported locale codes sorted lexicographically.
func Codes() []string {
	out := make([]string, 0, len(supported))
	for _, l := range supported {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// Valid reports whether l is a member of the supported set.
func (l Locale) Valid() bool {
	for _, candidate := range supported {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsDefault reports whether l is the platform default.
func (l Locale) IsDefault() bool {
	return l == Default
}

// Parse resolves a locale code. Region subtags are ignored so "en-US" and
// "zh_TW" resolve to their base language.
func Parse(value string) (Locale, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", false
	}
	if idx := strings.IndexAny(trimmed, "-_"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	candidate := Locale(trimmed)
	if !candidate.Valid() {
		return "", false
	}
	return candidate, true
}

// ParseOrDefault resolves a locale code, falling back to Default.
func ParseOrDefault(value string) Locale {
	if l, ok := Parse(value); ok {
		return l
	}
	return Default
}

// FromAcceptLanguage picks the first supported base language from an
// Accept-Language style header, honoring quality weights. Unparseable,
// oversized, or unsupported values resolve to Default.
func FromAcceptLanguage(header string) Locale {
	header = strings.TrimSpace(header)
	if header == "" || len(header) > maxHeaderLength {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return fromRawHeader(header)
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if l, ok := Parse(base.String()); ok {
			return l
		}
	}
	return Default
}

// fromRawHeader scans comma separated entries in order and keeps the first
// two-letter prefix that names a supported locale.
func fromRawHeader(header string) Locale {
	for _, part := range strings.Split(header, ",") {
		entry := strings.TrimSpace(part)
		if idx := strings.IndexByte(entry, ';'); idx >= 0 {
			entry = entry[:idx]
		}
		if len(entry) < 2 {
			continue
		}
		if l, ok := Parse(entry[:2]); ok {
			return l
		}
	}
	return Default
}
