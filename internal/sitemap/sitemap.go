// Package sitemap renders the XML sitemap of published variants with
// hreflang alternates.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/variants"
)

const (
	urlsetNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNamespace  = "http://www.w3.org/1999/xhtml"
)

// Lister returns every stored variant of a kind; an empty kind lists all.
type Lister interface {
	List(ctx context.Context, kind variants.Kind) ([]*variants.Variant, error)
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []URL    `xml:"url"`
}

type URL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	Alternates []Alternate `xml:"xhtml:link"`
}

type Alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Builder assembles sitemaps from a variant lister.
type Builder struct {
	lister Lister
	links  resolver.LinkBuilder
}

func NewBuilder(lister Lister, links resolver.LinkBuilder) *Builder {
	if links == nil {
		links = resolver.BaseURLLinks{}
	}
	return &Builder{lister: lister, links: links}
}

// Build returns one entry per published variant. Entries are ordered by URL.
func (b *Builder) Build(ctx context.Context) (*URLSet, error) {
	all, err := b.lister.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("sitemap: list variants: %w", err)
	}

	groups := map[uuid.UUID][]*variants.Variant{}
	for _, v := range all {
		if v.IsPublished() {
			groups[v.GroupID] = append(groups[v.GroupID], v)
		}
	}

	set := &URLSet{XMLNS: urlsetNamespace, XHTML: xhtmlNamespace}
	for _, group := range groups {
		alternates, err := resolver.BuildMetadata(nil, group, b.links)
		if err != nil {
			return nil, fmt.Errorf("sitemap: %w", err)
		}
		links := alternateList(alternates.Alternates)
		for _, v := range group {
			loc, err := b.links.AbsoluteURL(v)
			if err != nil {
				return nil, fmt.Errorf("sitemap: %w", err)
			}
			entry := URL{Loc: loc, LastMod: lastModified(v)}
			if len(group) > 1 {
				entry.Alternates = links
			}
			set.URLs = append(set.URLs, entry)
		}
	}
	sort.Slice(set.URLs, func(i, j int) bool { return set.URLs[i].Loc < set.URLs[j].Loc })
	return set, nil
}

// Render encodes the sitemap with the XML header.
func (b *Builder) Render(ctx context.Context) ([]byte, error) {
	set, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("sitemap: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func alternateList(byLocale map[string]string) []Alternate {
	out := make([]Alternate, 0, len(byLocale))
	for lang, href := range byLocale {
		out = append(out, Alternate{Rel: "alternate", HrefLang: lang, Href: href})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HrefLang < out[j].HrefLang })
	return out
}

func lastModified(v *variants.Variant) string {
	ts := v.UpdatedAt
	if ts.IsZero() && v.PublishedAt != nil {
		ts = *v.PublishedAt
	}
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
