package resolver

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/variants"
)

const (
	RoutePost    = "post"
	RouteLanding = "landing"
)

// CanonicalPath returns the locale-qualified path of a variant, built from the
// variant's own locale and slug.
func CanonicalPath(v *variants.Variant) string {
	if v == nil {
		return ""
	}
	return pathFor(v.Kind, v.Locale, v.Slug)
}

func pathFor(kind variants.Kind, loc locale.Locale, slug string) string {
	segment := "blog"
	if kind == variants.KindLanding {
		segment = "landing"
	}
	return "/" + loc.String() + "/" + segment + "/" + url.PathEscape(slug)
}

// RouteName maps a variant kind onto its urlkit route name.
func RouteName(kind variants.Kind) string {
	if kind == variants.KindLanding {
		return RouteLanding
	}
	return RoutePost
}

// LinkBuilder turns a variant into an absolute URL.
type LinkBuilder interface {
	AbsoluteURL(v *variants.Variant) (string, error)
}

// BaseURLLinks prefixes canonical paths with a fixed site origin. An empty
// BaseURL yields root-relative links.
type BaseURLLinks struct {
	BaseURL string
}

func (b BaseURLLinks) AbsoluteURL(v *variants.Variant) (string, error) {
	if v == nil {
		return "", fmt.Errorf("resolver: variant required")
	}
	return strings.TrimRight(strings.TrimSpace(b.BaseURL), "/") + CanonicalPath(v), nil
}

// URLKitLinksOptions configures the go-urlkit backed link builder.
type URLKitLinksOptions struct {
	Manager     *urlkit.RouteManager
	Group       string
	SlugParam   string
	LocaleParam string
}

// URLKitLinks resolves absolute URLs through a go-urlkit RouteManager. The
// configured group must declare the post and landing routes.
type URLKitLinks struct {
	manager     *urlkit.RouteManager
	groupPath   string
	slugParam   string
	localeParam string

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

func NewURLKitLinks(opts URLKitLinksOptions) *URLKitLinks {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.LocaleParam == "" {
		opts.LocaleParam = "locale"
	}
	if strings.TrimSpace(opts.Group) == "" {
		opts.Group = "frontend"
	}
	return &URLKitLinks{
		manager:     opts.Manager,
		groupPath:   strings.TrimSpace(opts.Group),
		slugParam:   opts.SlugParam,
		localeParam: opts.LocaleParam,
		groups:      make(map[string]*urlkit.Group),
	}
}

func (l *URLKitLinks) AbsoluteURL(v *variants.Variant) (string, error) {
	if v == nil {
		return "", fmt.Errorf("resolver: variant required")
	}
	group, err := l.group(l.groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, RouteName(v.Kind))
	if err != nil {
		return "", err
	}
	builder.WithParam(l.localeParam, v.Locale.String())
	builder.WithParam(l.slugParam, v.Slug)
	return builder.Build()
}

func (l *URLKitLinks) group(path string) (*urlkit.Group, error) {
	l.mu.RLock()
	cached, ok := l.groups[path]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(l.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	l.groups[path] = current
	l.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown groups and routes.

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("resolver: urlkit route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("resolver: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("resolver: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("resolver: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}
