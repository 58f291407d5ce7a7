// Package blog serves a multilingual blog whose posts and landing pages exist
// as locale variants grouped by translation.
package blog

import (
	"context"
	"net/http"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/sitemap"
	"github.com/goliatone/go-blog/internal/variants"
)

// VariantService exports the variant authoring contract.
type VariantService = variants.Service

// Variant exports the localized content model.
type Variant = variants.Variant

// Locale exports the supported locale enum.
type Locale = locale.Locale

// Resolver exports the translation-aware resolver.
type Resolver = *resolver.Resolver

// InflowService exports the visit recorder.
type InflowService = *inflow.Service

// SitemapBuilder exports the sitemap builder.
type SitemapBuilder = *sitemap.Builder

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Variants returns the configured variant service.
func (m *Module) Variants() VariantService {
	return m.container.VariantService()
}

// Resolver returns the short-link and slug resolver.
func (m *Module) Resolver() Resolver {
	return m.container.Resolver()
}

// Inflow returns the visit recorder.
func (m *Module) Inflow() InflowService {
	return m.container.InflowService()
}

// Sitemap returns the sitemap builder.
func (m *Module) Sitemap() SitemapBuilder {
	return m.container.SitemapBuilder()
}

// Markdown returns the markdown importer.
func (m *Module) Markdown() *markdown.Importer {
	return m.container.MarkdownImporter()
}

// Commands returns the command handlers, or nil when commands are disabled.
func (m *Module) Commands() *Commands {
	if m == nil || m.container == nil || m.container.VariantCommands() == nil {
		return nil
	}
	return &Commands{
		Variants:       m.container.VariantCommands(),
		ImportMarkdown: m.container.MarkdownCommand(),
	}
}

// Handler returns the HTTP handler serving public and admin routes.
func (m *Module) Handler() http.Handler {
	return m.container.Handler()
}

// EnsureSchema creates the storage tables when the module runs on bun.
func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.container.EnsureSchema(ctx)
}
