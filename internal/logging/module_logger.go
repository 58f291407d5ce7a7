package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	rootModule     = "blog"
	variantsModule = "blog.variants"
	resolverModule = "blog.resolver"
	httpModule     = "blog.http"
	inflowModule   = "blog.inflow"
	markdownModule = "blog.markdown"
)

const (
	fieldRequestedLocale = "requested_locale"
	fieldResolvedLocale  = "resolved_locale"
	fieldShortCode       = "short_code"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// VariantsLogger returns the logger namespace reserved for variant authoring.
func VariantsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, variantsModule)
}

// ResolverLogger returns the logger namespace reserved for translation routing.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// HTTPLogger returns the logger namespace reserved for HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// InflowLogger returns the logger namespace reserved for visit analytics.
func InflowLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, inflowModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown imports.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithResolution enriches the logger with locale negotiation fields. Empty
// values are skipped.
func WithResolution(logger interfaces.Logger, shortCode, requested, resolved string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(shortCode); trimmed != "" {
		fields[fieldShortCode] = trimmed
	}
	if trimmed := strings.TrimSpace(requested); trimmed != "" {
		fields[fieldRequestedLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(resolved); trimmed != "" {
		fields[fieldResolvedLocale] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
