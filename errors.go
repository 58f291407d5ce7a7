package blog

import (
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/variants"
)

// Resolution errors surfaced to callers of Resolver.
var (
	ErrNotFound     = resolver.ErrNotFound
	ErrInvalidInput = resolver.ErrInvalidInput
)

// LookupFailure wraps data source errors raised while resolving.
type LookupFailure = resolver.LookupFailure

// Authoring errors returned by the variant service.
var (
	ErrVariantNotFound   = variants.ErrNotFound
	ErrTranslationExists = variants.ErrTranslationExists
	ErrSlugExists        = variants.ErrSlugExists
)
