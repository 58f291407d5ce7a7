package variants

import (
	"context"

	"github.com/goliatone/go-blog/internal/locale"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists variants. GetBy* methods return *NotFoundError when
// nothing matches; ListByGroup returns an empty slice for unknown groups.
type Repository interface {
	Create(ctx context.Context, record *Variant) (*Variant, error)
	Update(ctx context.Context, record *Variant) (*Variant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	GetByShortCode(ctx context.Context, code string) (*Variant, error)
	GetBySlug(ctx context.Context, kind Kind, loc locale.Locale, slug string) (*Variant, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Variant, error)
	List(ctx context.Context, kind Kind) ([]*Variant, error)
}

// NewVariantRepository builds the generic go-repository-bun base used by
// BunRepository.
func NewVariantRepository(db *bun.DB) repository.Repository[*Variant] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Variant]{
		NewRecord: func() *Variant { return &Variant{} },
		GetID: func(v *Variant) uuid.UUID {
			return v.ID
		},
		SetID: func(v *Variant, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(v *Variant) string {
			return v.Slug
		},
	})
}
