package variants

import (
	"context"
	"fmt"

	"github.com/goliatone/go-blog/internal/locale"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores variants with bun. Identifier lookups go through the
// optional cache; group, slug, and short-code queries always hit the database
// so translation routing never observes a stale sibling set.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Variant]
	base repository.Repository[*Variant]
}

// NewBunRepository constructs an uncached repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewVariantRepository(db)
	return &BunRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
		base: base,
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Variant) (*Variant, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("variant repository create: %w", err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Variant) (*Variant, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"slug",
			"short_code",
			"status",
			"title",
			"summary",
			"body",
			"body_html",
			"publish_at",
			"published_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "variant", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("variant repository: database not configured")
	}
	result, err := r.db.NewDelete().
		Model((*Variant)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("variant delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Key: id.String()}
	}
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Variant, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "variant", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetByShortCode(ctx context.Context, code string) (*Variant, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.short_code = ?", code)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "short code", code)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "short code", Key: code}
	}
	return records[0], nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, kind Kind, loc locale.Locale, slug string) (*Variant, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.kind = ?", kind).
				Where("?TableAlias.locale = ?", loc).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "slug", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "slug", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Variant, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.group_id = ?", groupID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.locale ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("variant repository list group: %w", err)
	}
	return records, nil
}

func (r *BunRepository) List(ctx context.Context, kind Kind) ([]*Variant, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if kind == "" {
				return q
			}
			return q.Where("?TableAlias.kind = ?", kind)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.group_id ASC, ?TableAlias.locale ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("variant repository list: %w", err)
	}
	return records, nil
}

// EnsureSchema creates the variant table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("variant repository: database not configured")
	}
	if _, err := db.NewCreateTable().Model((*Variant)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create content_variants: %w", err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
