package inflow

import (
	"context"
	"fmt"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store persists visits.
type Store interface {
	Insert(ctx context.Context, visit *Visit) error
	CountByVariant(ctx context.Context, variantID uuid.UUID) (int, error)
	CountBySource(ctx context.Context, variantID uuid.UUID) (map[Source]int, error)
}

// MemoryStore keeps visits in process.
type MemoryStore struct {
	mu     sync.RWMutex
	visits []*Visit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(_ context.Context, visit *Visit) error {
	copied := *visit
	m.mu.Lock()
	m.visits = append(m.visits, &copied)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) CountByVariant(_ context.Context, variantID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, v := range m.visits {
		if v.VariantID == variantID {
			total++
		}
	}
	return total, nil
}

func (m *MemoryStore) CountBySource(_ context.Context, variantID uuid.UUID) (map[Source]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[Source]int{}
	for _, v := range m.visits {
		if v.VariantID == variantID {
			out[v.Source]++
		}
	}
	return out, nil
}

// BunStore writes visits through go-repository-bun and aggregates with bun.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Visit]
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db: db,
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*Visit]{
			NewRecord: func() *Visit { return &Visit{} },
			GetID: func(v *Visit) uuid.UUID {
				if v == nil {
					return uuid.Nil
				}
				return v.ID
			},
			SetID: func(v *Visit, id uuid.UUID) {
				if v != nil {
					v.ID = id
				}
			},
			GetIdentifier: func() string { return "id" },
			GetIdentifierValue: func(v *Visit) string {
				if v == nil {
					return ""
				}
				return v.ID.String()
			},
		}),
	}
}

func (s *BunStore) Insert(ctx context.Context, visit *Visit) error {
	if _, err := s.repo.Create(ctx, visit); err != nil {
		return fmt.Errorf("inflow store insert: %w", err)
	}
	return nil
}

func (s *BunStore) CountByVariant(ctx context.Context, variantID uuid.UUID) (int, error) {
	count, err := s.db.NewSelect().
		Model((*Visit)(nil)).
		Where("?TableAlias.variant_id = ?", variantID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("inflow store count: %w", err)
	}
	return count, nil
}

func (s *BunStore) CountBySource(ctx context.Context, variantID uuid.UUID) (map[Source]int, error) {
	var rows []struct {
		Source Source `bun:"source"`
		Total  int    `bun:"total"`
	}
	err := s.db.NewSelect().
		Model((*Visit)(nil)).
		Column("source").
		ColumnExpr("COUNT(*) AS total").
		Where("?TableAlias.variant_id = ?", variantID).
		Group("source").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("inflow store count by source: %w", err)
	}
	out := make(map[Source]int, len(rows))
	for _, row := range rows {
		out[row.Source] = row.Total
	}
	return out, nil
}

// EnsureSchema creates the visit table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("inflow store: database not configured")
	}
	if _, err := db.NewCreateTable().Model((*Visit)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create inflow_visits: %w", err)
	}
	return nil
}
