package variants

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory variant store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Variant
	codeIndex map[string]uuid.UUID
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*Variant),
		codeIndex: make(map[string]uuid.UUID),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied variant.
func (m *MemoryRepository) Create(_ context.Context, record *Variant) (*Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := record.Clone()
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if err := m.checkUniqueLocked(copied); err != nil {
		return nil, err
	}
	m.records[copied.ID] = copied
	m.indexLocked(copied)
	return copied.Clone(), nil
}

// Update replaces the stored variant.
func (m *MemoryRepository) Update(_ context.Context, record *Variant) (*Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	updated := record.Clone()
	if err := m.checkUniqueLocked(updated); err != nil {
		return nil, err
	}
	m.unindexLocked(current)
	m.records[updated.ID] = updated
	m.indexLocked(updated)
	return updated.Clone(), nil
}

// Delete removes a single variant; siblings are untouched.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	m.unindexLocked(current)
	delete(m.records, id)
	return nil
}

// GetByID retrieves a variant by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return record.Clone(), nil
}

// GetByShortCode retrieves the representative variant of a short code.
// Matching is exact and case-sensitive.
func (m *MemoryRepository) GetByShortCode(_ context.Context, code string) (*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codeIndex[code]
	if !ok || code == "" {
		return nil, &NotFoundError{Resource: "short code", Key: code}
	}
	return m.records[id].Clone(), nil
}

// GetBySlug retrieves a variant by kind, locale, and slug.
func (m *MemoryRepository) GetBySlug(_ context.Context, kind Kind, loc locale.Locale, slug string) (*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugKey(kind, loc, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "slug", Key: slug}
	}
	return m.records[id].Clone(), nil
}

// ListByGroup returns every variant sharing groupID.
func (m *MemoryRepository) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Variant, 0, 4)
	for _, record := range m.records {
		if record.GroupID == groupID {
			out = append(out, record.Clone())
		}
	}
	sortVariants(out)
	return out, nil
}

// List returns every variant of a kind. An empty kind lists everything.
func (m *MemoryRepository) List(_ context.Context, kind Kind) ([]*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Variant, 0, len(m.records))
	for _, record := range m.records {
		if kind != "" && record.Kind != kind {
			continue
		}
		out = append(out, record.Clone())
	}
	sortVariants(out)
	return out, nil
}

func (m *MemoryRepository) checkUniqueLocked(record *Variant) error {
	for _, existing := range m.records {
		if existing.ID == record.ID {
			continue
		}
		if existing.GroupID == record.GroupID && existing.Locale == record.Locale {
			return &TranslationExistsError{GroupID: record.GroupID, Locale: record.Locale.String(), ExistingID: existing.ID}
		}
	}
	if id, ok := m.slugIndex[slugKey(record.Kind, record.Locale, record.Slug)]; ok && id != record.ID {
		return ErrSlugExists
	}
	if record.ShortCode != "" {
		if id, ok := m.codeIndex[record.ShortCode]; ok && id != record.ID {
			return ErrShortCodeExists
		}
	}
	return nil
}

func (m *MemoryRepository) indexLocked(record *Variant) {
	m.slugIndex[slugKey(record.Kind, record.Locale, record.Slug)] = record.ID
	if record.ShortCode != "" {
		m.codeIndex[record.ShortCode] = record.ID
	}
}

func (m *MemoryRepository) unindexLocked(record *Variant) {
	delete(m.slugIndex, slugKey(record.Kind, record.Locale, record.Slug))
	if record.ShortCode != "" {
		delete(m.codeIndex, record.ShortCode)
	}
}

func slugKey(kind Kind, loc locale.Locale, slug string) string {
	return string(kind) + "|" + loc.String() + "|" + strings.TrimSpace(slug)
}

func sortVariants(records []*Variant) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Locale != records[j].Locale {
			return records[i].Locale < records[j].Locale
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}
