package variants

import (
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind separates blog posts from landing pages. Both share the same
// translation and routing rules.
type Kind string

const (
	KindPost    Kind = "post"
	KindLanding Kind = "landing"
)

// Valid reports whether k is a known content kind.
func (k Kind) Valid() bool {
	return k == KindPost || k == KindLanding
}

// ParseKind normalizes a kind string. Empty input defaults to KindPost.
func ParseKind(value string) (Kind, bool) {
	trimmed := Kind(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return KindPost, true
	}
	if !trimmed.Valid() {
		return "", false
	}
	return trimmed, true
}

// Status tracks the publication state of a single locale variant.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	default:
		return false
	}
}

// ParseStatus normalizes a status string. Empty input defaults to draft.
func ParseStatus(value string) (Status, bool) {
	trimmed := Status(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return StatusDraft, true
	}
	if !trimmed.Valid() {
		return "", false
	}
	return trimmed, true
}

// Variant is one localized version of a logical content item. Every variant
// of the same item shares GroupID; at most one variant exists per locale.
type Variant struct {
	bun.BaseModel `bun:"table:content_variants,alias:cv"`

	ID          uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	GroupID     uuid.UUID     `bun:"group_id,notnull,type:uuid,unique:group_locale" json:"group_id"`
	Kind        Kind          `bun:"kind,notnull" json:"kind"`
	Locale      locale.Locale `bun:"locale,notnull,unique:group_locale" json:"locale"`
	Slug        string        `bun:"slug,notnull" json:"slug"`
	ShortCode   string        `bun:"short_code,nullzero,unique" json:"short_code,omitempty"`
	Status      Status        `bun:"status,notnull" json:"status"`
	Title       string        `bun:"title,notnull" json:"title"`
	Summary     string        `bun:"summary" json:"summary,omitempty"`
	Body        string        `bun:"body" json:"body,omitempty"`
	BodyHTML    string        `bun:"body_html" json:"body_html,omitempty"`
	PublishAt   *time.Time    `bun:"publish_at,nullzero" json:"publish_at,omitempty"`
	PublishedAt *time.Time    `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// IsPublished reports whether the variant may be served to public readers.
func (v *Variant) IsPublished() bool {
	return v != nil && v.Status == StatusPublished
}

// Clone returns a deep copy of v.
func (v *Variant) Clone() *Variant {
	if v == nil {
		return nil
	}
	cloned := *v
	cloned.PublishAt = cloneTime(v.PublishAt)
	cloned.PublishedAt = cloneTime(v.PublishedAt)
	return &cloned
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
