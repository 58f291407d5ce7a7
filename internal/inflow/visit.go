// Package inflow records human visits to published variants and classifies
// where they came from.
package inflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/internal/locale"
)

// Visit is one recorded page view.
type Visit struct {
	bun.BaseModel `bun:"table:inflow_visits,alias:iv"`

	ID        uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	VariantID uuid.UUID     `bun:"variant_id,notnull,type:uuid" json:"variant_id"`
	GroupID   uuid.UUID     `bun:"group_id,notnull,type:uuid" json:"group_id"`
	Locale    locale.Locale `bun:"locale,notnull" json:"locale"`
	Path      string        `bun:"path,notnull" json:"path"`
	ShortCode string        `bun:"short_code,nullzero" json:"short_code,omitempty"`
	Referrer  string        `bun:"referrer,nullzero" json:"referrer,omitempty"`
	Source    Source        `bun:"source,notnull" json:"source"`
	UserAgent string        `bun:"user_agent,nullzero" json:"user_agent,omitempty"`
	CreatedAt time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// VisitInput carries the request data a handler hands to Record.
type VisitInput struct {
	VariantID uuid.UUID
	GroupID   uuid.UUID
	Locale    locale.Locale
	Path      string
	ShortCode string
	Referrer  string
	UserAgent string
}
