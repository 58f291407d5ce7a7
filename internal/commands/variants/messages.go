package variantscmd

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/variants"
)

const (
	setStatusMessageType       = "blog.variants.set_status"
	scheduleMessageType        = "blog.variants.schedule"
	publishDueMessageType      = "blog.variants.publish_due"
	assignShortCodeMessageType = "blog.variants.assign_short_code"
)

// SetStatusCommand moves a variant to draft or published, or to scheduled
// when it already has a publish time.
type SetStatusCommand struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Status    variants.Status `json:"status"`
}

func (SetStatusCommand) Type() string { return setStatusMessageType }

func (m SetStatusCommand) Validate() error {
	errs := validation.Errors{}
	if m.VariantID == uuid.Nil {
		errs["variant_id"] = validation.NewError("blog.variants.set_status.variant_id_required", "variant_id is required")
	}
	if !m.Status.Valid() {
		errs["status"] = validation.NewError("blog.variants.set_status.status_invalid", "status must be draft, scheduled or published")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScheduleVariantCommand schedules publication at PublishAt.
type ScheduleVariantCommand struct {
	VariantID uuid.UUID `json:"variant_id"`
	PublishAt time.Time `json:"publish_at"`
}

func (ScheduleVariantCommand) Type() string { return scheduleMessageType }

func (m ScheduleVariantCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.VariantID, validation.By(func(value any) error {
			if value.(uuid.UUID) == uuid.Nil {
				return validation.NewError("blog.variants.schedule.variant_id_required", "variant_id is required")
			}
			return nil
		})),
		validation.Field(&m.PublishAt, validation.Required.Error("publish_at is required")),
	)
}

// PublishDueCommand publishes every scheduled variant whose publish time has
// passed. A zero Now uses the service clock.
type PublishDueCommand struct {
	Now time.Time `json:"now,omitempty"`
}

func (PublishDueCommand) Type() string { return publishDueMessageType }

func (PublishDueCommand) Validate() error { return nil }

// AssignShortCodeCommand gives a variant a short link code if it has none.
type AssignShortCodeCommand struct {
	VariantID uuid.UUID `json:"variant_id"`
}

func (AssignShortCodeCommand) Type() string { return assignShortCodeMessageType }

func (m AssignShortCodeCommand) Validate() error {
	if m.VariantID == uuid.Nil {
		return validation.Errors{
			"variant_id": validation.NewError("blog.variants.assign_short_code.variant_id_required", "variant_id is required"),
		}
	}
	return nil
}
