package variants

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrVariantRequired    = errors.New("variants: variant id required")
	ErrGroupRequired      = errors.New("variants: group id required")
	ErrKindInvalid        = errors.New("variants: kind is invalid")
	ErrLocaleInvalid      = errors.New("variants: locale is not supported")
	ErrStatusInvalid      = errors.New("variants: status is invalid")
	ErrTitleRequired      = errors.New("variants: title is required")
	ErrSlugRequired       = errors.New("variants: slug is required")
	ErrSlugInvalid        = errors.New("variants: slug contains invalid characters")
	ErrSlugExists         = errors.New("variants: slug already exists for locale")
	ErrShortCodeExists    = errors.New("variants: short code already exists")
	ErrShortCodeExhausted = errors.New("variants: unable to allocate a unique short code")
	ErrTranslationExists  = errors.New("variants: group already has a variant for locale")
	ErrScheduleRequired   = errors.New("variants: publish_at is required to schedule")
	ErrNotFound           = errors.New("variants: not found")
)

// NotFoundError reports a missing variant. It unwraps to ErrNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	resource := strings.TrimSpace(e.Resource)
	if resource == "" {
		resource = "variant"
	}
	if strings.TrimSpace(e.Key) == "" {
		return fmt.Sprintf("variants: %s not found", resource)
	}
	return fmt.Sprintf("variants: %s %q not found", resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// TranslationExistsError captures a duplicate locale inside a group.
type TranslationExistsError struct {
	GroupID    uuid.UUID
	Locale     string
	ExistingID uuid.UUID
}

func (e *TranslationExistsError) Error() string {
	return fmt.Sprintf("%s: group=%s locale=%s", ErrTranslationExists.Error(), e.GroupID, e.Locale)
}

func (e *TranslationExistsError) Unwrap() error {
	return ErrTranslationExists
}
