// Package validation guards the untrusted strings that reach the blog from
// URLs and request bodies.
package validation

import (
	"errors"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-blog/internal/locale"
)

const (
	MaxShortCodeLength = 32
	MaxSlugLength      = 200
)

// ErrInvalidInput is the sentinel every input rule failure unwraps to.
var ErrInvalidInput = errors.New("validation: invalid input")

var (
	shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	slugPattern      = regexp.MustCompile(`^[\p{L}\p{N}]+(?:[-_][\p{L}\p{N}]+)*$`)
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// InputError reports which field failed and why. It unwraps to ErrInvalidInput.
type InputError struct {
	Field string
	Cause error
}

func (e *InputError) Error() string {
	if e.Cause == nil {
		return "validation: invalid " + e.Field
	}
	return "validation: invalid " + e.Field + ": " + e.Cause.Error()
}

func (e *InputError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Cause}
}

// Issues flattens an InputError or an ozzo error set into issues suitable for
// API responses.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return []ValidationIssue{{Location: inputErr.Field, Message: causeMessage(inputErr.Cause)}}
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationIssue, 0, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			out = append(out, ValidationIssue{Location: field, Message: causeMessage(fieldErr)})
		}
		return out
	}
	return nil
}

// ShortCode validates an opaque short code taken from a URL.
func ShortCode(value string) error {
	err := ozzo.Validate(value,
		ozzo.Required.Error("short code is required"),
		ozzo.RuneLength(1, MaxShortCodeLength).Error("short code is too long"),
		ozzo.Match(shortCodePattern).Error("short code contains invalid characters"),
	)
	if err != nil {
		return &InputError{Field: "short_code", Cause: err}
	}
	return nil
}

// Slug validates a locale-specific URL segment.
func Slug(value string) error {
	err := ozzo.Validate(value,
		ozzo.Required.Error("slug is required"),
		ozzo.RuneLength(1, MaxSlugLength).Error("slug is too long"),
		ozzo.Match(slugPattern).Error("slug contains invalid characters"),
	)
	if err != nil {
		return &InputError{Field: "slug", Cause: err}
	}
	return nil
}

// Locale validates a locale path parameter and returns the parsed value.
// Region subtags are not accepted in paths.
func Locale(value string) (locale.Locale, error) {
	trimmed := strings.TrimSpace(value)
	err := ozzo.Validate(trimmed,
		ozzo.Required.Error("locale is required"),
		ozzo.In(anySlice(locale.Codes())...).Error("locale is not supported"),
	)
	if err != nil {
		return "", &InputError{Field: "locale", Cause: err}
	}
	return locale.Locale(trimmed), nil
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
