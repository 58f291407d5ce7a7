package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing short code, slug, or an empty eligible set.
	ErrNotFound = errors.New("resolver: not found")
	// ErrInvalidInput reports a malformed short code, slug, locale, or group id.
	ErrInvalidInput = errors.New("resolver: invalid input")
)

// LookupFailure wraps a data source error encountered while resolving.
type LookupFailure struct {
	Op  string
	Err error
}

func (e *LookupFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolver: %s lookup failed", e.Op)
	}
	return fmt.Sprintf("resolver: %s lookup failed: %v", e.Op, e.Err)
}

func (e *LookupFailure) Unwrap() error {
	return e.Err
}

// IsLookupFailure reports whether err carries a LookupFailure.
func IsLookupFailure(err error) bool {
	var failure *LookupFailure
	return errors.As(err, &failure)
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
