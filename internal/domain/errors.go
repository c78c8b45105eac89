package domain

import (
	"errors"
	"fmt"
)

// Catalog failure kinds. Adapters wrap these so callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("asteroid not found")
	ErrRateLimited         = errors.New("upstream rate limit exceeded")
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")
	ErrUpstreamTimeout     = errors.New("upstream catalog request failed")
)

// ValidationError reports an input value outside its allowed domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
