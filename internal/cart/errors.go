package cart

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before the cart is touched. Field names the
// offending request field and Group the option group, when one is involved.
type ValidationError struct {
	Field   string
	Group   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an unknown variant or line key.
type NotFoundError struct {
	What string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.What, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AvailabilityError rejects adding a variant that is currently switched off or
// depends on an ingredient that ran out.
type AvailabilityError struct {
	VariantID uint
}

func (e *AvailabilityError) Error() string {
	return "this item is no longer available"
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
