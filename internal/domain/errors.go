package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock is returned when a quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductUnavailable is returned when a product is hidden from the store.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrSuspended is returned when a suspended account attempts a restricted action.
	ErrSuspended = errors.New("account suspended")
	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInUse is returned when a row is still referenced by records that must be kept.
	ErrInUse = errors.New("in use")
	// ErrForbidden is returned when the caller lacks the administrator capability.
	ErrForbidden = errors.New("access denied")
)

// ValidationError reports caller input that failed validation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
