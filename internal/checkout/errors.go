package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when checking out a cart with no line items.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationErrorCode categorizes checkout form errors.
type ValidationErrorCode string

const (
	// ErrCodeRequired indicates a required field is blank.
	ErrCodeRequired ValidationErrorCode = "REQUIRED"

	// ErrCodeInvalid indicates a field has a malformed value.
	ErrCodeInvalid ValidationErrorCode = "INVALID"

	// ErrCodeUnknownOption indicates a payment or delivery method
	// outside the accepted set.
	ErrCodeUnknownOption ValidationErrorCode = "UNKNOWN_OPTION"
)

// ValidationError reports the first invalid checkout form field.
type ValidationError struct {
	Field   string
	Code    ValidationErrorCode
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Code, e.Message)
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
