package catalog

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for catalog loading.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeNoFiles        = "NO_FILES"
	ErrCodeLoadFailed     = "LOAD_FAILED"
	ErrCodeSchema         = "SCHEMA"
	ErrCodeInvalidProduct = "INVALID_PRODUCT"
)

// LoadError is a catalog loading failure with an optional CUE source
// position.
type LoadError struct {
	Code    string
	Product string // product id, when the error is about one product
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Product != "" {
		msg = "product " + e.Product + ": " + msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// IsLoadError returns the LoadError in err's chain, if any.
func IsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// schemaError extracts the first CUE error with position info.
func schemaError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: ErrCodeSchema, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
