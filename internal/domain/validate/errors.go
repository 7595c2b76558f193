package validate

import "errors"

// Sentinel kinds for validation failures.
var (
	ErrMissingField = errors.New("missing required field")
	ErrTypeMismatch = errors.New("field has wrong type")
)
