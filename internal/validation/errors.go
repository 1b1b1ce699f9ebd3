package validation

import "errors"

var (
	ErrEmptyNumbers   = errors.New("numbers is required")
	ErrTooManyNumbers = errors.New("too many numbers")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrEmptyID        = errors.New("id is required")
	ErrIDTooLong      = errors.New("id exceeds maximum length")
	ErrBatchTooLarge  = errors.New("batch size exceeds maximum")
	ErrEmptyBatch     = errors.New("items is required")
)

type BatchValidationError struct {
	Errors []IndexedError
}

type IndexedError struct {
	Index int
	Err   error
}

func (e *BatchValidationError) Error() string {
	return "batch validation failed"
}
