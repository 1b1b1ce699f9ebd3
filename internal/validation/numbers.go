package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"sqids"
)

type Validator struct {
	maxNumbers   int
	maxBatchSize int
	maxIDLength  int
}

func NewValidator(maxNumbers, maxBatchSize, maxIDLength int) *Validator {
	return &Validator{
		maxNumbers:   maxNumbers,
		maxBatchSize: maxBatchSize,
		maxIDLength:  maxIDLength,
	}
}

// ParseNumbers converts raw JSON numbers into encoder input. Values outside
// the encoder's range fail with an error wrapping sqids.ErrOutOfRange.
func (v *Validator) ParseNumbers(raw []json.Number) ([]uint64, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyNumbers
	}

	if len(raw) > v.maxNumbers {
		return nil, ErrTooManyNumbers
	}

	numbers := make([]uint64, len(raw))
	for i, r := range raw {
		n, err := sqids.ParseNumber(r.String())
		if err != nil {
			if errors.Is(err, sqids.ErrOutOfRange) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidNumber, r)
		}
		numbers[i] = n
	}
	return numbers, nil
}

func (v *Validator) ParseBatch(items [][]json.Number) ([][]uint64, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	if len(items) > v.maxBatchSize {
		return nil, ErrBatchTooLarge
	}

	parsed := make([][]uint64, len(items))
	var batchErrors []IndexedError
	for i, item := range items {
		numbers, err := v.ParseNumbers(item)
		if err != nil {
			batchErrors = append(batchErrors, IndexedError{Index: i, Err: err})
			continue
		}
		parsed[i] = numbers
	}

	if len(batchErrors) > 0 {
		return nil, &BatchValidationError{Errors: batchErrors}
	}

	return parsed, nil
}

func (v *Validator) ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if len(id) > v.maxIDLength {
		return ErrIDTooLong
	}

	return nil
}
