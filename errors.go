package sqids

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid sqids configuration")

var (
	ErrAlphabetTooShort    = fmt.Errorf("%w: alphabet length must be at least %d", ErrInvalidConfig, minAlphabetLength)
	ErrAlphabetNotUnique   = fmt.Errorf("%w: alphabet must contain unique characters", ErrInvalidConfig)
	ErrAlphabetMultibyte   = fmt.Errorf("%w: alphabet cannot contain multibyte characters", ErrInvalidConfig)
	ErrMinLengthOutOfRange = fmt.Errorf("%w: minimum length is out of range", ErrInvalidConfig)
)

var (
	ErrOutOfRange         = errors.New("number is out of range")
	ErrBlocklistExhausted = errors.New("reached max attempts to re-generate the id")
)
