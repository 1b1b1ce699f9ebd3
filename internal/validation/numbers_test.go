package validation_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqids"
	"sqids/internal/validation"
)

func numbers(raw ...string) []json.Number {
	out := make([]json.Number, len(raw))
	for i, r := range raw {
		out[i] = json.Number(r)
	}
	return out
}

func TestValidator_ParseNumbers(t *testing.T) {
	v := validation.NewValidator(3, 10, 64)

	tests := []struct {
		name    string
		raw     []json.Number
		want    []uint64
		wantErr error
	}{
		{"single", numbers("1"), []uint64{1}, nil},
		{"several", numbers("0", "7", "42"), []uint64{0, 7, 42}, nil},
		{"max value", numbers("18446744073709551615"), []uint64{18446744073709551615}, nil},

		{"empty", nil, nil, validation.ErrEmptyNumbers},
		{"too many", numbers("1", "2", "3", "4"), nil, validation.ErrTooManyNumbers},

		{"negative", numbers("-1"), nil, sqids.ErrOutOfRange},
		{"above max", numbers("18446744073709551616"), nil, sqids.ErrOutOfRange},

		{"fraction", numbers("1.5"), nil, validation.ErrInvalidNumber},
		{"exponent", numbers("1e3"), nil, validation.ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ParseNumbers(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_ParseBatch(t *testing.T) {
	v := validation.NewValidator(3, 2, 64)

	t.Run("empty batch", func(t *testing.T) {
		_, err := v.ParseBatch(nil)
		assert.ErrorIs(t, err, validation.ErrEmptyBatch)
	})

	t.Run("batch too large", func(t *testing.T) {
		_, err := v.ParseBatch([][]json.Number{numbers("1"), numbers("2"), numbers("3")})
		assert.ErrorIs(t, err, validation.ErrBatchTooLarge)
	})

	t.Run("valid batch", func(t *testing.T) {
		got, err := v.ParseBatch([][]json.Number{numbers("1"), numbers("2", "3")})
		require.NoError(t, err)
		assert.Equal(t, [][]uint64{{1}, {2, 3}}, got)
	})

	t.Run("batch with invalid items", func(t *testing.T) {
		_, err := v.ParseBatch([][]json.Number{numbers("1"), numbers("-5")})

		var batchErr *validation.BatchValidationError
		require.ErrorAs(t, err, &batchErr)
		require.Len(t, batchErr.Errors, 1)
		assert.Equal(t, 1, batchErr.Errors[0].Index)
		assert.ErrorIs(t, batchErr.Errors[0].Err, sqids.ErrOutOfRange)
	})
}

func TestValidator_ValidateID(t *testing.T) {
	v := validation.NewValidator(3, 2, 8)

	assert.NoError(t, v.ValidateID("8QRLaD"))
	assert.ErrorIs(t, v.ValidateID(""), validation.ErrEmptyID)
	assert.ErrorIs(t, v.ValidateID(strings.Repeat("a", 9)), validation.ErrIDTooLong)
}
