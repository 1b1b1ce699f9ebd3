package digits_test

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqids/internal/digits"
)

var decimal = []byte("0123456789")

func TestAppend(t *testing.T) {
	tests := []struct {
		name     string
		n        uint64
		alphabet string
		want     string
	}{
		{"zero is first character", 0, "abc", "a"},
		{"decimal", 1234567890, "0123456789", "1234567890"},
		{"binary", 5, "01", "101"},
		{"hex", 255, "0123456789abcdef", "ff"},
		{"max uint64 hex", math.MaxUint64, "0123456789abcdef", "ffffffffffffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := digits.Append(nil, tt.n, []byte(tt.alphabet))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppend_KeepsPrefix(t *testing.T) {
	got := digits.Append([]byte("x-"), 42, decimal)
	assert.Equal(t, "x-42", string(got))
}

func TestParse_RoundTrip(t *testing.T) {
	alphabets := []string{"01", "xyz", "fwjBhEY2uczNPDiloxmvISCrytaJO4d71T0W3qnMZbXVHg6eR8sAQ5KkpLUG"}
	numbers := []uint64{0, 1, 2, 61, 62, 1000, 1_000_000, math.MaxUint32, math.MaxUint64 - 1, math.MaxUint64}

	for _, a := range alphabets {
		for _, n := range numbers {
			s := digits.Append(nil, n, []byte(a))
			got, ok := digits.Parse(string(s), []byte(a))
			require.True(t, ok, "alphabet %q, number %d", a, n)
			assert.Equal(t, n, got, "alphabet %q", a)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"empty", ""},
		{"unknown character", "12a4"},
		{"overflow", "18446744073709551616"},
		{"far overflow", strings.Repeat("9", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := digits.Parse(tt.s, decimal)
			assert.False(t, ok)
		})
	}
}

func TestAppendBig(t *testing.T) {
	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	assert.Equal(t, "123456789012345678901234567890", string(digits.AppendBig(nil, huge, decimal)))
	assert.Equal(t, "0", string(digits.AppendBig(nil, big.NewInt(0), decimal)))
	assert.Equal(t, "77", string(digits.AppendBig(nil, big.NewInt(77), decimal)))
}

func TestParseBig(t *testing.T) {
	n, ok := digits.ParseBig("98765432109876543210", decimal)
	require.True(t, ok)
	assert.Equal(t, "98765432109876543210", n.String())

	_, ok = digits.ParseBig("", decimal)
	assert.False(t, ok)

	_, ok = digits.ParseBig("12x", decimal)
	assert.False(t, ok)
}
