package sqids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber reads a base-10 number and checks that it fits in
// [MinValue, MaxValue]. Out-of-range input fails with ErrOutOfRange.
func ParseNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) || (strings.HasPrefix(s, "-") && isDigits(s[1:])) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
	}
	return 0, fmt.Errorf("invalid number %q: %w", s, err)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
