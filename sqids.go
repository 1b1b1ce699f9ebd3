// Package sqids generates short, URL-safe IDs from sequences of non-negative
// numbers and decodes them back. IDs are not encrypted: anyone holding the
// alphabet can decode them.
package sqids

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode/utf8"

	"sqids/internal/alphabet"
	"sqids/internal/blocklist"
	"sqids/internal/digits"
)

const (
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	minAlphabetLength = 5
)

type Options struct {
	// Alphabet defaults to DefaultAlphabet.
	Alphabet string
	// MinLength pads shorter IDs. Must be within [0, len(Alphabet)].
	MinLength int
	// Blocklist defaults to the bundled word list when nil.
	// A non-nil empty slice disables blocking.
	Blocklist []string
}

// Sqids is immutable once created and safe for concurrent use.
type Sqids struct {
	alphabet  []byte
	index     alphabet.Index
	minLength int
	blocklist *blocklist.Filter
}

func New(opts Options) (*Sqids, error) {
	chars := cmp.Or(opts.Alphabet, DefaultAlphabet)
	if err := validateAlphabet(chars); err != nil {
		return nil, err
	}

	if opts.MinLength < 0 || opts.MinLength > len(chars) {
		return nil, fmt.Errorf("%w: must be between 0 and %d", ErrMinLengthOutOfRange, len(chars))
	}

	words := opts.Blocklist
	if words == nil {
		words = blocklist.Default()
	}

	shuffled := []byte(chars)
	alphabet.Shuffle(shuffled)

	return &Sqids{
		alphabet:  shuffled,
		index:     alphabet.NewIndex(shuffled),
		minLength: opts.MinLength,
		blocklist: blocklist.New(words, chars),
	}, nil
}

func validateAlphabet(chars string) error {
	for i := 0; i < len(chars); i++ {
		if chars[i] >= utf8.RuneSelf {
			return ErrAlphabetMultibyte
		}
	}

	if len(chars) < minAlphabetLength {
		return ErrAlphabetTooShort
	}

	var seen [utf8.RuneSelf]bool
	for i := 0; i < len(chars); i++ {
		if seen[chars[i]] {
			return ErrAlphabetNotUnique
		}
		seen[chars[i]] = true
	}
	return nil
}

// Encode returns an empty string for empty input. It fails only with
// ErrBlocklistExhausted, when every variation of the ID it tried was blocked.
func (s *Sqids) Encode(numbers []uint64) (string, error) {
	if len(numbers) == 0 {
		return "", nil
	}

	// throwaway is nil until padding or the blocklist forces a junk leading
	// number, marked in the ID by the partition character.
	var throwaway *big.Int

	for attempt := 0; attempt <= len(s.alphabet); attempt++ {
		id, tail := s.compose(numbers, throwaway)

		if len(id) < s.minLength {
			width := s.minLength - len(id)
			if throwaway != nil {
				width += len(digits.AppendBig(nil, throwaway, tail[:len(tail)-1]))
			}
			throwaway, _ = digits.ParseBig(string(tail[:min(width, len(tail))]), tail)
			continue
		}

		if !s.blocklist.IsBlocked(id) {
			return id, nil
		}

		if throwaway == nil {
			throwaway = new(big.Int)
		} else {
			throwaway.Add(throwaway, big.NewInt(1))
		}
	}

	return "", ErrBlocklistExhausted
}

// compose lays the numbers out without any padding or blocklist checks.
// It also returns the working alphabet as it was after the last number.
func (s *Sqids) compose(numbers []uint64, throwaway *big.Int) (string, []byte) {
	size := len(s.alphabet)

	shift := 0
	if throwaway != nil {
		shift = 1
	}

	offset := len(numbers) + shift
	if throwaway != nil {
		mod := new(big.Int).Mod(throwaway, big.NewInt(int64(size)))
		offset += int(s.alphabet[mod.Int64()])
	}
	for i, n := range numbers {
		offset += i + shift + int(s.alphabet[n%uint64(size)])
	}
	offset %= size

	work := alphabet.Rotate(s.alphabet, offset)
	prefix, partition := work[0], work[1]
	work = work[2:]

	id := make([]byte, 0, max(s.minLength, 1+len(numbers)*4))
	id = append(id, prefix)

	if throwaway != nil {
		id = digits.AppendBig(id, throwaway, work[:len(work)-1])
		id = append(id, partition)
		alphabet.Shuffle(work)
	}

	for i, n := range numbers {
		id = digits.Append(id, n, work[:len(work)-1])
		if i < len(numbers)-1 {
			id = append(id, work[len(work)-1])
			alphabet.Shuffle(work)
		}
	}

	return string(id), work
}

// Decode returns nil for anything Encode could not have produced:
// empty input, foreign characters, broken structure or non-canonical digits.
func (s *Sqids) Decode(id string) []uint64 {
	if id == "" {
		return nil
	}
	for i := 0; i < len(id); i++ {
		if !s.index.Contains(id[i]) {
			return nil
		}
	}

	work := alphabet.Rotate(s.alphabet, s.index.Pos(id[0]))
	partition := work[1]
	work = work[2:]
	rest := id[1:]

	var throwaway *big.Int
	if chunk, after, found := cut(rest, partition); found {
		t, ok := digits.ParseBig(chunk, work[:len(work)-1])
		if !ok {
			return nil
		}
		throwaway = t
		rest = after
		alphabet.Shuffle(work)
	}

	var numbers []uint64
	for rest != "" {
		chunk, after, found := cut(rest, work[len(work)-1])
		n, ok := digits.Parse(chunk, work[:len(work)-1])
		if !ok {
			return nil
		}
		numbers = append(numbers, n)

		if !found {
			break
		}
		if after == "" {
			return nil
		}
		rest = after
		alphabet.Shuffle(work)
	}

	if len(numbers) == 0 {
		return nil
	}

	// Only the exact layout Encode would have produced is accepted. Blocked
	// IDs still decode since the check skips the blocklist.
	if canonical, _ := s.compose(numbers, throwaway); canonical != id {
		return nil
	}
	return numbers
}

func cut(s string, sep byte) (before, after string, found bool) {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func (s *Sqids) MinValue() uint64 { return 0 }

func (s *Sqids) MaxValue() uint64 { return math.MaxUint64 }

func (s *Sqids) MinLength() int { return s.minLength }

func (s *Sqids) AlphabetSize() int { return len(s.alphabet) }

// BlocklistSize counts the words left after filtering against the alphabet.
func (s *Sqids) BlocklistSize() int { return s.blocklist.Len() }
