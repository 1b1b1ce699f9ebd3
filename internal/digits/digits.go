// Package digits converts numbers to and from strings over an arbitrary
// alphabet, most significant digit first.
package digits

import (
	"bytes"
	"math/big"
	"math/bits"
	"slices"
)

func Append(dst []byte, n uint64, alphabet []byte) []byte {
	base := uint64(len(alphabet))
	start := len(dst)
	for {
		dst = append(dst, alphabet[n%base])
		n /= base
		if n == 0 {
			break
		}
	}
	slices.Reverse(dst[start:])
	return dst
}

// Parse returns false when s is empty, holds a byte outside alphabet,
// or does not fit into uint64.
func Parse(s string, alphabet []byte) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	base := uint64(len(alphabet))
	var n uint64
	for i := 0; i < len(s); i++ {
		d := bytes.IndexByte(alphabet, s[i])
		if d < 0 {
			return 0, false
		}
		hi, lo := bits.Mul64(n, base)
		if hi != 0 {
			return 0, false
		}
		sum, carry := bits.Add64(lo, uint64(d), 0)
		if carry != 0 {
			return 0, false
		}
		n = sum
	}
	return n, true
}

func AppendBig(dst []byte, n *big.Int, alphabet []byte) []byte {
	if n.IsUint64() {
		return Append(dst, n.Uint64(), alphabet)
	}
	base := big.NewInt(int64(len(alphabet)))
	q := new(big.Int).Set(n)
	r := new(big.Int)
	start := len(dst)
	for q.Sign() > 0 {
		q.QuoRem(q, base, r)
		dst = append(dst, alphabet[r.Int64()])
	}
	slices.Reverse(dst[start:])
	return dst
}

func ParseBig(s string, alphabet []byte) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	base := big.NewInt(int64(len(alphabet)))
	n := new(big.Int)
	d := new(big.Int)
	for i := 0; i < len(s); i++ {
		pos := bytes.IndexByte(alphabet, s[i])
		if pos < 0 {
			return nil, false
		}
		n.Mul(n, base)
		n.Add(n, d.SetInt64(int64(pos)))
	}
	return n, true
}
