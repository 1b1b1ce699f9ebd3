package alphabet

// Shuffle permutes a in place. The result depends only on the bytes of a,
// so the same input always yields the same permutation.
func Shuffle(a []byte) {
	n := len(a)
	for i, j := 0, n-1; j > 0; i, j = i+1, j-1 {
		r := (i*j + int(a[i]) + int(a[j])) % n
		a[i], a[r] = a[r], a[i]
	}
}

// Rotate returns a new slice holding a[offset:] followed by a[:offset].
func Rotate(a []byte, offset int) []byte {
	out := make([]byte, 0, len(a))
	out = append(out, a[offset:]...)
	return append(out, a[:offset]...)
}

// Index maps a byte to its position in an alphabet.
type Index [256]int16

func NewIndex(a []byte) Index {
	var idx Index
	for i := range idx {
		idx[i] = -1
	}
	for i, c := range a {
		idx[c] = int16(i)
	}
	return idx
}

func (idx *Index) Contains(c byte) bool {
	return idx[c] >= 0
}

// Pos returns the position of c, or -1 when c is not in the alphabet.
func (idx *Index) Pos(c byte) int {
	return int(idx[c])
}
