// Package blocklist decides whether a generated ID contains a disallowed word.
package blocklist

import (
	_ "embed"
	"slices"
	"strings"
	"sync"
)

// Words this short (or IDs this short) only match exactly.
const minWordLength = 3

//go:embed words.txt
var wordsFile string

var defaultWords = sync.OnceValue(func() []string {
	var words []string
	for line := range strings.Lines(wordsFile) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
})

// Default returns a copy of the bundled word list.
func Default() []string {
	return slices.Clone(defaultWords())
}

type word struct {
	text string
	leet bool
}

type Filter struct {
	words []word
}

// New keeps only the words that can ever match an ID over alphabet:
// at least three characters long and spelled with alphabet characters,
// compared case-insensitively.
func New(words []string, alphabet string) *Filter {
	allowed := strings.ToLower(alphabet)
	seen := make(map[string]struct{}, len(words))
	f := &Filter{words: make([]word, 0, len(words))}

	for _, w := range words {
		w = strings.ToLower(w)
		if len(w) < minWordLength || !spelledWith(w, allowed) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		f.words = append(f.words, word{
			text: w,
			leet: strings.ContainsAny(w, "0123456789"),
		})
	}
	return f
}

func spelledWith(w, allowed string) bool {
	for i := 0; i < len(w); i++ {
		if strings.IndexByte(allowed, w[i]) < 0 {
			return false
		}
	}
	return true
}

func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.words)
}

func (f *Filter) IsBlocked(id string) bool {
	if f.Len() == 0 {
		return false
	}
	id = strings.ToLower(id)

	for _, w := range f.words {
		switch {
		case len(w.text) > len(id):
			continue
		case len(id) <= minWordLength || len(w.text) <= minWordLength:
			if id == w.text {
				return true
			}
		case w.leet:
			// leet spellings read as words mostly at the edges of an ID
			if strings.HasPrefix(id, w.text) || strings.HasSuffix(id, w.text) {
				return true
			}
		case strings.Contains(id, w.text):
			return true
		}
	}
	return false
}
