// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Hold one read-only dictionary per word length (List).
//   - Normalize raw entries: trim, lowercase, keep only a–z words of the
//     list's length, drop duplicates while keeping order.
//   - Satisfy game.Dictionary for answer picking and guess validation.
//
// Loading lives in source.go (fs.FS / HTTP) and cache.go (memoized,
// de-duplicated loads keyed by length).

package words

import "strings"

// List is an immutable set of words that all share one length.
type List struct {
	length int
	words  []string
	set    map[string]struct{}
}

// NewList builds a List of length-letter words from raw entries.
// Entries that are blank, the wrong length, or contain non-letters are skipped.
func NewList(length int, raw []string) *List {
	l := &List{length: length, set: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) != length || !isAlpha(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l
}

// WordLength is the length shared by every word in the list.
func (l *List) WordLength() int {
	if l == nil {
		return 0
	}
	return l.length
}

// Len reports the number of words.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// At returns the i-th word in load order.
func (l *List) At(i int) string { return l.words[i] }

// Contains reports whether w is in the list. Case-insensitive.
func (l *List) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[strings.ToLower(w)]
	return ok
}

// Words returns a copy of the list in load order.
func (l *List) Words() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.words...)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
