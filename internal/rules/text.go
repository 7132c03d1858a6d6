package rules

import (
	"sort"
	"unicode/utf8"
)

// Text is the input string with a rune index.
// All offsets handed to and returned from rules are rune offsets.
type Text struct {
	s     string
	index []int // byte offset of each rune, followed by len(s)
}

// NewText indexes s by rune
func NewText(s string) *Text {
	index := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		index = append(index, i)
	}
	index = append(index, len(s))
	return &Text{s: s, index: index}
}

// String returns the underlying text
func (t *Text) String() string {
	return t.s
}

// Len returns the length of the text in runes
func (t *Text) Len() int {
	return len(t.index) - 1
}

// ByteOffset converts a rune offset into a byte offset
func (t *Text) ByteOffset(r int) int {
	return t.index[r]
}

// RuneOffset converts a byte offset on a rune boundary into a rune offset
func (t *Text) RuneOffset(b int) int {
	return sort.SearchInts(t.index, b)
}

// Slice returns the runes in [start, end)
func (t *Text) Slice(start, end int) string {
	return t.s[t.index[start]:t.index[end]]
}

// At returns the rune at offset i, or utf8.RuneError when i is out of range
func (t *Text) At(i int) rune {
	if i < 0 || i >= t.Len() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(t.s[t.index[i]:])
	return r
}
