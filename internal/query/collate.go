// Package query implements the search, filter, sort and paginate pipeline over a
// rules catalog. Every stage is a pure function that returns a new slice.
package query

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders strings the way a locale-aware, case-insensitive compare does:
// letters compare by base character, ignoring case, accents and width.
// A Collator is not safe for concurrent use.
type Collator struct {
	c   *collate.Collator
	buf collate.Buffer
}

// NewCollator returns a root-locale collator with base sensitivity
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Und, collate.Loose)}
}

// Compare returns -1, 0 or 1
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}

// Key returns the sort key of s. Keys share the collator's buffer and stay
// valid for its lifetime.
func (c *Collator) Key(s string) []byte {
	return c.c.KeyFromString(&c.buf, s)
}
