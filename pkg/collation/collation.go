// Package collation provides locale-aware string ordering for display lists.
package collation

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings under a locale. A collate.Collator keeps
// internal buffers, so access is serialized.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// New returns a collator for the given language tag.
func New(tag language.Tag) *Collator {
	return &Collator{c: collate.New(tag)}
}

// Japanese returns a collator using Japanese ordering rules.
func Japanese() *Collator {
	return New(language.Japanese)
}

// Compare returns -1, 0 or 1 comparing a and b.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

// Less reports whether a sorts before b.
func (c *Collator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}
