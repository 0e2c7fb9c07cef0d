// Package gensym implements the globally-unique fresh-name allocator
// used by the simplifier's or-expansion and the CPS transform (§4.2,
// §4.3). It is a small, explicit counter rather than a package-level
// global so that multiple interpreter contexts can run in the same
// process without sharing fresh names (design notes, §9).
package gensym

import (
	"fmt"
	"sync"
)

// Counter allocates unique names with a shared, mutex-protected
// counter.
type Counter struct {
	mu sync.Mutex
	n  uint64
}

// New returns a zeroed Counter.
func New() *Counter { return &Counter{} }

// Next returns a fresh name. Callers may supply a prefix for
// readability; the empty prefix defaults to "g".
func (c *Counter) Next(prefix string) string {
	if prefix == "" {
		prefix = "g"
	}
	c.mu.Lock()
	c.n++
	n := c.n
	c.mu.Unlock()
	return fmt.Sprintf("%s%%%d", prefix, n)
}
