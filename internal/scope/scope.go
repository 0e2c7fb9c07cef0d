// Package scope implements the compile-time nested scope tracking
// described in spec.md §3-§4.1: an ordered list of named slots per
// scope, with lookup resolving a name to a (depth, index) reference by
// walking outward through enclosing scopes.
package scope

import "fmt"

// Slot is one named binding position within a LexicalScope. Its
// identity (the pointer) is what an ir.Variable's Ref.Target is checked
// against to uphold the lexical-correctness invariant (spec.md §8.1).
type Slot struct {
	Name  string
	Index int
}

// LexicalScope is an ordered list of slots plus an optional outer scope.
type LexicalScope struct {
	Outer *LexicalScope
	slots []*Slot
}

// NewScope creates a fresh scope nested inside outer (outer may be nil
// for the top level).
func NewScope(outer *LexicalScope) *LexicalScope {
	return &LexicalScope{Outer: outer}
}

// AddOwnSlot allocates a new slot named name in this scope and returns
// its index. Callers (the IR builder) are responsible for rejecting
// duplicate names before calling this, per the arity/shape checks in
// spec.md §4.1.
func (s *LexicalScope) AddOwnSlot(name string) int {
	idx := len(s.slots)
	s.slots = append(s.slots, &Slot{Name: name, Index: idx})
	return idx
}

// Slots returns the scope's own slots in declaration order.
func (s *LexicalScope) Slots() []*Slot { return s.slots }

// Ref is a resolved pointer to a variable: depth counts how many outer
// links to walk from the evaluation environment, index is the slot
// position within the scope landed on, and Target is that slot's
// identity (used to assert the lexical-correctness invariant at
// resolution time).
type Ref struct {
	Name   string
	Depth  int
	Index  int
	Target *Slot
}

// Lookup walks outward from s counting depth until it finds a slot named
// name, returning its Ref. ok is false if no enclosing scope binds name.
func (s *LexicalScope) Lookup(name string) (Ref, bool) {
	depth := 0
	for cur := s; cur != nil; cur, depth = cur.Outer, depth+1 {
		for _, slot := range cur.slots {
			if slot.Name == name {
				return Ref{Name: name, Depth: depth, Index: slot.Index, Target: slot}, true
			}
		}
	}
	return Ref{}, false
}

// String renders a scope chain depth for diagnostics.
func (s *LexicalScope) String() string {
	return fmt.Sprintf("scope(%d slots)", len(s.slots))
}
