// Package runtime implements the runtime chain of frames described in
// spec.md §3: each Environment points to the LexicalScope it
// instantiates, an optional outer frame, and a vector of Variables in
// the same length and order as the scope's slots. All four evaluators
// share this layout; what differs between them is which field of
// Variable they populate (§4.4-§4.7).
package runtime

import (
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Variable is a single binding slot. Direct/CPS/tracing evaluation
// populates Val; the reactive evaluator populates Node (a
// *dataflow.Node, kept as `any` here to avoid a runtime<->dataflow
// import cycle); the tracing evaluator additionally tracks Cell, the
// Cell that produced Val, so later reads can follow the chain (§4.7).
type Variable struct {
	Val  value.Value
	Node any
	Cell any
}

// Environment is a single frame: the scope it instantiates, its outer
// frame, and one Variable per scope slot.
type Environment struct {
	Scope *scope.LexicalScope
	Outer *Environment
	Vars  []*Variable
}

// New builds a fresh Environment for sc, chained to outer. It enforces
// the environment-shape invariant (spec.md §3): sc.Outer and
// outer.Scope must be the same scope (or both nil).
func New(sc *scope.LexicalScope, outer *Environment) (*Environment, error) {
	var outerScope *scope.LexicalScope
	if outer != nil {
		outerScope = outer.Scope
	}
	if sc.Outer != outerScope {
		return nil, schemerr.Fatal("environment scope mismatch: scope's outer does not match outer environment's scope")
	}
	vars := make([]*Variable, len(sc.Slots()))
	for i := range vars {
		vars[i] = &Variable{}
	}
	return &Environment{Scope: sc, Outer: outer, Vars: vars}, nil
}

// Frame walks depth outer links and returns that Environment.
func (e *Environment) Frame(depth int) (*Environment, error) {
	cur := e
	for i := 0; i < depth; i++ {
		if cur == nil {
			return nil, schemerr.Fatal("environment chain shorter than reference depth %d", depth)
		}
		cur = cur.Outer
	}
	if cur == nil {
		return nil, schemerr.Fatal("environment chain shorter than reference depth %d", depth)
	}
	return cur, nil
}

// Resolve walks ref.Depth outer links and returns the Variable at
// ref.Index, checking the lexical-correctness invariant (spec.md §8.1):
// the slot landed on must have the same name and identity as ref.Target.
func (e *Environment) Resolve(ref scope.Ref) (*Variable, error) {
	frame, err := e.Frame(ref.Depth)
	if err != nil {
		return nil, err
	}
	if ref.Index < 0 || ref.Index >= len(frame.Vars) {
		return nil, schemerr.Fatal("slot index %d out of range for scope with %d slots", ref.Index, len(frame.Vars))
	}
	slots := frame.Scope.Slots()
	if slots[ref.Index] != ref.Target || slots[ref.Index].Name != ref.Name {
		return nil, schemerr.Fatal("lexical scope/environment mismatch resolving %q", ref.Name)
	}
	return frame.Vars[ref.Index], nil
}

// Shape returns the slot count of e's own scope, used by the
// environment-shape test (spec.md §8.8).
func (e *Environment) Shape() int { return len(e.Vars) }
