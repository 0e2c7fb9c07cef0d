// Package cont defines the trampoline vocabulary shared by the CPS
// evaluator and the CPS forms of the builtins: a Thunk is "the next step
// to run", and Succ/Fail are the two continuations every CPS-evaluated
// node invokes exactly one of (§4.5).
//
// It is split out from package cpseval so that package builtins (which
// needs to implement Succ/Fail-shaped CPS builtins) does not have to
// import the evaluator package that in turn imports builtins.
package cont

import "github.com/cwbudde/go-scheval/internal/value"

// Thunk is a deferred step of work. A driving loop repeatedly calls a
// Thunk until it returns nil, which avoids recursing on the Go call
// stack for deeply recursive Scheme programs (design notes, §4.5).
type Thunk func() Thunk

// Succ is invoked with the value a computation produced.
type Succ func(value.Value) Thunk

// Fail is invoked with the value a computation raised (via throw, an
// arity/type error, or a builtin failure).
type Fail func(value.Value) Thunk

// CPSFunc is the CPS-style shape of a builtin procedure.
type CPSFunc func(g *value.Generator, args []value.Value, succ Succ, fail Fail) Thunk

// Bounce turns an immediate (non-deferred) continuation call into a
// Thunk, for callers that already have a value in hand and want to
// invoke succ/fail without growing the Go stack at the call site.
func Bounce(succ Succ, v value.Value) Thunk {
	return func() Thunk { return succ(v) }
}

// BounceFail is Bounce's Fail-continuation counterpart.
func BounceFail(fail Fail, v value.Value) Thunk {
	return func() Thunk { return fail(v) }
}

// Run drains a Thunk chain to completion. It returns nothing: the
// outcome reaches the caller only through the terminal succ/fail call.
func Run(t Thunk) {
	for t != nil {
		t = t()
	}
}
