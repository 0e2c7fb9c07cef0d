// Package builtins implements the required builtin procedures from
// spec.md §4.8: arithmetic, comparisons, pair operations, predicates,
// equality specializations, I/O, and the CPS-transform's identity
// continuation SUCC. Every builtin is exposed in both a direct shape
// ([]Value -> Value, may return a *schemerr.SchemeException) and a CPS
// shape (taking a trailing succeed/fail pair); WrapCPS derives the
// latter from the former mechanically, since every builtin in this
// language is itself a pure, non-suspending Go function.
package builtins

import (
	"fmt"
	"io"

	"github.com/cwbudde/go-scheval/internal/cont"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Registry holds every builtin procedure by name.
type Registry struct {
	procs map[string]*value.BuiltinProc
	out   io.Writer
}

// New builds the standard registry, stamping each BuiltinProc through g
// and writing display/newline output to out.
func New(g *value.Generator, out io.Writer) *Registry {
	r := &Registry{procs: make(map[string]*value.BuiltinProc), out: out}
	r.registerArithmetic(g)
	r.registerComparisons(g)
	r.registerPairOps(g)
	r.registerPredicates(g)
	r.registerEquality(g)
	r.registerIO(g)
	r.register(g, "SUCC", succIdentity)
	return r
}

func (r *Registry) register(g *value.Generator, name string, direct value.DirectFunc) {
	r.procs[name] = g.BuiltinProc(name, direct, WrapCPS(direct))
}

// Lookup returns the builtin named name, or nil if there is none.
func (r *Registry) Lookup(name string) (*value.BuiltinProc, bool) {
	p, ok := r.procs[name]
	return p, ok
}

// Names returns every registered builtin's name, for environments that
// want to pre-bind them all as globals.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procs))
	for n := range r.procs {
		names = append(names, n)
	}
	return names
}

// WrapCPS derives a CPS-style builtin from a direct one: it calls
// direct synchronously (builtins never suspend, §5) and dispatches the
// outcome to succ or fail.
func WrapCPS(direct value.DirectFunc) cont.CPSFunc {
	return func(g *value.Generator, args []value.Value, succ cont.Succ, fail cont.Fail) cont.Thunk {
		v, err := direct(g, args)
		if err != nil {
			return cont.BounceFail(fail, payloadOf(g, err))
		}
		return cont.Bounce(succ, v)
	}
}

// WithTrailingContinuation returns a new Registry whose direct
// procedures each expect a trailing continuation argument instead of
// returning their result normally: the last argument is applied (via
// apply) to the wrapped direct call's result. This is what lets a
// program produced by the source-level CPS transform invoke a builtin
// from the direct evaluator, since every call in transformed source
// — builtin or lambda alike — passes its continuation as the last
// argument (spec.md §4.3: "After CPS, builtins must be wrapped so each
// expects a trailing continuation and calls it with its direct
// result.").
func (r *Registry) WithTrailingContinuation(g *value.Generator, apply func(proc value.Value, args []value.Value) (value.Value, error)) *Registry {
	wrapped := &Registry{procs: make(map[string]*value.BuiltinProc, len(r.procs)), out: r.out}
	for name, proc := range r.procs {
		if name == "SUCC" {
			// SUCC is itself the transform's top-level continuation: it
			// already takes exactly the value to return, so wrapping it
			// with another trailing continuation would misread that value
			// as a continuation and call the real SUCC with zero args.
			wrapped.procs[name] = proc
			continue
		}
		direct := proc.Direct
		trailing := func(g *value.Generator, args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return nil, raise(g, "%s expects a trailing continuation argument", name)
			}
			k := args[len(args)-1]
			result, err := direct(g, args[:len(args)-1])
			if err != nil {
				return nil, err
			}
			return apply(k, []value.Value{result})
		}
		wrapped.procs[name] = g.BuiltinProc(name, trailing, WrapCPS(trailing))
	}
	return wrapped
}

func payloadOf(g *value.Generator, err error) value.Value {
	if se, ok := err.(*schemerr.SchemeException); ok {
		return se.Payload
	}
	return g.Error(err.Error(), "")
}

func raise(g *value.Generator, format string, args ...any) error {
	return schemerr.NewSchemeException(g.Error(fmt.Sprintf(format, args...), ""))
}

func succIdentity(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, raise(g, "SUCC expects exactly 1 argument, got %d", len(args))
	}
	return args[0], nil
}
