// Package cpseval implements the CPS evaluator described in spec.md
// §4.5: the same node shape as the direct evaluator, but every
// operation takes a succeed and a fail continuation instead of
// returning (Value, error) directly. Exactly one of succeed/fail is
// invoked per node. Continuation invocations return a cont.Thunk instead
// of recursing, so Run can drive the whole evaluation from an explicit
// work loop and avoid exhausting the Go call stack on deeply recursive
// Scheme programs (design notes, §9) — the same motivation the
// teacher's bytecode VM had for moving off a recursive AST walker.
package cpseval

import (
	"strconv"

	"github.com/cwbudde/go-scheval/internal/builtins"
	"github.com/cwbudde/go-scheval/internal/cont"
	"github.com/cwbudde/go-scheval/internal/datum"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Evaluator walks IR nodes in continuation-passing style.
type Evaluator struct {
	Gen     *value.Generator
	Symbols *value.SymbolTable
	Builtin *builtins.Registry
}

// New builds a CPS Evaluator.
func New(g *value.Generator, symbols *value.SymbolTable, reg *builtins.Registry) *Evaluator {
	return &Evaluator{Gen: g, Symbols: symbols, Builtin: reg}
}

// Run drives node to completion and returns its terminal outcome: either
// a value (err == nil) or the payload of whatever reached the top-level
// fail continuation, wrapped as a *schemerr.SchemeException so callers
// can distinguish a raised Scheme value from a Go-level error the way
// spec.md §7 requires ("BuildError and SchemeException arrive at fail
// wrapped in an Error value; unknown host exceptions propagate").
func (e *Evaluator) Run(node ir.Node, env *runtime.Environment) (value.Value, error) {
	var result value.Value
	var failed error
	succ := func(v value.Value) cont.Thunk {
		result = v
		return nil
	}
	fail := func(v value.Value) cont.Thunk {
		failed = schemerr.NewSchemeException(v)
		return nil
	}
	cont.Run(func() cont.Thunk { return e.eval(node, env, succ, fail) })
	return result, failed
}

func (e *Evaluator) eval(node ir.Node, env *runtime.Environment, succ cont.Succ, fail cont.Fail) cont.Thunk {
	switch n := node.(type) {
	case *ir.Constant:
		v, err := datum.ToValue(e.Gen, e.Symbols, n.Datum)
		if err != nil {
			return cont.BounceFail(fail, e.buildErrValue(err))
		}
		return cont.Bounce(succ, v)
	case *ir.Variable:
		v, err := env.Resolve(n.Ref)
		if err != nil {
			panic(err) // internal invariant violation: never catchable
		}
		return cont.Bounce(succ, v.Val)
	case *ir.Assign:
		return e.eval(n.Body, env, func(v value.Value) cont.Thunk {
			slot, err := env.Resolve(n.Ref)
			if err != nil {
				panic(err)
			}
			slot.Val = v
			return cont.Bounce(succ, e.Gen.Unspecified())
		}, fail)
	case *ir.If:
		return e.eval(n.Cond, env, func(c value.Value) cont.Thunk {
			if value.Truthy(c) {
				return e.eval(n.Then, env, succ, fail)
			}
			return e.eval(n.Else, env, succ, fail)
		}, fail)
	case *ir.Lambda:
		return cont.Bounce(succ, e.Gen.LambdaProc(env, n))
	case *ir.Sequence:
		return e.eval(n.Head, env, func(value.Value) cont.Thunk {
			return e.eval(n.Tail, env, succ, fail)
		}, fail)
	case *ir.Apply:
		return e.evalApply(n, env, succ, fail)
	case *ir.Letrec:
		return e.evalLetrec(n, env, succ, fail)
	case *ir.Try:
		return e.evalTry(n, env, succ, fail)
	case *ir.Throw:
		return e.eval(n.Body, env, func(v value.Value) cont.Thunk {
			return cont.BounceFail(fail, v)
		}, fail)
	case *ir.Input:
		return cont.BounceFail(fail, e.Gen.Error("input is not supported by the CPS evaluator", ""))
	default:
		panic(schemerr.Fatal("cps evaluator: unrecognized node kind"))
	}
}

func (e *Evaluator) buildErrValue(err error) value.Value {
	return e.Gen.Error(err.Error(), "")
}

func (e *Evaluator) evalApply(n *ir.Apply, env *runtime.Environment, succ cont.Succ, fail cont.Fail) cont.Thunk {
	return e.eval(n.Proc, env, func(proc value.Value) cont.Thunk {
		return e.evalArgs(n.Args, env, nil, func(args []value.Value) cont.Thunk {
			return e.dispatch(proc, args, succ, fail)
		}, fail)
	}, fail)
}

// evalArgs evaluates args left to right, accumulating results as a
// reversed slice and flipping before handing them to done (§4.5:
// "the accumulator is built as a reverse-order Pair-list and flipped
// before dispatch" — rendered here as a plain Go slice rather than a
// Scheme Pair chain, since nothing downstream needs it boxed as a
// Value).
func (e *Evaluator) evalArgs(args []ir.Node, env *runtime.Environment, acc []value.Value, done func([]value.Value) cont.Thunk, fail cont.Fail) cont.Thunk {
	if len(args) == 0 {
		flipped := make([]value.Value, len(acc))
		for i, v := range acc {
			flipped[len(acc)-1-i] = v
		}
		return done(flipped)
	}
	return e.eval(args[0], env, func(v value.Value) cont.Thunk {
		return e.evalArgs(args[1:], env, append([]value.Value{v}, acc...), done, fail)
	}, fail)
}

func (e *Evaluator) dispatch(proc value.Value, args []value.Value, succ cont.Succ, fail cont.Fail) cont.Thunk {
	switch p := proc.(type) {
	case *value.BuiltinProc:
		cpsFn, ok := p.CPS.(cont.CPSFunc)
		if !ok {
			panic(schemerr.Fatal("builtin %q has no CPS implementation", p.Name))
		}
		return cpsFn(e.Gen, args, succ, fail)
	case *value.LambdaProc:
		return e.applyLambda(p, args, succ, fail)
	default:
		return cont.BounceFail(fail, e.Gen.Error("cannot apply "+proc.String(), ""))
	}
}

func (e *Evaluator) applyLambda(p *value.LambdaProc, args []value.Value, succ cont.Succ, fail cont.Fail) cont.Thunk {
	lam, ok := p.Node.(*ir.Lambda)
	if !ok {
		panic(schemerr.Fatal("lambda procedure's node is not an *ir.Lambda"))
	}
	capturedEnv, _ := p.Env.(*runtime.Environment)
	if len(args) != len(lam.Params) {
		return cont.BounceFail(fail, e.Gen.Error(
			"arity mismatch: expected "+strconv.Itoa(len(lam.Params))+" arguments, got "+strconv.Itoa(len(args)), ""))
	}
	frame, err := runtime.New(lam.InnerScope, capturedEnv)
	if err != nil {
		panic(err)
	}
	for i, a := range args {
		frame.Vars[i].Val = a
	}
	return e.eval(lam.Body, frame, succ, fail)
}

func (e *Evaluator) evalLetrec(n *ir.Letrec, env *runtime.Environment, succ cont.Succ, fail cont.Fail) cont.Thunk {
	frame, err := runtime.New(n.InnerScope, env)
	if err != nil {
		panic(err)
	}
	for _, v := range frame.Vars {
		v.Val = e.Gen.Unspecified()
	}
	return e.evalLetrecBindings(n.Bindings, 0, frame, n.Body, succ, fail)
}

func (e *Evaluator) evalLetrecBindings(bindings []ir.LetrecBinding, i int, frame *runtime.Environment, body ir.Node, succ cont.Succ, fail cont.Fail) cont.Thunk {
	if i == len(bindings) {
		return e.eval(body, frame, succ, fail)
	}
	b := bindings[i]
	return e.eval(b.Body, frame, func(v value.Value) cont.Thunk {
		slot, err := frame.Resolve(b.Ref)
		if err != nil {
			panic(err)
		}
		slot.Val = v
		return e.evalLetrecBindings(bindings, i+1, frame, body, succ, fail)
	}, fail)
}

func (e *Evaluator) evalTry(n *ir.Try, env *runtime.Environment, succ cont.Succ, fail cont.Fail) cont.Thunk {
	// Install a new fail that applies the catch lambda to the thrown
	// value with the outer succeed/fail (§4.5).
	newFail := func(thrown value.Value) cont.Thunk {
		catchProc := e.Gen.LambdaProc(env, n.CatchLambda)
		return e.applyLambda(catchProc, []value.Value{thrown}, succ, fail)
	}
	return e.eval(n.TryBody, env, succ, newFail)
}
