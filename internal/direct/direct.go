// Package direct implements the direct evaluator described in spec.md
// §4.4: a structurally-recursive IR walker returning a Value or
// propagating an error. Runtime failures (throw, arity/type errors) are
// represented as *schemerr.SchemeException, returned as an ordinary Go
// error rather than a panic/recover exception — an idiomatic-Go
// rendering of "raises a tagged exception on failure" — while internal
// invariant violations (a malformed node, a scope/environment mismatch)
// propagate as host errors wrapping schemerr.Fatal, exactly as spec.md
// §7 requires.
package direct

import (
	"strconv"

	"github.com/cwbudde/go-scheval/internal/builtins"
	"github.com/cwbudde/go-scheval/internal/datum"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Evaluator walks IR nodes directly.
type Evaluator struct {
	Gen     *value.Generator
	Symbols *value.SymbolTable
	Builtin *builtins.Registry
}

// New builds a direct Evaluator sharing g, symbols and builtin registry
// with the rest of the interpreter.
func New(g *value.Generator, symbols *value.SymbolTable, reg *builtins.Registry) *Evaluator {
	return &Evaluator{Gen: g, Symbols: symbols, Builtin: reg}
}

// Eval evaluates node in env per the node contract table in spec.md
// §4.4.
func (e *Evaluator) Eval(node ir.Node, env *runtime.Environment) (value.Value, error) {
	switch n := node.(type) {
	case *ir.Constant:
		return datum.ToValue(e.Gen, e.Symbols, n.Datum)
	case *ir.Variable:
		v, err := env.Resolve(n.Ref)
		if err != nil {
			return nil, err
		}
		return v.Val, nil
	case *ir.Assign:
		val, err := e.Eval(n.Body, env)
		if err != nil {
			return nil, err
		}
		slot, err := env.Resolve(n.Ref)
		if err != nil {
			return nil, err
		}
		slot.Val = val
		return e.Gen.Unspecified(), nil
	case *ir.If:
		cond, err := e.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return e.Eval(n.Then, env)
		}
		return e.Eval(n.Else, env)
	case *ir.Lambda:
		return e.Gen.LambdaProc(env, n), nil
	case *ir.Sequence:
		if _, err := e.Eval(n.Head, env); err != nil {
			return nil, err
		}
		return e.Eval(n.Tail, env)
	case *ir.Apply:
		return e.evalApply(n, env)
	case *ir.Letrec:
		return e.evalLetrec(n, env)
	case *ir.Try:
		return e.evalTry(n, env)
	case *ir.Throw:
		v, err := e.Eval(n.Body, env)
		if err != nil {
			return nil, err
		}
		return nil, schemerr.NewSchemeException(v)
	case *ir.Input:
		return nil, schemerr.NewBuildError(n.Range(), "input is not supported by the direct evaluator")
	default:
		return nil, schemerr.Fatal("direct evaluator: unrecognized node kind")
	}
}

func (e *Evaluator) evalApply(n *ir.Apply, env *runtime.Environment) (value.Value, error) {
	proc, err := e.Eval(n.Proc, env)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.Apply(proc, args)
}

// Apply dispatches a procedure value against already-evaluated args. It
// is exported so callers outside this evaluator (the CLI's
// cps-builtins wrapping, which must invoke a continuation value handed
// to it as an ordinary argument) can reuse the same proc-kind dispatch
// evalApply uses internally, instead of duplicating it.
func (e *Evaluator) Apply(proc value.Value, args []value.Value) (value.Value, error) {
	switch p := proc.(type) {
	case *value.BuiltinProc:
		return p.Direct(e.Gen, args)
	case *value.LambdaProc:
		return e.applyLambda(p, args)
	default:
		return nil, schemerr.NewSchemeException(e.Gen.Error("cannot apply "+proc.String(), ""))
	}
}

func (e *Evaluator) applyLambda(p *value.LambdaProc, args []value.Value) (value.Value, error) {
	lam, ok := p.Node.(*ir.Lambda)
	if !ok {
		return nil, schemerr.Fatal("lambda procedure's node is not an *ir.Lambda")
	}
	capturedEnv, ok := p.Env.(*runtime.Environment)
	if !ok && p.Env != nil {
		return nil, schemerr.Fatal("lambda procedure's captured environment is malformed")
	}
	if len(args) != len(lam.Params) {
		return nil, schemerr.NewSchemeException(e.Gen.Error(
			"arity mismatch: expected "+strconv.Itoa(len(lam.Params))+" arguments, got "+strconv.Itoa(len(args)), ""))
	}
	frame, err := runtime.New(lam.InnerScope, capturedEnv)
	if err != nil {
		return nil, err
	}
	for i, a := range args {
		frame.Vars[i].Val = a
	}
	return e.Eval(lam.Body, frame)
}

func (e *Evaluator) evalLetrec(n *ir.Letrec, env *runtime.Environment) (value.Value, error) {
	frame, err := runtime.New(n.InnerScope, env)
	if err != nil {
		return nil, err
	}
	for _, v := range frame.Vars {
		v.Val = e.Gen.Unspecified()
	}
	for _, b := range n.Bindings {
		v, err := e.Eval(b.Body, frame)
		if err != nil {
			return nil, err
		}
		slot, err := frame.Resolve(b.Ref)
		if err != nil {
			return nil, err
		}
		slot.Val = v
	}
	return e.Eval(n.Body, frame)
}

func (e *Evaluator) evalTry(n *ir.Try, env *runtime.Environment) (value.Value, error) {
	result, err := e.Eval(n.TryBody, env)
	if err == nil {
		return result, nil
	}
	se, ok := err.(*schemerr.SchemeException)
	if !ok {
		return nil, err
	}
	catchProc := e.Gen.LambdaProc(env, n.CatchLambda)
	return e.applyLambda(catchProc, []value.Value{se.Payload})
}
