// Package cpstransform implements the purely syntactic source-to-source
// CPS rewrite described in spec.md §4.3: ⟦e⟧k rewrites e into a program
// that evaluates e and passes its value to the continuation expression
// k, so that every non-trivial expression passes its result to an
// explicit continuation instead of returning one. The input is expected
// to already have been through forms.Simplify (and/or are gone).
//
// try/throw are left untouched: the CPS evaluator (package cpseval)
// handles non-local exit natively and this transform does not attempt
// to express it in transformed source (design notes, §9).
package cpstransform

import (
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// Gensym is the fresh-name source used for succ/continuation
// parameters, normally ctx.Context.Gensym.
type Gensym func(prefix string) string

// Transform rewrites e so that it passes its result to k.
func Transform(e sexpr.SExpr, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if isLeaf(e) {
		return applyK(k, e)
	}
	form, err := forms.Classify(e)
	if err != nil {
		// Not a recognized special form and not a leaf: treat as an
		// application (the builder will surface the same error later
		// if it truly is malformed).
		return transformApplyExpr(e, k, gensym)
	}
	switch f := form.(type) {
	case forms.QuoteForm:
		return applyK(k, e)
	case forms.IfForm:
		return transformIf(e.Range(), f, k, gensym)
	case forms.LambdaForm:
		return transformLambda(e.Range(), f, k, gensym)
	case forms.SetForm:
		return transformSet(e.Range(), f, k, gensym)
	case forms.BeginForm:
		return transformBegin(e.Range(), f.Exprs, k, gensym)
	case forms.LetrecForm:
		return transformLetrec(e.Range(), f, k, gensym)
	case forms.ThrowForm, forms.TryForm, forms.InputForm:
		return applyK(k, e)
	case forms.ApplicationForm:
		return transformApply(e.Range(), append([]sexpr.SExpr{f.Proc}, f.Args...), k, gensym)
	default:
		return applyK(k, e)
	}
}

func isLeaf(e sexpr.SExpr) bool {
	switch v := e.(type) {
	case *sexpr.Symbol, *sexpr.Number, *sexpr.String, *sexpr.Bool, *sexpr.Char, *sexpr.Nil, *sexpr.Unspecified:
		return true
	case *sexpr.Pair:
		if form, err := forms.Classify(v); err == nil {
			_, isQuote := form.(forms.QuoteForm)
			return isQuote
		}
		return false
	default:
		return false
	}
}

func applyK(k, v sexpr.SExpr) sexpr.SExpr {
	return sexpr.List(v.Range(), k, v)
}

func isSymbol(e sexpr.SExpr) bool {
	_, ok := e.(*sexpr.Symbol)
	return ok
}

func transformIf(r sexpr.Range, f forms.IfForm, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	var kRef sexpr.SExpr
	var wrap func(body sexpr.SExpr) sexpr.SExpr
	if isSymbol(k) {
		kRef = k
		wrap = func(body sexpr.SExpr) sexpr.SExpr { return body }
	} else {
		name := gensym("k")
		kSym := sexpr.NewSymbol(r, name)
		kRef = kSym
		wrap = func(body sexpr.SExpr) sexpr.SExpr {
			bindings := sexpr.List(r, sexpr.List(r, kSym, k))
			return sexpr.List(r, sexpr.NewSymbol(r, "letrec"), bindings, body)
		}
	}
	thenT := Transform(f.Then, kRef, gensym)
	elseT := Transform(f.Else, kRef, gensym)

	var core sexpr.SExpr
	if isLeaf(f.Cond) {
		core = sexpr.List(r, sexpr.NewSymbol(r, "if"), f.Cond, thenT, elseT)
	} else {
		succName := gensym("succ")
		succSym := sexpr.NewSymbol(r, succName)
		inner := sexpr.List(r, sexpr.NewSymbol(r, "if"), succSym, thenT, elseT)
		lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, succSym), inner)
		core = Transform(f.Cond, lam, gensym)
	}
	return wrap(core)
}

func transformLambda(r sexpr.Range, f forms.LambdaForm, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	succName := gensym("succ")
	succSym := sexpr.NewSymbol(r, succName)
	bodyT := Transform(f.Body, succSym, gensym)
	paramSyms := make([]sexpr.SExpr, 0, len(f.Params)+1)
	for _, p := range f.Params {
		paramSyms = append(paramSyms, sexpr.NewSymbol(r, p))
	}
	paramSyms = append(paramSyms, succSym)
	lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, paramSyms...), bodyT)
	return applyK(k, lam)
}

func transformSet(r sexpr.Range, f forms.SetForm, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	target := sexpr.NewSymbol(r, f.Name)
	unspec := sexpr.NewUnspecified(r)
	kCall := sexpr.List(r, k, unspec)
	if isLeaf(f.Body) {
		assign := sexpr.List(r, sexpr.NewSymbol(r, "set!"), target, f.Body)
		return sexpr.List(r, sexpr.NewSymbol(r, "begin"), assign, kCall)
	}
	vname := gensym("v")
	vsym := sexpr.NewSymbol(r, vname)
	assign := sexpr.List(r, sexpr.NewSymbol(r, "set!"), target, vsym)
	contBody := sexpr.List(r, sexpr.NewSymbol(r, "begin"), assign, kCall)
	lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, vsym), contBody)
	return Transform(f.Body, lam, gensym)
}

func transformBegin(r sexpr.Range, exprs []sexpr.SExpr, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if len(exprs) == 0 {
		return applyK(k, sexpr.NewUnspecified(r))
	}
	if len(exprs) == 1 {
		return Transform(exprs[0], k, gensym)
	}
	first, rest := exprs[0], exprs[1:]
	restT := transformBegin(r, rest, k, gensym)
	name := gensym("_")
	lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, sexpr.NewSymbol(r, name)), restT)
	return Transform(first, lam, gensym)
}

func transformLetrec(r sexpr.Range, f forms.LetrecForm, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	newBindings := make([]sexpr.SExpr, len(f.Bindings))
	for i, b := range f.Bindings {
		newBindings[i] = sexpr.List(r, sexpr.NewSymbol(r, b.Name), sexpr.NewUnspecified(r))
	}
	chain := buildSetChain(r, f.Bindings, 0, f.Body, k, gensym)
	return sexpr.List(r, sexpr.NewSymbol(r, "letrec"), sexpr.List(r, newBindings...), chain)
}

func buildSetChain(r sexpr.Range, bindings []forms.LetrecBindingForm, i int, body, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if i == len(bindings) {
		return Transform(body, k, gensym)
	}
	name, init := bindings[i].Name, bindings[i].Init
	rest := buildSetChain(r, bindings, i+1, body, k, gensym)
	target := sexpr.NewSymbol(r, name)
	if isLeaf(init) {
		assign := sexpr.List(r, sexpr.NewSymbol(r, "set!"), target, init)
		return sexpr.List(r, sexpr.NewSymbol(r, "begin"), assign, rest)
	}
	vname := gensym("v")
	vsym := sexpr.NewSymbol(r, vname)
	assign := sexpr.List(r, sexpr.NewSymbol(r, "set!"), target, vsym)
	contBody := sexpr.List(r, sexpr.NewSymbol(r, "begin"), assign, rest)
	lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, vsym), contBody)
	return Transform(init, lam, gensym)
}

func transformApply(r sexpr.Range, operands []sexpr.SExpr, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	return transformOperands(r, operands, nil, k, gensym)
}

// transformApplyExpr handles an application whose head wasn't classified
// (e.g. the proc position is itself a compound expression rather than a
// symbol); Classify still parses it as an ApplicationForm in that case,
// so this is only reached for malformed input. It leaves e untransformed
// and emits (e k), so the builder reports e's own error when it lowers
// the result.
func transformApplyExpr(e sexpr.SExpr, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	return transformOperands(e.Range(), nil, []sexpr.SExpr{e}, k, gensym)
}

func transformOperands(r sexpr.Range, operands, processed []sexpr.SExpr, k sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if len(operands) == 0 {
		call := append(append([]sexpr.SExpr{}, processed...), k)
		return sexpr.List(r, call...)
	}
	op, rest := operands[0], operands[1:]
	if isLeaf(op) {
		return transformOperands(r, rest, append(processed, op), k, gensym)
	}
	name := gensym("a")
	sym := sexpr.NewSymbol(r, name)
	contBody := transformOperands(r, rest, append(processed, sym), k, gensym)
	lam := sexpr.List(r, sexpr.NewSymbol(r, "lambda"), sexpr.List(r, sym), contBody)
	return Transform(op, lam, gensym)
}
