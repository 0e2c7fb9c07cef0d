// Package forms implements the special-form parser and the simplifier
// described in spec.md §4.1-4.2: given a list-shaped S-expression,
// Classify recognizes if/quote/lambda/set!/begin/letrec/throw/try/input
// or falls back to a generic application, checking arity and shape and
// raising a *schemerr.BuildError carrying the offending range on
// violation. Simplify is the separate, purely syntactic rewriter that
// desugars one-armed if and and/or before classification ever sees
// them.
package forms

import (
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// Form is the sealed sum of classified special forms plus the
// catch-all Application.
type Form interface{ isForm() }

type formBase struct{}

func (formBase) isForm() {}

type IfForm struct {
	formBase
	Cond, Then, Else sexpr.SExpr
}

type QuoteForm struct {
	formBase
	Datum sexpr.SExpr
}

type LambdaForm struct {
	formBase
	Params []string
	Body   sexpr.SExpr // always a single expression; multi-form bodies are pre-wrapped in (begin ...)
}

type SetForm struct {
	formBase
	Name string
	Body sexpr.SExpr
}

type BeginForm struct {
	formBase
	Exprs []sexpr.SExpr
}

type LetrecBindingForm struct {
	Name string
	Init sexpr.SExpr
}

type LetrecForm struct {
	formBase
	Bindings []LetrecBindingForm
	Body     sexpr.SExpr
}

type ThrowForm struct {
	formBase
	Body sexpr.SExpr
}

type TryForm struct {
	formBase
	TryBody    sexpr.SExpr
	CatchParam string
	CatchBody  sexpr.SExpr
}

type InputForm struct {
	formBase
	Name string
}

type ApplicationForm struct {
	formBase
	Proc sexpr.SExpr
	Args []sexpr.SExpr
}

// Classify inspects s and returns the Form it denotes. s must be a list
// (Pair chain terminated by Nil) or Nil itself; anything else is not a
// form at all and Classify is not the right entry point for it (the IR
// builder handles atoms directly).
func Classify(s sexpr.SExpr) (Form, error) {
	items, ok := sexpr.Items(s)
	if !ok {
		return nil, schemerr.NewBuildError(s.Range(), "improper list cannot be classified as a form")
	}
	if len(items) == 0 {
		return nil, schemerr.NewBuildError(s.Range(), "empty application")
	}
	head, isSym := items[0].(*sexpr.Symbol)
	if !isSym {
		return ApplicationForm{Proc: items[0], Args: items[1:]}, nil
	}
	switch head.Name {
	case "if":
		return classifyIf(s.Range(), items)
	case "quote":
		return classifyQuote(s.Range(), items)
	case "lambda":
		return classifyLambda(s.Range(), items)
	case "set!":
		return classifySet(s.Range(), items)
	case "begin":
		return BeginForm{Exprs: items[1:]}, nil
	case "letrec":
		return classifyLetrec(s.Range(), items)
	case "throw":
		return classifyThrow(s.Range(), items)
	case "try":
		return classifyTry(s.Range(), items)
	case "input":
		return classifyInput(s.Range(), items)
	case "define":
		// Open question (b): some historical parser paths recognize
		// top-level define but never evaluate it. Rather than silently
		// treating it as a call to an unbound symbol, reject it
		// explicitly.
		return nil, schemerr.NewBuildError(s.Range(), "define is not a supported form")
	default:
		return ApplicationForm{Proc: items[0], Args: items[1:]}, nil
	}
}

func classifyIf(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 4 {
		return nil, schemerr.NewBuildError(r, "if requires three subforms, got %d", len(items)-1)
	}
	return IfForm{Cond: items[1], Then: items[2], Else: items[3]}, nil
}

func classifyQuote(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 2 {
		return nil, schemerr.NewBuildError(r, "quote requires exactly one subform")
	}
	return QuoteForm{Datum: items[1]}, nil
}

func classifyLambda(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) < 3 {
		return nil, schemerr.NewBuildError(r, "lambda requires a parameter list and at least one body form")
	}
	paramItems, ok := sexpr.Items(items[1])
	if !ok {
		return nil, schemerr.NewBuildError(items[1].Range(), "lambda parameters must be a proper list")
	}
	seen := map[string]bool{}
	params := make([]string, 0, len(paramItems))
	for _, p := range paramItems {
		sym, ok := p.(*sexpr.Symbol)
		if !ok {
			return nil, schemerr.NewBuildError(p.Range(), "lambda parameters must be symbols")
		}
		if seen[sym.Name] {
			return nil, schemerr.NewBuildError(p.Range(), "duplicate lambda parameter %q", sym.Name)
		}
		seen[sym.Name] = true
		params = append(params, sym.Name)
	}
	body := wrapBegin(r, items[2:])
	return LambdaForm{Params: params, Body: body}, nil
}

func classifySet(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 3 {
		return nil, schemerr.NewBuildError(r, "set! requires a name and a value")
	}
	sym, ok := items[1].(*sexpr.Symbol)
	if !ok {
		return nil, schemerr.NewBuildError(items[1].Range(), "set! target must be a symbol")
	}
	return SetForm{Name: sym.Name, Body: items[2]}, nil
}

func classifyLetrec(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 3 {
		return nil, schemerr.NewBuildError(r, "letrec requires a binding list and exactly one body expression")
	}
	bindingItems, ok := sexpr.Items(items[1])
	if !ok {
		return nil, schemerr.NewBuildError(items[1].Range(), "letrec bindings must be a proper list")
	}
	seen := map[string]bool{}
	bindings := make([]LetrecBindingForm, 0, len(bindingItems))
	for _, b := range bindingItems {
		pair, ok := sexpr.Items(b)
		if !ok || len(pair) != 2 {
			return nil, schemerr.NewBuildError(b.Range(), "letrec binding must be (name expr)")
		}
		sym, ok := pair[0].(*sexpr.Symbol)
		if !ok {
			return nil, schemerr.NewBuildError(pair[0].Range(), "letrec binding name must be a symbol")
		}
		if seen[sym.Name] {
			return nil, schemerr.NewBuildError(pair[0].Range(), "duplicate letrec binding %q", sym.Name)
		}
		seen[sym.Name] = true
		bindings = append(bindings, LetrecBindingForm{Name: sym.Name, Init: pair[1]})
	}
	return LetrecForm{Bindings: bindings, Body: items[2]}, nil
}

func classifyThrow(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 2 {
		return nil, schemerr.NewBuildError(r, "throw requires exactly one subform")
	}
	return ThrowForm{Body: items[1]}, nil
}

func classifyTry(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 3 {
		return nil, schemerr.NewBuildError(r, "try requires a body and a catch lambda")
	}
	catchItems, ok := sexpr.Items(items[2])
	if !ok || len(catchItems) < 3 {
		return nil, schemerr.NewBuildError(items[2].Range(), "try's catch clause must be a lambda of exactly one parameter")
	}
	catchHead, ok := catchItems[0].(*sexpr.Symbol)
	if !ok || catchHead.Name != "lambda" {
		return nil, schemerr.NewBuildError(items[2].Range(), "try's catch clause must be a lambda")
	}
	params, ok := sexpr.Items(catchItems[1])
	if !ok || len(params) != 1 {
		return nil, schemerr.NewBuildError(catchItems[1].Range(), "try's catch lambda must take exactly one parameter")
	}
	paramSym, ok := params[0].(*sexpr.Symbol)
	if !ok {
		return nil, schemerr.NewBuildError(params[0].Range(), "try's catch parameter must be a symbol")
	}
	body := wrapBegin(items[2].Range(), catchItems[2:])
	return TryForm{TryBody: items[1], CatchParam: paramSym.Name, CatchBody: body}, nil
}

func classifyInput(r sexpr.Range, items []sexpr.SExpr) (Form, error) {
	if len(items) != 2 {
		return nil, schemerr.NewBuildError(r, "input takes exactly one symbolic name")
	}
	sym, ok := items[1].(*sexpr.Symbol)
	if !ok {
		return nil, schemerr.NewBuildError(items[1].Range(), "input's argument must be a symbol")
	}
	return InputForm{Name: sym.Name}, nil
}

// wrapBegin wraps a sequence of one or more body forms into a single
// expression: a bare form if there is exactly one, otherwise a (begin
// ...) form (spec.md §4.1: "bodies of length ≥1 are wrapped into a
// Sequence").
func wrapBegin(r sexpr.Range, body []sexpr.SExpr) sexpr.SExpr {
	if len(body) == 1 {
		return body[0]
	}
	items := append([]sexpr.SExpr{sexpr.NewSymbol(r, "begin")}, body...)
	return sexpr.List(r, items...)
}
