package ir

import (
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// Build lowers an S-expression (already passed through forms.Simplify)
// into an IR node against sc, resolving variable references through
// sc.Lookup (spec.md §4.1). Unresolved names produce a *schemerr.BuildError.
func Build(sc *scope.LexicalScope, s sexpr.SExpr) (Node, error) {
	switch v := s.(type) {
	case *sexpr.Symbol:
		ref, ok := sc.Lookup(v.Name)
		if !ok {
			return nil, schemerr.NewBuildError(v.Range(), "unresolved symbol %q", v.Name)
		}
		return NewVariable(v.Range(), ref), nil
	case *sexpr.Number, *sexpr.String, *sexpr.Bool, *sexpr.Char, *sexpr.Nil, *sexpr.Unspecified:
		return NewConstant(s.Range(), s), nil
	case *sexpr.Pair:
		return buildForm(sc, s)
	default:
		return nil, schemerr.NewBuildError(s.Range(), "cannot build IR for this S-expression")
	}
}

func buildForm(sc *scope.LexicalScope, s sexpr.SExpr) (Node, error) {
	form, err := forms.Classify(s)
	if err != nil {
		return nil, err
	}
	switch f := form.(type) {
	case forms.QuoteForm:
		return NewConstant(s.Range(), f.Datum), nil
	case forms.IfForm:
		cond, err := Build(sc, f.Cond)
		if err != nil {
			return nil, err
		}
		then, err := Build(sc, f.Then)
		if err != nil {
			return nil, err
		}
		els, err := Build(sc, f.Else)
		if err != nil {
			return nil, err
		}
		return NewIf(s.Range(), cond, then, els), nil
	case forms.LambdaForm:
		return buildLambda(sc, s.Range(), f.Params, f.Body)
	case forms.SetForm:
		ref, ok := sc.Lookup(f.Name)
		if !ok {
			return nil, schemerr.NewBuildError(s.Range(), "unresolved symbol %q", f.Name)
		}
		body, err := Build(sc, f.Body)
		if err != nil {
			return nil, err
		}
		return NewAssign(s.Range(), ref, body), nil
	case forms.BeginForm:
		return buildSequence(sc, s.Range(), f.Exprs)
	case forms.LetrecForm:
		return buildLetrec(sc, s.Range(), f.Bindings, f.Body)
	case forms.ThrowForm:
		body, err := Build(sc, f.Body)
		if err != nil {
			return nil, err
		}
		return NewThrow(s.Range(), body), nil
	case forms.TryForm:
		tryBody, err := Build(sc, f.TryBody)
		if err != nil {
			return nil, err
		}
		catch, err := buildLambda(sc, s.Range(), []string{f.CatchParam}, f.CatchBody)
		if err != nil {
			return nil, err
		}
		return NewTry(s.Range(), tryBody, catch), nil
	case forms.InputForm:
		return NewInput(s.Range(), f.Name), nil
	case forms.ApplicationForm:
		proc, err := Build(sc, f.Proc)
		if err != nil {
			return nil, err
		}
		args := make([]Node, len(f.Args))
		for i, a := range f.Args {
			arg, err := Build(sc, a)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return NewApply(s.Range(), proc, args), nil
	default:
		return nil, schemerr.NewBuildError(s.Range(), "unrecognized form")
	}
}

func buildLambda(sc *scope.LexicalScope, r sexpr.Range, params []string, bodyExpr sexpr.SExpr) (*Lambda, error) {
	inner := scope.NewScope(sc)
	for _, p := range params {
		inner.AddOwnSlot(p)
	}
	body, err := Build(inner, bodyExpr)
	if err != nil {
		return nil, err
	}
	return NewLambda(r, params, inner, body), nil
}

func buildSequence(sc *scope.LexicalScope, r sexpr.Range, exprs []sexpr.SExpr) (Node, error) {
	if len(exprs) == 0 {
		return nil, schemerr.NewBuildError(r, "begin requires at least one subform")
	}
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		n, err := Build(sc, e)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	seq := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		seq = NewSequence(r, nodes[i], seq)
	}
	return seq, nil
}

func buildLetrec(sc *scope.LexicalScope, r sexpr.Range, bindings []forms.LetrecBindingForm, bodyExpr sexpr.SExpr) (*Letrec, error) {
	inner := scope.NewScope(sc)
	for _, b := range bindings {
		inner.AddOwnSlot(b.Name)
	}
	irBindings := make([]LetrecBinding, len(bindings))
	for i, b := range bindings {
		ref, _ := inner.Lookup(b.Name)
		init, err := Build(inner, b.Init)
		if err != nil {
			return nil, err
		}
		irBindings[i] = LetrecBinding{Ref: ref, Body: init}
	}
	body, err := Build(inner, bodyExpr)
	if err != nil {
		return nil, err
	}
	return NewLetrec(r, inner, irBindings, body), nil
}
