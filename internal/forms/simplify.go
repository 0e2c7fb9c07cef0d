package forms

import "github.com/cwbudde/go-scheval/internal/sexpr"

// Gensym is the fresh-name source the simplifier uses to expand or. It
// is supplied by the caller (normally ctx.Context.Gensym) so this
// package stays free of any per-interpreter state.
type Gensym func(prefix string) string

// Simplify is the purely syntactic rewriter described in spec.md §4.2:
// it adds an *unspecified* alternative to one-armed if, and expands and
// and or into the standard macro expansions, applying each rewrite to a
// fixed point over subtrees. It never changes meaning.
func Simplify(s sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	for {
		next := simplifyOnce(s, gensym)
		if sameShape(s, next) {
			return next
		}
		s = next
	}
}

func simplifyOnce(s sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	items, ok := sexpr.Items(s)
	if !ok || len(items) == 0 {
		return s
	}
	head, isSym := items[0].(*sexpr.Symbol)
	if !isSym {
		return rebuildList(s, items, gensym)
	}
	switch head.Name {
	case "if":
		if len(items) == 3 {
			unspec := sexpr.NewUnspecified(s.Range())
			rebuilt := []sexpr.SExpr{items[0], simplify1(items[1], gensym), simplify1(items[2], gensym), unspec}
			return sexpr.List(s.Range(), rebuilt...)
		}
		return rebuildList(s, items, gensym)
	case "and":
		return expandAnd(s.Range(), items[1:], gensym)
	case "or":
		return expandOr(s.Range(), items[1:], gensym)
	case "quote":
		// Never descend into quoted data.
		return s
	default:
		return rebuildList(s, items, gensym)
	}
}

func simplify1(s sexpr.SExpr, gensym Gensym) sexpr.SExpr { return simplifyOnce(s, gensym) }

func rebuildList(s sexpr.SExpr, items []sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	out := make([]sexpr.SExpr, len(items))
	changed := false
	for i, it := range items {
		out[i] = simplifyOnce(it, gensym)
		if !sameShape(it, out[i]) {
			changed = true
		}
	}
	if !changed {
		return s
	}
	return sexpr.List(s.Range(), out...)
}

// expandAnd rewrites (and t1 t2 ...) into (if t1 (and t2 ...) #f),
// bottoming out at #t for zero tests.
func expandAnd(r sexpr.Range, tests []sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if len(tests) == 0 {
		return sexpr.NewBool(r, true)
	}
	if len(tests) == 1 {
		return simplifyOnce(tests[0], gensym)
	}
	return sexpr.List(r,
		sexpr.NewSymbol(r, "if"),
		simplifyOnce(tests[0], gensym),
		expandAnd(r, tests[1:], gensym),
		sexpr.NewBool(r, false),
	)
}

// expandOr rewrites (or t1 t2 ...) into
// (letrec ((x t1)) (if x x (or t2 ...))) with a fresh symbol per
// expansion, bottoming out at #f for zero tests.
func expandOr(r sexpr.Range, tests []sexpr.SExpr, gensym Gensym) sexpr.SExpr {
	if len(tests) == 0 {
		return sexpr.NewBool(r, false)
	}
	if len(tests) == 1 {
		return simplifyOnce(tests[0], gensym)
	}
	name := gensym("or")
	sym := sexpr.NewSymbol(r, name)
	binding := sexpr.List(r, sym, simplifyOnce(tests[0], gensym))
	bindings := sexpr.List(r, binding)
	body := sexpr.List(r, sexpr.NewSymbol(r, "if"), sym, sym, expandOr(r, tests[1:], gensym))
	return sexpr.List(r, sexpr.NewSymbol(r, "letrec"), bindings, body)
}

// sameShape is a cheap structural-identity check used to detect a
// simplification fixed point without a full deep-equal pass: it treats
// two nodes as the same shape when they are built from the same Go
// value (covers the common "nothing changed" case) or, for lists, when
// every element compares equal by pointer after a rebuild with no
// changes (rebuildList only allocates when a child actually changed).
func sameShape(a, b sexpr.SExpr) bool { return a == b }
