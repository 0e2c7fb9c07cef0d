package builtins

import "github.com/cwbudde/go-scheval/internal/value"

func (r *Registry) registerEquality(g *value.Generator) {
	r.register(g, "eqv?", eqv)
	r.register(g, "boolean=?", typedEq(func(a, b value.Value) (bool, bool) {
		av, aok := a.(*value.Boolean)
		bv, bok := b.(*value.Boolean)
		return aok && bok, aok && bok && av.B == bv.B
	}))
	r.register(g, "symbol=?", typedEq(func(a, b value.Value) (bool, bool) {
		av, aok := a.(*value.Symbol)
		bv, bok := b.(*value.Symbol)
		return aok && bok, aok && bok && value.SameSymbol(av, bv)
	}))
	r.register(g, "char=?", typedEq(func(a, b value.Value) (bool, bool) {
		av, aok := a.(*value.Char)
		bv, bok := b.(*value.Char)
		return aok && bok, aok && bok && av.C == bv.C
	}))
}

func eqv(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, raise(g, "eqv? requires exactly 2 arguments, got %d", len(args))
	}
	return g.Boolean(value.Eqv(args[0], args[1])), nil
}

// typedEq builds a same-type equality builtin (boolean=?, symbol=?,
// char=?): both arguments must have the matching concrete type, and
// equal() reports whether they compare equal once that's established.
func typedEq(check func(a, b value.Value) (typesMatch, equal bool)) value.DirectFunc {
	return func(g *value.Generator, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, raise(g, "equality predicate requires exactly 2 arguments, got %d", len(args))
		}
		typesMatch, equal := check(args[0], args[1])
		if !typesMatch {
			return nil, raise(g, "equality predicate requires matching argument types")
		}
		return g.Boolean(equal), nil
	}
}
