package builtins

import "github.com/cwbudde/go-scheval/internal/value"

func (r *Registry) registerPredicates(g *value.Generator) {
	r.register(g, "boolean?", predicate1(func(v value.Value) bool { _, ok := v.(*value.Boolean); return ok }))
	r.register(g, "symbol?", predicate1(func(v value.Value) bool { _, ok := v.(*value.Symbol); return ok }))
	r.register(g, "pair?", predicate1(func(v value.Value) bool { _, ok := v.(*value.Pair); return ok }))
	r.register(g, "number?", predicate1(func(v value.Value) bool { _, ok := v.(*value.Number); return ok }))
	r.register(g, "string?", predicate1(func(v value.Value) bool { _, ok := v.(*value.String); return ok }))
	r.register(g, "null?", predicate1(func(v value.Value) bool { _, ok := v.(*value.Nil); return ok }))
	r.register(g, "not", not)
}

func predicate1(p func(value.Value) bool) value.DirectFunc {
	return func(g *value.Generator, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, raise(g, "predicate requires exactly 1 argument, got %d", len(args))
		}
		return g.Boolean(p(args[0])), nil
	}
}

func not(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, raise(g, "not requires exactly 1 argument, got %d", len(args))
	}
	return g.Boolean(!value.Truthy(args[0])), nil
}
