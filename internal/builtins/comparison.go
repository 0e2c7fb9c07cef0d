package builtins

import "github.com/cwbudde/go-scheval/internal/value"

func (r *Registry) registerComparisons(g *value.Generator) {
	r.register(g, "=", cmp(func(a, b float64) bool { return a == b }))
	r.register(g, "!=", cmp(func(a, b float64) bool { return a != b }))
	r.register(g, "<", cmp(func(a, b float64) bool { return a < b }))
	r.register(g, "<=", cmp(func(a, b float64) bool { return a <= b }))
	r.register(g, ">", cmp(func(a, b float64) bool { return a > b }))
	r.register(g, ">=", cmp(func(a, b float64) bool { return a >= b }))
}

// cmp builds a comparison builtin requiring exactly two numeric
// arguments (§4.8).
func cmp(op func(a, b float64) bool) value.DirectFunc {
	return func(g *value.Generator, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, raise(g, "comparison requires exactly 2 arguments, got %d", len(args))
		}
		ns, err := numbers(g, args)
		if err != nil {
			return nil, err
		}
		return g.Boolean(op(ns[0], ns[1])), nil
	}
}
