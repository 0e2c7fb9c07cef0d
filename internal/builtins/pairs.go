package builtins

import "github.com/cwbudde/go-scheval/internal/value"

func (r *Registry) registerPairOps(g *value.Generator) {
	r.register(g, "cons", cons)
	r.register(g, "car", car)
	r.register(g, "cdr", cdr)
}

func cons(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, raise(g, "cons requires exactly 2 arguments, got %d", len(args))
	}
	return g.Pair(args[0], args[1]), nil
}

func car(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, raise(g, "car requires exactly 1 argument, got %d", len(args))
	}
	p, ok := args[0].(*value.Pair)
	if !ok {
		return nil, raise(g, "car requires a pair, got %s", args[0].String())
	}
	return p.Car, nil
}

func cdr(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, raise(g, "cdr requires exactly 1 argument, got %d", len(args))
	}
	p, ok := args[0].(*value.Pair)
	if !ok {
		return nil, raise(g, "cdr requires a pair, got %s", args[0].String())
	}
	return p.Cdr, nil
}
