package builtins

import "github.com/cwbudde/go-scheval/internal/value"

func numbers(g *value.Generator, args []value.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(*value.Number)
		if !ok {
			return nil, raise(g, "expected a number, got %s", a.String())
		}
		out[i] = n.N
	}
	return out, nil
}

func (r *Registry) registerArithmetic(g *value.Generator) {
	r.register(g, "+", add)
	r.register(g, "-", sub)
	r.register(g, "*", mul)
	r.register(g, "/", div)
	r.register(g, "mod", mod)
}

// add: zero args -> 0 (§4.8).
func add(g *value.Generator, args []value.Value) (value.Value, error) {
	ns, err := numbers(g, args)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, n := range ns {
		sum += n
	}
	return g.Number(sum), nil
}

// sub: one arg negates (§4.8).
func sub(g *value.Generator, args []value.Value) (value.Value, error) {
	ns, err := numbers(g, args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, raise(g, "- requires at least 1 argument")
	}
	if len(ns) == 1 {
		return g.Number(-ns[0]), nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		result -= n
	}
	return g.Number(result), nil
}

// mul: zero args -> 1 (§4.8).
func mul(g *value.Generator, args []value.Value) (value.Value, error) {
	ns, err := numbers(g, args)
	if err != nil {
		return nil, err
	}
	product := 1.0
	for _, n := range ns {
		product *= n
	}
	return g.Number(product), nil
}

// div: one arg reciprocates; with two or more args it is true division
// for every arity (the Open Question in spec.md §4.8/§8 about a
// historical subtract-instead-of-divide bug is resolved here in favor of
// real division, per the spec's own guidance not to guess the buggy
// behavior back in).
func div(g *value.Generator, args []value.Value) (value.Value, error) {
	ns, err := numbers(g, args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, raise(g, "/ requires at least 1 argument")
	}
	if len(ns) == 1 {
		if ns[0] == 0 {
			return nil, raise(g, "division by zero")
		}
		return g.Number(1 / ns[0]), nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return nil, raise(g, "division by zero")
		}
		result /= n
	}
	return g.Number(result), nil
}

// mod requires exactly two args (§4.8).
func mod(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, raise(g, "mod requires exactly 2 arguments, got %d", len(args))
	}
	ns, err := numbers(g, args)
	if err != nil {
		return nil, err
	}
	if ns[1] == 0 {
		return nil, raise(g, "mod by zero")
	}
	m := ns[0] - ns[1]*float64(int64(ns[0]/ns[1]))
	return g.Number(m), nil
}
