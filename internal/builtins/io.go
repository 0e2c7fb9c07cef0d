package builtins

import (
	"io"

	"github.com/cwbudde/go-scheval/internal/value"
)

func (r *Registry) registerIO(g *value.Generator) {
	r.register(g, "display", r.display)
	r.register(g, "newline", r.newline)
}

func (r *Registry) display(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, raise(g, "display requires exactly 1 argument, got %d", len(args))
	}
	text := args[0].String()
	if s, ok := args[0].(*value.String); ok {
		text = s.S
	}
	io.WriteString(r.out, text)
	return g.Unspecified(), nil
}

func (r *Registry) newline(g *value.Generator, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, raise(g, "newline takes no arguments, got %d", len(args))
	}
	io.WriteString(r.out, "\n")
	return g.Unspecified(), nil
}
