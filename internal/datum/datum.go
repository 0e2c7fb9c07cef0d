// Package datum converts the literal S-expression held by an
// ir.Constant node into a runtime Value "on demand" (spec.md §3:
// "Constant(sexpr) — holds a literal S-expression that becomes a value
// on demand"). It is shared by all four evaluators so this conversion
// has exactly one implementation.
package datum

import (
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/sexpr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// ToValue converts a literal S-expression into a Value, interning any
// symbols (including those nested inside quoted pair structures) through
// t and stamping every produced value's generation through g.
func ToValue(g *value.Generator, t *value.SymbolTable, s sexpr.SExpr) (value.Value, error) {
	switch v := s.(type) {
	case *sexpr.Number:
		return g.Number(v.Value), nil
	case *sexpr.String:
		return g.String(v.Value), nil
	case *sexpr.Bool:
		return g.Boolean(v.Value), nil
	case *sexpr.Char:
		return g.Char(v.Value), nil
	case *sexpr.Symbol:
		return g.Symbol(t, v.Name), nil
	case *sexpr.Nil:
		return g.Nil(), nil
	case *sexpr.Unspecified:
		return g.Unspecified(), nil
	case *sexpr.Pair:
		car, err := ToValue(g, t, v.Car)
		if err != nil {
			return nil, err
		}
		cdr, err := ToValue(g, t, v.Cdr)
		if err != nil {
			return nil, err
		}
		return g.Pair(car, cdr), nil
	default:
		return nil, schemerr.NewBuildError(s.Range(), "cannot convert this literal to a value")
	}
}
