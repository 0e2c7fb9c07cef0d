package cmd

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// writeSExpr renders s back to source text. The character-level
// pretty-printer is out of this module's scope (spec.md §1); this is
// just enough rendering for the CLI's print/simplify/cps-transform
// dump modes to show their own output.
func writeSExpr(s sexpr.SExpr) string {
	var sb strings.Builder
	writeSExprTo(&sb, s)
	return sb.String()
}

func writeSExprTo(sb *strings.Builder, s sexpr.SExpr) {
	switch v := s.(type) {
	case *sexpr.Symbol:
		sb.WriteString(v.Name)
	case *sexpr.Number:
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *sexpr.String:
		sb.WriteString(strconv.Quote(v.Value))
	case *sexpr.Bool:
		if v.Value {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case *sexpr.Char:
		sb.WriteString("#\\" + string(v.Value))
	case *sexpr.Nil:
		sb.WriteString("()")
	case *sexpr.Unspecified:
		sb.WriteString("#<unspecified>")
	case *sexpr.Pair:
		sb.WriteByte('(')
		writeSExprTo(sb, v.Car)
		cur := v.Cdr
		for {
			switch c := cur.(type) {
			case *sexpr.Nil:
				cur = nil
			case *sexpr.Pair:
				sb.WriteByte(' ')
				writeSExprTo(sb, c.Car)
				cur = c.Cdr
				continue
			default:
				sb.WriteString(" . ")
				writeSExprTo(sb, cur)
				cur = nil
			}
			break
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("?")
	}
}
