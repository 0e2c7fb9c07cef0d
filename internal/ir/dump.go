package ir

import (
	"strconv"

	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// Dump converts node into a JSON-friendly tree (nested maps/slices) for
// the CLI's --dump-ir flag. It mirrors the node contract table in
// spec.md §4.4 rather than using reflection, so the shape is stable and
// readable regardless of how the concrete node structs evolve.
func Dump(node Node) map[string]any {
	if node == nil {
		return nil
	}
	m := map[string]any{"range": rangeDump(node.Range())}
	switch n := node.(type) {
	case *Constant:
		m["kind"] = "Constant"
		m["datum"] = datumDump(n.Datum)
	case *Variable:
		m["kind"] = "Variable"
		m["ref"] = refDump(n.Ref)
	case *Assign:
		m["kind"] = "Assign"
		m["ref"] = refDump(n.Ref)
		m["body"] = Dump(n.Body)
	case *If:
		m["kind"] = "If"
		m["cond"] = Dump(n.Cond)
		m["then"] = Dump(n.Then)
		m["else"] = Dump(n.Else)
	case *Lambda:
		m["kind"] = "Lambda"
		m["params"] = n.Params
		m["body"] = Dump(n.Body)
	case *Apply:
		m["kind"] = "Apply"
		m["proc"] = Dump(n.Proc)
		args := make([]map[string]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = Dump(a)
		}
		m["args"] = args
	case *Sequence:
		m["kind"] = "Sequence"
		m["head"] = Dump(n.Head)
		m["tail"] = Dump(n.Tail)
	case *Letrec:
		m["kind"] = "Letrec"
		bindings := make([]map[string]any, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = map[string]any{"ref": refDump(b.Ref), "body": Dump(b.Body)}
		}
		m["bindings"] = bindings
		m["body"] = Dump(n.Body)
	case *Try:
		m["kind"] = "Try"
		m["tryBody"] = Dump(n.TryBody)
		m["catch"] = Dump(n.CatchLambda)
	case *Throw:
		m["kind"] = "Throw"
		m["body"] = Dump(n.Body)
	case *Input:
		m["kind"] = "Input"
		m["name"] = n.Name
	default:
		m["kind"] = "?"
	}
	return m
}

func refDump(ref scope.Ref) map[string]any {
	return map[string]any{"name": ref.Name, "depth": ref.Depth, "index": ref.Index}
}

func rangeDump(r sexpr.Range) string {
	return r.Start.String() + "-" + r.End.String()
}

// datumDump renders a Constant's literal S-expression as plain text,
// just enough for a dump to be legible without pulling in the
// character-level pretty-printer that's out of this module's scope
// (spec.md §1).
func datumDump(s sexpr.SExpr) string {
	switch v := s.(type) {
	case *sexpr.Symbol:
		return v.Name
	case *sexpr.Number:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *sexpr.String:
		return strconv.Quote(v.Value)
	case *sexpr.Bool:
		if v.Value {
			return "#t"
		}
		return "#f"
	case *sexpr.Char:
		return "#\\" + string(v.Value)
	case *sexpr.Nil:
		return "()"
	case *sexpr.Unspecified:
		return "*unspecified*"
	case *sexpr.Pair:
		items, ok := sexpr.Items(v)
		if !ok {
			return "(" + datumDump(v.Car) + " . " + datumDump(v.Cdr) + ")"
		}
		out := "("
		for i, it := range items {
			if i > 0 {
				out += " "
			}
			out += datumDump(it)
		}
		return out + ")"
	default:
		return "?"
	}
}
