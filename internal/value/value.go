// Package value defines the runtime value domain shared by all four
// evaluators: a closed sum of Boolean, Number, String, Symbol, Char,
// Pair, Nil, Unspecified, builtin/lambda procedures and errors, each
// stamped with a generation number used by the tracing front-end to
// render what changed between two evaluations.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which arm of the Value sum a value occupies.
type Kind int

const (
	KindBoolean Kind = iota
	KindNumber
	KindString
	KindSymbol
	KindChar
	KindPair
	KindNil
	KindUnspecified
	KindBuiltinProc
	KindLambdaProc
	KindError
)

// Value is the sealed interface every runtime value implements.
type Value interface {
	Kind() Kind
	// Generation is the stamp assigned at construction time; it is
	// purely informational and used by the tracing renderer to flag
	// freshly produced values.
	Generation() uint64
	String() string
	isValue()
}

// Generator assigns monotonically increasing generation stamps. It is
// owned by a single interpreter context (see package ctx) rather than
// being a module-level singleton, so that multiple interpreters can run
// in the same process without stepping on each other's generation
// counters.
type Generator struct {
	n uint64
}

// NewGenerator returns a fresh, zeroed generation counter.
func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) next() uint64 {
	g.n++
	return g.n
}

type base struct{ gen uint64 }

func (b base) Generation() uint64 { return b.gen }
func (base) isValue()             {}

// Boolean is #t/#f.
type Boolean struct {
	base
	B bool
}

func (g *Generator) Boolean(b bool) *Boolean { return &Boolean{base{g.next()}, b} }
func (*Boolean) Kind() Kind                  { return KindBoolean }
func (v *Boolean) String() string {
	if v.B {
		return "#t"
	}
	return "#f"
}

// Number is a 64-bit float (no wider numeric tower is supported).
type Number struct {
	base
	N float64
}

func (g *Generator) Number(n float64) *Number { return &Number{base{g.next()}, n} }
func (*Number) Kind() Kind                    { return KindNumber }
func (v *Number) String() string              { return strconv.FormatFloat(v.N, 'g', -1, 64) }

// String is a Scheme string.
type String struct {
	base
	S string
}

func (g *Generator) String(s string) *String { return &String{base{g.next()}, s} }
func (*String) Kind() Kind                   { return KindString }
func (v *String) String() string             { return strconv.Quote(v.S) }

// Char is a single character.
type Char struct {
	base
	C rune
}

func (g *Generator) Char(c rune) *Char { return &Char{base{g.next()}, c} }
func (*Char) Kind() Kind                { return KindChar }
func (v *Char) String() string          { return "#\\" + string(v.C) }

// Pair is a mutable cons cell. It is the only Value kind ever mutated in
// place: the reactive evaluator's cons implementation reuses an existing
// pair's identity when only its car/cdr contents change (§4.6, §4.8).
type Pair struct {
	base
	Car Value
	Cdr Value
}

func (g *Generator) Pair(car, cdr Value) *Pair { return &Pair{base{g.next()}, car, cdr} }
func (*Pair) Kind() Kind                        { return KindPair }

// SetCarCdr mutates the pair in place and re-stamps its generation, so a
// caller (the reactive builtin-call node, §4.6) can keep the pair's
// identity stable while still advancing its freshness stamp.
func (p *Pair) SetCarCdr(g *Generator, car, cdr Value) {
	p.Car, p.Cdr = car, cdr
	p.gen = g.next()
}

func (v *Pair) String() string {
	var sb strings.Builder
	writePair(&sb, v, map[*Pair]bool{})
	return sb.String()
}

func writePair(sb *strings.Builder, p *Pair, visited map[*Pair]bool) {
	if visited[p] {
		sb.WriteString("*recursive*")
		return
	}
	visited[p] = true
	sb.WriteByte('(')
	sb.WriteString(Repr(p.Car, visited))
	cur := p.Cdr
	for {
		switch c := cur.(type) {
		case *Pair:
			if visited[c] {
				sb.WriteString(" . *recursive*")
				cur = nil
			} else {
				visited[c] = true
				sb.WriteByte(' ')
				sb.WriteString(Repr(c.Car, visited))
				cur = c.Cdr
				continue
			}
		case *Nil:
			cur = nil
		default:
			sb.WriteString(" . ")
			sb.WriteString(Repr(cur, visited))
			cur = nil
		}
		break
	}
	sb.WriteByte(')')
}

// Repr renders v, threading a visited-set so recursive pair graphs print
// as *recursive* instead of looping forever (design notes, §9).
func Repr(v Value, visited map[*Pair]bool) string {
	if p, ok := v.(*Pair); ok {
		var sb strings.Builder
		writePair(&sb, p, visited)
		return sb.String()
	}
	return v.String()
}

// Nil is the empty list.
type Nil struct{ base }

func (g *Generator) Nil() *Nil   { return &Nil{base{g.next()}} }
func (*Nil) Kind() Kind          { return KindNil }
func (*Nil) String() string      { return "()" }

// Unspecified is returned by forms with no useful result (set!, letrec
// slot initialization, and so on).
type Unspecified struct{ base }

func (g *Generator) Unspecified() *Unspecified { return &Unspecified{base{g.next()}} }
func (*Unspecified) Kind() Kind                { return KindUnspecified }
func (*Unspecified) String() string            { return "*unspecified*" }

// DirectFunc is a builtin's direct-style implementation.
type DirectFunc func(g *Generator, args []Value) (Value, error)

// BuiltinProc is a builtin procedure, exposed in both direct and CPS
// form (§4.8). CPS is `any` here (rather than a concrete function type)
// so that package value does not need to depend on the cont package's
// Succ/Fail/Thunk types — cpseval and builtins type-assert it back to
// cont.CPSFunc when dispatching.
type BuiltinProc struct {
	base
	Name   string
	Direct DirectFunc
	CPS    any
}

func (g *Generator) BuiltinProc(name string, direct DirectFunc, cps any) *BuiltinProc {
	return &BuiltinProc{base{g.next()}, name, direct, cps}
}
func (*BuiltinProc) Kind() Kind           { return KindBuiltinProc }
func (v *BuiltinProc) String() string     { return fmt.Sprintf("#<builtin %s>", v.Name) }

// LambdaProc is a closure. Env and Node are `any` (rather than
// *runtime.Environment / *ir.Lambda) purely to avoid an import cycle
// between package value and the packages that depend on it; evaluators
// type-assert them back to their concrete types immediately after
// construction.
type LambdaProc struct {
	base
	Env  any
	Node any
}

func (g *Generator) LambdaProc(env, node any) *LambdaProc {
	return &LambdaProc{base{g.next()}, env, node}
}
func (*LambdaProc) Kind() Kind       { return KindLambdaProc }
func (v *LambdaProc) String() string { return "#<procedure>" }

// Error is a Value-typed runtime error: the target of a thrown
// SchemeException or the result of a builtin/apply failure. It carries
// enough of a schemerr.BuildError's shape (message + textual position)
// to be useful without package value importing package schemerr, which
// would create a cycle (schemerr.SchemeException carries a Value).
type Error struct {
	base
	Message string
	Where   string
}

func (g *Generator) Error(message, where string) *Error {
	return &Error{base{g.next()}, message, where}
}
func (*Error) Kind() Kind       { return KindError }
func (v *Error) String() string { return fmt.Sprintf("#<error %s>", v.Message) }

// Truthy implements the language's single falsy value: anything other
// than Boolean(false) is truthy (§4.4).
func Truthy(v Value) bool {
	b, ok := v.(*Boolean)
	return !(ok && !b.B)
}
