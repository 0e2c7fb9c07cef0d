// Package ir defines the intermediate representation the special-form
// parser and IR builder lower S-expressions into (spec.md §3): a tagged
// sum of Constant, Variable, Assign, If, Lambda, Apply, Sequence,
// Letrec, Try, Throw and Input nodes, each carrying a source range.
package ir

import (
	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// Node is the sealed interface every IR node implements.
type Node interface {
	Range() sexpr.Range
	isNode()
}

type base struct{ R sexpr.Range }

func (b base) Range() sexpr.Range { return b.R }
func (base) isNode()              {}

// Constant holds a literal S-expression that becomes a Value on demand.
type Constant struct {
	base
	Datum sexpr.SExpr
}

func NewConstant(r sexpr.Range, datum sexpr.SExpr) *Constant { return &Constant{base{r}, datum} }

// Variable reads the value bound at Ref.
type Variable struct {
	base
	Ref scope.Ref
}

func NewVariable(r sexpr.Range, ref scope.Ref) *Variable { return &Variable{base{r}, ref} }

// Assign evaluates Body and stores it at Ref, yielding Unspecified.
type Assign struct {
	base
	Ref  scope.Ref
	Body Node
}

func NewAssign(r sexpr.Range, ref scope.Ref, body Node) *Assign {
	return &Assign{base{r}, ref, body}
}

// If evaluates Cond; a truthy result selects Then, otherwise Else. Else
// is always present once the simplifier has run.
type If struct {
	base
	Cond, Then, Else Node
}

func NewIf(r sexpr.Range, cond, then, els Node) *If { return &If{base{r}, cond, then, els} }

// Lambda closes over the environment active when it is evaluated.
type Lambda struct {
	base
	Params     []string
	InnerScope *scope.LexicalScope
	Body       Node
}

func NewLambda(r sexpr.Range, params []string, inner *scope.LexicalScope, body Node) *Lambda {
	return &Lambda{base{r}, params, inner, body}
}

// Apply evaluates Proc then each of Args, left to right, and dispatches
// on Proc's runtime kind.
type Apply struct {
	base
	Proc Node
	Args []Node
}

func NewApply(r sexpr.Range, proc Node, args []Node) *Apply { return &Apply{base{r}, proc, args} }

// Sequence evaluates Head for effect and returns Tail's value.
type Sequence struct {
	base
	Head, Tail Node
}

func NewSequence(r sexpr.Range, head, tail Node) *Sequence { return &Sequence{base{r}, head, tail} }

// LetrecBinding is one (ref, initializer) pair of a Letrec form.
type LetrecBinding struct {
	Ref  scope.Ref
	Body Node
}

// Letrec evaluates each binding's initializer in source order against
// an environment where all names are already visible (bound to
// Unspecified until their own initializer completes), then evaluates
// Body.
type Letrec struct {
	base
	InnerScope *scope.LexicalScope
	Bindings   []LetrecBinding
	Body       Node
}

func NewLetrec(r sexpr.Range, inner *scope.LexicalScope, bindings []LetrecBinding, body Node) *Letrec {
	return &Letrec{base{r}, inner, bindings, body}
}

// Try evaluates TryBody; if it raises a SchemeException, CatchLambda is
// applied to the thrown value and that result is returned instead.
type Try struct {
	base
	TryBody     Node
	CatchLambda *Lambda
}

func NewTry(r sexpr.Range, body Node, catch *Lambda) *Try { return &Try{base{r}, body, catch} }

// Throw evaluates Body and raises it as a SchemeException.
type Throw struct {
	base
	Body Node
}

func NewThrow(r sexpr.Range, body Node) *Throw { return &Throw{base{r}, body} }

// Input refers to an externally-updatable reactive input cell; it is
// meaningful only under the dataflow evaluator (§4.4 table: "not
// implemented in direct mode").
type Input struct {
	base
	Name string
}

func NewInput(r sexpr.Range, name string) *Input { return &Input{base{r}, name} }
