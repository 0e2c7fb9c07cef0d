// Package tracing implements the tracing evaluator described in
// spec.md §4.7: evaluation builds a parent-child tree of Cells
// recording exactly how a value was produced, with enough bookkeeping
// (a live binding set per cell, dataflow-input subscriptions) to
// support targeted re-evaluation instead of starting over from the
// root.
package tracing

import (
	"github.com/cwbudde/go-scheval/internal/dataflow"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Kind tags which IR form (or evaluation event) a Cell records.
type Kind int

const (
	KindConstant Kind = iota
	KindAssign
	KindIf
	KindLambda
	KindSequence
	KindApply
	KindVariable
	KindLetrec
	KindInput
	KindCall
	KindRead
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "Constant"
	case KindAssign:
		return "Assign"
	case KindIf:
		return "If"
	case KindLambda:
		return "Lambda"
	case KindSequence:
		return "Sequence"
	case KindApply:
		return "Apply"
	case KindVariable:
		return "Variable"
	case KindLetrec:
		return "Letrec"
	case KindInput:
		return "Input"
	case KindCall:
		return "Call"
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	default:
		return "?"
	}
}

// Binding is one entry of a Cell's live binding set: which cell
// produced the current value of a variable, and which Write cell last
// assigned it (spec.md §4.7).
type Binding struct {
	Name     string
	Producer *Cell
	Writer   *Cell
}

// Cell is one node of the tracing tree.
type Cell struct {
	ID       int
	Kind     Kind
	Value    value.Value
	Parent   *Cell
	Children []*Cell
	Dirty    bool

	// Bindings is the live binding set snapshot captured when this cell
	// was created: variable name -> (producing cell, writer cell).
	Bindings map[string]Binding

	node ir.Node
	env  *runtime.Environment

	inputNode *dataflow.InputNode
	listener  dataflow.Listener

	varName string // set on Read/Write cells
}

func (e *Evaluator) newCell(kind Kind, node ir.Node, env *runtime.Environment, parent *Cell, bindings map[string]Binding) *Cell {
	c := &Cell{
		ID:       e.nextID(),
		Kind:     kind,
		Parent:   parent,
		Bindings: bindings,
		node:     node,
		env:      env,
	}
	if parent != nil {
		parent.Children = append(parent.Children, c)
	}
	return c
}

func (e *Evaluator) nextID() int {
	e.idCounter++
	return e.idCounter
}

// cloneBindings shallow-copies a live binding set so a nested scope can
// extend it without mutating the parent's snapshot.
func cloneBindings(b map[string]Binding) map[string]Binding {
	out := make(map[string]Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// markDirty marks c and every ancestor dirty (spec.md §4.7: "every
// InputCell subscribed to it marks itself and all ancestors dirty").
func (c *Cell) markDirty() {
	for cur := c; cur != nil; cur = cur.Parent {
		cur.Dirty = true
	}
}

// release recursively detaches downstream dataflow listeners before a
// cell's subtree is discarded (spec.md §4.7/§5).
func (c *Cell) release() {
	for _, child := range c.Children {
		child.release()
	}
	if c.inputNode != nil && c.listener != nil {
		c.inputNode.Unsubscribe(c.listener)
	}
}

// clear releases c's children and forgets them, in preparation for
// re-running the kind-specific eval helper (spec.md §4.7: "clear()s its
// children (releasing them via release())").
func (c *Cell) clear() {
	for _, child := range c.Children {
		child.release()
	}
	c.Children = nil
}
