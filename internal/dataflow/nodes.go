package dataflow

import "github.com/cwbudde/go-scheval/internal/value"

// base provides the common id/value/edge bookkeeping shared by every
// node kind (spec.md §4.6: "Common state: stable id, current value, set
// of input nodes, set of output nodes, dirty flag").
type base struct {
	id      int
	val     value.Value
	inputs  []int
	outputs []int
}

func (b *base) ID() int           { return b.id }
func (b *base) Value() value.Value { return b.val }
func (b *base) Inputs() []int     { return b.inputs }
func (b *base) Outputs() []int    { return b.outputs }
func (b *base) setValue(v value.Value) { b.val = v }

func (b *base) outputIDs() []int { return b.outputs }
func (b *base) addOutputID(id int) { b.outputs = append(b.outputs, id) }
func (b *base) removeOutputID(id int) { b.outputs = removeID(b.outputs, id) }
func (b *base) addInputID(id int)  { b.inputs = append(b.inputs, id) }
func (b *base) removeInputID(id int) { b.inputs = removeID(b.inputs, id) }

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// base's Reevaluate/Detach are no-ops, used as-is by node kinds that never
// participate in reevaluation (Constant, EnvSlot, Lambda, Assign — §4.6).
func (b *base) Reevaluate(*Graph) {}
func (b *base) Detach(*Graph)     {}

// constantNode holds a literal value, fixed for the node's lifetime.
type constantNode struct{ base }

func newConstant(g *Graph, v value.Value) *constantNode {
	n := &constantNode{base{id: g.newID(), val: v}}
	g.register(n)
	return n
}

// NewConstantNode registers a fixed-value node and returns its id. It
// is exported so the global environment setup (package ctx) can wrap
// each builtin procedure as a constant node without reaching into
// package dataflow's unexported builder internals.
func NewConstantNode(g *Graph, v value.Value) int {
	return newConstant(g, v).id
}

// envSlotNode holds a value assigned once — used as the binding target
// for a letrec's temporary Unspecified bindings before their initializer
// runs. Lambda call parameters are bound straight to the argument nodes.
type envSlotNode struct{ base }

func newEnvSlot(g *Graph, v value.Value) *envSlotNode {
	n := &envSlotNode{base{id: g.newID(), val: v}}
	g.register(n)
	return n
}

// variableNode has exactly one input: whatever node is currently bound
// in the resolved slot. It just forwards that node's value (§4.6).
type variableNode struct{ base }

func newVariable(g *Graph, boundID int) *variableNode {
	n := &variableNode{base{id: g.newID()}}
	g.register(n)
	g.AddOutput(boundID, n.id)
	n.val = g.Node(boundID).Value()
	return n
}

func (n *variableNode) Reevaluate(g *Graph) {
	bound := n.inputs[0]
	g.updateValue(n, g.Node(bound).Value(), false)
}

// lambdaNode captures a closure's value once, at construction; it never
// reevaluates (§4.6: "Lambda, Assign — evaluated once at construction").
type lambdaNode struct{ base }

func newLambda(g *Graph, v value.Value) *lambdaNode {
	n := &lambdaNode{base{id: g.newID(), val: v}}
	g.register(n)
	return n
}

// assignNode exists for bookkeeping/identification only: the actual
// effect of set! (rebinding the target slot's Node to bodyID) happens
// once, at construction time, in Builder.buildAssign.
type assignNode struct{ base }

func newAssign(g *Graph, bodyID int) *assignNode {
	n := &assignNode{base{id: g.newID()}}
	g.register(n)
	n.val = g.gen.Unspecified()
	return n
}

// sequenceNode wires both the head (kept alive for its effect on
// bindings) and the tail as inputs, but only forwards the tail's value.
type sequenceNode struct{ base }

func newSequence(g *Graph, headID, tailID int) *sequenceNode {
	n := &sequenceNode{base{id: g.newID()}}
	g.register(n)
	g.AddOutput(headID, n.id)
	g.AddOutput(tailID, n.id)
	n.val = g.Node(tailID).Value()
	return n
}

func (n *sequenceNode) Reevaluate(g *Graph) {
	tail := n.inputs[1]
	g.updateValue(n, g.Node(tail).Value(), false)
}

// ifNode holds the condition and the currently-selected branch as
// inputs. Reevaluate re-reads the condition; if the branch flips it
// releases the losing subgraph and builds the other one in its place.
type ifNode struct {
	base
	buildThen func() int
	buildElse func() int
	onBranch  bool // true when Then is currently selected
}

func (n *ifNode) Reevaluate(g *Graph) {
	cond := n.inputs[0]
	condVal := g.Node(cond).Value()
	selectThen := value.Truthy(condVal)
	if selectThen == n.onBranch {
		branch := n.inputs[1]
		g.updateValue(n, g.Node(branch).Value(), false)
		return
	}
	oldBranch := n.inputs[1]
	g.RemoveOutput(oldBranch, n.id)
	Release(g, oldBranch)
	var newBranchID int
	if selectThen {
		newBranchID = n.buildThen()
	} else {
		newBranchID = n.buildElse()
	}
	n.onBranch = selectThen
	g.AddOutput(newBranchID, n.id)
	g.updateValue(n, g.Node(newBranchID).Value(), true)
}
