// Package dataflow implements the reactive evaluator described in
// spec.md §4.6: each IR node is replaced by a DataflowNode holding its
// current value and edges to its inputs and outputs, and the graph is
// incrementally recomputed as inputs change. Nodes are arena-allocated
// and identified by small integers (design notes, §9) rather than
// linked by pointer, so detaching a subtree is just removing ids from a
// handful of slices.
package dataflow

import (
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Node is the sealed interface every dataflow node implements.
type Node interface {
	ID() int
	Value() value.Value
	Inputs() []int
	Outputs() []int
	Reevaluate(g *Graph)
	Detach(g *Graph)
}

// Graph owns the node arena, the input registry, and the FIFO dirty
// queue described in spec.md §4.6/§5.
type Graph struct {
	gen       *value.Generator
	nodes     map[int]Node
	nextID    int
	queue     []int
	queuedSet map[int]bool
	dirty     map[int]bool
	inputs    map[string]*InputNode
}

// NewGraph returns an empty graph sharing g for value construction.
func NewGraph(g *value.Generator) *Graph {
	return &Graph{
		gen:       g,
		nodes:     make(map[int]Node),
		queuedSet: make(map[int]bool),
		dirty:     make(map[int]bool),
		inputs:    make(map[string]*InputNode),
	}
}

func (g *Graph) newID() int {
	id := g.nextID
	g.nextID++
	return id
}

func (g *Graph) register(n Node) { g.nodes[n.ID()] = n }

func (g *Graph) unregister(id int) { delete(g.nodes, id) }

// Node looks up a node by id. A missing id is an internal bookkeeping
// bug (the arena never drops a live id without detaching its edges
// first), so this panics with a fatal error rather than returning ok.
func (g *Graph) Node(id int) Node {
	n, ok := g.nodes[id]
	if !ok {
		panic(schemerr.Fatal("dataflow: node %d not found", id))
	}
	return n
}

// AddOutput wires a -> b: b is added to a's outputs and a to b's inputs.
// Re-adding an already-present edge is a bookkeeping bug and panics
// (§4.6: "Insertion-already-present and removal-of-absent are errors").
func (g *Graph) AddOutput(a, b int) {
	an := g.Node(a).(edgeNode)
	bn := g.Node(b).(edgeNode)
	if contains(an.outputIDs(), b) {
		panic(schemerr.Fatal("dataflow: edge %d -> %d already present", a, b))
	}
	an.addOutputID(b)
	bn.addInputID(a)
}

// RemoveOutput undoes AddOutput.
func (g *Graph) RemoveOutput(a, b int) {
	an := g.Node(a).(edgeNode)
	bn := g.Node(b).(edgeNode)
	if !contains(an.outputIDs(), b) {
		panic(schemerr.Fatal("dataflow: edge %d -> %d not present", a, b))
	}
	an.removeOutputID(b)
	bn.removeInputID(a)
}

// edgeNode is implemented by base so Graph can mutate input/output id
// lists without every concrete node kind re-implementing bookkeeping.
type edgeNode interface {
	outputIDs() []int
	addOutputID(int)
	removeOutputID(int)
	addInputID(int)
	removeInputID(int)
}

func contains(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// updateValue compares newVal to n's current value by reference; on a
// genuine change it stamps the node's value, enqueues every output, and
// marks them dirty (§4.6). A pair always counts as changed, since the
// in-place cons mutation path (§4.6, §4.8) can alter its contents under
// the same reference. markDirtyAnyway forces the same propagation even
// when the reference didn't change.
func (g *Graph) updateValue(n Node, newVal value.Value, markDirtyAnyway bool) {
	setter := n.(valueSetter)
	changed := markDirtyAnyway || !sameValue(n.Value(), newVal)
	if _, isPair := newVal.(*value.Pair); isPair {
		changed = true
	}
	setter.setValue(newVal)
	if !changed {
		return
	}
	for _, out := range n.Outputs() {
		g.markDirty(out)
	}
}

type valueSetter interface{ setValue(value.Value) }

func sameValue(a, b value.Value) bool { return a == b }

func (g *Graph) markDirty(id int) {
	g.dirty[id] = true
	if !g.queuedSet[id] {
		g.queuedSet[id] = true
		g.queue = append(g.queue, id)
	}
}

// ReevaluateDataflowGraph drains the dirty queue FIFO until empty,
// clearing each node's dirty flag before calling Reevaluate (§4.6).
// Multiple enqueues of the same node before it is drained coalesce
// through the dirty flag, exactly as spec.md §5 requires.
func (g *Graph) ReevaluateDataflowGraph() {
	for len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		delete(g.queuedSet, id)
		if !g.dirty[id] {
			continue
		}
		delete(g.dirty, id)
		n, ok := g.nodes[id]
		if !ok {
			continue // detached before its turn came up
		}
		n.Reevaluate(g)
	}
}

// Release performs a depth-first post-order detach of the subtree
// rooted at id (§5: "Releasing a subtree is a depth-first post-order
// walk"). id removes itself from each of its inputs' output lists and
// from the arena, then Release recurses into whichever of those inputs
// id exclusively owned, so a multi-level subgraph discarded by an
// ifNode branch flip or an applyNode procedure change is torn down in
// full rather than leaking everything below its immediate child.
//
// Not every input is owned substructure, so two kinds are never
// cascaded into:
//
//   - An *InputNode is a long-lived, externally-addressable registration
//     (§4.6) looked up again by name via UpdateInput or by a later Build
//     call; Release leaves it (and everything below it) alone entirely.
//   - A variableNode's single input is a reference to a node built
//     elsewhere — a global builtin, an outer letrec/lambda binding, a
//     call argument reused across rebuilds — not part of this subtree.
//     Release still detaches the variableNode occurrence itself, it
//     just never walks past it into the node it pointed at.
//
// Every other input is only released once orphaned: after id's edge to
// it is removed, it recurses only if that input has no outputs left,
// so a node still reachable from elsewhere in the graph survives.
func Release(g *Graph, id int) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if _, ok := n.(*InputNode); ok {
		return
	}
	_, isVariable := n.(*variableNode)

	var candidates []int
	for _, in := range append([]int{}, n.Inputs()...) {
		if _, ok := g.nodes[in]; ok {
			g.RemoveOutput(in, id)
			candidates = append(candidates, in)
		}
	}
	n.Detach(g)
	g.unregister(id)
	delete(g.dirty, id)

	if isVariable {
		return
	}
	for _, in := range candidates {
		inNode, ok := g.nodes[in]
		if ok && len(inNode.Outputs()) == 0 {
			Release(g, in)
		}
	}
}
