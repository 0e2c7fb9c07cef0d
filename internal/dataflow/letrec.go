package dataflow

// letrecNode creates the inner environment, wires each binding node
// into the corresponding variable slot, then builds the body (§4.6).
// Bindings are evaluated once at construction, same as Assign; only
// the body subgraph is wired as a live input.
type letrecNode struct{ base }

func newLetrec(g *Graph, bodyID int) *letrecNode {
	n := &letrecNode{base{id: g.newID()}}
	g.register(n)
	g.AddOutput(bodyID, n.id)
	n.val = g.Node(bodyID).Value()
	return n
}

func (n *letrecNode) Reevaluate(g *Graph) {
	g.updateValue(n, g.Node(n.inputs[0]).Value(), false)
}
