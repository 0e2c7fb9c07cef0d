package dataflow

import (
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Listener is notified whenever an InputNode's value changes, before
// the dirty queue is drained. The tracing evaluator subscribes its
// InputCells through this hook to mark themselves and their ancestors
// dirty (§4.7: "When an Input dataflow node changes, every InputCell
// subscribed to it marks itself and all ancestors dirty").
type Listener interface {
	OnInputChanged(name string, v value.Value)
}

// InputNode stores an externally-updatable value with no inputs of its
// own (§4.6).
type InputNode struct {
	base
	name      string
	listeners []Listener
}

func newInputNode(g *Graph, name string, v value.Value) *InputNode {
	n := &InputNode{base: base{id: g.newID(), val: v}, name: name}
	g.register(n)
	return n
}

// Subscribe registers l to be notified on every future UpdateInput for
// this node's name.
func (n *InputNode) Subscribe(l Listener) { n.listeners = append(n.listeners, l) }

// Unsubscribe removes l from this node's change-listener list, part of
// the release() contract in spec.md §5: "each node removes itself ...
// from any external listener".
func (n *InputNode) Unsubscribe(l Listener) {
	for i, x := range n.listeners {
		if x == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// Name returns the input's registered name.
func (n *InputNode) Name() string { return n.name }

// CreateInput registers a new named reactive input. Re-creating an
// already-registered name is a bookkeeping bug.
func (g *Graph) CreateInput(name string, v value.Value) (*InputNode, error) {
	if _, exists := g.inputs[name]; exists {
		return nil, schemerr.Fatal("dataflow: input %q already exists", name)
	}
	n := newInputNode(g, name, v)
	g.inputs[name] = n
	return n, nil
}

// UpdateInput changes a registered input's value, notifies its
// listeners, and propagates through the dirty queue via updateValue
// (§4.6: "updateInput(name, v) calls that path on the Input node").
func (g *Graph) UpdateInput(name string, v value.Value) error {
	n, ok := g.inputs[name]
	if !ok {
		return schemerr.Fatal("dataflow: input %q does not exist", name)
	}
	for _, l := range n.listeners {
		l.OnInputChanged(name, v)
	}
	g.updateValue(n, v, false)
	return nil
}

// Input looks up a previously created input node by name.
func (g *Graph) Input(name string) (*InputNode, bool) {
	n, ok := g.inputs[name]
	return n, ok
}
