// Package ctx gathers the process-wide state spec.md §5/§9 says must
// be grouped per-interpreter rather than kept as module-level
// singletons: the generation stamp counter, the symbol table, the
// gensym counter, the builtin registry, and (for the reactive
// evaluator) the dataflow graph and its input registry. Every
// evaluation mode is built against the same Context, so multiple
// independent interpreters can coexist in one process.
package ctx

import (
	"io"

	"github.com/cwbudde/go-scheval/internal/builtins"
	"github.com/cwbudde/go-scheval/internal/dataflow"
	"github.com/cwbudde/go-scheval/internal/gensym"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Context owns every piece of state spec.md §5 calls "process-wide":
// the gensym counter, the generation stamp (via Gen), the dataflow
// input registry and dirty queue (via Graph), and the shared builtin
// registry and symbol table every evaluator resolves globals against.
type Context struct {
	Gen     *value.Generator
	Symbols *value.SymbolTable
	Gensym  *gensym.Counter
	Builtin *builtins.Registry
	Graph   *dataflow.Graph
}

// New builds a fresh Context. Builtin output (display/newline) is
// written to out.
func New(out io.Writer) *Context {
	g := value.NewGenerator()
	c := &Context{
		Gen:     g,
		Symbols: value.NewSymbolTable(),
		Gensym:  gensym.New(),
		Builtin: builtins.New(g, out),
	}
	c.Graph = dataflow.NewGraph(g)
	return c
}

// GlobalScope allocates one slot per registered builtin, in Names()
// order, so every evaluator builds its variable references against
// the same layout.
func (c *Context) GlobalScope() (*scope.LexicalScope, []string) {
	sc := scope.NewScope(nil)
	names := c.Builtin.Names()
	for _, name := range names {
		sc.AddOwnSlot(name)
	}
	return sc, names
}

// GlobalEnvironment builds the top-level Environment for the direct
// and CPS evaluators: each slot's Val is bound to the corresponding
// builtin procedure.
func (c *Context) GlobalEnvironment() (*runtime.Environment, *scope.LexicalScope, error) {
	sc, names := c.GlobalScope()
	env, err := runtime.New(sc, nil)
	if err != nil {
		return nil, nil, err
	}
	for i, name := range names {
		proc, _ := c.Builtin.Lookup(name)
		env.Vars[i].Val = proc
	}
	return env, sc, nil
}

// GlobalDataflowEnvironment builds the top-level Environment for the
// reactive evaluator: each slot's Node is a constant dataflow node
// wrapping the builtin procedure's value, registered in c.Graph.
func (c *Context) GlobalDataflowEnvironment() (*runtime.Environment, *scope.LexicalScope, error) {
	sc, names := c.GlobalScope()
	env, err := runtime.New(sc, nil)
	if err != nil {
		return nil, nil, err
	}
	for i, name := range names {
		proc, _ := c.Builtin.Lookup(name)
		env.Vars[i].Node = dataflow.NewConstantNode(c.Graph, proc)
	}
	return env, sc, nil
}

// CreateInput registers a reactive input; see dataflow.Graph.CreateInput.
func (c *Context) CreateInput(name string, v value.Value) (*dataflow.InputNode, error) {
	return c.Graph.CreateInput(name, v)
}

// UpdateInput mutates a registered reactive input; see
// dataflow.Graph.UpdateInput.
func (c *Context) UpdateInput(name string, v value.Value) error {
	return c.Graph.UpdateInput(name, v)
}

// ReevaluateDataflowGraph drains the dirty queue; see
// dataflow.Graph.ReevaluateDataflowGraph.
func (c *Context) ReevaluateDataflowGraph() {
	c.Graph.ReevaluateDataflowGraph()
}
