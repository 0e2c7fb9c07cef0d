package dataflow

import (
	"strconv"

	"github.com/cwbudde/go-scheval/internal/datum"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Builder lowers IR into a live dataflow graph, wiring each
// runtime.Variable's Node field to the graph node id currently bound
// to that slot, exactly the way direct/cpseval wire Val and tracing
// wires Cell.
type Builder struct {
	Graph   *Graph
	Gen     *value.Generator
	Symbols *value.SymbolTable
}

// NewBuilder returns a Builder sharing g's graph, generator and symbol
// table.
func NewBuilder(graph *Graph, gen *value.Generator, symbols *value.SymbolTable) *Builder {
	return &Builder{Graph: graph, Gen: gen, Symbols: symbols}
}

// Build lowers node into the graph under env and returns the id of the
// node representing it.
func (b *Builder) Build(node ir.Node, env *runtime.Environment) (int, error) {
	switch n := node.(type) {
	case *ir.Constant:
		v, err := datum.ToValue(b.Gen, b.Symbols, n.Datum)
		if err != nil {
			return 0, err
		}
		return newConstant(b.Graph, v).id, nil
	case *ir.Variable:
		return b.buildVariable(n, env)
	case *ir.Assign:
		return b.buildAssign(n, env)
	case *ir.If:
		return b.buildIf(n, env)
	case *ir.Lambda:
		proc := b.Gen.LambdaProc(env, n)
		return newLambda(b.Graph, proc).id, nil
	case *ir.Sequence:
		headID, err := b.Build(n.Head, env)
		if err != nil {
			return 0, err
		}
		tailID, err := b.Build(n.Tail, env)
		if err != nil {
			return 0, err
		}
		return newSequence(b.Graph, headID, tailID).id, nil
	case *ir.Apply:
		return b.buildApply(n, env)
	case *ir.Letrec:
		return b.buildLetrec(n, env)
	case *ir.Try:
		return 0, schemerr.NewBuildError(n.Range(), "try is not supported by the reactive evaluator")
	case *ir.Throw:
		return 0, schemerr.NewBuildError(n.Range(), "throw is not supported by the reactive evaluator")
	case *ir.Input:
		in, ok := b.Graph.Input(n.Name)
		if !ok {
			return 0, schemerr.NewBuildError(n.Range(), "input %q has not been created", n.Name)
		}
		return in.id, nil
	default:
		return 0, schemerr.Fatal("dataflow builder: unrecognized node kind")
	}
}

func (b *Builder) buildVariable(n *ir.Variable, env *runtime.Environment) (int, error) {
	slot, err := env.Resolve(n.Ref)
	if err != nil {
		return 0, err
	}
	boundID, ok := slot.Node.(int)
	if !ok {
		return 0, schemerr.Fatal("dataflow: variable slot %q has no bound node", n.Ref.Name)
	}
	return newVariable(b.Graph, boundID).id, nil
}

func (b *Builder) buildAssign(n *ir.Assign, env *runtime.Environment) (int, error) {
	bodyID, err := b.Build(n.Body, env)
	if err != nil {
		return 0, err
	}
	slot, err := env.Resolve(n.Ref)
	if err != nil {
		return 0, err
	}
	slot.Node = bodyID
	return newAssign(b.Graph, bodyID).id, nil
}

func (b *Builder) buildIf(n *ir.If, env *runtime.Environment) (int, error) {
	condID, err := b.Build(n.Cond, env)
	if err != nil {
		return 0, err
	}
	selectThen := value.Truthy(b.Graph.Node(condID).Value())
	var branchID int
	if selectThen {
		branchID, err = b.Build(n.Then, env)
	} else {
		branchID, err = b.Build(n.Else, env)
	}
	if err != nil {
		return 0, err
	}
	inode := &ifNode{base: base{id: b.Graph.newID()}, onBranch: selectThen}
	inode.buildThen = func() int {
		id, err := b.Build(n.Then, env)
		if err != nil {
			panic(err)
		}
		return id
	}
	inode.buildElse = func() int {
		id, err := b.Build(n.Else, env)
		if err != nil {
			panic(err)
		}
		return id
	}
	b.Graph.register(inode)
	b.Graph.AddOutput(condID, inode.id)
	b.Graph.AddOutput(branchID, inode.id)
	inode.val = b.Graph.Node(branchID).Value()
	return inode.id, nil
}

func (b *Builder) buildApply(n *ir.Apply, env *runtime.Environment) (int, error) {
	procID, err := b.Build(n.Proc, env)
	if err != nil {
		return 0, err
	}
	argIDs := make([]int, len(n.Args))
	for i, a := range n.Args {
		id, err := b.Build(a, env)
		if err != nil {
			return 0, err
		}
		argIDs[i] = id
	}
	procVal := b.Graph.Node(procID).Value()
	callID, err := b.buildCallNode(procVal, argIDs)
	if err != nil {
		return 0, err
	}
	an := &applyNode{
		base:      base{id: b.Graph.newID()},
		buildCall: b.buildCallNode,
		argIDs:    argIDs,
		callID:    callID,
		builtProc: procVal,
	}
	b.Graph.register(an)
	b.Graph.AddOutput(procID, an.id)
	b.Graph.AddOutput(callID, an.id)
	// Pin each arg node to the applyNode directly, in addition to
	// whatever edge the call node itself holds. buildCallNode's builtin
	// branch wires args straight into the call node with no variableNode
	// in between, so releasing just n.callID on a procedure-identity
	// change (call.go's applyNode.Reevaluate) would otherwise see an arg
	// node's outputs drop to zero and cascade-delete it — even though
	// n.argIDs still needs it to rebuild the next call node. A raw
	// (input ...) id can appear more than once among procID/argIDs
	// (it isn't wrapped in a fresh variableNode per occurrence the way a
	// variable reference is), so skip ids already pinned rather than
	// wiring the same edge twice.
	pinned := map[int]bool{procID: true}
	for _, argID := range argIDs {
		if pinned[argID] {
			continue
		}
		pinned[argID] = true
		b.Graph.AddOutput(argID, an.id)
	}
	an.val = b.Graph.Node(callID).Value()
	return an.id, nil
}

func (b *Builder) buildCallNode(proc value.Value, argIDs []int) (int, error) {
	switch p := proc.(type) {
	case *value.BuiltinProc:
		n, err := newBuiltinCall(b.Graph, p, argIDs)
		if err != nil {
			return 0, err
		}
		return n.id, nil
	case *value.LambdaProc:
		lam, ok := p.Node.(*ir.Lambda)
		if !ok {
			return 0, schemerr.Fatal("lambda procedure's node is not an *ir.Lambda")
		}
		capturedEnv, _ := p.Env.(*runtime.Environment)
		if len(argIDs) != len(lam.Params) {
			return 0, schemerr.Fatal("arity mismatch: expected "+strconv.Itoa(len(lam.Params))+" arguments, got "+strconv.Itoa(len(argIDs)))
		}
		frame, err := runtime.New(lam.InnerScope, capturedEnv)
		if err != nil {
			return 0, err
		}
		for i, argID := range argIDs {
			frame.Vars[i].Node = argID
		}
		bodyID, err := b.Build(lam.Body, frame)
		if err != nil {
			return 0, err
		}
		return newLambdaCall(b.Graph, bodyID).id, nil
	default:
		return 0, schemerr.Fatal("cannot apply non-procedure value in reactive evaluator")
	}
}

func (b *Builder) buildLetrec(n *ir.Letrec, env *runtime.Environment) (int, error) {
	frame, err := runtime.New(n.InnerScope, env)
	if err != nil {
		return 0, err
	}
	for i := range frame.Vars {
		frame.Vars[i].Node = newEnvSlot(b.Graph, b.Gen.Unspecified()).id
	}
	for _, bind := range n.Bindings {
		bodyID, err := b.Build(bind.Body, frame)
		if err != nil {
			return 0, err
		}
		slot, err := frame.Resolve(bind.Ref)
		if err != nil {
			return 0, err
		}
		slot.Node = bodyID
	}
	bodyID, err := b.Build(n.Body, frame)
	if err != nil {
		return 0, err
	}
	return newLetrec(b.Graph, bodyID).id, nil
}
