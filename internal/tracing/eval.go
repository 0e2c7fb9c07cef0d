package tracing

import (
	"strconv"

	"github.com/cwbudde/go-scheval/internal/dataflow"
	"github.com/cwbudde/go-scheval/internal/datum"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/runtime"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// Evaluator builds a tracing tree while walking IR nodes. Graph is
// optional: it is only consulted for Input nodes, so direct/CPS-only
// callers can pass nil.
type Evaluator struct {
	Gen     *value.Generator
	Symbols *value.SymbolTable
	Graph   *dataflow.Graph

	idCounter int
}

// New builds a tracing Evaluator.
func New(g *value.Generator, symbols *value.SymbolTable, graph *dataflow.Graph) *Evaluator {
	return &Evaluator{Gen: g, Symbols: symbols, Graph: graph}
}

// Eval builds a fresh tracing tree for node under env.
func (e *Evaluator) Eval(node ir.Node, env *runtime.Environment) (*Cell, error) {
	return e.eval(node, env, nil, map[string]Binding{})
}

// Reevaluate re-runs cell's kind-specific logic from scratch, discarding
// and releasing its old children, and grafts the freshly produced
// subtree onto cell so the caller's reference to it stays valid. Cell
// ids of the new subtree differ from the old one, which spec.md §8
// property 7 explicitly allows ("cell ids may differ").
func (e *Evaluator) Reevaluate(cell *Cell) error {
	cell.clear()
	cell.Dirty = false
	fresh, err := e.eval(cell.node, cell.env, nil, cell.Bindings)
	if err != nil {
		return err
	}
	cell.Value = fresh.Value
	cell.Children = fresh.Children
	for _, child := range cell.Children {
		child.Parent = cell
	}
	return nil
}

func (e *Evaluator) eval(node ir.Node, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	switch n := node.(type) {
	case *ir.Constant:
		cell := e.newCell(KindConstant, node, env, parent, bindings)
		v, err := datum.ToValue(e.Gen, e.Symbols, n.Datum)
		if err != nil {
			return nil, err
		}
		cell.Value = v
		return cell, nil
	case *ir.Variable:
		return e.evalVariable(n, env, parent, bindings)
	case *ir.Assign:
		return e.evalAssign(n, env, parent, bindings)
	case *ir.If:
		return e.evalIf(n, env, parent, bindings)
	case *ir.Lambda:
		cell := e.newCell(KindLambda, node, env, parent, bindings)
		cell.Value = e.Gen.LambdaProc(env, n)
		return cell, nil
	case *ir.Sequence:
		cell := e.newCell(KindSequence, node, env, parent, bindings)
		if _, err := e.eval(n.Head, env, cell, bindings); err != nil {
			return nil, err
		}
		tail, err := e.eval(n.Tail, env, cell, bindings)
		if err != nil {
			return nil, err
		}
		cell.Value = tail.Value
		return cell, nil
	case *ir.Apply:
		return e.evalApply(n, env, parent, bindings)
	case *ir.Letrec:
		return e.evalLetrec(n, env, parent, bindings)
	case *ir.Try:
		return nil, schemerr.NewBuildError(n.Range(), "try is not supported by the tracing evaluator")
	case *ir.Throw:
		return nil, schemerr.NewBuildError(n.Range(), "throw is not supported by the tracing evaluator")
	case *ir.Input:
		return e.evalInput(n, env, parent, bindings)
	default:
		return nil, schemerr.Fatal("tracing evaluator: unrecognized node kind")
	}
}

func (e *Evaluator) evalVariable(n *ir.Variable, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindVariable, n, env, parent, bindings)
	slot, err := env.Resolve(n.Ref)
	if err != nil {
		return nil, err
	}
	read := e.newCell(KindRead, n, env, cell, bindings)
	read.varName = n.Ref.Name
	read.Value = slot.Val
	cell.Value = slot.Val
	return cell, nil
}

func (e *Evaluator) evalAssign(n *ir.Assign, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindAssign, n, env, parent, bindings)
	body, err := e.eval(n.Body, env, cell, bindings)
	if err != nil {
		return nil, err
	}
	slot, err := env.Resolve(n.Ref)
	if err != nil {
		return nil, err
	}
	slot.Val = body.Value
	write := e.newCell(KindWrite, n, env, cell, bindings)
	write.varName = n.Ref.Name
	write.Value = body.Value
	slot.Cell = write
	bindings[n.Ref.Name] = Binding{Name: n.Ref.Name, Producer: body, Writer: write}
	cell.Value = e.Gen.Unspecified()
	return cell, nil
}

func (e *Evaluator) evalIf(n *ir.If, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindIf, n, env, parent, bindings)
	cond, err := e.eval(n.Cond, env, cell, bindings)
	if err != nil {
		return nil, err
	}
	var branch *Cell
	if value.Truthy(cond.Value) {
		branch, err = e.eval(n.Then, env, cell, bindings)
	} else {
		branch, err = e.eval(n.Else, env, cell, bindings)
	}
	if err != nil {
		return nil, err
	}
	cell.Value = branch.Value
	return cell, nil
}

func (e *Evaluator) evalApply(n *ir.Apply, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindApply, n, env, parent, bindings)
	procCell, err := e.eval(n.Proc, env, cell, bindings)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		argCell, err := e.eval(a, env, cell, bindings)
		if err != nil {
			return nil, err
		}
		args[i] = argCell.Value
	}
	switch p := procCell.Value.(type) {
	case *value.BuiltinProc:
		v, err := p.Direct(e.Gen, args)
		if err != nil {
			return nil, err
		}
		cell.Value = v
	case *value.LambdaProc:
		call, err := e.applyLambda(p, args, cell, bindings)
		if err != nil {
			return nil, err
		}
		cell.Value = call.Value
	default:
		return nil, schemerr.NewSchemeException(e.Gen.Error("cannot apply "+procCell.Value.String(), ""))
	}
	return cell, nil
}

func (e *Evaluator) applyLambda(p *value.LambdaProc, args []value.Value, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	lam, ok := p.Node.(*ir.Lambda)
	if !ok {
		return nil, schemerr.Fatal("lambda procedure's node is not an *ir.Lambda")
	}
	capturedEnv, _ := p.Env.(*runtime.Environment)
	if len(args) != len(lam.Params) {
		return nil, schemerr.NewSchemeException(e.Gen.Error(
			"arity mismatch: expected "+strconv.Itoa(len(lam.Params))+" arguments, got "+strconv.Itoa(len(args)), ""))
	}
	frame, err := runtime.New(lam.InnerScope, capturedEnv)
	if err != nil {
		return nil, err
	}
	call := e.newCell(KindCall, lam, frame, parent, bindings)
	callBindings := cloneBindings(bindings)
	for i, a := range args {
		frame.Vars[i].Val = a
		write := e.newCell(KindWrite, lam, frame, call, callBindings)
		write.varName = lam.Params[i]
		write.Value = a
		frame.Vars[i].Cell = write
		callBindings[lam.Params[i]] = Binding{Name: lam.Params[i], Producer: write, Writer: write}
	}
	body, err := e.eval(lam.Body, frame, call, callBindings)
	if err != nil {
		return nil, err
	}
	call.Value = body.Value
	return call, nil
}

func (e *Evaluator) evalLetrec(n *ir.Letrec, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindLetrec, n, env, parent, bindings)
	frame, err := runtime.New(n.InnerScope, env)
	if err != nil {
		return nil, err
	}
	innerBindings := cloneBindings(bindings)
	for _, v := range frame.Vars {
		v.Val = e.Gen.Unspecified()
	}
	for _, b := range n.Bindings {
		body, err := e.eval(b.Body, frame, cell, innerBindings)
		if err != nil {
			return nil, err
		}
		slot, err := frame.Resolve(b.Ref)
		if err != nil {
			return nil, err
		}
		slot.Val = body.Value
		write := e.newCell(KindWrite, n, frame, cell, innerBindings)
		write.varName = b.Ref.Name
		write.Value = body.Value
		slot.Cell = write
		innerBindings[b.Ref.Name] = Binding{Name: b.Ref.Name, Producer: body, Writer: write}
	}
	body, err := e.eval(n.Body, frame, cell, innerBindings)
	if err != nil {
		return nil, err
	}
	cell.Value = body.Value
	return cell, nil
}

func (e *Evaluator) evalInput(n *ir.Input, env *runtime.Environment, parent *Cell, bindings map[string]Binding) (*Cell, error) {
	cell := e.newCell(KindInput, n, env, parent, bindings)
	if e.Graph == nil {
		return nil, schemerr.NewBuildError(n.Range(), "input %q requires a dataflow graph", n.Name)
	}
	in, ok := e.Graph.Input(n.Name)
	if !ok {
		return nil, schemerr.NewBuildError(n.Range(), "input %q has not been created", n.Name)
	}
	cell.Value = in.Value()
	cell.inputNode = in
	listener := &inputCellListener{cell: cell}
	cell.listener = listener
	in.Subscribe(listener)
	return cell, nil
}

// inputCellListener wires an InputCell to its backing dataflow input
// node, marking the cell and its ancestors dirty on every change
// (spec.md §4.7/§9: "InputCells subscribe to InputDataflowNodes via a
// change-listener interface").
type inputCellListener struct{ cell *Cell }

func (l *inputCellListener) OnInputChanged(name string, v value.Value) {
	l.cell.Value = v
	l.cell.markDirty()
}
