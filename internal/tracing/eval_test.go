package tracing

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/ctx"
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/sexpr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// evalString drives src through a fresh tracing Evaluator sharing c's
// global environment and dataflow graph, returning the final form's
// Cell.
func evalString(t *testing.T, c *ctx.Context, src string) *Cell {
	t.Helper()
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		t.Fatalf("GlobalEnvironment() error = %v", err)
	}
	ev := New(c.Gen, c.Symbols, c.Graph)
	exprs, err := sexpr.ReadAll("test", src)
	if err != nil {
		t.Fatalf("ReadAll(%q) error = %v", src, err)
	}
	var last *Cell
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			t.Fatalf("ir.Build(%q) error = %v", src, err)
		}
		cell, err := ev.Eval(node, env)
		if err != nil {
			t.Fatalf("Eval(%q) error = %v", src, err)
		}
		last = cell
	}
	return last
}

func TestEval_BuildsApplyTreeWithArgChildren(t *testing.T) {
	c := ctx.New(os.Stdout)
	cell := evalString(t, c, "(+ 1 2)")
	if cell.Kind != KindApply {
		t.Fatalf("Kind = %v, want KindApply", cell.Kind)
	}
	got, ok := cell.Value.(*value.Number)
	if !ok || got.N != 3 {
		t.Errorf("Value = %#v, want Number(3)", cell.Value)
	}
	// proc cell + 2 arg cells
	if len(cell.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(cell.Children))
	}
}

func TestEval_LetrecFactorial(t *testing.T) {
	c := ctx.New(os.Stdout)
	src := `(letrec ((fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1)))))))
	           (fact 5))`
	cell := evalString(t, c, src)
	got, ok := cell.Value.(*value.Number)
	if !ok || got.N != 120 {
		t.Errorf("Value = %#v, want Number(120)", cell.Value)
	}
}

func TestEval_IfChoosesOneBranch(t *testing.T) {
	c := ctx.New(os.Stdout)
	cell := evalString(t, c, "(if #f 1 2)")
	if cell.Kind != KindIf {
		t.Fatalf("Kind = %v, want KindIf", cell.Kind)
	}
	got, ok := cell.Value.(*value.Number)
	if !ok || got.N != 2 {
		t.Errorf("Value = %#v, want Number(2)", cell.Value)
	}
	// cond cell + chosen branch cell only, the other branch is never built
	if len(cell.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(cell.Children))
	}
}

func TestEval_TryAndThrowAreUnsupported(t *testing.T) {
	c := ctx.New(os.Stdout)
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		t.Fatalf("GlobalEnvironment() error = %v", err)
	}
	ev := New(c.Gen, c.Symbols, c.Graph)
	for _, src := range []string{"(throw 1)", "(try (throw 1) (lambda (e) e))"} {
		exprs, err := sexpr.ReadAll("test", src)
		if err != nil {
			t.Fatalf("ReadAll(%q) error = %v", src, err)
		}
		simplified := forms.Simplify(exprs[0], c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			t.Fatalf("ir.Build(%q) error = %v", src, err)
		}
		if _, err := ev.Eval(node, env); err == nil {
			t.Errorf("Eval(%q) succeeded, want an unsupported-form error", src)
		}
	}
}

func TestEvalInput_SubscribesAndReevaluateOnChange(t *testing.T) {
	c := ctx.New(os.Stdout)
	if _, err := c.CreateInput("n", c.Gen.Number(1)); err != nil {
		t.Fatalf("CreateInput() error = %v", err)
	}
	cell := evalString(t, c, "(+ (input n) 10)")
	got, ok := cell.Value.(*value.Number)
	if !ok || got.N != 11 {
		t.Fatalf("initial Value = %#v, want Number(11)", cell.Value)
	}

	if err := c.UpdateInput("n", c.Gen.Number(5)); err != nil {
		t.Fatalf("UpdateInput() error = %v", err)
	}
	if !cell.Dirty {
		t.Fatal("updating the subscribed input did not mark the ancestor cell dirty")
	}
	ev := New(c.Gen, c.Symbols, c.Graph)
	if err := ev.Reevaluate(cell); err != nil {
		t.Fatalf("Reevaluate() error = %v", err)
	}
	if cell.Dirty {
		t.Error("Reevaluate() did not clear the dirty flag")
	}
	got, ok = cell.Value.(*value.Number)
	if !ok || got.N != 15 {
		t.Errorf("Value after Reevaluate() = %#v, want Number(15)", cell.Value)
	}
}

func TestCell_MarkDirtyPropagatesToAncestors(t *testing.T) {
	root := &Cell{ID: 1}
	child := &Cell{ID: 2, Parent: root}
	grandchild := &Cell{ID: 3, Parent: child}
	grandchild.markDirty()
	if !root.Dirty || !child.Dirty || !grandchild.Dirty {
		t.Error("markDirty() did not propagate through every ancestor")
	}
}

func TestCell_ClearReleasesChildren(t *testing.T) {
	c := ctx.New(os.Stdout)
	if _, err := c.CreateInput("n", c.Gen.Number(1)); err != nil {
		t.Fatalf("CreateInput() error = %v", err)
	}
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		t.Fatalf("GlobalEnvironment() error = %v", err)
	}
	ev := New(c.Gen, c.Symbols, c.Graph)
	exprs, err := sexpr.ReadAll("test", "(+ (input n) 10)")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	node, err := ir.Build(sc, forms.Simplify(exprs[0], c.Gensym.Next))
	if err != nil {
		t.Fatalf("ir.Build() error = %v", err)
	}
	cell, err := ev.Eval(node, env)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	var inputCell *Cell
	for _, child := range cell.Children {
		if child.Kind == KindInput {
			inputCell = child
		}
	}
	if inputCell == nil {
		t.Fatal("no KindInput child found under the apply cell")
	}
	cell.clear()
	if len(cell.Children) != 0 {
		t.Errorf("len(Children) after clear() = %d, want 0", len(cell.Children))
	}
	if err := c.UpdateInput("n", c.Gen.Number(99)); err != nil {
		t.Fatalf("UpdateInput() error = %v", err)
	}
	if inputCell.Dirty {
		t.Error("updating the input still notified a cell released by clear()")
	}
}
