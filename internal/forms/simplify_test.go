package forms

import (
	"testing"

	"github.com/cwbudde/go-scheval/internal/gensym"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

func TestSimplify_OneArmedIf(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(if #t 1)")
	got := Simplify(in[0], c.Next)
	items, ok := sexpr.Items(got)
	if !ok || len(items) != 4 {
		t.Fatalf("Simplify() = %#v, want a 4-element if", got)
	}
	if _, ok := items[3].(*sexpr.Unspecified); !ok {
		t.Errorf("else-branch = %#v, want Unspecified", items[3])
	}
}

func TestSimplify_TwoArmedIfUnchanged(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(if #t 1 2)")
	got := Simplify(in[0], c.Next)
	items, _ := sexpr.Items(got)
	if len(items) != 4 {
		t.Fatalf("Simplify() = %#v, want unchanged 4-element if", got)
	}
	if n, ok := items[3].(*sexpr.Number); !ok || n.Value != 2 {
		t.Errorf("else-branch = %#v, want 2", items[3])
	}
}

func TestSimplify_AndExpandsToNestedIf(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(and a b c)")
	got := Simplify(in[0], c.Next)

	// (and a b c) => (if a (if b c #f) #f)
	items, ok := sexpr.Items(got)
	if !ok || len(items) != 4 {
		t.Fatalf("Simplify() = %#v, want a 4-element if", got)
	}
	sym, ok := items[0].(*sexpr.Symbol)
	if !ok || sym.Name != "if" {
		t.Fatalf("head = %#v, want if", items[0])
	}
	if b, ok := items[3].(*sexpr.Bool); !ok || b.Value {
		t.Errorf("outer else = %#v, want #f", items[3])
	}
}

func TestSimplify_AndZeroTestsIsTrue(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(and)")
	got := Simplify(in[0], c.Next)
	if b, ok := got.(*sexpr.Bool); !ok || !b.Value {
		t.Errorf("Simplify((and)) = %#v, want #t", got)
	}
}

func TestSimplify_OrExpandsToLetrec(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(or a b)")
	got := Simplify(in[0], c.Next)
	items, ok := sexpr.Items(got)
	if !ok || len(items) != 3 {
		t.Fatalf("Simplify() = %#v, want a 3-element letrec", got)
	}
	sym, ok := items[0].(*sexpr.Symbol)
	if !ok || sym.Name != "letrec" {
		t.Fatalf("head = %#v, want letrec", items[0])
	}
}

func TestSimplify_OrZeroTestsIsFalse(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(or)")
	got := Simplify(in[0], c.Next)
	if b, ok := got.(*sexpr.Bool); !ok || b.Value {
		t.Errorf("Simplify((or)) = %#v, want #f", got)
	}
}

func TestSimplify_DoesNotDescendIntoQuote(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(quote (and a b))")
	got := Simplify(in[0], c.Next)
	items, ok := sexpr.Items(got)
	if !ok || len(items) != 2 {
		t.Fatalf("Simplify() = %#v, want unchanged quote", got)
	}
	inner, ok := sexpr.Items(items[1])
	if !ok || len(inner) != 3 {
		t.Fatalf("quoted datum changed: %#v", items[1])
	}
	sym, ok := inner[0].(*sexpr.Symbol)
	if !ok || sym.Name != "and" {
		t.Errorf("quoted datum head = %#v, want unexpanded and", inner[0])
	}
}

func TestSimplify_NestedSubform(t *testing.T) {
	c := gensym.New()
	in, _ := sexpr.ReadAll("test", "(+ (if #t 1) 2)")
	got := Simplify(in[0], c.Next)
	items, ok := sexpr.Items(got)
	if !ok || len(items) != 3 {
		t.Fatalf("Simplify() = %#v, want unchanged outer shape", got)
	}
	innerItems, ok := sexpr.Items(items[1])
	if !ok || len(innerItems) != 4 {
		t.Fatalf("inner if was not simplified: %#v", items[1])
	}
}
