package runtime

import (
	"testing"

	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/cwbudde/go-scheval/internal/value"
)

func TestNew_ShapeMatchesScope(t *testing.T) {
	sc := scope.NewScope(nil)
	sc.AddOwnSlot("a")
	sc.AddOwnSlot("b")

	env, err := New(sc, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if env.Shape() != 2 {
		t.Errorf("Shape() = %d, want 2", env.Shape())
	}
}

func TestNew_RejectsScopeOuterMismatch(t *testing.T) {
	outerScope := scope.NewScope(nil)
	innerScope := scope.NewScope(outerScope)

	// No outer Environment passed, but innerScope declares an Outer scope.
	if _, err := New(innerScope, nil); err == nil {
		t.Error("New() with mismatched scope/environment chain succeeded, want error")
	}
}

func TestResolve_WalksDepth(t *testing.T) {
	outerScope := scope.NewScope(nil)
	outerScope.AddOwnSlot("x")
	innerScope := scope.NewScope(outerScope)
	innerScope.AddOwnSlot("y")

	outerEnv, err := New(outerScope, nil)
	if err != nil {
		t.Fatalf("New(outer) error = %v", err)
	}
	g := value.NewGenerator()
	outerEnv.Vars[0].Val = g.Boolean(true)

	innerEnv, err := New(innerScope, outerEnv)
	if err != nil {
		t.Fatalf("New(inner) error = %v", err)
	}

	ref, ok := innerScope.Lookup("x")
	if !ok {
		t.Fatal("Lookup(x) not found")
	}
	v, err := innerEnv.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != outerEnv.Vars[0] {
		t.Error("Resolve() returned a different Variable than the outer frame's slot")
	}
}

func TestResolve_DetectsShapeMismatch(t *testing.T) {
	sc := scope.NewScope(nil)
	sc.AddOwnSlot("a")
	env, err := New(sc, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A Ref built against a different scope's slot at the same index.
	other := scope.NewScope(nil)
	other.AddOwnSlot("a")
	foreignRef, _ := other.Lookup("a")

	if _, err := env.Resolve(foreignRef); err == nil {
		t.Error("Resolve() with a foreign Ref.Target succeeded, want error")
	}
}

func TestResolve_DetectsOutOfRangeDepth(t *testing.T) {
	sc := scope.NewScope(nil)
	env, err := New(sc, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ref := scope.Ref{Name: "x", Depth: 5, Index: 0}
	if _, err := env.Resolve(ref); err == nil {
		t.Error("Resolve() with an out-of-range depth succeeded, want error")
	}
}

func TestFrame_Zero(t *testing.T) {
	sc := scope.NewScope(nil)
	env, err := New(sc, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	frame, err := env.Frame(0)
	if err != nil {
		t.Fatalf("Frame(0) error = %v", err)
	}
	if frame != env {
		t.Error("Frame(0) did not return the environment itself")
	}
}
