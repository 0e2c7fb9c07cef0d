package ir

import (
	"testing"

	"github.com/cwbudde/go-scheval/internal/scope"
)

func TestDump_Constant(t *testing.T) {
	sc := scope.NewScope(nil)
	node := build(t, sc, "42")
	dump := Dump(node)
	if dump["kind"] != "Constant" {
		t.Errorf("kind = %v, want Constant", dump["kind"])
	}
	if dump["datum"] != "42" {
		t.Errorf("datum = %v, want 42", dump["datum"])
	}
}

func TestDump_If(t *testing.T) {
	sc := scope.NewScope(nil)
	node := build(t, sc, "(if #t 1 2)")
	dump := Dump(node)
	if dump["kind"] != "If" {
		t.Errorf("kind = %v, want If", dump["kind"])
	}
	for _, key := range []string{"cond", "then", "else"} {
		if _, ok := dump[key]; !ok {
			t.Errorf("dump missing %q", key)
		}
	}
}

func TestDump_Apply(t *testing.T) {
	sc := scope.NewScope(nil)
	sc.AddOwnSlot("+")
	node := build(t, sc, "(+ 1 2)")
	dump := Dump(node)
	if dump["kind"] != "Apply" {
		t.Errorf("kind = %v, want Apply", dump["kind"])
	}
	args, ok := dump["args"].([]map[string]any)
	if !ok || len(args) != 2 {
		t.Fatalf("args = %#v, want 2-element slice", dump["args"])
	}
}

func TestDump_Variable(t *testing.T) {
	sc := scope.NewScope(nil)
	sc.AddOwnSlot("x")
	node := build(t, sc, "x")
	dump := Dump(node)
	ref, ok := dump["ref"].(map[string]any)
	if !ok {
		t.Fatalf("ref = %#v, want a map", dump["ref"])
	}
	if ref["name"] != "x" {
		t.Errorf("ref.name = %v, want x", ref["name"])
	}
}

func TestDump_Nil(t *testing.T) {
	if Dump(nil) != nil {
		t.Error("Dump(nil) did not return nil")
	}
}

func TestDump_QuotedList(t *testing.T) {
	sc := scope.NewScope(nil)
	node := build(t, sc, "(quote (1 2 3))")
	dump := Dump(node)
	if dump["datum"] != "(1 2 3)" {
		t.Errorf("datum = %v, want (1 2 3)", dump["datum"])
	}
}
