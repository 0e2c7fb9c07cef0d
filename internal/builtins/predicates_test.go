package builtins

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/value"
)

func TestPredicates_MatchOnlyTheirOwnType(t *testing.T) {
	g := value.NewGenerator()
	r := New(g, os.Stdout)
	tests := []struct {
		name string
		arg  value.Value
		want bool
	}{
		{"boolean?", g.Boolean(true), true},
		{"boolean?", num(g, 1), false},
		{"number?", num(g, 1), true},
		{"number?", g.Boolean(false), false},
		{"pair?", g.Pair(num(g, 1), num(g, 2)), true},
		{"pair?", num(g, 1), false},
		{"string?", g.String("hi"), true},
		{"string?", num(g, 1), false},
		{"null?", g.Nil(), true},
		{"null?", num(g, 1), false},
		{"symbol?", g.Symbol(value.NewSymbolTable(), "x"), true},
		{"symbol?", num(g, 1), false},
	}
	for _, tt := range tests {
		got, err := callDirect(t, r, tt.name, tt.arg)
		if err != nil {
			t.Fatalf("%s(%#v) error = %v", tt.name, tt.arg, err)
		}
		b, ok := got.(*value.Boolean)
		if !ok || b.B != tt.want {
			t.Errorf("%s(%#v) = %#v, want %v", tt.name, tt.arg, got, tt.want)
		}
	}
}

func TestNot_InvertsTruthiness(t *testing.T) {
	g := value.NewGenerator()
	r := New(g, os.Stdout)
	got, err := callDirect(t, r, "not", g.Boolean(false))
	if err != nil {
		t.Fatalf("not() error = %v", err)
	}
	if b, ok := got.(*value.Boolean); !ok || !b.B {
		t.Errorf("not(#f) = %#v, want #t", got)
	}
	// every non-#f value, including 0, is truthy in this language, so
	// not() on a number must yield #f.
	got, err = callDirect(t, r, "not", num(g, 0))
	if err != nil {
		t.Fatalf("not() error = %v", err)
	}
	if b, ok := got.(*value.Boolean); !ok || b.B {
		t.Errorf("not(0) = %#v, want #f", got)
	}
}
