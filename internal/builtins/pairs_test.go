package builtins

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/value"
)

func TestCons_BuildsPair(t *testing.T) {
	g := value.NewGenerator()
	r := New(g, os.Stdout)
	got, err := callDirect(t, r, "cons", num(g, 1), num(g, 2))
	if err != nil {
		t.Fatalf("cons() error = %v", err)
	}
	p, ok := got.(*value.Pair)
	if !ok {
		t.Fatalf("cons() = %T, want *value.Pair", got)
	}
	if got := p.Car.(*value.Number).N; got != 1 {
		t.Errorf("Car = %v, want 1", got)
	}
	if got := p.Cdr.(*value.Number).N; got != 2 {
		t.Errorf("Cdr = %v, want 2", got)
	}
}

func TestCarCdr_RequirePair(t *testing.T) {
	g := value.NewGenerator()
	r := New(g, os.Stdout)
	if _, err := callDirect(t, r, "car", num(g, 1)); err == nil {
		t.Error("car() on a non-pair succeeded, want error")
	}
	if _, err := callDirect(t, r, "cdr", num(g, 1)); err == nil {
		t.Error("cdr() on a non-pair succeeded, want error")
	}
}

func TestCarCdr_RoundTripThroughCons(t *testing.T) {
	g := value.NewGenerator()
	r := New(g, os.Stdout)
	pair, err := callDirect(t, r, "cons", num(g, 7), num(g, 8))
	if err != nil {
		t.Fatalf("cons() error = %v", err)
	}
	car, err := callDirect(t, r, "car", pair)
	if err != nil {
		t.Fatalf("car() error = %v", err)
	}
	if n := car.(*value.Number).N; n != 7 {
		t.Errorf("car() = %v, want 7", n)
	}
	cdr, err := callDirect(t, r, "cdr", pair)
	if err != nil {
		t.Fatalf("cdr() error = %v", err)
	}
	if n := cdr.(*value.Number).N; n != 8 {
		t.Errorf("cdr() = %v, want 8", n)
	}
}
