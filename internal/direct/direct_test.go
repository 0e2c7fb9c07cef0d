package direct

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/ctx"
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/sexpr"
)

// evalString builds a fresh interpreter context, simplifies and lowers
// src to IR against the global scope, and evaluates it with a direct
// Evaluator.
func evalString(t *testing.T, src string) (string, error) {
	t.Helper()
	c := ctx.New(os.Stdout)
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		t.Fatalf("GlobalEnvironment() error = %v", err)
	}
	ev := New(c.Gen, c.Symbols, c.Builtin)

	exprs, err := sexpr.ReadAll("test", src)
	if err != nil {
		t.Fatalf("ReadAll(%q) error = %v", src, err)
	}
	var last string
	var lastErr error
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			return "", err
		}
		v, err := ev.Eval(node, env)
		if err != nil {
			lastErr = err
			continue
		}
		last = v.String()
	}
	return last, lastErr
}

func TestEval_Arithmetic(t *testing.T) {
	got, err := evalString(t, "(+ 1 2 3)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "6" {
		t.Errorf("got %q, want 6", got)
	}
}

func TestEval_DivisionIsTrueDivision(t *testing.T) {
	got, err := evalString(t, "(/ 1 4)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "0.25" {
		t.Errorf("got %q, want 0.25", got)
	}
}

func TestEval_If(t *testing.T) {
	got, err := evalString(t, "(if #f 1 2)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "2" {
		t.Errorf("got %q, want 2", got)
	}
}

func TestEval_LambdaApplication(t *testing.T) {
	got, err := evalString(t, "((lambda (x y) (+ x y)) 3 4)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "7" {
		t.Errorf("got %q, want 7", got)
	}
}

func TestEval_LetrecFactorial(t *testing.T) {
	src := `(letrec ((fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1)))))))
	           (fact 5))`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "120" {
		t.Errorf("got %q, want 120", got)
	}
}

func TestEval_SetBangMutatesBinding(t *testing.T) {
	src := `(letrec ((counter 5))
	           (begin (set! counter (+ counter 2)) counter))`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "7" {
		t.Errorf("got %q, want 7", got)
	}
}

func TestEval_TryCatchesThrow(t *testing.T) {
	src := `(try (throw 42) (lambda (e) (+ e 1)))`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "43" {
		t.Errorf("got %q, want 43", got)
	}
}

func TestEval_UncaughtThrowIsSchemeException(t *testing.T) {
	_, err := evalString(t, "(throw 99)")
	if _, ok := err.(*schemerr.SchemeException); !ok {
		t.Fatalf("err = %#v (%T), want *schemerr.SchemeException", err, err)
	}
}

func TestEval_ConsPairPrinting(t *testing.T) {
	got, err := evalString(t, "(cons 1 2)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "(1 . 2)" {
		t.Errorf("got %q, want (1 . 2)", got)
	}
}

func TestEval_ConsProperList(t *testing.T) {
	got, err := evalString(t, "(cons 1 (cons 2 (quote ())))")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "(1 2)" {
		t.Errorf("got %q, want (1 2)", got)
	}
}

func TestEval_InputUnsupportedInDirectMode(t *testing.T) {
	_, err := evalString(t, "(input n)")
	if _, ok := err.(*schemerr.BuildError); !ok {
		t.Fatalf("err = %#v (%T), want *schemerr.BuildError", err, err)
	}
}

func TestEval_ArityMismatchIsSchemeException(t *testing.T) {
	_, err := evalString(t, "((lambda (x y) x) 1)")
	if _, ok := err.(*schemerr.SchemeException); !ok {
		t.Fatalf("err = %#v (%T), want *schemerr.SchemeException", err, err)
	}
}

func TestEval_AndOrShortCircuit(t *testing.T) {
	got, err := evalString(t, "(and 1 2 3)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "3" {
		t.Errorf("(and 1 2 3) = %q, want 3", got)
	}

	got, err = evalString(t, "(or #f #f 5)")
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != "5" {
		t.Errorf("(or #f #f 5) = %q, want 5", got)
	}
}
