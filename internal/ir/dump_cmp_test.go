package ir

import (
	"testing"

	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/google/go-cmp/cmp"
)

// TestDump_DeterministicAcrossRebuilds rebuilds the same source twice
// against fresh-but-equivalent scopes and checks the resulting dumps
// are byte-for-byte equal, using go-cmp the way cue-lang-cue's codec
// tests diff decoded values.
func TestDump_DeterministicAcrossRebuilds(t *testing.T) {
	src := "(letrec ((fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))) (fact 5))"

	newScope := func() *scope.LexicalScope {
		sc := scope.NewScope(nil)
		for _, name := range []string{"=", "*", "-"} {
			sc.AddOwnSlot(name)
		}
		return sc
	}

	first := Dump(build(t, newScope(), src))
	second := Dump(build(t, newScope(), src))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Dump() not deterministic across rebuilds (-first +second):\n%s", diff)
	}
}
