package ir

import (
	"testing"

	"github.com/cwbudde/go-scheval/internal/scope"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDump_Snapshot pins the --dump-ir JSON shape for a handful of
// representative programs against go-snaps golden files (written under
// __snapshots__ on the first run), the way the
// teacher's fixture_test.go snapshots fixture output.
func TestDump_Snapshot(t *testing.T) {
	cases := []struct {
		name string
		src  string
		reg  []string
	}{
		{name: "constant", src: "42"},
		{name: "if_three_arm", src: "(if #t 1 2)"},
		{name: "apply", src: "(+ 1 2)", reg: []string{"+"}},
		{name: "lambda_apply", src: "((lambda (a b) (+ a b)) 1 2)", reg: []string{"+"}},
		{name: "letrec_factorial", src: "(letrec ((fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))) (fact 5))", reg: []string{"=", "*", "-"}},
		{name: "try_throw", src: "(try (throw 1) (lambda (e) e))"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := scope.NewScope(nil)
			for _, name := range tc.reg {
				sc.AddOwnSlot(name)
			}
			node := build(t, sc, tc.src)
			snaps.MatchSnapshot(t, "dump", Dump(node))
		})
	}
}
