package tracing

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/ctx"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDump_Snapshot pins the --dump-trace JSON shape for representative
// programs against go-snaps golden files (written under __snapshots__ on
// the first run).
func TestDump_Snapshot(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic", "(+ 1 2)"},
		{"letrec_factorial", "(letrec ((fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))) (fact 4))"},
		{"assign", "(letrec ((x 1)) (begin (set! x 7) x))"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ctx.New(os.Stdout)
			cell := evalString(t, c, tc.src)
			snaps.MatchSnapshot(t, "dump", Dump(cell))
		})
	}
}
