package cpseval

import (
	"os"
	"testing"

	"github.com/cwbudde/go-scheval/internal/ctx"
	"github.com/cwbudde/go-scheval/internal/direct"
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/sexpr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestRun_AgreesWithDirectEvaluator_StructuralDiff restates spec.md
// §8 property 2 ("Direct and CPS evaluators produce the same terminal
// value ... on all programs that do not use input") through
// google/go-cmp's structural diff and testify's require, rather than a
// manual string comparison, so a disagreement prints a readable diff
// instead of just two opaque strings.
func TestRun_AgreesWithDirectEvaluator_StructuralDiff(t *testing.T) {
	programs := []string{
		"(+ 1 2 3)",
		"(letrec ((x 1)) (begin (set! x 7) x))",
		"((lambda (a b) (cons a b)) 1 2)",
		"(if (= 1 1) (quote yes) (quote no))",
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			cpsGot, cpsErr := runString(t, src)
			require.NoError(t, cpsErr)

			c := ctx.New(os.Stdout)
			env, sc, err := c.GlobalEnvironment()
			require.NoError(t, err)
			exprs, err := sexpr.ReadAll("test", src)
			require.NoError(t, err)
			simplified := forms.Simplify(exprs[0], c.Gensym.Next)
			node, err := ir.Build(sc, simplified)
			require.NoError(t, err)
			directEv := direct.New(c.Gen, c.Symbols, c.Builtin)
			directGot, err := directEv.Eval(node, env)
			require.NoError(t, err)

			if diff := cmp.Diff(directGot.String(), cpsGot); diff != "" {
				t.Errorf("direct and cps disagree (-direct +cps):\n%s", diff)
			}
		})
	}
}
