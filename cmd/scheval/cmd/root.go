package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "scheval [file]",
	Short:   "A Scheme-like interpreter with four evaluation back-ends",
	Version: Version,
	Long: `scheval evaluates a small Scheme-like applicative language over one
shared intermediate representation, using one of four evaluation
back-ends selected with --mode:

  direct    a recursive tree-walking evaluator
  cps       a continuation-passing evaluator with explicit succeed/fail
  reactive  a dataflow graph, incrementally recomputed as inputs change
  tracing   an evaluator that records a tree of evaluation Cells

--mode also accepts print, simplify and cps-transform, which render a
stage of the pipeline instead of evaluating it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	rootCmd.Flags().StringVar(&mode, "mode", "direct", "print|simplify|cps-transform|direct|cps|reactive|tracing")
	rootCmd.Flags().BoolVar(&cpsBuiltins, "cps-builtins", false, "wrap builtins to accept a trailing continuation (for evaluating cps-transform output with --mode=direct)")
	rootCmd.Flags().BoolVar(&abbrev, "abbrev", false, "collapse single-child Apply chains in tracing output")
	rootCmd.Flags().IntVar(&height, "height", 0, "cap tracing tree output to this many rows (0 = unlimited)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML file pre-registering reactive inputs and default flags")
	rootCmd.Flags().StringVar(&dumpIR, "dump-ir", "", "dump the built IR tree (json)")
	rootCmd.Flags().StringVar(&dumpTrace, "dump-trace", "", "dump the tracing tree (json); implies --mode=tracing")
}
