package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/go-scheval/internal/cpseval"
	"github.com/cwbudde/go-scheval/internal/cpstransform"
	"github.com/cwbudde/go-scheval/internal/ctx"
	"github.com/cwbudde/go-scheval/internal/dataflow"
	"github.com/cwbudde/go-scheval/internal/direct"
	"github.com/cwbudde/go-scheval/internal/forms"
	"github.com/cwbudde/go-scheval/internal/ir"
	"github.com/cwbudde/go-scheval/internal/schemerr"
	"github.com/cwbudde/go-scheval/internal/sexpr"
	"github.com/cwbudde/go-scheval/internal/tracing"
	"github.com/cwbudde/go-scheval/internal/value"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Flags bound in root.go's init, consumed here.
var (
	evalExpr    string
	mode        string
	cpsBuiltins bool
	abbrev      bool
	height      int
	configPath  string
	dumpIR      string
	dumpTrace   string
)

// runFile is rootCmd's RunE: it reads a source file (or --eval's inline
// text), runs the mode-selected pipeline stage over it, and reports any
// schemerr.BuildError the way spec.md §6 requires.
func runFile(cmd *cobra.Command, args []string) (runErr error) {
	defer func() {
		// The CPS and tracing evaluators panic on an internal invariant
		// violation instead of returning an error (spec.md §7: "never
		// catchable by user code"), since that's a host-level bug, not a
		// Scheme-level one. Recovered here so the CLI still reports it
		// through the normal exit-code-1 path (§6) instead of a bare
		// runtime crash.
		if r := recover(); r != nil {
			runErr = fmt.Errorf("internal error: %v", r)
		}
	}()
	filename, src, err := readSource(args)
	if err != nil {
		return err
	}

	var cfg *config
	if configPath != "" {
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
		if cfg.Mode != "" && !cmd.Flags().Changed("mode") {
			mode = cfg.Mode
		}
		if cfg.Abbrev {
			abbrev = true
		}
		if cfg.Height != 0 && height == 0 {
			height = cfg.Height
		}
		if cfg.CPSBuiltins {
			cpsBuiltins = true
		}
	}
	if dumpTrace != "" {
		mode = "tracing"
	}

	exprs, readErr := sexpr.ReadAll(filename, src)
	if readErr != nil {
		return readErr
	}

	switch mode {
	case "print":
		return runPrint(exprs)
	case "simplify":
		return runSimplify(exprs)
	case "cps-transform":
		return runCPSTransform(exprs)
	case "direct", "cps", "reactive", "tracing":
		return runEval(filename, src, exprs, cfg)
	default:
		return fmt.Errorf("unknown --mode %q", mode)
	}
}

// readSource resolves the program text either from --eval or from the
// single positional file argument.
func readSource(args []string) (filename, src string, err error) {
	if evalExpr != "" {
		return "<eval>", evalExpr, nil
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("expected a source file (or --eval)")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

func runPrint(exprs []sexpr.SExpr) error {
	for _, e := range exprs {
		fmt.Println(writeSExpr(e))
	}
	return nil
}

func runSimplify(exprs []sexpr.SExpr) error {
	c := ctx.New(os.Stdout)
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		fmt.Println(writeSExpr(simplified))
	}
	return nil
}

func runCPSTransform(exprs []sexpr.SExpr) error {
	c := ctx.New(os.Stdout)
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		transformed := cpstransform.Transform(simplified, sexpr.NewSymbol(e.Range(), "SUCC"), c.Gensym.Next)
		fmt.Println(writeSExpr(transformed))
	}
	return nil
}

// runEval drives one of the four evaluation back-ends (spec.md §4.4-
// §4.7) over every top-level form in exprs, in order, against one
// shared global environment. Reactive inputs named in cfg are created
// before the first form is evaluated and any scripted updates are
// applied, and the graph reevaluated, after it.
func runEval(filename, src string, exprs []sexpr.SExpr, cfg *config) error {
	c := ctx.New(os.Stdout)

	if cfg != nil {
		for _, in := range cfg.Inputs {
			if _, err := c.CreateInput(in.Name, c.Gen.Number(in.Value)); err != nil {
				return formatErr(filename, src, err)
			}
		}
	}

	switch mode {
	case "direct":
		return runDirect(filename, src, c, exprs)
	case "cps":
		return runCPS(filename, src, c, exprs)
	case "reactive":
		return runReactive(filename, src, c, exprs, cfg)
	case "tracing":
		return runTracing(filename, src, c, exprs)
	default:
		return fmt.Errorf("unknown evaluation mode %q", mode)
	}
}

func runDirect(filename, src string, c *ctx.Context, exprs []sexpr.SExpr) error {
	ev := direct.New(c.Gen, c.Symbols, c.Builtin)
	if cpsBuiltins {
		c.Builtin = c.Builtin.WithTrailingContinuation(c.Gen, ev.Apply)
	}
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		return err
	}
	var last value.Value
	var irDumps []map[string]any
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			return formatErr(filename, src, err)
		}
		irDumps = append(irDumps, ir.Dump(node))
		v, err := ev.Eval(node, env)
		if err != nil {
			return reportRuntimeErr(err)
		}
		last = v
	}
	if err := flushIRDump(irDumps); err != nil {
		return err
	}
	printResult(last)
	return nil
}

func runCPS(filename, src string, c *ctx.Context, exprs []sexpr.SExpr) error {
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		return err
	}
	ev := cpseval.New(c.Gen, c.Symbols, c.Builtin)
	var last value.Value
	var irDumps []map[string]any
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			return formatErr(filename, src, err)
		}
		irDumps = append(irDumps, ir.Dump(node))
		v, err := ev.Run(node, env)
		if err != nil {
			return reportRuntimeErr(err)
		}
		last = v
	}
	if err := flushIRDump(irDumps); err != nil {
		return err
	}
	printResult(last)
	return nil
}

func runReactive(filename, src string, c *ctx.Context, exprs []sexpr.SExpr, cfg *config) error {
	env, sc, err := c.GlobalDataflowEnvironment()
	if err != nil {
		return err
	}
	builder := dataflow.NewBuilder(c.Graph, c.Gen, c.Symbols)
	var lastID int
	var irDumps []map[string]any
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			return formatErr(filename, src, err)
		}
		irDumps = append(irDumps, ir.Dump(node))
		id, err := builder.Build(node, env)
		if err != nil {
			return reportRuntimeErr(err)
		}
		lastID = id
	}
	if err := flushIRDump(irDumps); err != nil {
		return err
	}
	printResult(c.Graph.Node(lastID).Value())

	if cfg != nil {
		for _, u := range cfg.Updates {
			if err := c.UpdateInput(u.Name, c.Gen.Number(u.Value)); err != nil {
				return err
			}
			c.ReevaluateDataflowGraph()
			printResult(c.Graph.Node(lastID).Value())
		}
	}
	return nil
}

func runTracing(filename, src string, c *ctx.Context, exprs []sexpr.SExpr) error {
	env, sc, err := c.GlobalEnvironment()
	if err != nil {
		return err
	}
	ev := tracing.New(c.Gen, c.Symbols, c.Graph)
	var last *tracing.Cell
	var irDumps []map[string]any
	for _, e := range exprs {
		simplified := forms.Simplify(e, c.Gensym.Next)
		node, err := ir.Build(sc, simplified)
		if err != nil {
			return formatErr(filename, src, err)
		}
		irDumps = append(irDumps, ir.Dump(node))
		cell, err := ev.Eval(node, env)
		if err != nil {
			return reportRuntimeErr(err)
		}
		last = cell
	}
	if err := flushIRDump(irDumps); err != nil {
		return err
	}
	if last == nil {
		return nil
	}
	fmt.Print(tracing.Render(last, tracing.RenderOptions{Abbrev: abbrev, Height: height}))
	if dumpTrace != "" {
		if err := writeDumpFile(dumpTrace, "trace-dump/v1", tracing.Dump(last)); err != nil {
			return err
		}
	}
	return nil
}

// flushIRDump writes --dump-ir's JSON, one entry per top-level form
// evaluated, once all of them have built successfully.
func flushIRDump(dumps []map[string]any) error {
	if dumpIR == "" {
		return nil
	}
	return writeDumpFile(dumpIR, "ir-dump/v1", map[string]any{"forms": dumps})
}

func printResult(v value.Value) {
	if v == nil {
		return
	}
	fmt.Println(v.String())
}

// writeDumpFile marshals v to compact JSON, stamps a "schema" field onto
// the document with sjson (so a consumer of --dump-ir/--dump-trace can
// tell the two shapes apart without sniffing their keys), and formats
// the result with tidwall/pretty before writing it — the same
// query-and-reshape JSON toolchain the teacher's go-snaps dependency
// pulls in, exercised here directly instead of left unwired.
func writeDumpFile(path, schema string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err = sjson.SetBytes(data, "schema", schema)
	if err != nil {
		return err
	}
	return os.WriteFile(path, pretty.Pretty(data), 0o644)
}

// formatErr renders a *schemerr.BuildError per spec.md §6; any other
// error (an internal invariant violation) is returned as-is.
func formatErr(filename, src string, err error) error {
	if be, ok := err.(*schemerr.BuildError); ok {
		return fmt.Errorf("%s", be.Format(filename, src, false))
	}
	return err
}

// reportRuntimeErr surfaces a *schemerr.SchemeException's payload
// (§7), leaving internal invariant violations (fatal errors) to
// propagate with their own message.
func reportRuntimeErr(err error) error {
	if se, ok := err.(*schemerr.SchemeException); ok {
		return fmt.Errorf("uncaught exception: %s", se.Payload.String())
	}
	return err
}
