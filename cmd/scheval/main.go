// Command scheval is the CLI front-end for the scheval interpreter
// (spec.md §6): it reads a source file of S-expressions and either
// renders an intermediate representation of it or evaluates it with
// one of the four evaluation back-ends.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-scheval/cmd/scheval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
