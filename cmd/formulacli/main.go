// Command formulacli is a command-line front end for the formula
// engine: parse, evaluate, verify, and inspect formulas from the
// shell, grounded on go-dws's cmd/dwscript entry point.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/formulaengine/cmd/formulacli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
