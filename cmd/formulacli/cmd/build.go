package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Parse and optimize a formula, printing its expression tree",
	Long: `Build a formula (parse, then constant-fold if the optimizer is
enabled) and print the resulting expression tree and free variables,
without evaluating it.

Examples:
  formulacli build "2+3*4"
  formulacli build --var x=3 "x*x + 2*x + 1"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "build inline text instead of reading a file")
}

func runBuild(_ *cobra.Command, args []string) error {
	text, err := readFormulaArg(args)
	if err != nil {
		return err
	}

	e, err := buildEngine()
	if err != nil {
		return err
	}

	f, err := e.Build(text)
	if err != nil {
		return err
	}

	fmt.Println("tree:", f.String())
	fmt.Println("variables:", f.Vars())
	return nil
}
