package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check that a formula parses and report its free variables",
	Long: `Parse a formula without evaluating it and report whether it is
well-formed, along with the free variable names it references.

Examples:
  formulacli verify "2*sin(x+pi)/max(a,b)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "verify inline text instead of reading a file")
}

func runVerify(_ *cobra.Command, args []string) error {
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
		return fmt.Errorf("invalid: %w", err)
	}

	fmt.Println("valid")
	fmt.Println("variables:", f.Vars())
	return nil
}
