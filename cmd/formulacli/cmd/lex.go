package cmd

import (
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a formula and print its token stream",
	Long: `Tokenize a formula without parsing it, for debugging the reader.

Examples:
  formulacli lex "2*sin(x+pi)/max(a,b)"
  formulacli lex --locale de-DE "max(1,5;2,5)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline text instead of reading a file")
}

func runLex(_ *cobra.Command, args []string) error {
	text, err := readFormulaArg(args)
	if err != nil {
		return err
	}
	return dumpTokenStream(text)
}
