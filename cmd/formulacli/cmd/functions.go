package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var functionsFilter string

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List registered functions",
	Long: `Print the engine's registered functions as JSON, the output of
Engine.Describe(). Use --filter to select a gjson path against the
"functions" array instead of printing the whole document.

Examples:
  formulacli functions
  formulacli functions --filter "#(variadic==false)#.name"`,
	RunE: runFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.Flags().StringVar(&functionsFilter, "filter", "", "gjson path evaluated against the functions array")
}

func runFunctions(_ *cobra.Command, _ []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}

	doc, err := e.Describe()
	if err != nil {
		return err
	}

	if functionsFilter == "" {
		fmt.Println(gjson.Get(doc, "functions").String())
		return nil
	}

	fmt.Println(gjson.Get(doc, "functions."+functionsFilter).String())
	return nil
}
