package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var constantsFilter string

var constantsCmd = &cobra.Command{
	Use:   "constants",
	Short: "List registered constants",
	Long: `Print the engine's registered constants as JSON. Use --filter to
select a gjson path against the "constants" array.

Examples:
  formulacli constants
  formulacli constants --filter "#.name"`,
	RunE: runConstants,
}

func init() {
	rootCmd.AddCommand(constantsCmd)
	constantsCmd.Flags().StringVar(&constantsFilter, "filter", "", "gjson path evaluated against the constants array")
}

func runConstants(_ *cobra.Command, _ []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}

	doc, err := e.Describe()
	if err != nil {
		return err
	}

	if constantsFilter == "" {
		fmt.Println(gjson.Get(doc, "constants").String())
		return nil
	}

	fmt.Println(gjson.Get(doc, "constants."+constantsFilter).String())
	return nil
}
