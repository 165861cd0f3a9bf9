package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/formulaengine/config"
	"github.com/cwbudde/formulaengine/pkg/formula"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose     bool
	localeFlag  string
	configPath  string
	interpreted bool
)

var rootCmd = &cobra.Command{
	Use:   "formulacli",
	Short: "Formula engine command-line front end",
	Long: `formulacli parses and evaluates math formulas like
"2*sin(x+pi)/max(a,b)" against the formula engine.

Examples:
  formulacli calculate "2+3*4"
  formulacli calculate --var x=3 "x*x + 2*x + 1"
  formulacli calculate --locale de-DE "max(1,5;2,5)"
  formulacli functions`,
	Version: Version,
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
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "BCP-47 locale for numeric literal parsing (e.g. de-DE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .formularc.yaml engine config file")
	rootCmd.PersistentFlags().BoolVar(&interpreted, "interpreted", false, "use the tree-walking interpreter instead of the compiled backend (default)")
}

// buildEngine constructs the Engine every subcommand shares: a config
// file (if --config was given) provides the base options (execution
// mode defaulting to compiled, per spec.md §6.1), then
// --locale/--interpreted override it, mirroring the precedence
// go-dws's root.go gives CLI flags over file-based defaults.
func buildEngine() (*formula.Engine, error) {
	var opts []formula.Option

	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if err := file.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, file.Options()...)
	}

	if localeFlag != "" {
		opts = append(opts, formula.WithLocale(localeFlag))
	}
	if interpreted {
		opts = append(opts, formula.WithExecutionMode(formula.ModeInterpreted))
	}

	return formula.New(opts...)
}
