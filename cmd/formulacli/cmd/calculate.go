package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/formulaengine/internal/lexer"
	"github.com/cwbudde/formulaengine/internal/locale"
	"github.com/cwbudde/formulaengine/internal/token"
)

var (
	evalExpr   string
	varFlags   []string
	dumpAST    bool
	dumpTokens bool
	unsafeEval bool
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [file]",
	Short: "Evaluate a formula against variable bindings",
	Long: `Parse and evaluate a formula from a file or inline text.

Examples:
  formulacli calculate "2+3*4"
  formulacli calculate --var x=3 "x*x + 2*x + 1"
  formulacli calculate --locale de-DE "max(1,5;2,5)"
  formulacli calculate --dump-ast "2*sin(x+pi)/max(a,b)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline text instead of reading a file")
	calculateCmd.Flags().StringArrayVar(&varFlags, "var", nil, "variable binding name=value (repeatable)")
	calculateCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed expression tree")
	calculateCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "dump the token stream before parsing")
	calculateCmd.Flags().BoolVar(&unsafeEval, "unsafe", false, "skip variable-name lowercasing and shadowing checks; --var names must already be lowercase")
}

func runCalculate(_ *cobra.Command, args []string) error {
	text, err := readFormulaArg(args)
	if err != nil {
		return err
	}

	vars, err := parseVarFlags(varFlags)
	if err != nil {
		return err
	}

	if dumpTokens {
		if err := dumpTokenStream(text); err != nil {
			return err
		}
	}

	e, err := buildEngine()
	if err != nil {
		return err
	}

	f, err := e.Build(text)
	if err != nil {
		return err
	}

	if dumpAST {
		fmt.Println("AST:", f.String())
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "variables: %v\n", f.Vars())
	}

	var result float64
	if unsafeEval {
		if vars == nil {
			vars = map[string]float64{}
		}
		result, err = f.EvalUnsafe(vars)
	} else {
		result, err = f.Eval(vars)
	}
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

// readFormulaArg resolves the formula text from -e, a file argument,
// or returns an error if neither was given.
func readFormulaArg(args []string) (string, error) {
	if evalExpr != "" {
		return evalExpr, nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read file %s: %w", args[0], err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	return "", fmt.Errorf("either provide a file path or use -e/--eval for inline text")
}

// parseVarFlags turns repeated "name=value" flags into a binding map.
func parseVarFlags(flags []string) (map[string]float64, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	vars := make(map[string]float64, len(flags))
	for _, kv := range flags {
		name, valStr, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--var %q: expected name=value", kv)
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("--var %q: %w", kv, err)
		}
		vars[name] = val
	}
	return vars, nil
}

func dumpTokenStream(text string) error {
	seps := locale.Resolve(localeFlag)
	l := lexer.New(text, lexer.WithSeparators(seps))
	for {
		tok, err := l.NextToken()
		if err != nil {
			return err
		}
		fmt.Println(describeToken(tok))
		if tok.Kind == token.EOF {
			return nil
		}
	}
}

func describeToken(tok token.Token) string {
	if tok.Text == "" {
		return fmt.Sprintf("[%s]", tok.Kind)
	}
	return fmt.Sprintf("[%s] %q", tok.Kind, tok.Text)
}
