package cmd

import (
	"fmt"

	"github.com/exprlang/cel/internal/parser"
	"github.com/exprlang/cel/pkg/celprint"
	"github.com/spf13/cobra"
)

var fmtCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <expression>",
	Short: "Reformat a CEL expression into its canonical form",
	Long: `fmt parses a CEL expression and reprints it with the minimal
parenthesization and spacing the parser itself would produce, the same
transform the parse/print round trip relies on.

With --check, fmt reports whether the expression is already canonical
instead of printing it, exiting 1 if reformatting would change it.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "report whether the expression is already canonical")
}

func runFmt(_ *cobra.Command, args []string) error {
	expr, errs := parser.Parse(args[0])
	if errs != nil {
		return fmt.Errorf("parsing failed with %d error(s)", len(errs.Errors))
	}
	canonical := celprint.Print(expr)

	if fmtCheck {
		if canonical != args[0] {
			exitCode = 1
			return nil
		}
		return nil
	}
	fmt.Println(canonical)
	return nil
}
