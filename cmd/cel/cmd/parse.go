package cmd

import (
	"fmt"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/parser"
	"github.com/exprlang/cel/pkg/celprint"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <expression>",
	Short: "Parse a CEL expression and print its canonical form or AST",
	Long: `Parse a CEL expression and either reprint it in canonical form
(the default) or, with --dump-ast, show the parsed expression tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the parsed expression tree")
}

func runParse(_ *cobra.Command, args []string) error {
	expr, errs := parser.Parse(args[0])
	if errs != nil {
		for _, se := range errs.Errors {
			fmt.Printf("  %s: %s\n", se.Pos, se.Message)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs.Errors))
	}
	if parseDumpAST {
		dumpExpr(expr, 0)
		return nil
	}
	fmt.Println(celprint.Print(expr))
	return nil
}

func dumpExpr(e ast.Expr, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}
	switch n := e.(type) {
	case *ast.Literal:
		fmt.Printf("%sLiteral: %s\n", pad, n.Value.Format())
	case *ast.Ident:
		fmt.Printf("%sIdent: %s\n", pad, n.Name)
	case *ast.Select:
		fmt.Printf("%sSelect: .%s (testOnly=%v)\n", pad, n.Field, n.TestOnly)
		dumpExpr(n.Receiver, indent+1)
	case *ast.Call:
		if n.Target != nil {
			fmt.Printf("%sCall: %s (method)\n", pad, n.Function)
			dumpExpr(n.Target, indent+1)
		} else {
			fmt.Printf("%sCall: %s\n", pad, n.Function)
		}
		for _, a := range n.Args {
			dumpExpr(a, indent+1)
		}
	case *ast.ListExpr:
		fmt.Printf("%sList (%d elems)\n", pad, len(n.Elems))
		for _, el := range n.Elems {
			dumpExpr(el, indent+1)
		}
	case *ast.MapExpr:
		fmt.Printf("%sMap (%d entries)\n", pad, len(n.Entries))
		for _, en := range n.Entries {
			dumpExpr(en.Key, indent+1)
			dumpExpr(en.Value, indent+1)
		}
	case *ast.StructExpr:
		fmt.Printf("%sStruct: %s (%d fields)\n", pad, n.TypeName, len(n.Fields))
		for _, f := range n.Fields {
			fmt.Printf("%s  %s:\n", pad, f.Name)
			dumpExpr(f.Value, indent+2)
		}
	case *ast.Ternary:
		fmt.Printf("%sTernary\n", pad)
		dumpExpr(n.Cond, indent+1)
		dumpExpr(n.Then, indent+1)
		dumpExpr(n.Else, indent+1)
	case *ast.Comprehension:
		fmt.Printf("%sComprehension: iter=%s accu=%s\n", pad, n.IterVar, n.AccuVar)
		dumpExpr(n.IterRange, indent+1)
		dumpExpr(n.Result, indent+1)
	default:
		fmt.Printf("%s%T\n", pad, e)
	}
}
