// Package celprint renders an internal/ast tree back to canonical CEL
// source text. It is the printer half of the parse/print round trip used
// to check that re-parsing a printed expression yields an equivalent AST
// (spec §8). A has() test (a TestOnly Select) prints back as has(...), but
// the AST doesn't retain which macro a Comprehension came from, so the
// all/exists/exists_one/filter/map macros print in their lowered
// __comprehension__ form instead, the same tradeoff cel-go's own unparser
// makes for nodes it doesn't specifically recognize.
package celprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/types"
)

type precedence int

const (
	precLowest precedence = iota
	precTernary
	precOr
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

type opInfo struct {
	symbol string
	prec   precedence
}

var binaryOps = map[string]opInfo{
	"_||_": {"||", precOr},
	"_&&_": {"&&", precAnd},
	"_==_": {"==", precRelational},
	"_!=_": {"!=", precRelational},
	"_<_":  {"<", precRelational},
	"_<=_": {"<=", precRelational},
	"_>_":  {">", precRelational},
	"_>=_": {">=", precRelational},
	"@in":  {"in", precRelational},
	"_+_":  {"+", precAdditive},
	"_-_":  {"-", precAdditive},
	"_*_":  {"*", precMultiplicative},
	"_/_":  {"/", precMultiplicative},
	"_%_":  {"%", precMultiplicative},
}

var unaryOps = map[string]string{
	"-_": "-",
	"!_": "!",
}

// Print renders e as canonical CEL source with the minimal parenthesization
// needed to reparse to an AST equivalent to e.
func Print(e ast.Expr) string {
	var sb strings.Builder
	printExpr(&sb, e, precLowest)
	return sb.String()
}

func printExpr(sb *strings.Builder, e ast.Expr, minPrec precedence) {
	if needsParens(e, minPrec) {
		sb.WriteByte('(')
		printNode(sb, e)
		sb.WriteByte(')')
		return
	}
	printNode(sb, e)
}

// needsParens reports whether e must be wrapped to be reparsed correctly
// when it appears where a minimum precedence of minPrec is required.
func needsParens(e ast.Expr, minPrec precedence) bool {
	return precedenceOf(e) < minPrec
}

func precedenceOf(e ast.Expr) precedence {
	switch n := e.(type) {
	case *ast.Ternary:
		return precTernary
	case *ast.Call:
		if info, ok := binaryOps[n.Function]; ok {
			return info.prec
		}
		if _, ok := unaryOps[n.Function]; ok {
			return precUnary
		}
		if n.Function == "_[_]" {
			return precPostfix
		}
		return precPrimary
	default:
		return precPrimary
	}
}

func printNode(sb *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		sb.WriteString(printLiteral(n.Value))
	case *ast.Ident:
		sb.WriteString(n.Name)
	case *ast.Select:
		printSelect(sb, n)
	case *ast.Call:
		printCall(sb, n)
	case *ast.ListExpr:
		printList(sb, n)
	case *ast.MapExpr:
		printMap(sb, n)
	case *ast.StructExpr:
		printStruct(sb, n)
	case *ast.Ternary:
		printTernary(sb, n)
	case *ast.Comprehension:
		printComprehension(sb, n)
	default:
		fmt.Fprintf(sb, "<unprintable %T>", e)
	}
}

func printSelect(sb *strings.Builder, n *ast.Select) {
	if n.TestOnly {
		sb.WriteString("has(")
		printExpr(sb, n.Receiver, precPostfix)
		sb.WriteByte('.')
		sb.WriteString(n.Field)
		sb.WriteByte(')')
		return
	}
	printExpr(sb, n.Receiver, precPostfix)
	sb.WriteByte('.')
	sb.WriteString(n.Field)
}

func printCall(sb *strings.Builder, n *ast.Call) {
	if info, ok := binaryOps[n.Function]; ok {
		printExpr(sb, n.Args[0], info.prec)
		sb.WriteByte(' ')
		sb.WriteString(info.symbol)
		sb.WriteByte(' ')
		printExpr(sb, n.Args[1], info.prec+1)
		return
	}
	if symbol, ok := unaryOps[n.Function]; ok {
		sb.WriteString(symbol)
		operand := n.Args[0]
		if symbol == "-" {
			if c, ok := operand.(*ast.Call); ok && c.Function == "-_" {
				sb.WriteByte(' ')
			}
		}
		printExpr(sb, operand, precUnary)
		return
	}
	if n.Function == "_[_]" {
		printExpr(sb, n.Args[0], precPostfix)
		sb.WriteByte('[')
		printExpr(sb, n.Args[1], precLowest)
		sb.WriteByte(']')
		return
	}

	if n.Target != nil {
		printExpr(sb, n.Target, precPostfix)
		sb.WriteByte('.')
	}
	sb.WriteString(n.Function)
	sb.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		printExpr(sb, a, precLowest)
	}
	sb.WriteByte(')')
}

func printList(sb *strings.Builder, n *ast.ListExpr) {
	sb.WriteByte('[')
	for i, el := range n.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		printExpr(sb, el, precLowest)
	}
	sb.WriteByte(']')
}

func printMap(sb *strings.Builder, n *ast.MapExpr) {
	sb.WriteByte('{')
	for i, en := range n.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		printExpr(sb, en.Key, precLowest)
		sb.WriteString(": ")
		printExpr(sb, en.Value, precLowest)
	}
	sb.WriteByte('}')
}

func printStruct(sb *strings.Builder, n *ast.StructExpr) {
	sb.WriteString(n.TypeName)
	sb.WriteByte('{')
	for i, f := range n.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		printExpr(sb, f.Value, precLowest)
	}
	sb.WriteByte('}')
}

// printTernary follows the grammar's own restriction: the then-branch is a
// binary chain only (a bare nested ternary there must be parenthesized),
// while the else-branch recurses freely (spec §4.1's right-associativity).
func printTernary(sb *strings.Builder, n *ast.Ternary) {
	printExpr(sb, n.Cond, precTernary+1)
	sb.WriteString(" ? ")
	printExpr(sb, n.Then, precTernary+1)
	sb.WriteString(" : ")
	printExpr(sb, n.Else, precTernary)
}

// printComprehension renders the canonical lowered shape every macro
// compiles to, since the AST no longer remembers which surface macro (if
// any) produced it.
func printComprehension(sb *strings.Builder, n *ast.Comprehension) {
	sb.WriteString("__comprehension__(")
	sb.WriteString(n.IterVar)
	sb.WriteString(", ")
	printExpr(sb, n.IterRange, precLowest)
	sb.WriteString(", ")
	sb.WriteString(n.AccuVar)
	sb.WriteString(", ")
	printExpr(sb, n.AccuInit, precLowest)
	sb.WriteString(", ")
	printExpr(sb, n.LoopCond, precLowest)
	sb.WriteString(", ")
	printExpr(sb, n.LoopStep, precLowest)
	sb.WriteString(", ")
	printExpr(sb, n.Result, precLowest)
	sb.WriteByte(')')
}

// printLiteral renders a constant Value as a re-parseable CEL literal. It
// does not reuse Value.Format, which is meant for diagnostic display (e.g.
// unescaped string contents) rather than source output.
func printLiteral(v types.Value) string {
	switch x := v.(type) {
	case types.Null:
		return "null"
	case types.Bool:
		if x {
			return "true"
		}
		return "false"
	case types.Int:
		return strconv.FormatInt(int64(x), 10)
	case types.Uint:
		return strconv.FormatUint(uint64(x), 10) + "u"
	case types.Double:
		return formatDouble(float64(x))
	case types.String:
		return quoteString(string(x))
	case types.Bytes:
		return "b" + quoteBytes([]byte(x))
	case types.Duration:
		return fmt.Sprintf("duration(%s)", quoteString(x.Format()))
	case types.Timestamp:
		return fmt.Sprintf("timestamp(%s)", quoteString(x.Format()))
	default:
		return fmt.Sprintf("<unprintable literal %T>", v)
	}
}

// formatDouble always keeps a fractional marker so the literal reparses as
// a double rather than an int.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

func quoteBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c >= 0x20 && c < 0x7f {
				sb.WriteByte(c)
			} else {
				fmt.Fprintf(&sb, `\x%02x`, c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
