// Package errors renders CEL parse errors with a line of source context and
// a caret, in the style of the teacher's compiler error formatter.
package errors

import (
	"fmt"
	"strings"

	"github.com/exprlang/cel/internal/lexer"
)

// SyntaxError is a single parse failure, carrying enough position
// information to render a one-line source excerpt (spec §4.1).
type SyntaxError struct {
	Message string
	Source  string
	Pos     lexer.Position
}

func NewSyntaxError(pos lexer.Position, message, source string) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: message, Source: source}
}

func (e *SyntaxError) Error() string { return e.Format() }

// Format renders "Syntax error at L:C\n<numbered source line>\n<caret>\n<message>".
func (e *SyntaxError) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Syntax error at %d:%d\n", e.Pos.Line, e.Pos.Column)

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteByte('\n')
		col := e.Pos.Column - 1
		if col < 0 {
			col = 0
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func (e *SyntaxError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// ParseErrors aggregates every SyntaxError encountered while parsing one
// source string, matching the teacher's accumulate-don't-stop pattern.
type ParseErrors struct {
	Errors []*SyntaxError
}

func (p *ParseErrors) Add(pos lexer.Position, message, source string) {
	p.Errors = append(p.Errors, NewSyntaxError(pos, message, source))
}

func (p *ParseErrors) HasErrors() bool { return len(p.Errors) > 0 }

func (p *ParseErrors) Error() string {
	parts := make([]string, len(p.Errors))
	for i, e := range p.Errors {
		parts[i] = e.Format()
	}
	return strings.Join(parts, "\n\n")
}
