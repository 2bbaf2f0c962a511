// Package lexer tokenizes CEL source text into a stream of Tokens.
package lexer

import "fmt"

// Position identifies a location within a CEL source string.
type Position struct {
	Line   int // 1-indexed line number
	Column int // 1-indexed rune count from the start of the line
	Offset int // 0-indexed byte offset into the source
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
