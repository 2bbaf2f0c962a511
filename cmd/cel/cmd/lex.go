package cmd

import (
	"fmt"

	"github.com/exprlang/cel/internal/lexer"
	"github.com/spf13/cobra"
)

var lexShowPos bool

var lexCmd = &cobra.Command{
	Use:   "lex <expression>",
	Short: "Tokenize a CEL expression and print the resulting tokens",
	Long: `Tokenize (lex) a CEL expression and print the token stream.

This is a debugging aid for inspecting how source text is lexed; it does
not parse or evaluate the expression.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's line:column position")
}

func runLex(_ *cobra.Command, args []string) error {
	l := lexer.New(args[0])
	illegal := 0
	for {
		tok := l.NextToken()
		line := fmt.Sprintf("[%-10s]", tok.Type)
		if tok.Literal != "" {
			line += fmt.Sprintf(" %q", tok.Literal)
		}
		if lexShowPos {
			line += fmt.Sprintf(" @%s", tok.Pos)
		}
		fmt.Println(line)
		if tok.Type == lexer.ILLEGAL {
			illegal++
		}
		if tok.Type == lexer.EOF {
			break
		}
	}
	if illegal > 0 {
		return fmt.Errorf("found %d illegal token(s)", illegal)
	}
	return nil
}
