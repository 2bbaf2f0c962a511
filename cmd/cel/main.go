// Command cel evaluates a CEL expression from the command line, optionally
// against a JSON document read from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/exprlang/cel/cmd/cel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(cmd.ExitCode())
}
