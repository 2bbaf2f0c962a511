package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/exprlang/cel/internal/types"
	"github.com/exprlang/cel/pkg/cel"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	skipStdin    bool
	typedArgs    []string
	boolMode     bool
	fmtSpec      string
	jsonDocument string
	jsonPackage  bool
	slurp        bool
	verbose      bool
	configPath   string
)

// exitCode is set by runEval for outcomes that aren't usage errors: 0 for
// success, 1 for a false boolean result or an evaluation error. Usage
// errors (bad flags, a malformed expression) are instead returned from
// RunE so cobra reports them and main exits 2.
var exitCode int

// ExitCode reports the process exit code runEval decided on, for main to
// use once Execute has returned without error.
func ExitCode() int { return exitCode }

var rootCmd = &cobra.Command{
	Use:   "cel <expression>",
	Short: "Evaluate a CEL expression",
	Long: `cel evaluates a Common Expression Language expression, optionally
against a JSON document read from stdin and/or typed variables bound on
the command line.

Examples:
  # Evaluate a literal expression
  cel "1 + 2 * 3"

  # Bind stdin as the variable "doc" (the default)
  echo '{"name": "cel"}' | cel "doc.name"

  # Bind a typed command-line variable
  cel -a "x:int=41" "x + 1"

  # Check a condition and use only the exit code
  cel -b -n "1 < 2"`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runEval,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file for logging setup")

	rootCmd.Flags().BoolVarP(&skipStdin, "no-stdin", "n", false, "do not read stdin as a JSON document")
	rootCmd.Flags().StringArrayVarP(&typedArgs, "arg", "a", nil, "bind a typed variable: name:type=value (repeatable)")
	rootCmd.Flags().BoolVarP(&boolMode, "bool", "b", false, "exit 0/1 on the boolean result, printing nothing")
	rootCmd.Flags().StringVarP(&fmtSpec, "format", "f", "", "printf-style format applied to the result")
	rootCmd.Flags().StringVar(&jsonDocument, "json-document", "doc", "bind stdin's JSON document to this variable name")
	rootCmd.Flags().BoolVar(&jsonPackage, "json-package", false, "expose stdin's top-level JSON object keys as variables")
	rootCmd.Flags().BoolVar(&slurp, "slurp", false, "concatenate all stdin lines into a single JSON document")

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging() error {
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	return loadConfig(configPath)
}

func runEval(_ *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	env := cel.NewEnv()
	prog, err := env.Compile(args[0])
	if err != nil {
		return err
	}

	baseVars := map[string]cel.Value{}
	for _, raw := range typedArgs {
		name, v, err := parseTypedArg(raw)
		if err != nil {
			return err
		}
		baseVars[name] = v
	}

	if skipStdin {
		return evalOnce(prog, cel.NewActivation(baseVars))
	}

	docs, err := readDocuments(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if len(docs) == 0 {
		return evalOnce(prog, cel.NewActivation(baseVars))
	}

	for _, doc := range docs {
		vars, err := bindDocument(doc, baseVars)
		if err != nil {
			return err
		}
		if err := evalOnce(prog, cel.NewActivation(vars)); err != nil {
			return err
		}
	}
	return nil
}

// readDocuments reads stdin and splits it into one or more JSON document
// strings. Without --slurp, stdin is treated as newline-delimited JSON:
// each non-blank line is evaluated independently. With --slurp, every line
// is concatenated into a single document before parsing.
func readDocuments(r io.Reader) ([]string, error) {
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 && r == os.Stdin {
		// Nothing is piped in; don't block waiting on an interactive terminal.
		return nil, nil
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	if slurp {
		return []string{strings.Join(lines, "")}, nil
	}
	return lines, nil
}

// bindDocument parses a JSON document and layers its bindings under
// baseVars, so an explicit -a argument always wins over a JSON-derived one.
func bindDocument(doc string, baseVars map[string]cel.Value) (map[string]cel.Value, error) {
	v, err := cel.FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON document: %w", err)
	}

	vars := map[string]cel.Value{}
	if jsonPackage {
		m, ok := v.(*types.Map)
		if !ok {
			return nil, fmt.Errorf("--json-package requires a top-level JSON object, got %s", v.Kind())
		}
		for _, e := range m.Entries {
			key, ok := e.Key.(types.String)
			if !ok {
				continue
			}
			vars[string(key)] = e.Value
		}
	} else {
		vars[jsonDocument] = v
	}
	for name, val := range baseVars {
		vars[name] = val
	}
	return vars, nil
}

// evalOnce evaluates prog against act, writes the result (or an error
// diagnostic), and records the final exit code. It only returns a non-nil
// error for conditions severe enough to be a usage error.
func evalOnce(prog *cel.Program, act *cel.Activation) error {
	result := prog.Eval(act)

	if boolMode {
		b, ok := result.(types.Bool)
		switch {
		case cel.IsError(result):
			logrus.Errorf("evaluation error: %s", result.Format())
			exitCode = 1
		case !ok:
			logrus.Errorf("-b requires a boolean result, got %s", result.Kind())
			exitCode = 1
		case !bool(b):
			exitCode = 1
		}
		return nil
	}

	if cel.IsError(result) {
		logrus.Errorf("evaluation error: %s", result.Format())
		exitCode = 1
		return nil
	}

	fmt.Println(formatResult(result))
	return nil
}

// formatResult renders result per -f's printf-style spec, or its plain
// diagnostic form when no format was requested.
func formatResult(result cel.Value) string {
	if fmtSpec == "" {
		return result.Format()
	}
	return fmt.Sprintf(fmtSpec, nativeValue(result))
}

// nativeValue unwraps a Value to the closest Go primitive so it plays
// nicely with printf verbs like %d, %f, and %s.
func nativeValue(v cel.Value) interface{} {
	switch x := v.(type) {
	case types.Int:
		return int64(x)
	case types.Uint:
		return uint64(x)
	case types.Double:
		return float64(x)
	case types.Bool:
		return bool(x)
	case types.String:
		return string(x)
	case types.Bytes:
		return []byte(x)
	default:
		return v.Format()
	}
}
