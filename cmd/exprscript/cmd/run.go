package cmd

import (
	"errors"
	"fmt"
	"os"

	exprscript "github.com/cwbudde/exprscript"
	engerrors "github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	runInline     string
	runVarsJSON   string
	runVarsYAML   string
	runResultJSON bool
	runTrace      bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and execute an expression",
	Long: `Compile and evaluate an expression (from a file, stdin, or an
inline -e flag) and print the resulting value.

Context variables can be seeded from a JSON or YAML document of
name -> value pairs with --vars-json/--vars-yaml; the result can be
re-encoded as JSON with --result-json instead of the engine's own
display form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runInline, "eval", "e", "", "inline expression instead of a file")
	runCmd.Flags().StringVar(&runVarsJSON, "vars-json", "", "seed context variables from a JSON object file")
	runCmd.Flags().StringVar(&runVarsYAML, "vars-yaml", "", "seed context variables from a YAML document file")
	runCmd.Flags().BoolVar(&runResultJSON, "result-json", false, "print the result re-encoded as JSON instead of its display form")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print each evaluated node's kind and result")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	source, err := readSource(args, runInline)
	if err != nil {
		return err
	}

	ctx := exprscript.NewContext()

	if runVarsJSON != "" {
		data, err := os.ReadFile(runVarsJSON)
		if err != nil {
			return fmt.Errorf("reading %s: %w", runVarsJSON, err)
		}
		parsed := gjson.ParseBytes(data)
		if !parsed.IsObject() {
			return fmt.Errorf("%s: expected a JSON object at the top level", runVarsJSON)
		}
		var convErr error
		parsed.ForEach(func(key, val gjson.Result) bool {
			v, err := fromGJSON(val)
			if err != nil {
				convErr = fmt.Errorf("variable %q: %w", key.String(), err)
				return false
			}
			ctx.BindVariable(key.String(), v)
			return true
		})
		if convErr != nil {
			return convErr
		}
	}

	if runVarsYAML != "" {
		data, err := os.ReadFile(runVarsYAML)
		if err != nil {
			return fmt.Errorf("reading %s: %w", runVarsYAML, err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("decoding %s: %w", runVarsYAML, err)
		}
		for name, raw := range decoded {
			v, err := fromAny(raw)
			if err != nil {
				return fmt.Errorf("variable %q: %w", name, err)
			}
			ctx.BindVariable(name, v)
		}
	}

	node, err := exprscript.Compile(source, ctx.Table())
	if err != nil {
		return reportEngineError(err, "compile")
	}

	if runTrace {
		ctx.SetTracer(func(kind string, pos lexer.Position, v exprscript.Value) {
			fmt.Fprintf(os.Stderr, "trace: %s@%d:%d -> %s\n", kind, pos.Line, pos.Column, v.String())
		})
	}

	result, err := exprscript.ExecuteAST(node, ctx)
	if err != nil {
		return reportEngineError(err, "run")
	}

	if runResultJSON {
		out, err := sjson.Set("{}", "value", toNative(result))
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(result.String())
	return nil
}

func reportEngineError(err error, stage string) error {
	var engErr *engerrors.EngineError
	if errors.As(err, &engErr) {
		fmt.Fprintln(os.Stderr, engErr.Format())
		return fmt.Errorf("%s failed", stage)
	}
	return fmt.Errorf("%s: %w", stage, err)
}
