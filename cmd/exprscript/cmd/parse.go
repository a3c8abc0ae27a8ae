package cmd

import (
	"errors"
	"fmt"
	"os"

	engerrors "github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/operator"
	"github.com/cwbudde/exprscript/internal/parser"
	"github.com/spf13/cobra"
)

var parseInline string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse expression source and print the AST",
	Long: `Parse expression source code and display the compiled abstract
syntax tree using its debug string form.

If no file is provided, reads from stdin. Use -e to parse a single
expression given on the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseInline, "eval", "e", "", "inline expression instead of a file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readSource(args, parseInline)
	if err != nil {
		return err
	}

	node, err := parser.Parse(source, operator.NewTable())
	if err != nil {
		var engErr *engerrors.EngineError
		if errors.As(err, &engErr) {
			fmt.Fprintln(os.Stderr, engErr.Format())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("parse failed")
	}

	fmt.Println(node.String())
	return nil
}
