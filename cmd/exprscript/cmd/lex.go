package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos  bool
	lexShowKind bool
	lexInline   string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an expression and print the resulting tokens",
	Long: `Tokenize (lex) expression source text and print the resulting token
stream, one token per line.

Examples:
  # Tokenize a file
  exprscript lex script.expr

  # Tokenize an inline expression
  exprscript lex -e "a + b * 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	lexCmd.Flags().StringVarP(&lexInline, "eval", "e", "", "inline expression instead of a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "print each token's line:column")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-kind", false, "print each token's kind name")
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	source, err := readSource(args, lexInline)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	for {
		tok, lexErr := l.NextToken()
		if lexErr != nil {
			fmt.Fprintf(os.Stderr, "lex error at %d:%d: %s\n", lexErr.Pos.Line, lexErr.Pos.Column, lexErr.Message)
			return fmt.Errorf("lex failed")
		}

		line := tok.String()
		if lexShowKind && tok.Literal != "" {
			line = fmt.Sprintf("%s %s", tok.Kind, line)
		}
		if lexShowPos {
			line = fmt.Sprintf("%d:%d\t%s", tok.Pos.Line, tok.Pos.Column, line)
		}
		fmt.Println(line)

		if tok.Kind == lexer.EOF {
			break
		}
	}
	return nil
}
