// Package cmd implements the exprscript CLI, grounded on the teacher
// repository's cmd/dwscript/cmd package: a cobra root command with
// package-level flag variables, an init() wiring step per subcommand, and
// RunE handlers that read either a file argument or an inline -e
// expression (spec.md §4.7's compile/execute façade, exposed as a
// command-line driver per SPEC_FULL.md's Ambient Stack).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "exprscript",
	Short: "Embeddable expression engine CLI",
	Long: `exprscript compiles and evaluates short textual expressions
(arithmetic, logical, string, collection, conditional, function-call,
assignment, and sequencing) against a host-supplied context of variables
and functions.

This command line tool wraps the engine's lex/parse/eval pipeline for
debugging and for one-shot evaluation of expressions from a file, stdin,
or an inline -e flag.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
