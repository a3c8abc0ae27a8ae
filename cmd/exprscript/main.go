// Command exprscript is the CLI driver for the expression engine: it
// tokenizes, parses, and evaluates expression text read from a file,
// stdin, or an inline -e flag.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/exprscript/cmd/exprscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
