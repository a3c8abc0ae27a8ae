package cmd

import (
	"fmt"
	"io"
	"os"
)

// readSource resolves the expression text a subcommand should operate on:
// the inline flag if given, else the named file, else stdin. Mirrors the
// teacher's run.go/parse.go convention of accepting either a file argument
// or an -e expression.
func readSource(args []string, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
