package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it, mirroring the teacher's fixture_test.go
// approach of capturing program output for snapshot comparison.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return buf.String()
}

func resetRunFlags() {
	runInline = ""
	runVarsJSON = ""
	runVarsYAML = ""
	runResultJSON = false
	runTrace = false
}

func TestRunCommandGolden(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		args  []string
	}{
		{
			name: "arithmetic",
			args: []string{"(3+4)*5"},
		},
		{
			name: "ternary string",
			args: []string{"5 > 3 ? 'big' : 'small'"},
		},
		{
			name: "list concat",
			args: []string{"[1,2,3] + [4]"},
		},
		{
			name: "result as json",
			setup: func() { runResultJSON = true },
			args:  []string{"{'k': 1+2}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRunFlags()
			runInline = tt.args[0]
			if tt.setup != nil {
				tt.setup()
			}

			out := captureStdout(t, func() {
				if err := runRun(runCmd, nil); err != nil {
					t.Fatalf("runRun: %v", err)
				}
			})

			snaps.MatchSnapshot(t, out)
		})
	}
}

func TestLexCommandGolden(t *testing.T) {
	resetLexFlags := func() {
		lexInline = ""
		lexShowPos = false
		lexShowKind = false
	}
	resetLexFlags()
	lexInline = "a + 1 >= 2"

	out := captureStdout(t, func() {
		if err := runLex(lexCmd, nil); err != nil {
			t.Fatalf("runLex: %v", err)
		}
	})

	snaps.MatchSnapshot(t, out)
}

func TestParseCommandGolden(t *testing.T) {
	parseInline = "a = 1 + 2 * 3"

	out := captureStdout(t, func() {
		if err := runParse(parseCmd, nil); err != nil {
			t.Fatalf("runParse: %v", err)
		}
	})

	snaps.MatchSnapshot(t, out)
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
