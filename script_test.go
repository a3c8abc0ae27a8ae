package exprscript

import (
	"testing"

	"github.com/cwbudde/exprscript/internal/value"
)

func num(t *testing.T, lexeme string) Value {
	t.Helper()
	v, err := value.NewNumberFromString(lexeme)
	if err != nil {
		t.Fatalf("num(%q): %v", lexeme, err)
	}
	return v
}

func TestExecuteScenario1CompoundAssignment(t *testing.T) {
	ctx := NewContextWith(Fn("f", func(args []Value) (Value, error) {
		return num(t, "3"), nil
	}))
	got, err := Execute("c = 5+3; c += 10+f; c", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(num(t, "21")) {
		t.Fatalf("got %v, want 21", got)
	}
}

func TestExecuteScenario2Arithmetic(t *testing.T) {
	ctx := NewContextWith(Var("mm", num(t, "0.2")))
	got, err := Execute("(3+4)*5 + mm*2", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(num(t, "35.4")) {
		t.Fatalf("got %v, want 35.4", got)
	}
}

func TestExecuteScenario3Ternary(t *testing.T) {
	ctx := NewContextWith(Var("a", num(t, "5")))
	got, err := Execute("a > 3 ? 'big' : 'small'", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "big" {
		t.Fatalf("got %q, want big", got.AsString())
	}
}

func TestExecuteScenario7DivisionByZero(t *testing.T) {
	_, err := Execute("1 / 0", NewContext())
	if err == nil {
		t.Fatal("expected Arithmetic error")
	}
}

func TestCompileThenExecuteASTReusesCompiledTree(t *testing.T) {
	ctx := NewContext()
	node, err := Compile("1 + 2", ctx.Table())
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	got, err := ExecuteAST(node, ctx)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if !got.Equal(num(t, "3")) {
		t.Fatalf("got %v, want 3", got)
	}

	// The same compiled AST can be reused against a second context.
	ctx2 := NewContext()
	got2, err := ExecuteAST(node, ctx2)
	if err != nil || !got2.Equal(got) {
		t.Fatalf("got %v, err=%v, want %v reused across contexts", got2, err, got)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	table := NewContext().Table()
	a, err := Compile("a + b * 2", table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compile("a + b * 2", table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("compile not idempotent: %s vs %s", a, b)
	}
}

func TestBaselineBuiltinsRegistered(t *testing.T) {
	got, err := Execute("len('hello')", NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(num(t, "5")) {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestBindingOverridesBuiltin(t *testing.T) {
	ctx := NewContextWith(Fn("len", func(args []Value) (Value, error) {
		return num(t, "-1"), nil
	}))
	got, err := Execute("len('hello')", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(num(t, "-1")) {
		t.Fatalf("override did not take effect: got %v", got)
	}
}
