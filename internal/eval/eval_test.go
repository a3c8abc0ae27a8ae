package eval

import (
	"testing"

	"github.com/cwbudde/exprscript/internal/evalctx"
	"github.com/cwbudde/exprscript/internal/parser"
	"github.com/cwbudde/exprscript/internal/value"
)

func run(t *testing.T, src string, ctx *evalctx.Context) value.Value {
	t.Helper()
	if ctx == nil {
		ctx = evalctx.New()
	}
	node, err := parser.Parse(src, ctx.Table())
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	v, err := Eval(node, ctx)
	if err != nil {
		t.Fatalf("eval(%q): %v", src, err)
	}
	return v
}

func num(t *testing.T, lexeme string) value.Value {
	t.Helper()
	v, err := value.NewNumberFromString(lexeme)
	if err != nil {
		t.Fatalf("NewNumberFromString(%q): %v", lexeme, err)
	}
	return v
}

func TestCompoundAssignmentScenario(t *testing.T) {
	ctx := evalctx.New()
	ctx.BindFunction("f", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(3), nil
	})
	got := run(t, "c = 5+3; c += 10+f; c", ctx)
	if !got.Equal(num(t, "21")) {
		t.Fatalf("got %v, want 21", got)
	}
}

func TestArithmeticWithVariable(t *testing.T) {
	ctx := evalctx.New()
	ctx.BindVariable("mm", num(t, "0.2"))
	got := run(t, "(3+4)*5 + mm*2", ctx)
	if !got.Equal(num(t, "35.4")) {
		t.Fatalf("got %v, want 35.4", got)
	}
}

func TestTernaryScenario(t *testing.T) {
	ctx := evalctx.New()
	ctx.BindVariable("a", num(t, "5"))
	got := run(t, "a > 3 ? 'big' : 'small'", ctx)
	if got.AsString() != "big" {
		t.Fatalf("got %q, want big", got.AsString())
	}
}

func TestBeginWithScenario(t *testing.T) {
	got := run(t, "'hello' beginWith 'he'", nil)
	if !got.AsBool() {
		t.Fatal("expected true")
	}
}

func TestListConcatScenario(t *testing.T) {
	got := run(t, "[1,2,3] + [4]", nil)
	want := value.NewList([]value.Value{num(t, "1"), num(t, "2"), num(t, "3"), num(t, "4")})
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMapIndexScenario(t *testing.T) {
	got := run(t, "{'k': 1+2}['k']", nil)
	if !got.Equal(num(t, "3")) {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestDivisionByZeroIsArithmeticError(t *testing.T) {
	ctx := evalctx.New()
	node, err := parser.Parse("1 / 0", ctx.Table())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Eval(node, ctx)
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestNotAndShortCircuitScenario(t *testing.T) {
	got := run(t, "not (2 > 3) && true", nil)
	if !got.AsBool() {
		t.Fatal("expected true")
	}
}

func TestShortCircuitAndDoesNotCallRight(t *testing.T) {
	ctx := evalctx.New()
	called := false
	ctx.BindFunction("f", func(args []value.Value) (value.Value, error) {
		called = true
		return value.NewBool(true), nil
	})
	got := run(t, "false && f()", ctx)
	if called {
		t.Fatal("f should not have been called")
	}
	if got.Truthy() {
		t.Fatal("expected falsey result")
	}
}

func TestShortCircuitOrDoesNotCallRight(t *testing.T) {
	ctx := evalctx.New()
	called := false
	ctx.BindFunction("f", func(args []value.Value) (value.Value, error) {
		called = true
		return value.NewBool(false), nil
	})
	got := run(t, "true || f()", ctx)
	if called {
		t.Fatal("f should not have been called")
	}
	if !got.Truthy() {
		t.Fatal("expected truthy result")
	}
}

func TestShortCircuitReturnsDecidingOperand(t *testing.T) {
	got := run(t, "0 || 'x'", nil)
	if got.AsString() != "x" {
		t.Fatalf("got %v, want the deciding operand 'x'", got)
	}
}

func TestCallArgumentOrder(t *testing.T) {
	ctx := evalctx.New()
	var order []string
	ctx.BindFunction("g", func(args []value.Value) (value.Value, error) {
		order = append(order, "g")
		return value.NewNumberFromInt64(1), nil
	})
	ctx.BindFunction("h", func(args []value.Value) (value.Value, error) {
		order = append(order, "h")
		return value.NewNumberFromInt64(2), nil
	})
	ctx.BindFunction("f", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(0), nil
	})
	run(t, "f(g(), h())", ctx)
	if len(order) != 2 || order[0] != "g" || order[1] != "h" {
		t.Fatalf("got call order %v, want [g h]", order)
	}
}

func TestNoneEqualityScenario(t *testing.T) {
	got := run(t, "None == None", nil)
	if !got.AsBool() {
		t.Fatal("None == None should be true")
	}
	got = run(t, "None == 0", nil)
	if got.AsBool() {
		t.Fatal("None == 0 should be false")
	}
}

func TestUndefinedVariableFails(t *testing.T) {
	ctx := evalctx.New()
	node, err := parser.Parse("x + 1", ctx.Table())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Eval(node, ctx)
	if err == nil {
		t.Fatal("expected Resolve error for undefined variable")
	}
}

func TestListIndexOutOfRangeFails(t *testing.T) {
	node, err := parser.Parse("[1,2][5]", evalctx.New().Table())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = Eval(node, evalctx.New())
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestMapMissingKeyReturnsNone(t *testing.T) {
	got := run(t, "{'k': 1}['missing']", nil)
	if !got.IsNone() {
		t.Fatalf("got %v, want None", got)
	}
}

func TestReferenceToZeroArgFunction(t *testing.T) {
	ctx := evalctx.New()
	ctx.BindFunction("answer", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(42), nil
	})
	got := run(t, "answer", ctx)
	if !got.Equal(num(t, "42")) {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestOperatorRedirection(t *testing.T) {
	ctx := evalctx.New()
	if err := ctx.RedirectOperator("+", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(100), nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := run(t, "1 + 2", ctx)
	if !got.Equal(num(t, "100")) {
		t.Fatalf("redirect not applied: got %v", got)
	}
}
