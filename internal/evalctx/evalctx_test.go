package evalctx

import (
	"testing"

	"github.com/cwbudde/exprscript/internal/value"
)

func TestBindAndLookupVariable(t *testing.T) {
	c := New()
	c.BindVariable("x", value.NewNumberFromInt64(5))
	v, ok := c.LookupVariable("x")
	if !ok || !v.Equal(value.NewNumberFromInt64(5)) {
		t.Fatalf("got %v, ok=%v", v, ok)
	}
}

func TestUnbindVariable(t *testing.T) {
	c := New()
	c.BindVariable("x", value.NewNumberFromInt64(1))
	c.UnbindVariable("x")
	if _, ok := c.LookupVariable("x"); ok {
		t.Fatal("expected x to be unbound")
	}
}

func TestBindAndLookupFunction(t *testing.T) {
	c := New()
	c.BindFunction("three", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(3), nil
	})
	fn, ok := c.LookupFunction("three")
	if !ok {
		t.Fatal("expected three to be bound")
	}
	got, err := fn(nil)
	if err != nil || !got.Equal(value.NewNumberFromInt64(3)) {
		t.Fatalf("got %v, err=%v", got, err)
	}
}

func TestNewFromBindings(t *testing.T) {
	c := NewFromBindings(
		VarBinding("a", value.NewNumberFromInt64(1)),
		FuncBinding("f", func(args []value.Value) (value.Value, error) {
			return value.NewNumberFromInt64(3), nil
		}),
	)
	if _, ok := c.LookupVariable("a"); !ok {
		t.Fatal("expected a bound")
	}
	if _, ok := c.LookupFunction("f"); !ok {
		t.Fatal("expected f bound")
	}
}

func TestSharedTableRedirectionVisibleAcrossContexts(t *testing.T) {
	a := New()
	b := NewWithTable(a.Table())

	err := a.RedirectOperator("+", func(args []value.Value) (value.Value, error) {
		return value.NewNumberFromInt64(99), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := b.Table().InvokeBinary("+", value.NewNumberFromInt64(1), value.NewNumberFromInt64(2))
	if err != nil || !got.Equal(value.NewNumberFromInt64(99)) {
		t.Fatalf("redirect did not propagate to shared table: got %v, err=%v", got, err)
	}
}
