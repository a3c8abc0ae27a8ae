// Package builtins implements the reserved-but-overridable function set
// spec.md §6 asks the engine to provide: min, max, abs, len, print, plus
// the supplemented str/num/type (see SPEC_FULL.md). It is grounded on the
// teacher repository's internal/interp builtinMin/builtinMax/builtinAbs/
// builtinPrint (per-function methods taking []Value, validating arity and
// operand kinds before computing), adapted to this engine's free function
// signature (spec.md's Handler-shaped `([]Value) -> (Value, error)`) and
// its five-variant Value instead of the teacher's per-numeric-kind Value
// hierarchy.
package builtins

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/evalctx"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/value"
)

// zeroPos is a placeholder position: a builtin has no source offset of
// its own, so the evaluator's call-site Wrap re-stamps the real one.
var zeroPos = lexer.Position{}

func arityErr(name string, want, got int) error {
	return errors.New(errors.Arity, zeroPos, "%s() expects %d argument(s), got %d", name, want, got)
}

func typeErr(format string, args ...any) error {
	return errors.New(errors.Type, zeroPos, format, args...)
}

// Min returns the smaller of two Numbers.
func Min(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, arityErr("min", 2, len(args))
	}
	a, b := args[0], args[1]
	if !a.IsNumber() || !b.IsNumber() {
		return value.Value{}, typeErr("min() expects two Numbers, got %s and %s", a.Kind(), b.Kind())
	}
	if a.AsNumber().Cmp(b.AsNumber()) <= 0 {
		return a, nil
	}
	return b, nil
}

// Max returns the larger of two Numbers.
func Max(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, arityErr("max", 2, len(args))
	}
	a, b := args[0], args[1]
	if !a.IsNumber() || !b.IsNumber() {
		return value.Value{}, typeErr("max() expects two Numbers, got %s and %s", a.Kind(), b.Kind())
	}
	if a.AsNumber().Cmp(b.AsNumber()) >= 0 {
		return a, nil
	}
	return b, nil
}

// Abs returns the absolute value of a Number.
func Abs(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, arityErr("abs", 1, len(args))
	}
	a := args[0]
	if !a.IsNumber() {
		return value.Value{}, typeErr("abs() expects a Number, got %s", a.Kind())
	}
	if a.AsNumber().Sign() >= 0 {
		return a, nil
	}
	return value.NewNumberFromBig(new(big.Float).SetPrec(256).Neg(a.AsNumber())), nil
}

// Len returns the String/List/Map length as a Number.
func Len(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, arityErr("len", 1, len(args))
	}
	switch a := args[0]; a.Kind() {
	case value.KindString:
		return value.NewNumberFromInt64(int64(len([]rune(a.AsString())))), nil
	case value.KindList:
		return value.NewNumberFromInt64(int64(len(a.AsList()))), nil
	case value.KindMap:
		return value.NewNumberFromInt64(int64(a.AsMap().Len())), nil
	default:
		return value.Value{}, typeErr("len() expects a String, List, or Map, got %s", a.Kind())
	}
}

// Writer is where Print sends its output; NewPrint binds a Print
// function against a specific writer (the CLI driver points this at
// stdout, tests point it at a buffer).
type Writer = io.Writer

// NewPrint returns a print builtin (spec.md §6: "side-effect, returns
// None") that writes each argument's display String, space-separated,
// followed by a newline, to w.
func NewPrint(w Writer) func(args []value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, a.String())
		}
		fmt.Fprintln(w)
		return value.None, nil
	}
}

// Print is the default print builtin, writing to os.Stdout.
var Print = NewPrint(os.Stdout)

// Str converts any Value to its display String (the supplemented `str`
// builtin, SPEC_FULL.md).
func Str(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, arityErr("str", 1, len(args))
	}
	return value.NewString(args[0].String()), nil
}

// Num parses a String into a Number, or passes a Number through
// unchanged (the supplemented `num` builtin, SPEC_FULL.md).
func Num(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, arityErr("num", 1, len(args))
	}
	a := args[0]
	if a.IsNumber() {
		return a, nil
	}
	if !a.IsString() {
		return value.Value{}, typeErr("num() expects a String or Number, got %s", a.Kind())
	}
	n, err := value.NewNumberFromString(a.AsString())
	if err != nil {
		return value.Value{}, typeErr("num(): %s", err.Error())
	}
	return n, nil
}

// Type returns a Value's Kind name as a String (the supplemented `type`
// builtin, SPEC_FULL.md).
func Type(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, arityErr("type", 1, len(args))
	}
	return value.NewString(args[0].Kind().String()), nil
}

// Register binds every baseline builtin into ctx under its reserved
// name; each remains overridable by a later BindFunction call (spec.md
// §6: "names reserved, overridable via registration").
func Register(ctx *evalctx.Context) {
	ctx.BindFunction("min", Min)
	ctx.BindFunction("max", Max)
	ctx.BindFunction("abs", Abs)
	ctx.BindFunction("len", Len)
	ctx.BindFunction("print", Print)
	ctx.BindFunction("str", Str)
	ctx.BindFunction("num", Num)
	ctx.BindFunction("type", Type)
}
