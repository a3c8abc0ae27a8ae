// Package operator implements the engine's operator registry: the table
// mapping a symbol or word operator to its arity, precedence, builtin
// implementation, and optional host redirect (spec.md §4.3). It is
// grounded on the teacher repository's parser precedence table
// (internal/parser's getPrecedence/precedences map) generalized into a
// registry object the parser consults for precedence and the evaluator
// consults for dispatch, rather than a parser-private constant map.
package operator

import (
	"fmt"
	"math/big"

	"github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/value"
)

// Handler implements a builtin or host-redirected operator. It receives
// already-evaluated operands (one for unary, two for binary) and returns
// the result or a *errors.EngineError (Type/Arithmetic/Arity); the
// evaluator stamps the error's source position before surfacing it.
type Handler func(args []value.Value) (value.Value, error)

// entry is one operator's full registration.
type entry struct {
	symbol     string
	precedence int
	builtin    Handler
	redirect   Handler // set by Table.Redirect; nil until then
}

func (e *entry) active() Handler {
	if e.redirect != nil {
		return e.redirect
	}
	return e.builtin
}

// Table is the full operator registry for one engine instance. Contexts
// hold a reference to a Table (spec.md §3/§4.6); it may be shared across
// contexts or created per-context.
type Table struct {
	binary map[string]*entry
	unary  map[string]*entry
}

// assignOps maps a compound assignment symbol to the binary operator it
// combines with (spec.md §4.3: "a += b ≡ a = a + b"). Plain "=" has no
// entry here — it stores rhs directly.
var assignOps = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"%=":  "%",
	"&=":  "&",
	"|=":  "|",
	"^=":  "^",
	"<<=": "<<",
	">>=": ">>",
}

// NewTable builds a Table with every builtin operator of spec.md §4.3
// registered at its specified precedence.
func NewTable() *Table {
	t := &Table{
		binary: make(map[string]*entry),
		unary:  make(map[string]*entry),
	}

	assignSymbols := []string{"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="}
	for _, s := range assignSymbols {
		t.binary[s] = &entry{symbol: s, precedence: 20} // structural: evaluator handles store
	}

	t.registerBinary("||", 40, nil) // structural: evaluator short-circuits
	t.registerBinary("&&", 50, nil) // structural: evaluator short-circuits

	t.registerBinary("==", 60, opEq)
	t.registerBinary("!=", 60, opNeq)
	t.registerBinary("<", 60, opOrder("<"))
	t.registerBinary("<=", 60, opOrder("<="))
	t.registerBinary(">", 60, opOrder(">"))
	t.registerBinary(">=", 60, opOrder(">="))

	t.registerBinary("|", 70, opBitwise("|"))
	t.registerBinary("^", 80, opBitwise("^"))
	t.registerBinary("&", 90, opBitwise("&"))
	t.registerBinary("<<", 100, opShift("<<"))
	t.registerBinary(">>", 100, opShift(">>"))

	t.registerBinary("+", 110, opAdd)
	t.registerBinary("-", 110, opArith("-"))
	t.registerBinary("*", 120, opArith("*"))
	t.registerBinary("/", 120, opDiv)
	t.registerBinary("%", 120, opMod)

	t.registerBinary("beginWith", 200, opBeginWith)
	t.registerBinary("endWith", 200, opEndWith)
	t.registerBinary("in", 200, opIn)

	t.registerUnary("!", opNot)
	t.registerUnary("not", opNot)

	return t
}

func (t *Table) registerBinary(symbol string, prec int, h Handler) {
	t.binary[symbol] = &entry{symbol: symbol, precedence: prec, builtin: h}
}

func (t *Table) registerUnary(symbol string, h Handler) {
	t.unary[symbol] = &entry{symbol: symbol, precedence: unaryPrecedence, builtin: h}
}

// unaryPrecedence is above every binary operator except bracket/call, per
// spec.md §4.3.
const unaryPrecedence = 210

// BinaryPrecedence returns the precedence of a binary operator symbol.
func (t *Table) BinaryPrecedence(symbol string) (int, bool) {
	e, ok := t.binary[symbol]
	if !ok {
		return 0, false
	}
	return e.precedence, true
}

// IsBinary reports whether symbol is registered as a binary operator.
func (t *Table) IsBinary(symbol string) bool {
	_, ok := t.binary[symbol]
	return ok
}

// IsUnary reports whether symbol is registered as a unary operator.
func (t *Table) IsUnary(symbol string) bool {
	_, ok := t.unary[symbol]
	return ok
}

// UnaryPrecedence returns the shared unary precedence.
func (t *Table) UnaryPrecedence() int { return unaryPrecedence }

// IsAssignment reports whether symbol is one of the precedence-20
// assignment operators.
func IsAssignment(symbol string) bool {
	if symbol == "=" {
		return true
	}
	_, ok := assignOps[symbol]
	return ok
}

// IsShortCircuit reports whether symbol is && or ||.
func IsShortCircuit(symbol string) bool {
	return symbol == "&&" || symbol == "||"
}

// CompoundBase returns the plain binary operator a compound assignment
// combines with, e.g. CompoundBase("+=") == "+". ok is false for "=".
func CompoundBase(symbol string) (string, bool) {
	base, ok := assignOps[symbol]
	return base, ok
}

// Redirect replaces symbol's handler with a host-supplied one. Precedence
// and associativity are unaffected (spec.md §4.3: "Precedence cannot be
// changed by redirection"). Redirecting an assignment or short-circuit
// symbol is a no-op for the store/short-circuit behavior itself (those
// remain structural in the evaluator) but still affects a compound
// assignment's underlying arithmetic (redirecting "+" changes what "+="
// computes).
func (t *Table) Redirect(symbol string, h Handler) error {
	if e, ok := t.binary[symbol]; ok {
		e.redirect = h
		return nil
	}
	if e, ok := t.unary[symbol]; ok {
		e.redirect = h
		return nil
	}
	return fmt.Errorf("operator: unknown symbol %q", symbol)
}

// InvokeBinary runs the active (possibly redirected) handler for a binary
// operator. It returns an Internal error if symbol has no handler at all
// (the structural operators: assignment and short-circuit), which callers
// must special-case before reaching here.
func (t *Table) InvokeBinary(symbol string, left, right value.Value) (value.Value, error) {
	e, ok := t.binary[symbol]
	if !ok {
		return value.Value{}, fmt.Errorf("operator: unknown binary symbol %q", symbol)
	}
	h := e.active()
	if h == nil {
		return value.Value{}, errors.New(errors.Internal, zeroPos, "operator: %q has no invocable handler", symbol)
	}
	return h([]value.Value{left, right})
}

// InvokeUnary runs the active (possibly redirected) handler for a unary
// operator.
func (t *Table) InvokeUnary(symbol string, operand value.Value) (value.Value, error) {
	e, ok := t.unary[symbol]
	if !ok {
		return value.Value{}, fmt.Errorf("operator: unknown unary symbol %q", symbol)
	}
	return e.active()([]value.Value{operand})
}

func typeErr(format string, args ...any) error {
	return errors.New(errors.Type, zeroPos, format, args...)
}

func arithErr(format string, args ...any) error {
	return errors.New(errors.Arithmetic, zeroPos, format, args...)
}

// zeroPos is a placeholder position for errors raised inside a handler,
// which has no access to source coordinates; the evaluator overwrites
// Pos with the offending node's position before surfacing the error.
var zeroPos = lexer.Position{}

func opNot(args []value.Value) (value.Value, error) {
	return value.NewBool(!args[0].Truthy()), nil
}

var opAdd = opArith("+")

func opArith(symbol string) Handler {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		if a.IsNumber() && b.IsNumber() {
			r := new(big.Float).SetPrec(256)
			switch symbol {
			case "+":
				r.Add(a.AsNumber(), b.AsNumber())
			case "-":
				r.Sub(a.AsNumber(), b.AsNumber())
			case "*":
				r.Mul(a.AsNumber(), b.AsNumber())
			}
			return value.NewNumberFromBig(r), nil
		}
		if symbol == "+" && a.IsString() && b.IsString() {
			return value.NewString(a.AsString() + b.AsString()), nil
		}
		if symbol == "+" && a.IsList() && b.IsList() {
			return value.NewList(append(append([]value.Value{}, a.AsList()...), b.AsList()...)), nil
		}
		return value.Value{}, typeErr("operator %q not supported between %s and %s", symbol, a.Kind(), b.Kind())
	}
}

func opDiv(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if !a.IsNumber() || !b.IsNumber() {
		return value.Value{}, typeErr("operator \"/\" requires two Numbers, got %s and %s", a.Kind(), b.Kind())
	}
	if b.AsNumber().Sign() == 0 {
		return value.Value{}, arithErr("division by zero")
	}
	r := new(big.Float).SetPrec(256).Quo(a.AsNumber(), b.AsNumber())
	return value.NewNumberFromBig(r), nil
}

func opMod(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if !a.IsNumber() || !b.IsNumber() {
		return value.Value{}, typeErr("operator \"%%\" requires two Numbers, got %s and %s", a.Kind(), b.Kind())
	}
	if b.AsNumber().Sign() == 0 {
		return value.Value{}, arithErr("modulo by zero")
	}
	ai, aok := value.ToBigInt(a.AsNumber())
	bi, bok := value.ToBigInt(b.AsNumber())
	if aok && bok {
		r := new(big.Int).Mod(ai, bi)
		return value.NumberFromBigInt(r), nil
	}
	// Fractional modulo: a - b*floor(a/b).
	q := new(big.Float).SetPrec(256).Quo(a.AsNumber(), b.AsNumber())
	qi, _ := q.Int(nil)
	qf := new(big.Float).SetPrec(256).SetInt(qi)
	if qf.Cmp(q) > 0 {
		qf.Sub(qf, big.NewFloat(1))
	}
	prod := new(big.Float).SetPrec(256).Mul(qf, b.AsNumber())
	r := new(big.Float).SetPrec(256).Sub(a.AsNumber(), prod)
	return value.NewNumberFromBig(r), nil
}

func opBitwise(symbol string) Handler {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		ai, bi, err := bothIntegral(symbol, a, b)
		if err != nil {
			return value.Value{}, err
		}
		r := new(big.Int)
		switch symbol {
		case "&":
			r.And(ai, bi)
		case "|":
			r.Or(ai, bi)
		case "^":
			r.Xor(ai, bi)
		}
		return value.NumberFromBigInt(r), nil
	}
}

func opShift(symbol string) Handler {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		ai, bi, err := bothIntegral(symbol, a, b)
		if err != nil {
			return value.Value{}, err
		}
		if bi.Sign() < 0 {
			return value.Value{}, arithErr("shift amount must be non-negative")
		}
		shift := uint(bi.Uint64())
		r := new(big.Int)
		if symbol == "<<" {
			r.Lsh(ai, shift)
		} else {
			r.Rsh(ai, shift)
		}
		return value.NumberFromBigInt(r), nil
	}
}

func bothIntegral(symbol string, a, b value.Value) (*big.Int, *big.Int, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return nil, nil, typeErr("operator %q requires two Numbers, got %s and %s", symbol, a.Kind(), b.Kind())
	}
	ai, aok := value.ToBigInt(a.AsNumber())
	bi, bok := value.ToBigInt(b.AsNumber())
	if !aok || !bok {
		return nil, nil, arithErr("operator %q requires integral operands", symbol)
	}
	return ai, bi, nil
}

func opEq(args []value.Value) (value.Value, error) {
	return value.NewBool(args[0].Equal(args[1])), nil
}

func opNeq(args []value.Value) (value.Value, error) {
	return value.NewBool(!args[0].Equal(args[1])), nil
}

func opOrder(symbol string) Handler {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		cmp, ok := a.Compare(b)
		if !ok {
			return value.Value{}, typeErr("operator %q not defined between %s and %s", symbol, a.Kind(), b.Kind())
		}
		switch symbol {
		case "<":
			return value.NewBool(cmp < 0), nil
		case "<=":
			return value.NewBool(cmp <= 0), nil
		case ">":
			return value.NewBool(cmp > 0), nil
		default:
			return value.NewBool(cmp >= 0), nil
		}
	}
}

func opBeginWith(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if !a.IsString() || !b.IsString() {
		return value.Value{}, typeErr("operator \"beginWith\" requires two Strings, got %s and %s", a.Kind(), b.Kind())
	}
	return value.NewBool(len(a.AsString()) >= len(b.AsString()) && a.AsString()[:len(b.AsString())] == b.AsString()), nil
}

func opEndWith(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if !a.IsString() || !b.IsString() {
		return value.Value{}, typeErr("operator \"endWith\" requires two Strings, got %s and %s", a.Kind(), b.Kind())
	}
	la, lb := len(a.AsString()), len(b.AsString())
	return value.NewBool(la >= lb && a.AsString()[la-lb:] == b.AsString()), nil
}

func opIn(args []value.Value) (value.Value, error) {
	elem, coll := args[0], args[1]
	switch coll.Kind() {
	case value.KindList:
		for _, e := range coll.AsList() {
			if elem.Equal(e) {
				return value.NewBool(true), nil
			}
		}
		return value.NewBool(false), nil
	case value.KindMap:
		return value.NewBool(coll.AsMap().Has(elem)), nil
	default:
		return value.Value{}, typeErr("operator \"in\" requires a List or Map on the right, got %s", coll.Kind())
	}
}
