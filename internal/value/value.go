// Package value implements the engine's dynamically typed runtime value:
// a tagged union of Number, Bool, String, List, Map, and None (spec.md §3,
// §4.1). It mirrors the teacher repository's one-variant-per-type pattern
// (internal/interp/value.go) but as a single tagged struct rather than an
// interface, since spec.md has no use for per-variant method sets beyond
// the handful of operations this package defines directly.
package value

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// numberPrecision is the working precision, in bits, for every Number.
// 256 bits (~77 decimal digits) comfortably exceeds the precision of any
// literal a host would embed in an expression, while staying exact for the
// arithmetic identities spec.md §8 tests (e.g. 1.23 printed and re-parsed
// must compare equal).
const numberPrecision = 256

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindList
	KindMap
	KindNone
)

// String names the Kind, used by the "type" builtin and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	default:
		return "None"
	}
}

// Value is the engine's single runtime value type.
type Value struct {
	kind Kind
	num  *big.Float
	b    bool
	s    string
	list []Value
	m    *mapData
}

// None is the absence of a value; it is equal only to itself.
var None = Value{kind: KindNone}

// NewBool constructs a Bool value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewString constructs a String value, NFC-normalizing it so that
// visually-identical strings compare equal regardless of the Unicode
// normalization form they arrived in.
func NewString(s string) Value {
	return Value{kind: KindString, s: norm.NFC.String(s)}
}

// NewList constructs a List value from elements, copying the slice so the
// resulting Value owns its data (AST nodes/Values must be immutable once
// built, per spec.md §3).
func NewList(elements []Value) Value {
	cp := make([]Value, len(elements))
	copy(cp, elements)
	return Value{kind: KindList, list: cp}
}

// NewMap constructs an empty Map value; use Map.Set to populate it.
func NewMap() Value {
	return Value{kind: KindMap, m: newMapData()}
}

// NewNumberFromString parses a decimal literal (as produced by the lexer:
// optional sign, digits, optional fractional part, optional e/E exponent)
// into a Number value.
func NewNumberFromString(lexeme string) (Value, error) {
	f, _, err := big.ParseFloat(lexeme, 10, numberPrecision, big.ToNearestEven)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number literal %q: %w", lexeme, err)
	}
	return Value{kind: KindNumber, num: f}, nil
}

// NewNumberFromInt64 constructs an exact integral Number, used by builtins
// such as len().
func NewNumberFromInt64(n int64) Value {
	f := new(big.Float).SetPrec(numberPrecision).SetInt64(n)
	return Value{kind: KindNumber, num: f}
}

// NewNumberFromFloat constructs a Number value from a plain Go float64,
// as produced by decoding an external document (the CLI's YAML variable
// seeding).
func NewNumberFromFloat(f float64) Value {
	return Value{kind: KindNumber, num: new(big.Float).SetPrec(numberPrecision).SetFloat64(f)}
}

// Kind reports the variant held.
func (v Value) Kind() Kind { return v.kind }

// IsNumber, IsBool, IsString, IsList, IsMap, IsNone are type predicates.
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsList() bool   { return v.kind == KindList }
func (v Value) IsMap() bool    { return v.kind == KindMap }
func (v Value) IsNone() bool   { return v.kind == KindNone }

// AsNumber returns the underlying big.Float. Panics if Kind is not Number;
// callers must check IsNumber (or go through the operator/builtin layer,
// which always checks first).
func (v Value) AsNumber() *big.Float {
	if v.kind != KindNumber {
		panic("value: AsNumber on non-Number Value")
	}
	return v.num
}

// AsBool returns the underlying bool. Panics if Kind is not Bool.
func (v Value) AsBool() bool {
	if v.kind != KindBool {
		panic("value: AsBool on non-Bool Value")
	}
	return v.b
}

// AsString returns the underlying string. Panics if Kind is not String.
func (v Value) AsString() string {
	if v.kind != KindString {
		panic("value: AsString on non-String Value")
	}
	return v.s
}

// AsList returns the underlying element slice. Panics if Kind is not List.
func (v Value) AsList() []Value {
	if v.kind != KindList {
		panic("value: AsList on non-List Value")
	}
	return v.list
}

// AsMap returns the underlying map handle. Panics if Kind is not Map.
func (v Value) AsMap() *mapData {
	if v.kind != KindMap {
		panic("value: AsMap on non-Map Value")
	}
	return v.m
}

// Truthy implements the conversion-to-bool rule of spec.md §4.1.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num.Sign() != 0
	case KindString:
		return v.s != ""
	case KindList:
		return len(v.list) > 0
	case KindMap:
		return v.m.Len() > 0
	default:
		return false
	}
}

// Equal implements spec.md §4.1 equality: same-variant structural equality,
// None == None, Number == Number across representations, and false across
// every other variant pairing.
func (v Value) Equal(other Value) bool {
	if v.kind == KindNumber && other.kind == KindNumber {
		return v.num.Cmp(other.num) == 0
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(other.m)
	default:
		return false
	}
}

// Compare implements ordering, defined only for Number↔Number and
// String↔String (spec.md §4.1: "ordering defined only for Number↔Number
// and String↔String lexicographic"). String ordering is raw lexicographic
// comparison of the underlying (NFC-normalized) bytes, not locale-aware
// collation — a collation table would reorder pairs like "a"/"A" relative
// to codepoint order, which is a different, undocumented invariant. The
// second return value is false when ordering is undefined for this
// pairing.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.kind == KindNumber && other.kind == KindNumber {
		return v.num.Cmp(other.num), true
	}
	if v.kind == KindString && other.kind == KindString {
		return strings.Compare(v.s, other.s), true
	}
	return 0, false
}

// String renders a Value for diagnostics, the `print` builtin, and the
// `str` builtin. It is also the format literals round-trip through for
// spec.md §8's round-trip invariant.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.Text('g', -1)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.displayString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		return v.m.String()
	default:
		return "None"
	}
}

// displayString quotes String elements when nested inside a List/Map
// display, so `[1, 'a']` reads unambiguously; top-level String() does not
// quote, matching the teacher's convention that a bare string's
// String() is the string itself.
func (v Value) displayString() string {
	if v.kind == KindString {
		return "'" + v.s + "'"
	}
	return v.String()
}

// HashKey returns a canonical string encoding of v for use as a Map key.
// Only Number, Bool, and String are hashable (spec.md §3); other variants
// return ok=false.
func HashKey(v Value) (key string, ok bool) {
	switch v.kind {
	case KindNumber:
		return "N:" + v.num.Text('g', -1), true
	case KindBool:
		if v.b {
			return "B:true", true
		}
		return "B:false", true
	case KindString:
		return "S:" + v.s, true
	default:
		return "", false
	}
}

// mapData is the Map variant's backing store: a hash map keyed by the
// canonical HashKey, holding (original key, value) pairs so the key's
// original Value can still be recovered for iteration/printing.
type mapData struct {
	entries map[string]mapEntry
}

type mapEntry struct {
	Key Value
	Val Value
}

func newMapData() *mapData {
	return &mapData{entries: make(map[string]mapEntry)}
}

// Set stores value under key, overwriting any existing entry for an equal
// key (spec.md §3: "duplicate-key assignment overwrites").
func (m *mapData) Set(key, val Value) bool {
	k, ok := HashKey(key)
	if !ok {
		return false
	}
	m.entries[k] = mapEntry{Key: key, Val: val}
	return true
}

// Get looks up key, returning ok=false both when the key is unhashable and
// when it is simply absent.
func (m *mapData) Get(key Value) (Value, bool) {
	k, ok := HashKey(key)
	if !ok {
		return Value{}, false
	}
	e, found := m.entries[k]
	if !found {
		return Value{}, false
	}
	return e.Val, true
}

// Has reports whether key is present, for the `in` operator.
func (m *mapData) Has(key Value) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *mapData) Len() int { return len(m.entries) }

// Entries returns all (key, value) pairs. Iteration order is not
// guaranteed (spec.md §9 Open Question); this sorts by canonical key
// string purely to make String() and tests deterministic, not as an
// iteration-order guarantee callers may depend on.
func (m *mapData) Entries() []mapEntry {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]mapEntry, len(keys))
	for i, k := range keys {
		out[i] = m.entries[k]
	}
	return out
}

// Equal compares two maps structurally, ignoring iteration order.
func (m *mapData) Equal(other *mapData) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, e := range m.entries {
		oe, ok := other.entries[k]
		if !ok || !e.Val.Equal(oe.Val) {
			return false
		}
	}
	return true
}

func (m *mapData) String() string {
	entries := m.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Key.displayString() + ": " + e.Val.displayString()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
