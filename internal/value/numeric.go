package value

import "math/big"

// IsIntegral reports whether n has no fractional part, as required by the
// bitwise operators (spec.md §4.3: "require integral Number operands;
// fractional operands fail").
func IsIntegral(n *big.Float) bool {
	_, acc := n.Int(nil)
	return acc == big.Exact
}

// ToBigInt converts an integral Number to a *big.Int. ok is false if n has
// a fractional part.
func ToBigInt(n *big.Float) (*big.Int, bool) {
	i, acc := n.Int(nil)
	if acc != big.Exact {
		return nil, false
	}
	return i, true
}

// NumberFromBigInt wraps a *big.Int result (from a bitwise op) back into a
// Number Value.
func NumberFromBigInt(i *big.Int) Value {
	f := new(big.Float).SetPrec(numberPrecision).SetInt(i)
	return Value{kind: KindNumber, num: f}
}

// NewNumberFromBig wraps an already-computed *big.Float (from an
// operator's arithmetic) into a Number Value.
func NewNumberFromBig(f *big.Float) Value {
	return Value{kind: KindNumber, num: f}
}
