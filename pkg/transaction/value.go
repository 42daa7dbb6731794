// pkg/transaction/value.go
package transaction

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// Amount is the value attached to a transaction as the caller described it:
// either integer base units (wei) or a human decimal in whole native units.
// The zero Amount means no value.
type Amount struct {
	base *big.Int
	dec  *decimal.Decimal
}

// BaseUnits returns an Amount already expressed in base units.
func BaseUnits(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{base: new(big.Int).Set(v)}
}

// BaseUnitsInt is BaseUnits for a math.Int.
func BaseUnitsInt(v sdkmath.Int) Amount {
	if v.IsNil() {
		return Amount{}
	}
	return Amount{base: v.BigInt()}
}

// Decimal returns an Amount in whole native units, e.g. 0.123 ETH.
func Decimal(d decimal.Decimal) Amount {
	return Amount{dec: &d}
}

// ParseDecimal parses a human decimal string such as "0.123".
func ParseDecimal(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %w", ErrInvalidValue, s, err)
	}
	return Decimal(d), nil
}

// Float returns an Amount in whole native units from a float literal.
// The float is read through its shortest decimal representation, so 0.123
// means exactly 0.123 and not the nearest binary fraction.
func Float(f float64) Amount {
	return Decimal(decimal.NewFromFloat(f))
}

// IsZero returns true if no value was set.
func (a Amount) IsZero() bool {
	return a.base == nil && a.dec == nil
}

// IsDecimal returns true if the amount still needs scaling by the chain's decimals.
func (a Amount) IsDecimal() bool {
	return a.dec != nil
}

func (a Amount) String() string {
	switch {
	case a.base != nil:
		return a.base.String()
	case a.dec != nil:
		return a.dec.String()
	default:
		return "0"
	}
}

// NormalizeValue converts a into integer base units for a chain with the
// given decimal precision. Base-unit amounts pass through unchanged.
// A decimal with more fractional digits than decimals is rejected rather
// than rounded, so no fractional base unit is ever produced.
func NormalizeValue(a Amount, decimals uint8) (sdkmath.Int, error) {
	var v *big.Int
	switch {
	case a.base != nil:
		v = new(big.Int).Set(a.base)
	case a.dec != nil:
		scaled := a.dec.Shift(int32(decimals))
		if !scaled.IsInteger() {
			return sdkmath.Int{}, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidValue, a.dec.String(), decimals)
		}
		v = scaled.BigInt()
	default:
		return sdkmath.ZeroInt(), nil
	}

	if v.Sign() < 0 {
		return sdkmath.Int{}, fmt.Errorf("%w: %s is negative", ErrInvalidValue, a.String())
	}
	if v.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, fmt.Errorf("%w: %s exceeds %d bits", ErrInvalidValue, a.String(), sdkmath.MaxBitLen)
	}
	return sdkmath.NewIntFromBigInt(v), nil
}

// FormatValue renders base units as a human decimal with the given precision.
func FormatValue(v sdkmath.Int, decimals uint8) string {
	if v.IsNil() {
		return "0"
	}
	return decimal.NewFromBigInt(v.BigInt(), -int32(decimals)).String()
}
