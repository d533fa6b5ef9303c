package math

import (
	"math/big"

	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
)

func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1)), nil
	}
	return div, nil
}

// MulDivU64 is MulDiv over u64 operands with an overflow-checked u64 result.
func MulDivU64(x, y, denominator uint64, rounding shared.Rounding) (uint64, error) {
	out, err := MulDiv(
		new(big.Int).SetUint64(x),
		new(big.Int).SetUint64(y),
		new(big.Int).SetUint64(denominator),
		rounding,
	)
	if err != nil {
		return 0, err
	}
	return toU64(out)
}

func toU64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}
