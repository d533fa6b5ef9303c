package math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
)

var (
	ErrDivideByZero = errors.New("divide by zero")
	ErrOverflow     = errors.New("integer overflow")
)

// fpScale is 10^18, the denominator of every FP mantissa.
var fpScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(shared.FPDecimals), nil)

// FP is an unsigned fixed-point rational: mantissa / 10^18.
// The zero value is 0. All operations truncate toward zero unless the
// rounding mode says otherwise, and every intermediate product is computed
// at full big.Int width.
type FP struct {
	m *big.Int
}

func Scale() *big.Int {
	return new(big.Int).Set(fpScale)
}

func Zero() FP {
	return FP{}
}

func One() FP {
	return FP{m: new(big.Int).Set(fpScale)}
}

// FromMantissa wraps a raw mantissa. The mantissa must be non-negative;
// a negative value is a programmer error.
func FromMantissa(m *big.Int) FP {
	if m == nil {
		return FP{}
	}
	if m.Sign() < 0 {
		panic("fp: negative mantissa")
	}
	return FP{m: new(big.Int).Set(m)}
}

func FromUint64(v uint64) FP {
	return FP{m: new(big.Int).Mul(new(big.Int).SetUint64(v), fpScale)}
}

// FromFraction returns floor(n * 10^18 / d).
func FromFraction(n, d uint64) (FP, error) {
	if d == 0 {
		return FP{}, ErrDivideByZero
	}
	m := new(big.Int).Mul(new(big.Int).SetUint64(n), fpScale)
	m.Quo(m, new(big.Int).SetUint64(d))
	return FP{m: m}, nil
}

func FromDecimal(d decimal.Decimal) (FP, error) {
	if d.IsNegative() {
		return FP{}, ErrOverflow
	}
	m := d.Mul(decimal.New(1, shared.FPDecimals)).Floor().BigInt()
	return FP{m: m}, nil
}

func (a FP) mantissa() *big.Int {
	if a.m == nil {
		return new(big.Int)
	}
	return a.m
}

// Mantissa returns a copy of the raw mantissa.
func (a FP) Mantissa() *big.Int {
	return new(big.Int).Set(a.mantissa())
}

func (a FP) IsZero() bool {
	return a.mantissa().Sign() == 0
}

func (a FP) Cmp(b FP) int {
	return a.mantissa().Cmp(b.mantissa())
}

func (a FP) Eq(b FP) bool {
	return a.Cmp(b) == 0
}

func (a FP) Lt(b FP) bool {
	return a.Cmp(b) < 0
}

func (a FP) Gt(b FP) bool {
	return a.Cmp(b) > 0
}

func Min(a, b FP) FP {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b FP) FP {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func (a FP) Add(b FP) FP {
	return FP{m: new(big.Int).Add(a.mantissa(), b.mantissa())}
}

// AbsDiff is the unsigned difference |a - b|.
func (a FP) AbsDiff(b FP) FP {
	d := new(big.Int).Sub(a.mantissa(), b.mantissa())
	return FP{m: d.Abs(d)}
}

// Mul returns floor(a * b).
func (a FP) Mul(b FP) FP {
	m := new(big.Int).Mul(a.mantissa(), b.mantissa())
	m.Quo(m, fpScale)
	return FP{m: m}
}

// Div returns floor(a / b).
func (a FP) Div(b FP) (FP, error) {
	if b.IsZero() {
		return FP{}, ErrDivideByZero
	}
	m := new(big.Int).Mul(a.mantissa(), fpScale)
	m.Quo(m, b.mantissa())
	return FP{m: m}, nil
}

// Pow is repeated left-to-right multiplication; Pow(a, 0) == 1.
func (a FP) Pow(p uint64) FP {
	out := One()
	for i := uint64(0); i < p; i++ {
		out = out.Mul(a)
	}
	return out
}

// MulU64 returns floor(a * u) as a u64.
func (a FP) MulU64(u uint64) (uint64, error) {
	m := new(big.Int).Mul(a.mantissa(), new(big.Int).SetUint64(u))
	m.Quo(m, fpScale)
	return toU64(m)
}

// DivU64 returns floor(u / a) as a u64: how many left units u right units
// are worth when a is a left-to-right price.
func (a FP) DivU64(u uint64) (uint64, error) {
	if a.IsZero() {
		return 0, ErrDivideByZero
	}
	m := new(big.Int).Mul(new(big.Int).SetUint64(u), fpScale)
	m.Quo(m, a.mantissa())
	return toU64(m)
}

// DivByU64 returns floor(a / u) as an FP.
func (a FP) DivByU64(u uint64) (FP, error) {
	if u == 0 {
		return FP{}, ErrDivideByZero
	}
	m := new(big.Int).Quo(a.mantissa(), new(big.Int).SetUint64(u))
	return FP{m: m}, nil
}

// TruncateToU64 returns floor(a) as a u64.
func (a FP) TruncateToU64() (uint64, error) {
	m := new(big.Int).Quo(a.mantissa(), fpScale)
	return toU64(m)
}

func (a FP) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.mantissa(), -shared.FPDecimals)
}

func (a FP) String() string {
	return a.Decimal().String()
}
