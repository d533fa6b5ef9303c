package math_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
)

func fp(t *testing.T, s string) lbmath.FP {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	out, err := lbmath.FromDecimal(d)
	require.NoError(t, err)
	return out
}

// ulpDiff is the mantissa distance between two values.
func ulpDiff(a, b lbmath.FP) *big.Int {
	d := new(big.Int).Sub(a.Mantissa(), b.Mantissa())
	return d.Abs(d)
}

func TestFromFractionTruncates(t *testing.T) {
	cases := []struct {
		n, d uint64
		want uint64
	}{
		{1, 1, 1},
		{7, 2, 3},
		{10, 3, 3},
		{0, 5, 0},
		{999, 1000, 0},
		{1000, 999, 1},
	}
	for _, tc := range cases {
		f, err := lbmath.FromFraction(tc.n, tc.d)
		require.NoError(t, err)
		got, err := f.TruncateToU64()
		require.NoError(t, err)
		assert.Equal(t, tc.n/tc.d, got)
		assert.Equal(t, tc.want, got)
	}
}

func TestFromFractionExactValues(t *testing.T) {
	f32, err := lbmath.FromFraction(3, 2)
	require.NoError(t, err)
	assert.True(t, f32.Eq(fp(t, "1.5")))

	f110, err := lbmath.FromFraction(1, 10)
	require.NoError(t, err)
	assert.True(t, f110.Eq(fp(t, "0.1")))

	third, err := lbmath.FromFraction(1, 3)
	require.NoError(t, err)
	product := third.Mul(lbmath.FromUint64(3))
	assert.True(t, ulpDiff(product, lbmath.One()).Cmp(big.NewInt(1)) <= 0,
		"1/3 * 3 should be within one ULP of 1, got %s", product)
}

func TestFromFractionDivideByZero(t *testing.T) {
	_, err := lbmath.FromFraction(1, 0)
	assert.ErrorIs(t, err, lbmath.ErrDivideByZero)
}

func TestMulCommutes(t *testing.T) {
	values := []lbmath.FP{
		fp(t, "0.000000000000000001"),
		fp(t, "0.1"),
		fp(t, "0.5"),
		fp(t, "1"),
		fp(t, "1.002"),
		fp(t, "123456789.987654321"),
	}
	for _, a := range values {
		for _, b := range values {
			assert.True(t, a.Mul(b).Eq(b.Mul(a)), "%s * %s", a, b)
		}
	}
}

func TestDivMulRoundTrip(t *testing.T) {
	values := []lbmath.FP{
		fp(t, "0.5"),
		fp(t, "1.002"),
		fp(t, "3"),
		fp(t, "1000000.000001"),
	}
	for _, a := range values {
		for _, b := range values {
			q, err := a.Div(b)
			require.NoError(t, err)
			back := q.Mul(b)
			assert.True(t, ulpDiff(back, a).Cmp(big.NewInt(1)) <= 0,
				"(%s / %s) * %s = %s drifted more than one ULP", a, b, b, back)
		}
	}
}

func TestDivByZero(t *testing.T) {
	_, err := fp(t, "1").Div(lbmath.Zero())
	assert.ErrorIs(t, err, lbmath.ErrDivideByZero)

	_, err = fp(t, "1").DivByU64(0)
	assert.ErrorIs(t, err, lbmath.ErrDivideByZero)

	_, err = lbmath.Zero().DivU64(5)
	assert.ErrorIs(t, err, lbmath.ErrDivideByZero)
}

func TestPowLaw(t *testing.T) {
	a := fp(t, "1.002")
	for p := uint64(0); p < 12; p++ {
		assert.True(t, a.Pow(p+1).Eq(a.Pow(p).Mul(a)), "p=%d", p)
	}
	assert.True(t, a.Pow(0).Eq(lbmath.One()))
	assert.True(t, lbmath.Zero().Pow(0).Eq(lbmath.One()))
}

func TestMulU64(t *testing.T) {
	half := fp(t, "0.5")
	got, err := half.MulU64(1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), got)

	// Truncation toward zero, not nearest.
	third, err := lbmath.FromFraction(1, 3)
	require.NoError(t, err)
	got, err = third.MulU64(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(33), got)

	_, err = fp(t, "2").MulU64(1<<63 + 1<<62)
	assert.ErrorIs(t, err, lbmath.ErrOverflow)
}

func TestDivU64(t *testing.T) {
	half := fp(t, "0.5")
	got, err := half.DivU64(998_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_996_000_000), got)

	two := fp(t, "2")
	got, err = two.DivU64(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	tiny := fp(t, "0.000000001")
	_, err = tiny.DivU64(1 << 40)
	assert.ErrorIs(t, err, lbmath.ErrOverflow)
}

func TestDivByU64(t *testing.T) {
	f, err := fp(t, "3").DivByU64(2)
	require.NoError(t, err)
	assert.True(t, f.Eq(fp(t, "1.5")))
}

func TestAbsDiff(t *testing.T) {
	a, b := fp(t, "2.5"), fp(t, "1")
	assert.True(t, a.AbsDiff(b).Eq(fp(t, "1.5")))
	assert.True(t, b.AbsDiff(a).Eq(fp(t, "1.5")))
	assert.True(t, a.AbsDiff(a).IsZero())
}

func TestMinMaxCompareMantissas(t *testing.T) {
	a, b := fp(t, "0.1"), fp(t, "0.2")
	assert.True(t, lbmath.Min(a, b).Eq(a))
	assert.True(t, lbmath.Max(a, b).Eq(b))
	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
}

func TestStepFactorExact(t *testing.T) {
	step := lbmath.StepFactor(20)
	assert.True(t, step.Eq(fp(t, "1.002")))
	assert.Equal(t, "1.002", step.String())

	// The ladder is exact for decimal prices: 0.5 * 1.002 = 0.501.
	next := fp(t, "0.5").Mul(step)
	assert.True(t, next.Eq(fp(t, "0.501")))
}

func TestAmountAsLeft(t *testing.T) {
	half := fp(t, "0.5")
	got, err := lbmath.AmountAsLeft(half, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got)

	// price > right compresses the right leg to zero.
	steep := fp(t, "1000")
	got, err = lbmath.AmountAsLeft(steep, 7, 999)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got)
}

func TestMulDiv(t *testing.T) {
	down, err := lbmath.MulDivU64(10, 10, 3, shared.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(33), down)

	up, err := lbmath.MulDivU64(10, 10, 3, shared.RoundingUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(34), up)

	_, err = lbmath.MulDivU64(1, 1, 0, shared.RoundingDown)
	assert.ErrorIs(t, err, lbmath.ErrDivideByZero)

	_, err = lbmath.MulDivU64(1<<63, 4, 1, shared.RoundingDown)
	assert.ErrorIs(t, err, lbmath.ErrOverflow)
}
