package liquiditybook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqbook/liquidity-book-go/coin"
	liquiditybook "github.com/liqbook/liquidity-book-go/liquidity_book"
)

func TestProvideRejectsEvenBinCount(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	for _, n := range []uint64{0, 2, 4, 10} {
		_, err := p.ProvideLiquidityUniform(n, mintL(1000), mintR(1000))
		assert.ErrorIs(t, err, liquiditybook.ErrEvenBinCount, "bin count %d", n)
	}
	assert.Equal(t, 1, p.BinCount())
}

func TestProvideRejectsZeroLiquidity(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	_, err := p.ProvideLiquidityUniform(3, coin.Zero[assetL](), coin.Zero[assetR]())
	assert.ErrorIs(t, err, liquiditybook.ErrNoLiquidity)
}

func TestProvideUniformDistribution(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	active := p.ActiveBinID()

	// 10 units over 5 bins: half+1 = 3, so 3 per side bin and the
	// remainder 4 lands in the active bin.
	receipt, err := p.ProvideLiquidityUniform(5, mintL(10), mintR(10))
	require.NoError(t, err)

	for _, id := range []uint64{active - 2, active - 1} {
		b, ok := p.GetBin(id)
		require.True(t, ok)
		assert.Equal(t, uint64(3), b.BalanceLeft(), "bin %d", id)
		assert.Zero(t, b.BalanceRight(), "bin %d", id)
	}
	for _, id := range []uint64{active + 1, active + 2} {
		b, ok := p.GetBin(id)
		require.True(t, ok)
		assert.Zero(t, b.BalanceLeft(), "bin %d", id)
		assert.Equal(t, uint64(3), b.BalanceRight(), "bin %d", id)
	}
	b, ok := p.GetBin(active)
	require.True(t, ok)
	assert.Equal(t, uint64(4), b.BalanceLeft())
	assert.Equal(t, uint64(4), b.BalanceRight())

	// Provided principal mirrors balances before any trading.
	assert.Equal(t, b.BalanceLeft(), b.ProvidedLeft())
	assert.Equal(t, b.BalanceRight(), b.ProvidedRight())

	// The receipt records every deposit; the active bin comes last.
	entries := receipt.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, liquiditybook.ReceiptEntry{BinID: active, Left: 4, Right: 4}, entries[4])

	var totalL, totalR uint64
	for _, e := range entries {
		totalL += e.Left
		totalR += e.Right
	}
	assert.Equal(t, uint64(10), totalL)
	assert.Equal(t, uint64(10), totalR)

	reserveL, reserveR := p.Reserves()
	assert.Equal(t, uint64(10), reserveL)
	assert.Equal(t, uint64(10), reserveR)
}

func TestProvideLadderPrices(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	active := p.ActiveBinID()
	_, err := p.ProvideLiquidityUniform(3, mintL(1000), mintR(1000))
	require.NoError(t, err)

	above, ok := p.GetBin(active + 1)
	require.True(t, ok)
	assert.True(t, above.Price().Eq(price(t, "0.501")), "got %s", above.Price())

	// active price / 1.002, truncated.
	below, ok := p.GetBin(active - 1)
	require.True(t, ok)
	want, err := price(t, "0.5").Div(price(t, "1.002"))
	require.NoError(t, err)
	assert.True(t, below.Price().Eq(want), "got %s", below.Price())
}

func TestRedepositHitsSamePriceMantissa(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	active := p.ActiveBinID()

	_, err := p.ProvideLiquidityUniform(5, mintL(1000), mintR(1000))
	require.NoError(t, err)
	first := make(map[uint64]string)
	for _, id := range p.BinIDs() {
		b, _ := p.GetBin(id)
		first[id] = b.Price().Mantissa().String()
	}

	_, err = p.ProvideLiquidityUniform(5, mintL(1000), mintR(1000))
	require.NoError(t, err)
	for _, id := range p.BinIDs() {
		b, _ := p.GetBin(id)
		assert.Equal(t, first[id], b.Price().Mantissa().String(), "bin %d", id)
	}
	assert.Equal(t, 5, p.BinCount())
	assert.Equal(t, active, p.ActiveBinID())
}

func TestProvideSingleSided(t *testing.T) {
	p, _ := newTestPool(t, 20, "0.5", 20)
	active := p.ActiveBinID()

	receipt, err := p.ProvideLiquidityUniform(3, coin.Zero[assetL](), mintR(900))
	require.NoError(t, err)

	b, _ := p.GetBin(active + 1)
	assert.Equal(t, uint64(450), b.BalanceRight())
	b, _ = p.GetBin(active)
	assert.Equal(t, uint64(450), b.BalanceRight())
	assert.Zero(t, b.BalanceLeft())

	entries := receipt.Entries()
	require.Len(t, entries, 3)
}
