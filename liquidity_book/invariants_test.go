package liquiditybook_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	liquiditybook "github.com/liqbook/liquidity-book-go/liquidity_book"
)

// checkInvariants asserts the structural invariants that must hold
// between any two operations.
func checkInvariants(t *testing.T, p *testPool) {
	t.Helper()

	_, ok := p.GetBin(p.ActiveBinID())
	require.True(t, ok, "active bin must exist")

	ids := p.BinIDs()
	var sumLeft, sumRight uint64
	for i, id := range ids {
		b, ok := p.GetBin(id)
		require.True(t, ok)
		sumLeft += b.BalanceLeft()
		sumRight += b.BalanceRight()

		if i > 0 {
			prev, _ := p.GetBin(ids[i-1])
			assert.True(t, prev.Price().Lt(b.Price()),
				"prices must strictly increase with bin id")
		}
		for _, e := range append(b.FeeLogLeft(), b.FeeLogRight()...) {
			assert.Positive(t, e.Amount, "fee entries must have positive amount")
			assert.Positive(t, e.TotalBinSizeAsLeft, "fee entries must have positive basis")
		}
	}

	// Every unit the bins account for is backed by the reserves.
	reserveL, reserveR := p.Reserves()
	assert.Equal(t, reserveL, sumLeft, "left reserve must match bin balances")
	assert.Equal(t, reserveR, sumRight, "right reserve must match bin balances")
}

func TestInvariantsUnderOperationSequence(t *testing.T) {
	p, clk := newTestPool(t, 20, "0.5", 20)
	rng := rand.New(rand.NewSource(7))

	var receipts []*liquiditybook.Receipt
	for step := 0; step < 400; step++ {
		clk.Advance(uint64(rng.Intn(5000)) + 1)
		switch rng.Intn(5) {
		case 0:
			binCount := uint64(rng.Intn(6))*2 + 1
			r, err := p.ProvideLiquidityUniform(binCount,
				mintL(uint64(rng.Intn(1_000_000_000))+1),
				mintR(uint64(rng.Intn(1_000_000_000))+1))
			require.NoError(t, err)
			receipts = append(receipts, r)
		case 1:
			out, err := p.SwapLeftToRight(mintL(uint64(rng.Intn(100_000_000)) + 1))
			if err != nil {
				assert.ErrorIs(t, err, liquiditybook.ErrInsufficientLiquidity)
			} else {
				out.WithdrawAll()
			}
		case 2:
			out, err := p.SwapRightToLeft(mintR(uint64(rng.Intn(100_000_000)) + 1))
			if err != nil {
				assert.ErrorIs(t, err, liquiditybook.ErrInsufficientLiquidity)
			} else {
				out.WithdrawAll()
			}
		case 3:
			if len(receipts) > 0 {
				i := rng.Intn(len(receipts))
				_, _, err := p.Withdraw(receipts[i])
				require.NoError(t, err)
				receipts = append(receipts[:i], receipts[i+1:]...)
			}
		case 4:
			p.CleanEmptyBins()
		}
		checkInvariants(t, p)
	}
}

func TestConservationWithoutSwaps(t *testing.T) {
	p, clk := newTestPool(t, 35, "0.25", 50)
	rng := rand.New(rand.NewSource(11))

	var depositedL, depositedR, returnedL, returnedR uint64
	var receipts []*liquiditybook.Receipt
	for i := 0; i < 50; i++ {
		clk.Advance(100)
		l := uint64(rng.Intn(10_000_000) + 1)
		r := uint64(rng.Intn(10_000_000) + 1)
		receipt, err := p.ProvideLiquidityUniform(uint64(rng.Intn(4))*2+1, mintL(l), mintR(r))
		require.NoError(t, err)
		depositedL += l
		depositedR += r
		receipts = append(receipts, receipt)
	}

	// Withdraw in a scrambled order.
	rng.Shuffle(len(receipts), func(i, j int) {
		receipts[i], receipts[j] = receipts[j], receipts[i]
	})
	for _, receipt := range receipts {
		outL, outR, err := p.Withdraw(receipt)
		require.NoError(t, err)
		returnedL += outL.Value()
		returnedR += outR.Value()
	}

	// With no trading, withdrawal returns exactly what went in.
	assert.Equal(t, depositedL, returnedL)
	assert.Equal(t, depositedR, returnedR)
}
