package liquiditybook

import (
	"github.com/liqbook/liquidity-book-go/coin"
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
	"github.com/liqbook/liquidity-book-go/logging"
)

type depositPlan struct {
	binID uint64
	price lbmath.FP
	left  uint64
	right uint64
}

// ProvideLiquidityUniform spreads the two coins evenly over binCount bins
// centered on the active bin and mints a receipt for the deposit.
// binCount must be odd and at least one coin non-zero.
//
// Each non-active bin gets floor(value / (half+1)) of the matching side:
// bins below the active price receive left, bins above receive right.
// The active bin takes whatever remains of both coins, so the pool
// absorbs the full input with no rounding loss.
func (p *Pool[L, R]) ProvideLiquidityUniform(binCount uint64, coinLeft coin.Coin[L], coinRight coin.Coin[R]) (*Receipt, error) {
	return p.ProvideLiquidityUniformAt(binCount, coinLeft, coinRight, p.clk.NowMs())
}

// ProvideLiquidityUniformAt is ProvideLiquidityUniform with an explicit
// deposit timestamp.
func (p *Pool[L, R]) ProvideLiquidityUniformAt(binCount uint64, coinLeft coin.Coin[L], coinRight coin.Coin[R], nowMs uint64) (*Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if binCount%2 == 0 {
		return nil, ErrEvenBinCount
	}
	if coinLeft.Value() == 0 && coinRight.Value() == 0 {
		return nil, ErrNoLiquidity
	}

	half := (binCount - 1) / 2
	leftPerBin := coinLeft.Value() / (half + 1)
	rightPerBin := coinRight.Value() / (half + 1)

	// Non-active bin prices come from successive multiplication and
	// division of the step factor, never from a power, so a re-deposit
	// into an existing level lands on the same mantissa.
	step := lbmath.StepFactor(p.binStepBps)
	activePrice := p.activeBin().price

	plans := make([]depositPlan, 0, binCount)
	lowPrice := activePrice
	highPrice := activePrice
	for n := uint64(1); n <= half; n++ {
		var err error
		lowPrice, err = lowPrice.Div(step)
		if err != nil {
			return nil, err
		}
		plans = append(plans, depositPlan{binID: p.activeBinID - n, price: lowPrice, left: leftPerBin})

		highPrice = highPrice.Mul(step)
		plans = append(plans, depositPlan{binID: p.activeBinID + n, price: highPrice, right: rightPerBin})
	}
	plans = append(plans, depositPlan{
		binID: p.activeBinID,
		price: activePrice,
		left:  coinLeft.Value() - leftPerBin*half,
		right: coinRight.Value() - rightPerBin*half,
	})

	// All deposits must fit before any bin is touched.
	for _, plan := range plans {
		if b, ok := p.bins[plan.binID]; ok {
			if _, err := checkedAddU64(b.balanceLeft, plan.left); err != nil {
				return nil, err
			}
			if _, err := checkedAddU64(b.balanceRight, plan.right); err != nil {
				return nil, err
			}
			if _, err := checkedAddU64(b.providedLeft, plan.left); err != nil {
				return nil, err
			}
			if _, err := checkedAddU64(b.providedRight, plan.right); err != nil {
				return nil, err
			}
		}
	}

	entries := make([]ReceiptEntry, 0, len(plans))
	for _, plan := range plans {
		b := p.ensureBin(plan.binID, plan.price)
		b.deposit(plan.left, plan.right)
		entries = append(entries, ReceiptEntry{BinID: plan.binID, Left: plan.left, Right: plan.right})
	}
	p.reserveLeft.Join(coinLeft)
	p.reserveRight.Join(coinRight)

	logging.Logger().Debug().
		Str("pool", p.id.String()).
		Uint64("bins", binCount).
		Uint64("left", coinLeft.Value()).
		Uint64("right", coinRight.Value()).
		Uint64("now_ms", nowMs).
		Msg("liquidity provided")

	return &Receipt{poolID: p.id, depositTimeMs: nowMs, entries: entries}, nil
}
