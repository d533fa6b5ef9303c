package liquiditybook

import (
	"github.com/liqbook/liquidity-book-go/coin"
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
	"github.com/liqbook/liquidity-book-go/logging"
)

// swapLeg is one bin's worth of a planned swap. in is what the caller
// pays into the bin (principal plus fee, input-side units), out is what
// the bin pays back, drained marks the output side hitting zero.
type swapLeg struct {
	binID      uint64
	in         uint64
	out        uint64
	fee        uint64
	sizeAsLeft uint64
	drained    bool
}

type swapPlan struct {
	legs        []swapLeg
	totalOut    uint64
	totalFee    uint64
	endActiveID uint64
}

// QuoteResult is the outcome of a hypothetical swap.
type QuoteResult struct {
	AmountOut   uint64
	TotalFee    uint64
	EndActiveID uint64
}

// SwapLeftToRight sells the whole input coin for right-side units,
// walking bins upward from the active bin. The input is consumed in
// full or the swap fails with ErrInsufficientLiquidity and no effect.
func (p *Pool[L, R]) SwapLeftToRight(in coin.Coin[L]) (coin.Coin[R], error) {
	return p.SwapLeftToRightAt(in, p.clk.NowMs())
}

// SwapLeftToRightAt is SwapLeftToRight with an explicit fee timestamp.
func (p *Pool[L, R]) SwapLeftToRightAt(in coin.Coin[L], nowMs uint64) (coin.Coin[R], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.planSwap(shared.TradeDirectionLeftToRight, in.Value())
	if err != nil {
		return coin.Zero[R](), err
	}

	out, err := p.reserveRight.Split(plan.totalOut)
	if err != nil {
		return coin.Zero[R](), err
	}
	p.reserveLeft.Join(in)
	for _, leg := range plan.legs {
		b := p.bins[leg.binID]
		b.balanceLeft += leg.in
		b.balanceRight -= leg.out
		if leg.fee > 0 {
			b.feeLogLeft = append(b.feeLogLeft, FeeEntry{
				Amount:             leg.fee,
				TimestampMs:        nowMs,
				TotalBinSizeAsLeft: leg.sizeAsLeft,
			})
		}
	}
	p.setActiveBin(plan.endActiveID)

	logging.Logger().Debug().
		Str("pool", p.id.String()).
		Uint64("in_left", in.Value()).
		Uint64("out_right", plan.totalOut).
		Uint64("fee", plan.totalFee).
		Int("legs", len(plan.legs)).
		Msg("swap left to right")

	return out, nil
}

// SwapRightToLeft is the mirror walk: sells right-side units for left,
// crossing bins downward.
func (p *Pool[L, R]) SwapRightToLeft(in coin.Coin[R]) (coin.Coin[L], error) {
	return p.SwapRightToLeftAt(in, p.clk.NowMs())
}

// SwapRightToLeftAt is SwapRightToLeft with an explicit fee timestamp.
func (p *Pool[L, R]) SwapRightToLeftAt(in coin.Coin[R], nowMs uint64) (coin.Coin[L], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.planSwap(shared.TradeDirectionRightToLeft, in.Value())
	if err != nil {
		return coin.Zero[L](), err
	}

	out, err := p.reserveLeft.Split(plan.totalOut)
	if err != nil {
		return coin.Zero[L](), err
	}
	p.reserveRight.Join(in)
	for _, leg := range plan.legs {
		b := p.bins[leg.binID]
		b.balanceRight += leg.in
		b.balanceLeft -= leg.out
		if leg.fee > 0 {
			b.feeLogRight = append(b.feeLogRight, FeeEntry{
				Amount:             leg.fee,
				TimestampMs:        nowMs,
				TotalBinSizeAsLeft: leg.sizeAsLeft,
			})
		}
	}
	p.setActiveBin(plan.endActiveID)

	logging.Logger().Debug().
		Str("pool", p.id.String()).
		Uint64("in_right", in.Value()).
		Uint64("out_left", plan.totalOut).
		Uint64("fee", plan.totalFee).
		Int("legs", len(plan.legs)).
		Msg("swap right to left")

	return out, nil
}

// QuoteLeftToRight prices a left-to-right swap without touching the pool.
func (p *Pool[L, R]) QuoteLeftToRight(amountIn uint64) (QuoteResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, err := p.planSwap(shared.TradeDirectionLeftToRight, amountIn)
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{AmountOut: plan.totalOut, TotalFee: plan.totalFee, EndActiveID: plan.endActiveID}, nil
}

// QuoteRightToLeft prices a right-to-left swap without touching the pool.
func (p *Pool[L, R]) QuoteRightToLeft(amountIn uint64) (QuoteResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, err := p.planSwap(shared.TradeDirectionRightToLeft, amountIn)
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{AmountOut: plan.totalOut, TotalFee: plan.totalFee, EndActiveID: plan.endActiveID}, nil
}

// planSwap walks the bin ladder against read-only state and produces the
// legs a commit will apply. The caller holds the pool lock.
//
// Per leg, the fee is charged on the input side. An uncapped leg takes
// fee = floor(rate * remaining) off the input and converts the rest at
// the bin price. A leg capped by the bin's inventory instead fixes the
// output at that inventory, derives the principal from it, and inverts
// the fee equation (principal / (1 - rate), rounded down)
// so the fee is proportional to what the bin can actually deliver.
func (p *Pool[L, R]) planSwap(direction shared.TradeDirection, amountIn uint64) (swapPlan, error) {
	feeRate, err := lbmath.FromFraction(p.feeBps, shared.BasisPointMax)
	if err != nil {
		return swapPlan{}, err
	}
	feeInverse, err := lbmath.FromFraction(shared.BasisPointMax-p.feeBps, shared.BasisPointMax)
	if err != nil {
		return swapPlan{}, err
	}

	plan := swapPlan{endActiveID: p.activeBinID}
	remaining := amountIn
	cur := p.activeBinID

	for remaining > 0 {
		b := p.bins[cur]

		outSide := b.balanceRight
		if direction == shared.TradeDirectionRightToLeft {
			outSide = b.balanceLeft
		}
		if outSide == 0 {
			next, ok := p.neighborID(cur, direction)
			if !ok {
				return swapPlan{}, ErrInsufficientLiquidity
			}
			cur = next
			plan.endActiveID = cur
			continue
		}

		fee, err := feeRate.MulU64(remaining)
		if err != nil {
			return swapPlan{}, err
		}
		out, err := convertIn(b.price, direction, remaining-fee)
		if err != nil {
			return swapPlan{}, err
		}

		leg := swapLeg{binID: cur}
		if out > outSide {
			// Bin-capped: deliver the whole inventory, charge fee on
			// top of the principal that buys it.
			out = outSide
			principal, err := convertOut(b.price, direction, out)
			if err != nil {
				return swapPlan{}, err
			}
			gross, err := feeInverse.DivU64(principal)
			if err != nil {
				return swapPlan{}, err
			}
			fee = gross - principal
			if gross > remaining {
				return swapPlan{}, lbmath.ErrOverflow
			}
			leg.in = gross
			leg.out = out
			leg.fee = fee
			leg.drained = true
			remaining -= gross
		} else {
			leg.in = remaining
			leg.out = out
			leg.fee = fee
			leg.drained = out == outSide
			remaining = 0
		}

		inSideBalance := b.balanceLeft
		if direction == shared.TradeDirectionRightToLeft {
			inSideBalance = b.balanceRight
		}
		if _, err := checkedAddU64(inSideBalance, leg.in); err != nil {
			return swapPlan{}, err
		}

		leg.sizeAsLeft, err = b.sizeAsLeft()
		if err != nil {
			return swapPlan{}, err
		}
		plan.totalOut, err = checkedAddU64(plan.totalOut, leg.out)
		if err != nil {
			return swapPlan{}, err
		}
		plan.totalFee, err = checkedAddU64(plan.totalFee, leg.fee)
		if err != nil {
			return swapPlan{}, err
		}
		plan.legs = append(plan.legs, leg)

		if leg.drained {
			next, ok := p.neighborID(cur, direction)
			if remaining > 0 {
				if !ok {
					return swapPlan{}, ErrInsufficientLiquidity
				}
				cur = next
				plan.endActiveID = cur
			} else if ok {
				plan.endActiveID = next
			}
		}
	}
	return plan, nil
}

// neighborID is the next bin id along the walk, if a bin lives there.
func (p *Pool[L, R]) neighborID(cur uint64, direction shared.TradeDirection) (uint64, bool) {
	next := cur + 1
	if direction == shared.TradeDirectionRightToLeft {
		next = cur - 1
	}
	_, ok := p.bins[next]
	return next, ok
}

// convertIn turns post-fee input units into output units at the bin price.
func convertIn(price lbmath.FP, direction shared.TradeDirection, amount uint64) (uint64, error) {
	if direction == shared.TradeDirectionLeftToRight {
		return price.MulU64(amount)
	}
	return price.DivU64(amount)
}

// convertOut turns output units back into input-side principal.
func convertOut(price lbmath.FP, direction shared.TradeDirection, amount uint64) (uint64, error) {
	if direction == shared.TradeDirectionLeftToRight {
		return price.DivU64(amount)
	}
	return price.MulU64(amount)
}
