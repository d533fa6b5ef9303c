package liquiditybook

import (
	"github.com/liqbook/liquidity-book-go/coin"
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
	"github.com/liqbook/liquidity-book-go/logging"
)

// Withdraw redeems a receipt: per bin, the provider's principal plus a
// pro-rata share of every fee entry logged at or after the deposit
// timestamp. The receipt is consumed.
//
// A bin that traded heavily one way may no longer hold enough of the
// asset a provider put in; the missing part is then paid in the other
// asset at the bin price. A conversion shortfall of at most one unit is
// absorbed as rounding; a larger one leaves the fallback side untouched.
func (p *Pool[L, R]) Withdraw(receipt *Receipt) (coin.Coin[L], coin.Coin[R], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if receipt.poolID != p.id {
		return coin.Zero[L](), coin.Zero[R](), ErrInvalidPoolID
	}

	// Mutations run on bin copies and are installed only after the last
	// fallible step, so a failed withdrawal has no effect.
	staged := make(map[uint64]*Bin)
	var outLeft, outRight uint64

	for _, entry := range receipt.entries {
		b, ok := staged[entry.BinID]
		if !ok {
			orig, live := p.bins[entry.BinID]
			if !live {
				continue
			}
			b = orig.clone()
			staged[entry.BinID] = b
		}

		shareAsLeft, err := lbmath.AmountAsLeft(b.price, entry.Left, entry.Right)
		if err != nil {
			return coin.Zero[L](), coin.Zero[R](), err
		}

		feesLeft, err := consumeFees(&b.feeLogLeft, receipt.depositTimeMs, shareAsLeft)
		if err != nil {
			return coin.Zero[L](), coin.Zero[R](), err
		}
		feesRight, err := consumeFees(&b.feeLogRight, receipt.depositTimeMs, shareAsLeft)
		if err != nil {
			return coin.Zero[L](), coin.Zero[R](), err
		}

		// Left principal plus earned left fees, falling back to right
		// inventory at the bin price.
		payoutLeft, err := checkedAddU64(entry.Left, feesLeft)
		if err != nil {
			return coin.Zero[L](), coin.Zero[R](), err
		}
		paidLeft, shortLeft := takeUpTo(&b.balanceLeft, payoutLeft)
		outLeft += paidLeft
		if shortLeft > 0 {
			shortAsRight, err := b.price.MulU64(shortLeft)
			if err != nil {
				return coin.Zero[L](), coin.Zero[R](), err
			}
			outRight += takeWithinOne(&b.balanceRight, shortAsRight)
		}

		// Mirror for the right side.
		payoutRight, err := checkedAddU64(entry.Right, feesRight)
		if err != nil {
			return coin.Zero[L](), coin.Zero[R](), err
		}
		paidRight, shortRight := takeUpTo(&b.balanceRight, payoutRight)
		outRight += paidRight
		if shortRight > 0 {
			shortAsLeft, err := b.price.DivU64(shortRight)
			if err != nil {
				return coin.Zero[L](), coin.Zero[R](), err
			}
			outLeft += takeWithinOne(&b.balanceLeft, shortAsLeft)
		}

		b.providedLeft = saturatingSubU64(b.providedLeft, entry.Left)
		b.providedRight = saturatingSubU64(b.providedRight, entry.Right)

		// Last provider out drains whatever dust the rounding left.
		// Unclaimed fee entries go with it; nobody holds a share of
		// this bin anymore.
		if b.providedLeft == 0 && b.providedRight == 0 {
			outLeft += b.balanceLeft
			outRight += b.balanceRight
			b.balanceLeft = 0
			b.balanceRight = 0
			b.feeLogLeft = nil
			b.feeLogRight = nil
		}
	}

	coinLeft, err := p.reserveLeft.Split(outLeft)
	if err != nil {
		return coin.Zero[L](), coin.Zero[R](), err
	}
	coinRight, err := p.reserveRight.Split(outRight)
	if err != nil {
		p.reserveLeft.Join(coinLeft)
		return coin.Zero[L](), coin.Zero[R](), err
	}
	for id, b := range staged {
		p.bins[id] = b
	}
	receipt.consume()

	logging.Logger().Debug().
		Str("pool", p.id.String()).
		Uint64("out_left", outLeft).
		Uint64("out_right", outRight).
		Msg("liquidity withdrawn")

	return coinLeft, coinRight, nil
}

// consumeFees pays out the share of every entry logged at or after
// depositTimeMs, scanning newest to oldest and stopping at the first
// older entry. Paid entries shrink in place; an entry whose amount or
// remaining basis hits zero is dropped.
func consumeFees(log *[]FeeEntry, depositTimeMs uint64, shareAsLeft uint64) (uint64, error) {
	var earnedTotal uint64
	entries := *log
	for i := len(entries) - 1; i >= 0; i-- {
		e := &entries[i]
		if e.TimestampMs < depositTimeMs {
			break
		}
		earned, err := lbmath.MulDivU64(e.Amount, shareAsLeft, e.TotalBinSizeAsLeft, shared.RoundingDown)
		if err != nil {
			return 0, err
		}
		if earned > e.Amount {
			earned = e.Amount
		}
		earnedTotal, err = checkedAddU64(earnedTotal, earned)
		if err != nil {
			return 0, err
		}
		e.Amount -= earned
		e.TotalBinSizeAsLeft = saturatingSubU64(e.TotalBinSizeAsLeft, shareAsLeft)
		if e.Amount == 0 || e.TotalBinSizeAsLeft == 0 {
			entries = append(entries[:i], entries[i+1:]...)
		}
	}
	*log = entries
	return earnedTotal, nil
}

// takeUpTo removes up to amount from balance, reporting what was taken
// and what is still owed.
func takeUpTo(balance *uint64, amount uint64) (taken, short uint64) {
	if amount <= *balance {
		*balance -= amount
		return amount, 0
	}
	taken = *balance
	short = amount - *balance
	*balance = 0
	return taken, short
}

// takeWithinOne takes amount from balance, tolerating a one-unit
// shortfall. A deficit beyond one unit takes nothing.
func takeWithinOne(balance *uint64, amount uint64) uint64 {
	if amount <= *balance {
		*balance -= amount
		return amount
	}
	if amount-*balance <= 1 {
		taken := *balance
		*balance = 0
		return taken
	}
	return 0
}

func saturatingSubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
