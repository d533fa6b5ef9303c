package liquiditybook

import (
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
)

// FeeEntry records one swap leg's fee inside a bin. Amount and
// TotalBinSizeAsLeft are consumed down by withdrawals; an entry vanishes
// once either reaches zero.
type FeeEntry struct {
	Amount             uint64
	TimestampMs        uint64
	TotalBinSizeAsLeft uint64
}

// Bin is a single price level: paired inventory at one fixed exchange
// rate, the outstanding provided principal, and the fee logs for each
// trade direction. Logs are ordered oldest to newest.
type Bin struct {
	price lbmath.FP

	balanceLeft  uint64
	balanceRight uint64

	providedLeft  uint64
	providedRight uint64

	feeLogLeft  []FeeEntry
	feeLogRight []FeeEntry
}

func newBin(price lbmath.FP) *Bin {
	return &Bin{price: price}
}

func (b *Bin) Price() lbmath.FP       { return b.price }
func (b *Bin) BalanceLeft() uint64    { return b.balanceLeft }
func (b *Bin) BalanceRight() uint64   { return b.balanceRight }
func (b *Bin) ProvidedLeft() uint64   { return b.providedLeft }
func (b *Bin) ProvidedRight() uint64  { return b.providedRight }
func (b *Bin) FeeLogLeft() []FeeEntry { return append([]FeeEntry(nil), b.feeLogLeft...) }
func (b *Bin) FeeLogRight() []FeeEntry {
	return append([]FeeEntry(nil), b.feeLogRight...)
}

func (b *Bin) deposit(left, right uint64) {
	b.balanceLeft += left
	b.balanceRight += right
	b.providedLeft += left
	b.providedRight += right
}

// sizeAsLeft is the bin's outstanding provided principal on the single
// left-denominated axis used for fee pro-rating.
func (b *Bin) sizeAsLeft() (uint64, error) {
	return lbmath.AmountAsLeft(b.price, b.providedLeft, b.providedRight)
}

func (b *Bin) isEmpty() bool {
	return b.balanceLeft == 0 && b.balanceRight == 0 &&
		b.providedLeft == 0 && b.providedRight == 0
}

func (b *Bin) clone() *Bin {
	out := *b
	out.feeLogLeft = append([]FeeEntry(nil), b.feeLogLeft...)
	out.feeLogRight = append([]FeeEntry(nil), b.feeLogRight...)
	return &out
}
