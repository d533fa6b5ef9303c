// Package liquiditybook implements a discrete-bin concentrated-liquidity
// market maker. A pool exchanges two assets through a ladder of price
// bins; swaps walk the ladder outward from the active bin, liquidity
// providers deposit into a bin range and redeem a receipt for principal
// plus the fees their share earned after the deposit.
package liquiditybook

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/liqbook/liquidity-book-go/clock"
	"github.com/liqbook/liquidity-book-go/coin"
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
	"github.com/liqbook/liquidity-book-go/logging"
)

// FirstBinID is the id of the bin created with the pool. Starting in the
// middle of the u64 range leaves room for arbitrarily many bins on both
// sides.
const FirstBinID uint64 = 1 << 63

// Pool owns the bin ladder and the deposited reserves for one asset
// pair. The type parameters are phantom tags pairing the pool with its
// coins at compile time.
//
// Every mutating operation runs under the pool lock and either commits
// completely or leaves the pool untouched.
type Pool[L, R any] struct {
	mu sync.Mutex

	id         uuid.UUID
	binStepBps uint64
	feeBps     uint64

	bins        map[uint64]*Bin
	activeBinID uint64

	reserveLeft  coin.Coin[L]
	reserveRight coin.Coin[R]

	clk clock.Clock
}

// NewPool creates a pool with a single empty bin at startingPrice.
// The requested fee is clamped to shared.MaxFeeBps. Timestamps for fee
// entries are read from clk; pass clock.System{} outside of tests.
func NewPool[L, R any](binStepBps uint64, startingPrice lbmath.FP, feeBps uint64, clk clock.Clock) (*Pool[L, R], error) {
	if startingPrice.IsZero() {
		return nil, ErrZeroPrice
	}
	if clk == nil {
		clk = clock.System{}
	}
	if feeBps > shared.MaxFeeBps {
		feeBps = shared.MaxFeeBps
	}
	p := &Pool[L, R]{
		id:          uuid.New(),
		binStepBps:  binStepBps,
		feeBps:      feeBps,
		bins:        map[uint64]*Bin{FirstBinID: newBin(startingPrice)},
		activeBinID: FirstBinID,
		clk:         clk,
	}
	logging.Logger().Debug().
		Str("pool", p.id.String()).
		Uint64("bin_step_bps", binStepBps).
		Uint64("fee_bps", feeBps).
		Str("price", startingPrice.String()).
		Msg("pool created")
	return p, nil
}

func (p *Pool[L, R]) ID() uuid.UUID {
	return p.id
}

func (p *Pool[L, R]) BinStepBps() uint64 {
	return p.binStepBps
}

func (p *Pool[L, R]) FeeBps() uint64 {
	return p.feeBps
}

func (p *Pool[L, R]) ActiveBinID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeBinID
}

func (p *Pool[L, R]) ActivePrice() lbmath.FP {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bins[p.activeBinID].price
}

// GetBin returns a snapshot of the bin at id.
func (p *Pool[L, R]) GetBin(id uint64) (*Bin, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.bins[id]
	if !ok {
		return nil, false
	}
	return b.clone(), true
}

// BinIDs returns the ids of all live bins in ascending order.
func (p *Pool[L, R]) BinIDs() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]uint64, 0, len(p.bins))
	for id := range p.bins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (p *Pool[L, R]) BinCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bins)
}

// Reserves reports the total deposited inventory held by the pool.
func (p *Pool[L, R]) Reserves() (left, right uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reserveLeft.Value(), p.reserveRight.Value()
}

func (p *Pool[L, R]) activeBin() *Bin {
	return p.bins[p.activeBinID]
}

// setActiveBin moves the active pointer, but only onto a live bin.
func (p *Pool[L, R]) setActiveBin(id uint64) bool {
	if _, ok := p.bins[id]; !ok {
		return false
	}
	p.activeBinID = id
	return true
}

func (p *Pool[L, R]) ensureBin(id uint64, price lbmath.FP) *Bin {
	b, ok := p.bins[id]
	if !ok {
		b = newBin(price)
		p.bins[id] = b
	}
	return b
}

func checkedAddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, lbmath.ErrOverflow
	}
	return sum, nil
}
