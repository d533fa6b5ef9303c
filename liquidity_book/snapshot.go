package liquiditybook

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/google/uuid"

	"github.com/liqbook/liquidity-book-go/clock"
	"github.com/liqbook/liquidity-book-go/coin"
	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
)

// BinState is the persisted form of a bin.
type BinState struct {
	ID            uint64
	PriceMantissa *big.Int
	BalanceLeft   uint64
	BalanceRight  uint64
	ProvidedLeft  uint64
	ProvidedRight uint64
	FeeLogLeft    []FeeEntry
	FeeLogRight   []FeeEntry
}

// PoolState is the persisted form of a pool: everything the accounting
// model owns. Deposited assets are represented by their amounts; a host
// with real custody re-attaches the backing assets on restore.
type PoolState struct {
	ID           uuid.UUID
	BinStepBps   uint64
	FeeBps       uint64
	ActiveBinID  uint64
	ReserveLeft  uint64
	ReserveRight uint64
	Bins         []BinState
}

// Snapshot captures the pool state under the pool lock.
func (p *Pool[L, R]) Snapshot() *PoolState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &PoolState{
		ID:           p.id,
		BinStepBps:   p.binStepBps,
		FeeBps:       p.feeBps,
		ActiveBinID:  p.activeBinID,
		ReserveLeft:  p.reserveLeft.Value(),
		ReserveRight: p.reserveRight.Value(),
		Bins:         make([]BinState, 0, len(p.bins)),
	}
	for id, b := range p.bins {
		s.Bins = append(s.Bins, BinState{
			ID:            id,
			PriceMantissa: b.price.Mantissa(),
			BalanceLeft:   b.balanceLeft,
			BalanceRight:  b.balanceRight,
			ProvidedLeft:  b.providedLeft,
			ProvidedRight: b.providedRight,
			FeeLogLeft:    b.FeeLogLeft(),
			FeeLogRight:   b.FeeLogRight(),
		})
	}
	sort.Slice(s.Bins, func(i, j int) bool { return s.Bins[i].ID < s.Bins[j].ID })
	return s
}

// RestorePool rebuilds a pool from a snapshot.
func RestorePool[L, R any](s *PoolState, clk clock.Clock) (*Pool[L, R], error) {
	if clk == nil {
		clk = clock.System{}
	}
	p := &Pool[L, R]{
		id:           s.ID,
		binStepBps:   s.BinStepBps,
		feeBps:       s.FeeBps,
		activeBinID:  s.ActiveBinID,
		bins:         make(map[uint64]*Bin, len(s.Bins)),
		reserveLeft:  coin.Mint[L](s.ReserveLeft),
		reserveRight: coin.Mint[R](s.ReserveRight),
		clk:          clk,
	}
	for _, bs := range s.Bins {
		b := newBin(lbmath.FromMantissa(bs.PriceMantissa))
		b.balanceLeft = bs.BalanceLeft
		b.balanceRight = bs.BalanceRight
		b.providedLeft = bs.ProvidedLeft
		b.providedRight = bs.ProvidedRight
		b.feeLogLeft = append([]FeeEntry(nil), bs.FeeLogLeft...)
		b.feeLogRight = append([]FeeEntry(nil), bs.FeeLogRight...)
		p.bins[bs.ID] = b
	}
	if _, ok := p.bins[p.activeBinID]; !ok {
		return nil, fmt.Errorf("restore pool %s: active bin %d not in snapshot", s.ID, s.ActiveBinID)
	}
	return p, nil
}
