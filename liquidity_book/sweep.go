package liquiditybook

import "github.com/liqbook/liquidity-book-go/logging"

// CleanEmptyBins removes every non-active bin with no inventory and no
// outstanding provided principal. Long-lived pools call this to keep the
// bin map bounded; it never runs as part of a swap or withdrawal.
func (p *Pool[L, R]) CleanEmptyBins() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for id, b := range p.bins {
		if id == p.activeBinID {
			continue
		}
		if b.isEmpty() {
			delete(p.bins, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Logger().Debug().
			Str("pool", p.id.String()).
			Int("removed", removed).
			Msg("empty bins swept")
	}
	return removed
}
