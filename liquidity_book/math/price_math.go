package math

import (
	"math/big"

	"github.com/liqbook/liquidity-book-go/liquidity_book/shared"
)

// StepFactor returns 1 + binStepBps/10000, the multiplicative gap between
// two neighboring bin prices. Exactly representable: 10^18 is divisible
// by 10^4.
func StepFactor(binStepBps uint64) FP {
	n := new(big.Int).SetUint64(shared.BasisPointMax + binStepBps)
	n.Mul(n, fpScale)
	n.Quo(n, big.NewInt(shared.BasisPointMax))
	return FP{m: n}
}

// AmountAsLeft expresses a (left, right) pair as a single left-denominated
// size: left + floor(right / price). The right leg truncates to zero
// whenever price > right, so comparisons stay meaningful only in the
// price <= 1 regime typical of left-quoted pools.
func AmountAsLeft(price FP, left, right uint64) (uint64, error) {
	rightAsLeft, err := price.DivU64(right)
	if err != nil {
		return 0, err
	}
	out := new(big.Int).Add(new(big.Int).SetUint64(left), new(big.Int).SetUint64(rightAsLeft))
	return toU64(out)
}
