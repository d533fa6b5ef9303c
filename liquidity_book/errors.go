package liquiditybook

import "errors"

var (
	// ErrInsufficientLiquidity: a swap has input remaining and no adjacent
	// bin left to cross into.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrEvenBinCount: uniform provisioning needs an odd bin count so the
	// range centers on the active bin.
	ErrEvenBinCount = errors.New("bin count must be odd")

	// ErrNoLiquidity: both provisioning coins are zero.
	ErrNoLiquidity = errors.New("no liquidity provided")

	// ErrInvalidPoolID: the receipt was minted by a different pool.
	ErrInvalidPoolID = errors.New("receipt pool id mismatch")

	// ErrZeroPrice: a pool cannot start at price zero.
	ErrZeroPrice = errors.New("starting price must be positive")
)
