package shared

import "math/big"

// Enums and limits shared by the liquidity_book packages.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type TradeDirection uint8

const (
	TradeDirectionLeftToRight TradeDirection = 0
	TradeDirectionRightToLeft TradeDirection = 1
)

const (
	BasisPointMax = 10_000

	// Trading fee is clamped to this at pool creation.
	MaxFeeBps = 50

	// Decimal places carried by a fixed-point mantissa.
	FPDecimals = 18
)

var (
	U64Max  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	U256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)
