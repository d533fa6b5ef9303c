// Package config parses pool parameters from JSON documents.
package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	lbmath "github.com/liqbook/liquidity-book-go/liquidity_book/math"
)

var ErrInvalidConfig = errors.New("config: invalid pool config")

// PoolConfig is the parameter set a host needs to create a pool.
type PoolConfig struct {
	BinStepBps    uint64
	FeeBps        uint64
	StartingPrice lbmath.FP
}

// Parse reads a pool config of the form
//
//	{"bin_step_bps": 20, "fee_bps": 20, "starting_price": "0.5"}
//
// starting_price is a decimal string and must be positive.
func Parse(data []byte) (*PoolConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidConfig)
	}

	binStep := gjson.GetBytes(data, "bin_step_bps")
	if !binStep.Exists() {
		return nil, fmt.Errorf("%w: missing bin_step_bps", ErrInvalidConfig)
	}
	feeBps := gjson.GetBytes(data, "fee_bps")
	if !feeBps.Exists() {
		return nil, fmt.Errorf("%w: missing fee_bps", ErrInvalidConfig)
	}
	priceStr := gjson.GetBytes(data, "starting_price")
	if !priceStr.Exists() {
		return nil, fmt.Errorf("%w: missing starting_price", ErrInvalidConfig)
	}

	price, err := decimal.NewFromString(priceStr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: starting_price: %v", ErrInvalidConfig, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: starting_price must be positive", ErrInvalidConfig)
	}
	fp, err := lbmath.FromDecimal(price)
	if err != nil {
		return nil, fmt.Errorf("%w: starting_price: %v", ErrInvalidConfig, err)
	}

	return &PoolConfig{
		BinStepBps:    binStep.Uint(),
		FeeBps:        feeBps.Uint(),
		StartingPrice: fp,
	}, nil
}
