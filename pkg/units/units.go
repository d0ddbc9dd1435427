// Package units converts between human-readable decimal token amounts and the
// fixed-point integer ledger units stored on-chain. USDC uses 6 decimals, so
// $1.50 is 1500000 ledger units. All monetary values crossing the RPC boundary
// are *big.Int ledger units; everything above it is decimal.Decimal.
package units

import (
	"errors"
	"math/big"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for monetary inputs that cannot be converted:
// negative values, or values rejected by caller-level policy (minimum stake).
var ErrInvalidAmount = errors.New("invalid amount")

// DefaultDecimals is the USDC token precision.
const DefaultDecimals int32 = 6

// Converter scales decimal amounts to and from integer ledger units at a fixed
// token precision. The zero value is not usable; construct with NewConverter.
type Converter struct {
	decimals int32
	scale    decimal.Decimal
}

// NewConverter returns a Converter for a token with the given number of
// decimals. Non-positive values fall back to DefaultDecimals.
func NewConverter(decimals int32) *Converter {
	if decimals <= 0 {
		decimals = DefaultDecimals
	}
	return &Converter{
		decimals: decimals,
		scale:    decimal.New(1, decimals),
	}
}

// Decimals reports the token precision the converter was built with.
func (c *Converter) Decimals() int32 {
	return c.decimals
}

// ToLedgerUnits converts a decimal token amount into integer ledger units,
// truncating any digits beyond the token precision toward zero. Amounts below
// zero fail with ErrInvalidAmount before any scaling happens.
func (c *Converter) ToLedgerUnits(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, pkgerrors.Wrapf(ErrInvalidAmount, "negative amount %s", amount)
	}
	return amount.Mul(c.scale).Truncate(0).BigInt(), nil
}

// FromLedgerUnits converts integer ledger units back into a decimal token
// amount. The conversion is exact: FromLedgerUnits(ToLedgerUnits(x)) == x for
// any x representable at the configured precision. A nil input is treated as
// zero.
func (c *Converter) FromLedgerUnits(amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -c.decimals)
}
