package consideration

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	MaxDecimals = 18
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

// AmountToWei converts a human-readable token amount to integer base units.
// Fractional dust beyond the token's precision is truncated.
func AmountToWei(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must be positive, got: %s", amount)}
	}
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	wei := amount.Shift(decimals).Truncate(0).BigInt()
	if wei.Sign() <= 0 {
		return nil, &InvalidParamError{Message: "amount rounds to zero base units"}
	}

	return wei, nil
}

// AmountFromWei converts integer base units back to a human-readable amount.
func AmountFromWei(wei *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(wei, 0).Shift(-decimals)
}
