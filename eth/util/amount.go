package util

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func FromBaseUnits(amount *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// ToBaseUnits scales a human amount to on-chain units, dropping any precision
// the token cannot represent.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}
