package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/dan13ram/dfc-bridge-settler/common"
)

// PayoutAmount returns max(amount - amount*feeRate, 0) truncated to the
// precision DeFiChain can carry.
func PayoutAmount(amount decimal.Decimal, feeRate decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(feeRate)
	payout := amount.Sub(fee)
	if payout.IsNegative() {
		return decimal.Zero
	}
	return payout.Truncate(common.DefiChainDecimals)
}
