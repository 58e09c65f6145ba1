package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
)

type DecodedCall struct {
	Name string
	Args map[string]interface{}
}

// BridgeCall is a decoded bridgeToDeFiChain invocation.
type BridgeCall struct {
	DefiAddress  string
	TokenAddress common.Address
	Amount       *big.Int
}

func (c *BridgeCall) IsNative() bool {
	return c.TokenAddress == (common.Address{})
}

func DecodeCall(data []byte) (*DecodedCall, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("call data too short: %d bytes", len(data))
	}

	method, err := eth.BridgeABI.MethodById(data[:4])
	if err != nil {
		return nil, err
	}

	args := make(map[string]interface{})
	if err := method.Inputs.UnpackIntoMap(args, data[4:]); err != nil {
		return nil, err
	}

	return &DecodedCall{Name: method.Name, Args: args}, nil
}

// ValidateBridgeCall checks that tx is a successful bridgeToDeFiChain call
// sent to the configured bridge contract. A nil receipt skips the revert check.
func ValidateBridgeCall(tx *types.Transaction, receipt *types.Receipt, bridgeAddress common.Address) (*BridgeCall, error) {
	txHash := tx.Hash().Hex()

	if tx.To() == nil || *tx.To() != bridgeAddress {
		return nil, appcommon.NewInvalidTransactionError(txHash, "unexpected contract address")
	}

	call, err := DecodeCall(tx.Data())
	if err != nil {
		return nil, appcommon.NewInvalidTransactionError(txHash, "unable to decode call data")
	}
	if call.Name != eth.BridgeToDefiChainMethod {
		return nil, appcommon.NewInvalidTransactionError(txHash, "unexpected function selector")
	}

	if receipt != nil && receipt.Status == types.ReceiptStatusFailed {
		return nil, appcommon.NewInvalidTransactionError(txHash, "transaction reverted")
	}

	defiAddress, ok := call.Args["_defiAddress"].([]byte)
	if !ok || len(defiAddress) == 0 {
		return nil, appcommon.NewInvalidTransactionError(txHash, "missing recipient address")
	}
	tokenAddress, ok := call.Args["_tokenAddress"].(common.Address)
	if !ok {
		return nil, appcommon.NewInvalidTransactionError(txHash, "missing token address")
	}
	amount, ok := call.Args["_amount"].(*big.Int)
	if !ok {
		return nil, appcommon.NewInvalidTransactionError(txHash, "missing amount")
	}

	result := &BridgeCall{
		DefiAddress:  strings.TrimSpace(string(defiAddress)),
		TokenAddress: tokenAddress,
		Amount:       new(big.Int).Set(amount),
	}
	if result.IsNative() {
		result.Amount = new(big.Int).Set(tx.Value())
	}
	if result.Amount.Sign() <= 0 {
		return nil, appcommon.NewInvalidTransactionError(txHash, "zero amount")
	}

	return result, nil
}
