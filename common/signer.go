package common

import (
	"github.com/ethereum/go-ethereum/common"
)

// Signer holds the operator key used for claim authorizations.
type Signer interface {
	EthSign(data []byte) ([]byte, error)
	EthAddress() common.Address
	Destroy()
}
