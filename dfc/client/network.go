package client

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// DecodeAddress parses a DFC address and rejects addresses of other networks.
func DecodeAddress(address string, params *chaincfg.Params) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("invalid defichain address %s: %w", address, err)
	}
	if !decoded.IsForNet(params) {
		return nil, fmt.Errorf("address %s is not for network %s", address, params.Name)
	}
	return decoded, nil
}
