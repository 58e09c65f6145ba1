package app

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
	log "github.com/sirupsen/logrus"
)

// CreateOperatorSigner returns the signer used for claim authorizations.
// A raw private key wins over a mnemonic, which wins over a KMS key.
func CreateOperatorSigner(config models.EthereumConfig) (common.Signer, error) {
	if config.PrivateKey != "" {
		return common.NewPrivateKeySigner(config.PrivateKey)
	}
	if config.Mnemonic != "" {
		return common.NewMnemonicSigner(config.Mnemonic)
	}
	if config.GcpKmsKeyName != "" {
		return common.NewGcpKmsSigner(config.GcpKmsKeyName)
	}
	return nil, fmt.Errorf("private key, mnemonic and gcp kms key name are all empty")
}

// ResolvePayoutKey returns the WIF that signs DeFiChain payouts and checks it
// belongs to the configured network.
func ResolvePayoutKey(config models.DefiChainConfig) (*btcutil.WIF, error) {
	params, err := common.DefiChainParams(config.Network)
	if err != nil {
		return nil, err
	}

	var wif *btcutil.WIF
	if config.PayoutWIF != "" {
		wif, err = btcutil.DecodeWIF(config.PayoutWIF)
		if err != nil {
			return nil, fmt.Errorf("error decoding payout wif: %w", err)
		}
	} else if config.Mnemonic != "" {
		wif, err = common.DefiChainWIFFromMnemonic(config.Mnemonic, params)
		if err != nil {
			return nil, fmt.Errorf("error deriving payout key: %w", err)
		}
	} else {
		return nil, fmt.Errorf("payout wif and mnemonic are both empty")
	}

	if !wif.IsForNet(params) {
		return nil, fmt.Errorf("payout key is not for network %s", config.Network)
	}

	log.Debug("[SIGNER] Resolved defichain payout key for network ", params.Name)
	return wif, nil
}
