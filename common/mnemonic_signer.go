package common

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type MnemonicSigner struct {
	ethAddress common.Address
	ethPrivKey *ecdsa.PrivateKey
}

var _ Signer = &MnemonicSigner{}

func NewMnemonicSigner(mnemonic string) (*MnemonicSigner, error) {
	ethPrivKey, err := EthereumPrivateKeyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to create ethereum private key: %w", err)
	}
	return newPrivateKeySigner(ethPrivKey), nil
}

// NewPrivateKeySigner builds a signer from a hex encoded secp256k1 key.
func NewPrivateKeySigner(hexKey string) (*MnemonicSigner, error) {
	ethPrivKey, err := crypto.HexToECDSA(Remove0xPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ethereum private key: %w", err)
	}
	return newPrivateKeySigner(ethPrivKey), nil
}

func newPrivateKeySigner(ethPrivKey *ecdsa.PrivateKey) *MnemonicSigner {
	return &MnemonicSigner{
		ethPrivKey: ethPrivKey,
		ethAddress: crypto.PubkeyToAddress(ethPrivKey.PublicKey),
	}
}

func (s *MnemonicSigner) Destroy() {
	// nothing to do
}

func (s *MnemonicSigner) EthSign(data []byte) ([]byte, error) {
	digest := data
	if len(digest) != 32 {
		digest = crypto.Keccak256(data)
	}
	hash := common.BytesToHash(digest)
	signature, err := crypto.Sign(hash[:], s.ethPrivKey)
	if err != nil {
		return nil, err
	}

	if signature[64] == 0 || signature[64] == 1 {
		signature[64] += 27
	}

	return signature, nil
}

func (s *MnemonicSigner) EthAddress() common.Address {
	return s.ethAddress
}
