package util

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
)

const primaryType = "CLAIM"

var typesStandard = apitypes.Types{
	"EIP712Domain": {
		{
			Name: "name",
			Type: "string",
		},
		{
			Name: "version",
			Type: "string",
		},
		{
			Name: "chainId",
			Type: "uint256",
		},
		{
			Name: "verifyingContract",
			Type: "address",
		},
	},
	"CLAIM": {
		{
			Name: "to",
			Type: "address",
		},
		{
			Name: "amount",
			Type: "uint256",
		},
		{
			Name: "nonce",
			Type: "uint256",
		},
		{
			Name: "deadline",
			Type: "uint256",
		},
		{
			Name: "tokenAddress",
			Type: "address",
		},
	},
}

type ClaimData struct {
	To           common.Address
	Amount       *big.Int
	Nonce        *big.Int
	Deadline     *big.Int
	TokenAddress common.Address
}

func claimTypedData(domainData eth.DomainData, claim ClaimData) apitypes.TypedData {
	message := apitypes.TypedDataMessage{
		"to":           claim.To.String(),
		"amount":       claim.Amount.String(),
		"nonce":        claim.Nonce.String(),
		"deadline":     claim.Deadline.String(),
		"tokenAddress": claim.TokenAddress.String(),
	}

	domain := apitypes.TypedDataDomain{
		Name:              domainData.Name,
		Version:           domainData.Version,
		ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(domainData.ChainId)),
		VerifyingContract: domainData.VerifyingContract.String(),
	}

	return apitypes.TypedData{
		Types:       typesStandard,
		PrimaryType: primaryType,
		Domain:      domain,
		Message:     message,
	}
}

// ClaimDigest is the EIP-712 hash the bridge contract recovers the operator from.
func ClaimDigest(domainData eth.DomainData, claim ClaimData) ([]byte, error) {
	typedData := claimTypedData(domainData, claim)

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, err
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	return crypto.Keccak256(rawData), nil
}

func SignClaim(domainData eth.DomainData, claim ClaimData, signer appcommon.Signer) ([]byte, error) {
	sighash, err := ClaimDigest(domainData, claim)
	if err != nil {
		return nil, err
	}
	return signer.EthSign(sighash)
}
