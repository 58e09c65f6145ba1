package util

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
)

const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testDomain() eth.DomainData {
	return eth.DomainData{
		Name:              "BRIDGE",
		Version:           "1",
		ChainId:           big.NewInt(11155111),
		VerifyingContract: testBridgeAddress,
	}
}

func testClaim() ClaimData {
	return ClaimData{
		To:           common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Amount:       big.NewInt(99700000),
		Nonce:        big.NewInt(3),
		Deadline:     big.NewInt(1760659200),
		TokenAddress: testTokenAddress,
	}
}

func TestClaimDigest(t *testing.T) {

	t.Run("Deterministic", func(t *testing.T) {
		first, err := ClaimDigest(testDomain(), testClaim())
		assert.Nil(t, err)
		second, err := ClaimDigest(testDomain(), testClaim())
		assert.Nil(t, err)
		assert.Len(t, first, 32)
		assert.Equal(t, first, second)
	})

	t.Run("Binds every field", func(t *testing.T) {
		base, _ := ClaimDigest(testDomain(), testClaim())

		claim := testClaim()
		claim.Nonce = big.NewInt(4)
		changed, _ := ClaimDigest(testDomain(), claim)
		assert.NotEqual(t, base, changed)

		claim = testClaim()
		claim.Deadline = big.NewInt(1760745600)
		changed, _ = ClaimDigest(testDomain(), claim)
		assert.NotEqual(t, base, changed)

		domain := testDomain()
		domain.ChainId = big.NewInt(1)
		changed, _ = ClaimDigest(domain, testClaim())
		assert.NotEqual(t, base, changed)
	})
}

func TestSignClaim(t *testing.T) {
	signer, err := appcommon.NewPrivateKeySigner(testPrivateKey)
	assert.Nil(t, err)

	signature, err := SignClaim(testDomain(), testClaim(), signer)
	assert.Nil(t, err)
	assert.Len(t, signature, 65)
	assert.True(t, signature[64] == 27 || signature[64] == 28)

	digest, _ := ClaimDigest(testDomain(), testClaim())
	sig := make([]byte, 65)
	copy(sig, signature)
	sig[64] -= 27
	pubKey, err := crypto.SigToPub(digest, sig)
	assert.Nil(t, err)
	assert.Equal(t, signer.EthAddress(), crypto.PubkeyToAddress(*pubKey))

	again, err := SignClaim(testDomain(), testClaim(), signer)
	assert.Nil(t, err)
	assert.Equal(t, signature, again)
}
