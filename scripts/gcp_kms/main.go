package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/eth/util"
)

// Main Function
func main() {
	GoogleKeyName := os.Getenv("GCP_KMS_KEY_NAME")

	fmt.Println("Google KMS Key Name: ", GoogleKeyName)
	if GoogleKeyName == "" {
		log.Fatalf("GCP KMS Key Name not set")
	}

	signer, err := common.NewGcpKmsSigner(GoogleKeyName)
	if err != nil {
		log.Fatalf("failed to create GCP KMS signer: %v", err)
	}
	defer signer.Destroy()

	fmt.Println("Eth Address: ", signer.EthAddress())

	// example claim against a placeholder bridge deployment
	domain := eth.DomainData{
		Name:              "BRIDGE",
		Version:           "1",
		ChainId:           big.NewInt(11155111),
		VerifyingContract: ethcommon.HexToAddress("0x96E07fD9A5CE8B8A6DB6A2adB63da05eC9D1b6a0"),
	}
	claim := util.ClaimData{
		To:           signer.EthAddress(),
		Amount:       big.NewInt(1_000_000),
		Nonce:        big.NewInt(0),
		Deadline:     big.NewInt(time.Now().Add(24 * time.Hour).Unix()),
		TokenAddress: ethcommon.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
	}

	digest, err := util.ClaimDigest(domain, claim)
	if err != nil {
		log.Fatalf("failed to compute claim digest: %v", err)
	}
	fmt.Printf("Claim Digest: %x\n", digest)

	signature, err := util.SignClaim(domain, claim, signer)
	if err != nil {
		log.Fatalf("failed to sign claim: %v", err)
	}
	fmt.Printf("Claim Signature: %x\n", signature)
}
