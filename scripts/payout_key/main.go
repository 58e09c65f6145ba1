package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/dfc/util"
)

// Prints the payout address and WIF derived from a mnemonic, for filling in
// defichain.payout_address.
func main() {
	var network string
	flag.StringVar(&network, "network", common.DefiChainNetworkMainnet, "defichain network")
	flag.Parse()

	mnemonic := os.Getenv("DFC_MNEMONIC")
	if mnemonic == "" {
		fmt.Printf("DFC_MNEMONIC is required\n")
		return
	}

	params, err := common.DefiChainParams(network)
	if err != nil {
		fmt.Printf("Error reading network params: %s\n", err)
		return
	}

	wif, err := common.DefiChainWIFFromMnemonic(mnemonic, params)
	if err != nil {
		fmt.Printf("Error deriving payout key: %s\n", err)
		return
	}

	address, err := util.P2WPKHAddress(wif, params)
	if err != nil {
		fmt.Printf("Error deriving payout address: %s\n", err)
		return
	}

	fmt.Printf("Network: %s\n", params.Name)
	fmt.Printf("Payout Address: %s\n", address.EncodeAddress())
	fmt.Printf("Payout WIF: %s\n", wif.String())
}
