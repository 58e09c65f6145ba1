package client

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	BridgeToDefiChainMethod = "bridgeToDeFiChain"
	BridgeToDefiChainEvent  = "BRIDGE_TO_DEFI_CHAIN"
)

const BridgeABIJSON = `[
	{"type":"function","name":"bridgeToDeFiChain","stateMutability":"payable","inputs":[
		{"name":"_defiAddress","type":"bytes"},
		{"name":"_tokenAddress","type":"address"},
		{"name":"_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"eoaAddressToNonce","stateMutability":"view","inputs":[
		{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"eip712Domain","stateMutability":"view","inputs":[],"outputs":[
		{"name":"fields","type":"bytes1"},
		{"name":"name","type":"string"},
		{"name":"version","type":"string"},
		{"name":"chainId","type":"uint256"},
		{"name":"verifyingContract","type":"address"},
		{"name":"salt","type":"bytes32"},
		{"name":"extensions","type":"uint256[]"}]},
	{"type":"event","name":"BRIDGE_TO_DEFI_CHAIN","anonymous":false,"inputs":[
		{"name":"defiAddress","type":"bytes","indexed":false},
		{"name":"tokenAddress","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":true},
		{"name":"timestamp","type":"uint256","indexed":true}]}
]`

const ERC20ABIJSON = `[
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var (
	BridgeABI abi.ABI
	ERC20ABI  abi.ABI
)

func init() {
	var err error
	BridgeABI, err = abi.JSON(strings.NewReader(BridgeABIJSON))
	if err != nil {
		panic(err)
	}
	ERC20ABI, err = abi.JSON(strings.NewReader(ERC20ABIJSON))
	if err != nil {
		panic(err)
	}
}
