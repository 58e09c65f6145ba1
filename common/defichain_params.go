package common

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

const (
	DefiChainCoinType = 1129
	DefiChainDecimals = 8

	DefiChainNetworkMainnet = "mainnet"
	DefiChainNetworkTestnet = "testnet"
	DefiChainNetworkRegtest = "regtest"
)

// Registry keys for chaincfg.Register. They never go on the wire.
const (
	defiChainMainNet wire.BitcoinNet = 0xe2caffe2
	defiChainTestNet wire.BitcoinNet = 0xe2caffe3
	defiChainRegTest wire.BitcoinNet = 0xe2caffe4
)

var (
	DefiChainMainNetParams = defiChainParams(chaincfg.MainNetParams, "defichain-mainnet", defiChainMainNet, 0x12, 0x5a, 0x80, "df")
	DefiChainTestNetParams = defiChainParams(chaincfg.TestNet3Params, "defichain-testnet", defiChainTestNet, 0x0f, 0x80, 0xef, "tf")
	DefiChainRegTestParams = defiChainParams(chaincfg.RegressionNetParams, "defichain-regtest", defiChainRegTest, 0x6f, 0xc4, 0xef, "bcrt")
)

// bech32 address decoding only accepts registered prefixes
func init() {
	for _, params := range []*chaincfg.Params{&DefiChainMainNetParams, &DefiChainTestNetParams, &DefiChainRegTestParams} {
		if err := chaincfg.Register(params); err != nil && !errors.Is(err, chaincfg.ErrDuplicateNet) {
			panic(err)
		}
	}
}

func defiChainParams(base chaincfg.Params, name string, net wire.BitcoinNet, pubKeyHashID byte, scriptHashID byte, privateKeyID byte, hrp string) chaincfg.Params {
	params := base
	params.Name = name
	params.Net = net
	params.PubKeyHashAddrID = pubKeyHashID
	params.ScriptHashAddrID = scriptHashID
	params.PrivateKeyID = privateKeyID
	params.Bech32HRPSegwit = hrp
	params.HDCoinType = DefiChainCoinType
	return params
}

func DefiChainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case DefiChainNetworkMainnet, "":
		return &DefiChainMainNetParams, nil
	case DefiChainNetworkTestnet:
		return &DefiChainTestNetParams, nil
	case DefiChainNetworkRegtest:
		return &DefiChainRegTestParams, nil
	}
	return nil, fmt.Errorf("unknown defichain network %q", network)
}
