package models

type ChainType string

const (
	ChainTypeEthereum  ChainType = "ethereum"
	ChainTypeDefiChain ChainType = "defichain"
)
