package models

import (
	"time"
)

type ServiceHealth struct {
	Name            string    `bson:"name" json:"name"`
	LastSyncTime    time.Time `bson:"last_sync_time" json:"last_sync_time"`
	NextSyncTime    time.Time `bson:"next_sync_time" json:"next_sync_time"`
	EthBlockNumber  string    `bson:"eth_block_number" json:"eth_block_number"`
	DefiChainHeight string    `bson:"defichain_height" json:"defichain_height"`
	Healthy         bool      `bson:"healthy" json:"healthy"`
}

type RunnerStatus struct {
	EthBlockNumber  string
	DefiChainHeight string
}
