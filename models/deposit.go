package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionDeposits = "bridge_deposits"
)

type DepositStatus string

const (
	DepositStatusNotConfirmed DepositStatus = "NOT_CONFIRMED"
	DepositStatusConfirmed    DepositStatus = "CONFIRMED"
)

// BridgeDeposit tracks one source chain deposit from first sighting until its
// payout is final on DeFiChain. Empty strings stand for unset hashes.
type BridgeDeposit struct {
	Id                  *primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SourceTxHash        string              `bson:"source_tx_hash" json:"source_tx_hash"`
	Status              DepositStatus       `bson:"status" json:"status"`
	SourceBlockNumber   int64               `bson:"source_block_number" json:"source_block_number"`
	Confirmations       int64               `bson:"confirmations" json:"confirmations"`
	Amount              string              `bson:"amount" json:"amount"`
	TokenSymbol         string              `bson:"token_symbol" json:"token_symbol"`
	TokenAddress        string              `bson:"token_address" json:"token_address"`
	RecipientAddress    string              `bson:"recipient_address" json:"recipient_address"`
	PayoutAmount        string              `bson:"payout_amount" json:"payout_amount"`
	PayoutTxHash        string              `bson:"payout_tx_hash" json:"payout_tx_hash"`
	PendingPayoutTxHash string              `bson:"pending_payout_tx_hash" json:"pending_payout_tx_hash"`
	PendingPayoutRawTx  string              `bson:"pending_payout_raw_tx" json:"-"`
	BlockHeight         int64               `bson:"block_height" json:"block_height"`
	BlockHash           string              `bson:"block_hash" json:"block_hash"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}
