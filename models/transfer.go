package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionTransfers = "transfers"
	CollectionCounters  = "counters"

	TransferSequenceName = "transfers"
)

type TransferFlow string

const (
	// instant settlement, advanced by a synchronous confirmation poll
	TransferFlowOrder TransferFlow = "order"
	// deferred settlement, advanced by the sweeper
	TransferFlowQueue TransferFlow = "queue"
)

type TransferStatus string

const (
	TransferStatusDraft           TransferStatus = "DRAFT"
	TransferStatusInProgress      TransferStatus = "IN_PROGRESS"
	TransferStatusCompleted       TransferStatus = "COMPLETED"
	TransferStatusError           TransferStatus = "ERROR"
	TransferStatusRejected        TransferStatus = "REJECTED"
	TransferStatusExpired         TransferStatus = "EXPIRED"
	TransferStatusRefundRequested TransferStatus = "REFUND_REQUESTED"
	TransferStatusRefundProcessed TransferStatus = "REFUND_PROCESSED"
	TransferStatusRefunded        TransferStatus = "REFUNDED"
)

type TransferRecord struct {
	ObjectId           *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Id                 int64               `bson:"id" json:"id"`
	Flow               TransferFlow        `bson:"flow" json:"flow"`
	SourceTxHash       string              `bson:"source_tx_hash" json:"source_tx_hash"`
	SourceChainStatus  DepositStatus       `bson:"source_chain_status" json:"source_chain_status"`
	Status             TransferStatus      `bson:"status" json:"status"`
	Amount             string              `bson:"amount" json:"amount"`
	TokenSymbol        string              `bson:"token_symbol" json:"token_symbol"`
	DestinationAddress string              `bson:"destination_address" json:"destination_address"`
	RefundAddress      string              `bson:"refund_address" json:"refund_address"`
	ExpiryDate         time.Time           `bson:"expiry_date" json:"expiry_date"`
	ErrorReason        string              `bson:"error_reason" json:"error_reason,omitempty"`
	AdminDispatch      *AdminDispatch      `bson:"admin_dispatch,omitempty" json:"admin_dispatch,omitempty"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `bson:"updated_at" json:"updated_at"`
}

// AdminDispatch is the relayer side transaction paying out (or refunding) a
// transfer, together with its own confirmation state.
type AdminDispatch struct {
	TxHash        string            `bson:"tx_hash" json:"tx_hash"`
	Chain         ChainType         `bson:"chain" json:"chain"`
	Status        TransactionStatus `bson:"status" json:"status"`
	Confirmations int64             `bson:"confirmations" json:"confirmations"`
	BlockHeight   int64             `bson:"block_height" json:"block_height"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

type Counter struct {
	Name     string `bson:"_id"`
	Sequence int64  `bson:"seq"`
}
