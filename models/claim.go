package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionClaims = "claims"
)

// ClaimAuthorization is immutable once inserted.
type ClaimAuthorization struct {
	Id              *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ClaimKey        string              `bson:"claim_key" json:"claim_key"`
	ClaimantAddress string              `bson:"claimant_address" json:"claimant_address"`
	TokenAddress    string              `bson:"token_address" json:"token_address"`
	TokenSymbol     string              `bson:"token_symbol" json:"token_symbol"`
	Amount          string              `bson:"amount" json:"amount"`
	OnChainAmount   string              `bson:"on_chain_amount" json:"on_chain_amount"`
	Nonce           string              `bson:"nonce" json:"nonce"`
	Deadline        int64               `bson:"deadline" json:"deadline"`
	Signature       string              `bson:"signature" json:"signature"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}
