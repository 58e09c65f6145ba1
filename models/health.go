package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionHealthChecks = "healthchecks"
)

type Health struct {
	Id              *primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OperatorAddress string              `bson:"operator_address" json:"operator_address"`
	PayoutAddress   string              `bson:"payout_address" json:"payout_address"`
	BridgeAddress   string              `bson:"bridge_address" json:"bridge_address"`
	Hostname        string              `bson:"hostname" json:"hostname"`
	InstanceId      string              `bson:"instance_id" json:"instance_id"`
	Healthy         bool                `bson:"healthy" json:"healthy"`
	ServiceHealths  []ServiceHealth     `bson:"service_healths" json:"service_healths"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}
