package app

import (
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dan13ram/dfc-bridge-settler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app/mocks"
)

func init() {
	log.SetOutput(io.Discard)
}

func NewTestHealthCheck() *HealthCheckRunner {
	x := &HealthCheckRunner{
		operatorAddress: "0xoperator",
		payoutAddress:   "dPayout",
		bridgeAddress:   "0xbridge",
		instanceId:      "instanceId",
		hostname:        "hostname",
	}
	return x
}

func TestHealthStatus(t *testing.T) {
	x := NewTestHealthCheck()

	status := x.Status()
	assert.Equal(t, status.EthBlockNumber, "")
	assert.Equal(t, status.DefiChainHeight, "")
}

func TestFindLastHealth(t *testing.T) {

	t.Run("No Error", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		x := NewTestHealthCheck()
		filter := bson.M{
			"instance_id": x.instanceId,
			"hostname":    x.hostname,
		}
		var health models.Health
		mockDB.EXPECT().FindOne(models.CollectionHealthChecks, filter, &health).Return(nil)

		_, err := x.FindLastHealth()

		assert.Nil(t, err)
	})

	t.Run("With Error", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		x := NewTestHealthCheck()
		mockDB.EXPECT().FindOne(models.CollectionHealthChecks, mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := x.FindLastHealth()

		assert.Equal(t, assert.AnError, err)
	})

}

type MockService struct {
	healthy bool
}

func (e *MockService) Start() {}

func (e *MockService) Stop() {}

const MockServiceName = "mock"

func (e *MockService) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name:         MockServiceName,
		LastSyncTime: time.Now(),
		NextSyncTime: time.Now(),
		Healthy:      e.healthy,
	}
}

func TestServiceHealths(t *testing.T) {
	x := NewTestHealthCheck()
	wg := &sync.WaitGroup{}
	x.SetServices([]Service{
		NewEmptyService(wg),
		NewEmptyService(wg),
		&MockService{healthy: true},
	})

	healths := x.ServiceHealths()

	assert.Equal(t, len(healths), 1)
	assert.Equal(t, healths[0].Name, MockServiceName)
}

func TestPostHealth(t *testing.T) {
	t.Run("No Error", func(t *testing.T) {
		x := NewTestHealthCheck()
		x.SetServices([]Service{&MockService{healthy: true}})

		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		filter := bson.M{
			"instance_id": x.instanceId,
			"hostname":    x.hostname,
		}

		onInsert := bson.M{
			"operator_address": x.operatorAddress,
			"payout_address":   x.payoutAddress,
			"bridge_address":   x.bridgeAddress,
			"hostname":         x.hostname,
			"instance_id":      x.instanceId,
			"created_at":       nil,
		}

		onUpdate := bson.M{
			"healthy":         true,
			"service_healths": nil,
			"updated_at":      nil,
		}

		update := bson.M{"$set": onUpdate, "$setOnInsert": onInsert}

		call := mockDB.EXPECT().UpsertOne(models.CollectionHealthChecks, filter, mock.Anything)
		call.Run(func(_ string, _ interface{}, arg interface{}) {
			updateArg := arg.(bson.M)

			assert.Len(t, updateArg["$set"].(bson.M)["service_healths"], 1)

			updateArg["$setOnInsert"].(bson.M)["created_at"] = nil
			updateArg["$set"].(bson.M)["updated_at"] = nil
			updateArg["$set"].(bson.M)["service_healths"] = nil

			assert.Equal(t, update, updateArg)
		})
		call.Return(primitive.NewObjectID(), nil)

		success := x.PostHealth()
		assert.True(t, success)
	})

	t.Run("Unhealthy Service", func(t *testing.T) {
		x := NewTestHealthCheck()
		x.SetServices([]Service{&MockService{healthy: true}, &MockService{healthy: false}})

		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		call := mockDB.EXPECT().UpsertOne(models.CollectionHealthChecks, mock.Anything, mock.Anything)
		call.Run(func(_ string, _ interface{}, arg interface{}) {
			assert.Equal(t, false, arg.(bson.M)["$set"].(bson.M)["healthy"])
		})
		call.Return(primitive.NewObjectID(), nil)

		assert.True(t, x.PostHealth())
	})

	t.Run("With Error", func(t *testing.T) {
		x := NewTestHealthCheck()

		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		mockDB.EXPECT().UpsertOne(mock.Anything, mock.Anything, mock.Anything).Return(primitive.NilObjectID, assert.AnError)

		success := x.PostHealth()
		assert.False(t, success)
	})

	t.Run("Via Run", func(t *testing.T) {
		x := NewTestHealthCheck()

		mockDB := mocks.NewMockDatabase(t)
		DB = mockDB

		mockDB.EXPECT().UpsertOne(mock.Anything, mock.Anything, mock.Anything).Return(primitive.NilObjectID, assert.AnError)

		x.Run()
	})
}

func TestNewHealthCheck(t *testing.T) {
	Config.HealthCheck.InstanceId = "settler-01"
	defer func() { Config.HealthCheck.InstanceId = "" }()

	x := NewHealthCheck("0xABCDEF", "dPayout", "0xBRIDGE")

	hostname, _ := os.Hostname()

	assert.NotNil(t, x)
	assert.Equal(t, "0xabcdef", x.operatorAddress)
	assert.Equal(t, "dPayout", x.payoutAddress)
	assert.Equal(t, "0xbridge", x.bridgeAddress)
	assert.Equal(t, "settler-01", x.instanceId)
	assert.Equal(t, hostname, x.hostname)
}
