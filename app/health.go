package app

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dan13ram/dfc-bridge-settler/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	HealthServiceName = "health"
)

type HealthCheckRunner struct {
	operatorAddress string
	payoutAddress   string
	bridgeAddress   string
	hostname        string
	instanceId      string

	mu       sync.RWMutex
	services []Service
}

func (x *HealthCheckRunner) Run() {
	x.PostHealth()
}

func (x *HealthCheckRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{}
}

func (x *HealthCheckRunner) filter() bson.M {
	return bson.M{
		"instance_id": x.instanceId,
		"hostname":    x.hostname,
	}
}

func (x *HealthCheckRunner) FindLastHealth() (models.Health, error) {
	var health models.Health
	err := DB.FindOne(models.CollectionHealthChecks, x.filter(), &health)
	return health, err
}

func (x *HealthCheckRunner) SetServices(services []Service) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.services = services
}

func (x *HealthCheckRunner) ServiceHealths() []models.ServiceHealth {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var serviceHealths []models.ServiceHealth
	for _, service := range x.services {
		health := service.Health()
		if health.Name == EmptyServiceName {
			continue
		}
		serviceHealths = append(serviceHealths, health)
	}
	return serviceHealths
}

func (x *HealthCheckRunner) PostHealth() bool {
	log.Debug("[HEALTH] Posting health")

	serviceHealths := x.ServiceHealths()
	healthy := true
	for _, serviceHealth := range serviceHealths {
		healthy = healthy && serviceHealth.Healthy
	}

	onInsert := bson.M{
		"operator_address": x.operatorAddress,
		"payout_address":   x.payoutAddress,
		"bridge_address":   x.bridgeAddress,
		"hostname":         x.hostname,
		"instance_id":      x.instanceId,
		"created_at":       time.Now(),
	}

	onUpdate := bson.M{
		"healthy":         healthy,
		"service_healths": serviceHealths,
		"updated_at":      time.Now(),
	}

	update := bson.M{"$set": onUpdate, "$setOnInsert": onInsert}

	if _, err := DB.UpsertOne(models.CollectionHealthChecks, x.filter(), update); err != nil {
		log.Error("[HEALTH] Error posting health: ", err)
		return false
	}

	log.Info("[HEALTH] Posted health")
	return true
}

func NewHealthCheck(operatorAddress string, payoutAddress string, bridgeAddress string) *HealthCheckRunner {
	log.Debug("[HEALTH] Initializing health")

	hostname, err := os.Hostname()
	if err != nil {
		log.Fatal("[HEALTH] Error getting hostname: ", err)
	}

	instanceId := Config.HealthCheck.InstanceId
	if instanceId == "" {
		instanceId = "dfc-bridge-settler"
	}

	x := &HealthCheckRunner{
		operatorAddress: strings.ToLower(operatorAddress),
		payoutAddress:   payoutAddress,
		bridgeAddress:   strings.ToLower(bridgeAddress),
		hostname:        hostname,
		instanceId:      instanceId,
	}

	log.Info("[HEALTH] Initialized health")

	return x
}
