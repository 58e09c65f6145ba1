package app

import (
	"strings"
	"sync"
	"time"

	"github.com/dan13ram/dfc-bridge-settler/models"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Start()
	Health() models.ServiceHealth
	Stop()
}

type Runner interface {
	Run()
	Status() models.RunnerStatus
}

// RunnerService calls Run on its runner every interval until stopped.
type RunnerService struct {
	name     string
	tag      string
	runner   Runner
	wg       *sync.WaitGroup
	stop     chan bool
	interval time.Duration

	healthMu sync.RWMutex
	health   models.ServiceHealth
}

func (x *RunnerService) Start() {
	log.Info(x.tag, " Starting service")
	stop := false
	for !stop {
		log.Info(x.tag, " Starting run")

		x.runner.Run()

		x.UpdateHealth()

		log.Info(x.tag, " Finished run, Sleeping for ", x.interval)

		select {
		case <-x.stop:
			stop = true
			log.Info(x.tag, " Stopped service")
		case <-time.After(x.interval):
		}
	}
	x.wg.Done()
}

func (x *RunnerService) Health() models.ServiceHealth {
	x.healthMu.RLock()
	defer x.healthMu.RUnlock()

	return x.health
}

func (x *RunnerService) UpdateHealth() {
	x.healthMu.Lock()
	defer x.healthMu.Unlock()

	lastSyncTime := time.Now()
	status := x.runner.Status()

	x.health = models.ServiceHealth{
		Name:            x.name,
		LastSyncTime:    lastSyncTime,
		NextSyncTime:    lastSyncTime.Add(x.interval),
		EthBlockNumber:  status.EthBlockNumber,
		DefiChainHeight: status.DefiChainHeight,
		Healthy:         true,
	}
}

func (x *RunnerService) Stop() {
	log.Debug(x.tag, " Stopping service")
	x.stop <- true
}

func NewRunnerService(
	name string,
	runner Runner,
	wg *sync.WaitGroup,
	interval time.Duration,
) *RunnerService {
	if runner == nil {
		log.Debug("[RUNNER] Invalid parameters")
		return nil
	}

	return &RunnerService{
		name:     name,
		tag:      "[" + strings.ToUpper(name) + "]",
		runner:   runner,
		wg:       wg,
		stop:     make(chan bool, 1),
		interval: interval,
	}
}

type EmptyService struct {
	wg *sync.WaitGroup
}

func (e *EmptyService) Start() {}

func (e *EmptyService) Stop() {
	e.wg.Done()
}

const EmptyServiceName = "empty"

func (e *EmptyService) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name:            EmptyServiceName,
		LastSyncTime:    time.Now(),
		NextSyncTime:    time.Now(),
		EthBlockNumber:  "",
		DefiChainHeight: "",
		Healthy:         true,
	}
}

func NewEmptyService(wg *sync.WaitGroup) *EmptyService {
	return &EmptyService{
		wg: wg,
	}
}
