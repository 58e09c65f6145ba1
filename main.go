package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

func main() {

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	var configPath string
	var envPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.Parse()

	var absConfigPath = ""
	var err error
	if configPath != "" {
		absConfigPath, err = filepath.Abs(configPath)
		if err != nil {
			log.Fatal("[MAIN] Error getting absolute path for config file: ", err)
		}
	}

	var absEnvPath = ""
	if envPath != "" {
		absEnvPath, err = filepath.Abs(envPath)
		if err != nil {
			log.Fatal("[MAIN] Error getting absolute path for env file: ", err)
		}
	}

	if absConfigPath == "" && absEnvPath == "" {
		log.Fatal("[MAIN] Please provide a config file or an env file")
	}

	app.InitConfig(absConfigPath, absEnvPath)
	app.InitLogger()
	app.InitDB()

	settler := NewSettler(app.Config)

	healthcheck := app.NewHealthCheck(
		settler.Signer.EthAddress().Hex(),
		settler.DfcClient.PayoutAddress(),
		app.Config.Ethereum.BridgeContractAddress,
	)

	serviceHealthMap := make(map[string]models.ServiceHealth)
	if app.Config.HealthCheck.ReadLastHealth {
		if lastHealth, err := healthcheck.FindLastHealth(); err == nil {
			for _, serviceHealth := range lastHealth.ServiceHealths {
				serviceHealthMap[serviceHealth.Name] = serviceHealth
			}
		}
	}

	wg := &sync.WaitGroup{}

	factories := GetServiceFactories(settler, app.Config)
	var services []app.Service
	for _, name := range ServiceNames {
		services = append(services, CreateService(wg, name, serviceHealthMap, factories[name]))
	}

	healthcheck.SetServices(services)
	healthService := app.NewRunnerService(
		app.HealthServiceName,
		healthcheck,
		wg,
		time.Duration(app.Config.HealthCheck.IntervalMillis)*time.Millisecond,
	)
	services = append(services, healthService)

	wg.Add(len(services))

	for _, service := range services {
		go service.Start()
	}

	log.Info("[MAIN] Server started")

	gracefulStop := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(gracefulStop, syscall.SIGINT, syscall.SIGTERM)
	go waitForExitSignals(gracefulStop, done)
	<-done

	log.Debug("[MAIN] Stopping server gracefully")

	for _, service := range services {
		service.Stop()
	}

	wg.Wait()

	settler.Signer.Destroy()
	app.DB.Disconnect()
	log.Info("[MAIN] Server stopped")
}

func waitForExitSignals(gracefulStop chan os.Signal, done chan bool) {
	sig := <-gracefulStop
	log.Debug("[MAIN] Caught signal: ", sig)
	done <- true
}
