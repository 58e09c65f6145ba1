package main

import (
	"context"
	"flag"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app"
	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
)

// Removes a deposit record. Only for deposits that were recorded by mistake,
// a purged deposit can be paid out again.
func main() {
	var configPath string
	var envPath string
	var txHash string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.StringVar(&txHash, "tx", "", "source transaction hash")
	flag.Parse()

	if txHash == "" {
		log.Fatal("[PURGE] tx is required")
	}

	if configPath != "" {
		configPath, _ = filepath.Abs(configPath)
	}
	if envPath != "" {
		envPath, _ = filepath.Abs(envPath)
	}

	app.InitConfig(configPath, envPath)
	app.InitLogger()
	app.InitDB()
	defer app.DB.Disconnect()

	txHash = common.NormalizeTxHash(txHash)
	store := ledger.NewLedger(app.DB, nil)
	unlock, err := store.Lock(context.Background(), ledger.DepositLockResource(txHash))
	if err != nil {
		log.Fatal("[PURGE] Error locking deposit: ", err)
	}
	defer unlock()

	if err := store.PurgeDeposit(txHash); err != nil {
		log.Fatal("[PURGE] Error purging deposit: ", err)
	}
}
