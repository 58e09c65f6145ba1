package eth

import (
	"context"
	"errors"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app"
	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

const (
	DepositMonitorName = "deposit monitor"
)

// DepositHandler is called once per bridge transaction seen in the logs.
type DepositHandler func(ctx context.Context, txHash string) error

type DepositMonitorConfig struct {
	BridgeAddress    common.Address
	StartBlockNumber int64
}

type DepositMonitorRunner struct {
	startBlockNumber   int64
	currentBlockNumber int64
	bridgeAddress      common.Address
	client             eth.EthereumClient
	handler            DepositHandler
}

func (x *DepositMonitorRunner) Run() {
	x.UpdateCurrentBlockNumber()
	x.SyncTxs()
}

func (x *DepositMonitorRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{
		EthBlockNumber: strconv.FormatInt(x.startBlockNumber, 10),
	}
}

func (x *DepositMonitorRunner) UpdateCurrentBlockNumber() {
	res, err := x.client.GetBlockNumber(context.Background())
	if err != nil {
		log.Error("[DEPOSIT MONITOR] Error while getting current block number: ", err)
		return
	}
	x.currentBlockNumber = int64(res)
	log.Info("[DEPOSIT MONITOR] Current block number: ", x.currentBlockNumber)
}

func (x *DepositMonitorRunner) HandleDeposit(txHash string) bool {
	log.Debug("[DEPOSIT MONITOR] Handling deposit: ", txHash)

	err := x.handler(context.Background(), txHash)
	if err != nil {
		if errors.Is(err, appcommon.ErrInvalidTransaction) {
			log.Warn("[DEPOSIT MONITOR] Ignoring invalid deposit: ", txHash, " ", err)
			return true
		}
		log.Error("[DEPOSIT MONITOR] Error while handling deposit: ", txHash, " ", err)
		return false
	}

	log.Info("[DEPOSIT MONITOR] Handled deposit: ", txHash)
	return true
}

func (x *DepositMonitorRunner) SyncBlocks(startBlockNumber uint64, endBlockNumber uint64) bool {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(startBlockNumber),
		ToBlock:   new(big.Int).SetUint64(endBlockNumber),
		Addresses: []common.Address{x.bridgeAddress},
		Topics:    [][]common.Hash{{eth.BridgeABI.Events[eth.BridgeToDefiChainEvent].ID}},
	}

	logs, err := x.client.FilterLogs(context.Background(), query)
	if err != nil {
		log.Error("[DEPOSIT MONITOR] Error while syncing deposit events: ", err)
		return false
	}

	seen := make(map[common.Hash]bool)
	var success bool = true
	for _, event := range logs {
		if event.Removed || seen[event.TxHash] {
			continue
		}
		seen[event.TxHash] = true
		success = x.HandleDeposit(event.TxHash.Hex()) && success
	}
	return success
}

func (x *DepositMonitorRunner) SyncTxs() bool {
	if x.currentBlockNumber <= x.startBlockNumber {
		log.Info("[DEPOSIT MONITOR] No new blocks to sync")
		return true
	}

	var success bool = true
	if (x.currentBlockNumber - x.startBlockNumber) > eth.MAX_QUERY_BLOCKS {
		log.Debug("[DEPOSIT MONITOR] Syncing deposit txs in chunks")
		for i := x.startBlockNumber; i < x.currentBlockNumber; i += eth.MAX_QUERY_BLOCKS {
			endBlockNumber := i + eth.MAX_QUERY_BLOCKS
			if endBlockNumber > x.currentBlockNumber {
				endBlockNumber = x.currentBlockNumber
			}
			log.Info("[DEPOSIT MONITOR] Syncing deposit txs from blockNumber: ", i, " to blockNumber: ", endBlockNumber)
			success = success && x.SyncBlocks(uint64(i), uint64(endBlockNumber))
		}
	} else {
		log.Info("[DEPOSIT MONITOR] Syncing deposit txs from blockNumber: ", x.startBlockNumber, " to blockNumber: ", x.currentBlockNumber)
		success = success && x.SyncBlocks(uint64(x.startBlockNumber), uint64(x.currentBlockNumber))
	}

	if success {
		x.startBlockNumber = x.currentBlockNumber
	}

	return success
}

func NewDepositMonitor(
	config DepositMonitorConfig,
	client eth.EthereumClient,
	handler DepositHandler,
	lastHealth models.ServiceHealth,
) app.Runner {
	log.Debug("[DEPOSIT MONITOR] Initializing deposit monitor")

	x := &DepositMonitorRunner{
		startBlockNumber:   0,
		currentBlockNumber: 0,
		bridgeAddress:      config.BridgeAddress,
		client:             client,
		handler:            handler,
	}

	x.UpdateCurrentBlockNumber()

	startBlockNumber := config.StartBlockNumber

	if lastBlockNumber, err := strconv.ParseInt(lastHealth.EthBlockNumber, 10, 64); err == nil {
		startBlockNumber = lastBlockNumber
	}

	if startBlockNumber > 0 {
		x.startBlockNumber = startBlockNumber
	} else {
		log.Warn("[DEPOSIT MONITOR] Found invalid start block number, updating to current block number")
		x.startBlockNumber = x.currentBlockNumber
	}

	log.Info("[DEPOSIT MONITOR] Start block number: ", x.startBlockNumber)
	log.Info("[DEPOSIT MONITOR] Initialized deposit monitor")

	return x
}
