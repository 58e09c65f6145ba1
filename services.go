package main

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/allocator"
	"github.com/dan13ram/dfc-bridge-settler/app"
	"github.com/dan13ram/dfc-bridge-settler/claim"
	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	"github.com/dan13ram/dfc-bridge-settler/eth"
	ethclient "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
	"github.com/dan13ram/dfc-bridge-settler/refund"
	"github.com/dan13ram/dfc-bridge-settler/settlement"
)

// Settler holds the chain clients and the settlement service shared by the
// background services.
type Settler struct {
	EthClient ethclient.EthereumClient
	DfcClient dfc.DefiChainClient
	Signer    appcommon.Signer
	Service   *settlement.Service
}

func NewSettler(config models.Config) *Settler {
	ctx := context.Background()

	ethClient, err := ethclient.NewClient(config.Ethereum)
	if err != nil {
		log.Fatal("[SETTLER] Error creating ethereum client: ", err)
	}
	if err := ethClient.ValidateNetwork(ctx); err != nil {
		log.Fatal("[SETTLER] Error validating ethereum network: ", err)
	}

	bridgeAddress := common.HexToAddress(config.Ethereum.BridgeContractAddress)
	contract, err := ethclient.NewBridgeContract(bridgeAddress, ethClient.GetClient())
	if err != nil {
		log.Fatal("[SETTLER] Error binding bridge contract: ", err)
	}

	chainId, ok := new(big.Int).SetString(config.Ethereum.ChainID, 10)
	if !ok {
		log.Fatal("[SETTLER] Invalid ethereum chain id: ", config.Ethereum.ChainID)
	}

	payoutKey, err := app.ResolvePayoutKey(config.DefiChain)
	if err != nil {
		log.Fatal("[SETTLER] Error resolving payout key: ", err)
	}
	dfcClient, err := dfc.NewClient(config.DefiChain, payoutKey)
	if err != nil {
		log.Fatal("[SETTLER] Error creating defichain client: ", err)
	}
	if err := dfcClient.ValidateNetwork(ctx); err != nil {
		log.Fatal("[SETTLER] Error validating defichain network: ", err)
	}
	params, err := appcommon.DefiChainParams(config.DefiChain.Network)
	if err != nil {
		log.Fatal("[SETTLER] Error reading defichain params: ", err)
	}

	signer, err := app.CreateOperatorSigner(config.Ethereum)
	if err != nil {
		log.Fatal("[SETTLER] Error creating operator signer: ", err)
	}

	tracker := confirm.NewTracker(confirm.Config{
		Thresholds: config.Confirmations,
		Timeouts: map[models.ChainType]time.Duration{
			models.ChainTypeEthereum:  time.Duration(config.Ethereum.RPCTimeoutMillis) * time.Millisecond,
			models.ChainTypeDefiChain: time.Duration(config.DefiChain.RPCTimeoutMillis) * time.Millisecond,
		},
	}, map[models.ChainType]confirm.ChainReader{
		models.ChainTypeEthereum:  confirm.NewEthereumReader(ethClient),
		models.ChainTypeDefiChain: confirm.NewDefiChainReader(dfcClient),
	})

	store := ledger.NewLedger(app.DB, tracker)

	tokens := make(map[common.Address]models.TokenMapping)
	payoutSymbols := make(map[common.Address]string)
	for _, token := range config.Settlement.Tokens {
		address := common.HexToAddress(token.EthereumAddress)
		tokens[address] = token
		payoutSymbols[address] = token.DefiChainSymbol
	}

	payouts := allocator.NewAllocator(allocator.Config{
		BridgeAddress:     bridgeAddress,
		FeeRate:           decimal.RequireFromString(config.Settlement.FeeRate),
		BroadcastAttempts: uint(config.Settlement.BroadcastAttempts),
		RetryInterval:     appcommon.DefaultRetryInterval,
		Tokens:            payoutSymbols,
		Params:            params,
	}, store, tracker, ethClient, contract, dfcClient)

	authorizer := claim.NewAuthorizer(claim.Config{ChainId: chainId}, store, contract, signer)

	refunds := refund.NewCoordinator(refund.Config{BridgeAddress: bridgeAddress}, store, ethClient, tracker)

	service := settlement.NewService(settlement.Config{
		BridgeAddress: bridgeAddress,
		ChainId:       chainId,
		QueueExpiry:   time.Duration(config.Settlement.QueueExpiryMillis) * time.Millisecond,
		Tokens:        tokens,
	}, store, tracker, ethClient, contract, dfcClient, payouts, authorizer, refunds)

	log.Info("[SETTLER] Operator address: ", signer.EthAddress().Hex())
	log.Info("[SETTLER] Payout address: ", dfcClient.PayoutAddress())

	return &Settler{
		EthClient: ethClient,
		DfcClient: dfcClient,
		Signer:    signer,
		Service:   service,
	}
}

type ServiceFactory func(wg *sync.WaitGroup, lastHealth models.ServiceHealth) app.Service

func CreateService(
	wg *sync.WaitGroup,
	serviceName string,
	serviceHealthMap map[string]models.ServiceHealth,
	createService ServiceFactory,
) app.Service {
	serviceHealth, ok := serviceHealthMap[serviceName]
	if ok {
		log.Debug("[SERVICES] Found last health for ", serviceName)
	}
	return createService(wg, serviceHealth)
}

// ServiceNames fixes the start order of the background services.
var ServiceNames = []string{
	eth.DepositMonitorName,
	settlement.SettlementSweeperName,
}

func GetServiceFactories(settler *Settler, config models.Config) map[string]ServiceFactory {
	handleDeposit := func(ctx context.Context, txHash string) error {
		_, err := settler.Service.HandleDeposit(ctx, txHash)
		return err
	}

	return map[string]ServiceFactory{
		eth.DepositMonitorName: func(wg *sync.WaitGroup, lastHealth models.ServiceHealth) app.Service {
			if !config.DepositMonitor.Enabled {
				return app.NewEmptyService(wg)
			}
			runner := eth.NewDepositMonitor(eth.DepositMonitorConfig{
				BridgeAddress:    common.HexToAddress(config.Ethereum.BridgeContractAddress),
				StartBlockNumber: config.Ethereum.StartBlockNumber,
			}, settler.EthClient, handleDeposit, lastHealth)
			interval := time.Duration(config.DepositMonitor.IntervalMillis) * time.Millisecond
			return app.NewRunnerService(eth.DepositMonitorName, runner, wg, interval)
		},
		settlement.SettlementSweeperName: func(wg *sync.WaitGroup, lastHealth models.ServiceHealth) app.Service {
			if !config.SettlementSweeper.Enabled {
				return app.NewEmptyService(wg)
			}
			runner := settlement.NewSweepRunner(settler.Service, settler.DfcClient)
			interval := time.Duration(config.SettlementSweeper.IntervalMillis) * time.Millisecond
			return app.NewRunnerService(settlement.SettlementSweeperName, runner, wg, interval)
		},
	}
}
