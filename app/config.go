package app

import (
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/models"
	"gopkg.in/yaml.v2"
)

var (
	Config models.Config
)

func InitConfig(configFile string, envFile string) {
	log.Debug("[CONFIG] Initializing config")
	readConfigFromConfigFile(configFile)
	readConfigFromENV(envFile)
	readKeysFromGSM()
	setConfigDefaults()
	validateConfig()
	log.Info("[CONFIG] Config initialized")
}

func readConfigFromConfigFile(configFile string) bool {
	if configFile == "" {
		log.Debug("[CONFIG] No config file provided")
		return false
	}
	log.Debug("[CONFIG] Reading config file")
	var yamlFile, err = os.ReadFile(configFile)
	if err != nil {
		log.Fatalf("[CONFIG] Error reading config file %q: %s\n", configFile, err.Error())
	}

	err = yaml.Unmarshal(yamlFile, &Config)
	if err != nil {
		log.Fatalf("[CONFIG] Error unmarshalling config file %q: %s\n", configFile, err.Error())
	}
	log.Debug("[CONFIG] Config loaded from config file")
	return true
}

func setConfigDefaults() {
	if Config.MongoDB.TimeoutMillis == 0 {
		Config.MongoDB.TimeoutMillis = 2000
	}
	if Config.Ethereum.RPCTimeoutMillis == 0 {
		Config.Ethereum.RPCTimeoutMillis = 5000
	}
	if Config.DefiChain.RPCTimeoutMillis == 0 {
		Config.DefiChain.RPCTimeoutMillis = 5000
	}
	if Config.DefiChain.Network == "" {
		Config.DefiChain.Network = "mainnet"
	}
	if Config.Confirmations.Ethereum == 0 {
		Config.Confirmations.Ethereum = 65
	}
	if Config.Confirmations.DefiChain == 0 {
		Config.Confirmations.DefiChain = 35
	}
	if Config.Settlement.FeeRate == "" {
		Config.Settlement.FeeRate = "0.003"
	}
	if Config.Settlement.BroadcastAttempts == 0 {
		Config.Settlement.BroadcastAttempts = 3
	}
	if Config.Settlement.QueueExpiryMillis == 0 {
		Config.Settlement.QueueExpiryMillis = 72 * 60 * 60 * 1000
	}
	if Config.HealthCheck.IntervalMillis == 0 {
		Config.HealthCheck.IntervalMillis = 60000
	}
}

func validateConfig() {
	log.Debug("[CONFIG] Validating config")
	// mongodb
	if Config.MongoDB.URI == "" {
		log.Fatal("[CONFIG] MongoDB.URI is required")
	}
	if Config.MongoDB.Database == "" {
		log.Fatal("[CONFIG] MongoDB.Database is required")
	}
	if Config.MongoDB.TimeoutMillis == 0 {
		log.Fatal("[CONFIG] MongoDB.TimeoutMillis is required")
	}

	// ethereum
	if Config.Ethereum.RPCURL == "" {
		log.Fatal("[CONFIG] Ethereum.RPCURL is required")
	}
	if Config.Ethereum.ChainID == "" {
		log.Fatal("[CONFIG] Ethereum.ChainID is required")
	}
	if Config.Ethereum.BridgeContractAddress == "" {
		log.Fatal("[CONFIG] Ethereum.BridgeContractAddress is required")
	}
	if Config.Ethereum.PrivateKey == "" && Config.Ethereum.Mnemonic == "" && Config.Ethereum.GcpKmsKeyName == "" {
		log.Fatal("[CONFIG] One of Ethereum.PrivateKey, Ethereum.Mnemonic or Ethereum.GcpKmsKeyName is required")
	}

	// defichain
	if Config.DefiChain.RPCHost == "" {
		log.Fatal("[CONFIG] DefiChain.RPCHost is required")
	}
	if Config.DefiChain.PayoutAddress == "" {
		log.Fatal("[CONFIG] DefiChain.PayoutAddress is required")
	}
	if Config.DefiChain.PayoutWIF == "" && Config.DefiChain.Mnemonic == "" {
		log.Fatal("[CONFIG] One of DefiChain.PayoutWIF or DefiChain.Mnemonic is required")
	}

	// confirmations
	if Config.Confirmations.Ethereum < 0 || Config.Confirmations.DefiChain < 0 {
		log.Fatal("[CONFIG] Confirmations must not be negative")
	}

	// settlement
	if Config.Settlement.BroadcastAttempts < 1 {
		log.Fatal("[CONFIG] Settlement.BroadcastAttempts must be at least 1")
	}
	feeRate, err := decimal.NewFromString(Config.Settlement.FeeRate)
	if err != nil || feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		log.Fatal("[CONFIG] Settlement.FeeRate must be a decimal in [0, 1)")
	}
	if len(Config.Settlement.Tokens) == 0 {
		log.Fatal("[CONFIG] Settlement.Tokens is required")
	}
	for _, token := range Config.Settlement.Tokens {
		if !common.IsHexAddress(token.EthereumAddress) {
			log.Fatal("[CONFIG] Invalid Settlement.Tokens ethereum address: ", token.EthereumAddress)
		}
		if token.Symbol == "" || token.DefiChainSymbol == "" {
			log.Fatal("[CONFIG] Settlement.Tokens symbol and defichain symbol are required for ", token.EthereumAddress)
		}
	}

	// services
	if Config.DepositMonitor.Enabled && Config.DepositMonitor.IntervalMillis == 0 {
		log.Fatal("[CONFIG] DepositMonitor.IntervalMillis is required")
	}
	if Config.SettlementSweeper.Enabled && Config.SettlementSweeper.IntervalMillis == 0 {
		log.Fatal("[CONFIG] SettlementSweeper.IntervalMillis is required")
	}

	log.Debug("[CONFIG] Config validated")
}
