package app

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func readStringFromEnv(key string, target *string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func readInt64FromEnv(key string, target *int64) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Warn("[ENV] Error parsing ", key, ": ", err.Error())
		return
	}
	*target = parsed
}

func readIntFromEnv(key string, target *int) {
	value := int64(*target)
	readInt64FromEnv(key, &value)
	*target = int(value)
}

func readBoolFromEnv(key string, target *bool) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn("[ENV] Error parsing ", key, ": ", err.Error())
		return
	}
	*target = parsed
}

func readConfigFromENV(envFile string) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil {
			log.Warn("[ENV] Error loading .env file: ", err.Error())
		}
	}

	// mongodb
	readStringFromEnv("MONGODB_URI", &Config.MongoDB.URI)
	readStringFromEnv("MONGODB_DATABASE", &Config.MongoDB.Database)
	readInt64FromEnv("MONGODB_TIMEOUT_MS", &Config.MongoDB.TimeoutMillis)

	// ethereum
	readStringFromEnv("ETH_RPC_URL", &Config.Ethereum.RPCURL)
	readStringFromEnv("ETH_CHAIN_ID", &Config.Ethereum.ChainID)
	readStringFromEnv("ETH_PRIVATE_KEY", &Config.Ethereum.PrivateKey)
	readStringFromEnv("ETH_MNEMONIC", &Config.Ethereum.Mnemonic)
	readStringFromEnv("ETH_GCP_KMS_KEY_NAME", &Config.Ethereum.GcpKmsKeyName)
	readStringFromEnv("ETH_BRIDGE_CONTRACT_ADDRESS", &Config.Ethereum.BridgeContractAddress)
	readInt64FromEnv("ETH_START_BLOCK_NUMBER", &Config.Ethereum.StartBlockNumber)
	readInt64FromEnv("ETH_RPC_TIMEOUT_MS", &Config.Ethereum.RPCTimeoutMillis)

	// defichain
	readStringFromEnv("DFC_RPC_HOST", &Config.DefiChain.RPCHost)
	readStringFromEnv("DFC_RPC_USER", &Config.DefiChain.RPCUser)
	readStringFromEnv("DFC_RPC_PASSWORD", &Config.DefiChain.RPCPassword)
	readInt64FromEnv("DFC_RPC_TIMEOUT_MS", &Config.DefiChain.RPCTimeoutMillis)
	readStringFromEnv("DFC_NETWORK", &Config.DefiChain.Network)
	readStringFromEnv("DFC_PAYOUT_ADDRESS", &Config.DefiChain.PayoutAddress)
	readStringFromEnv("DFC_PAYOUT_WIF", &Config.DefiChain.PayoutWIF)
	readStringFromEnv("DFC_MNEMONIC", &Config.DefiChain.Mnemonic)

	// confirmations
	readInt64FromEnv("ETH_CONFIRMATIONS", &Config.Confirmations.Ethereum)
	readInt64FromEnv("DFC_CONFIRMATIONS", &Config.Confirmations.DefiChain)

	// settlement
	readStringFromEnv("SETTLEMENT_FEE_RATE", &Config.Settlement.FeeRate)
	readIntFromEnv("SETTLEMENT_BROADCAST_ATTEMPTS", &Config.Settlement.BroadcastAttempts)
	readInt64FromEnv("SETTLEMENT_QUEUE_EXPIRY_MS", &Config.Settlement.QueueExpiryMillis)

	// deposit monitor
	readBoolFromEnv("DEPOSIT_MONITOR_ENABLED", &Config.DepositMonitor.Enabled)
	readInt64FromEnv("DEPOSIT_MONITOR_INTERVAL_MS", &Config.DepositMonitor.IntervalMillis)

	// settlement sweeper
	readBoolFromEnv("SETTLEMENT_SWEEPER_ENABLED", &Config.SettlementSweeper.Enabled)
	readInt64FromEnv("SETTLEMENT_SWEEPER_INTERVAL_MS", &Config.SettlementSweeper.IntervalMillis)

	// health check
	readInt64FromEnv("HEALTH_CHECK_INTERVAL_MS", &Config.HealthCheck.IntervalMillis)
	readBoolFromEnv("HEALTH_CHECK_READ_LAST_HEALTH", &Config.HealthCheck.ReadLastHealth)
	readStringFromEnv("HEALTH_CHECK_INSTANCE_ID", &Config.HealthCheck.InstanceId)

	// logging
	readStringFromEnv("LOG_LEVEL", &Config.Logger.Level)
	readStringFromEnv("LOG_FORMAT", &Config.Logger.Format)

	// google secret manager
	readBoolFromEnv("GOOGLE_SECRET_MANAGER_ENABLED", &Config.GoogleSecretManager.Enabled)
	readStringFromEnv("GOOGLE_PROJECT_ID", &Config.GoogleSecretManager.ProjectId)
	readStringFromEnv("GOOGLE_MONGO_SECRET_NAME", &Config.GoogleSecretManager.MongoSecretName)
	readStringFromEnv("GOOGLE_ETH_SECRET_NAME", &Config.GoogleSecretManager.EthSecretName)
	readStringFromEnv("GOOGLE_DFC_SECRET_NAME", &Config.GoogleSecretManager.DefiChainSecretName)
}
