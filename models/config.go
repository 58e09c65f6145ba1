package models

type Config struct {
	GoogleSecretManager GoogleSecretManagerConfig `yaml:"google_secret_manager" json:"google_secret_manager"`
	HealthCheck         HealthCheckConfig         `yaml:"health_check" json:"health_check"`
	Logger              LoggerConfig              `yaml:"logger" json:"logger"`
	MongoDB             MongoConfig               `yaml:"mongodb" json:"mongo_db"`
	Ethereum            EthereumConfig            `yaml:"ethereum" json:"ethereum"`
	DefiChain           DefiChainConfig           `yaml:"defichain" json:"defichain"`
	Confirmations       ConfirmationsConfig       `yaml:"confirmations" json:"confirmations"`
	Settlement          SettlementConfig          `yaml:"settlement" json:"settlement"`
	DepositMonitor      ServiceConfig             `yaml:"deposit_monitor" json:"deposit_monitor"`
	SettlementSweeper   ServiceConfig             `yaml:"settlement_sweeper" json:"settlement_sweeper"`
}

type GoogleSecretManagerConfig struct {
	Enabled             bool   `yaml:"enabled" json:"enabled"`
	ProjectId           string `yaml:"project_id" json:"project_id"`
	MongoSecretName     string `yaml:"mongo_secret_name" json:"mongo_secret_name"`
	EthSecretName       string `yaml:"eth_secret_name" json:"eth_secret_name"`
	DefiChainSecretName string `yaml:"defichain_secret_name" json:"defichain_secret_name"`
}

type HealthCheckConfig struct {
	IntervalMillis int64  `yaml:"interval_ms" json:"interval_ms"`
	ReadLastHealth bool   `yaml:"read_last_health" json:"read_last_health"`
	InstanceId     string `yaml:"instance_id" json:"instance_id"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	// "text" (default) or "json"
	Format string `yaml:"format" json:"format"`
}

type MongoConfig struct {
	URI           string `yaml:"uri" json:"uri"`
	Database      string `yaml:"database" json:"database"`
	TimeoutMillis int64  `yaml:"timeout_ms" json:"timeout_ms"`
}

type EthereumConfig struct {
	StartBlockNumber      int64  `yaml:"start_block_number" json:"start_block_number"`
	RPCURL                string `yaml:"rpc_url" json:"rpcurl"`
	RPCTimeoutMillis      int64  `yaml:"rpc_timeout_ms" json:"rpc_timeout_ms"`
	ChainID               string `yaml:"chain_id" json:"chain_id"`
	PrivateKey            string `yaml:"private_key" json:"private_key"`
	Mnemonic              string `yaml:"mnemonic" json:"mnemonic"`
	GcpKmsKeyName         string `yaml:"gcp_kms_key_name" json:"gcp_kms_key_name"`
	BridgeContractAddress string `yaml:"bridge_contract_address" json:"bridge_contract_address"`
}

type DefiChainConfig struct {
	RPCHost          string `yaml:"rpc_host" json:"rpc_host"`
	RPCUser          string `yaml:"rpc_user" json:"rpc_user"`
	RPCPassword      string `yaml:"rpc_password" json:"rpc_password"`
	RPCTimeoutMillis int64  `yaml:"rpc_timeout_ms" json:"rpc_timeout_ms"`
	Network          string `yaml:"network" json:"network"`
	PayoutAddress    string `yaml:"payout_address" json:"payout_address"`
	PayoutWIF        string `yaml:"payout_wif" json:"payout_wif"`
	Mnemonic         string `yaml:"mnemonic" json:"mnemonic"`
}

// ConfirmationsConfig is the single per-chain finality table. Every call site
// that asks whether a transaction on a chain is final reads from here.
type ConfirmationsConfig struct {
	Ethereum  int64 `yaml:"ethereum" json:"ethereum"`
	DefiChain int64 `yaml:"defichain" json:"defichain"`
}

type SettlementConfig struct {
	FeeRate           string         `yaml:"fee_rate" json:"fee_rate"`
	BroadcastAttempts int            `yaml:"broadcast_attempts" json:"broadcast_attempts"`
	QueueExpiryMillis int64          `yaml:"queue_expiry_ms" json:"queue_expiry_ms"`
	Tokens            []TokenMapping `yaml:"tokens" json:"tokens"`
}

// TokenMapping pairs a source-chain token contract with the DFC token it pays out.
type TokenMapping struct {
	EthereumAddress string `yaml:"ethereum_address" json:"ethereum_address"`
	Symbol          string `yaml:"symbol" json:"symbol"`
	DefiChainSymbol string `yaml:"defichain_symbol" json:"defichain_symbol"`
}

type ServiceConfig struct {
	Enabled        bool  `yaml:"enabled" json:"enabled"`
	IntervalMillis int64 `yaml:"interval_ms" json:"interval_ms"`
}
