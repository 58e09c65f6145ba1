package app

import (
	"fmt"
	"os"
	"testing"

	"github.com/dan13ram/dfc-bridge-settler/models"
	"github.com/stretchr/testify/assert"

	log "github.com/sirupsen/logrus"
)

func TestReadConfigFromConfigFile(t *testing.T) {
	t.Run("Config File Provided", func(t *testing.T) {
		Config = models.Config{}
		configFile := "../config.sample.yml"

		read := readConfigFromConfigFile(configFile)

		assert.Equal(t, read, true)
		assert.Equal(t, Config.MongoDB.Database, "mongodb-database")
		assert.Equal(t, Config.MongoDB.TimeoutMillis, int64(2000))
		assert.Equal(t, Config.Confirmations.Ethereum, int64(65))
		assert.Equal(t, Config.Confirmations.DefiChain, int64(35))
		assert.Equal(t, Config.Settlement.FeeRate, "0.003")
		assert.Len(t, Config.Settlement.Tokens, 3)
		assert.Equal(t, "ETH", Config.Settlement.Tokens[0].Symbol)
	})

	t.Run("No Config File Provided", func(t *testing.T) {
		configFile := ""

		read := readConfigFromConfigFile(configFile)
		assert.Equal(t, read, false)
	})

	t.Run("Invalid Config File Path", func(t *testing.T) {
		configFile := "../config.sample.invalid.yml"

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { readConfigFromConfigFile(configFile) }, "readConfigFromConfigFile should panic")
	})

	t.Run("Invalid Config File Contents", func(t *testing.T) {
		configFile := "../sample.env"

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { readConfigFromConfigFile(configFile) }, "readConfigFromConfigFile should panic")
	})
}

func TestReadConfigFromENV(t *testing.T) {
	t.Run("Overrides From Env", func(t *testing.T) {
		Config = models.Config{}
		t.Setenv("DFC_CONFIRMATIONS", "40")
		t.Setenv("SETTLEMENT_FEE_RATE", "0.01")
		t.Setenv("SETTLEMENT_SWEEPER_ENABLED", "true")

		readConfigFromENV("")

		assert.Equal(t, int64(40), Config.Confirmations.DefiChain)
		assert.Equal(t, "0.01", Config.Settlement.FeeRate)
		assert.True(t, Config.SettlementSweeper.Enabled)
	})

	t.Run("Invalid Values Are Ignored", func(t *testing.T) {
		Config = models.Config{}
		Config.Confirmations.Ethereum = 65
		t.Setenv("ETH_CONFIRMATIONS", "many")
		t.Setenv("DEPOSIT_MONITOR_ENABLED", "maybe")

		readConfigFromENV("")

		assert.Equal(t, int64(65), Config.Confirmations.Ethereum)
		assert.False(t, Config.DepositMonitor.Enabled)
	})

	t.Run("Env File", func(t *testing.T) {
		Config = models.Config{}
		defer os.Unsetenv("DFC_NETWORK")

		readConfigFromENV("../sample.env")

		assert.Equal(t, "testnet", Config.DefiChain.Network)
		assert.Equal(t, "0x96E07fD9A5CE8B8A6DB6A2adB63da05eC9D1b6a0", Config.Ethereum.BridgeContractAddress)
	})
}

func TestSetConfigDefaults(t *testing.T) {
	Config = models.Config{}

	setConfigDefaults()

	assert.Equal(t, int64(65), Config.Confirmations.Ethereum)
	assert.Equal(t, int64(35), Config.Confirmations.DefiChain)
	assert.Equal(t, "0.003", Config.Settlement.FeeRate)
	assert.Equal(t, 3, Config.Settlement.BroadcastAttempts)
	assert.Equal(t, "mainnet", Config.DefiChain.Network)
}

func TestValidateConfig(t *testing.T) {
	t.Run("Valid Configuration", func(t *testing.T) {
		Config = models.Config{}
		readConfigFromConfigFile("../config.sample.yml")
		Config.Ethereum.Mnemonic = testMnemonic
		Config.DefiChain.Mnemonic = testMnemonic
		setConfigDefaults()

		assert.NotPanics(t, func() { validateConfig() })
	})

	t.Run("Invalid Configuration", func(t *testing.T) {
		Config = models.Config{}

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { validateConfig() }, "validateConfig should panic")
	})

	t.Run("Missing Signer", func(t *testing.T) {
		Config = models.Config{}
		readConfigFromConfigFile("../config.sample.yml")
		Config.DefiChain.Mnemonic = testMnemonic
		setConfigDefaults()

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { validateConfig() }, "validateConfig should panic")
	})

	t.Run("Invalid Fee Rate", func(t *testing.T) {
		Config = models.Config{}
		readConfigFromConfigFile("../config.sample.yml")
		Config.Ethereum.Mnemonic = testMnemonic
		Config.DefiChain.Mnemonic = testMnemonic
		setConfigDefaults()
		Config.Settlement.FeeRate = "1.5"

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { validateConfig() }, "validateConfig should panic")
	})

	t.Run("Invalid Token Address", func(t *testing.T) {
		Config = models.Config{}
		readConfigFromConfigFile("../config.sample.yml")
		Config.Ethereum.Mnemonic = testMnemonic
		Config.DefiChain.Mnemonic = testMnemonic
		setConfigDefaults()
		Config.Settlement.Tokens[1].EthereumAddress = "usdt"

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { validateConfig() }, "validateConfig should panic")
	})
}
