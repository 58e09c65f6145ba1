package client

import (
	"context"
	"fmt"
	"time"

	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dan13ram/dfc-bridge-settler/models"
	log "github.com/sirupsen/logrus"
)

const (
	MAX_QUERY_BLOCKS int64 = 499
)

type EthereumClient interface {
	ValidateNetwork(ctx context.Context) error
	GetBlockNumber(ctx context.Context) (uint64, error)
	GetChainID(ctx context.Context) (*big.Int, error)
	GetClient() *ethclient.Client
	GetTransactionByHash(ctx context.Context, txHash string) (*types.Transaction, bool, error)
	GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
}

type ethereumClient struct {
	client  *ethclient.Client
	chainID string
	timeout time.Duration
}

func (c *ethereumClient) GetClient() *ethclient.Client {
	return c.client
}

func (c *ethereumClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	blockNumber, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	return blockNumber, nil
}

func (c *ethereumClient) GetChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	return chainID, nil
}

func (c *ethereumClient) ValidateNetwork(ctx context.Context) error {
	log.Debugln("[ETH]", "Validating network")

	chainID, err := c.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	blockNumber, err := c.GetBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block number: %w", err)
	}

	log.Debugln("[ETH]", "chainID", chainID.Uint64())

	if chainID.String() != c.chainID {
		return fmt.Errorf("chain id mismatch: expected %s, got %s", c.chainID, chainID.String())
	}

	log.Debugln("[ETH]", "blockNumber", blockNumber)

	log.Infoln("[ETH]", "Validated network")
	return nil
}

func (c *ethereumClient) GetTransactionByHash(ctx context.Context, txHash string) (*types.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tx, isPending, err := c.client.TransactionByHash(ctx, common.HexToHash(txHash))
	return tx, isPending, err
}

func (c *ethereumClient) GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	return receipt, err
}

func (c *ethereumClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.FilterLogs(ctx, query)
}

func NewClient(config models.EthereumConfig) (EthereumClient, error) {
	client, err := ethclient.Dial(config.RPCURL)
	if err != nil {
		return nil, err
	}
	return &ethereumClient{
		client:  client,
		chainID: config.ChainID,
		timeout: time.Duration(config.RPCTimeoutMillis) * time.Millisecond,
	}, nil
}
