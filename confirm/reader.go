package confirm

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
)

// Inclusion describes where, if anywhere, a transaction landed.
type Inclusion struct {
	Found     bool
	Failed    bool
	Height    int64
	BlockHash string
}

type ChainReader interface {
	GetBlockHeight(ctx context.Context) (int64, error)
	GetInclusion(ctx context.Context, txHash string) (Inclusion, error)
}

type ethereumReader struct {
	client eth.EthereumClient
}

func NewEthereumReader(client eth.EthereumClient) ChainReader {
	return &ethereumReader{client: client}
}

func (r *ethereumReader) GetBlockHeight(ctx context.Context) (int64, error) {
	height, err := r.client.GetBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	return int64(height), nil
}

func (r *ethereumReader) GetInclusion(ctx context.Context, txHash string) (Inclusion, error) {
	receipt, err := r.client.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return Inclusion{}, nil
		}
		return Inclusion{}, err
	}
	if receipt == nil || receipt.BlockNumber == nil {
		return Inclusion{}, nil
	}
	return Inclusion{
		Found:     true,
		Failed:    receipt.Status == types.ReceiptStatusFailed,
		Height:    receipt.BlockNumber.Int64(),
		BlockHash: receipt.BlockHash.Hex(),
	}, nil
}

type defiChainReader struct {
	client dfc.DefiChainClient
}

func NewDefiChainReader(client dfc.DefiChainClient) ChainReader {
	return &defiChainReader{client: client}
}

func (r *defiChainReader) GetBlockHeight(ctx context.Context) (int64, error) {
	return r.client.GetBlockHeight(ctx)
}

// GetInclusion treats mempool transactions as not yet included.
func (r *defiChainReader) GetInclusion(ctx context.Context, txHash string) (Inclusion, error) {
	tx, err := r.client.GetTransaction(ctx, txHash)
	if err != nil {
		if dfc.IsTxNotFound(err) {
			return Inclusion{}, nil
		}
		return Inclusion{}, err
	}
	if tx == nil || tx.BlockHash == "" {
		return Inclusion{}, nil
	}

	height, err := r.client.GetBlockHeaderHeight(ctx, tx.BlockHash)
	if err != nil {
		return Inclusion{}, err
	}
	return Inclusion{
		Found:     true,
		Height:    height,
		BlockHash: tx.BlockHash,
	}, nil
}
