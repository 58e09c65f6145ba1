package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type State string

const (
	StatePending        State = "pending"
	StateReverted       State = "reverted"
	StateUnderConfirmed State = "under_confirmed"
	StateConfirmed      State = "confirmed"
)

type Result struct {
	State         State
	Confirmations int64
	Required      int64
	Height        int64
	BlockHash     string
}

func (r Result) IsConfirmed() bool {
	return r.State == StateConfirmed
}

// Config.Timeouts bounds one evaluation per chain; a missing or zero entry
// means no bound.
type Config struct {
	Thresholds models.ConfirmationsConfig
	Timeouts   map[models.ChainType]time.Duration
}

type Tracker interface {
	Evaluate(ctx context.Context, txHash string, chain models.ChainType) (Result, error)
	Required(chain models.ChainType) int64
}

type tracker struct {
	readers    map[models.ChainType]ChainReader
	thresholds models.ConfirmationsConfig
	timeouts   map[models.ChainType]time.Duration
}

func NewTracker(config Config, readers map[models.ChainType]ChainReader) Tracker {
	return &tracker{
		readers:    readers,
		thresholds: config.Thresholds,
		timeouts:   config.Timeouts,
	}
}

func (t *tracker) Required(chain models.ChainType) int64 {
	switch chain {
	case models.ChainTypeEthereum:
		return t.thresholds.Ethereum
	case models.ChainTypeDefiChain:
		return t.thresholds.DefiChain
	}
	return 0
}

// Classify maps an inclusion and the current tip to a confirmation state.
func Classify(inclusion Inclusion, currentHeight int64, required int64) Result {
	if !inclusion.Found {
		return Result{State: StatePending, Required: required}
	}

	result := Result{
		Required:  required,
		Height:    inclusion.Height,
		BlockHash: inclusion.BlockHash,
	}
	if inclusion.Failed {
		result.State = StateReverted
		return result
	}

	confirmations := currentHeight - inclusion.Height
	if confirmations < 0 {
		confirmations = 0
	}
	result.Confirmations = confirmations

	if confirmations >= required {
		result.State = StateConfirmed
	} else {
		result.State = StateUnderConfirmed
	}
	return result
}

// Evaluate never writes. A deadline hit while talking to the chain is
// reported as Pending; other chain errors are transient.
func (t *tracker) Evaluate(ctx context.Context, txHash string, chain models.ChainType) (Result, error) {
	reader, ok := t.readers[chain]
	if !ok {
		return Result{}, fmt.Errorf("no reader for chain %s", chain)
	}
	required := t.Required(chain)

	if timeout := t.timeouts[chain]; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := log.WithField("tx_hash", txHash).WithField("chain", chain)

	inclusion, err := reader.GetInclusion(ctx, txHash)
	if err != nil {
		return t.failed(logger, required, "get inclusion", err)
	}
	if !inclusion.Found {
		return Result{State: StatePending, Required: required}, nil
	}

	currentHeight, err := reader.GetBlockHeight(ctx)
	if err != nil {
		return t.failed(logger, required, "get block height", err)
	}

	result := Classify(inclusion, currentHeight, required)
	logger.Debugf("evaluated %s with %d/%d confirmations", result.State, result.Confirmations, result.Required)
	return result, nil
}

func (t *tracker) failed(logger *log.Entry, required int64, op string, err error) (Result, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("timed out while evaluating confirmations: ", err)
		return Result{State: StatePending, Required: required}, nil
	}
	return Result{}, common.NewTransientChainError(op, err)
}
