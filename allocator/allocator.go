package allocator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	dfcutil "github.com/dan13ram/dfc-bridge-settler/dfc/util"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/eth/util"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type Kind string

const (
	KindDispatched           Kind = "dispatched"
	KindAlreadyAllocated     Kind = "already_allocated"
	KindAwaitingConfirmation Kind = "awaiting_confirmation"
	KindSourceNotFinal       Kind = "source_not_final"
	KindRejected             Kind = "rejected"
)

type Result struct {
	Kind          Kind
	PayoutTxHash  string
	Confirmations int64
	Reason        string
}

func (r Result) IsConfirmed() bool {
	return r.Kind == KindDispatched || r.Kind == KindAlreadyAllocated
}

// Store is the part of the ledger the allocator writes through.
type Store interface {
	Lock(ctx context.Context, resource string) (func(), error)
	RecordDeposit(ctx context.Context, sourceTxHash string) (*models.BridgeDeposit, confirm.Result, error)
	GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error)
	SetDepositDetails(sourceTxHash string, details ledger.DepositDetails) error
	SetPendingPayout(sourceTxHash string, payoutTxHash string, rawTx string) (bool, error)
	PromotePayout(sourceTxHash string, pendingTxHash string, blockHeight int64, blockHash string) (bool, error)
	FindPendingPayouts() ([]models.BridgeDeposit, error)
}

type Config struct {
	BridgeAddress     common.Address
	FeeRate           decimal.Decimal
	BroadcastAttempts uint
	RetryInterval     time.Duration
	// source token address -> DeFiChain token symbol
	Tokens map[common.Address]string
	Params *chaincfg.Params
}

type Allocator struct {
	config   Config
	store    Store
	tracker  confirm.Tracker
	ethData  eth.EthereumClient
	contract eth.BridgeContract
	dfc      dfc.DefiChainClient
}

func NewAllocator(config Config, store Store, tracker confirm.Tracker, ethClient eth.EthereumClient, contract eth.BridgeContract, dfcClient dfc.DefiChainClient) *Allocator {
	if config.RetryInterval == 0 {
		config.RetryInterval = appcommon.DefaultRetryInterval
	}
	return &Allocator{
		config:   config,
		store:    store,
		tracker:  tracker,
		ethData:  ethClient,
		contract: contract,
		dfc:      dfcClient,
	}
}

func rejected(reason string) Result {
	return Result{Kind: KindRejected, Reason: reason}
}

// Allocate pays out a confirmed deposit on DeFiChain at most once. Repeated
// calls report on the payout already in flight.
func (a *Allocator) Allocate(ctx context.Context, sourceTxHash string) (Result, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)
	logger := log.WithField("source_tx_hash", sourceTxHash)

	call, err := a.validateSource(ctx, sourceTxHash)
	if err != nil {
		var invalid *appcommon.InvalidTransactionError
		if errors.As(err, &invalid) {
			logger.Warn("[ALLOCATOR] Rejected deposit: ", invalid.Reason)
			return rejected(invalid.Reason), nil
		}
		return Result{}, err
	}
	if call == nil {
		return Result{Kind: KindSourceNotFinal}, nil
	}

	unlock, err := a.store.Lock(ctx, ledger.DepositLockResource(sourceTxHash))
	if err != nil {
		return Result{}, fmt.Errorf("failed to lock deposit: %w", err)
	}
	defer unlock()

	deposit, source, err := a.store.RecordDeposit(ctx, sourceTxHash)
	if err != nil {
		var invalid *appcommon.InvalidTransactionError
		if errors.As(err, &invalid) {
			return rejected(invalid.Reason), nil
		}
		return Result{}, err
	}

	if deposit.PayoutTxHash != "" {
		return Result{Kind: KindAlreadyAllocated, PayoutTxHash: deposit.PayoutTxHash, Confirmations: a.payoutConfirmations(ctx, deposit.PayoutTxHash)}, nil
	}

	if deposit.PendingPayoutTxHash != "" {
		return a.checkPending(ctx, deposit)
	}

	if deposit.Status != models.DepositStatusConfirmed {
		return Result{Kind: KindSourceNotFinal, Confirmations: source.Confirmations}, nil
	}

	return a.dispatch(ctx, deposit, call)
}

// validateSource re-reads the source transaction. A nil call with no error
// means the transaction is not mined yet.
func (a *Allocator) validateSource(ctx context.Context, sourceTxHash string) (*util.BridgeCall, error) {
	tx, isPending, err := a.ethData.GetTransactionByHash(ctx, sourceTxHash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		if errors.Is(err, ethereum.NotFound) {
			return nil, appcommon.NewNotFoundError("transaction", sourceTxHash)
		}
		return nil, appcommon.NewTransientChainError("get transaction", err)
	}
	if isPending {
		return nil, nil
	}

	receipt, err := a.ethData.GetTransactionReceipt(ctx, sourceTxHash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, appcommon.NewTransientChainError("get transaction receipt", err)
	}

	return util.ValidateBridgeCall(tx, receipt, a.config.BridgeAddress)
}

func (a *Allocator) payoutConfirmations(ctx context.Context, payoutTxHash string) int64 {
	result, err := a.tracker.Evaluate(ctx, payoutTxHash, models.ChainTypeDefiChain)
	if err != nil {
		log.WithField("payout_tx_hash", payoutTxHash).Warn("[ALLOCATOR] Error evaluating payout: ", err)
		return a.tracker.Required(models.ChainTypeDefiChain)
	}
	return result.Confirmations
}

func (a *Allocator) checkPending(ctx context.Context, deposit *models.BridgeDeposit) (Result, error) {
	pending := deposit.PendingPayoutTxHash
	logger := log.WithField("source_tx_hash", deposit.SourceTxHash).WithField("payout_tx_hash", pending)

	result, err := a.tracker.Evaluate(ctx, pending, models.ChainTypeDefiChain)
	if err != nil {
		return Result{}, err
	}

	switch result.State {
	case confirm.StateConfirmed:
		promoted, err := a.store.PromotePayout(deposit.SourceTxHash, pending, result.Height, result.BlockHash)
		if err != nil {
			return Result{}, err
		}
		if promoted {
			logger.Info("[ALLOCATOR] Payout confirmed with ", result.Confirmations, " confirmations")
		}
		return Result{Kind: KindDispatched, PayoutTxHash: pending, Confirmations: result.Confirmations}, nil

	case confirm.StateUnderConfirmed:
		return Result{Kind: KindAwaitingConfirmation, PayoutTxHash: pending, Confirmations: result.Confirmations}, nil

	case confirm.StateReverted:
		return Result{}, fmt.Errorf("payout %s for deposit %s failed on chain", pending, deposit.SourceTxHash)
	}

	// not seen on chain; resend the payload recorded before the first broadcast
	if deposit.PendingPayoutRawTx != "" {
		logger.Debug("[ALLOCATOR] Payout not found on chain, rebroadcasting")
		if _, err := a.broadcast(ctx, pending, deposit.PendingPayoutRawTx); err != nil {
			return Result{}, err
		}
	}
	return Result{Kind: KindAwaitingConfirmation, PayoutTxHash: pending}, nil
}

func (a *Allocator) dispatch(ctx context.Context, deposit *models.BridgeDeposit, call *util.BridgeCall) (Result, error) {
	logger := log.WithField("source_tx_hash", deposit.SourceTxHash)

	symbol, ok := a.config.Tokens[call.TokenAddress]
	if !ok {
		return rejected("unsupported token " + call.TokenAddress.Hex()), nil
	}
	if _, err := dfc.DecodeAddress(call.DefiAddress, a.config.Params); err != nil {
		return rejected("invalid recipient address"), nil
	}

	decimals, err := a.contract.TokenDecimals(ctx, call.TokenAddress)
	if err != nil {
		return Result{}, appcommon.NewTransientChainError("get token decimals", err)
	}
	amount := util.FromBaseUnits(call.Amount, decimals)
	payout := PayoutAmount(amount, a.config.FeeRate)
	if !payout.IsPositive() {
		return rejected("payout amount is zero"), nil
	}

	err = a.store.SetDepositDetails(deposit.SourceTxHash, ledger.DepositDetails{
		Amount:           amount.String(),
		TokenSymbol:      symbol,
		TokenAddress:     call.TokenAddress.Hex(),
		RecipientAddress: call.DefiAddress,
		PayoutAmount:     payout.String(),
	})
	if err != nil {
		return Result{}, err
	}

	// every payout spends from the same wallet; hold it until the node has
	// seen this one so the next payout does not pick the same inputs
	unlock, err := a.store.Lock(ctx, ledger.PayoutLockResource(a.dfc.PayoutAddress()))
	if err != nil {
		return Result{}, fmt.Errorf("failed to lock payout wallet: %w", err)
	}
	defer unlock()

	exclude, err := a.pendingOutpoints()
	if err != nil {
		return Result{}, err
	}

	signed, err := a.dfc.CraftTransaction(ctx, dfc.PayoutRequest{
		Address: call.DefiAddress,
		Amount:  payout,
		Symbol:  symbol,
		Exclude: exclude,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to craft payout: %w", err)
	}

	won, err := a.store.SetPendingPayout(deposit.SourceTxHash, signed.TxHash, signed.RawTx)
	if err != nil {
		return Result{}, err
	}
	if !won {
		logger.Warn("[ALLOCATOR] Payout already recorded by another caller, discarding crafted payout")
		current, err := a.store.GetDeposit(deposit.SourceTxHash)
		if err != nil {
			return Result{}, err
		}
		if current.PayoutTxHash != "" {
			return Result{Kind: KindAlreadyAllocated, PayoutTxHash: current.PayoutTxHash}, nil
		}
		return Result{Kind: KindAwaitingConfirmation, PayoutTxHash: current.PendingPayoutTxHash}, nil
	}

	logger.WithField("payout_tx_hash", signed.TxHash).Info("[ALLOCATOR] Dispatching payout of ", payout, " ", symbol, " to ", call.DefiAddress)

	if _, err := a.broadcast(ctx, signed.TxHash, signed.RawTx); err != nil {
		return Result{}, err
	}
	return Result{Kind: KindAwaitingConfirmation, PayoutTxHash: signed.TxHash}, nil
}

// pendingOutpoints collects the inputs of payouts recorded but not final yet.
func (a *Allocator) pendingOutpoints() ([]wire.OutPoint, error) {
	deposits, err := a.store.FindPendingPayouts()
	if err != nil {
		return nil, err
	}

	var spent []wire.OutPoint
	for _, deposit := range deposits {
		if deposit.PendingPayoutRawTx == "" {
			continue
		}
		outpoints, err := dfcutil.SpentOutpoints(deposit.PendingPayoutRawTx)
		if err != nil {
			log.WithField("source_tx_hash", deposit.SourceTxHash).Warn("[ALLOCATOR] Unable to decode pending payout: ", err)
			continue
		}
		spent = append(spent, outpoints...)
	}
	return spent, nil
}

// broadcast sends the already signed payload, retrying transport failures.
// A node that already knows the transaction counts as success.
func (a *Allocator) broadcast(ctx context.Context, txHash string, rawTx string) (string, error) {
	return appcommon.RetryTransient(ctx, a.config.BroadcastAttempts, a.config.RetryInterval, func() (string, error) {
		sent, err := a.dfc.BroadcastSignedTransaction(ctx, rawTx)
		if err == nil {
			if sent != txHash {
				log.WithField("payout_tx_hash", txHash).Warn("[ALLOCATOR] Node returned unexpected txid ", sent)
			}
			return txHash, nil
		}
		if dfc.IsAlreadyBroadcast(err) {
			return txHash, nil
		}
		if dfc.IsNodeRejection(err) {
			return "", fmt.Errorf("payout %s rejected by node: %w", txHash, err)
		}
		return "", appcommon.NewTransientChainError("broadcast payout", err)
	})
}
