package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/allocator"
	"github.com/dan13ram/dfc-bridge-settler/claim"
	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/eth/util"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type Ledger interface {
	Lock(ctx context.Context, resource string) (func(), error)
	RecordDeposit(ctx context.Context, sourceTxHash string) (*models.BridgeDeposit, confirm.Result, error)
	GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error)
	FindPendingPayouts() ([]models.BridgeDeposit, error)
	CreateTransfer(transfer ledger.NewTransfer) (*models.TransferRecord, error)
	GetTransfer(sourceTxHash string, statuses ...models.TransferStatus) (*models.TransferRecord, error)
	FindTransfers(filter ledger.TransferFilter) ([]models.TransferRecord, error)
	Transition(record *models.TransferRecord, to models.TransferStatus, update ledger.TransitionUpdate) (*models.TransferRecord, error)
	SetAdminDispatch(record *models.TransferRecord, dispatch models.AdminDispatch) (*models.TransferRecord, error)
	List(statuses []models.TransferStatus, cursor *int64, size int) (*ledger.Page, error)
}

type Allocator interface {
	Allocate(ctx context.Context, sourceTxHash string) (allocator.Result, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, request claim.Request) (*models.ClaimAuthorization, error)
}

type Refunds interface {
	RequestRefund(ctx context.Context, sourceTxHash string) (*models.TransferRecord, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
	MarkRefundProcessed(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error)
	CompleteRefund(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error)
}

type Config struct {
	BridgeAddress common.Address
	ChainId       *big.Int
	QueueExpiry   time.Duration
	Tokens        map[common.Address]models.TokenMapping
}

type DepositStatus struct {
	NumberOfConfirmations int64 `json:"numberOfConfirmations"`
	IsConfirmed           bool  `json:"isConfirmed"`
}

type AllocationStatus struct {
	PayoutTxHash                       string         `json:"payoutTxHash"`
	IsConfirmed                        bool           `json:"isConfirmed"`
	NumberOfConfirmationsOnDestination int64          `json:"numberOfConfirmationsOnDestination"`
	Kind                               allocator.Kind `json:"kind"`
	Reason                             string         `json:"reason,omitempty"`
}

type ClaimSignature struct {
	Signature string `json:"signature"`
	Nonce     string `json:"nonce"`
	Deadline  int64  `json:"deadline"`
}

type PageInfo struct {
	Next int64 `json:"next"`
}

type TransferList struct {
	Data []models.TransferRecord `json:"data"`
	Page *PageInfo               `json:"page,omitempty"`
}

type RegisterRequest struct {
	Flow          models.TransferFlow
	SourceTxHash  string
	RefundAddress string
}

// Service is the settlement entry point for routing layers.
type Service struct {
	config     Config
	ledger     Ledger
	tracker    confirm.Tracker
	ethClient  eth.EthereumClient
	contract   eth.BridgeContract
	dfcClient  dfc.DefiChainClient
	allocator  Allocator
	authorizer Authorizer
	refunds    Refunds
	now        func() time.Time
}

func NewService(
	config Config,
	ledger Ledger,
	tracker confirm.Tracker,
	ethClient eth.EthereumClient,
	contract eth.BridgeContract,
	dfcClient dfc.DefiChainClient,
	allocator Allocator,
	authorizer Authorizer,
	refunds Refunds,
) *Service {
	return &Service{
		config:     config,
		ledger:     ledger,
		tracker:    tracker,
		ethClient:  ethClient,
		contract:   contract,
		dfcClient:  dfcClient,
		allocator:  allocator,
		authorizer: authorizer,
		refunds:    refunds,
		now:        time.Now,
	}
}

// sourceCall reads and validates the bridge call behind sourceTxHash. The
// receipt is nil while the transaction is still pending.
func (s *Service) sourceCall(ctx context.Context, sourceTxHash string) (*types.Transaction, *util.BridgeCall, error) {
	tx, _, err := s.ethClient.GetTransactionByHash(ctx, sourceTxHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil, appcommon.NewNotFoundError("transaction", sourceTxHash)
		}
		return nil, nil, appcommon.NewTransientChainError("get transaction", err)
	}

	receipt, err := s.ethClient.GetTransactionReceipt(ctx, sourceTxHash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			return nil, nil, appcommon.NewTransientChainError("get transaction receipt", err)
		}
		receipt = nil
	}

	call, err := util.ValidateBridgeCall(tx, receipt, s.config.BridgeAddress)
	if err != nil {
		return nil, nil, err
	}
	return tx, call, nil
}

// HandleDeposit records a sighting of a bridge deposit and reports how far it
// is from final.
func (s *Service) HandleDeposit(ctx context.Context, sourceTxHash string) (*DepositStatus, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)

	if _, _, err := s.sourceCall(ctx, sourceTxHash); err != nil {
		return nil, err
	}

	deposit, result, err := s.ledger.RecordDeposit(ctx, sourceTxHash)
	if err != nil {
		return nil, err
	}

	return &DepositStatus{
		NumberOfConfirmations: result.Confirmations,
		IsConfirmed:           deposit.Status == models.DepositStatusConfirmed,
	}, nil
}

// Allocate pays out an instant deposit. Deposits registered as queue
// transfers are settled by an admin dispatch instead, and a registered
// transfer is only paid while it is DRAFT or IN_PROGRESS.
func (s *Service) Allocate(ctx context.Context, sourceTxHash string) (*AllocationStatus, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)

	// held across the payout so a refund request cannot interleave
	unlock, err := s.ledger.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := s.ledger.GetTransfer(sourceTxHash)
	if err != nil && !errors.Is(err, appcommon.ErrNotFound) {
		return nil, err
	}
	if record != nil {
		if record.Flow == models.TransferFlowQueue {
			return &AllocationStatus{Kind: allocator.KindRejected, Reason: "queue transfer is settled by admin dispatch"}, nil
		}
		if record.Status != models.TransferStatusDraft && record.Status != models.TransferStatusInProgress {
			return &AllocationStatus{Kind: allocator.KindRejected, Reason: "transfer is " + string(record.Status)}, nil
		}
	}

	result, err := s.allocator.Allocate(ctx, sourceTxHash)
	if err != nil {
		return nil, err
	}

	return &AllocationStatus{
		PayoutTxHash:                       result.PayoutTxHash,
		IsConfirmed:                        result.IsConfirmed(),
		NumberOfConfirmationsOnDestination: result.Confirmations,
		Kind:                               result.Kind,
		Reason:                             result.Reason,
	}, nil
}

func (s *Service) AuthorizeClaim(ctx context.Context, request claim.Request) (*ClaimSignature, error) {
	authorization, err := s.authorizer.Authorize(ctx, request)
	if err != nil {
		return nil, err
	}
	return &ClaimSignature{
		Signature: authorization.Signature,
		Nonce:     authorization.Nonce,
		Deadline:  authorization.Deadline,
	}, nil
}

// GetTransfer returns nil without error when no record matches.
func (s *Service) GetTransfer(sourceTxHash string, statuses ...models.TransferStatus) (*models.TransferRecord, error) {
	record, err := s.ledger.GetTransfer(sourceTxHash, statuses...)
	if err != nil {
		if errors.Is(err, appcommon.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) ListTransfers(statuses []models.TransferStatus, cursor *int64, size int) (*TransferList, error) {
	page, err := s.ledger.List(statuses, cursor, size)
	if err != nil {
		return nil, err
	}

	list := &TransferList{Data: page.Items}
	if page.Next != nil {
		list.Page = &PageInfo{Next: *page.Next}
	}
	return list, nil
}

func (s *Service) RequestRefund(ctx context.Context, sourceTxHash string) (*models.TransferRecord, error) {
	return s.refunds.RequestRefund(ctx, sourceTxHash)
}

// MarkRefundProcessed records the source chain refund of a queue transfer.
func (s *Service) MarkRefundProcessed(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	return s.refunds.MarkRefundProcessed(ctx, sourceTxHash, refundTxHash)
}

func (s *Service) CompleteRefund(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	return s.refunds.CompleteRefund(ctx, sourceTxHash, refundTxHash)
}

// RegisterTransfer opens a DRAFT transfer for a valid, non reverted bridge
// deposit.
func (s *Service) RegisterTransfer(ctx context.Context, request RegisterRequest) (*models.TransferRecord, error) {
	sourceTxHash := appcommon.NormalizeTxHash(request.SourceTxHash)
	if request.Flow != models.TransferFlowOrder && request.Flow != models.TransferFlowQueue {
		return nil, fmt.Errorf("unknown transfer flow %q", request.Flow)
	}

	tx, call, err := s.sourceCall(ctx, sourceTxHash)
	if err != nil {
		return nil, err
	}

	token, ok := s.config.Tokens[call.TokenAddress]
	if !ok {
		return nil, appcommon.NewInvalidTransactionError(sourceTxHash, "unsupported token "+call.TokenAddress.Hex())
	}

	refundAddress, err := s.refundAddress(tx, request.RefundAddress)
	if err != nil {
		return nil, err
	}

	decimals, err := s.contract.TokenDecimals(ctx, call.TokenAddress)
	if err != nil {
		return nil, appcommon.NewTransientChainError("get token decimals", err)
	}

	deposit, _, err := s.ledger.RecordDeposit(ctx, sourceTxHash)
	if err != nil {
		return nil, err
	}

	transfer := ledger.NewTransfer{
		Flow:               request.Flow,
		SourceTxHash:       sourceTxHash,
		SourceChainStatus:  deposit.Status,
		Amount:             util.FromBaseUnits(call.Amount, decimals).String(),
		TokenSymbol:        token.Symbol,
		DestinationAddress: call.DefiAddress,
		RefundAddress:      refundAddress,
	}
	if request.Flow == models.TransferFlowQueue {
		transfer.ExpiryDate = s.now().Add(s.config.QueueExpiry)
	}

	return s.ledger.CreateTransfer(transfer)
}

func (s *Service) refundAddress(tx *types.Transaction, requested string) (string, error) {
	if requested != "" {
		if !common.IsHexAddress(requested) {
			return "", fmt.Errorf("invalid refund address %s", requested)
		}
		return common.HexToAddress(requested).Hex(), nil
	}
	sender, err := types.Sender(types.LatestSignerForChainID(s.config.ChainId), tx)
	if err != nil {
		return "", fmt.Errorf("unable to recover deposit sender: %w", err)
	}
	return sender.Hex(), nil
}

// AdvanceTransfer moves a transfer as far along its lifecycle as the chains
// allow right now: a DRAFT becomes IN_PROGRESS once its deposit is final, an
// IN_PROGRESS transfer completes once its payout is final.
func (s *Service) AdvanceTransfer(ctx context.Context, sourceTxHash string) (*models.TransferRecord, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)

	unlock, err := s.ledger.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := s.ledger.GetTransfer(sourceTxHash)
	if err != nil {
		return nil, err
	}

	switch record.Status {
	case models.TransferStatusDraft:
		return s.advanceDraft(ctx, record)
	case models.TransferStatusInProgress:
		return s.reconcileDispatch(ctx, record)
	}
	return record, nil
}

func (s *Service) advanceDraft(ctx context.Context, record *models.TransferRecord) (*models.TransferRecord, error) {
	deposit, _, err := s.ledger.RecordDeposit(ctx, record.SourceTxHash)
	if err != nil {
		var invalid *appcommon.InvalidTransactionError
		if errors.As(err, &invalid) {
			return s.ledger.Transition(record, models.TransferStatusError, ledger.TransitionUpdate{ErrorReason: invalid.Reason})
		}
		return nil, err
	}

	if deposit.Status != models.DepositStatusConfirmed {
		return record, nil
	}
	return s.ledger.Transition(record, models.TransferStatusInProgress, ledger.TransitionUpdate{SourceChainStatus: models.DepositStatusConfirmed})
}

// reconcileDispatch follows the DeFiChain transaction paying the transfer,
// either the allocator's payout or an admin dispatch.
func (s *Service) reconcileDispatch(ctx context.Context, record *models.TransferRecord) (*models.TransferRecord, error) {
	dispatch := record.AdminDispatch
	if dispatch == nil {
		deposit, err := s.ledger.GetDeposit(record.SourceTxHash)
		if err != nil {
			if errors.Is(err, appcommon.ErrNotFound) {
				return record, nil
			}
			return nil, err
		}
		txHash := deposit.PayoutTxHash
		if txHash == "" {
			txHash = deposit.PendingPayoutTxHash
		}
		if txHash == "" {
			return record, nil
		}
		now := s.now()
		dispatch = &models.AdminDispatch{TxHash: txHash, Chain: models.ChainTypeDefiChain, CreatedAt: now}
	}

	result, err := s.tracker.Evaluate(ctx, dispatch.TxHash, models.ChainTypeDefiChain)
	if err != nil {
		return nil, err
	}

	updated := *dispatch
	updated.Confirmations = result.Confirmations
	updated.BlockHeight = result.Height
	updated.UpdatedAt = s.now()

	switch result.State {
	case confirm.StateConfirmed:
		updated.Status = models.TransactionStatusConfirmed
		return s.ledger.Transition(record, models.TransferStatusCompleted, ledger.TransitionUpdate{AdminDispatch: &updated})
	case confirm.StateReverted:
		updated.Status = models.TransactionStatusFailed
		return s.ledger.Transition(record, models.TransferStatusError, ledger.TransitionUpdate{
			ErrorReason:   "payout transaction failed",
			AdminDispatch: &updated,
		})
	}

	updated.Status = models.TransactionStatusPending
	return s.ledger.SetAdminDispatch(record, updated)
}

// RecordAdminDispatch attaches a manual DeFiChain payout to an IN_PROGRESS
// transfer. The transaction must have been sent from the payout address.
func (s *Service) RecordAdminDispatch(ctx context.Context, sourceTxHash string, dispatchTxHash string) (*models.TransferRecord, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)
	dispatchTxHash = strings.ToLower(appcommon.Remove0xPrefix(strings.TrimSpace(dispatchTxHash)))
	logger := log.WithField("source_tx_hash", sourceTxHash).WithField("dispatch_tx_hash", dispatchTxHash)

	unlock, err := s.ledger.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := s.ledger.GetTransfer(sourceTxHash)
	if err != nil {
		return nil, err
	}
	if record.Status != models.TransferStatusInProgress {
		return nil, appcommon.NewGuardViolationError(string(record.Status), "", "admin dispatch requires an in progress transfer")
	}
	if record.AdminDispatch != nil && record.AdminDispatch.Status != models.TransactionStatusFailed {
		return nil, appcommon.NewAlreadyProcessedError(sourceTxHash, record)
	}

	sent, err := s.sentFromPayoutAddress(ctx, dispatchTxHash)
	if err != nil {
		return nil, err
	}
	if !sent {
		return nil, appcommon.NewInvalidTransactionError(dispatchTxHash, "dispatch not sent from payout address")
	}

	now := s.now()
	record, err = s.ledger.SetAdminDispatch(record, models.AdminDispatch{
		TxHash:    dispatchTxHash,
		Chain:     models.ChainTypeDefiChain,
		Status:    models.TransactionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[SETTLEMENT] Recorded admin dispatch")
	return record, nil
}

// sentFromPayoutAddress looks the dispatch up in the hot wallet's UTXO sends
// and in its token account history.
func (s *Service) sentFromPayoutAddress(ctx context.Context, txHash string) (bool, error) {
	address := s.dfcClient.PayoutAddress()

	txs, err := s.dfcClient.ListTransactions(ctx, address)
	if err != nil {
		return false, appcommon.NewTransientChainError("list transactions", err)
	}
	for _, tx := range txs {
		if tx.Category == "send" && strings.EqualFold(tx.TxID, txHash) {
			return true, nil
		}
	}

	history, err := s.dfcClient.GetAccountHistory(ctx, address)
	if err != nil {
		return false, appcommon.NewTransientChainError("get account history", err)
	}
	for _, entry := range history {
		if strings.EqualFold(entry.TxId, txHash) && entry.Owner == address {
			return true, nil
		}
	}
	return false, nil
}
