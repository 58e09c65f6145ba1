package refund

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/eth/util"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type Store interface {
	Lock(ctx context.Context, resource string) (func(), error)
	GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error)
	GetTransfer(sourceTxHash string, statuses ...models.TransferStatus) (*models.TransferRecord, error)
	FindTransfers(filter ledger.TransferFilter) ([]models.TransferRecord, error)
	Transition(record *models.TransferRecord, to models.TransferStatus, update ledger.TransitionUpdate) (*models.TransferRecord, error)
	SetAdminDispatch(record *models.TransferRecord, dispatch models.AdminDispatch) (*models.TransferRecord, error)
}

type Config struct {
	BridgeAddress common.Address
}

type Coordinator struct {
	config    Config
	store     Store
	ethClient eth.EthereumClient
	tracker   confirm.Tracker
	now       func() time.Time
}

func NewCoordinator(config Config, store Store, ethClient eth.EthereumClient, tracker confirm.Tracker) *Coordinator {
	return &Coordinator{
		config:    config,
		store:     store,
		ethClient: ethClient,
		tracker:   tracker,
		now:       time.Now,
	}
}

var overdueStatuses = []models.TransferStatus{
	models.TransferStatusInProgress,
	models.TransferStatusError,
	models.TransferStatusRejected,
}

// RequestRefund moves an eligible transfer to REFUND_REQUESTED. Queue
// transfers must be past their expiry date and are expired on the way. A
// transfer whose payout was dispatched is never refunded.
func (c *Coordinator) RequestRefund(ctx context.Context, sourceTxHash string) (*models.TransferRecord, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)
	logger := log.WithField("source_tx_hash", sourceTxHash)

	unlock, err := c.store.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := c.store.GetTransfer(sourceTxHash)
	if err != nil {
		return nil, err
	}

	if ledger.IsRefundInFlight(record.Status) {
		return nil, appcommon.NewAlreadyProcessedError(sourceTxHash, record)
	}
	if !ledger.IsRefundEligible(record.Status) {
		return nil, appcommon.NewGuardViolationError(string(record.Status), "", "cannot refund in current status")
	}

	// the allocator takes the deposit lock before dispatching
	unlockDeposit, err := c.store.Lock(ctx, ledger.DepositLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock deposit: %w", err)
	}
	defer unlockDeposit()

	if err := c.checkNotPaid(record); err != nil {
		return nil, err
	}

	if err := c.validateSource(ctx, sourceTxHash); err != nil {
		return nil, err
	}

	// Orders are paid by the allocator on request rather than by a deferred
	// admin dispatch. Once checkNotPaid passes under the deposit lock and the
	// record leaves IN_PROGRESS, Allocate refuses them, so no expiry applies.
	if record.Flow == models.TransferFlowQueue && record.Status != models.TransferStatusExpired {
		if !record.ExpiryDate.Before(c.now()) {
			return nil, appcommon.NewGuardViolationError(string(record.Status), string(models.TransferStatusRefundRequested), "cannot refund before expiry")
		}
		record, err = c.store.Transition(record, models.TransferStatusExpired, ledger.TransitionUpdate{})
		if err != nil {
			return nil, err
		}
	}

	record, err = c.store.Transition(record, models.TransferStatusRefundRequested, ledger.TransitionUpdate{})
	if err != nil {
		return nil, err
	}

	logger.Info("[REFUND] Refund requested")
	return record, nil
}

// checkNotPaid fails when the transfer has a payout pending or final, either
// from the allocator or an admin dispatch.
func (c *Coordinator) checkNotPaid(record *models.TransferRecord) error {
	if hasDispatch(record) {
		return appcommon.NewGuardViolationError(string(record.Status), string(models.TransferStatusRefundRequested), "payout already dispatched")
	}

	deposit, err := c.store.GetDeposit(record.SourceTxHash)
	if err != nil {
		if errors.Is(err, appcommon.ErrNotFound) {
			return nil
		}
		return err
	}
	if deposit.PayoutTxHash != "" || deposit.PendingPayoutTxHash != "" {
		return appcommon.NewGuardViolationError(string(record.Status), string(models.TransferStatusRefundRequested), "payout already dispatched")
	}
	return nil
}

func hasDispatch(record *models.TransferRecord) bool {
	return record.AdminDispatch != nil && record.AdminDispatch.Status != models.TransactionStatusFailed
}

// validateSource checks the deposit was sent to the bridge contract with the
// bridge-in selector before anything is paid back.
func (c *Coordinator) validateSource(ctx context.Context, sourceTxHash string) error {
	tx, _, err := c.ethClient.GetTransactionByHash(ctx, sourceTxHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return appcommon.NewNotFoundError("transaction", sourceTxHash)
		}
		return appcommon.NewTransientChainError("get transaction", err)
	}
	_, err = util.ValidateBridgeCall(tx, nil, c.config.BridgeAddress)
	return err
}

// ExpireOverdue expires queue transfers whose expiry date is before now and
// returns how many were expired. Transfers with a live admin dispatch are left
// for reconciliation.
func (c *Coordinator) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	records, err := c.store.FindTransfers(ledger.TransferFilter{
		Flow:          models.TransferFlowQueue,
		Statuses:      overdueStatuses,
		ExpiredBefore: &now,
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range records {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		record := &records[i]
		if hasDispatch(record) {
			log.WithField("source_tx_hash", record.SourceTxHash).Debug("[REFUND] Skipping expiry: payout dispatched")
			continue
		}
		if _, err := c.store.Transition(record, models.TransferStatusExpired, ledger.TransitionUpdate{}); err != nil {
			if errors.Is(err, appcommon.ErrGuardViolation) {
				log.WithField("source_tx_hash", record.SourceTxHash).Debug("[REFUND] Skipping expiry: ", err)
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// MarkRefundProcessed records the refund transaction of a queue transfer.
func (c *Coordinator) MarkRefundProcessed(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)

	unlock, err := c.store.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := c.store.GetTransfer(sourceTxHash)
	if err != nil {
		return nil, err
	}

	now := c.now()
	return c.store.Transition(record, models.TransferStatusRefundProcessed, ledger.TransitionUpdate{
		AdminDispatch: &models.AdminDispatch{
			TxHash:    appcommon.NormalizeTxHash(refundTxHash),
			Chain:     models.ChainTypeEthereum,
			Status:    models.TransactionStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}

// CompleteRefund marks a transfer REFUNDED once its refund transaction is
// final on the source chain. Until then the record is returned with the
// dispatch confirmations refreshed. refundTxHash may be empty when a refund
// dispatch is already recorded.
func (c *Coordinator) CompleteRefund(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	sourceTxHash = appcommon.NormalizeTxHash(sourceTxHash)
	logger := log.WithField("source_tx_hash", sourceTxHash)

	unlock, err := c.store.Lock(ctx, ledger.TransferLockResource(sourceTxHash))
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer: %w", err)
	}
	defer unlock()

	record, err := c.store.GetTransfer(sourceTxHash)
	if err != nil {
		return nil, err
	}
	if record.Status == models.TransferStatusRefunded {
		return nil, appcommon.NewAlreadyProcessedError(sourceTxHash, record)
	}
	if err := ledger.CanTransition(record.Flow, record.Status, models.TransferStatusRefunded); err != nil {
		return nil, err
	}

	dispatch := models.AdminDispatch{Chain: models.ChainTypeEthereum, CreatedAt: c.now()}
	if record.AdminDispatch != nil {
		dispatch = *record.AdminDispatch
	}
	if refundTxHash != "" {
		dispatch.TxHash = appcommon.NormalizeTxHash(refundTxHash)
	}
	if dispatch.TxHash == "" {
		return nil, appcommon.NewGuardViolationError(string(record.Status), string(models.TransferStatusRefunded), "missing refund transaction")
	}

	result, err := c.tracker.Evaluate(ctx, dispatch.TxHash, models.ChainTypeEthereum)
	if err != nil {
		return nil, err
	}

	dispatch.Confirmations = result.Confirmations
	dispatch.BlockHeight = result.Height
	dispatch.UpdatedAt = c.now()

	switch result.State {
	case confirm.StateConfirmed:
		dispatch.Status = models.TransactionStatusConfirmed
		record, err = c.store.Transition(record, models.TransferStatusRefunded, ledger.TransitionUpdate{AdminDispatch: &dispatch})
		if err != nil {
			return nil, err
		}
		logger.Info("[REFUND] Refund completed with ", result.Confirmations, " confirmations")
		return record, nil

	case confirm.StateReverted:
		dispatch.Status = models.TransactionStatusFailed
		if _, err := c.store.SetAdminDispatch(record, dispatch); err != nil {
			return nil, err
		}
		return nil, appcommon.NewInvalidTransactionError(dispatch.TxHash, "refund transaction reverted")
	}

	dispatch.Status = models.TransactionStatusPending
	return c.store.SetAdminDispatch(record, dispatch)
}
