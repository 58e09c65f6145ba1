package settlement

import (
	"context"
	"sort"
	"sync"
	"time"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

// memLedger is an in-memory Ledger that applies the transfer state machine.
type memLedger struct {
	mu        sync.Mutex
	source    confirm.Result
	sourceErr error
	deposits  map[string]*models.BridgeDeposit
	transfers map[string]*models.TransferRecord
	nextId    int64
}

func newMemLedger(source confirm.Result) *memLedger {
	return &memLedger{
		source:    source,
		deposits:  map[string]*models.BridgeDeposit{},
		transfers: map[string]*models.TransferRecord{},
	}
}

func (m *memLedger) Lock(ctx context.Context, resource string) (func(), error) {
	return func() {}, nil
}

func (m *memLedger) RecordDeposit(ctx context.Context, sourceTxHash string) (*models.BridgeDeposit, confirm.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sourceErr != nil {
		return nil, m.source, m.sourceErr
	}
	deposit, ok := m.deposits[sourceTxHash]
	if !ok {
		deposit = &models.BridgeDeposit{SourceTxHash: sourceTxHash, Status: models.DepositStatusNotConfirmed}
		m.deposits[sourceTxHash] = deposit
	}
	deposit.Confirmations = m.source.Confirmations
	if m.source.IsConfirmed() {
		deposit.Status = models.DepositStatusConfirmed
	}
	copied := *deposit
	return &copied, m.source, nil
}

func (m *memLedger) GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deposit, ok := m.deposits[sourceTxHash]
	if !ok {
		return nil, appcommon.NewNotFoundError("deposit", sourceTxHash)
	}
	copied := *deposit
	return &copied, nil
}

func (m *memLedger) FindPendingPayouts() ([]models.BridgeDeposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deposits := []models.BridgeDeposit{}
	for _, deposit := range m.deposits {
		if deposit.Status == models.DepositStatusConfirmed && deposit.PayoutTxHash == "" && deposit.PendingPayoutTxHash != "" {
			deposits = append(deposits, *deposit)
		}
	}
	return deposits, nil
}

func (m *memLedger) CreateTransfer(transfer ledger.NewTransfer) (*models.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.transfers[transfer.SourceTxHash]; ok {
		copied := *existing
		return nil, appcommon.NewAlreadyProcessedError(transfer.SourceTxHash, &copied)
	}
	m.nextId++
	record := &models.TransferRecord{
		Id:                 m.nextId,
		Flow:               transfer.Flow,
		SourceTxHash:       transfer.SourceTxHash,
		SourceChainStatus:  transfer.SourceChainStatus,
		Status:             models.TransferStatusDraft,
		Amount:             transfer.Amount,
		TokenSymbol:        transfer.TokenSymbol,
		DestinationAddress: transfer.DestinationAddress,
		RefundAddress:      transfer.RefundAddress,
		ExpiryDate:         transfer.ExpiryDate,
	}
	m.transfers[transfer.SourceTxHash] = record
	copied := *record
	return &copied, nil
}

func (m *memLedger) put(record models.TransferRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[record.SourceTxHash] = &record
}

func (m *memLedger) GetTransfer(sourceTxHash string, statuses ...models.TransferStatus) (*models.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.transfers[sourceTxHash]
	if !ok || (len(statuses) > 0 && !hasStatus(statuses, record.Status)) {
		return nil, appcommon.NewNotFoundError("transfer", sourceTxHash)
	}
	copied := *record
	return &copied, nil
}

func hasStatus(statuses []models.TransferStatus, status models.TransferStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (m *memLedger) sorted() []models.TransferRecord {
	records := []models.TransferRecord{}
	for _, record := range m.transfers {
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Id < records[j].Id })
	return records
}

func (m *memLedger) FindTransfers(filter ledger.TransferFilter) ([]models.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := []models.TransferRecord{}
	for _, record := range m.sorted() {
		if filter.Flow != "" && record.Flow != filter.Flow {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, record.Status) {
			continue
		}
		if filter.ExpiredBefore != nil && !record.ExpiryDate.Before(*filter.ExpiredBefore) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *memLedger) Transition(record *models.TransferRecord, to models.TransferStatus, update ledger.TransitionUpdate) (*models.TransferRecord, error) {
	if err := ledger.CanTransition(record.Flow, record.Status, to); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.transfers[record.SourceTxHash]
	if stored.Status != record.Status {
		return nil, appcommon.NewGuardViolationError(string(stored.Status), string(to), "status changed concurrently")
	}
	stored.Status = to
	if update.ErrorReason != "" {
		stored.ErrorReason = update.ErrorReason
	}
	if update.SourceChainStatus != "" {
		stored.SourceChainStatus = update.SourceChainStatus
	}
	if update.AdminDispatch != nil {
		stored.AdminDispatch = update.AdminDispatch
	}
	copied := *stored
	return &copied, nil
}

func (m *memLedger) SetAdminDispatch(record *models.TransferRecord, dispatch models.AdminDispatch) (*models.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.transfers[record.SourceTxHash]
	stored.AdminDispatch = &dispatch
	copied := *stored
	return &copied, nil
}

func (m *memLedger) List(statuses []models.TransferStatus, cursor *int64, size int) (*ledger.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.TransferRecord{}
	for _, record := range m.sorted() {
		if cursor != nil && record.Id <= *cursor {
			continue
		}
		if len(statuses) > 0 && !hasStatus(statuses, record.Status) {
			continue
		}
		items = append(items, record)
	}
	page := &ledger.Page{Items: items}
	if len(items) > size {
		next := items[size-1].Id
		page.Items = items[:size]
		page.Next = &next
	}
	return page, nil
}

type fakeRefunds struct {
	expiredAt []time.Time
	completed []string
}

func (f *fakeRefunds) RequestRefund(ctx context.Context, sourceTxHash string) (*models.TransferRecord, error) {
	return &models.TransferRecord{SourceTxHash: sourceTxHash, Status: models.TransferStatusRefundRequested}, nil
}

func (f *fakeRefunds) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	f.expiredAt = append(f.expiredAt, now)
	return 0, nil
}

func (f *fakeRefunds) MarkRefundProcessed(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	return &models.TransferRecord{
		SourceTxHash:  sourceTxHash,
		Status:        models.TransferStatusRefundProcessed,
		AdminDispatch: &models.AdminDispatch{TxHash: refundTxHash, Chain: models.ChainTypeEthereum},
	}, nil
}

func (f *fakeRefunds) CompleteRefund(ctx context.Context, sourceTxHash string, refundTxHash string) (*models.TransferRecord, error) {
	f.completed = append(f.completed, sourceTxHash)
	return &models.TransferRecord{SourceTxHash: sourceTxHash, Status: models.TransferStatusRefunded}, nil
}
