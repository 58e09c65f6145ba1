package ledger

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type NewTransfer struct {
	Flow               models.TransferFlow
	SourceTxHash       string
	SourceChainStatus  models.DepositStatus
	Amount             string
	TokenSymbol        string
	DestinationAddress string
	RefundAddress      string
	ExpiryDate         time.Time
}

// TransitionUpdate carries the fields written together with a status change.
type TransitionUpdate struct {
	ErrorReason       string
	SourceChainStatus models.DepositStatus
	AdminDispatch     *models.AdminDispatch
}

type TransferFilter struct {
	Flow          models.TransferFlow
	Statuses      []models.TransferStatus
	ExpiredBefore *time.Time
}

func TransferLockResource(sourceTxHash string) string {
	return models.CollectionTransfers + "/" + sourceTxHash
}

func statusFilter(statuses []models.TransferStatus) interface{} {
	if len(statuses) == 1 {
		return statuses[0]
	}
	return bson.M{"$in": statuses}
}

// CreateTransfer inserts a DRAFT record with the next sequence id. A second
// record for the same source transaction is refused with the stored one.
func (l *Ledger) CreateTransfer(transfer NewTransfer) (*models.TransferRecord, error) {
	sourceTxHash := common.NormalizeTxHash(transfer.SourceTxHash)

	if existing, err := l.GetTransfer(sourceTxHash); err == nil {
		return nil, common.NewAlreadyProcessedError(sourceTxHash, existing)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	id, err := l.db.NextSequence(models.TransferSequenceName)
	if err != nil {
		return nil, err
	}

	now := l.now()
	record := models.TransferRecord{
		Id:                 id,
		Flow:               transfer.Flow,
		SourceTxHash:       sourceTxHash,
		SourceChainStatus:  transfer.SourceChainStatus,
		Status:             models.TransferStatusDraft,
		Amount:             transfer.Amount,
		TokenSymbol:        transfer.TokenSymbol,
		DestinationAddress: transfer.DestinationAddress,
		RefundAddress:      transfer.RefundAddress,
		ExpiryDate:         transfer.ExpiryDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := l.db.InsertOne(models.CollectionTransfers, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, findErr := l.GetTransfer(sourceTxHash)
			if findErr != nil {
				return nil, findErr
			}
			return nil, common.NewAlreadyProcessedError(sourceTxHash, existing)
		}
		return nil, err
	}

	log.WithField("source_tx_hash", sourceTxHash).WithField("id", id).Info("[LEDGER] Created ", transfer.Flow, " transfer")
	return &record, nil
}

// GetTransfer finds the record for a source transaction, optionally
// restricted to a set of statuses.
func (l *Ledger) GetTransfer(sourceTxHash string, statuses ...models.TransferStatus) (*models.TransferRecord, error) {
	sourceTxHash = common.NormalizeTxHash(sourceTxHash)

	filter := bson.M{"source_tx_hash": sourceTxHash}
	if len(statuses) > 0 {
		filter["status"] = statusFilter(statuses)
	}

	var record models.TransferRecord
	err := l.db.FindOne(models.CollectionTransfers, filter, &record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("transfer", sourceTxHash)
		}
		return nil, err
	}
	return &record, nil
}

func (l *Ledger) FindTransfers(filter TransferFilter) ([]models.TransferRecord, error) {
	query := bson.M{}
	if filter.Flow != "" {
		query["flow"] = filter.Flow
	}
	if len(filter.Statuses) > 0 {
		query["status"] = statusFilter(filter.Statuses)
	}
	if filter.ExpiredBefore != nil {
		query["expiry_date"] = bson.M{"$lt": *filter.ExpiredBefore}
	}

	records := []models.TransferRecord{}
	if err := l.db.FindManySorted(models.CollectionTransfers, query, bson.D{{Key: "id", Value: 1}}, 0, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Transition moves record to status `to` if the state machine allows it and
// nobody changed the record since it was read.
func (l *Ledger) Transition(record *models.TransferRecord, to models.TransferStatus, update TransitionUpdate) (*models.TransferRecord, error) {
	if err := CanTransition(record.Flow, record.Status, to); err != nil {
		return nil, err
	}

	now := l.now()
	set := bson.M{
		"status":     to,
		"updated_at": now,
	}
	if update.ErrorReason != "" {
		set["error_reason"] = update.ErrorReason
	}
	if update.SourceChainStatus != "" {
		set["source_chain_status"] = update.SourceChainStatus
	}
	if update.AdminDispatch != nil {
		set["admin_dispatch"] = update.AdminDispatch
	}

	matched, err := l.db.UpdateOne(
		models.CollectionTransfers,
		bson.M{"source_tx_hash": record.SourceTxHash, "status": record.Status},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		current, err := l.GetTransfer(record.SourceTxHash)
		if err != nil {
			return nil, err
		}
		return nil, common.NewGuardViolationError(string(current.Status), string(to), "status changed concurrently")
	}

	updated := *record
	updated.Status = to
	updated.UpdatedAt = now
	if update.ErrorReason != "" {
		updated.ErrorReason = update.ErrorReason
	}
	if update.SourceChainStatus != "" {
		updated.SourceChainStatus = update.SourceChainStatus
	}
	if update.AdminDispatch != nil {
		updated.AdminDispatch = update.AdminDispatch
	}

	log.WithField("source_tx_hash", record.SourceTxHash).Info("[LEDGER] Transfer ", record.Status, " -> ", to)
	return &updated, nil
}

// SetAdminDispatch records or refreshes the dispatch without changing status.
func (l *Ledger) SetAdminDispatch(record *models.TransferRecord, dispatch models.AdminDispatch) (*models.TransferRecord, error) {
	matched, err := l.db.UpdateOne(
		models.CollectionTransfers,
		bson.M{"source_tx_hash": record.SourceTxHash, "status": record.Status},
		bson.M{"$set": bson.M{"admin_dispatch": dispatch, "updated_at": l.now()}},
	)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, common.NewGuardViolationError(string(record.Status), "", "status changed concurrently")
	}

	updated := *record
	updated.AdminDispatch = &dispatch
	return &updated, nil
}
