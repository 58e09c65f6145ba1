package ledger

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

// DepositDetails are the decoded parts of a deposit needed to pay it out.
type DepositDetails struct {
	Amount           string
	TokenSymbol      string
	TokenAddress     string
	RecipientAddress string
	PayoutAmount     string
}

func DepositLockResource(sourceTxHash string) string {
	return models.CollectionDeposits + "/" + sourceTxHash
}

// PayoutLockResource guards the hot wallet while a payout is signed and
// first broadcast.
func PayoutLockResource(payoutAddress string) string {
	return "payouts/" + payoutAddress
}

func depositFilter(sourceTxHash string) bson.M {
	return bson.M{"source_tx_hash": sourceTxHash}
}

// RecordDeposit creates the deposit on first sighting and flips it to
// CONFIRMED once, after the source chain reports enough confirmations.
func (l *Ledger) RecordDeposit(ctx context.Context, sourceTxHash string) (*models.BridgeDeposit, confirm.Result, error) {
	sourceTxHash = common.NormalizeTxHash(sourceTxHash)
	logger := log.WithField("source_tx_hash", sourceTxHash)

	result, err := l.tracker.Evaluate(ctx, sourceTxHash, models.ChainTypeEthereum)
	if err != nil {
		return nil, result, err
	}
	if result.State == confirm.StateReverted {
		return nil, result, common.NewInvalidTransactionError(sourceTxHash, "transaction reverted")
	}

	now := l.now()
	_, err = l.db.UpsertOne(models.CollectionDeposits, depositFilter(sourceTxHash), bson.M{
		"$setOnInsert": bson.M{
			"source_tx_hash":         sourceTxHash,
			"status":                 models.DepositStatusNotConfirmed,
			"source_block_number":    result.Height,
			"confirmations":          result.Confirmations,
			"amount":                 "",
			"token_symbol":           "",
			"token_address":          "",
			"recipient_address":      "",
			"payout_amount":          "",
			"payout_tx_hash":         "",
			"pending_payout_tx_hash": "",
			"pending_payout_raw_tx":  "",
			"block_height":           int64(0),
			"block_hash":             "",
			"created_at":             now,
			"updated_at":             now,
		},
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, result, err
	}

	if result.State == confirm.StateConfirmed || result.State == confirm.StateUnderConfirmed {
		update := bson.M{
			"source_block_number": result.Height,
			"confirmations":       result.Confirmations,
			"updated_at":          now,
		}
		if result.IsConfirmed() {
			update["status"] = models.DepositStatusConfirmed
		}
		matched, err := l.db.UpdateOne(
			models.CollectionDeposits,
			bson.M{"source_tx_hash": sourceTxHash, "status": models.DepositStatusNotConfirmed},
			bson.M{"$set": update},
		)
		if err != nil {
			return nil, result, err
		}
		if matched > 0 && result.IsConfirmed() {
			logger.Info("[LEDGER] Deposit confirmed with ", result.Confirmations, " confirmations")
		}
	}

	deposit, err := l.GetDeposit(sourceTxHash)
	if err != nil {
		return nil, result, err
	}
	return deposit, result, nil
}

func (l *Ledger) GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error) {
	sourceTxHash = common.NormalizeTxHash(sourceTxHash)

	var deposit models.BridgeDeposit
	err := l.db.FindOne(models.CollectionDeposits, depositFilter(sourceTxHash), &deposit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("deposit", sourceTxHash)
		}
		return nil, err
	}
	return &deposit, nil
}

// SetDepositDetails stores decoded amounts. It is refused once a payout exists.
func (l *Ledger) SetDepositDetails(sourceTxHash string, details DepositDetails) error {
	matched, err := l.db.UpdateOne(
		models.CollectionDeposits,
		bson.M{
			"source_tx_hash":         sourceTxHash,
			"payout_tx_hash":         "",
			"pending_payout_tx_hash": "",
		},
		bson.M{"$set": bson.M{
			"amount":            details.Amount,
			"token_symbol":      details.TokenSymbol,
			"token_address":     details.TokenAddress,
			"recipient_address": details.RecipientAddress,
			"payout_amount":     details.PayoutAmount,
			"updated_at":        l.now(),
		}},
	)
	if err != nil {
		return err
	}
	if matched == 0 {
		return common.NewGuardViolationError("payout dispatched", "", "deposit details are frozen")
	}
	return nil
}

// SetPendingPayout records the payout txid before it is broadcast. It only
// matches a confirmed deposit with no payout of any kind, so at most one
// caller can win.
func (l *Ledger) SetPendingPayout(sourceTxHash string, payoutTxHash string, rawTx string) (bool, error) {
	matched, err := l.db.UpdateOne(
		models.CollectionDeposits,
		bson.M{
			"source_tx_hash":         sourceTxHash,
			"status":                 models.DepositStatusConfirmed,
			"payout_tx_hash":         "",
			"pending_payout_tx_hash": "",
		},
		bson.M{"$set": bson.M{
			"pending_payout_tx_hash": payoutTxHash,
			"pending_payout_raw_tx":  rawTx,
			"updated_at":             l.now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

// PromotePayout moves the pending payout hash to payout_tx_hash once it is
// final on DeFiChain.
func (l *Ledger) PromotePayout(sourceTxHash string, pendingTxHash string, blockHeight int64, blockHash string) (bool, error) {
	matched, err := l.db.UpdateOne(
		models.CollectionDeposits,
		bson.M{
			"source_tx_hash":         sourceTxHash,
			"pending_payout_tx_hash": pendingTxHash,
			"payout_tx_hash":         "",
		},
		bson.M{"$set": bson.M{
			"payout_tx_hash":         pendingTxHash,
			"pending_payout_tx_hash": "",
			"pending_payout_raw_tx":  "",
			"block_height":           blockHeight,
			"block_hash":             blockHash,
			"updated_at":             l.now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

// FindPendingPayouts lists confirmed deposits whose payout was broadcast but
// is not final yet.
func (l *Ledger) FindPendingPayouts() ([]models.BridgeDeposit, error) {
	deposits := []models.BridgeDeposit{}
	err := l.db.FindMany(models.CollectionDeposits, bson.M{
		"status":                 models.DepositStatusConfirmed,
		"payout_tx_hash":         "",
		"pending_payout_tx_hash": bson.M{"$ne": ""},
	}, &deposits)
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

func (l *Ledger) PurgeDeposit(sourceTxHash string) error {
	sourceTxHash = common.NormalizeTxHash(sourceTxHash)
	deleted, err := l.db.DeleteOne(models.CollectionDeposits, depositFilter(sourceTxHash))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return common.NewNotFoundError("deposit", sourceTxHash)
	}
	log.WithField("source_tx_hash", sourceTxHash).Info("[LEDGER] Purged deposit")
	return nil
}
