package settlement

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app"
	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

const (
	SettlementSweeperName = "settlement sweeper"
)

// SweepRunner re-invokes the idempotent settlement operations on a schedule:
// queue drafts are advanced, in progress transfers are reconciled before
// overdue queue transfers expire, then in flight payouts and refunds are
// followed up.
type SweepRunner struct {
	service         *Service
	dfcClient       dfc.DefiChainClient
	defiChainHeight int64
}

func (x *SweepRunner) Run() {
	x.UpdateDefiChainHeight()
	x.AdvanceDrafts()
	x.ReconcileInProgress()
	x.ExpireOverdue()
	x.FollowPendingPayouts()
	x.FollowRefunds()
}

func (x *SweepRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{
		DefiChainHeight: strconv.FormatInt(x.defiChainHeight, 10),
	}
}

func (x *SweepRunner) UpdateDefiChainHeight() {
	height, err := x.dfcClient.GetBlockHeight(context.Background())
	if err != nil {
		log.Error("[SETTLEMENT SWEEPER] Error while getting defichain height: ", err)
		return
	}
	x.defiChainHeight = height
	log.Info("[SETTLEMENT SWEEPER] Current defichain height: ", x.defiChainHeight)
}

func (x *SweepRunner) advance(statuses []models.TransferStatus, flow models.TransferFlow) bool {
	records, err := x.service.ledger.FindTransfers(ledger.TransferFilter{Flow: flow, Statuses: statuses})
	if err != nil {
		log.Error("[SETTLEMENT SWEEPER] Error while finding transfers: ", err)
		return false
	}

	success := true
	for _, record := range records {
		updated, err := x.service.AdvanceTransfer(context.Background(), record.SourceTxHash)
		if err != nil {
			log.Error("[SETTLEMENT SWEEPER] Error while advancing transfer: ", record.SourceTxHash, " ", err)
			success = false
			continue
		}
		if updated.Status != record.Status {
			log.Info("[SETTLEMENT SWEEPER] Advanced transfer ", record.SourceTxHash, " to ", updated.Status)
		}
	}
	return success
}

func (x *SweepRunner) AdvanceDrafts() bool {
	log.Debug("[SETTLEMENT SWEEPER] Advancing queue drafts")
	return x.advance([]models.TransferStatus{models.TransferStatusDraft}, models.TransferFlowQueue)
}

func (x *SweepRunner) ReconcileInProgress() bool {
	log.Debug("[SETTLEMENT SWEEPER] Reconciling in progress transfers")
	return x.advance([]models.TransferStatus{models.TransferStatusInProgress}, "")
}

func (x *SweepRunner) ExpireOverdue() bool {
	expired, err := x.service.refunds.ExpireOverdue(context.Background(), x.service.now())
	if err != nil {
		log.Error("[SETTLEMENT SWEEPER] Error while expiring transfers: ", err)
		return false
	}
	if expired > 0 {
		log.Info("[SETTLEMENT SWEEPER] Expired ", expired, " queue transfers")
	}
	return true
}

// FollowPendingPayouts re-allocates deposits with a payout in flight so they
// get promoted once final, or rebroadcast when the node dropped them.
func (x *SweepRunner) FollowPendingPayouts() bool {
	deposits, err := x.service.ledger.FindPendingPayouts()
	if err != nil {
		log.Error("[SETTLEMENT SWEEPER] Error while finding pending payouts: ", err)
		return false
	}

	success := true
	for _, deposit := range deposits {
		result, err := x.service.allocator.Allocate(context.Background(), deposit.SourceTxHash)
		if err != nil {
			log.Error("[SETTLEMENT SWEEPER] Error while following payout: ", deposit.SourceTxHash, " ", err)
			success = false
			continue
		}
		log.Debug("[SETTLEMENT SWEEPER] Payout for ", deposit.SourceTxHash, " is ", result.Kind)
	}
	return success
}

// FollowRefunds completes refunds whose source chain refund transaction is
// recorded and still pending.
func (x *SweepRunner) FollowRefunds() bool {
	records, err := x.service.ledger.FindTransfers(ledger.TransferFilter{
		Statuses: []models.TransferStatus{models.TransferStatusRefundRequested, models.TransferStatusRefundProcessed},
	})
	if err != nil {
		log.Error("[SETTLEMENT SWEEPER] Error while finding refunds: ", err)
		return false
	}

	success := true
	for _, record := range records {
		dispatch := record.AdminDispatch
		if dispatch == nil || dispatch.Chain != models.ChainTypeEthereum || dispatch.Status == models.TransactionStatusFailed {
			continue
		}
		updated, err := x.service.refunds.CompleteRefund(context.Background(), record.SourceTxHash, "")
		if err != nil {
			log.Error("[SETTLEMENT SWEEPER] Error while completing refund: ", record.SourceTxHash, " ", err)
			success = false
			continue
		}
		if updated.Status != record.Status {
			log.Info("[SETTLEMENT SWEEPER] Refunded transfer ", record.SourceTxHash)
		}
	}
	return success
}

func NewSweepRunner(service *Service, dfcClient dfc.DefiChainClient) app.Runner {
	return &SweepRunner{
		service:   service,
		dfcClient: dfcClient,
	}
}
