package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

var allStatuses = []models.TransferStatus{
	models.TransferStatusDraft,
	models.TransferStatusInProgress,
	models.TransferStatusCompleted,
	models.TransferStatusError,
	models.TransferStatusRejected,
	models.TransferStatusExpired,
	models.TransferStatusRefundRequested,
	models.TransferStatusRefundProcessed,
	models.TransferStatusRefunded,
}

func TestCanTransition(t *testing.T) {
	allowed := map[models.TransferFlow]map[models.TransferStatus][]models.TransferStatus{
		models.TransferFlowOrder: {
			models.TransferStatusDraft:           {models.TransferStatusInProgress, models.TransferStatusError, models.TransferStatusRejected},
			models.TransferStatusInProgress:      {models.TransferStatusCompleted, models.TransferStatusError, models.TransferStatusRejected, models.TransferStatusRefundRequested},
			models.TransferStatusCompleted:       {models.TransferStatusError, models.TransferStatusRejected},
			models.TransferStatusError:           {models.TransferStatusRefundRequested},
			models.TransferStatusRejected:        {models.TransferStatusRefundRequested},
			models.TransferStatusRefundRequested: {models.TransferStatusRefunded},
		},
		models.TransferFlowQueue: {
			models.TransferStatusDraft:           {models.TransferStatusInProgress, models.TransferStatusError, models.TransferStatusRejected},
			models.TransferStatusInProgress:      {models.TransferStatusCompleted, models.TransferStatusError, models.TransferStatusRejected, models.TransferStatusExpired},
			models.TransferStatusCompleted:       {models.TransferStatusError, models.TransferStatusRejected},
			models.TransferStatusError:           {models.TransferStatusExpired},
			models.TransferStatusRejected:        {models.TransferStatusExpired},
			models.TransferStatusExpired:         {models.TransferStatusRefundRequested},
			models.TransferStatusRefundRequested: {models.TransferStatusRefundProcessed},
			models.TransferStatusRefundProcessed: {models.TransferStatusRefunded},
		},
	}

	for flow, table := range allowed {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				expected := false
				for _, s := range table[from] {
					if s == to {
						expected = true
					}
				}

				err := CanTransition(flow, from, to)
				if expected {
					assert.Nil(t, err, "%s: %s -> %s", flow, from, to)
				} else {
					assert.True(t, errors.Is(err, common.ErrGuardViolation), "%s: %s -> %s", flow, from, to)
				}
			}
		}
	}
}

func TestCanTransitionCarriesCurrentStatus(t *testing.T) {
	err := CanTransition(models.TransferFlowOrder, models.TransferStatusDraft, models.TransferStatusRefunded)

	var guard *common.GuardViolationError
	assert.True(t, errors.As(err, &guard))
	assert.Equal(t, "DRAFT", guard.Current)
	assert.Equal(t, "REFUNDED", guard.Target)
}

func TestIsRefundEligible(t *testing.T) {
	eligible := map[models.TransferStatus]bool{
		models.TransferStatusInProgress: true,
		models.TransferStatusError:      true,
		models.TransferStatusRejected:   true,
		models.TransferStatusExpired:    true,
	}
	for _, status := range allStatuses {
		assert.Equal(t, eligible[status], IsRefundEligible(status), status)
	}

	assert.True(t, IsRefundInFlight(models.TransferStatusRefundRequested))
	assert.True(t, IsRefundInFlight(models.TransferStatusRefundProcessed))
	assert.False(t, IsRefundInFlight(models.TransferStatusRefunded))
}
