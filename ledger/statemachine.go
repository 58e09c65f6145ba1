package ledger

import (
	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type transition struct {
	to models.TransferStatus
	// empty means both flows
	flow models.TransferFlow
}

var (
	order = models.TransferFlowOrder
	queue = models.TransferFlowQueue
)

var transitions = map[models.TransferStatus][]transition{
	models.TransferStatusDraft: {
		{to: models.TransferStatusInProgress},
		{to: models.TransferStatusError},
		{to: models.TransferStatusRejected},
	},
	models.TransferStatusInProgress: {
		{to: models.TransferStatusCompleted},
		{to: models.TransferStatusError},
		{to: models.TransferStatusRejected},
		{to: models.TransferStatusExpired, flow: queue},
		{to: models.TransferStatusRefundRequested, flow: order},
	},
	models.TransferStatusCompleted: {
		{to: models.TransferStatusError},
		{to: models.TransferStatusRejected},
	},
	models.TransferStatusError: {
		{to: models.TransferStatusExpired, flow: queue},
		{to: models.TransferStatusRefundRequested, flow: order},
	},
	models.TransferStatusRejected: {
		{to: models.TransferStatusExpired, flow: queue},
		{to: models.TransferStatusRefundRequested, flow: order},
	},
	models.TransferStatusExpired: {
		{to: models.TransferStatusRefundRequested, flow: queue},
	},
	models.TransferStatusRefundRequested: {
		{to: models.TransferStatusRefundProcessed, flow: queue},
		{to: models.TransferStatusRefunded, flow: order},
	},
	models.TransferStatusRefundProcessed: {
		{to: models.TransferStatusRefunded, flow: queue},
	},
}

var refundIneligible = map[models.TransferStatus]bool{
	models.TransferStatusDraft:     true,
	models.TransferStatusCompleted: true,
	models.TransferStatusRefunded:  true,
}

// CanTransition returns a GuardViolationError unless from -> to is allowed
// for flow.
func CanTransition(flow models.TransferFlow, from models.TransferStatus, to models.TransferStatus) error {
	for _, t := range transitions[from] {
		if t.to == to && (t.flow == "" || t.flow == flow) {
			return nil
		}
	}
	return common.NewGuardViolationError(string(from), string(to), "transition not allowed for "+string(flow)+" flow")
}

// IsRefundEligible reports whether a refund may be requested from status,
// possibly after expiring it first.
func IsRefundEligible(status models.TransferStatus) bool {
	if refundIneligible[status] {
		return false
	}
	return status != models.TransferStatusRefundRequested && status != models.TransferStatusRefundProcessed
}

func IsRefundInFlight(status models.TransferStatus) bool {
	return status == models.TransferStatusRefundRequested || status == models.TransferStatusRefundProcessed
}
