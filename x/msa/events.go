package msa

import (
	"encoding/hex"

	"github.com/d9chain/weave"
)

// Event names published in the "msa.event" tag.
const (
	EventCreated             = "created"
	EventCallAuthored        = "call_authored"
	EventApprovalAdded       = "approval_added"
	EventApprovalRemoved     = "approval_removed"
	EventCallExecuted        = "call_executed"
	EventCallFailed          = "call_failed"
	EventCallRemoved         = "call_removed"
	EventMinApprovalsChanged = "min_approvals_changed"
	EventProposalCreated     = "proposal_created"
	EventProposalApproved    = "proposal_approved"
	EventProposalRevoked     = "proposal_revoked"
)

// emit publishes an event as result tags and logs it.
func emit(ctx weave.Context, res *weave.DeliverResult, event string, account weave.Address, callID []byte) {
	res.Tags = append(res.Tags,
		weave.KVPair("msa.event", event),
		weave.KVPair("msa.account", account.String()),
	)
	keyvals := []interface{}{"event", event, "account", account}
	if callID != nil {
		id := hex.EncodeToString(callID)
		res.Tags = append(res.Tags, weave.KVPair("msa.call", id))
		keyvals = append(keyvals, "call", id)
	}
	weave.GetLogger(ctx).Info("msa event", keyvals...)
}
