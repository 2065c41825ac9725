package msa

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/gconf"
	"github.com/d9chain/weave/x"
)

const (
	createAccountCost int64 = 100
	authorCallCost    int64 = 50
	approvalCost      int64 = 20
	quorumChangeCost  int64 = 20
)

// RegisterRoutes registers handlers for all messages of this package.
// Approved calls are decoded with given decoder and executed by given
// executor, usually the application router.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, decode CallDecoder, execute Executor) {
	ctrl := NewController(decode, execute)
	b := base{auth: auth, ctrl: ctrl}
	r.Handle(pathCreateMsg, CreateHandler{b})
	r.Handle(pathAuthorCallMsg, AuthorCallHandler{b})
	r.Handle(pathAddApprovalMsg, AddApprovalHandler{b})
	r.Handle(pathRemoveApprovalMsg, RemoveApprovalHandler{b})
	r.Handle(pathRemoveCallMsg, RemoveCallHandler{b})
	r.Handle(pathProposeMinApprovalsMsg, ProposeMinApprovalsHandler{b})
	r.Handle(pathApproveMinApprovalsMsg, ApproveMinApprovalsHandler{b})
	r.Handle(pathRevokeMinApprovalsMsg, RevokeMinApprovalsHandler{b})
	r.Handle(pathAdjustMinApprovalsMsg, AdjustMinApprovalsHandler{b})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// base holds what every handler of this package needs.
type base struct {
	auth x.Authenticator
	ctrl *Controller
}

// caller returns the address the message is sent on behalf of. When not
// declared, the main signer of the transaction is used. A declared address
// must have signed the transaction.
func (b base) caller(ctx weave.Context, declared weave.Address) (weave.Address, error) {
	if len(declared) == 0 {
		main := x.MainSignerAddress(ctx, b.auth)
		if main == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		return main, nil
	}
	if !b.auth.HasAddress(ctx, declared) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", declared)
	}
	return declared, nil
}

// account loads the configuration, the caller and the account a message
// refers to.
func (b base) account(ctx weave.Context, db weave.KVStore, msaAddr, declared weave.Address) (Configuration, weave.Address, *Account, error) {
	conf, err := loadConf(db)
	if err != nil {
		return conf, nil, nil, err
	}
	caller, err := b.caller(ctx, declared)
	if err != nil {
		return conf, nil, nil, err
	}
	acc, err := b.ctrl.Account(db, msaAddr)
	if err != nil {
		return conf, nil, nil, err
	}
	return conf, caller, acc, nil
}

// CreateHandler creates multi signature accounts.
type CreateHandler struct {
	base
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, conf, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.NewAccount(db, conf, caller, msg.Signers, msg.Authors, msg.MinApprovals); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createAccountCost}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, conf, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	_, res, err := h.ctrl.Create(ctx, db, conf, caller, msg.Signers, msg.Authors, msg.MinApprovals)
	return res, err
}

func (h CreateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateMsg, Configuration, weave.Address, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, Configuration{}, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, conf, nil, err
	}
	caller, err := h.caller(ctx, msg.Creator)
	if err != nil {
		return nil, conf, nil, err
	}
	return &msg, conf, caller, nil
}

// AuthorCallHandler queues calls.
type AuthorCallHandler struct {
	base
}

var _ weave.Handler = AuthorCallHandler{}

func (h AuthorCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg AuthorCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	if _, err := authorCall(ctx, conf, acc, author, msg.Call); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: authorCallCost}, nil
}

func (h AuthorCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg AuthorCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	_, res, err := h.ctrl.AuthorCall(ctx, db, conf, acc, author, msg.Call)
	return res, err
}

// AddApprovalHandler approves calls and executes those that reach the
// quorum.
type AddApprovalHandler struct {
	base
}

var _ weave.Handler = AddApprovalHandler{}

func (h AddApprovalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg AddApprovalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	if _, _, err := approveCall(conf, acc, signer, msg.CallID); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approvalCost}, nil
}

func (h AddApprovalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg AddApprovalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	return h.ctrl.AddApproval(ctx, db, conf, acc, signer, msg.CallID)
}

// RemoveApprovalHandler withdraws approvals of calls.
type RemoveApprovalHandler struct {
	base
}

var _ weave.Handler = RemoveApprovalHandler{}

func (h RemoveApprovalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg RemoveApprovalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	if err := removeApproval(acc, signer, msg.CallID); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approvalCost}, nil
}

func (h RemoveApprovalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg RemoveApprovalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	return h.ctrl.RemoveApproval(ctx, db, acc, signer, msg.CallID)
}

// RemoveCallHandler drops pending calls.
type RemoveCallHandler struct {
	base
}

var _ weave.Handler = RemoveCallHandler{}

func (h RemoveCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg RemoveCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	if err := removeCall(acc, author, msg.CallID); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approvalCost}, nil
}

func (h RemoveCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg RemoveCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	return h.ctrl.RemoveCall(ctx, db, acc, author, msg.CallID)
}

// ProposeMinApprovalsHandler starts quorum change proposals.
type ProposeMinApprovalsHandler struct {
	base
}

var _ weave.Handler = ProposeMinApprovalsHandler{}

func (h ProposeMinApprovalsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ProposeMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, proposer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Proposer)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.NewProposal(db, conf, acc, proposer, msg.NewMinimum); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: quorumChangeCost}, nil
}

func (h ProposeMinApprovalsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ProposeMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, proposer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Proposer)
	if err != nil {
		return nil, err
	}
	_, res, err := h.ctrl.Propose(ctx, db, conf, acc, proposer, msg.NewMinimum)
	return res, err
}

// ApproveMinApprovalsHandler approves quorum change proposals and applies
// those that pass.
type ApproveMinApprovalsHandler struct {
	base
}

var _ weave.Handler = ApproveMinApprovalsHandler{}

func (h ApproveMinApprovalsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ApproveMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	p, err := h.ctrl.Proposal(db, acc.Address)
	if err != nil {
		return nil, err
	}
	if !acc.IsSignatory(signer) {
		return nil, errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	if err := p.Approve(signer); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: quorumChangeCost}, nil
}

func (h ApproveMinApprovalsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ApproveMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	return h.ctrl.ApproveProposal(ctx, db, conf, acc, signer)
}

// RevokeMinApprovalsHandler withdraws approvals of quorum change proposals.
type RevokeMinApprovalsHandler struct {
	base
}

var _ weave.Handler = RevokeMinApprovalsHandler{}

func (h RevokeMinApprovalsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg RevokeMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	p, err := h.ctrl.Proposal(db, acc.Address)
	if err != nil {
		return nil, err
	}
	if !acc.IsSignatory(signer) {
		return nil, errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	if err := p.Revoke(signer); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: quorumChangeCost}, nil
}

func (h RevokeMinApprovalsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg RevokeMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, signer, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Signer)
	if err != nil {
		return nil, err
	}
	return h.ctrl.RevokeProposal(ctx, db, acc, signer)
}

// AdjustMinApprovalsHandler changes the quorum without a proposal.
type AdjustMinApprovalsHandler struct {
	base
}

var _ weave.Handler = AdjustMinApprovalsHandler{}

func (h AdjustMinApprovalsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg AdjustMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	if err := adjustMinApprovals(conf, acc, author, msg.NewMinimum); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: quorumChangeCost}, nil
}

func (h AdjustMinApprovalsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg AdjustMinApprovalsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, author, acc, err := h.account(ctx, db, msg.MsaAddress, msg.Author)
	if err != nil {
		return nil, err
	}
	return h.ctrl.AdjustMinApprovals(ctx, db, conf, acc, author, msg.NewMinimum)
}
