package msa

import (
	"fmt"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/orm"
)

// Controller implements the state changes of multi signature accounts. Each
// method either fully succeeds or returns an error before writing anything.
type Controller struct {
	accounts  *AccountBucket
	proposals orm.ModelBucket
	decode    CallDecoder
	execute   Executor
}

// NewController returns a controller that decodes approved calls with given
// decoder and delivers them with given executor.
func NewController(decode CallDecoder, execute Executor) *Controller {
	return &Controller{
		accounts:  NewAccountBucket(),
		proposals: NewProposalBucket(),
		decode:    decode,
		execute:   execute,
	}
}

// Account returns the account stored under given address.
func (c *Controller) Account(db weave.ReadOnlyKVStore, addr weave.Address) (*Account, error) {
	var acc Account
	switch err := c.accounts.One(db, addr, &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrMSANotFound, "address %s", addr)
	default:
		return nil, err
	}
}

// Proposal returns the quorum change proposal of given account.
func (c *Controller) Proposal(db weave.ReadOnlyKVStore, addr weave.Address) (*Proposal, error) {
	var p Proposal
	switch err := c.proposals.One(db, addr, &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrProposalNotFound, "address %s", addr)
	default:
		return nil, err
	}
}

// NewAccount validates a new account against the configuration and the
// accounts already stored. Nothing is written.
func (c *Controller) NewAccount(
	db weave.ReadOnlyKVStore,
	conf Configuration,
	caller weave.Address,
	signers, authors []weave.Address,
	minApprovals uint32,
) (*Account, error) {
	acc, err := NewAccount(caller, signers, authors, minApprovals, conf)
	if err != nil {
		return nil, err
	}
	if err := c.accounts.Has(db, acc.Address); err == nil {
		return nil, errors.Wrapf(ErrMSAAlreadyExists, "address %s", acc.Address)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	for _, s := range acc.Signers {
		n, err := c.accounts.CountBySigner(db, s)
		if err != nil {
			return nil, errors.Wrap(err, "count accounts")
		}
		if uint32(n) >= conf.MaxMultisigsPerAccount {
			return nil, errors.Wrapf(ErrAccountAtMultiSigLimit, "signer %s", s)
		}
	}
	return acc, nil
}

// Create stores a new account. The signer index is updated together with
// the account.
func (c *Controller) Create(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	caller weave.Address,
	signers, authors []weave.Address,
	minApprovals uint32,
) (*Account, *weave.DeliverResult, error) {
	acc, err := c.NewAccount(db, conf, caller, signers, authors, minApprovals)
	if err != nil {
		return nil, nil, err
	}
	if err := c.save(db, acc); err != nil {
		return nil, nil, err
	}
	res := &weave.DeliverResult{Data: acc.Address}
	emit(ctx, res, EventCreated, acc.Address, nil)
	return acc, res, nil
}

// AuthorCall queues a call on the account. The call id is derived from the
// call and the current block time.
func (c *Controller) AuthorCall(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	acc *Account,
	author weave.Address,
	call []byte,
) (*PendingCall, *weave.DeliverResult, error) {
	pc, err := authorCall(ctx, conf, acc, author, call)
	if err != nil {
		return nil, nil, err
	}
	if err := c.save(db, acc); err != nil {
		return nil, nil, err
	}
	res := &weave.DeliverResult{Data: pc.ID}
	emit(ctx, res, EventCallAuthored, acc.Address, pc.ID)
	return pc, res, nil
}

// authorCall adds a new call to the account in memory.
func authorCall(
	ctx weave.Context,
	conf Configuration,
	acc *Account,
	author weave.Address,
	call []byte,
) (*PendingCall, error) {
	if !acc.IsAuthor(author) {
		return nil, errors.Wrap(ErrAccountNotAuthor, author.String())
	}
	now, ok := weave.BlockTime(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "block time not present in context")
	}
	pc, err := NewPendingCall(call, author, weave.AsUnixTime(now), conf.MaxCallSize)
	if err != nil {
		return nil, err
	}
	if err := acc.AddCall(pc, conf.MaxPendingCalls); err != nil {
		return nil, err
	}
	return pc, nil
}

// AddApproval records an approval of a pending call. When the call gathers
// enough approvals it is removed from the queue and executed as the account.
func (c *Controller) AddApproval(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	acc *Account,
	signer weave.Address,
	callID []byte,
) (*weave.DeliverResult, error) {
	pc, ready, err := approveCall(conf, acc, signer, callID)
	if err != nil {
		return nil, err
	}
	if ready {
		if _, err := acc.RemoveCall(callID); err != nil {
			return nil, err
		}
	}
	if err := c.save(db, acc); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{}
	emit(ctx, res, EventApprovalAdded, acc.Address, callID)
	if ready {
		if err := c.run(ctx, db, acc, pc, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// approveCall adds the approval in memory and returns true if the call
// reached the quorum.
func approveCall(conf Configuration, acc *Account, signer weave.Address, callID []byte) (*PendingCall, bool, error) {
	if !acc.IsSignatory(signer) {
		return nil, false, errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	pc, err := acc.Call(callID)
	if err != nil {
		return nil, false, err
	}
	if pc.HasApproval(signer) {
		return nil, false, errors.Wrap(ErrApprovalExists, signer.String())
	}
	n, err := pc.AddApproval(signer, conf.MaxSignatories)
	if err != nil {
		return nil, false, err
	}
	return pc, uint32(n) >= acc.MinApprovals, nil
}

// RemoveApproval withdraws an approval. The call stays queued.
func (c *Controller) RemoveApproval(
	ctx weave.Context,
	db weave.KVStore,
	acc *Account,
	signer weave.Address,
	callID []byte,
) (*weave.DeliverResult, error) {
	if err := removeApproval(acc, signer, callID); err != nil {
		return nil, err
	}
	if err := c.save(db, acc); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	emit(ctx, res, EventApprovalRemoved, acc.Address, callID)
	return res, nil
}

func removeApproval(acc *Account, signer weave.Address, callID []byte) error {
	if !acc.IsSignatory(signer) {
		return errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	pc, err := acc.Call(callID)
	if err != nil {
		return err
	}
	if !pc.HasApproval(signer) {
		return errors.Wrap(ErrApprovalDoesntExist, signer.String())
	}
	pc.RemoveApproval(signer)
	return nil
}

// RemoveCall drops a pending call without executing it.
func (c *Controller) RemoveCall(
	ctx weave.Context,
	db weave.KVStore,
	acc *Account,
	author weave.Address,
	callID []byte,
) (*weave.DeliverResult, error) {
	if err := removeCall(acc, author, callID); err != nil {
		return nil, err
	}
	if err := c.save(db, acc); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	emit(ctx, res, EventCallRemoved, acc.Address, callID)
	return res, nil
}

func removeCall(acc *Account, author weave.Address, callID []byte) error {
	if !acc.IsAuthor(author) {
		return errors.Wrap(ErrAccountNotAuthor, author.String())
	}
	_, err := acc.RemoveCall(callID)
	return err
}

// AdjustMinApprovals changes the quorum directly. Calls that already have
// enough approvals for a lowered quorum stay queued until the next approval.
func (c *Controller) AdjustMinApprovals(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	acc *Account,
	author weave.Address,
	newMinimum uint32,
) (*weave.DeliverResult, error) {
	if err := adjustMinApprovals(conf, acc, author, newMinimum); err != nil {
		return nil, err
	}
	if err := c.save(db, acc); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	emit(ctx, res, EventMinApprovalsChanged, acc.Address, nil)
	return res, nil
}

func adjustMinApprovals(conf Configuration, acc *Account, author weave.Address, newMinimum uint32) error {
	if !acc.IsAuthor(author) {
		return errors.Wrap(ErrAccountNotAuthor, author.String())
	}
	return acc.AdjustMinApprovals(newMinimum, conf.MinQuorum)
}

// NewProposal validates a quorum change proposal. Nothing is written.
func (c *Controller) NewProposal(
	db weave.ReadOnlyKVStore,
	conf Configuration,
	acc *Account,
	proposer weave.Address,
	newMinimum uint32,
) (*Proposal, error) {
	if !acc.IsAuthor(proposer) {
		return nil, errors.Wrap(ErrAccountNotAuthor, proposer.String())
	}
	if err := c.proposals.Has(db, acc.Address); err == nil {
		return nil, errors.Wrapf(ErrProposalAlreadyPending, "address %s", acc.Address)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return NewProposal(acc, newMinimum, proposer, conf.MinQuorum)
}

// Propose stores a quorum change proposal approved by the proposer.
func (c *Controller) Propose(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	acc *Account,
	proposer weave.Address,
	newMinimum uint32,
) (*Proposal, *weave.DeliverResult, error) {
	p, err := c.NewProposal(db, conf, acc, proposer, newMinimum)
	if err != nil {
		return nil, nil, err
	}
	if err := c.proposals.Put(db, acc.Address, p); err != nil {
		return nil, nil, errors.Wrap(err, "save proposal")
	}
	res := &weave.DeliverResult{}
	emit(ctx, res, EventProposalCreated, acc.Address, nil)
	return p, res, nil
}

// ApproveProposal records the approval of a quorum change. Once the proposal
// passes, the new quorum is applied, the proposal is deleted and every
// pending call that meets the new quorum is executed.
func (c *Controller) ApproveProposal(
	ctx weave.Context,
	db weave.KVStore,
	conf Configuration,
	acc *Account,
	signer weave.Address,
) (*weave.DeliverResult, error) {
	p, err := c.Proposal(db, acc.Address)
	if err != nil {
		return nil, err
	}
	if !acc.IsSignatory(signer) {
		return nil, errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	if err := p.Approve(signer); err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{}
	if !p.Passed() {
		if err := c.proposals.Put(db, acc.Address, p); err != nil {
			return nil, errors.Wrap(err, "save proposal")
		}
		emit(ctx, res, EventProposalApproved, acc.Address, nil)
		return res, nil
	}

	// The current floor applies. A proposal that fell below a raised floor
	// can only be revoked.
	if err := acc.AdjustMinApprovals(p.NewMinimum, conf.MinQuorum); err != nil {
		return nil, err
	}
	ready := acc.TakeApproved()
	if err := c.proposals.Delete(db, acc.Address); err != nil {
		return nil, errors.Wrap(err, "delete proposal")
	}
	if err := c.save(db, acc); err != nil {
		return nil, err
	}
	emit(ctx, res, EventProposalApproved, acc.Address, nil)
	emit(ctx, res, EventMinApprovalsChanged, acc.Address, nil)
	for _, pc := range ready {
		if err := c.run(ctx, db, acc, pc, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// RevokeProposal withdraws an approval of the quorum change. A proposal left
// without approvals is deleted.
func (c *Controller) RevokeProposal(
	ctx weave.Context,
	db weave.KVStore,
	acc *Account,
	signer weave.Address,
) (*weave.DeliverResult, error) {
	p, err := c.Proposal(db, acc.Address)
	if err != nil {
		return nil, err
	}
	if !acc.IsSignatory(signer) {
		return nil, errors.Wrap(ErrAccountNotSignatory, signer.String())
	}
	if err := p.Revoke(signer); err != nil {
		return nil, err
	}
	if len(p.Approvals) == 0 {
		if err := c.proposals.Delete(db, acc.Address); err != nil {
			return nil, errors.Wrap(err, "delete proposal")
		}
	} else if err := c.proposals.Put(db, acc.Address, p); err != nil {
		return nil, errors.Wrap(err, "save proposal")
	}
	res := &weave.DeliverResult{}
	emit(ctx, res, EventProposalRevoked, acc.Address, nil)
	return res, nil
}

func (c *Controller) save(db weave.KVStore, acc *Account) error {
	if err := c.accounts.Put(db, acc.Address, acc); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}

// run executes a call that was already removed from the queue. A failed
// execution does not restore the call. Its writes are discarded and the
// failure is reported in the result. Only storage failures are returned.
func (c *Controller) run(ctx weave.Context, db weave.KVStore, acc *Account, pc *PendingCall, res *weave.DeliverResult) error {
	out, err := c.dispatch(ctx, db, acc, pc)
	switch {
	case err == nil:
		res.Merge(out)
		emit(ctx, res, EventCallExecuted, acc.Address, pc.ID)
	case errors.ErrDatabase.Is(err):
		return err
	default:
		code, info := errors.ABCIInfo(err, false)
		weave.GetLogger(ctx).Error("call execution failed",
			"account", acc.Address, "call", fmt.Sprintf("%X", pc.ID), "code", code, "err", err)
		res.Log = appendLog(res.Log, fmt.Sprintf("call %X failed: %s (code %d)", pc.ID, info, code))
		emit(ctx, res, EventCallFailed, acc.Address, pc.ID)
	}
	return nil
}

// dispatch delivers the decoded call in a cache wrap authenticated as the
// account. The cache is written only if the execution succeeded.
func (c *Controller) dispatch(ctx weave.Context, db weave.KVStore, acc *Account, pc *PendingCall) (*weave.DeliverResult, error) {
	msg, err := pc.DecodeCall(c.decode)
	if err != nil {
		return nil, err
	}
	cdb, ok := db.(weave.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrDatabase, "store cannot be cache wrapped")
	}
	cache := cdb.CacheWrap()
	out, err := c.execute(withAccount(ctx, acc), cache, msg)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return out, nil
}

func appendLog(log, line string) string {
	if log == "" {
		return line
	}
	return log + "\n" + line
}
