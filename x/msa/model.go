package msa

import (
	"bytes"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/orm"
)

const (
	// AccountBucketName is where the multi signature accounts are stored.
	AccountBucketName = "msa"
	// ProposalBucketName is where quorum change proposals are stored,
	// under the address of the account they change.
	ProposalBucketName = "msaprop"

	// SignerIndex references every account a signer belongs to.
	SignerIndex = "signer"

	callIDLength = 32
)

var _ orm.Model = (*Account)(nil)

// NewAccount returns a multi signature account controlled by given signers.
// Signers are stored sorted. An authors list that names every signer is
// stored as an empty list. The per signer membership limit and the address
// uniqueness must be checked against the store by the caller.
func NewAccount(
	caller weave.Address,
	signers []weave.Address,
	authors []weave.Address,
	minApprovals uint32,
	conf Configuration,
) (*Account, error) {
	switch n := len(signers); {
	case n < 2:
		return nil, errors.Wrapf(ErrSignatoriesTooShort, "%d signers", n)
	case uint32(n) > conf.MaxSignatories:
		return nil, errors.Wrapf(ErrSignatoriesTooLong, "%d signers, max %d", n, conf.MaxSignatories)
	}
	if hasDuplicates(signers) {
		return nil, errors.Wrap(ErrDuplicatesInList, "signers")
	}
	if minApprovals < conf.MinQuorum || int(minApprovals) > len(signers) {
		return nil, errors.Wrapf(ErrMinApprovalOutOfRange,
			"%d not in [%d, %d]", minApprovals, conf.MinQuorum, len(signers))
	}
	if !containsAddress(signers, caller) {
		return nil, errors.Wrap(ErrCallerNotSignatory, caller.String())
	}
	if hasDuplicates(authors) {
		return nil, errors.Wrap(ErrDuplicatesInList, "authors")
	}
	for _, a := range authors {
		if !containsAddress(signers, a) {
			return nil, errors.Wrap(ErrAuthorNotSignatory, a.String())
		}
	}
	if len(authors) == len(signers) {
		authors = nil
	}

	sorted := sortAddresses(signers)
	return &Account{
		Address:      DeriveAddress(sorted),
		Signers:      sorted,
		Authors:      sortAddresses(authors),
		MinApprovals: minApprovals,
	}, nil
}

// IsSignatory returns true if given address is one of the signers.
func (a *Account) IsSignatory(addr weave.Address) bool {
	return containsAddress(a.Signers, addr)
}

// IsAuthor returns true if given address may author calls and manage the
// quorum. When no authors are declared, every signer is an author.
func (a *Account) IsAuthor(addr weave.Address) bool {
	if len(a.Authors) == 0 {
		return a.IsSignatory(addr)
	}
	return containsAddress(a.Authors, addr)
}

// AddCall appends a call to the pending queue.
func (a *Account) AddCall(c *PendingCall, max uint32) error {
	if uint32(len(a.PendingCalls)) >= max {
		return errors.Wrapf(ErrCallLimit, "max %d", max)
	}
	if a.callIndex(c.ID) >= 0 {
		return errors.Wrapf(errors.ErrDuplicate, "call %X", c.ID)
	}
	a.PendingCalls = append(a.PendingCalls, c)
	return nil
}

// Call returns the pending call with given id.
func (a *Account) Call(id []byte) (*PendingCall, error) {
	i := a.callIndex(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrCallNotFound, "call %X", id)
	}
	return a.PendingCalls[i], nil
}

// RemoveCall removes a call from the pending queue and returns it.
func (a *Account) RemoveCall(id []byte) (*PendingCall, error) {
	i := a.callIndex(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrCallNotFound, "call %X", id)
	}
	c := a.PendingCalls[i]
	a.PendingCalls = append(a.PendingCalls[:i], a.PendingCalls[i+1:]...)
	return c, nil
}

// TakeApproved removes from the queue every call that has at least as many
// approvals as the current quorum and returns them in queue order.
func (a *Account) TakeApproved() []*PendingCall {
	var ready, waiting []*PendingCall
	for _, c := range a.PendingCalls {
		if uint32(len(c.Approvals)) >= a.MinApprovals {
			ready = append(ready, c)
		} else {
			waiting = append(waiting, c)
		}
	}
	a.PendingCalls = waiting
	return ready
}

// AdjustMinApprovals sets the quorum. The value must be within the floor and
// the number of signers.
func (a *Account) AdjustMinApprovals(n uint32, floor uint32) error {
	if err := a.checkQuorum(n, floor); err != nil {
		return err
	}
	a.MinApprovals = n
	return nil
}

func (a *Account) checkQuorum(n uint32, floor uint32) error {
	if n < floor || int(n) > len(a.Signers) {
		return errors.Wrapf(ErrMinApprovalOutOfRange, "%d not in [%d, %d]", n, floor, len(a.Signers))
	}
	return nil
}

func (a *Account) callIndex(id []byte) int {
	for i, c := range a.PendingCalls {
		if bytes.Equal(c.ID, id) {
			return i
		}
	}
	return -1
}

// Validate ensures the account is consistent.
func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", a.Address.Validate())
	if len(a.Signers) < 2 {
		errs = errors.AppendField(errs, "Signers", errors.Wrap(errors.ErrModel, "at least two signers required"))
	}
	for i, s := range a.Signers {
		if err := s.Validate(); err != nil {
			errs = errors.AppendField(errs, "Signers", err)
		}
		if i > 0 && !a.Signers[i-1].Less(s) {
			errs = errors.AppendField(errs, "Signers", errors.Wrap(errors.ErrModel, "not sorted or not unique"))
		}
	}
	if !DeriveAddress(a.Signers).Equals(a.Address) {
		errs = errors.AppendField(errs, "Address", errors.Wrap(errors.ErrModel, "not derived from signers"))
	}
	for _, au := range a.Authors {
		if !a.IsSignatory(au) {
			errs = errors.AppendField(errs, "Authors", errors.Wrap(errors.ErrModel, "author is not a signer"))
		}
	}
	if a.MinApprovals == 0 || int(a.MinApprovals) > len(a.Signers) {
		errs = errors.AppendField(errs, "MinApprovals", errors.Wrap(errors.ErrModel, "out of range"))
	}
	for _, c := range a.PendingCalls {
		if err := c.Validate(); err != nil {
			errs = errors.AppendField(errs, "PendingCalls", err)
			continue
		}
		for _, ap := range c.Approvals {
			if !a.IsSignatory(ap) {
				errs = errors.AppendField(errs, "PendingCalls", errors.Wrap(errors.ErrModel, "approval of a non signer"))
			}
		}
	}
	return errs
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() orm.CloneableData {
	calls := make([]*PendingCall, 0, len(a.PendingCalls))
	for _, c := range a.PendingCalls {
		calls = append(calls, c.clone())
	}
	return &Account{
		Address:      copyAddress(a.Address),
		Signers:      copyAddresses(a.Signers),
		Authors:      copyAddresses(a.Authors),
		MinApprovals: a.MinApprovals,
		PendingCalls: calls,
	}
}

// NewPendingCall returns a call authored at given time. The author approval
// is counted.
func NewPendingCall(call []byte, author weave.Address, now weave.UnixTime, maxSize uint32) (*PendingCall, error) {
	if len(call) == 0 {
		return nil, errors.Wrap(ErrEncodingFailure, "empty call")
	}
	if uint32(len(call)) > maxSize {
		return nil, errors.Wrapf(ErrEncodingFailure, "call size %d exceeds %d", len(call), maxSize)
	}
	return &PendingCall{
		ID:        CallID(call, now),
		Call:      append([]byte{}, call...),
		Approvals: []weave.Address{copyAddress(author)},
	}, nil
}

// HasApproval returns true if given signer approved the call.
func (c *PendingCall) HasApproval(addr weave.Address) bool {
	return containsAddress(c.Approvals, addr)
}

// AddApproval records the approval of given signer and returns the number of
// approvals. Adding an existing approval does not change the call.
func (c *PendingCall) AddApproval(addr weave.Address, max uint32) (int, error) {
	if c.HasApproval(addr) {
		return len(c.Approvals), nil
	}
	if uint32(len(c.Approvals)) >= max {
		return len(c.Approvals), errors.Wrapf(ErrApprovalsLimitReached, "max %d", max)
	}
	c.Approvals = append(c.Approvals, copyAddress(addr))
	return len(c.Approvals), nil
}

// RemoveApproval drops the approval of given signer if present.
func (c *PendingCall) RemoveApproval(addr weave.Address) {
	if i := indexOfAddress(c.Approvals, addr); i >= 0 {
		c.Approvals = append(c.Approvals[:i], c.Approvals[i+1:]...)
	}
}

// DecodeCall returns the message this call executes.
func (c *PendingCall) DecodeCall(decode CallDecoder) (weave.Msg, error) {
	msg, err := decode(c.Call)
	if err != nil {
		return nil, errors.Wrap(ErrDecodeFailure, err.Error())
	}
	return msg, nil
}

// Validate ensures the call is well formed. A call whose approvals were all
// removed stays queued.
func (c *PendingCall) Validate() error {
	if len(c.ID) != callIDLength {
		return errors.Wrap(errors.ErrModel, "invalid call id")
	}
	if len(c.Call) == 0 {
		return errors.Wrap(errors.ErrModel, "empty call")
	}
	if hasDuplicates(c.Approvals) {
		return errors.Wrap(errors.ErrModel, "duplicated approval")
	}
	return nil
}

func (c *PendingCall) clone() *PendingCall {
	return &PendingCall{
		ID:        append([]byte{}, c.ID...),
		Call:      append([]byte{}, c.Call...),
		Approvals: copyAddresses(c.Approvals),
	}
}

var _ orm.Model = (*Proposal)(nil)

// NewProposal returns a request to change the quorum of given account.
// Lowering the quorum requires the majority of all signers to pass, raising
// it requires the current quorum.
func NewProposal(acc *Account, newMinimum uint32, proposer weave.Address, floor uint32) (*Proposal, error) {
	if err := acc.checkQuorum(newMinimum, floor); err != nil {
		return nil, err
	}
	if newMinimum == acc.MinApprovals {
		return nil, errors.Wrapf(ErrNewMinimumEqualsCurrentMinimum, "%d", newMinimum)
	}
	pass := acc.MinApprovals
	if newMinimum < acc.MinApprovals {
		pass = uint32(len(acc.Signers)/2 + 1)
	}
	return &Proposal{
		MsaAddress:      copyAddress(acc.Address),
		NewMinimum:      newMinimum,
		Proposer:        copyAddress(proposer),
		Approvals:       []weave.Address{copyAddress(proposer)},
		PassRequirement: pass,
	}, nil
}

// Approve records the approval of given signer.
func (p *Proposal) Approve(addr weave.Address) error {
	if containsAddress(p.Approvals, addr) {
		return errors.Wrap(ErrApprovalExists, addr.String())
	}
	p.Approvals = append(p.Approvals, copyAddress(addr))
	return nil
}

// Revoke drops the approval of given signer.
func (p *Proposal) Revoke(addr weave.Address) error {
	i := indexOfAddress(p.Approvals, addr)
	if i < 0 {
		return errors.Wrap(ErrApprovalDoesntExist, addr.String())
	}
	p.Approvals = append(p.Approvals[:i], p.Approvals[i+1:]...)
	return nil
}

// Passed returns true once enough signers approved the proposal.
func (p *Proposal) Passed() bool {
	return uint32(len(p.Approvals)) >= p.PassRequirement
}

// Validate ensures the proposal is well formed.
func (p *Proposal) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", p.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	if p.NewMinimum == 0 {
		errs = errors.AppendField(errs, "NewMinimum", errors.ErrEmpty)
	}
	if p.PassRequirement == 0 {
		errs = errors.AppendField(errs, "PassRequirement", errors.ErrEmpty)
	}
	if len(p.Approvals) == 0 {
		errs = errors.AppendField(errs, "Approvals", errors.ErrEmpty)
	}
	if hasDuplicates(p.Approvals) {
		errs = errors.AppendField(errs, "Approvals", errors.Wrap(errors.ErrModel, "duplicated approval"))
	}
	return errs
}

// Copy returns a deep copy of the proposal.
func (p *Proposal) Copy() orm.CloneableData {
	return &Proposal{
		MsaAddress:      copyAddress(p.MsaAddress),
		NewMinimum:      p.NewMinimum,
		Proposer:        copyAddress(p.Proposer),
		Approvals:       copyAddresses(p.Approvals),
		PassRequirement: p.PassRequirement,
	}
}

func copyAddress(a weave.Address) weave.Address {
	if a == nil {
		return nil
	}
	return append(weave.Address{}, a...)
}

func copyAddresses(addrs []weave.Address) []weave.Address {
	if addrs == nil {
		return nil
	}
	out := make([]weave.Address, len(addrs))
	for i, a := range addrs {
		out[i] = copyAddress(a)
	}
	return out
}

// AccountBucket stores multi signature accounts under their address. Every
// account is indexed by each of its signers.
type AccountBucket struct {
	orm.ModelBucket
	b orm.Bucket
}

// NewAccountBucket returns a bucket for accounts.
func NewAccountBucket() *AccountBucket {
	b := orm.NewBucket(AccountBucketName, orm.NewSimpleObj(nil, &Account{})).
		WithIndex(SignerIndex, signerIndexer)
	return &AccountBucket{
		ModelBucket: orm.NewModelBucket(b),
		b:           b,
	}
}

func signerIndexer(obj orm.Object) ([][]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	acc, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	keys := make([][]byte, len(acc.Signers))
	for i, s := range acc.Signers {
		keys[i] = s
	}
	return keys, nil
}

// CountBySigner returns the number of accounts given address is a signer of.
func (b *AccountBucket) CountBySigner(db weave.ReadOnlyKVStore, signer weave.Address) (int, error) {
	return b.b.IndexCount(db, SignerIndex, signer)
}

// BySigner returns all accounts given address is a signer of.
func (b *AccountBucket) BySigner(db weave.ReadOnlyKVStore, signer weave.Address) ([]*Account, error) {
	keys, err := b.ByIndex(db, SignerIndex, signer)
	if err != nil {
		return nil, errors.Wrap(err, "signer index")
	}
	accounts := make([]*Account, 0, len(keys))
	for _, k := range keys {
		var acc Account
		if err := b.One(db, k, &acc); err != nil {
			return nil, errors.Wrapf(err, "account %X", k)
		}
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

// NewProposalBucket returns a bucket for quorum change proposals.
func NewProposalBucket() orm.ModelBucket {
	b := orm.NewBucket(ProposalBucketName, orm.NewSimpleObj(nil, &Proposal{}))
	return orm.NewModelBucket(b)
}

// RegisterQuery exposes accounts as "/msas", accounts by signer as
// "/msas/signer" and proposals as "/msaproposals".
func RegisterQuery(qr weave.QueryRouter) {
	NewAccountBucket().Register("msas", qr)
	NewProposalBucket().Register("msaproposals", qr)
}
