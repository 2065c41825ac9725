package msa

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/codec"
)

func encodeAddresses(e *codec.Encoder, field int, addrs []weave.Address) {
	for _, a := range addrs {
		e.RepeatedBytes(field, a)
	}
}

// Account is a multi signature account.
type Account struct {
	Address      weave.Address   `json:"address"`
	Signers      []weave.Address `json:"signers"`
	Authors      []weave.Address `json:"authors,omitempty"`
	MinApprovals uint32          `json:"min_approvals"`
	PendingCalls []*PendingCall  `json:"pending_calls,omitempty"`
}

func (m *Account) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.Address)
	encodeAddresses(&e, 2, m.Signers)
	encodeAddresses(&e, 3, m.Authors)
	e.Uint64(4, uint64(m.MinApprovals))
	for _, c := range m.PendingCalls {
		e.Message(5, c)
	}
	return e.Result()
}

func (m *Account) Unmarshal(raw []byte) error {
	*m = Account{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Address = d.Bytes()
		case 2:
			m.Signers = append(m.Signers, d.Bytes())
		case 3:
			m.Authors = append(m.Authors, d.Bytes())
		case 4:
			m.MinApprovals = uint32(d.Uint64())
		case 5:
			var c PendingCall
			d.Message(&c)
			m.PendingCalls = append(m.PendingCalls, &c)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// PendingCall is an authored call waiting for approvals.
type PendingCall struct {
	ID        []byte          `json:"id"`
	Call      []byte          `json:"call"`
	Approvals []weave.Address `json:"approvals"`
}

func (m *PendingCall) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.ID)
	e.Bytes(2, m.Call)
	encodeAddresses(&e, 3, m.Approvals)
	return e.Result()
}

func (m *PendingCall) Unmarshal(raw []byte) error {
	*m = PendingCall{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.ID = d.Bytes()
		case 2:
			m.Call = d.Bytes()
		case 3:
			m.Approvals = append(m.Approvals, d.Bytes())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// Proposal is a pending request to change the quorum of an account.
type Proposal struct {
	MsaAddress      weave.Address   `json:"msa_address"`
	NewMinimum      uint32          `json:"new_minimum"`
	Proposer        weave.Address   `json:"proposer"`
	Approvals       []weave.Address `json:"approvals"`
	PassRequirement uint32          `json:"pass_requirement"`
}

func (m *Proposal) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.MsaAddress)
	e.Uint64(2, uint64(m.NewMinimum))
	e.Bytes(3, m.Proposer)
	encodeAddresses(&e, 4, m.Approvals)
	e.Uint64(5, uint64(m.PassRequirement))
	return e.Result()
}

func (m *Proposal) Unmarshal(raw []byte) error {
	*m = Proposal{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.MsaAddress = d.Bytes()
		case 2:
			m.NewMinimum = uint32(d.Uint64())
		case 3:
			m.Proposer = d.Bytes()
		case 4:
			m.Approvals = append(m.Approvals, d.Bytes())
		case 5:
			m.PassRequirement = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// Configuration holds the limits of the msa extension.
type Configuration struct {
	Owner                  weave.Address `json:"owner"`
	MaxSignatories         uint32        `json:"max_signatories"`
	MaxPendingCalls        uint32        `json:"max_pending_calls"`
	MaxMultisigsPerAccount uint32        `json:"max_multisigs_per_account"`
	MaxCallSize            uint32        `json:"max_call_size"`
	MinQuorum              uint32        `json:"min_quorum"`
}

func (m *Configuration) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.Owner)
	e.Uint64(2, uint64(m.MaxSignatories))
	e.Uint64(3, uint64(m.MaxPendingCalls))
	e.Uint64(4, uint64(m.MaxMultisigsPerAccount))
	e.Uint64(5, uint64(m.MaxCallSize))
	e.Uint64(6, uint64(m.MinQuorum))
	return e.Result()
}

func (m *Configuration) Unmarshal(raw []byte) error {
	*m = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Owner = d.Bytes()
		case 2:
			m.MaxSignatories = uint32(d.Uint64())
		case 3:
			m.MaxPendingCalls = uint32(d.Uint64())
		case 4:
			m.MaxMultisigsPerAccount = uint32(d.Uint64())
		case 5:
			m.MaxCallSize = uint32(d.Uint64())
		case 6:
			m.MinQuorum = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// CreateMsg creates a new multi signature account.
type CreateMsg struct {
	Creator      weave.Address   `json:"creator,omitempty"`
	Signers      []weave.Address `json:"signers"`
	Authors      []weave.Address `json:"authors,omitempty"`
	MinApprovals uint32          `json:"min_approvals"`
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.Creator)
	encodeAddresses(&e, 2, m.Signers)
	encodeAddresses(&e, 3, m.Authors)
	e.Uint64(4, uint64(m.MinApprovals))
	return e.Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Creator = d.Bytes()
		case 2:
			m.Signers = append(m.Signers, d.Bytes())
		case 3:
			m.Authors = append(m.Authors, d.Bytes())
		case 4:
			m.MinApprovals = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// AuthorCallMsg queues a call on behalf of the account.
type AuthorCallMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	Author     weave.Address `json:"author,omitempty"`
	Call       []byte        `json:"call"`
}

func (m *AuthorCallMsg) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.MsaAddress)
	e.Bytes(2, m.Author)
	e.Bytes(3, m.Call)
	return e.Result()
}

func (m *AuthorCallMsg) Unmarshal(raw []byte) error {
	*m = AuthorCallMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.MsaAddress = d.Bytes()
		case 2:
			m.Author = d.Bytes()
		case 3:
			m.Call = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// callRef is the shared layout of messages that address a single pending
// call on behalf of a single signer.
type callRef struct {
	msa    *weave.Address
	callID *[]byte
	signer *weave.Address
}

func (r callRef) marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, *r.msa)
	e.Bytes(2, *r.callID)
	e.Bytes(3, *r.signer)
	return e.Result()
}

func (r callRef) unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			*r.msa = d.Bytes()
		case 2:
			*r.callID = d.Bytes()
		case 3:
			*r.signer = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// AddApprovalMsg approves a pending call.
type AddApprovalMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	CallID     []byte        `json:"call_id"`
	Signer     weave.Address `json:"signer,omitempty"`
}

func (m *AddApprovalMsg) Marshal() ([]byte, error) {
	return callRef{&m.MsaAddress, &m.CallID, &m.Signer}.marshal()
}

func (m *AddApprovalMsg) Unmarshal(raw []byte) error {
	*m = AddApprovalMsg{}
	return callRef{&m.MsaAddress, &m.CallID, &m.Signer}.unmarshal(raw)
}

// RemoveApprovalMsg withdraws an approval of a pending call.
type RemoveApprovalMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	CallID     []byte        `json:"call_id"`
	Signer     weave.Address `json:"signer,omitempty"`
}

func (m *RemoveApprovalMsg) Marshal() ([]byte, error) {
	return callRef{&m.MsaAddress, &m.CallID, &m.Signer}.marshal()
}

func (m *RemoveApprovalMsg) Unmarshal(raw []byte) error {
	*m = RemoveApprovalMsg{}
	return callRef{&m.MsaAddress, &m.CallID, &m.Signer}.unmarshal(raw)
}

// RemoveCallMsg drops a pending call without executing it.
type RemoveCallMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	CallID     []byte        `json:"call_id"`
	Author     weave.Address `json:"author,omitempty"`
}

func (m *RemoveCallMsg) Marshal() ([]byte, error) {
	return callRef{&m.MsaAddress, &m.CallID, &m.Author}.marshal()
}

func (m *RemoveCallMsg) Unmarshal(raw []byte) error {
	*m = RemoveCallMsg{}
	return callRef{&m.MsaAddress, &m.CallID, &m.Author}.unmarshal(raw)
}

// quorumRef is the shared layout of messages that change the quorum.
type quorumRef struct {
	msa    *weave.Address
	who    *weave.Address
	newMin *uint32
}

func (r quorumRef) marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, *r.msa)
	e.Bytes(2, *r.who)
	if r.newMin != nil {
		e.Uint64(3, uint64(*r.newMin))
	}
	return e.Result()
}

func (r quorumRef) unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch f := d.Field(); {
		case f == 1:
			*r.msa = d.Bytes()
		case f == 2:
			*r.who = d.Bytes()
		case f == 3 && r.newMin != nil:
			*r.newMin = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ProposeMinApprovalsMsg starts the process of changing the quorum.
type ProposeMinApprovalsMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	Proposer   weave.Address `json:"proposer,omitempty"`
	NewMinimum uint32        `json:"new_minimum"`
}

func (m *ProposeMinApprovalsMsg) Marshal() ([]byte, error) {
	return quorumRef{&m.MsaAddress, &m.Proposer, &m.NewMinimum}.marshal()
}

func (m *ProposeMinApprovalsMsg) Unmarshal(raw []byte) error {
	*m = ProposeMinApprovalsMsg{}
	return quorumRef{&m.MsaAddress, &m.Proposer, &m.NewMinimum}.unmarshal(raw)
}

// ApproveMinApprovalsMsg supports the pending quorum change proposal.
type ApproveMinApprovalsMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	Signer     weave.Address `json:"signer,omitempty"`
}

func (m *ApproveMinApprovalsMsg) Marshal() ([]byte, error) {
	return quorumRef{&m.MsaAddress, &m.Signer, nil}.marshal()
}

func (m *ApproveMinApprovalsMsg) Unmarshal(raw []byte) error {
	*m = ApproveMinApprovalsMsg{}
	return quorumRef{&m.MsaAddress, &m.Signer, nil}.unmarshal(raw)
}

// RevokeMinApprovalsMsg withdraws the support of the pending quorum change
// proposal.
type RevokeMinApprovalsMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	Signer     weave.Address `json:"signer,omitempty"`
}

func (m *RevokeMinApprovalsMsg) Marshal() ([]byte, error) {
	return quorumRef{&m.MsaAddress, &m.Signer, nil}.marshal()
}

func (m *RevokeMinApprovalsMsg) Unmarshal(raw []byte) error {
	*m = RevokeMinApprovalsMsg{}
	return quorumRef{&m.MsaAddress, &m.Signer, nil}.unmarshal(raw)
}

// AdjustMinApprovalsMsg changes the quorum without the proposal process.
type AdjustMinApprovalsMsg struct {
	MsaAddress weave.Address `json:"msa_address"`
	Author     weave.Address `json:"author,omitempty"`
	NewMinimum uint32        `json:"new_minimum"`
}

func (m *AdjustMinApprovalsMsg) Marshal() ([]byte, error) {
	return quorumRef{&m.MsaAddress, &m.Author, &m.NewMinimum}.marshal()
}

func (m *AdjustMinApprovalsMsg) Unmarshal(raw []byte) error {
	*m = AdjustMinApprovalsMsg{}
	return quorumRef{&m.MsaAddress, &m.Author, &m.NewMinimum}.unmarshal(raw)
}

// UpdateConfigurationMsg patches the extension configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var e codec.Encoder
	if m.Patch != nil {
		e.Message(1, m.Patch)
	}
	return e.Result()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Patch = &Configuration{}
			d.Message(m.Patch)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
