package msa

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/gconf"
)

const (
	pathCreateMsg              = "msa/create"
	pathAuthorCallMsg          = "msa/author_call"
	pathAddApprovalMsg         = "msa/add_approval"
	pathRemoveApprovalMsg      = "msa/remove_approval"
	pathRemoveCallMsg          = "msa/remove_call"
	pathProposeMinApprovalsMsg = "msa/propose_min_approvals"
	pathApproveMinApprovalsMsg = "msa/approve_min_approvals"
	pathRevokeMinApprovalsMsg  = "msa/revoke_min_approvals"
	pathAdjustMinApprovalsMsg  = "msa/adjust_min_approvals"
	pathUpdateConfigurationMsg = "msa/update_configuration"
)

var (
	_ weave.Msg = (*CreateMsg)(nil)
	_ weave.Msg = (*AuthorCallMsg)(nil)
	_ weave.Msg = (*AddApprovalMsg)(nil)
	_ weave.Msg = (*RemoveApprovalMsg)(nil)
	_ weave.Msg = (*RemoveCallMsg)(nil)
	_ weave.Msg = (*ProposeMinApprovalsMsg)(nil)
	_ weave.Msg = (*ApproveMinApprovalsMsg)(nil)
	_ weave.Msg = (*RevokeMinApprovalsMsg)(nil)
	_ weave.Msg = (*AdjustMinApprovalsMsg)(nil)
	_ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)
)

// validateOptional checks an address only if it was provided. Omitted
// addresses default to the main signer of the transaction.
func validateOptional(a weave.Address) error {
	if len(a) == 0 {
		return nil
	}
	return a.Validate()
}

func validateCallID(id []byte) error {
	if len(id) != callIDLength {
		return errors.Wrapf(errors.ErrInput, "call id must be %d bytes", callIDLength)
	}
	return nil
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate checks the message format. Signer count and quorum limits depend
// on the configuration and are checked by the handler.
func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Creator", validateOptional(m.Creator))
	if len(m.Signers) == 0 {
		errs = errors.AppendField(errs, "Signers", errors.ErrEmpty)
	}
	for _, s := range m.Signers {
		errs = errors.AppendField(errs, "Signers", s.Validate())
	}
	for _, a := range m.Authors {
		errs = errors.AppendField(errs, "Authors", a.Validate())
	}
	if m.MinApprovals == 0 {
		errs = errors.AppendField(errs, "MinApprovals", errors.ErrEmpty)
	}
	return errs
}

func (AuthorCallMsg) Path() string {
	return pathAuthorCallMsg
}

func (m *AuthorCallMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Author", validateOptional(m.Author))
	if len(m.Call) == 0 {
		errs = errors.AppendField(errs, "Call", errors.ErrEmpty)
	}
	return errs
}

func (AddApprovalMsg) Path() string {
	return pathAddApprovalMsg
}

func (m *AddApprovalMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "CallID", validateCallID(m.CallID))
	errs = errors.AppendField(errs, "Signer", validateOptional(m.Signer))
	return errs
}

func (RemoveApprovalMsg) Path() string {
	return pathRemoveApprovalMsg
}

func (m *RemoveApprovalMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "CallID", validateCallID(m.CallID))
	errs = errors.AppendField(errs, "Signer", validateOptional(m.Signer))
	return errs
}

func (RemoveCallMsg) Path() string {
	return pathRemoveCallMsg
}

func (m *RemoveCallMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "CallID", validateCallID(m.CallID))
	errs = errors.AppendField(errs, "Author", validateOptional(m.Author))
	return errs
}

func (ProposeMinApprovalsMsg) Path() string {
	return pathProposeMinApprovalsMsg
}

func (m *ProposeMinApprovalsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Proposer", validateOptional(m.Proposer))
	if m.NewMinimum == 0 {
		errs = errors.AppendField(errs, "NewMinimum", errors.ErrEmpty)
	}
	return errs
}

func (ApproveMinApprovalsMsg) Path() string {
	return pathApproveMinApprovalsMsg
}

func (m *ApproveMinApprovalsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Signer", validateOptional(m.Signer))
	return errs
}

func (RevokeMinApprovalsMsg) Path() string {
	return pathRevokeMinApprovalsMsg
}

func (m *RevokeMinApprovalsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Signer", validateOptional(m.Signer))
	return errs
}

func (AdjustMinApprovalsMsg) Path() string {
	return pathAdjustMinApprovalsMsg
}

func (m *AdjustMinApprovalsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MsaAddress", m.MsaAddress.Validate())
	errs = errors.AppendField(errs, "Author", validateOptional(m.Author))
	if m.NewMinimum == 0 {
		errs = errors.AppendField(errs, "NewMinimum", errors.ErrEmpty)
	}
	return errs
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

// ConfigPatch returns the configuration fields to change.
func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	if len(m.Patch.Owner) != 0 {
		return errors.AppendField(nil, "Patch.Owner", m.Patch.Owner.Validate())
	}
	return nil
}
