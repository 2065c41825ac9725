package cash

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// Ensure we implement the Msg interface
var _ weave.Msg = (*SendMsg)(nil)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	if s.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "non-positive"))
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize))
	}
	return errs
}
