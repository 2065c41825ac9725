package msa

import (
	"github.com/d9chain/weave/errors"
)

// x/msa reserves 1000~1029.
var (
	ErrSignatoriesTooShort            = errors.Register(1000, "signatories too short")
	ErrSignatoriesTooLong             = errors.Register(1001, "signatories too long")
	ErrMinApprovalOutOfRange          = errors.Register(1002, "min approval out of range")
	ErrDuplicatesInList               = errors.Register(1003, "duplicates in list")
	ErrCallerNotSignatory             = errors.Register(1004, "caller not signatory")
	ErrAuthorNotSignatory             = errors.Register(1005, "author not signatory")
	ErrAccountAtMultiSigLimit         = errors.Register(1006, "account at multi sig limit")
	ErrAccountNotAuthor               = errors.Register(1007, "account not author")
	ErrAccountNotSignatory            = errors.Register(1008, "account not signatory")
	ErrCallLimit                      = errors.Register(1009, "pending call limit reached")
	ErrCallNotFound                   = errors.Register(1010, "call not found")
	ErrApprovalExists                 = errors.Register(1011, "approval exists")
	ErrApprovalDoesntExist            = errors.Register(1012, "approval does not exist")
	ErrApprovalsLimitReached          = errors.Register(1013, "approvals limit reached")
	ErrEncodingFailure                = errors.Register(1014, "call encoding failure")
	ErrDecodeFailure                  = errors.Register(1015, "call decode failure")
	ErrProposalAlreadyPending         = errors.Register(1016, "proposal already pending")
	ErrNewMinimumEqualsCurrentMinimum = errors.Register(1017, "new minimum equals current minimum")
	ErrProposalNotFound               = errors.Register(1018, "proposal not found")
	ErrMSANotFound                    = errors.Register(1019, "msa not found")
	ErrMSAAlreadyExists               = errors.Register(1020, "msa already exists")
)
