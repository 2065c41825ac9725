package msa

import (
	"context"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x"
)

// CallDecoder returns the message a stored call represents.
type CallDecoder func(raw []byte) (weave.Msg, error)

// Executor delivers a message on behalf of a multi signature account. The
// context carries the account condition.
type Executor func(ctx weave.Context, db weave.KVStore, msg weave.Msg) (*weave.DeliverResult, error)

// HandlerAsExecutor wraps the message in a transaction so that any handler,
// usually the application router, can execute calls.
func HandlerAsExecutor(h weave.Handler) Executor {
	return func(ctx weave.Context, db weave.KVStore, msg weave.Msg) (*weave.DeliverResult, error) {
		return h.Deliver(ctx, db, &callTx{msg: msg})
	}
}

type callTx struct {
	msg weave.Msg
}

var _ weave.Tx = (*callTx)(nil)

func (tx *callTx) GetMsg() (weave.Msg, error) {
	return tx.msg, nil
}

func (tx *callTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *callTx) Unmarshal(raw []byte) error {
	return errors.Wrap(errors.ErrHuman, "call transaction cannot be decoded")
}

type contextKey int

const (
	contextKeyAccount contextKey = iota
)

// withAccount authenticates the account in given context. Only this package
// may act as an account.
func withAccount(ctx weave.Context, acc *Account) weave.Context {
	return context.WithValue(ctx, contextKeyAccount, AccountCondition(acc.Signers))
}

// Authenticate grants the permissions of the multi signature account whose
// call is being executed.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the account condition, if any.
func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	val, _ := ctx.Value(contextKeyAccount).(weave.Condition)
	if val == nil {
		return nil
	}
	return []weave.Condition{val}
}

// HasAddress returns true if the account with given address is executing a
// call in this context.
func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return x.HasSigner(addr, a.GetConditions(ctx))
}
