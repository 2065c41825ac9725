package sigs

import (
	"context"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/x"
)

type contextKey int

const contextKeySigners contextKey = iota

// withSigners is unexported so that only the decorator grants signatures.
func withSigners(ctx weave.Context, signers []weave.Condition) weave.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reports the conditions of the verified transaction signers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	conds, _ := ctx.Value(contextKeySigners).([]weave.Condition)
	return conds
}

func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return x.HasSigner(addr, a.GetConditions(ctx))
}
