package weavetest

import (
	"context"
	"fmt"

	"github.com/d9chain/weave"
)

// Auth authenticates a static list of conditions regardless of the
// context.
type Auth struct {
	Signers []weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(_ weave.Context, addr weave.Address) bool {
	return hasAddress(a.Signers, addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context in which given conditions are
// authenticated.
func (a *CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []weave.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []weave.Condition, addr weave.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
