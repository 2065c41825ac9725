package x

import (
	"github.com/d9chain/weave"
)

// Authenticator tells a handler which conditions are fulfilled in the
// current context. Handlers receive it in their constructor so that the
// application decides which authentication schemes are trusted.
type Authenticator interface {
	GetConditions(weave.Context) []weave.Condition
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth grants the union of the conditions of all its authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines authenticators. The order of the authenticators is the
// order of the returned conditions.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions keeps the first occurrence of every condition.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSignerAddress returns the address of the first fulfilled condition or
// nil when nothing is authenticated.
func MainSignerAddress(ctx weave.Context, auth Authenticator) weave.Address {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0].Address()
}

// HasSigner returns true if any of the conditions resolves to addr.
func HasSigner(addr weave.Address, conds []weave.Condition) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

func hasCondition(conds []weave.Condition, c weave.Condition) bool {
	for _, have := range conds {
		if have.Equals(c) {
			return true
		}
	}
	return false
}
