package app

import (
	"reflect"

	"github.com/d9chain/weave"
)

/*
Decorators is a middleware stack waiting for its final handler. The first
decorator is the outermost one.

	app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
		sigs.NewDecorator(),
		app.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
type Decorators []weave.Decorator

// ChainDecorators returns a stack of given decorators. Nil decorators are
// skipped so that optional middleware can be passed unconditionally.
func ChainDecorators(ds ...weave.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new stack extended with given decorators. The receiver is
// not modified.
func (d Decorators) Chain(ds ...weave.Decorator) Decorators {
	res := make(Decorators, len(d), len(d)+len(ds))
	copy(res, d)
	for _, dec := range ds {
		if !isNil(dec) {
			res = append(res, dec)
		}
	}
	return res
}

func isNil(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = layer{dec: d[i], next: h}
	}
	return h
}

// layer runs a decorator around the rest of the stack.
type layer struct {
	dec  weave.Decorator
	next weave.Handler
}

var _ weave.Handler = layer{}

func (l layer) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
