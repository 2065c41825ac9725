package app

import (
	"context"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/weavetest"
	"github.com/d9chain/weave/weavetest/assert"
)

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	failing := &weavetest.Decorator{DeliverErr: errors.ErrUnauthorized}
	h := &weavetest.Handler{}

	var nilDecorator *weavetest.Decorator
	stack := ChainDecorators(c1, nilDecorator, NewLogging(), NewRecovery(), c2).WithHandler(h)

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test"}}

	_, err := stack.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// Extending a chain does not modify the original one.
	extended := ChainDecorators(c1).Chain(failing).WithHandler(h)
	_, err = extended.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

type panicHandler struct{}

func (panicHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	panic("deliver")
}

func TestRecovery(t *testing.T) {
	stack := ChainDecorators(NewRecovery()).WithHandler(panicHandler{})
	ctx := context.Background()

	_, err := stack.Check(ctx, nil, nil)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.IsErr(t, errors.ErrPanic, err)
}
