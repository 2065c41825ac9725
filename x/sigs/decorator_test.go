package sigs

import (
	"context"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/d9chain/weave/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "decorator-chain"
	key := crypto.GenPrivKeyEd25519()
	signer := []weave.Condition{key.PublicKey().Condition()}

	tx := newSignedTx("create account")
	sig0, err := SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(key, tx, chainID, 1)
	require.NoError(t, err)

	type run func(weave.Decorator, weave.Context, weave.KVStore, *recorder) error
	runs := map[string]run{
		"check": func(d weave.Decorator, ctx weave.Context, db weave.KVStore, h *recorder) error {
			res, err := d.Check(ctx, db, tx, h)
			if err == nil {
				assert.Equal(t, int64(len(h.seen)*signatureVerifyCost), res.GasPayment)
			}
			return err
		},
		"deliver": func(d weave.Decorator, ctx weave.Context, db weave.KVStore, h *recorder) error {
			_, err := d.Deliver(ctx, db, tx, h)
			return err
		},
	}

	for name, fn := range runs {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			ctx := weave.WithChainID(context.Background(), chainID)
			h := &recorder{}
			d := NewDecorator()

			tx.Signatures = nil
			assert.True(t, errors.ErrUnauthorized.Is(fn(d, ctx, db, h)))

			tx.Signatures = []*StdSignature{sig0}
			require.NoError(t, fn(d, ctx, db, h))
			assert.Equal(t, signer, h.seen)

			// Replayed signature.
			assert.True(t, ErrInvalidSequence.Is(fn(d, ctx, db, h)))

			lenient := d.AllowMissingSigs()
			tx.Signatures = nil
			require.NoError(t, fn(lenient, ctx, db, h))
			assert.Empty(t, h.seen)

			tx.Signatures = []*StdSignature{sig1}
			require.NoError(t, fn(lenient, ctx, db, h))
			assert.Equal(t, signer, h.seen)
		})
	}
}

func TestDecoratorIgnoresUnsignedTx(t *testing.T) {
	h := &recorder{}
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/unsigned"}}
	_, err := NewDecorator().Deliver(context.Background(), store.MemStore(), tx, h)
	require.NoError(t, err)
	assert.Empty(t, h.seen)
}

// recorder remembers the signers it was called with.
type recorder struct {
	seen []weave.Condition
}

var _ weave.Handler = (*recorder)(nil)

func (r *recorder) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (r *recorder) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}
