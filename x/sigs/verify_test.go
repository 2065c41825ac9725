package sigs

import (
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureConsumesNonce(t *testing.T) {
	db := store.MemStore()
	key := crypto.GenPrivKeyEd25519()
	const chainID = "verify-chain"
	payload := []byte("author call")
	tx := newSignedTx(string(payload))

	sign := func(seq int64) *StdSignature {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	// The first signature must carry nonce zero.
	_, err := VerifySignature(db, sign(1), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	for seq := int64(0); seq < 3; seq++ {
		cond, err := VerifySignature(db, sign(seq), payload, chainID)
		require.NoError(t, err)
		assert.Equal(t, key.PublicKey().Condition(), cond)
	}
	n, err := NextNonce(db, key.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Replay and gaps are rejected.
	_, err = VerifySignature(db, sign(2), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(db, sign(9), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// Another chain or another payload does not verify.
	_, err = VerifySignature(db, sign(3), payload, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(db, sign(3), []byte("author calls"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(db, new(StdSignature), payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	n, err = NextNonce(db, key.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	const chainID = "verify-chain"
	alice, bob := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()

	tx := newSignedTx("approve")
	other := newSignedTx("reject")

	sign := func(key *crypto.PrivateKey, tx SignedTx, seq int64) *StdSignature {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	conds, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, conds)

	tx.Signatures = []*StdSignature{sign(alice, other, 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sign(alice, tx, 0)}
	conds, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{alice.PublicKey().Condition()}, conds)

	// alice replays her signature so the whole transaction fails.
	tx.Signatures = []*StdSignature{sign(alice, tx, 0), sign(bob, tx, 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = []*StdSignature{sign(bob, tx, 0), sign(alice, tx, 1)}
	conds, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	want := []weave.Condition{bob.PublicKey().Condition(), alice.PublicKey().Condition()}
	assert.Equal(t, want, conds)
}
