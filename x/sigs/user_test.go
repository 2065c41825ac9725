package sigs

import (
	"testing"

	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketGetOrCreate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	obj, err := b.Get(db, pub.Address())
	require.NoError(t, err)
	assert.Nil(t, obj)

	obj, err = b.GetOrCreate(db, pub)
	require.NoError(t, err)
	require.NoError(t, obj.Validate())
	user := AsUser(obj)
	assert.Equal(t, int64(0), user.Sequence)

	// GetOrCreate does not persist.
	n, err := NextNonce(db, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, user.CheckAndIncrementSequence(0))
	require.NoError(t, b.Save(db, obj))

	obj, err = b.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.Equal(t, &UserData{Pubkey: pub, Sequence: 1}, AsUser(obj))
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Sequence: 4}
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(3)))
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(5)))
	require.NoError(t, u.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), u.Sequence)

	last := &UserData{Sequence: maxSequence}
	assert.True(t, errors.ErrOverflow.Is(last.CheckAndIncrementSequence(maxSequence)))
	assert.Equal(t, int64(maxSequence), last.Sequence)
}

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	assert.NoError(t, (&UserData{Pubkey: pub, Sequence: 17}).Validate())
	assert.True(t, errors.ErrEmpty.Is((&UserData{}).Validate()))
	assert.True(t, ErrInvalidSequence.Is((&UserData{Pubkey: pub, Sequence: -1}).Validate()))

	// An object without its address key is incomplete.
	obj := NewUser(nil)
	AsUser(obj).Pubkey = pub
	assert.Error(t, obj.Validate())
	obj.SetKey(pub.Address())
	assert.NoError(t, obj.Validate())
}

func TestUserDataCopy(t *testing.T) {
	u := &UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Sequence: 2}
	cp := u.Copy().(*UserData)
	cp.Sequence = 9
	assert.Equal(t, int64(2), u.Sequence)
	assert.Equal(t, u.Pubkey, cp.Pubkey)
}

func TestUserDataSerialization(t *testing.T) {
	u := &UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Sequence: 42}
	raw, err := u.Marshal()
	require.NoError(t, err)

	var got UserData
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, u, &got)
}
