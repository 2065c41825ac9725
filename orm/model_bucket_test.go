package orm

import (
	"testing"

	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/d9chain/weave/weavetest/assert"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket(newRefsBucket())

	assert.Nil(t, b.Put(db, []byte("g1"), mustMultiRef(t, "alice", "bob")))
	assert.Nil(t, b.Put(db, []byte("g2"), mustMultiRef(t, "bob")))

	var g1 MultiRef
	assert.Nil(t, b.One(db, []byte("g1"), &g1))
	assert.Equal(t, 2, len(g1.Refs))

	assert.Nil(t, b.Has(db, []byte("g1")))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("unknown")))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, nil))

	keys, err := b.ByIndex(db, "member", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("g1"), []byte("g2")}, keys)

	_, err = b.ByIndex(db, "unknown", []byte("bob"))
	assert.IsErr(t, ErrInvalidIndex, err)

	assert.Nil(t, b.Delete(db, []byte("g1")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("g1")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("g1"), &g1))

	keys, err = b.ByIndex(db, "member", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("g2")}, keys)

	err = b.Put(db, []byte("g3"), &MultiRef{})
	assert.IsErr(t, errors.ErrEmpty, err)
}
