package iavl

import (
	"testing"

	"github.com/d9chain/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStore(t *testing.T) {
	cs := MockCommitStore()
	require.NoError(t, cs.LoadLatestVersion())

	id, err := cs.LatestVersion()
	require.NoError(t, err)
	assert.EqualValues(t, 0, id.Version)

	// writes are not visible before the cache is written and committed
	cache := cs.CacheWrap()
	require.NoError(t, cache.Set([]byte("foo"), []byte("bar")))
	require.NoError(t, cache.Set([]byte("baz"), []byte("qux")))
	got, err := cs.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())
	id, err = cs.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 1, id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = cs.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), got)

	// discarded cache leaves no trace
	cache = cs.CacheWrap()
	require.NoError(t, cache.Delete([]byte("foo")))
	cache.Discard()
	id2, err := cs.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 2, id2.Version)
	assert.Equal(t, id.Hash, id2.Hash, "state did not change")

	// iteration reads the working tree
	it, err := cs.CacheWrap().Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()
	var keys []string
	for {
		k, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		keys = append(keys, string(k))
	}
	assert.Equal(t, []string{"baz", "foo"}, keys)
}

func TestCommitStorePrunesHistory(t *testing.T) {
	cs := MockCommitStore()
	cs.historySize = 2

	for i := 0; i < 5; i++ {
		cache := cs.CacheWrap()
		require.NoError(t, cache.Set([]byte("counter"), []byte{byte(i)}))
		require.NoError(t, cache.Write())
		_, err := cs.Commit()
		require.NoError(t, err)
	}

	assert.False(t, cs.tree.VersionExists(1))
	assert.False(t, cs.tree.VersionExists(3))
	assert.True(t, cs.tree.VersionExists(4))
	assert.True(t, cs.tree.VersionExists(5))
}
