package app

import (
	"context"
	"testing"
	"time"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store/iavl"
	"github.com/d9chain/weave/weavetest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

type initFunc func(weave.Options, weave.KVStore) error

func (fn initFunc) FromGenesis(opts weave.Options, db weave.KVStore) error {
	return fn(opts, db)
}

// rawQuery returns the value stored under the queried key.
type rawQuery struct{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, key []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "only key queries")
	}
	val, err := db.Get(key)
	if err != nil || val == nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(key, val)}, nil
}

func TestStoreAppLifecycle(t *testing.T) {
	qr := weave.NewQueryRouter()
	qr.Register("/raw", rawQuery{})

	db := iavl.MockCommitStore()
	s := NewStoreApp("test", db, qr, context.Background())
	s.WithInit(initFunc(func(opts weave.Options, kv weave.KVStore) error {
		var greeting string
		if err := opts.ReadOptions("greeting", &greeting); err != nil {
			return err
		}
		return kv.Set([]byte("greeting"), []byte(greeting))
	}))
	assert.Equal(t, "", s.GetChainID())

	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"greeting": "hello"}`),
	})
	assert.Equal(t, "test-chain", s.GetChainID())

	// Nothing is visible to queries before the commit.
	res := s.Query(abci.RequestQuery{Path: "/raw", Data: []byte("greeting")})
	assert.Equal(t, uint32(0), res.Code)
	var empty ResultSet
	assert.Nil(t, empty.Unmarshal(res.Value))
	assert.Equal(t, 0, len(empty.Results))

	now := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: now}})
	blockTime, ok := weave.BlockTime(s.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, now, blockTime)
	s.EndBlock(abci.RequestEndBlock{})
	commit := s.Commit()
	if len(commit.Data) == 0 {
		t.Fatal("commit must return the application hash")
	}

	res = s.Query(abci.RequestQuery{Path: "/raw", Data: []byte("greeting")})
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, int64(1), res.Height)
	var greeting ResultSet
	assert.Nil(t, greeting.Unmarshal(res.Value))
	assert.Equal(t, [][]byte{[]byte("hello")}, greeting.Results)

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	// The chain id is loaded back from the state.
	restarted := NewStoreApp("test", db, qr, context.Background())
	assert.Equal(t, "test-chain", restarted.GetChainID())
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: []byte(`{}`)})
	})
}

func TestStoreAppQueryErrors(t *testing.T) {
	qr := weave.NewQueryRouter()
	qr.Register("/raw", rawQuery{})
	s := NewStoreApp("test", iavl.MockCommitStore(), qr, context.Background())

	res := s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = s.Query(abci.RequestQuery{Path: "/raw?prefix", Data: []byte("g")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
}

func TestInitChainRequiresAppState(t *testing.T) {
	s := NewStoreApp("test", iavl.MockCommitStore(), weave.NewQueryRouter(), context.Background())
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain"})
	})
}

func TestSaveChainID(t *testing.T) {
	s := NewStoreApp("test", iavl.MockCommitStore(), weave.NewQueryRouter(), context.Background())
	db := s.DeliverStore()

	assert.IsErr(t, errors.ErrInput, saveChainID(db, "no"))
	assert.Nil(t, saveChainID(db, "my-chain"))
	assert.IsErr(t, errors.ErrImmutable, saveChainID(db, "my-chain"))
	got, err := loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "my-chain", got)
}

func TestSplitPath(t *testing.T) {
	cases := map[string][2]string{
		"/msas":            {"/msas", ""},
		"/msas?prefix":     {"/msas", "prefix"},
		"/msas/signer?key": {"/msas/signer", "key"},
		"?":                {"", ""},
	}
	for in, want := range cases {
		path, mod := splitPath(in)
		assert.Equal(t, want[0], path)
		assert.Equal(t, want[1], mod)
	}
}
