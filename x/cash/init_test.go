package cash

import (
	"encoding/json"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/store"
	"github.com/d9chain/weave/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"cash": [
			{"address": "b1ca7e78f74423ae01da3b51e676934d9105f282", "balance": 1000},
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "balance": 5}
		]
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	c := NewController(NewBucket())
	addr, err := weave.ParseAddress("b1ca7e78f74423ae01da3b51e676934d9105f282")
	assert.Nil(t, err)
	balance, err := c.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestGenesisInvalidAddress(t *testing.T) {
	const genesis = `{"cash": [{"address": "", "balance": 1}]}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	if err := (Initializer{}).FromGenesis(opts, db); err == nil {
		t.Fatal("want an error")
	}
}
