package gconf

import (
	"encoding/json"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/d9chain/weave/weavetest"
	"github.com/d9chain/weave/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myconfig{Owner: weavetest.RandomAddr(t), Num: 852151421, Str: "foobar", Limit: 7},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: weave.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"invalid limit cannot be saved": {
			Conf:        &myconfig{Owner: weavetest.RandomAddr(t), Limit: 1000},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}
			var got myconfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got myconfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &got))
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"mypkg": myconfig{Owner: owner, Num: 5, Str: "genesis"},
		},
	})
	assert.Nil(t, err)
	var opts weave.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, myconfig{Owner: owner, Num: 5, Str: "genesis"}, got)

	err = InitConfig(db, opts, "otherpkg", &myconfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}
