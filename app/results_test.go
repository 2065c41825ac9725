package app

import (
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/weavetest/assert"
)

type text struct {
	value string
}

func (t *text) Marshal() ([]byte, error) { return []byte(t.value), nil }
func (t *text) Unmarshal(raw []byte) error {
	t.value = string(raw)
	return nil
}

func TestSplitModels(t *testing.T) {
	models := []weave.Model{
		weave.Pair([]byte("a"), []byte("first")),
		weave.Pair([]byte("b"), []byte("second")),
	}
	keys, values := splitModels(models)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys.Results)

	raw, err := values.Marshal()
	assert.Nil(t, err)
	var decoded ResultSet
	assert.Nil(t, decoded.Unmarshal(raw))
	assert.Equal(t, values, &decoded)

	var first text
	assert.Nil(t, UnmarshalOneResult(raw, &first))
	assert.Equal(t, "first", first.value)
}

func TestUnmarshalOneResultEmpty(t *testing.T) {
	raw, err := (&ResultSet{}).Marshal()
	assert.Nil(t, err)
	var got text
	assert.IsErr(t, errors.ErrNotFound, UnmarshalOneResult(raw, &got))
}
