package orm

import (
	"reflect"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// SimpleObj is an Object holding a Model under a key. Buckets use a
// SimpleObj with a nil key as the prototype of their values.
type SimpleObj struct {
	key   []byte
	value Model
}

var (
	_ Object    = (*SimpleObj)(nil)
	_ Cloneable = (*SimpleObj)(nil)
)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

func (o SimpleObj) Value() weave.Persistent {
	return o.value
}

func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object with the same key and a zero value of the same
// type.
func (o *SimpleObj) Clone() Object {
	zero := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	c := &SimpleObj{value: zero}
	if len(o.key) != 0 {
		c.key = append([]byte(nil), o.key...)
	}
	return c
}
