package orm

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/x"
)

// Object is a keyed value stored in a Bucket.
type Object interface {
	x.Validater
	Key() []byte
	SetKey([]byte)
	Value() weave.Persistent
	// Clone returns an empty object of the same type, ready to be
	// loaded from the store.
	Clone() Object
}

// Cloneable creates empty objects a Bucket loads stored values into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is the value of a SimpleObj.
type CloneableData interface {
	x.Validater
	weave.Persistent
	Copy() CloneableData
}
