package orm

import (
	"reflect"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// Model is an entity stored in a ModelBucket.
type Model interface {
	weave.Persistent
	Validate() error
	Copy() CloneableData
}

// ModelBucket stores models of a single type under their primary keys.
type ModelBucket interface {
	// One loads the model stored under key into dest. ErrNotFound is
	// returned for a missing key and ErrType when dest cannot hold the
	// stored model.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error
	// Has returns ErrNotFound for a missing key.
	Has(db weave.ReadOnlyKVStore, key []byte) error
	// ByIndex returns the keys referenced by a value of the named index,
	// in key order.
	ByIndex(db weave.ReadOnlyKVStore, index string, value []byte) ([][]byte, error)
	// Put validates and saves m, updating the indexes.
	Put(db weave.KVStore, key []byte, m Model) error
	// Delete returns ErrNotFound for a missing key.
	Delete(db weave.KVStore, key []byte) error
	// Register exposes the models and the indexes as queries under name.
	Register(name string, r weave.QueryRouter)
}

type modelBucket struct {
	Bucket
}

var _ ModelBucket = modelBucket{}

// NewModelBucket serves models from b. Every index of b stays in effect.
func NewModelBucket(b Bucket) ModelBucket {
	return modelBucket{Bucket: b}
}

func (mb modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.Name(), key)
	}
	src, dst := reflect.ValueOf(obj.Value()), reflect.ValueOf(dest)
	if src.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrType, "cannot load %T into %T", obj.Value(), dest)
	}
	dst.Elem().Set(src.Elem())
	return nil
}

func (mb modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	switch ok, err := mb.Bucket.Has(db, key); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.Name(), key)
	}
	return nil
}

func (mb modelBucket) ByIndex(db weave.ReadOnlyKVStore, index string, value []byte) ([][]byte, error) {
	idx, err := mb.Index(index)
	if err != nil {
		return nil, err
	}
	return idx.Refs(db, value)
}

func (mb modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s model", mb.Name())
	}
	return mb.Save(db, NewSimpleObj(key, m))
}

func (mb modelBucket) Delete(db weave.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.Bucket.Delete(db, key)
}
