package orm

import (
	"bytes"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

const indexPrefix = "_i."

// Indexer returns the index values of an object. An object may be referenced
// under any number of values, including none.
type Indexer func(Object) ([][]byte, error)

// Index maps index values to the primary keys of the objects that produced
// them. All keys referenced by a single value are stored together as one
// MultiRef, so an index suits small collections such as the accounts a
// single signer belongs to.
type Index struct {
	name    string
	prefix  []byte
	indexer Indexer
	refKey  func([]byte) []byte
}

var _ weave.QueryHandler = Index{}

// NewIndex returns an index stored under given name. refKey turns a primary
// key into the database key of the referenced object and is used by queries.
func NewIndex(name string, indexer Indexer, refKey func([]byte) []byte) Index {
	return Index{
		name:    name,
		prefix:  []byte(indexPrefix + name + ":"),
		indexer: indexer,
		refKey:  refKey,
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

// DBKey returns the database key under which references of given index
// value are stored. The returned slice is never shared.
func (i Index) DBKey(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value))
	out = append(out, i.prefix...)
	return append(out, value...)
}

// Update moves the references of an object from the values of its previous
// state to the values of its new state. A nil prev inserts and a nil save
// deletes. The primary key of an object cannot change.
func (i Index) Update(db weave.KVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	var (
		pk       []byte
		old, cur [][]byte
		err      error
	)
	if prev != nil {
		pk = prev.Key()
		if old, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if save != nil {
		pk = save.Key()
		if cur, err = i.indexer(save); err != nil {
			return err
		}
	}

	for _, v := range subtract(old, cur) {
		if err := i.remove(db, v, pk); err != nil {
			return err
		}
	}
	for _, v := range subtract(cur, old) {
		if err := i.insert(db, v, pk); err != nil {
			return err
		}
	}
	return nil
}

// Refs returns the primary keys referenced by given index value, in key
// order. A value without references returns nil.
func (i Index) Refs(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, i.DBKey(value))
	if err != nil {
		return nil, err
	}
	return refs.GetRefs(), nil
}

// Count returns how many primary keys are referenced by given index value.
func (i Index) Count(db weave.ReadOnlyKVStore, value []byte) (int, error) {
	refs, err := i.Refs(db, value)
	return len(refs), err
}

// Query returns the objects referenced by an index value, or by all index
// values starting with given prefix.
func (i Index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case weave.KeyQueryMod:
		refs, err = i.Refs(db, data)
	case weave.PrefixQueryMod:
		refs, err = i.prefixRefs(db, data)
	default:
		return nil, errors.Wrap(errors.ErrHuman, "not implemented: "+mod)
	}
	if err != nil {
		return nil, err
	}
	return i.loadModels(db, refs)
}

func (i Index) prefixRefs(db weave.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	it, err := db.Iterator(prefixRange(i.DBKey(prefix)))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var all [][]byte
	for {
		_, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		var refs MultiRef
		if err := refs.Unmarshal(value); err != nil {
			return nil, errors.Wrap(err, "unmarshal index references")
		}
		all = append(all, refs.Refs...)
	}
}

func (i Index) loadModels(db weave.ReadOnlyKVStore, refs [][]byte) ([]weave.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]weave.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, weave.Model{Key: key, Value: value})
	}
	return res, nil
}

func (i Index) load(db weave.ReadOnlyKVStore, key []byte) (*MultiRef, error) {
	raw, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal index references")
	}
	return &refs, nil
}

func (i Index) remove(db weave.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.DBKey(value)
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	return i.store(db, key, refs)
}

func (i Index) insert(db weave.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.DBKey(value)
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if err := refs.Add(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.store(db, key, refs)
}

func (i Index) store(db weave.KVStore, key []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var r [][]byte
	for _, m := range minuend {
		if !containsRef(subtrahend, m) {
			r = append(r, m)
		}
	}
	return r
}

func containsRef(refs [][]byte, ref []byte) bool {
	for _, r := range refs {
		if bytes.Equal(r, ref) {
			return true
		}
	}
	return false
}
