/*
Package orm stores typed models in prefixed sections of the key value store.

A Bucket holds a single type of object under its primary key and keeps any
number of secondary indexes up to date whenever an object is saved or
deleted. ModelBucket is the type safe interface extensions use.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the database. All objects are clones of
// the proto object, so a bucket always returns values of the same type.
//
// Embed it in a type safe wrapper rather than using it directly.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ weave.QueryHandler = Bucket{}

// NewBucket returns a bucket storing clones of proto. The name must be 3 to
// 10 lowercase letters or underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// WithIndex returns a copy of this bucket maintaining one more index.
// Registering the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, b.DBKey)
	b.indexes = indexes
	return b
}

// Index returns the named index or ErrInvalidIndex.
func (b Bucket) Index(name string) (Index, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return Index{}, errors.Wrap(ErrInvalidIndex, name)
	}
	return idx, nil
}

// IndexCount returns the number of objects referenced by given value of the
// named index.
func (b Bucket) IndexCount(db weave.ReadOnlyKVStore, name string, value []byte) (int, error) {
	idx, err := b.Index(name)
	if err != nil {
		return 0, err
	}
	return idx.Count(db, value)
}

// Register exposes the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name defaults to the bucket name.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for n, idx := range b.indexes {
		r.Register(root+"/"+n, idx)
	}
}

// Query returns the object stored under given key, or all objects whose key
// starts with given prefix.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []weave.Model{{Key: key, Value: value}}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrap(errors.ErrHuman, "not implemented: "+mod)
	}
}

// DBKey returns the full database key of an object. The returned slice is
// never shared.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

// Get returns the object stored under given key or nil if there is none.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Has returns true if an object is stored under given key.
func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse builds the object this bucket would return for given key and
// serialized value.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes the object, updating all indexes.
func (b Bucket) Save(db weave.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object stored under given key together with its index
// references.
func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db weave.KVStore, key []byte, obj Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && obj == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, obj); err != nil {
			return err
		}
	}
	return nil
}
