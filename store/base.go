package store

import (
	"github.com/d9chain/weave/errors"
)

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// a MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set([]byte, []byte) error   { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

func (EmptyKVStore) Iterator([]byte, []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator([]byte, []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if len(s.models) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// NonAtomicBatch queues writes and applies them one by one on Write. Only
// in-memory stores may use it, as a failure halfway leaves a partial write.
type NonAtomicBatch struct {
	out SetDeleter
	ops []op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

type op struct {
	key, value []byte
	del        bool
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, op{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, op{key: key, del: true})
	return nil
}

// Len returns the number of queued writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.ops)
}

func (b *NonAtomicBatch) Write() error {
	for _, o := range b.ops {
		var err error
		if o.del {
			err = b.out.Delete(o.key)
		} else {
			err = b.out.Set(o.key, o.value)
		}
		if err != nil {
			return errors.Wrapf(err, "key %X", o.key)
		}
	}
	b.ops = nil
	return nil
}
