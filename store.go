package weave

// ReadOnlyKVStore reads a key value store. A missing key reads as a nil
// value.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil
	// bound is open. The domain must not be written while the iterator
	// is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same domain in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write part shared by stores and batches. Implementations
// must not retain the given slices after the call returns.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store passed to every handler.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that are applied to the store together by Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator returns the entries of a key range one by one. When the range is
// exhausted Next returns errors.ErrIteratorDone. Release must always be
// called.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stage writes in a cache layer.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cache layer over a store. Reads see the staged writes.
// Write applies them to the parent store while Discard drops them. Caches
// can be stacked.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is a versioned root store. Every Commit persists the
// changes written through its caches as a new version.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	// LoadLatestVersion loads the last complete version, which after a
	// crash during commit may be older than the last attempted one.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
