package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps nodes small. A cache holds the writes of at most one
// block.
const btreeDegree = 2

// MemStore returns an empty store living in memory only.
func MemStore() CacheableKVStore {
	var base EmptyKVStore
	return NewCache(base, NewNonAtomicBatch(base), nil)
}

// Cache buffers writes on top of a read only parent. Reads see the buffered
// writes first. Writes reach the parent through the batch once Write is
// called.
type Cache struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	out    Batch
}

var _ KVCacheWrap = Cache{}

// NewCache returns a cache over parent flushing into out. Caches that share
// a free list recycle each other's tree nodes. A nil list creates a new one.
func NewCache(parent ReadOnlyKVStore, out Batch, free *btree.FreeList) Cache {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return Cache{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		out:    out,
	}
}

// CacheWrap stacks another cache on top of this one.
func (c Cache) CacheWrap() KVCacheWrap {
	return NewCache(c, c.NewBatch(), c.free)
}

func (c Cache) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all buffered writes to the parent and empties the cache.
func (c Cache) Write() error {
	err := c.out.Write()
	c.Discard()
	return err
}

// Discard drops all buffered writes. Freed nodes return to the free list.
func (c Cache) Discard() {
	for c.tree.Len() > 0 {
		c.tree.DeleteMin()
	}
}

func (c Cache) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: key, value: value})
	return c.out.Set(key, value)
}

func (c Cache) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: key, deleted: true})
	return c.out.Delete(key)
}

func (c Cache) Get(key []byte) ([]byte, error) {
	if e := c.lookup(key); e != nil {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c Cache) Has(key []byte) (bool, error) {
	if e := c.lookup(key); e != nil {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c Cache) lookup(key []byte) *entry {
	if item := c.tree.Get(&entry{key: key}); item != nil {
		return item.(*entry)
	}
	return nil
}

// Iterator walks [start, end) in ascending order over the merged view of
// the cache and its parent.
func (c Cache) Iterator(start, end []byte) (Iterator, error) {
	it, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(c.entries(start, end), it, true), nil
}

// ReverseIterator walks [start, end) in descending order over the merged
// view of the cache and its parent.
func (c Cache) ReverseIterator(start, end []byte) (Iterator, error) {
	it, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := c.entries(start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newMergeIter(entries, it, false), nil
}

// entries returns the buffered writes with a key in [start, end) in
// ascending order. A nil bound is open.
func (c Cache) entries(start, end []byte) []*entry {
	var res []*entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.tree.Ascend(collect)
	case start == nil:
		c.tree.AscendLessThan(&entry{key: end}, collect)
	case end == nil:
		c.tree.AscendGreaterOrEqual(&entry{key: start}, collect)
	default:
		c.tree.AscendRange(&entry{key: start}, &entry{key: end}, collect)
	}
	return res
}

// entry is a buffered write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = (*entry)(nil)

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}
