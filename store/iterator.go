package store

import (
	"bytes"

	"github.com/d9chain/weave/errors"
)

// mergeIter yields the buffered entries of a cache merged with the iterator
// of its parent. An entry wins over a parent pair with the same key.
type mergeIter struct {
	entries   []*entry
	parent    Iterator
	ascending bool

	// parent pair read ahead for comparison
	key, value []byte
	pending    bool
	exhausted  bool
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(entries []*entry, parent Iterator, ascending bool) *mergeIter {
	return &mergeIter{
		entries:   entries,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIter) Next() ([]byte, []byte, error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}
		if !m.pending && len(m.entries) == 0 {
			return nil, nil, errors.ErrIteratorDone
		}

		if m.pending {
			if len(m.entries) == 0 {
				m.pending = false
				return m.key, m.value, nil
			}
			cmp := bytes.Compare(m.key, m.entries[0].key)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				m.pending = false
				return m.key, m.value, nil
			}
			if cmp == 0 {
				// shadowed by the entry
				m.pending = false
			}
		}

		e := m.entries[0]
		m.entries = m.entries[1:]
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

func (m *mergeIter) Release() {
	m.parent.Release()
	m.entries = nil
}

func (m *mergeIter) peekParent() error {
	if m.pending || m.exhausted {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.key, m.value, m.pending = key, value, true
	case errors.ErrIteratorDone.Is(err):
		m.exhausted = true
	default:
		return err
	}
	return nil
}
