package app

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// state keeps the committed store together with the two caches the ABCI
// connections write to. The check cache is thrown away on every commit.
type state struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

func loadState(db weave.CommitKVStore) (*state, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &state{
		committed: db,
		deliver:   db.CacheWrap(),
		check:     db.CacheWrap(),
	}, nil
}

func (s *state) latest() (weave.CommitID, error) {
	return s.committed.LatestVersion()
}

// commit persists the deliver cache as a new version and resets both
// caches on top of it.
func (s *state) commit() (weave.CommitID, error) {
	if err := s.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.check.Discard()

	id, err := s.committed.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()
	return id, nil
}

// chainIDKey is stored under the "_wv:" prefix reserved for framework data.
var chainIDKey = []byte("_wv:chainID")

func loadChainID(db weave.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID stores the chain id once. It cannot be changed later.
func saveChainID(db weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch ok, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case ok:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
