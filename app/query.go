package app

import (
	"strings"

	"github.com/d9chain/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

/*
Query reads the last committed state. The path selects a registered query
handler, for example "/msas" or "/msas/signer", and may end with "?prefix"
to match all keys starting with Data. The height of the request is ignored.

Key and Value of the response are ResultSets of the same length.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queries.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path))
	}

	id, err := s.state.latest()
	if err != nil {
		return queryError(err)
	}
	db := s.state.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, values := splitModels(models)
	res := abci.ResponseQuery{Height: id.Version}
	if res.Key, err = keys.Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = values.Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath separates the query modifier following "?".
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
