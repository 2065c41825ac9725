package weavetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Runner drives an abci application through consecutive blocks. Blocks are
// one second apart. Any abci level failure ends the test.
type Runner struct {
	t       testing.TB
	app     abci.Application
	chainID string
	height  int64
	now     time.Time
}

// NewRunner returns a runner whose first block follows genesis by one second.
func NewRunner(t testing.TB, app abci.Application, chainID string, genesis time.Time) *Runner {
	return &Runner{t: t, app: app, chainID: chainID, now: genesis.UTC()}
}

// Block is the view of the application inside a block.
type Block interface {
	CheckTx(weave.Tx) error
	DeliverTx(weave.Tx) (*abci.ResponseDeliverTx, error)
}

// TxError is returned for a transaction the application rejected.
type TxError struct {
	Code uint32
	Log  string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Log)
}

// InitChain loads the JSON encoding of genesis in its own block.
func (r *Runner) InitChain(genesis interface{}) {
	r.t.Helper()
	raw, err := json.Marshal(genesis)
	if err != nil {
		r.t.Fatalf("genesis: %s", err)
	}
	req := abci.RequestInitChain{Time: r.now, ChainId: r.chainID, AppStateBytes: raw}
	if !r.InBlock(func(Block) error { r.app.InitChain(req); return nil }) {
		r.t.Fatal("genesis did not change the state")
	}
}

// InBlock runs fn within a new block and commits it. It returns whether the
// app hash changed.
func (r *Runner) InBlock(fn func(Block) error) bool {
	r.t.Helper()
	r.height++
	r.now = r.now.Add(time.Second)

	before := r.app.Info(abci.RequestInfo{}).LastBlockAppHash
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: r.chainID, Height: r.height, Time: r.now},
	})
	if err := fn(r); err != nil {
		r.t.Fatalf("block %d: %+v", r.height, err)
	}
	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})
	return !bytes.Equal(before, r.app.Commit().Data)
}

func (r *Runner) CheckTx(tx weave.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal tx")
	}
	if res := r.app.CheckTx(raw); res.Code != errors.SuccessABCICode {
		return &TxError{Code: res.Code, Log: res.Log}
	}
	return nil
}

// DeliverTx returns the response even on failure so that its log can be
// inspected.
func (r *Runner) DeliverTx(tx weave.Tx) (*abci.ResponseDeliverTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res := r.app.DeliverTx(raw)
	if res.Code != errors.SuccessABCICode {
		return &res, &TxError{Code: res.Code, Log: res.Log}
	}
	return &res, nil
}

func (r *Runner) Height() int64 {
	return r.height
}

func (r *Runner) BlockTime() time.Time {
	return r.now
}

// Query fails the test unless the query succeeds.
func (r *Runner) Query(path string, data []byte) abci.ResponseQuery {
	r.t.Helper()
	res := r.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		r.t.Fatalf("query %s: code %d: %s", path, res.Code, res.Log)
	}
	return res
}
