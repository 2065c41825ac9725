package app

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also processes transactions. Every transaction
// is decoded and passed to a single handler, usually a decorated router.
type BaseApp struct {
	*StoreApp
	decode  weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application processing transactions with handler.
// With debug set, internal error details are returned to the client.
func NewBaseApp(store *StoreApp, decode weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decode: decode, handler: handler, debug: debug}
}

// DeliverTx writes directly to the block state. Changes of a failed
// transaction are only reverted when a Savepoint decorator is used.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return weave.DeliverTxResponse(nil, err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return weave.DeliverTxResponse(res, err, b.debug)
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return weave.CheckTxResponse(nil, err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckTxResponse(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx weave.Tx) weave.Context {
	return weave.WithLogInfo(b.BlockContext(), "call", call, "path", weave.GetPath(tx))
}

// decodeTx turns a decoder panic into an error.
func (b BaseApp) decodeTx(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decode(raw); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return tx, nil
}
