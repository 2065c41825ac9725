package cash

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes binds SendMsg to a SendHandler.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// SendHandler transfers tokens out of a wallet whose owner authorized the
// transaction. A multi signature account authorizes it by executing a call.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.authorizedMsg(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.authorizedMsg(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("tokens sent",
		"source", msg.Source, "destination", msg.Destination, "amount", msg.Amount)
	return &weave.DeliverResult{Tags: []common.KVPair{
		weave.KVPair("cash.source", msg.Source.String()),
		weave.KVPair("cash.destination", msg.Destination.String()),
	}}, nil
}

func (h SendHandler) authorizedMsg(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", msg.Source)
	}
	return &msg, nil
}
