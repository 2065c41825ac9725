package app

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/codec"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x/cash"
	"github.com/d9chain/weave/x/msa"
)

// msgType binds a message to the field number it is serialized under. A
// transaction and a stored call carry exactly one of these fields.
type msgType struct {
	field int
	new   func() weave.Msg
}

var msgTypes = []msgType{
	{field: 20, new: func() weave.Msg { return &cash.SendMsg{} }},
	{field: 60, new: func() weave.Msg { return &msa.CreateMsg{} }},
	{field: 61, new: func() weave.Msg { return &msa.AuthorCallMsg{} }},
	{field: 62, new: func() weave.Msg { return &msa.AddApprovalMsg{} }},
	{field: 63, new: func() weave.Msg { return &msa.RemoveApprovalMsg{} }},
	{field: 64, new: func() weave.Msg { return &msa.RemoveCallMsg{} }},
	{field: 65, new: func() weave.Msg { return &msa.ProposeMinApprovalsMsg{} }},
	{field: 66, new: func() weave.Msg { return &msa.ApproveMinApprovalsMsg{} }},
	{field: 67, new: func() weave.Msg { return &msa.RevokeMinApprovalsMsg{} }},
	{field: 68, new: func() weave.Msg { return &msa.AdjustMinApprovalsMsg{} }},
	{field: 69, new: func() weave.Msg { return &msa.UpdateConfigurationMsg{} }},
}

var (
	msgByPath  = make(map[string]msgType)
	msgByField = make(map[int]msgType)
)

func init() {
	for _, t := range msgTypes {
		path := t.new().Path()
		if _, ok := msgByPath[path]; ok {
			panic("duplicated message path: " + path)
		}
		if _, ok := msgByField[t.field]; ok || t.field < firstMsgField {
			panic("invalid message field")
		}
		msgByPath[path] = t
		msgByField[t.field] = t
	}
}

// firstMsgField is the lowest field number a message may use. Lower
// numbers belong to the transaction envelope.
const firstMsgField = 20

func encodeMsg(e *codec.Encoder, msg weave.Msg) error {
	if msg == nil {
		return errors.Wrap(errors.ErrInput, "message is <nil>")
	}
	t, ok := msgByPath[msg.Path()]
	if !ok {
		return errors.Wrapf(errors.ErrType, "unsupported message %q", msg.Path())
	}
	e.Message(t.field, msg)
	return nil
}

// EncodeMsg serializes a message so that DecodeMsg can restore it. This is
// the format of calls authored for multi signature accounts.
func EncodeMsg(msg weave.Msg) ([]byte, error) {
	var e codec.Encoder
	if err := encodeMsg(&e, msg); err != nil {
		return nil, err
	}
	return e.Result()
}

// DecodeMsg restores a message serialized with EncodeMsg. Unknown fields
// are ignored. Exactly one message must be present.
func DecodeMsg(raw []byte) (weave.Msg, error) {
	var msg weave.Msg
	d := codec.NewDecoder(raw)
	for d.Next() {
		ok, err := decodeMsgField(d, &msg)
		if err != nil {
			return nil, err
		}
		if !ok {
			d.Skip()
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "no message")
	}
	return msg, nil
}

// decodeMsgField reads the current field into msg if it holds a known
// message. It returns false for any other field.
func decodeMsgField(d *codec.Decoder, msg *weave.Msg) (bool, error) {
	t, ok := msgByField[d.Field()]
	if !ok {
		return false, nil
	}
	if *msg != nil {
		return true, errors.Wrap(errors.ErrInput, "more than one message")
	}
	m := t.new()
	d.Message(m)
	*msg = m
	return true, nil
}
