package weave

import (
	"reflect"

	"github.com/d9chain/weave/errors"
)

// Marshaller can serialize itself.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can serialize and deserialize itself. Unmarshal usually needs a
// pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the action a transaction requests. It carries no authentication
// data, which belongs to the wrapping Tx.
type Msg interface {
	Persistent
	// Path selects the handler of the message. It must match
	// [0-9A-Za-z_\-/]+ and several message types may share one.
	Path() string
	// Validate checks the message content without access to the state.
	Validate() error
}

// Tx is the envelope submitted by a client. Applications define their own
// transaction type carrying whatever the decorators need, such as
// signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder deserializes a transaction.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath returns the path of the message of tx or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dst and validates it. dst must be a
// pointer to the message type.
//
//	var msg CreateMsg
//	if err := weave.LoadMsg(tx, &msg); err != nil {
//		return err
//	}
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "load msg")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	out := reflect.ValueOf(dst)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination %T is not a pointer", dst)
	}
	in := reflect.Indirect(reflect.ValueOf(msg))
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "cannot load %T into %T", msg, dst)
	}
	out.Elem().Set(in)
	return errors.Wrap(msg.Validate(), "invalid message")
}
