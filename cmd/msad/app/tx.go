package app

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/codec"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x/sigs"
)

// Tx is the transaction accepted by msad. It carries a single message and
// the signatures of its authors.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        weave.Msg
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	err := tx.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "message is <nil>")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures on this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, which is the serialized
// transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	var e codec.Encoder
	for _, s := range tx.Signatures {
		e.Message(1, s)
	}
	if err := encodeMsg(&e, tx.Msg); err != nil {
		return nil, err
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		if d.Field() == 1 {
			sig := &sigs.StdSignature{}
			d.Message(sig)
			tx.Signatures = append(tx.Signatures, sig)
			continue
		}
		ok, err := decodeMsgField(d, &tx.Msg)
		if err != nil {
			return err
		}
		if !ok {
			d.Skip()
		}
	}
	return d.Err()
}
