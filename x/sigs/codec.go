package sigs

import (
	"github.com/d9chain/weave/codec"
	"github.com/d9chain/weave/crypto"
)

// UserData just stores the data and is used for serialization.
// Key is the Address (PubKey.Condition().Address())
type UserData struct {
	Pubkey   *crypto.PublicKey `json:"pubkey,omitempty"`
	Sequence int64             `json:"sequence,omitempty"`
}

func (m *UserData) Marshal() ([]byte, error) {
	var e codec.Encoder
	if m.Pubkey != nil {
		e.Message(1, m.Pubkey)
	}
	e.Int64(2, m.Sequence)
	return e.Result()
}

func (m *UserData) Unmarshal(raw []byte) error {
	*m = UserData{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Pubkey = &crypto.PublicKey{}
			d.Message(m.Pubkey)
		case 2:
			m.Sequence = d.Int64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// StdSignature represents the signature, the identity of the signer
// (the Pubkey), and a sequence number to prevent replay attacks.
//
// A given signer must submit transactions with the sequence number
// increasing by 1 each time (starting at 0)
type StdSignature struct {
	Sequence  int64             `json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `json:"pubkey,omitempty"`
	Signature *crypto.Signature `json:"signature,omitempty"`
}

func (m *StdSignature) GetSequence() int64 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

func (m *StdSignature) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Int64(1, m.Sequence)
	if m.Pubkey != nil {
		e.Message(2, m.Pubkey)
	}
	if m.Signature != nil {
		e.Message(3, m.Signature)
	}
	return e.Result()
}

func (m *StdSignature) Unmarshal(raw []byte) error {
	*m = StdSignature{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Sequence = d.Int64()
		case 2:
			m.Pubkey = &crypto.PublicKey{}
			d.Message(m.Pubkey)
		case 3:
			m.Signature = &crypto.Signature{}
			d.Message(m.Signature)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
