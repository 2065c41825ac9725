package cash

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/codec"
)

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance int64 `json:"balance"`
}

func (m *Wallet) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Int64(1, m.Balance)
	return e.Result()
}

func (m *Wallet) Unmarshal(raw []byte) error {
	*m = Wallet{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Balance = d.Int64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// SendMsg moves tokens from the source wallet to the destination wallet.
type SendMsg struct {
	Source      weave.Address `json:"source"`
	Destination weave.Address `json:"destination"`
	Amount      int64         `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

func (m *SendMsg) Marshal() ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, m.Source)
	e.Bytes(2, m.Destination)
	e.Int64(3, m.Amount)
	e.String(4, m.Memo)
	return e.Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Source = d.Bytes()
		case 2:
			m.Destination = d.Bytes()
		case 3:
			m.Amount = d.Int64()
		case 4:
			m.Memo = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
