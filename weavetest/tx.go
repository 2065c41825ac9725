package weavetest

import (
	"github.com/d9chain/weave"
)

// Tx is a transaction carrying a single message. Err, when set, is returned
// instead of the message.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("test transaction cannot be deserialized")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("test transaction cannot be serialized")
}

// Msg is a message routed by its RoutePath. Serialization copies the raw
// Serialized bytes and fails with Err when set.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

// Validate returns Err.
func (m *Msg) Validate() error {
	return m.Err
}
