package crypto

import "github.com/d9chain/weave/codec"

// PublicKey wraps the raw bytes of a public key. Only ed25519 is supported.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// PrivateKey wraps the raw bytes of a private key. Only ed25519 is supported.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// Signature holds a signature created with a PrivateKey.
type Signature struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

func (m *PublicKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *PrivateKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *Signature) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

func (m *PublicKey) Marshal() ([]byte, error) {
	return marshalKey(m.Ed25519)
}

func (m *PublicKey) Unmarshal(raw []byte) error {
	b, err := unmarshalKey(raw)
	m.Ed25519 = b
	return err
}

func (m *PrivateKey) Marshal() ([]byte, error) {
	return marshalKey(m.Ed25519)
}

func (m *PrivateKey) Unmarshal(raw []byte) error {
	b, err := unmarshalKey(raw)
	m.Ed25519 = b
	return err
}

func (m *Signature) Marshal() ([]byte, error) {
	return marshalKey(m.Ed25519)
}

func (m *Signature) Unmarshal(raw []byte) error {
	b, err := unmarshalKey(raw)
	m.Ed25519 = b
	return err
}

// All three messages share the same layout.
func marshalKey(ed25519 []byte) ([]byte, error) {
	var e codec.Encoder
	e.Bytes(1, ed25519)
	return e.Result()
}

func unmarshalKey(raw []byte) ([]byte, error) {
	var ed25519 []byte
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			ed25519 = d.Bytes()
		default:
			d.Skip()
		}
	}
	return ed25519, d.Err()
}
