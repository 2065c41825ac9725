package orm

import "github.com/d9chain/weave/codec"

// MultiRef contains a list of references to pks
type MultiRef struct {
	Refs [][]byte `json:"refs,omitempty"`
}

// GetRefs returns the references or nil.
func (m *MultiRef) GetRefs() [][]byte {
	if m != nil {
		return m.Refs
	}
	return nil
}

// Marshal serializes the references in their stored order.
func (m *MultiRef) Marshal() ([]byte, error) {
	var e codec.Encoder
	for _, r := range m.Refs {
		e.RepeatedBytes(1, r)
	}
	return e.Result()
}

// Unmarshal loads the references from their serialized form.
func (m *MultiRef) Unmarshal(raw []byte) error {
	*m = MultiRef{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Refs = append(m.Refs, d.Bytes())
		default:
			d.Skip()
		}
	}
	return d.Err()
}
