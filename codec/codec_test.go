package codec

import (
	"testing"

	"github.com/d9chain/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Name  string
	Count uint64
	Inner *pair
}

func (p *pair) Marshal() ([]byte, error) {
	var e Encoder
	e.String(1, p.Name)
	e.Uint64(2, p.Count)
	if p.Inner != nil {
		e.Message(3, p.Inner)
	}
	return e.Result()
}

func (p *pair) Unmarshal(raw []byte) error {
	*p = pair{}
	d := NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			p.Name = d.String()
		case 2:
			p.Count = d.Uint64()
		case 3:
			p.Inner = &pair{}
			d.Message(p.Inner)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func TestEncodeDecode(t *testing.T) {
	orig := &pair{Name: "outer", Count: 300, Inner: &pair{Name: "inner"}}
	raw, err := orig.Marshal()
	require.NoError(t, err)

	var got pair
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, orig, &got)
}

func TestZeroValuesAreOmitted(t *testing.T) {
	raw, err := (&pair{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestKnownEncoding(t *testing.T) {
	raw, err := (&pair{Name: "a", Count: 1}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x01, 'a', 0x10, 0x01}, raw)
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	var e Encoder
	e.String(1, "x")
	e.Uint64(7, 99)
	e.Bytes(8, []byte("ignored"))
	e.Uint64(2, 5)
	raw, err := e.Result()
	require.NoError(t, err)

	var got pair
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, pair{Name: "x", Count: 5}, got)
}

func TestMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated bytes":  {0x0a, 0x05, 'a'},
		"wrong wire type":  {0x08, 0x01},
		"broken varint":    {0x10, 0xff},
		"zero field":       {0x00, 0x01},
		"unsupported wire": {0x0b},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var got pair
			err := got.Unmarshal(raw)
			require.Error(t, err)
			assert.True(t, errors.ErrInput.Is(err))
		})
	}
}

func TestRepeatedBytesKeepsEmptyElements(t *testing.T) {
	var e Encoder
	e.RepeatedBytes(1, nil)
	e.RepeatedBytes(1, []byte("b"))
	raw, err := e.Result()
	require.NoError(t, err)

	var got [][]byte
	d := NewDecoder(raw)
	for d.Next() {
		got = append(got, d.Bytes())
	}
	require.NoError(t, d.Err())
	assert.Equal(t, [][]byte{{}, []byte("b")}, got)
}
