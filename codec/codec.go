/*
Package codec implements the protobuf wire encoding used by all persisted
models and messages.

Every model describes its layout in a codec.proto file next to the Go type
and implements weave.Marshaller using an Encoder and a Decoder. Fields are
written in field number order and zero values are omitted, so that the
binary representation of a value is deterministic.
*/
package codec

import (
	"github.com/d9chain/weave/errors"
	"github.com/gogo/protobuf/proto"
)

// Wire types as defined by the protobuf encoding.
const (
	WireVarint  = 0
	WireFixed64 = 1
	WireBytes   = 2
	WireFixed32 = 5
)

// Marshaller is implemented by any value that can be serialized as an
// embedded message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder builds a protobuf encoded message. The first error encountered is
// kept and returned by Bytes.
type Encoder struct {
	buf []byte
	err error
}

func (e *Encoder) key(field int, wire int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wire))...)
}

func (e *Encoder) raw(field int, b []byte) {
	e.key(field, WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.raw(field, b)
}

// RepeatedBytes writes one element of a repeated bytes field. Unlike Bytes,
// an empty element is written.
func (e *Encoder) RepeatedBytes(field int, b []byte) {
	e.raw(field, b)
}

// String writes a string field. Empty values are omitted.
func (e *Encoder) String(field int, s string) {
	e.Bytes(field, []byte(s))
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
}

// Int64 writes a signed varint field using two's complement, the same way
// protobuf int64 is encoded. Zero is omitted.
func (e *Encoder) Int64(field int, v int64) {
	e.Uint64(field, uint64(v))
}

// Bool writes a boolean field. False is omitted.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// Message writes an embedded message. A nil message is omitted.
func (e *Encoder) Message(field int, m Marshaller) {
	if m == nil || e.err != nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return
	}
	e.raw(field, raw)
}

// Result returns the serialized message or the first error that happened
// while encoding.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Decoder reads a protobuf encoded message field by field. Usage:
//
//	d := codec.NewDecoder(raw)
//	for d.Next() {
//		switch d.Field() {
//		case 1:
//			m.Name = d.String()
//		default:
//			d.Skip()
//		}
//	}
//	return d.Err()
type Decoder struct {
	data  []byte
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading given serialized message.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Next reads the next field key. It returns false when the whole input was
// consumed or when an error occurred.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.data) == 0 {
		return false
	}
	k := d.varint()
	if d.err != nil {
		return false
	}
	d.field = int(k >> 3)
	d.wire = int(k & 0x7)
	if d.field <= 0 {
		d.fail("illegal field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the field that was read by Next.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.ErrInput, format, args...)
	}
}

func (d *Decoder) expect(wire int) bool {
	if d.err != nil {
		return false
	}
	if d.wire != wire {
		d.fail("field %d: wrong wire type %d", d.field, d.wire)
		return false
	}
	return true
}

func (d *Decoder) varint() uint64 {
	v, n := proto.DecodeVarint(d.data)
	if n == 0 {
		d.fail("malformed varint")
		return 0
	}
	d.data = d.data[n:]
	return v
}

func (d *Decoder) take(n uint64) []byte {
	if uint64(len(d.data)) < n {
		d.fail("field %d: unexpected end of input", d.field)
		return nil
	}
	out := d.data[:n]
	d.data = d.data[n:]
	return out
}

// Bytes reads a length delimited field. The returned slice is a copy.
func (d *Decoder) Bytes() []byte {
	if !d.expect(WireBytes) {
		return nil
	}
	n := d.varint()
	if d.err != nil {
		return nil
	}
	b := d.take(n)
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// String reads a string field.
func (d *Decoder) String() string {
	return string(d.Bytes())
}

// Uint64 reads a varint field.
func (d *Decoder) Uint64() uint64 {
	if !d.expect(WireVarint) {
		return 0
	}
	return d.varint()
}

// Int64 reads a signed varint field.
func (d *Decoder) Int64() int64 {
	return int64(d.Uint64())
}

// Bool reads a boolean field.
func (d *Decoder) Bool() bool {
	return d.Uint64() != 0
}

// Message reads an embedded message into given destination.
func (d *Decoder) Message(dest interface{ Unmarshal([]byte) error }) {
	raw := d.Bytes()
	if d.err != nil {
		return
	}
	if err := dest.Unmarshal(raw); err != nil {
		d.err = errors.Wrapf(err, "field %d", d.field)
	}
}

// Skip consumes the value of an unknown field.
func (d *Decoder) Skip() {
	if d.err != nil {
		return
	}
	switch d.wire {
	case WireVarint:
		d.varint()
	case WireFixed64:
		d.take(8)
	case WireBytes:
		n := d.varint()
		if d.err == nil {
			d.take(n)
		}
	case WireFixed32:
		d.take(4)
	default:
		d.fail("field %d: unsupported wire type %d", d.field, d.wire)
	}
}
