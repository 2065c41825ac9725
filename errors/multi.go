package errors

import (
	"strconv"
	"strings"
)

// Append groups errors, ignoring nil values. It returns nil when nothing is
// left and the error itself when only one is left. Groups are flattened.
func Append(errs ...error) error {
	var all []error
	for _, e := range errs {
		switch e := e.(type) {
		case *multiErr:
			all = append(all, e.errs...)
		default:
			if !isNilErr(e) {
				all = append(all, e)
			}
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return &multiErr{errs: all}
	}
}

type unpacker interface {
	Unpack() []error
}

type multiErr struct {
	errs []error
}

var (
	_ unpacker = (*multiErr)(nil)
	_ coder    = (*multiErr)(nil)
)

func (m *multiErr) Unpack() []error {
	return m.errs
}

func (m *multiErr) Error() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(m.errs)))
	b.WriteString(" errors occurred:")
	for i, e := range m.errs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		b.WriteString(e.Error())
	}
	return b.String()
}

// ABCICode is the code of the first error of the group.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}
