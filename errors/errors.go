package errors

import (
	"fmt"
	"reflect"
)

// Root errors shared by all extensions. Codes 2 to 99 belong to this
// package.
var (
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	// ErrMsg marks a message that fails validation.
	ErrMsg = Register(4, "invalid message")
	// ErrModel marks a stored model that fails validation.
	ErrModel     = Register(5, "invalid model")
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman is a code path that correct code never reaches.
	ErrHuman     = Register(7, "coding error")
	ErrImmutable = Register(8, "cannot be modified")
	ErrEmpty     = Register(9, "value is empty")
	ErrState     = Register(10, "invalid state")
	ErrType      = Register(11, "invalid type")
	ErrAmount    = Register(13, "invalid amount")
	ErrInput     = Register(14, "invalid input")
	ErrOverflow  = Register(16, "an operation cannot be completed due to value overflow")
	// ErrDatabase is a failure of the underlying storage.
	ErrDatabase = Register(17, "database")
	// ErrIteratorDone ends an iteration. It is not a failure.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrPanic is a recovered panic. Its details are never sent to clients.
	ErrPanic = Register(111222, "panic")
)

// registry maps every registered code to its error. Code 1 is reserved for
// errors that carry no code.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a root error. Extensions call it from a package level
// var block, so a code registered twice panics at startup.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		var desc string
		if prev != nil {
			desc = prev.desc
		}
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap a root error, which
// gives the client the code to act on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// Is returns true if err is e or wraps e. A group matches if any of its
// members does. A nil root only matches a nil error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if g, ok := err.(unpacker); ok {
			for _, member := range g.Unpack() {
				if e.Is(member) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// isNilErr also catches a nil pointer stored in the error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
