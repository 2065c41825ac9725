package errors

import (
	"fmt"
)

// Field attaches err to a field of a validated value. Name fields the Go
// way, with dots for nesting and indexes for lists, for example
// "Signers.2". Field returns nil for a nil err.
func Field(field string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: withStack(err), field: field, desc: description}
}

// AppendField adds the error of a field to errs. Nil errors are ignored.
func AppendField(errs error, field string, err error) error {
	return Append(errs, Field(field, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

// FieldErrors returns all errors attached to the field, looking into groups
// and causes.
func FieldErrors(err error, field string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && f.field == field {
			return append(res, err)
		}
		if g, ok := err.(unpacker); ok {
			for _, member := range g.Unpack() {
				res = append(res, FieldErrors(member, field)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return res
}
