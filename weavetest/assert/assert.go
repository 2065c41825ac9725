/*
Package assert holds the few assertions used by weave tests. Every helper
stops the test on the first mismatch.
*/
package assert

import (
	"reflect"
	"testing"

	"github.com/d9chain/weave/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, slice, map, chan, func or
// interface.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of weave errors
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails unless got is want or is matched by the Is method of want.
// A nil want only matches a nil got.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails unless err holds exactly one error for the field and that
// error matches want. A nil want requires that the field has no error.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)

	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want no error for %q, got %d: %v", field, len(errs), errs)
		}
		return
	}
	switch len(errs) {
	case 0:
		t.Fatalf("no error found for %q", field)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("unexpected error for %q: %q", field, errs[0])
		}
	default:
		t.Fatalf("want one error for %q, got %d: %v", field, len(errs), errs)
	}
}
