package orm

import (
	"testing"

	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMultiRef(t *testing.T) {
	Convey("Given an empty MultiRef", t, func() {
		m := new(MultiRef)
		So(m.Validate(), ShouldNotBeNil)

		Convey("Adding references keeps them sorted", func() {
			So(m.Add([]byte("dog")), ShouldBeNil)
			So(m.Add([]byte("cat")), ShouldBeNil)
			So(m.Add([]byte("emu")), ShouldBeNil)
			So(m.Refs, ShouldResemble, [][]byte{[]byte("cat"), []byte("dog"), []byte("emu")})
			So(m.Validate(), ShouldBeNil)

			Convey("Adding a duplicate fails", func() {
				err := m.Add([]byte("dog"))
				So(errors.ErrDuplicate.Is(err), ShouldBeTrue)
			})

			Convey("Removing a reference splices it out", func() {
				So(m.Remove([]byte("dog")), ShouldBeNil)
				So(m.Refs, ShouldResemble, [][]byte{[]byte("cat"), []byte("emu")})
				err := m.Remove([]byte("dog"))
				So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			})

			Convey("Serialization keeps the order", func() {
				raw, err := m.Marshal()
				So(err, ShouldBeNil)
				var got MultiRef
				So(got.Unmarshal(raw), ShouldBeNil)
				So(got.Refs, ShouldResemble, m.Refs)
			})

			Convey("Copy is independent of the source", func() {
				cpy := m.Copy().(*MultiRef)
				So(cpy.Add([]byte("fox")), ShouldBeNil)
				So(len(m.Refs), ShouldEqual, 3)
				So(len(cpy.Refs), ShouldEqual, 4)
			})
		})
	})
}

func TestNewMultiRefRejectsDuplicates(t *testing.T) {
	_, err := NewMultiRef([]byte("a"), []byte("a"))
	assert.IsErr(t, errors.ErrDuplicate, err)
}
