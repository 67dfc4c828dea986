package cache

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type frameParams struct {
	Hash  string
	Width int
}

func TestManager(t *testing.T) {
	Convey("Given a cache manager", t, func() {
		m, err := New(t.TempDir())
		So(err, ShouldBeNil)

		Convey("Should round trip JSON values", func() {
			type entry struct{ Name string }
			So(m.Set("k", entry{Name: "orbit"}, time.Hour), ShouldBeNil)

			var got entry
			So(m.Get("k", &got), ShouldBeNil)
			So(got.Name, ShouldEqual, "orbit")
		})

		Convey("Should round trip raw bytes", func() {
			So(m.Set("frame", []byte("▀▄ \x1b[0m"), 0), ShouldBeNil)

			var got []byte
			So(m.Get("frame", &got), ShouldBeNil)
			So(string(got), ShouldEqual, "▀▄ \x1b[0m")
		})

		Convey("Should report expired entries", func() {
			So(m.Set("old", 1, time.Nanosecond), ShouldBeNil)
			time.Sleep(1100 * time.Millisecond)
			var v int
			So(errors.Is(m.Get("old", &v), ErrExpired), ShouldBeTrue)
		})

		Convey("Should miss everything when disabled", func() {
			So(m.Set("k", 1, 0), ShouldBeNil)
			m.SetDisabled(true)
			var v int
			So(errors.Is(m.Get("k", &v), ErrDisabled), ShouldBeTrue)
		})

		Convey("GenerateKey should depend on parameters", func() {
			a := m.GenerateKey("frames", frameParams{Hash: "x", Width: 10})
			b := m.GenerateKey("frames", frameParams{Hash: "x", Width: 20})
			So(a, ShouldNotEqual, b)
			So(a, ShouldEqual, m.GenerateKey("frames", &frameParams{Hash: "x", Width: 10}))
		})

		Convey("WithCache should only fetch on a miss", func() {
			calls := 0
			fetch := func() (*int, error) {
				calls++
				v := 42
				return &v, nil
			}
			var v int
			So(WithCache(m, "answer", time.Hour, &v, fetch), ShouldBeNil)
			So(WithCache(m, "answer", time.Hour, &v, fetch), ShouldBeNil)
			So(v, ShouldEqual, 42)
			So(calls, ShouldEqual, 1)
		})

		Convey("Purge should remove everything", func() {
			So(m.Set("a", 1, 0), ShouldBeNil)
			So(m.Set("b", 2, 0), ShouldBeNil)
			So(m.Count(), ShouldEqual, 2)

			n, err := m.Purge()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(m.Count(), ShouldEqual, 0)
		})
	})
}
