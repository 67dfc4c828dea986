package library

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/cache"
)

func writeDoc(fs afero.Fs, path, name string) {
	data := []byte("name: " + name + "\ncanvas: {width: 10, height: 10}\nduration: 500ms\nlayers: [{shape: circle, x: 5, y: 5, radius: [{t: 0, v: 1}, {t: 1, v: 4}]}]\n")
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		panic(err)
	}
}

func TestIndex(t *testing.T) {
	Convey("Given a library directory", t, func() {
		fs := afero.NewMemMapFs()
		writeDoc(fs, "/lib/spinner.yaml", "spinner")
		writeDoc(fs, "/lib/loaders/bar.yml", "loading-bar")
		writeDoc(fs, "/lib/.hidden/skip.yaml", "skipped")
		So(afero.WriteFile(fs, "/lib/broken.yaml", []byte("layers: nope"), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/lib/readme.txt", []byte("not a document"), 0o644), ShouldBeNil)

		m, err := cache.New(t.TempDir())
		So(err, ShouldBeNil)
		idx := New(fs, "/lib", m)

		Convey("Reindex should summarize documents and keep failures", func() {
			progress := make(chan Progress, 16)
			So(idx.Reindex(context.Background(), progress), ShouldBeNil)
			So(len(progress), ShouldEqual, 3)

			entries := idx.List()
			So(entries, ShouldHaveLength, 3)
			So(entries[0].Name, ShouldEqual, "broken")
			So(entries[0].Broken(), ShouldBeTrue)
			So(entries[1].Name, ShouldEqual, "loading-bar")
			So(entries[2].Name, ShouldEqual, "spinner")
			So(entries[2].Animated, ShouldEqual, 1)
			So(idx.LastIndexed.IsZero(), ShouldBeFalse)
		})

		Convey("Load should restore a saved index", func() {
			So(idx.Reindex(context.Background(), nil), ShouldBeNil)

			restored := New(fs, "/lib", m)
			So(restored.Load(), ShouldBeNil)
			So(restored.List(), ShouldHaveLength, 3)

			other := New(fs, "/elsewhere", m)
			So(other.Load(), ShouldNotBeNil)
		})

		Convey("Find should match names and relative paths", func() {
			So(idx.Reindex(context.Background(), nil), ShouldBeNil)

			e, err := idx.Find("spinner")
			So(err, ShouldBeNil)
			So(e.Path, ShouldEqual, "/lib/spinner.yaml")

			e, err = idx.Find("loaders/bar")
			So(err, ShouldBeNil)
			So(e.Name, ShouldEqual, "loading-bar")

			_, err = idx.Find("nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Search should fuzzy match names", func() {
			So(idx.Reindex(context.Background(), nil), ShouldBeNil)
			res := idx.Search("spn", 0)
			So(res, ShouldHaveLength, 1)
			So(res[0].Name, ShouldEqual, "spinner")

			So(idx.Search("zzz", 0), ShouldBeEmpty)
		})

		Convey("Reindex should stop on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(errors.Is(idx.Reindex(ctx, nil), context.Canceled), ShouldBeTrue)
		})
	})
}
