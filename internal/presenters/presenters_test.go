package presenters

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/library"
)

func TestLibraryListPresenter(t *testing.T) {
	Convey("Given library entries", t, func() {
		p := &LibraryListPresenter{Root: "/lib", Entries: []library.Entry{
			{Summary: animation.Summary{Name: "spinner", Duration: 2 * time.Second, Width: 10, Height: 10, Layers: 3, Animated: 2, Markers: []string{"in", "out"}}},
			{Summary: animation.Summary{Name: "Bar", Duration: time.Second, Layers: 1}},
			{Summary: animation.Summary{Name: "broken"}, Error: "bad yaml"},
		}}

		Convey("Should render one row per entry", func() {
			rows := p.Rows()
			So(rows, ShouldHaveLength, 3)
			So(rows[0], ShouldResemble, []string{"spinner", "0:02.0", "10x10", "2/3", "in,out", "ok"})
			So(rows[2][5], ShouldEqual, "error: bad yaml")
		})

		Convey("Should sort case-insensitively by name", func() {
			So(p.SortBy(p.DefaultSort()), ShouldBeTrue)
			So(p.Entries[0].Name, ShouldEqual, "Bar")
			So(p.Entries[2].Name, ShouldEqual, "spinner")
		})

		Convey("Should sort by duration and reject unknown columns", func() {
			So(p.SortBy("duration"), ShouldBeTrue)
			So(p.Entries[0].Name, ShouldEqual, "broken")
			So(p.SortBy("color"), ShouldBeFalse)
		})
	})
}

func TestDocumentPresenter(t *testing.T) {
	Convey("Given a document", t, func() {
		doc, err := animation.Parse([]byte(`
name: blink
canvas: {width: 8, height: 4}
duration: 1s
markers: {on: {from: 0, to: 0.5}}
layers:
  - {shape: rect, color: "#fff", width: 8, height: 4, opacity: [{t: 0, v: 0}, {t: 1, v: 1}]}
  - {name: dot, shape: circle, radius: 1}
`))
		So(err, ShouldBeNil)
		p := NewDocumentPresenter(doc)

		Convey("Should list layers with their animated tracks", func() {
			So(p.Title(), ShouldEqual, "blink (1s, 8x4)")
			So(p.Rows(), ShouldResemble, [][]string{
				{"#0", "rect", "#fff", "opacity"},
				{"dot", "circle", "", ""},
			})
		})

		Convey("Should list markers", func() {
			m := &MarkerPresenter{Doc: doc}
			So(m.Rows(), ShouldResemble, [][]string{{"on", "0.000", "0.500"}})
		})
	})
}

func TestStatusPresenter(t *testing.T) {
	Convey("PlaybackStatus", t, func() {
		s := PlaybackStatus{Source: "file:a.yaml", Loaded: true, Playing: true, Progress: 0.25, Duration: 4 * time.Second, Rate: 1, Looping: true}

		Convey("Should derive the state", func() {
			So(s.State(), ShouldEqual, "playing")
			s.Paused = true
			So(s.State(), ShouldEqual, "paused")
			s.FallenBack = true
			So(s.State(), ShouldEqual, "failed")
			So(PlaybackStatus{}.State(), ShouldEqual, "unloaded")
			So(PlaybackStatus{Loaded: true}.State(), ShouldEqual, "stopped")
		})

		Convey("Should format the position", func() {
			rows := StatusPresenter{Status: s}.Rows()
			So(rows[0], ShouldResemble, []string{"file:a.yaml", "playing", "0:01.0 (25%)", "0:04.0", "1x", "true"})
		})
	})
}
