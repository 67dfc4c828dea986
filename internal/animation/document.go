// Package animation loads and renders the vector documents animctl plays.
//
// A document is a YAML file describing a canvas, a duration and a stack of
// layers whose properties are keyframed over normalized progress [0,1].
package animation

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoLayers      = errors.New("document has no layers")
	ErrBadDuration   = errors.New("duration must be positive")
	ErrBadCanvas     = errors.New("canvas size must not be negative")
	ErrUnknownShape  = errors.New("unknown shape")
	ErrUnknownEasing = errors.New("unknown easing")
	ErrBadKeyframe   = errors.New("bad keyframe")
	ErrBadMarker     = errors.New("bad marker")
	ErrNoSuchMarker  = errors.New("no such marker")
)

type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeRect    Shape = "rect"
	ShapeEllipse Shape = "ellipse"
	ShapeLine    Shape = "line"
	ShapePolygon Shape = "polygon"
)

var Shapes = []Shape{ShapeCircle, ShapeRect, ShapeEllipse, ShapeLine, ShapePolygon}

type Canvas struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Segment is a named progress range, like [0.2, 0.45].
type Segment struct {
	From float64 `json:"from" yaml:"from"`
	To   float64 `json:"to" yaml:"to"`
}

type Layer struct {
	Name   string `yaml:"name"`
	Shape  Shape  `yaml:"shape"`
	Color  string `yaml:"color"`
	Stroke bool   `yaml:"stroke,omitempty"`

	X           Track `yaml:"x"`
	Y           Track `yaml:"y"`
	X2          Track `yaml:"x2,omitempty"`
	Y2          Track `yaml:"y2,omitempty"`
	Radius      Track `yaml:"radius,omitempty"`
	Width       Track `yaml:"width,omitempty"`
	Height      Track `yaml:"height,omitempty"`
	RX          Track `yaml:"rx,omitempty"`
	RY          Track `yaml:"ry,omitempty"`
	Rotation    Track `yaml:"rotation,omitempty"`
	Scale       Track `yaml:"scale,omitempty"`
	Opacity     Track `yaml:"opacity,omitempty"`
	StrokeWidth Track `yaml:"stroke_width,omitempty"`

	Points []Point `yaml:"points,omitempty"`
}

type Document struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Canvas      Canvas             `yaml:"canvas"`
	Duration    time.Duration      `yaml:"duration"`
	Background  string             `yaml:"background,omitempty"`
	Markers     map[string]Segment `yaml:"markers,omitempty"`
	Layers      []Layer            `yaml:"layers"`

	// Path and Hash are filled in by Load.
	Path string `yaml:"-"`
	Hash string `yaml:"-"`
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	sum := md5.Sum(data)
	doc.Hash = hex.EncodeToString(sum[:])
	return &doc, nil
}

// Load reads and parses the document at path on fs.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

func (d *Document) Validate() error {
	if d.Duration <= 0 {
		return ErrBadDuration
	}
	if d.Canvas.Width < 0 || d.Canvas.Height < 0 {
		return ErrBadCanvas
	}
	if len(d.Layers) == 0 {
		return ErrNoLayers
	}
	for i, l := range d.Layers {
		switch l.Shape {
		case ShapeCircle, ShapeRect, ShapeEllipse, ShapeLine:
		case ShapePolygon:
			if len(l.Points) < 3 {
				return fmt.Errorf("layer %d (%s): polygon needs at least 3 points", i, l.Name)
			}
		default:
			return fmt.Errorf("layer %d (%s): %w: %q", i, l.Name, ErrUnknownShape, l.Shape)
		}
	}
	for name, m := range d.Markers {
		if m.From < 0 || m.From > 1 || m.To < 0 || m.To > 1 {
			return fmt.Errorf("%w: %s", ErrBadMarker, name)
		}
	}
	return nil
}

// Marker looks up a named segment.
func (d *Document) Marker(name string) (Segment, error) {
	m, ok := d.Markers[name]
	if !ok {
		return Segment{}, fmt.Errorf("%w: %s", ErrNoSuchMarker, name)
	}
	return m, nil
}

// MarkerNames returns marker names ordered by start.
func (d *Document) MarkerNames() []string {
	names := make([]string, 0, len(d.Markers))
	for n := range d.Markers {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := d.Markers[names[i]], d.Markers[names[j]]
		if a.From != b.From {
			return a.From < b.From
		}
		return names[i] < names[j]
	})
	return names
}

// IsEmpty reports whether the document has nothing to show.
func (d *Document) IsEmpty() bool {
	return d.Canvas.Width == 0 || d.Canvas.Height == 0
}

// Summary is the flat view of a document used by listings and the cache.
type Summary struct {
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Hash     string        `json:"hash" yaml:"hash"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Width    float64       `json:"width" yaml:"width"`
	Height   float64       `json:"height" yaml:"height"`
	Layers   int           `json:"layers" yaml:"layers"`
	Animated int           `json:"animated" yaml:"animated"`
	Markers  []string      `json:"markers,omitempty" yaml:"markers,omitempty"`
}

func (d *Document) Summary() Summary {
	animated := 0
	for _, l := range d.Layers {
		if l.animated() {
			animated++
		}
	}
	return Summary{
		Name:     d.Name,
		Path:     d.Path,
		Hash:     d.Hash,
		Duration: d.Duration,
		Width:    d.Canvas.Width,
		Height:   d.Canvas.Height,
		Layers:   len(d.Layers),
		Animated: animated,
		Markers:  d.MarkerNames(),
	}
}

func (l Layer) animated() bool {
	return len(l.AnimatedTracks()) > 0
}

// AnimatedTracks names the properties of l that change over the timeline.
func (l Layer) AnimatedTracks() []string {
	tracks := []struct {
		name string
		t    Track
	}{
		{"x", l.X}, {"y", l.Y}, {"x2", l.X2}, {"y2", l.Y2},
		{"radius", l.Radius}, {"width", l.Width}, {"height", l.Height},
		{"rx", l.RX}, {"ry", l.RY}, {"rotation", l.Rotation},
		{"scale", l.Scale}, {"opacity", l.Opacity}, {"stroke_width", l.StrokeWidth},
	}
	var out []string
	for _, tr := range tracks {
		if tr.t.Animated() {
			out = append(out, tr.name)
		}
	}
	return out
}
