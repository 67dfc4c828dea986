package animation

import (
	"fmt"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/ygelfand/animctl/internal/compositor"
)

// ProgressProperty is the scalar on a Visual's property set that selects the
// frame to draw.
const ProgressProperty = "Progress"

// Visual is a loaded document bound to a compositor. Its Progress scalar is
// normally linked to a player's, so drawing always shows the live frame.
type Visual struct {
	doc   *Document
	props *compositor.PropertySet

	mu     sync.Mutex
	closed bool
}

func NewVisual(doc *Document, comp *compositor.Compositor) *Visual {
	props := comp.NewPropertySet()
	props.InsertScalar(ProgressProperty, 0)
	return &Visual{doc: doc, props: props}
}

func (v *Visual) Document() *Document { return v.doc }

func (v *Visual) Duration() time.Duration { return v.doc.Duration }

func (v *Visual) Size() (width, height float64) {
	return v.doc.Canvas.Width, v.doc.Canvas.Height
}

func (v *Visual) IsEmpty() bool { return v.doc.IsEmpty() }

func (v *Visual) Properties() *compositor.PropertySet { return v.props }

func (v *Visual) Progress() float64 {
	return v.props.Scalar(ProgressProperty)
}

// Close releases the visual. A closed visual draws nothing.
func (v *Visual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	v.props.Unlink(ProgressProperty)
	return nil
}

func (v *Visual) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Render draws the current frame scaled uniformly into width x height.
func (v *Visual) Render(width, height int) (image.Image, error) {
	return v.RenderAt(width, height, v.Progress())
}

func (v *Visual) RenderAt(width, height int, progress float64) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	defer dc.Close()
	if err := v.Draw(dc, progress); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG writes the frame at progress as a PNG.
func (v *Visual) EncodePNG(w io.Writer, width, height int, progress float64) error {
	dc := gg.NewContext(width, height)
	defer dc.Close()
	if err := v.Draw(dc, progress); err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Draw paints the frame at progress onto dc, fitted and centred.
func (v *Visual) Draw(dc *gg.Context, progress float64) error {
	if v.isClosed() {
		return nil
	}
	bg := gg.Black
	if v.doc.Background != "" {
		bg = gg.Hex(v.doc.Background)
	}
	dc.ClearWithColor(bg)
	if v.IsEmpty() {
		return nil
	}

	cw, ch := v.Size()
	w, h := float64(dc.Width()), float64(dc.Height())
	scale := math.Min(w/cw, h/ch)

	dc.Push()
	defer dc.Pop()
	dc.Translate((w-cw*scale)/2, (h-ch*scale)/2)
	dc.Scale(scale, scale)

	for i := range v.doc.Layers {
		if err := drawLayer(dc, &v.doc.Layers[i], progress); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, v.doc.Layers[i].Name, err)
		}
	}
	return nil
}

func drawLayer(dc *gg.Context, l *Layer, p float64) error {
	opacity := l.Opacity.At(p, 1)
	if opacity <= 0 {
		return nil
	}

	x, y := l.X.At(p, 0), l.Y.At(p, 0)
	dc.Push()
	defer dc.Pop()

	if rot := l.Rotation.At(p, 0); rot != 0 {
		dc.RotateAbout(rot*math.Pi/180, x, y)
	}
	if s := l.Scale.At(p, 1); s != 1 {
		dc.Translate(x, y)
		dc.Scale(s, s)
		dc.Translate(-x, -y)
	}

	c := gg.White
	if l.Color != "" {
		c = gg.Hex(l.Color)
	}
	dc.SetRGBA(c.R, c.G, c.B, c.A*math.Min(opacity, 1))
	dc.SetLineWidth(l.StrokeWidth.At(p, 1))

	switch l.Shape {
	case ShapeCircle:
		dc.DrawCircle(x, y, l.Radius.At(p, 0))
	case ShapeRect:
		dc.DrawRectangle(x, y, l.Width.At(p, 0), l.Height.At(p, 0))
	case ShapeEllipse:
		dc.DrawEllipse(x, y, l.RX.At(p, 0), l.RY.At(p, 0))
	case ShapeLine:
		dc.DrawLine(x, y, l.X2.At(p, x), l.Y2.At(p, y))
		return dc.Stroke()
	case ShapePolygon:
		for i, pt := range l.Points {
			if i == 0 {
				dc.MoveTo(x+pt.X, y+pt.Y)
				continue
			}
			dc.LineTo(x+pt.X, y+pt.Y)
		}
		dc.ClosePath()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShape, l.Shape)
	}

	if l.Stroke {
		return dc.Stroke()
	}
	return dc.Fill()
}
