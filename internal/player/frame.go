package player

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	gopixels "github.com/saran13raj/go-pixels"
	"github.com/ygelfand/animctl/internal/animation"
)

var ErrNotLoaded = errors.New("no animation loaded")

// FrameCacheTTL bounds how long rendered frames stay on disk.
const FrameCacheTTL = 7 * 24 * time.Hour

func defaultFallback(d animation.Diagnostics) string {
	if d.Err != nil {
		return fmt.Sprintf("failed to load %s: %v", d.Source, d.Err)
	}
	return fmt.Sprintf("failed to load %s", d.Source)
}

// FallbackText returns the text to show while the player is fallen back.
func (p *Player) FallbackText() string {
	if !p.fallenBack || p.fallback == nil {
		return ""
	}
	return p.fallback(p.diagnostics)
}

// FrameSize returns the pixel size of a frame that is width terminal cells
// wide. Half-cell rendering packs two pixel rows into each text row.
func FrameSize(v *animation.Visual, width int) (int, int) {
	cw, ch := v.Size()
	if cw <= 0 || ch <= 0 || width <= 0 {
		return 0, 0
	}
	h := int(math.Round(float64(width) * ch / cw))
	if h%2 == 1 {
		h++
	}
	return width, max(h, 2)
}

// Frame renders the current progress as half-cell terminal text.
func (p *Player) Frame(width int) (string, error) {
	if p.fallenBack {
		return p.FallbackText(), nil
	}
	if p.visual == nil {
		return "", ErrNotLoaded
	}
	return p.FrameAt(width, p.visual.Progress())
}

// FrameAt renders the frame at progress, using the frame cache if set.
func (p *Player) FrameAt(width int, progress float64) (string, error) {
	if p.visual == nil {
		return "", ErrNotLoaded
	}
	w, h := FrameSize(p.visual, width)
	if w == 0 {
		return "", nil
	}

	var key string
	if p.frames != nil {
		bucket := int(math.Round(progress * float64(p.buckets)))
		progress = float64(bucket) / float64(p.buckets)
		key = fmt.Sprintf("rendered_frame/%s/%dx%d/%d", p.visual.Document().Hash, w, h, bucket)

		var cached string
		if err := p.frames.Get(key, &cached); err == nil {
			return cached, nil
		}
	}

	start := time.Now()
	img, err := p.visual.RenderAt(w, h, progress)
	if err != nil {
		return "", fmt.Errorf("failed to render frame: %w", err)
	}
	out, err := gopixels.FromImageStream(img, w, 0, "halfcell", true)
	if err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	slog.Debug("Player: frame rendered", "width", w, "height", h, "progress", progress, "took", time.Since(start))

	if key != "" {
		_ = p.frames.Set(key, out, FrameCacheTTL)
	}
	return out, nil
}
