package playback

import (
	"time"

	"github.com/ygelfand/animctl/internal/compositor"
)

// ProgressProperty is the name of the scalar a Controller drives.
const ProgressProperty = "Progress"

// DefaultMinPlayDuration is the shortest play worth animating. Anything
// shorter jumps straight to its start position and completes.
const DefaultMinPlayDuration = 20 * time.Millisecond

// Surface is the slice of the rendering backend a Controller needs.
// *compositor.PropertySet implements it.
type Surface interface {
	InsertScalar(name string, value float64)
	Scalar(name string) float64
	StartAnimation(name string, anim *compositor.ScalarAnimation) *compositor.AnimationController
	CreateScopedBatch() *compositor.Batch
}

var _ Surface = (*compositor.PropertySet)(nil)
