package animation

import (
	"fmt"

	"github.com/ygelfand/animctl/internal/compositor"
	"gopkg.in/yaml.v3"
)

// Key is one keyframe of a Track as written in a document.
type Key struct {
	T      float64 `yaml:"t"`
	V      float64 `yaml:"v"`
	Easing string  `yaml:"easing,omitempty"`
}

// Track is a keyframed layer property. In YAML it is either a plain number
// or a list of keys:
//
//	radius: 12
//	x: [{t: 0, v: 10}, {t: 1, v: 90, easing: step}]
type Track struct {
	Keys []Key

	anim *compositor.ScalarAnimation
}

func Constant(v float64) Track {
	t := Track{Keys: []Key{{T: 0, V: v}}}
	t.anim = t.build()
	return t
}

func (t *Track) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		t.Keys = []Key{{T: 0, V: v}}
	case yaml.SequenceNode:
		if err := node.Decode(&t.Keys); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		for _, k := range t.Keys {
			if k.T < 0 || k.T > 1 {
				return fmt.Errorf("line %d: %w: t=%v", node.Line, ErrBadKeyframe, k.T)
			}
			if _, err := parseEasing(k.Easing); err != nil {
				return fmt.Errorf("line %d: %w", node.Line, err)
			}
		}
	default:
		return fmt.Errorf("line %d: %w: expected number or list", node.Line, ErrBadKeyframe)
	}
	t.anim = t.build()
	return nil
}

func (t Track) MarshalYAML() (any, error) {
	if len(t.Keys) == 1 && t.Keys[0].T == 0 {
		return t.Keys[0].V, nil
	}
	return t.Keys, nil
}

func (t Track) IsSet() bool { return len(t.Keys) > 0 }

// Animated reports whether the track changes over time.
func (t Track) Animated() bool {
	for _, k := range t.Keys {
		if k.V != t.Keys[0].V {
			return true
		}
	}
	return false
}

// At evaluates the track at progress, or returns def for an unset track.
func (t Track) At(progress, def float64) float64 {
	if !t.IsSet() {
		return def
	}
	if t.anim == nil {
		t.anim = t.build()
	}
	return t.anim.ValueAt(progress)
}

func (t Track) build() *compositor.ScalarAnimation {
	anim := compositor.NewScalarAnimation(0)
	for _, k := range t.Keys {
		e, _ := parseEasing(k.Easing)
		anim.InsertKeyframe(k.T, k.V, e)
	}
	return anim
}

func parseEasing(s string) (compositor.Easing, error) {
	switch s {
	case "", "linear":
		return compositor.EasingLinear, nil
	case "step", "hold":
		return compositor.EasingStep, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEasing, s)
}
