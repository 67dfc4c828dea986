package compositor

import "sync"

type link struct {
	src  *PropertySet
	name string
}

// PropertySet is a bag of named scalars. A scalar is either a plain value,
// a running animation, or a live link to a scalar of another set.
type PropertySet struct {
	comp *Compositor

	mu         sync.RWMutex
	scalars    map[string]float64
	animations map[string]*AnimationController
	links      map[string]link
}

// Compositor returns the compositor that ticks this set's animations.
func (p *PropertySet) Compositor() *Compositor { return p.comp }

// CreateScopedBatch opens a batch on the owning compositor.
func (p *PropertySet) CreateScopedBatch() *Batch {
	return p.comp.CreateScopedBatch()
}

// InsertScalar writes a plain value, stopping any animation or link on name.
func (p *PropertySet) InsertScalar(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.animations[name]; ok {
		a.markStopped()
		delete(p.animations, name)
	}
	delete(p.links, name)
	p.scalars[name] = value
}

// Scalar reads the current value of name. Unknown names read as zero.
func (p *PropertySet) Scalar(name string) float64 {
	p.mu.RLock()
	if l, ok := p.links[name]; ok {
		p.mu.RUnlock()
		return l.src.Scalar(l.name)
	}
	if a, ok := p.animations[name]; ok {
		v := a.Value()
		p.mu.RUnlock()
		return v
	}
	v := p.scalars[name]
	p.mu.RUnlock()
	return v
}

// StartAnimation replaces whatever drives name with anim, starting now at
// rate 1. Any batch that is open on the compositor picks the animation up.
func (p *PropertySet) StartAnimation(name string, anim *ScalarAnimation) *AnimationController {
	ctrl := newAnimationController(p, name, anim, p.comp.clock)

	p.mu.Lock()
	if prev, ok := p.animations[name]; ok {
		prev.markStopped()
	}
	delete(p.links, name)
	p.animations[name] = ctrl
	p.mu.Unlock()

	p.comp.track(ctrl)
	return ctrl
}

// TryGetAnimationController returns the controller running on name, if any.
func (p *PropertySet) TryGetAnimationController(name string) *AnimationController {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.animations[name]
}

// Link makes name follow src's srcName live, like an expression "_.srcName".
func (p *PropertySet) Link(name string, src *PropertySet, srcName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.animations[name]; ok {
		a.markStopped()
		delete(p.animations, name)
	}
	p.links[name] = link{src: src, name: srcName}
}

// Unlink freezes name at its currently linked value.
func (p *PropertySet) Unlink(name string) {
	p.mu.RLock()
	l, ok := p.links[name]
	p.mu.RUnlock()
	if !ok {
		return
	}
	v := l.src.Scalar(l.name)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.links, name)
	p.scalars[name] = v
}

// stopAnimation bakes ctrl's current value into the set if ctrl still
// drives its property.
func (p *PropertySet) stopAnimation(ctrl *AnimationController) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctrl.markStopped()
	if cur, ok := p.animations[ctrl.property]; ok && cur == ctrl {
		p.scalars[ctrl.property] = ctrl.Value()
		delete(p.animations, ctrl.property)
	}
}
