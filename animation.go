package rolloc

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SpinEase is the easing curve surfaces use for spin animations: a quartic
// ease-out, fast start and long deceleration.
var SpinEase ease.TweenFunc = ease.OutQuart

// SpinEaseCSS is SpinEase as a CSS timing function, for SVG output.
const SpinEaseCSS = "cubic-bezier(0.25, 1, 0.5, 1)"

// RotationTween animates node.Rotation toward a target. Call Update(dt) each
// frame; the tween writes the value to the node and marks it dirty. If the
// target node is disposed, the tween stops immediately.
//
// Spins accumulate, so the start rotation may already be many turns in. The
// gween tween runs over the delta only and the final step writes the exact
// target, so float32 drift never carries over from one spin to the next.
type RotationTween struct {
	tween  *gween.Tween
	base   float64
	to     float64
	target *Node
	Done   bool

	// pending tweens have not read the node's rotation yet; see
	// pendingRotation.
	pending  bool
	duration float32
}

// TweenRotation creates a RotationTween that animates node.Rotation (radians)
// to the target value over duration seconds using the easing function.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *RotationTween {
	return &RotationTween{
		tween:  gween.New(0, float32(to-node.Rotation), duration, fn),
		base:   node.Rotation,
		to:     to,
		target: node,
	}
}

// pendingRotation returns a tween whose start rotation is read by start, not
// now. Scene.Animate uses it so the read happens on the frame-loop goroutine,
// which owns node fields.
func pendingRotation(node *Node, to float64, duration float32) *RotationTween {
	return &RotationTween{target: node, to: to, pending: true, duration: duration}
}

func (t *RotationTween) start(fn ease.TweenFunc) {
	t.base = t.target.Rotation
	t.tween = gween.New(0, float32(t.to-t.base), t.duration, fn)
	t.pending = false
}

// Update advances the tween by dt seconds and writes the rotation. If the
// target node has been disposed, Done is set to true and no write occurs.
func (t *RotationTween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.target.IsDisposed() {
		t.Done = true
		return
	}

	val, finished := t.tween.Update(dt)
	if finished {
		t.target.Rotation = t.to
		t.Done = true
	} else {
		t.target.Rotation = t.base + float64(val)
	}
	t.target.MarkDirty()
}

// Finish jumps to the target rotation and marks the tween done.
func (t *RotationTween) Finish() {
	if !t.target.IsDisposed() {
		t.target.Rotation = t.to
		t.target.MarkDirty()
	}
	t.Done = true
}

// Target returns the node the tween animates.
func (t *RotationTween) Target() *Node {
	return t.target
}
