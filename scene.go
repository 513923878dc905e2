package rolloc

import (
	"fmt"
	"sync"
	"time"
)

// Scene is a retained, in-memory Surface. It owns a node tree and the rotation
// tweens running on it; a frame loop (screen.Run, term.View, or a test) calls
// Update with the elapsed time and then draws by walking the tree.
//
// Animate may be called from any goroutine. Update, Walk and drawing are
// expected to run on the frame-loop goroutine.
type Scene struct {
	root *Node

	// ClearColor is the background surfaces fill before drawing.
	ClearColor Color

	mu     sync.Mutex
	tweens []*RotationTween
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:       NewContainer("root"),
		ClearColor: ColorWhite,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Attach adds a wheel's root node to the scene.
func (s *Scene) Attach(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil scene root", ErrTargetNotFound)
	}
	if root.IsDisposed() {
		return fmt.Errorf("attach %q: node is disposed", root.Name)
	}
	s.root.AddChild(root)
	return nil
}

// Animate starts a rotation tween of target toward toDegrees over d with
// SpinEase. A tween already running on the same node is superseded; the new
// one starts from wherever the node is when the next Update runs.
func (s *Scene) Animate(target *Node, toDegrees float64, d time.Duration) {
	if target == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tweens = append(s.tweens, pendingRotation(target, toDegrees*degToRad, float32(d.Seconds())))
}

// Update advances all running tweens by dt seconds and refreshes world
// transforms.
func (s *Scene) Update(dt float32) {
	s.mu.Lock()
	for i, tw := range s.tweens {
		if tw.pending {
			// the latest request on a node supersedes everything before it
			for _, earlier := range s.tweens[:i] {
				if earlier.target == tw.target {
					earlier.Done = true
				}
			}
		}
	}
	live := s.tweens[:0]
	for _, tw := range s.tweens {
		if tw.Done {
			continue
		}
		if tw.pending {
			tw.start(SpinEase)
		}
		tw.Update(dt)
		if !tw.Done {
			live = append(live, tw)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
	s.mu.Unlock()

	updateWorldTransform(s.root, identityTransform, false)
}

// Animating reports whether any tween is still running.
func (s *Scene) Animating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tweens) > 0
}

// Walk visits visible nodes depth-first in draw order (parents before
// children, siblings in insertion order). Invisible nodes and their subtrees
// are skipped. World transforms are those of the last Update.
func (s *Scene) Walk(fn func(n *Node)) {
	walkVisible(s.root, fn)
}

func walkVisible(n *Node, fn func(n *Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		walkVisible(c, fn)
	}
}
