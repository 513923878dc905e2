package rolloc

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RNG is the random source a wheel draws spin durations and spin distances
// from. Implementations must be safe for concurrent use.
type RNG interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// stdRNG is the default RNG backed by math/rand/v2's global source.
type stdRNG struct{}

func (stdRNG) Float64() float64 { return rand.Float64() }
func (stdRNG) IntN(n int) int   { return rand.IntN(n) }

// SpinOptions are per-spin overrides of the wheel's roll options. A nil field
// keeps the wheel default.
type SpinOptions struct {
	Duration *Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Spin is a spin in flight. It completes once its duration has elapsed on the
// wheel's clock; there is no way to stop it early.
type Spin struct {
	// Seq numbers spins of one wheel from 1.
	Seq uint64
	// Duration is the resolved spin duration.
	Duration time.Duration
	// Delta is the rotation this spin added, in degrees.
	Delta float64
	// Rotation is the wheel's cumulative rotation right after this spin was
	// started, the absolute angle the surface animates to.
	Rotation float64

	done      chan struct{}
	item      *Item
	index     int
	effective float64
}

func newSpin(seq uint64, d time.Duration, delta, rotation float64) *Spin {
	return &Spin{
		Seq:      seq,
		Duration: d,
		Delta:    delta,
		Rotation: rotation,
		done:     make(chan struct{}),
		index:    -1,
	}
}

func (s *Spin) finish(item *Item, index int, effective float64) {
	s.item = item
	s.index = index
	s.effective = effective
	close(s.done)
}

// Done returns a channel closed when the spin has landed.
func (s *Spin) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the spin lands or ctx is done. Cancelling ctx abandons the
// wait only; the spin still completes and updates the wheel. A nil item with a
// nil error means the landing angle matched no slice.
func (s *Spin) Wait(ctx context.Context) (*Item, error) {
	select {
	case <-s.done:
		return s.item, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the landed item, or nil while the spin is still running or
// when no slice matched.
func (s *Spin) Result() *Item {
	select {
	case <-s.done:
		return s.item
	default:
		return nil
	}
}

// Index returns the landed item's index, or -1 while running or on a miss.
func (s *Spin) Index() int {
	select {
	case <-s.done:
		return s.index
	default:
		return -1
	}
}

// EffectiveAngle returns the wheel angle the anchor pointed at when the spin
// was resolved, or NaN while the spin is running.
func (s *Spin) EffectiveAngle() float64 {
	select {
	case <-s.done:
		return s.effective
	default:
		return math.NaN()
	}
}
