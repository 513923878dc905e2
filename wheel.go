package rolloc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Wheel is the controller of one wheel: it owns the resolved config, the
// layout and the cumulative rotation, mounts the layout on a Surface and runs
// spins.
//
// All methods are safe for concurrent use. The cumulative rotation only grows;
// it is never reset or wrapped.
type Wheel struct {
	name    string
	cfg     Config
	layout  *Layout
	rng     RNG
	clock   clock.Clock
	log     *slog.Logger
	events  EventStore
	overlap bool

	mu       sync.Mutex
	surface  Surface
	rotation float64
	inFlight int
	seq      uint64
}

// Option configures a Wheel.
type Option func(*Wheel)

// WithRNG sets the random source for durations and spin distances. A nil
// rng keeps the default.
func WithRNG(rng RNG) Option {
	return func(w *Wheel) {
		if rng != nil {
			w.rng = rng
		}
	}
}

// WithClock sets the clock spin completions are scheduled on. A nil clock
// keeps the wall clock.
func WithClock(c clock.Clock) Option {
	return func(w *Wheel) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithLogger sets the logger. The default, also used for nil, is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Wheel) {
		if l != nil {
			w.log = l
		}
	}
}

// WithEventStore sets a receiver for spin events.
func WithEventStore(s EventStore) Option {
	return func(w *Wheel) { w.events = s }
}

// WithName names the wheel in logs and events.
func WithName(name string) Option {
	return func(w *Wheel) { w.name = name }
}

// WithOverlappingSpins lets Spin start while earlier spins are still running.
// Each new spin advances the cumulative rotation and re-targets the animation;
// each completion resolves against the rotation current when it fires, so the
// last spin to land decides what every landing reports.
func WithOverlappingSpins() Option {
	return func(w *Wheel) { w.overlap = true }
}

// New resolves opts, builds the layout and returns an unmounted wheel.
func New(opts Options, o ...Option) (*Wheel, error) {
	cfg, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	layout, err := BuildLayout(cfg)
	if err != nil {
		return nil, err
	}

	w := &Wheel{
		cfg:    layout.Config,
		layout: layout,
		rng:    stdRNG{},
		clock:  clock.New(),
		log:    slog.Default(),
	}
	for _, fn := range o {
		fn(w)
	}
	w.log = w.log.With("component", "rolloc", "wheel", w.name)
	return w, nil
}

// Create is New followed by Mount(target).
func Create(target Surface, opts Options, o ...Option) (*Wheel, error) {
	w, err := New(opts, o...)
	if err != nil {
		return nil, err
	}
	if err := w.Mount(target); err != nil {
		return nil, err
	}
	return w, nil
}

// Mount attaches the wheel's scene to target. A wheel mounts once.
func (w *Wheel) Mount(target Surface) error {
	if target == nil {
		return fmt.Errorf("mount: %w", ErrTargetNotFound)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.surface != nil {
		return ErrAlreadyMounted
	}
	if err := target.Attach(w.layout.Root); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	w.surface = target
	w.log.Debug("mounted", "items", len(w.cfg.Items), "radius", w.layout.Radius)
	return nil
}

// MountNamed looks name up in host and mounts the surface found there.
func (w *Wheel) MountNamed(host Host, name string) error {
	if host == nil {
		return fmt.Errorf("mount %q: %w", name, ErrTargetNotFound)
	}
	s, ok := host.Lookup(name)
	if !ok {
		return fmt.Errorf("mount %q: %w", name, ErrTargetNotFound)
	}
	return w.Mount(s)
}

// Spin starts a spin and returns immediately. The duration comes from opts or
// the roll defaults; the wheel turns duration_ms * uniform[1, 3) degrees
// further, the surface is asked to animate there, and the spin lands after
// the duration elapses on the wheel's clock.
//
// ctx is checked once before anything changes; a started spin cannot be
// cancelled. Use Spin.Wait to wait for the result.
func (w *Wheel) Spin(ctx context.Context, opts SpinOptions) (*Spin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dur := w.cfg.Roll.Duration
	if opts.Duration != nil {
		dur = *opts.Duration
	}

	w.mu.Lock()
	if w.surface == nil {
		w.mu.Unlock()
		return nil, ErrNotMounted
	}
	if !w.overlap && w.inFlight > 0 {
		w.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	ms, err := dur.Milliseconds(w.rng)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}

	d := time.Duration(ms) * time.Millisecond
	delta := float64(ms) * (1 + 2*w.rng.Float64())
	w.rotation += delta
	w.inFlight++
	w.seq++
	s := newSpin(w.seq, d, delta, w.rotation)

	// The surface is called under the lock so overlapping spins reach it in
	// rotation order. Surfaces must not call back into the wheel.
	w.surface.Animate(w.rotatingNode(), w.rotation, d)
	w.clock.AfterFunc(d, func() { w.land(s) })
	w.mu.Unlock()

	w.log.Debug("spin started", "seq", s.Seq, "duration_ms", ms, "delta", delta, "rotation", s.Rotation)
	w.emit(SpinEvent{
		Type:     SpinStarted,
		Seq:      s.Seq,
		Duration: d,
		Delta:    delta,
		Rotation: s.Rotation,
		Index:    -1,
	})
	return s, nil
}

func (w *Wheel) rotatingNode() *Node {
	if w.cfg.Roll.Target == RotateWheel {
		return w.layout.Wheel
	}
	return w.layout.Anchor
}

// land resolves s against the rotation current at this moment. Events are
// emitted before s completes so waiters observe them.
func (w *Wheel) land(s *Spin) {
	w.mu.Lock()
	rotation := w.rotation
	w.inFlight--
	w.mu.Unlock()

	effective := EffectiveAngle(w.cfg.Roll.Target, rotation, w.cfg.Anchor.PositionAngle)
	idx := ResolveIndex(effective, w.cfg.Items)
	if idx < 0 {
		w.log.Error("spin landed outside every slice",
			"seq", s.Seq, "rotation", rotation, "effective", effective)
		w.emit(SpinEvent{
			Type:      SpinMissed,
			Seq:       s.Seq,
			Duration:  s.Duration,
			Delta:     s.Delta,
			Rotation:  rotation,
			Effective: effective,
			Index:     -1,
		})
		s.finish(nil, -1, effective)
		return
	}

	item := w.cfg.Items[idx]
	w.log.Debug("spin landed", "seq", s.Seq, "index", idx, "value", item.Value, "effective", effective)
	w.emit(SpinEvent{
		Type:      SpinLanded,
		Seq:       s.Seq,
		Duration:  s.Duration,
		Delta:     s.Delta,
		Rotation:  rotation,
		Effective: effective,
		Index:     idx,
		Item:      &item,
	})
	s.finish(&item, idx, effective)
}

func (w *Wheel) emit(e SpinEvent) {
	if w.events == nil {
		return
	}
	e.Wheel = w.name
	e.At = w.clock.Now()
	w.events.EmitEvent(e)
}

// Rotation returns the cumulative rotation in degrees, including spins that
// have not landed yet.
func (w *Wheel) Rotation() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotation
}

// Spinning reports whether any spin is still running.
func (w *Wheel) Spinning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight > 0
}

// Mounted reports whether the wheel has a surface.
func (w *Wheel) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.surface != nil
}

// Items returns a copy of the items with their slice angles.
func (w *Wheel) Items() []Item {
	return append([]Item(nil), w.cfg.Items...)
}

// Config returns the resolved configuration.
func (w *Wheel) Config() Config {
	c := w.cfg
	c.Items = w.Items()
	return c
}

// Layout returns the wheel's layout. The scene graph belongs to the mounted
// surface; read it only from that surface's goroutine.
func (w *Wheel) Layout() *Layout {
	return w.layout
}

// Name returns the name set with WithName.
func (w *Wheel) Name() string {
	return w.name
}
