// Package server exposes catalog wheels over HTTP with echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phanxgames/rolloc"
	"github.com/phanxgames/rolloc/internal/catalog"
)

// ErrNoResult is returned when a spin landed outside every slice.
var ErrNoResult = errors.New("spin landed outside every slice")

type wheelEntry struct {
	def   catalog.Definition
	wheel *rolloc.Wheel
	svg   *rolloc.SVGSurface
}

// Service owns one mounted wheel per catalog definition. Each wheel renders
// into its own SVG surface.
type Service struct {
	entries map[string]*wheelEntry
	order   []string
	limits  Limits
	log     *slog.Logger
}

// Limits bounds spin requests. Zero values disable a bound.
type Limits struct {
	// SpinTimeout bounds how long SpinAndWait waits for a landing.
	SpinTimeout time.Duration
	// MaxSpinDuration rejects spins whose duration could exceed it.
	MaxSpinDuration time.Duration
}

// SpinResult is the outcome of a completed spin.
type SpinResult struct {
	Spin  *rolloc.Spin
	Item  rolloc.Item
	Index int
}

// NewService creates and mounts every wheel in cat. opts are applied to each
// wheel after the per-wheel name and logger.
func NewService(cat *catalog.Catalog, logger *slog.Logger, limits Limits, opts ...rolloc.Option) (*Service, error) {
	s := &Service{
		entries: make(map[string]*wheelEntry),
		limits:  limits,
		log:     logger,
	}
	for _, def := range cat.Definitions() {
		cfg, err := def.Options.Resolve()
		if err != nil {
			return nil, fmt.Errorf("wheel %q: %w", def.ID, err)
		}
		svg := rolloc.NewSVGSurface(cfg.Size, cfg.Size)
		wopts := append([]rolloc.Option{rolloc.WithName(def.ID), rolloc.WithLogger(logger)}, opts...)
		w, err := rolloc.Create(svg, def.Options, wopts...)
		if err != nil {
			return nil, fmt.Errorf("wheel %q: %w", def.ID, err)
		}
		s.entries[def.ID] = &wheelEntry{def: def, wheel: w, svg: svg}
		s.order = append(s.order, def.ID)
	}
	return s, nil
}

func (s *Service) entry(id string) (*wheelEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrNotFound, id)
	}
	return e, nil
}

// Wheel returns the wheel with the given id.
func (s *Service) Wheel(id string) (*rolloc.Wheel, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.wheel, nil
}

// Definition returns the catalog definition of wheel id.
func (s *Service) Definition(id string) (catalog.Definition, error) {
	e, err := s.entry(id)
	if err != nil {
		return catalog.Definition{}, err
	}
	return e.def, nil
}

// Definitions returns the served definitions in catalog order.
func (s *Service) Definitions() []catalog.Definition {
	defs := make([]catalog.Definition, len(s.order))
	for i, id := range s.order {
		defs[i] = s.entries[id].def
	}
	return defs
}

// SVG renders the wheel's current SVG document.
func (s *Service) SVG(id string) (string, error) {
	e, err := s.entry(id)
	if err != nil {
		return "", err
	}
	return e.svg.String(), nil
}

// SpinAndWait starts a spin on wheel id and waits for it to land.
func (s *Service) SpinAndWait(ctx context.Context, id string, opts rolloc.SpinOptions) (SpinResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return SpinResult{}, err
	}
	if err := s.checkDuration(e.wheel, opts); err != nil {
		return SpinResult{}, err
	}
	spin, err := e.wheel.Spin(ctx, opts)
	if err != nil {
		return SpinResult{}, err
	}

	if s.limits.SpinTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.limits.SpinTimeout)
		defer cancel()
	}
	item, err := spin.Wait(ctx)
	if err != nil {
		return SpinResult{Spin: spin}, fmt.Errorf("wait for spin %d: %w", spin.Seq, err)
	}
	if item == nil {
		return SpinResult{Spin: spin}, ErrNoResult
	}
	return SpinResult{Spin: spin, Item: *item, Index: spin.Index()}, nil
}

// checkDuration rejects a spin whose requested or default duration could run
// past MaxSpinDuration. Started spins cannot be cancelled, so a long one would
// hold the wheel.
func (s *Service) checkDuration(w *rolloc.Wheel, opts rolloc.SpinOptions) error {
	limit := s.limits.MaxSpinDuration
	if limit <= 0 {
		return nil
	}
	d := w.Config().Roll.Duration
	if opts.Duration != nil {
		d = *opts.Duration
	}
	if ms := d.Longest(); ms > float64(limit.Milliseconds()) {
		return fmt.Errorf("%w: duration %v ms exceeds the %s limit", rolloc.ErrConfiguration, ms, limit)
	}
	return nil
}
