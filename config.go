package rolloc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to every option the caller leaves unset.
const (
	DefaultSize            = 500
	DefaultPadding         = 0
	DefaultAnchorAngle     = 100
	DefaultAnchorLength    = 70
	DefaultTriangleWidth   = 16
	DefaultSpinDurationMs  = 5000
	defaultHubRadiusFactor = 1.0 / 12
	labelRadiusFactor      = 2.0 / 3
)

// Item is one entry of the wheel. Order is significant: item i gets slice i.
// StartAngle and EndAngle are written by the Layout Builder; values supplied
// by the caller are overwritten.
type Item struct {
	Value string `yaml:"value" json:"value"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
	// Image is an image reference (URL or path) used as the slice's pattern
	// fill by surfaces that support images.
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
	// Color overrides the palette fill, as "#rrggbb".
	Color string `yaml:"color,omitempty" json:"color,omitempty"`

	StartAngle float64 `yaml:"startAngle,omitempty" json:"startAngle"`
	EndAngle   float64 `yaml:"endAngle,omitempty" json:"endAngle"`
}

// Label returns the text drawn on the slice: Text, or Value when Text is empty.
func (it Item) Label() string {
	if it.Text != "" {
		return it.Text
	}
	return it.Value
}

// --- Anchor ---

// AnchorShape is the visual form of the anchor marker: LineAnchor or
// TriangleAnchor.
type AnchorShape interface {
	anchorShape()
}

// LineAnchor draws the anchor as a segment from GapFromCenter to the anchor
// length along the anchor angle.
type LineAnchor struct {
	GapFromCenter float64
}

// TriangleAnchor draws the anchor as a triangle whose apex sits at the anchor
// length and whose base is Width wide.
type TriangleAnchor struct {
	Width float64
}

func (LineAnchor) anchorShape()     {}
func (TriangleAnchor) anchorShape() {}

// Anchor is the resolved anchor configuration.
type Anchor struct {
	// PositionAngle is the anchor placement in degrees, normalized into
	// [0, 360). It is also the reference angle for result resolution.
	PositionAngle float64
	Length        float64
	Shape         AnchorShape
}

// --- Roll ---

// RollTarget selects what turns when the wheel spins.
type RollTarget uint8

const (
	// RotateAnchor turns the anchor marker around the fixed wheel.
	RotateAnchor RollTarget = iota
	// RotateWheel turns the wheel under a fixed anchor.
	RotateWheel
)

// Roll holds the resolved default spin options.
type Roll struct {
	Duration Duration
	Target   RollTarget
}

// --- Duration ---

// Duration is a spin duration in milliseconds: either a fixed value or a
// {min, max} range sampled per spin.
type Duration struct {
	Ms       float64
	Min, Max float64
	Ranged   bool
}

// FixedDuration returns a constant duration of ms milliseconds.
func FixedDuration(ms float64) Duration {
	return Duration{Ms: ms}
}

// DurationRange returns a duration drawn uniformly from [min, max] ms.
func DurationRange(min, max float64) Duration {
	return Duration{Min: min, Max: max, Ranged: true}
}

// MaxDurationMs is the longest duration, in milliseconds, that still fits a
// time.Duration.
const MaxDurationMs = float64(math.MaxInt64 / int64(time.Millisecond))

// Milliseconds resolves the duration to a whole number of milliseconds.
// Ranges draw a uniform integer in [min, max] inclusive; plain values are
// truncated. Non-finite, negative, inverted or oversized values are
// configuration errors.
func (d Duration) Milliseconds(rng RNG) (int64, error) {
	if !d.Ranged {
		if !isFinite(d.Ms) || d.Ms < 0 {
			return 0, fmt.Errorf("%w: duration %v must be a finite non-negative number", ErrConfiguration, d.Ms)
		}
		if d.Ms > MaxDurationMs {
			return 0, fmt.Errorf("%w: duration %v exceeds %v ms", ErrConfiguration, d.Ms, MaxDurationMs)
		}
		return int64(math.Trunc(d.Ms)), nil
	}

	if !isFinite(d.Min) || !isFinite(d.Max) || d.Min < 0 {
		return 0, fmt.Errorf("%w: duration range {%v, %v} must be finite and non-negative", ErrConfiguration, d.Min, d.Max)
	}
	if d.Max > MaxDurationMs {
		return 0, fmt.Errorf("%w: duration range {%v, %v} exceeds %v ms", ErrConfiguration, d.Min, d.Max, MaxDurationMs)
	}
	lo := int64(math.Ceil(d.Min))
	hi := int64(math.Floor(d.Max))
	if lo > hi {
		return 0, fmt.Errorf("%w: duration range {%v, %v} contains no whole millisecond", ErrConfiguration, d.Min, d.Max)
	}
	return lo + int64(rng.IntN(int(hi-lo+1))), nil
}

// Longest returns the largest value the duration can resolve to, in
// milliseconds, before validation.
func (d Duration) Longest() float64 {
	if d.Ranged {
		return d.Max
	}
	return d.Ms
}

func (d Duration) validate() error {
	_, err := d.Milliseconds(minRNG{})
	return err
}

// minRNG always draws the lowest value; used to validate ranges without
// consuming the real random source.
type minRNG struct{}

func (minRNG) Float64() float64 { return 0 }
func (minRNG) IntN(int) int     { return 0 }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UnmarshalYAML accepts a number or a {min, max} mapping.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var ms float64
		if err := value.Decode(&ms); err != nil {
			return fmt.Errorf("%w: duration: %v", ErrConfiguration, err)
		}
		*d = FixedDuration(ms)
		return nil
	case yaml.MappingNode:
		var min, max *float64
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			var dst **float64
			switch key.Value {
			case "min":
				dst = &min
			case "max":
				dst = &max
			default:
				return fmt.Errorf("%w: duration: unknown key %q (line %d)", ErrConfiguration, key.Value, key.Line)
			}
			var v float64
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("%w: duration.%s: %v", ErrConfiguration, key.Value, err)
			}
			*dst = &v
		}
		if min == nil || max == nil {
			return fmt.Errorf("%w: duration range needs both min and max", ErrConfiguration)
		}
		*d = DurationRange(*min, *max)
		return nil
	default:
		return fmt.Errorf("%w: duration must be a number or {min, max}", ErrConfiguration)
	}
}

// UnmarshalJSON accepts a number or a {"min", "max"} object.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var ms float64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("%w: duration: %v", ErrConfiguration, err)
		}
		*d = FixedDuration(ms)
		return nil
	}

	var r struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return fmt.Errorf("%w: duration: %v", ErrConfiguration, err)
	}
	if r.Min == nil || r.Max == nil {
		return fmt.Errorf("%w: duration range needs both min and max", ErrConfiguration)
	}
	*d = DurationRange(*r.Min, *r.Max)
	return nil
}

// MarshalJSON writes the same shapes UnmarshalJSON accepts.
func (d Duration) MarshalJSON() ([]byte, error) {
	if d.Ranged {
		return json.Marshal(map[string]float64{"min": d.Min, "max": d.Max})
	}
	return json.Marshal(d.Ms)
}

// --- Options ---

// AnchorOptions are the caller-facing anchor settings. Type is "line"
// (default) or "triangle".
type AnchorOptions struct {
	Type          string   `yaml:"type,omitempty" json:"type,omitempty"`
	PositionAngle *float64 `yaml:"positionAngle,omitempty" json:"positionAngle,omitempty"`
	Length        *float64 `yaml:"length,omitempty" json:"length,omitempty"`
	GapFromCenter *float64 `yaml:"gapFromCenter,omitempty" json:"gapFromCenter,omitempty"`
	Width         *float64 `yaml:"width,omitempty" json:"width,omitempty"`
}

// RollOptions are the caller-facing default spin settings. Type is "anchor"
// (default) or "circle".
type RollOptions struct {
	Type     string    `yaml:"type,omitempty" json:"type,omitempty"`
	Duration *Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Options are caller overrides merged over the defaults. A nil field keeps the
// default. Items are required.
type Options struct {
	Size        *float64       `yaml:"size,omitempty" json:"size,omitempty"`
	Padding     *float64       `yaml:"padding,omitempty" json:"padding,omitempty"`
	Anchor      *AnchorOptions `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	RollOptions *RollOptions   `yaml:"rollOptions,omitempty" json:"rollOptions,omitempty"`
	Items       []Item         `yaml:"items" json:"items"`
}

// Config is the resolved, validated wheel configuration.
type Config struct {
	Size    float64
	Padding float64
	Anchor  Anchor
	Roll    Roll
	Items   []Item
}

// DefaultConfig returns the defaults every Options value is merged over. It
// has no items and is therefore not valid on its own.
func DefaultConfig() Config {
	return Config{
		Size:    DefaultSize,
		Padding: DefaultPadding,
		Anchor: Anchor{
			PositionAngle: DefaultAnchorAngle,
			Length:        DefaultAnchorLength,
			Shape:         LineAnchor{},
		},
		Roll: Roll{
			Duration: FixedDuration(DefaultSpinDurationMs),
			Target:   RotateAnchor,
		},
	}
}

// Radius is the wheel radius: Size/2 minus twice the padding.
func (c Config) Radius() float64 {
	return c.Size/2 - c.Padding*2
}

// Center is the wheel center inside its Size x Size viewport.
func (c Config) Center() Vec2 {
	return Vec2{X: c.Size / 2, Y: c.Size / 2}
}

// Resolve merges o over DefaultConfig and validates the result. The returned
// config owns a copy of the items.
func (o Options) Resolve() (Config, error) {
	c := DefaultConfig()

	if o.Size != nil {
		c.Size = *o.Size
	}
	if o.Padding != nil {
		c.Padding = *o.Padding
	}
	if a := o.Anchor; a != nil {
		if a.PositionAngle != nil {
			c.Anchor.PositionAngle = *a.PositionAngle
		}
		if a.Length != nil {
			c.Anchor.Length = *a.Length
		}
		switch a.Type {
		case "", "line":
			if a.Width != nil {
				return Config{}, fmt.Errorf("%w: anchor.width is only valid for triangle anchors", ErrConfiguration)
			}
			line := LineAnchor{}
			if a.GapFromCenter != nil {
				line.GapFromCenter = *a.GapFromCenter
			}
			c.Anchor.Shape = line
		case "triangle":
			if a.GapFromCenter != nil {
				return Config{}, fmt.Errorf("%w: anchor.gapFromCenter is only valid for line anchors", ErrConfiguration)
			}
			tri := TriangleAnchor{Width: DefaultTriangleWidth}
			if a.Width != nil {
				tri.Width = *a.Width
			}
			c.Anchor.Shape = tri
		default:
			return Config{}, fmt.Errorf("%w: unknown anchor type %q", ErrConfiguration, a.Type)
		}
	}
	if r := o.RollOptions; r != nil {
		if r.Duration != nil {
			c.Roll.Duration = *r.Duration
		}
		switch r.Type {
		case "", "anchor":
			c.Roll.Target = RotateAnchor
		case "circle":
			c.Roll.Target = RotateWheel
		default:
			return Config{}, fmt.Errorf("%w: unknown rollOptions.type %q", ErrConfiguration, r.Type)
		}
	}
	c.Items = append([]Item(nil), o.Items...)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.Anchor.PositionAngle = NormalizeAngle(c.Anchor.PositionAngle)
	return c, nil
}

// Validate checks the invariants the layout and spin code rely on.
func (c Config) Validate() error {
	var errs []error
	if len(c.Items) == 0 {
		errs = append(errs, errors.New("items must not be empty"))
	}
	if !isFinite(c.Size) || c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size %v must be positive", c.Size))
	}
	if r := c.Radius(); !isFinite(r) || r <= 0 {
		errs = append(errs, fmt.Errorf("radius %v (size/2 - padding*2) must be positive", r))
	}
	if !isFinite(c.Anchor.PositionAngle) {
		errs = append(errs, fmt.Errorf("anchor angle %v must be finite", c.Anchor.PositionAngle))
	}
	if !isFinite(c.Anchor.Length) || c.Anchor.Length < 0 {
		errs = append(errs, fmt.Errorf("anchor length %v must be non-negative", c.Anchor.Length))
	}
	if err := c.Roll.Duration.validate(); err != nil {
		errs = append(errs, err)
	}
	for i, it := range c.Items {
		if it.Color == "" {
			continue
		}
		if _, err := ParseHexColor(it.Color); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
}

// --- Decoding ---

// DecodeOptionsYAML reads Options from YAML. Unknown keys are rejected.
func DecodeOptionsYAML(r io.Reader) (Options, error) {
	var o Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, ErrConfiguration) {
			return Options{}, err
		}
		return Options{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return o, nil
}

// DecodeOptionsJSON reads Options from JSON. Unknown keys are rejected.
func DecodeOptionsJSON(r io.Reader) (Options, error) {
	var o Options
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, ErrConfiguration) {
			return Options{}, err
		}
		return Options{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return o, nil
}
