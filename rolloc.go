package rolloc

import (
	"fmt"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default stroke and label color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is used for outlines and the anchor marker.
var ColorBlack = Color{0, 0, 0, 1}

// DefaultPalette fills slices that carry no color of their own. Slice i takes
// DefaultPalette[i % len(DefaultPalette)].
var DefaultPalette = []Color{
	{R: 0.937, G: 0.325, B: 0.314, A: 1}, // red
	{R: 1.000, G: 0.655, B: 0.149, A: 1}, // orange
	{R: 1.000, G: 0.933, B: 0.345, A: 1}, // yellow
	{R: 0.400, G: 0.733, B: 0.416, A: 1}, // green
	{R: 0.161, G: 0.714, B: 0.965, A: 1}, // cyan
	{R: 0.361, G: 0.420, B: 0.753, A: 1}, // indigo
	{R: 0.671, G: 0.278, B: 0.737, A: 1}, // purple
	{R: 0.925, G: 0.251, B: 0.478, A: 1}, // pink
}

// Hex returns the color as a CSS hex string (#rrggbb). Alpha is dropped.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque Color.
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: invalid color %q", ErrConfiguration, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: invalid color %q", ErrConfiguration, s)
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, nil
}

// Vec2 is a 2D point or vector. The coordinate system has its origin at the
// top-left, with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeCircle                    // filled and/or stroked circle of Radius
	NodeTypeWedge                     // filled pie slice described by Path
	NodeTypeText                      // single-line label centered on the node origin
	NodeTypeLine                      // stroked segment Points[0] -> Points[1]
	NodeTypePolygon                   // filled closed polygon through Points
)

// String returns a short lowercase name, used in debug output and SVG ids.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeCircle:
		return "circle"
	case NodeTypeWedge:
		return "wedge"
	case NodeTypeText:
		return "text"
	case NodeTypeLine:
		return "line"
	case NodeTypePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Ptr returns a pointer to v. Options use pointer fields so that explicit
// zero values (an anchor at 0°, no padding) can be told apart from "unset".
func Ptr[T any](v T) *T {
	return &v
}
