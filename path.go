package rolloc

import (
	"math"
	"strconv"
	"strings"
)

// PathOp identifies a path command.
type PathOp uint8

const (
	PathMoveTo PathOp = iota // start a new subpath at To
	PathLineTo               // straight segment to To
	PathArcTo                // circular arc of Radius to To
	PathClose                // close the current subpath
)

// PathSegment is one command of a Path. Radius, LargeArc and Sweep are only
// meaningful for PathArcTo and mirror the SVG elliptical-arc parameters for a
// circle.
type PathSegment struct {
	Op       PathOp
	To       Vec2
	Radius   float64
	LargeArc bool
	Sweep    bool

	// arc is filled in by SlicePath so Flatten can sample the arc without
	// recovering its center from the endpoint form.
	arc arcInfo
}

type arcInfo struct {
	center   Vec2
	from, to float64 // degrees, clockwise from -> to
}

func (a arcInfo) valid() bool {
	return a.to != a.from
}

// Path is an ordered list of drawing commands.
type Path []PathSegment

// String returns the path as SVG path data, e.g.
// "M250 250 L500 250 A250 250 0 0 1 125 466.5 Z".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch seg.Op {
		case PathMoveTo:
			b.WriteByte('M')
			writePoint(&b, seg.To)
		case PathLineTo:
			b.WriteByte('L')
			writePoint(&b, seg.To)
		case PathArcTo:
			b.WriteByte('A')
			b.WriteString(formatFloat(seg.Radius))
			b.WriteByte(' ')
			b.WriteString(formatFloat(seg.Radius))
			b.WriteString(" 0 ")
			b.WriteString(flag(seg.LargeArc))
			b.WriteByte(' ')
			b.WriteString(flag(seg.Sweep))
			b.WriteByte(' ')
			writePoint(&b, seg.To)
		case PathClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, v Vec2) {
	b.WriteString(formatFloat(v.X))
	b.WriteByte(' ')
	b.WriteString(formatFloat(v.Y))
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// formatFloat prints at most three decimals and never "-0".
func formatFloat(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Flatten converts the path into a polygon outline, sampling arcs every
// stepDeg degrees (at least one sample per arc). Arcs built by SlicePath are
// sampled exactly; other arcs degrade to a straight segment.
func (p Path) Flatten(stepDeg float64) []Vec2 {
	if stepDeg <= 0 {
		stepDeg = 5
	}
	pts := make([]Vec2, 0, len(p)*4)
	for _, seg := range p {
		switch seg.Op {
		case PathMoveTo, PathLineTo:
			pts = append(pts, seg.To)
		case PathArcTo:
			if !seg.arc.valid() {
				pts = append(pts, seg.To)
				continue
			}
			span := seg.arc.to - seg.arc.from
			steps := int(math.Ceil(span / stepDeg))
			if steps < 1 {
				steps = 1
			}
			for i := 1; i <= steps; i++ {
				a := seg.arc.from + span*float64(i)/float64(steps)
				pts = append(pts, ArcPoint(a, seg.Radius, seg.arc.center))
			}
		case PathClose:
		}
	}
	return pts
}
