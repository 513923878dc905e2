package rolloc

import "math"

// Angle convention used everywhere in this package: 0° points along +x from
// the center and angles grow clockwise on screen (Y increases downward). Slice
// boundaries, anchor placement, node rotation and result resolution all share
// it.

const degToRad = math.Pi / 180

// SliceBoundaries returns the angular span [start, end) of slice index out of
// itemCount equal slices. Boundaries are computed as i*360/n so that the end of
// slice i compares equal to the start of slice i+1 and the last end is exactly
// 360. itemCount must be positive; the Layout Builder rejects empty item lists
// before calling this.
func SliceBoundaries(itemCount, index int) (start, end float64) {
	n := float64(itemCount)
	start = float64(index) * 360 / n
	end = float64(index+1) * 360 / n
	return start, end
}

// ArcPoint returns the point at angleDeg on the circle of the given radius
// around center.
func ArcPoint(angleDeg, radius float64, center Vec2) Vec2 {
	sin, cos := math.Sincos(angleDeg * degToRad)
	return Vec2{
		X: center.X + radius*cos,
		Y: center.Y + radius*sin,
	}
}

// LargeArcFlag reports whether an arc spanning spanDeg needs the SVG
// large-arc flag (span greater than 180°).
func LargeArcFlag(spanDeg float64) bool {
	return spanDeg > 180
}

// PiePath describes a filled pie wedge: from center to start, arcing clockwise
// to end, back to center. The sweep direction is always positive to match the
// angle convention.
func PiePath(center Vec2, radius float64, start, end Vec2, largeArc bool) Path {
	return Path{
		{Op: PathMoveTo, To: center},
		{Op: PathLineTo, To: start},
		{Op: PathArcTo, To: end, Radius: radius, LargeArc: largeArc, Sweep: true},
		{Op: PathClose},
	}
}

// SlicePath builds the wedge for the slice [startDeg, endDeg]. A span of a
// full revolution (a single-item wheel) has start == end, which a single arc
// command would render as nothing, so it is split into two half arcs.
func SlicePath(center Vec2, radius, startDeg, endDeg float64) Path {
	span := endDeg - startDeg
	start := ArcPoint(startDeg, radius, center)
	end := ArcPoint(endDeg, radius, center)

	var p Path
	if span >= 360 {
		mid := ArcPoint(startDeg+180, radius, center)
		p = Path{
			{Op: PathMoveTo, To: center},
			{Op: PathLineTo, To: start},
			{Op: PathArcTo, To: mid, Radius: radius, Sweep: true},
			{Op: PathArcTo, To: start, Radius: radius, Sweep: true},
			{Op: PathClose},
		}
		p[2].arc = arcInfo{center: center, from: startDeg, to: startDeg + 180}
		p[3].arc = arcInfo{center: center, from: startDeg + 180, to: startDeg + 360}
		return p
	}

	p = PiePath(center, radius, start, end, LargeArcFlag(span))
	p[2].arc = arcInfo{center: center, from: startDeg, to: endDeg}
	return p
}

// MidAngle returns the angle halfway through [startDeg, endDeg].
func MidAngle(startDeg, endDeg float64) float64 {
	return startDeg + (endDeg-startDeg)/2
}

// NormalizeAngle maps any angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -tiny + 360 rounds to 360 in float64.
	if a >= 360 {
		a = 0
	}
	return a
}
