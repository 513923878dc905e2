package rolloc

// EffectiveAngle returns the wheel angle under the anchor after a cumulative
// rotation, normalized into [0, 360).
//
// With RotateAnchor the anchor sweeps clockwise from its position angle, so
// the pointed-at angle is anchorAngle + rotation. With RotateWheel the anchor
// stays put and the wheel turns clockwise beneath it, so the wheel angle under
// the anchor is anchorAngle - rotation.
func EffectiveAngle(target RollTarget, rotation, anchorAngle float64) float64 {
	if target == RotateWheel {
		return NormalizeAngle(anchorAngle - rotation)
	}
	return NormalizeAngle(rotation + anchorAngle)
}

// Resolve returns the item the anchor points at after rotating the anchor by
// rotation degrees, or nil if no slice matches.
//
// Slices match left-exclusive, right-inclusive: effective > StartAngle and
// effective <= EndAngle. A value exactly on a boundary therefore belongs to
// the slice ending there, and 0 wraps around to the slice ending at 360.
// A nil result means the slice table does not partition the circle and must
// be treated as a defect, not as a normal outcome.
func Resolve(rotation, anchorAngle float64, items []Item) *Item {
	i := ResolveIndex(NormalizeAngle(rotation+anchorAngle), items)
	if i < 0 {
		return nil
	}
	return &items[i]
}

// ResolveIndex returns the index of the item whose slice contains the
// effective angle, using the same boundary rules as Resolve, or -1.
func ResolveIndex(effective float64, items []Item) int {
	return findSlice(effective, len(items), func(i int) (float64, float64) {
		return items[i].StartAngle, items[i].EndAngle
	})
}

// findSlice returns the first i in [0, n) whose (start, end] holds the
// effective angle, or -1. An angle of 0 matches the last slice ending at 360.
func findSlice(effective float64, n int, bounds func(i int) (start, end float64)) int {
	if effective == 0 {
		for i := n - 1; i >= 0; i-- {
			if _, end := bounds(i); end == 360 {
				return i
			}
		}
		return -1
	}
	for i := 0; i < n; i++ {
		if start, end := bounds(i); effective > start && effective <= end {
			return i
		}
	}
	return -1
}
