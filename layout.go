package rolloc

import (
	"fmt"
	"strconv"
)

// Slice is one item's angular span [Start, End) in degrees.
type Slice struct {
	Index      int
	Start, End float64
}

// SliceTable lists the slices of a layout in item order. It partitions
// [0, 360): slice 0 starts at 0, each slice ends where the next begins and the
// last ends at 360.
type SliceTable []Slice

// Layout is the result of BuildLayout: the slice table and the scene graph a
// surface draws.
type Layout struct {
	Config Config
	Slices SliceTable
	Center Vec2
	Radius float64

	// Root holds everything below. Surfaces attach Root.
	Root *Node
	// Wheel groups the boundary, wedges and labels; it is the node rotated
	// by RotateWheel spins.
	Wheel *Node
	// Hub is the small circle covering the center.
	Hub *Node
	// Anchor is the marker; it is the node rotated by RotateAnchor spins.
	// Its pivot is the wheel center.
	Anchor *Node
}

// BuildLayout writes StartAngle/EndAngle onto every item of cfg (in place,
// shared with the caller's Config) and builds the scene graph:
//
//	root
//	├── wheel (pivot at center)
//	│   ├── slices/slice-i   wedge per item, palette or item color, image ref
//	│   ├── labels/label-i   text at the slice midpoint, radius*2/3 out
//	│   └── boundary         outer circle outline
//	├── hub                  center cap
//	└── anchor (pivot at center)
//
// Nodes are in absolute viewport coordinates; rotating nodes carry X/Y and
// pivot equal to the center so rotation happens around it.
func BuildLayout(cfg Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := len(cfg.Items)
	center := cfg.Center()
	radius := cfg.Radius()

	l := &Layout{
		Config: cfg,
		Slices: make(SliceTable, n),
		Center: center,
		Radius: radius,
		Root:   NewContainer("rolloc"),
		Wheel:  pivotOnCenter(NewContainer("wheel"), center),
	}
	l.Root.AddChild(l.Wheel)

	slices := NewContainer("slices")
	labels := NewContainer("labels")
	l.Wheel.AddChild(slices)
	l.Wheel.AddChild(labels)

	for i := range cfg.Items {
		it := &cfg.Items[i]
		start, end := SliceBoundaries(n, i)
		it.StartAngle, it.EndAngle = start, end
		l.Slices[i] = Slice{Index: i, Start: start, End: end}

		fill := DefaultPalette[i%len(DefaultPalette)]
		if it.Color != "" {
			c, err := ParseHexColor(it.Color)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			fill = c
		}

		wedge := NewWedge("slice-"+strconv.Itoa(i), SlicePath(center, radius, start, end))
		wedge.Fill = fill
		wedge.Stroke = ColorWhite
		wedge.StrokeWidth = 1
		wedge.ImageRef = it.Image
		wedge.UserData = i
		slices.AddChild(wedge)

		pos := ArcPoint(MidAngle(start, end), radius*labelRadiusFactor, center)
		label := NewText("label-"+strconv.Itoa(i), it.Label())
		label.SetPosition(pos.X, pos.Y)
		label.UserData = i
		labels.AddChild(label)
	}

	boundary := NewCircle("boundary", radius)
	boundary.SetPosition(center.X, center.Y)
	boundary.Stroke = ColorBlack
	boundary.StrokeWidth = 2
	l.Wheel.AddChild(boundary)

	l.Hub = NewCircle("hub", radius*defaultHubRadiusFactor)
	l.Hub.SetPosition(center.X, center.Y)
	l.Hub.Fill = ColorWhite
	l.Hub.Stroke = ColorBlack
	l.Hub.StrokeWidth = 1
	l.Root.AddChild(l.Hub)

	l.Anchor = buildAnchor(cfg.Anchor, center)
	l.Root.AddChild(l.Anchor)

	l.Root.UpdateTransforms()
	return l, nil
}

// buildAnchor creates the anchor marker for the configured shape. The node is
// pivoted on the center end so rotating it sweeps the tip around the wheel.
func buildAnchor(a Anchor, center Vec2) *Node {
	var n *Node
	switch s := a.Shape.(type) {
	case TriangleAnchor:
		apex := ArcPoint(a.PositionAngle, a.Length, center)
		baseMid := ArcPoint(a.PositionAngle, a.Length-s.Width, center)
		half := ArcPoint(a.PositionAngle+90, s.Width/2, Vec2{})
		n = NewPolygon("anchor", []Vec2{
			apex,
			{X: baseMid.X + half.X, Y: baseMid.Y + half.Y},
			{X: baseMid.X - half.X, Y: baseMid.Y - half.Y},
		})
		n.Fill = ColorBlack
	case LineAnchor:
		n = NewLine("anchor",
			ArcPoint(a.PositionAngle, s.GapFromCenter, center),
			ArcPoint(a.PositionAngle, a.Length, center),
		)
		n.Stroke = ColorBlack
		n.StrokeWidth = 3
	default:
		n = NewLine("anchor", center, ArcPoint(a.PositionAngle, a.Length, center))
		n.Stroke = ColorBlack
		n.StrokeWidth = 3
	}
	return pivotOnCenter(n, center)
}

func pivotOnCenter(n *Node, center Vec2) *Node {
	n.SetPosition(center.X, center.Y)
	n.SetPivot(center.X, center.Y)
	return n
}

// Index returns the slice containing the angle, with the same boundary rules
// as Resolve, or -1.
func (t SliceTable) Index(angleDeg float64) int {
	i := findSlice(NormalizeAngle(angleDeg), len(t), func(i int) (float64, float64) {
		return t[i].Start, t[i].End
	})
	if i < 0 {
		return -1
	}
	return t[i].Index
}
