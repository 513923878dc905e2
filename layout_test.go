package rolloc

import (
	"errors"
	"math"
	"testing"
)

func mustConfig(t *testing.T, o Options) Config {
	t.Helper()
	cfg, err := o.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return cfg
}

func TestBuildLayoutWritesAngles(t *testing.T) {
	cfg := mustConfig(t, Options{Items: threeItems()})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, it := range cfg.Items {
		start, end := SliceBoundaries(3, i)
		if it.StartAngle != start || it.EndAngle != end {
			t.Errorf("item %d = [%v, %v), want [%v, %v)", i, it.StartAngle, it.EndAngle, start, end)
		}
		if s := l.Slices[i]; s.Index != i || s.Start != start || s.End != end {
			t.Errorf("slice %d = %+v", i, s)
		}
	}
}

func TestBuildLayoutOverwritesCallerAngles(t *testing.T) {
	items := threeItems()
	items[0].StartAngle, items[0].EndAngle = 17, 18
	cfg := mustConfig(t, Options{Items: items})
	if _, err := BuildLayout(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Items[0].StartAngle != 0 || cfg.Items[0].EndAngle != 120 {
		t.Errorf("item 0 = [%v, %v), want [0, 120)", cfg.Items[0].StartAngle, cfg.Items[0].EndAngle)
	}
}

func TestBuildLayoutIdempotent(t *testing.T) {
	cfg := mustConfig(t, Options{Items: threeItems()})
	a, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Slices {
		if a.Slices[i] != b.Slices[i] {
			t.Errorf("slice %d differs: %+v vs %+v", i, a.Slices[i], b.Slices[i])
		}
	}
	wa := a.Wheel.Find("slice-1").Path.String()
	wb := b.Wheel.Find("slice-1").Path.String()
	if wa != wb {
		t.Errorf("wedge paths differ: %q vs %q", wa, wb)
	}
}

func TestBuildLayoutTree(t *testing.T) {
	cfg := mustConfig(t, Options{Items: []Item{
		{Value: "a", Color: "#112233", Image: "a.png"},
		{Value: "b", Text: "Bee"},
	}})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if l.Root.Name != "rolloc" || l.Wheel.Parent != l.Root || l.Hub.Parent != l.Root || l.Anchor.Parent != l.Root {
		t.Fatal("wheel, hub and anchor should hang off the root")
	}
	for _, name := range []string{"slices", "labels", "boundary", "slice-0", "slice-1", "label-0", "label-1"} {
		if l.Wheel.Find(name) == nil {
			t.Errorf("missing node %q under wheel", name)
		}
	}

	s0 := l.Wheel.Find("slice-0")
	if s0.Type != NodeTypeWedge || s0.Fill.Hex() != "#112233" || s0.ImageRef != "a.png" || s0.UserData != 0 {
		t.Errorf("slice-0 = fill %s, image %q, data %v", s0.Fill.Hex(), s0.ImageRef, s0.UserData)
	}
	s1 := l.Wheel.Find("slice-1")
	if s1.Fill != DefaultPalette[1] {
		t.Errorf("slice-1 fill = %v, want palette[1]", s1.Fill)
	}

	lbl := l.Wheel.Find("label-1")
	if lbl.Text != "Bee" {
		t.Errorf("label-1 text = %q, want Bee", lbl.Text)
	}
	// Slice 1 spans [180, 360): its label sits at 270°, straight up.
	assertNear(t, "label.x", lbl.X, 250)
	assertNear(t, "label.y", lbl.Y, 250-250*labelRadiusFactor)

	if b := l.Wheel.Find("boundary"); b.Radius != 250 || b.X != 250 || b.Y != 250 {
		t.Errorf("boundary = r %v at (%v, %v)", b.Radius, b.X, b.Y)
	}
	assertNear(t, "hub radius", l.Hub.Radius, 250*defaultHubRadiusFactor)

	for _, n := range []*Node{l.Wheel, l.Anchor} {
		if n.X != 250 || n.Y != 250 || n.PivotX != 250 || n.PivotY != 250 {
			t.Errorf("%s should sit and pivot on the center", n.Name)
		}
	}
}

func TestBuildLayoutLineAnchor(t *testing.T) {
	cfg := mustConfig(t, Options{
		Anchor: &AnchorOptions{PositionAngle: Ptr(0.0), Length: Ptr(100.0), GapFromCenter: Ptr(20.0)},
		Items:  threeItems(),
	})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a := l.Anchor
	if a.Type != NodeTypeLine || len(a.Points) != 2 {
		t.Fatalf("anchor = %v with %d points", a.Type, len(a.Points))
	}
	x0, y0 := a.LocalToWorld(a.Points[0].X, a.Points[0].Y)
	x1, y1 := a.LocalToWorld(a.Points[1].X, a.Points[1].Y)
	assertNear(t, "p0.x", x0, 270)
	assertNear(t, "p0.y", y0, 250)
	assertNear(t, "p1.x", x1, 350)
	assertNear(t, "p1.y", y1, 250)
}

func TestBuildLayoutTriangleAnchor(t *testing.T) {
	cfg := mustConfig(t, Options{
		Anchor: &AnchorOptions{Type: "triangle", PositionAngle: Ptr(90.0), Length: Ptr(60.0), Width: Ptr(10.0)},
		Items:  threeItems(),
	})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a := l.Anchor
	if a.Type != NodeTypePolygon || len(a.Points) != 3 {
		t.Fatalf("anchor = %v with %d points", a.Type, len(a.Points))
	}
	// Apex straight down at the anchor length; base 10 wide, 10 closer in.
	apex, b1, b2 := a.Points[0], a.Points[1], a.Points[2]
	assertNear(t, "apex.x", apex.X, 250)
	assertNear(t, "apex.y", apex.Y, 310)
	assertNear(t, "base.y", b1.Y, 300)
	assertNear(t, "base.y", b2.Y, 300)
	assertNear(t, "base width", math.Abs(b1.X-b2.X), 10)
}

func TestAnchorRotationSweepsTip(t *testing.T) {
	cfg := mustConfig(t, Options{
		Anchor: &AnchorOptions{PositionAngle: Ptr(0.0), Length: Ptr(100.0)},
		Items:  threeItems(),
	})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Anchor.SetRotationDegrees(90)
	l.Root.UpdateTransforms()

	tip := l.Anchor.Points[1]
	x, y := l.Anchor.LocalToWorld(tip.X, tip.Y)
	assertNear(t, "tip.x", x, 250)
	assertNear(t, "tip.y", y, 350)
	bx, by := l.Anchor.LocalToWorld(l.Anchor.Points[0].X, l.Anchor.Points[0].Y)
	assertNear(t, "base.x", bx, 250)
	assertNear(t, "base.y", by, 250)
}

func TestBuildLayoutPadding(t *testing.T) {
	cfg := mustConfig(t, Options{Size: Ptr(300.0), Padding: Ptr(10.0), Items: threeItems()})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "radius", l.Radius, 130)
	if l.Center != (Vec2{X: 150, Y: 150}) {
		t.Errorf("center = %+v", l.Center)
	}
}

func TestBuildLayoutSingleItem(t *testing.T) {
	cfg := mustConfig(t, Options{Items: []Item{{Value: "only"}}})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(l.Wheel.Find("slice-0").Path); got != 5 {
		t.Errorf("full-circle wedge has %d segments, want 5", got)
	}
}

func TestBuildLayoutRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := BuildLayout(cfg); !errors.Is(err, ErrConfiguration) {
		t.Errorf("BuildLayout(no items) = %v, want ErrConfiguration", err)
	}
	cfg.Items = []Item{{Value: "a", Color: "#zzz"}}
	if _, err := BuildLayout(cfg); !errors.Is(err, ErrConfiguration) {
		t.Errorf("BuildLayout(bad color) = %v, want ErrConfiguration", err)
	}
}

func TestSliceTableIndex(t *testing.T) {
	cfg := mustConfig(t, Options{Items: threeItems()})
	l, err := BuildLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range []float64{0, 1, 119.5, 120, 121, 240, 359, 360, -30, 725} {
		want := ResolveIndex(NormalizeAngle(a), cfg.Items)
		if got := l.Slices.Index(a); got != want {
			t.Errorf("Index(%v) = %d, resolver says %d", a, got, want)
		}
	}
	if got := (SliceTable{}).Index(10); got != -1 {
		t.Errorf("empty table Index = %d, want -1", got)
	}
}
