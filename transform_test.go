package rolloc

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	n := NewContainer("test")
	got := computeLocalTransform(n)
	assertMatrix(t, "identity", got, [6]float64{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformTranslation(t *testing.T) {
	n := NewContainer("test")
	n.X = 10
	n.Y = 20
	got := computeLocalTransform(n)
	assertMatrix(t, "translation", got, [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformRotation90(t *testing.T) {
	n := NewContainer("test")
	n.Rotation = math.Pi / 2
	got := computeLocalTransform(n)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", got, [6]float64{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformPivot(t *testing.T) {
	n := NewContainer("test")
	n.X = 100
	n.Y = 200
	n.PivotX = 16
	n.PivotY = 16
	got := computeLocalTransform(n)
	// T(100,200) * T(-16,-16) = [1,0,0,1, 84, 184]
	assertMatrix(t, "pivot", got, [6]float64{1, 0, 0, 1, 84, 184})
}

func TestLocalTransformPivotOnSelfIsIdentityAtRest(t *testing.T) {
	// Wheel and anchor nodes sit at the center and pivot on it.
	n := NewContainer("wheel")
	n.SetPosition(250, 250)
	n.SetPivot(250, 250)
	assertMatrix(t, "at rest", computeLocalTransform(n), identityTransform)
}

func TestLocalTransformRotateAroundPivot(t *testing.T) {
	n := NewContainer("wheel")
	n.SetPosition(250, 250)
	n.SetPivot(250, 250)
	n.SetRotationDegrees(90)
	m := computeLocalTransform(n)

	// The pivot stays put.
	x, y := transformPoint(m, 250, 250)
	assertNear(t, "pivot.x", x, 250)
	assertNear(t, "pivot.y", y, 250)

	// A point at 0° moves to 90°, below the center on a y-down screen.
	x, y = transformPoint(m, 500, 250)
	assertNear(t, "rim.x", x, 250)
	assertNear(t, "rim.y", y, 500)
}

func TestLocalTransformCombined(t *testing.T) {
	n := NewContainer("test")
	n.X = 50
	n.Y = 100
	n.ScaleX = 2
	n.ScaleY = 2
	n.Rotation = math.Pi / 2

	got := computeLocalTransform(n)
	// Scale(2,2) then Rotate(90°):
	// a = cos*sx = 0, b = sin*sx = 2, c = -sin*sy = -2, d = cos*sy = 0
	assertMatrix(t, "combined", got, [6]float64{0, 2, -2, 0, 50, 100})
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	id := identityTransform
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(id, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, id), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(a, b)
	assertMatrix(t, "translations", got, [6]float64{1, 0, 0, 1, 15, 23})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	inv := invertAffine(m)
	result := multiplyAffine(m, inv)
	assertMatrix(t, "m*inv=id", result, identityTransform)
}

func TestInvertAffineComplex(t *testing.T) {
	n := NewContainer("test")
	n.ScaleX = 2
	n.Rotation = math.Pi / 3
	n.SetPivot(40, 10)
	m := computeLocalTransform(n)
	inv := invertAffine(m)
	result := multiplyAffine(m, inv)
	assertMatrix(t, "m*inv=id", result, identityTransform)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := [6]float64{0, 0, 0, 1, 10, 20}
	assertMatrix(t, "singular→identity", invertAffine(m), identityTransform)
}

// --- updateWorldTransform ---

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10

	updateWorldTransform(parent, identityTransform, false)

	assertNear(t, "parent.tx", parent.worldTransform[4], 100)
	assertNear(t, "child.tx", child.worldTransform[4], 110)
}

func TestDirtyFlagSkipsClean(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, false)

	// Change child X without a setter: it stays clean.
	child.X = 999
	updateWorldTransform(parent, identityTransform, false)

	assertNear(t, "child.tx (stale)", child.worldTransform[4], 110)
}

func TestDirtyFlagRecomputes(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, false)

	child.SetPosition(20, 0)
	updateWorldTransform(parent, identityTransform, false)

	assertNear(t, "child.tx (updated)", child.worldTransform[4], 120)
}

func TestParentRecomputedPropagates(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, identityTransform, false)

	parent.SetPosition(200, 0)
	updateWorldTransform(parent, identityTransform, false)

	assertNear(t, "child.tx (from parent)", child.worldTransform[4], 210)
}

func TestMarkDirtyAfterDirectWrite(t *testing.T) {
	n := NewContainer("test")
	n.UpdateTransforms()

	n.Rotation = math.Pi
	n.MarkDirty()
	n.UpdateTransforms()

	assertNear(t, "a", n.WorldTransform()[0], -1)
}

// --- WorldToLocal / LocalToWorld ---

func TestWorldToLocalRoundtrip(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	parent.X = 100
	parent.Y = 50
	child.X = 10
	child.Y = 20
	child.ScaleX = 2
	child.ScaleY = 3
	child.Rotation = math.Pi / 6

	updateWorldTransform(parent, identityTransform, false)

	wx, wy := 150.0, 80.0
	lx, ly := child.WorldToLocal(wx, wy)
	wx2, wy2 := child.LocalToWorld(lx, ly)
	assertNear(t, "roundtrip.x", wx2, wx)
	assertNear(t, "roundtrip.y", wy2, wy)
}

func TestLocalToWorldIdentity(t *testing.T) {
	n := NewContainer("test")
	n.X = 50
	n.Y = 100
	updateWorldTransform(n, identityTransform, true)

	wx, wy := n.LocalToWorld(0, 0)
	assertNear(t, "origin.x", wx, 50)
	assertNear(t, "origin.y", wy, 100)
}

func TestWorldToLocalZeroScale(t *testing.T) {
	n := NewContainer("test")
	n.ScaleX = 0
	n.ScaleY = 0
	updateWorldTransform(n, identityTransform, true)

	// Should not panic; the inverse falls back to identity.
	lx, ly := n.WorldToLocal(100, 200)
	assertNear(t, "lx", lx, 100)
	assertNear(t, "ly", ly, 200)
}

func TestDeepHierarchy(t *testing.T) {
	nodes := make([]*Node, 10)
	for i := range nodes {
		nodes[i] = NewContainer("")
		nodes[i].X = 10
		if i > 0 {
			nodes[i-1].AddChild(nodes[i])
		}
	}

	updateWorldTransform(nodes[0], identityTransform, false)

	assertNear(t, "deep.tx", nodes[9].worldTransform[4], 100)
}

// --- Setters ---

func TestSettersDirty(t *testing.T) {
	n := NewContainer("test")
	n.transformDirty = false

	n.SetPosition(1, 2)
	if !n.transformDirty {
		t.Error("SetPosition should set dirty")
	}
	n.transformDirty = false

	n.SetRotation(1)
	if !n.transformDirty {
		t.Error("SetRotation should set dirty")
	}
	n.transformDirty = false

	n.SetRotationDegrees(45)
	if !n.transformDirty {
		t.Error("SetRotationDegrees should set dirty")
	}
	n.transformDirty = false

	n.SetPivot(5, 5)
	if !n.transformDirty {
		t.Error("SetPivot should set dirty")
	}
	n.transformDirty = false

	n.MarkDirty()
	if !n.transformDirty {
		t.Error("MarkDirty should set dirty")
	}
}

func TestRotationDegreesRoundTrip(t *testing.T) {
	n := NewContainer("test")
	// Cumulative spins run many turns in.
	n.SetRotationDegrees(12345.5)
	assertNear(t, "radians", n.Rotation, 12345.5*math.Pi/180)
	if got := n.RotationDegrees(); math.Abs(got-12345.5) > 1e-6 {
		t.Errorf("RotationDegrees = %v, want 12345.5", got)
	}
}

// --- Benchmarks ---

func BenchmarkComputeLocalTransform(b *testing.B) {
	n := NewContainer("bench")
	n.X = 100
	n.Y = 200
	n.Rotation = 0.5
	n.PivotX = 16
	n.PivotY = 16
	b.ReportAllocs()
	for b.Loop() {
		_ = computeLocalTransform(n)
	}
}

func BenchmarkUpdateWorldTransformWheel(b *testing.B) {
	// A 64-item wheel: wedge and label per item.
	root := NewContainer("root")
	wheel := NewContainer("wheel")
	wheel.SetPosition(250, 250)
	wheel.SetPivot(250, 250)
	root.AddChild(wheel)
	for i := 0; i < 128; i++ {
		wheel.AddChild(NewContainer(""))
	}
	updateWorldTransform(root, identityTransform, true)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		wheel.SetRotation(wheel.Rotation + 0.01)
		updateWorldTransform(root, identityTransform, false)
	}
}
