package screen

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/rolloc"
)

// arcStepDeg is the sampling step used to flatten wedge arcs.
const arcStepDeg = 3

type renderer struct {
	white *ebiten.Image
	face  text.Face

	verts []ebiten.Vertex
	inds  []uint16
}

func newRenderer() *renderer {
	return &renderer{face: text.NewGoXFace(basicfont.Face7x13)}
}

// whitePixel returns a lazily created 1x1 white image used as the source of
// untextured triangles.
func (r *renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	return r.white
}

func (r *renderer) drawNode(dst *ebiten.Image, n *rolloc.Node) {
	switch n.Type {
	case rolloc.NodeTypeCircle:
		cx, cy := n.LocalToWorld(0, 0)
		radius := float32(n.Radius * transformScale(n.WorldTransform()))
		if n.Fill.A > 0 {
			vector.DrawFilledCircle(dst, float32(cx), float32(cy), radius, toNRGBA(n.Fill), true)
		}
		if n.Stroke.A > 0 && n.StrokeWidth > 0 {
			vector.StrokeCircle(dst, float32(cx), float32(cy), radius, float32(n.StrokeWidth), toNRGBA(n.Stroke), true)
		}
	case rolloc.NodeTypeWedge:
		pts := worldPoints(n, n.Path.Flatten(arcStepDeg))
		r.fillFan(dst, pts, n.Fill)
		r.strokeLoop(dst, pts, n.Stroke, n.StrokeWidth)
	case rolloc.NodeTypePolygon:
		pts := worldPoints(n, n.Points)
		r.fillFan(dst, pts, n.Fill)
		r.strokeLoop(dst, pts, n.Stroke, n.StrokeWidth)
	case rolloc.NodeTypeLine:
		if len(n.Points) != 2 {
			return
		}
		pts := worldPoints(n, n.Points)
		vector.StrokeLine(dst,
			float32(pts[0].X), float32(pts[0].Y), float32(pts[1].X), float32(pts[1].Y),
			float32(max(n.StrokeWidth, 1)), toNRGBA(n.Stroke), true)
	case rolloc.NodeTypeText:
		if n.Text == "" {
			return
		}
		x, y := n.LocalToWorld(0, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(toNRGBA(n.Fill))
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(dst, n.Text, r.face, op)
	}
}

// fillFan fills a star-shaped polygon as a triangle fan around pts[0]. Pie
// wedges start at the wheel center, so every edge is visible from it.
func (r *renderer) fillFan(dst *ebiten.Image, pts []rolloc.Vec2, c rolloc.Color) {
	if len(pts) < 3 || c.A <= 0 {
		return
	}
	cr, cg, cb, ca := premultiplied(c)
	r.verts = r.verts[:0]
	for _, p := range pts {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	r.inds = fanIndices(r.inds[:0], len(pts))

	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	dst.DrawTriangles(r.verts, r.inds, r.whitePixel(), &op)
}

func (r *renderer) strokeLoop(dst *ebiten.Image, pts []rolloc.Vec2, c rolloc.Color, width float64) {
	if len(pts) < 2 || c.A <= 0 || width <= 0 {
		return
	}
	clr := toNRGBA(c)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), clr, true)
	}
}

// fanIndices appends the indices of a triangle fan over n vertices.
func fanIndices(dst []uint16, n int) []uint16 {
	for i := 1; i+1 < n; i++ {
		dst = append(dst, 0, uint16(i), uint16(i+1))
	}
	return dst
}

// worldPoints maps node-local points to world space.
func worldPoints(n *rolloc.Node, local []rolloc.Vec2) []rolloc.Vec2 {
	out := make([]rolloc.Vec2, len(local))
	for i, p := range local {
		out[i].X, out[i].Y = n.LocalToWorld(p.X, p.Y)
	}
	return out
}

// transformScale returns the average axis scale of an affine matrix.
func transformScale(m [6]float64) float64 {
	sx := math.Hypot(m[0], m[1])
	sy := math.Hypot(m[2], m[3])
	return (sx + sy) / 2
}

func toNRGBA(c rolloc.Color) color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func premultiplied(c rolloc.Color) (r, g, b, a float32) {
	a = float32(clamp01(c.A))
	return float32(clamp01(c.R)) * a, float32(clamp01(c.G)) * a, float32(clamp01(c.B)) * a, a
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
