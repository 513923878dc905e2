package rolloc

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SVGSurface is a Surface that renders attached scenes as an SVG document.
//
// Animate applies the target rotation immediately and records a CSS
// transition of the requested duration on the node, so a browser showing the
// document animates the marker the same way the retained Scene does.
type SVGSurface struct {
	width, height float64

	mu          sync.Mutex
	roots       []*Node
	transitions map[*Node]time.Duration
}

// NewSVGSurface creates an SVG surface with a width x height viewport.
func NewSVGSurface(width, height float64) *SVGSurface {
	return &SVGSurface{
		width:       width,
		height:      height,
		transitions: make(map[*Node]time.Duration),
	}
}

// Attach adds a scene root to the document.
func (s *SVGSurface) Attach(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil scene root", ErrTargetNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = append(s.roots, root)
	return nil
}

// Animate sets target's rotation to toDegrees and records a transition of d.
func (s *SVGSurface) Animate(target *Node, toDegrees float64, d time.Duration) {
	if target == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target.SetRotationDegrees(toDegrees)
	s.transitions[target] = d
}

// WriteTo encodes the current document to w.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	doc := svgDoc{
		Xmlns:   "http://www.w3.org/2000/svg",
		ViewBox: "0 0 " + formatFloat(s.width) + " " + formatFloat(s.height),
		Width:   formatFloat(s.width),
		Height:  formatFloat(s.height),
	}
	defs := &svgDefs{}
	for _, root := range s.roots {
		doc.Groups = append(doc.Groups, s.encodeNode(root, defs))
	}
	s.mu.Unlock()
	if len(defs.Patterns) > 0 {
		doc.Defs = defs
	}

	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return cw.n, fmt.Errorf("encode svg: %w", err)
	}
	return cw.n, nil
}

// String returns the document as a string.
func (s *SVGSurface) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// --- Encoding ---

type svgDoc struct {
	XMLName xml.Name   `xml:"svg"`
	Xmlns   string     `xml:"xmlns,attr"`
	ViewBox string     `xml:"viewBox,attr"`
	Width   string     `xml:"width,attr"`
	Height  string     `xml:"height,attr"`
	Defs    *svgDefs   `xml:"defs,omitempty"`
	Groups  []svgGroup `xml:"g"`
}

type svgDefs struct {
	Patterns []svgPattern `xml:"pattern"`
}

type svgPattern struct {
	ID           string   `xml:"id,attr"`
	PatternUnits string   `xml:"patternUnits,attr"`
	Width        string   `xml:"width,attr"`
	Height       string   `xml:"height,attr"`
	Image        svgImage `xml:"image"`
}

type svgImage struct {
	Href                string `xml:"href,attr"`
	X                   string `xml:"x,attr"`
	Y                   string `xml:"y,attr"`
	Width               string `xml:"width,attr"`
	Height              string `xml:"height,attr"`
	PreserveAspectRatio string `xml:"preserveAspectRatio,attr"`
}

type svgGroup struct {
	ID        string      `xml:"id,attr,omitempty"`
	Transform string      `xml:"transform,attr,omitempty"`
	Style     string      `xml:"style,attr,omitempty"`
	Circle    *svgCircle  `xml:"circle,omitempty"`
	Path      *svgPath    `xml:"path,omitempty"`
	Text      *svgText    `xml:"text,omitempty"`
	Line      *svgLine    `xml:"line,omitempty"`
	Polygon   *svgPolygon `xml:"polygon,omitempty"`
	Groups    []svgGroup  `xml:"g"`
}

type svgPaint struct {
	Fill        string `xml:"fill,attr,omitempty"`
	FillOpacity string `xml:"fill-opacity,attr,omitempty"`
	Stroke      string `xml:"stroke,attr,omitempty"`
	StrokeWidth string `xml:"stroke-width,attr,omitempty"`
}

type svgCircle struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
	R  string `xml:"r,attr"`
	svgPaint
}

type svgPath struct {
	D string `xml:"d,attr"`
	svgPaint
}

type svgText struct {
	X                string `xml:"x,attr"`
	Y                string `xml:"y,attr"`
	TextAnchor       string `xml:"text-anchor,attr"`
	DominantBaseline string `xml:"dominant-baseline,attr"`
	Fill             string `xml:"fill,attr,omitempty"`
	Content          string `xml:",chardata"`
}

type svgLine struct {
	X1            string `xml:"x1,attr"`
	Y1            string `xml:"y1,attr"`
	X2            string `xml:"x2,attr"`
	Y2            string `xml:"y2,attr"`
	StrokeLinecap string `xml:"stroke-linecap,attr"`
	svgPaint
}

type svgPolygon struct {
	Points string `xml:"points,attr"`
	svgPaint
}

func (s *SVGSurface) encodeNode(n *Node, defs *svgDefs) svgGroup {
	g := svgGroup{ID: n.Name}
	g.Transform, g.Style = s.nodeTransform(n)

	if n.Visible {
		switch n.Type {
		case NodeTypeCircle:
			g.Circle = &svgCircle{CX: "0", CY: "0", R: formatFloat(n.Radius), svgPaint: paint(n)}
		case NodeTypeWedge:
			p := paint(n)
			if n.ImageRef != "" {
				id := "img-" + strconv.FormatUint(uint64(n.ID), 10)
				defs.Patterns = append(defs.Patterns, svgPattern{
					ID:           id,
					PatternUnits: "objectBoundingBox",
					Width:        "1",
					Height:       "1",
					Image: svgImage{
						Href: n.ImageRef, X: "0", Y: "0", Width: "1", Height: "1",
						PreserveAspectRatio: "xMidYMid slice",
					},
				})
				p.Fill, p.FillOpacity = "url(#"+id+")", ""
			}
			g.Path = &svgPath{D: n.Path.String(), svgPaint: p}
		case NodeTypeText:
			g.Text = &svgText{
				X: "0", Y: "0",
				TextAnchor:       "middle",
				DominantBaseline: "middle",
				Fill:             n.Fill.Hex(),
				Content:          n.Text,
			}
		case NodeTypeLine:
			if len(n.Points) == 2 {
				g.Line = &svgLine{
					X1: formatFloat(n.Points[0].X), Y1: formatFloat(n.Points[0].Y),
					X2: formatFloat(n.Points[1].X), Y2: formatFloat(n.Points[1].Y),
					StrokeLinecap: "round",
					svgPaint:      paint(n),
				}
			}
		case NodeTypePolygon:
			pts := make([]string, len(n.Points))
			for i, p := range n.Points {
				pts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
			}
			g.Polygon = &svgPolygon{Points: strings.Join(pts, " "), svgPaint: paint(n)}
		}
	} else {
		g.Style = joinStyle(g.Style, "display: none")
	}

	for _, c := range n.children {
		g.Groups = append(g.Groups, s.encodeNode(c, defs))
	}
	return g
}

// nodeTransform returns the SVG transform attribute and CSS style for n.
// Nodes rotating around their own position (the wheel and anchor) use a CSS
// transform so the recorded transition can animate them; everything else
// uses the transform attribute.
func (s *SVGSurface) nodeTransform(n *Node) (attr, style string) {
	d, animated := s.transitions[n]
	aroundSelf := n.X == n.PivotX && n.Y == n.PivotY && n.ScaleX == 1 && n.ScaleY == 1
	if aroundSelf {
		if n.Rotation == 0 && !animated {
			return "", ""
		}
		style = "transform-origin: " + formatFloat(n.X) + "px " + formatFloat(n.Y) + "px; " +
			"transform: rotate(" + formatFloat(n.RotationDegrees()) + "deg)"
		if animated {
			style += "; transition: transform " + strconv.FormatInt(d.Milliseconds(), 10) + "ms " + SpinEaseCSS
		}
		return "", style
	}

	var parts []string
	if n.X != 0 || n.Y != 0 {
		parts = append(parts, "translate("+formatFloat(n.X)+" "+formatFloat(n.Y)+")")
	}
	if n.Rotation != 0 {
		parts = append(parts, "rotate("+formatFloat(n.RotationDegrees())+")")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		parts = append(parts, "scale("+formatFloat(n.ScaleX)+" "+formatFloat(n.ScaleY)+")")
	}
	if n.PivotX != 0 || n.PivotY != 0 {
		parts = append(parts, "translate("+formatFloat(-n.PivotX)+" "+formatFloat(-n.PivotY)+")")
	}
	return strings.Join(parts, " "), ""
}

func paint(n *Node) svgPaint {
	var p svgPaint
	p.Fill = "none"
	if n.Fill.A > 0 {
		p.Fill = n.Fill.Hex()
		if n.Fill.A < 1 {
			p.FillOpacity = formatFloat(n.Fill.A)
		}
	}
	if n.Stroke.A > 0 && n.StrokeWidth > 0 {
		p.Stroke = n.Stroke.Hex()
		p.StrokeWidth = formatFloat(n.StrokeWidth)
	}
	if n.Type == NodeTypeLine && p.Stroke == "" {
		p.Stroke = ColorBlack.Hex()
		p.StrokeWidth = formatFloat(math.Max(n.StrokeWidth, 1))
	}
	return p
}

func joinStyle(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
