// Package term draws a rolloc wheel in a terminal with tcell.
//
// Terminal cells are about twice as tall as they are wide, so the view maps
// one row to two horizontal units to keep the wheel round. Each cell takes the
// fill of the slice under its center; the anchor and labels are drawn on top.
package term

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/rolloc"
)

const (
	defaultFPS    = 30
	maxLabelRunes = 12
)

// Config configures a View.
type Config struct {
	// FPS is the frame rate of Run. Default 30.
	FPS int
	// Clock drives the frame ticker. Default is the wall clock.
	Clock clock.Clock
	// OnSpin is called on the run goroutine when Space or Enter is pressed.
	OnSpin func()
	// OnFrame is called on the run goroutine before each frame is drawn.
	OnFrame func()
}

// View draws a wheel's layout, animated by scene, onto a tcell screen.
type View struct {
	screen tcell.Screen
	scene  *rolloc.Scene
	layout *rolloc.Layout
	cfg    Config

	Background tcell.Style
}

// NewView creates a view. scene must be the surface the layout is mounted on.
func NewView(screen tcell.Screen, scene *rolloc.Scene, layout *rolloc.Layout, cfg Config) *View {
	if cfg.FPS <= 0 {
		cfg.FPS = defaultFPS
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &View{
		screen:     screen,
		scene:      scene,
		layout:     layout,
		cfg:        cfg,
		Background: tcell.StyleDefault,
	}
}

// Run advances the scene and redraws at the configured frame rate until Esc,
// q or Ctrl-C is pressed or ctx is done. The caller owns the screen: Init it
// before and Fini it after.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	frame := time.Second / time.Duration(v.cfg.FPS)
	ticker := v.cfg.Clock.Ticker(frame)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if v.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if v.cfg.OnFrame != nil {
				v.cfg.OnFrame()
			}
			v.scene.Update(float32(frame.Seconds()))
			v.Draw()
		}
	}
}

// handleEvent reacts to input and reports whether the view should quit.
func (v *View) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch keyAction(ev.Key(), ev.Rune()) {
		case actionQuit:
			return true
		case actionSpin:
			v.spin()
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

type action uint8

const (
	actionNone action = iota
	actionSpin
	actionQuit
)

func keyAction(k tcell.Key, r rune) action {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyEnter:
		return actionSpin
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actionQuit
		case ' ':
			return actionSpin
		}
	}
	return actionNone
}

func (v *View) spin() {
	if v.cfg.OnSpin != nil {
		v.cfg.OnSpin()
	}
}

// Draw renders one frame and shows it.
func (v *View) Draw() {
	cols, rows := v.screen.Size()
	v.screen.Clear()
	g := newGrid(v.layout, cols, rows)
	fills := sliceFills(v.layout)

	cellStyle := func(c, r int) tcell.Style {
		x, y := g.toWorld(c, r)
		return v.styleAt(fills, x, y)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v.screen.SetContent(c, r, ' ', nil, cellStyle(c, r))
		}
	}

	if labels := v.layout.Wheel.Find("labels"); labels != nil {
		for _, n := range labels.Children() {
			v.drawLabel(g, n, cellStyle)
		}
	}
	v.drawAnchor(g, cellStyle)
	v.screen.Show()
}

// styleAt returns the background style of the world point (x, y).
func (v *View) styleAt(fills []rolloc.Color, x, y float64) tcell.Style {
	l := v.layout
	d := math.Hypot(x-l.Center.X, y-l.Center.Y)
	switch {
	case d > l.Radius:
		return v.Background
	case v.layout.Hub != nil && d <= v.layout.Hub.Radius:
		return tcell.StyleDefault.Background(toColor(v.layout.Hub.Fill))
	}

	lx, ly := l.Wheel.WorldToLocal(x, y)
	angle := math.Atan2(ly-l.Center.Y, lx-l.Center.X) * 180 / math.Pi
	i := l.Slices.Index(angle)
	if i < 0 || i >= len(fills) {
		return v.Background
	}
	return tcell.StyleDefault.Background(toColor(fills[i]))
}

func (v *View) drawLabel(g grid, n *rolloc.Node, cellStyle func(c, r int) tcell.Style) {
	runes := []rune(n.Text)
	if len(runes) > maxLabelRunes {
		runes = runes[:maxLabelRunes]
	}
	x, y := n.LocalToWorld(0, 0)
	c0, r := g.toCell(x, y)
	c0 -= len(runes) / 2
	for i, ch := range runes {
		c := c0 + i
		if !g.contains(c, r) {
			continue
		}
		v.screen.SetContent(c, r, ch, nil, cellStyle(c, r).Foreground(toColor(n.Fill)))
	}
}

func (v *View) drawAnchor(g grid, cellStyle func(c, r int) tcell.Style) {
	a := v.layout.Anchor
	if a == nil || len(a.Points) < 2 {
		return
	}
	pts := make([]rolloc.Vec2, len(a.Points))
	for i, p := range a.Points {
		pts[i].X, pts[i].Y = a.LocalToWorld(p.X, p.Y)
	}
	edges := len(pts)
	if a.Type == rolloc.NodeTypeLine {
		edges = 1
	}
	fg := toColor(rolloc.ColorBlack)
	for i := 0; i < edges; i++ {
		p, q := pts[i], pts[(i+1)%len(pts)]
		steps := int(math.Ceil(math.Hypot(q.X-p.X, q.Y-p.Y)/(g.unit/2))) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			c, r := g.toCell(p.X+(q.X-p.X)*t, p.Y+(q.Y-p.Y)*t)
			if g.contains(c, r) {
				v.screen.SetContent(c, r, '█', nil, cellStyle(c, r).Foreground(fg))
			}
		}
	}
}

// sliceFills returns the fill of every wedge indexed by item.
func sliceFills(l *rolloc.Layout) []rolloc.Color {
	fills := make([]rolloc.Color, len(l.Slices))
	slices := l.Wheel.Find("slices")
	if slices == nil {
		return fills
	}
	for _, n := range slices.Children() {
		if i, ok := n.UserData.(int); ok && i >= 0 && i < len(fills) {
			fills[i] = n.Fill
		}
	}
	return fills
}

// grid maps terminal cells to layout coordinates. A column is unit wide and a
// row 2*unit tall; the layout square is centered in the terminal.
type grid struct {
	cols, rows int
	unit       float64
	ox, oy     float64
}

func newGrid(l *rolloc.Layout, cols, rows int) grid {
	size := l.Config.Size
	g := grid{cols: cols, rows: rows, unit: 1}
	if cols > 0 && rows > 0 {
		g.unit = math.Max(size/float64(cols), size/float64(2*rows))
	}
	g.ox = (float64(cols)*g.unit - size) / 2
	g.oy = (float64(rows)*2*g.unit - size) / 2
	return g
}

// toWorld returns the layout point at the center of cell (c, r).
func (g grid) toWorld(c, r int) (x, y float64) {
	return (float64(c)+0.5)*g.unit - g.ox, (float64(r)+0.5)*2*g.unit - g.oy
}

// toCell returns the cell containing the layout point (x, y).
func (g grid) toCell(x, y float64) (c, r int) {
	return int(math.Floor((x + g.ox) / g.unit)), int(math.Floor((y + g.oy) / (2 * g.unit)))
}

func (g grid) contains(c, r int) bool {
	return c >= 0 && r >= 0 && c < g.cols && r < g.rows
}

func toColor(c rolloc.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Max(0, math.Min(1, v))*255 + 0.5)
}
