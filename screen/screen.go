// Package screen runs a rolloc Scene in an Ebitengine window.
//
// The simplest way to show a wheel is [Run], which creates the window and game
// loop:
//
//	scene := rolloc.NewScene()
//	wheel, _ := rolloc.Create(scene, opts)
//	screen.Run(scene, screen.RunConfig{
//		Title: "Wheel", Width: 500, Height: 500,
//		OnSpin: func() { wheel.Spin(context.Background(), rolloc.SpinOptions{}) },
//	})
//
// For full control, embed a [Game] in your own ebiten.Game and forward
// Update, Draw and Layout.
package screen

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/rolloc"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws the actual FPS and TPS in the top-left corner.
	ShowFPS bool
	// OnSpin is called when the player presses Space or clicks. It runs on the
	// game goroutine and must not block.
	OnSpin func()
	// OnUpdate is called once per tick before the scene advances.
	OnUpdate func() error
	// ScreenshotDir receives PNGs captured with F12 or Game.Screenshot.
	// Default "screenshots".
	ScreenshotDir string
}

// Game is an ebiten.Game drawing a rolloc.Scene.
type Game struct {
	scene *rolloc.Scene
	cfg   RunConfig
	r     *renderer
	shots []string
}

// NewGame creates a Game for scene.
func NewGame(scene *rolloc.Scene, cfg RunConfig) *Game {
	return &Game{scene: scene, cfg: cfg, r: newRenderer()}
}

// Run opens a window and runs scene until the window is closed.
func Run(scene *rolloc.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("screen: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(NewGame(scene, cfg))
}

// Update handles input and advances the scene by one tick.
func (g *Game) Update() error {
	if g.cfg.OnSpin != nil && spinPressed() {
		g.cfg.OnSpin()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("wheel")
	}
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	g.scene.Update(float32(1 / float64(ebiten.TPS())))
	return nil
}

func spinPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// Draw renders the scene.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(toNRGBA(g.scene.ClearColor))
	g.scene.Walk(func(n *rolloc.Node) {
		g.r.drawNode(screen, n)
	})
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	g.flushScreenshots(screen)
}

// Layout returns the configured size; the window scales it.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
