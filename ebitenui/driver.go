// Package ebitenui runs an arbor UI inside an Ebitengine window. It is the
// platform event source and a debug renderer that fills each visible
// node's bounds with its background color.
package ebitenui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/arbor"
)

// RunConfig holds optional settings for Run.
type RunConfig struct {
	// Title sets the window title.
	Title string
	// Width and Height set the window size in device-independent pixels.
	// If zero, defaults to 1280x720.
	Width, Height int
	// ClearColor fills the screen before nodes are drawn.
	ClearColor arbor.Color
	// ShowNames prints window titles and tile names over their bounds.
	ShowNames bool
	// ShowFPS prints frame rate stats in the corner.
	ShowFPS bool
	// OnResize, if set, is called after the window size changes.
	OnResize func(size arbor.Vec2)
}

// Driver implements ebiten.Game around a UI.
type Driver struct {
	ui  *arbor.UI
	cfg RunConfig

	frame      frameInput
	events     []arbor.Event
	lastCursor arbor.Vec2
}

// NewDriver wraps ui.
func NewDriver(ui *arbor.UI, cfg RunConfig) *Driver {
	return &Driver{ui: ui, cfg: cfg, lastCursor: arbor.Vec2{X: -1, Y: -1}}
}

// Update polls input, queues it as events and ticks the UI.
func (d *Driver) Update() error {
	pollInput(&d.frame)
	d.events = translate(&d.frame, d.lastCursor, d.events[:0])
	d.lastCursor = d.frame.cursor
	for _, ev := range d.events {
		d.ui.PushEvent(ev)
	}
	d.ui.Tick(1 / float32(ebiten.TPS()))
	return nil
}

// Draw fills every globally visible node with its background, parents
// before children.
func (d *Driver) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(d.cfg.ClearColor))
	for n := range d.ui.Walk(d.ui.Root()) {
		if !n.GloballyVisible() {
			continue
		}
		b := n.ScreenBounds()
		if bg := n.Background(); bg.A > 0 && b.Width > 0 && b.Height > 0 {
			vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), toRGBA(bg), false)
		}
		if d.cfg.ShowNames {
			if w, ok := n.Widget().(*arbor.Window); ok {
				ebitenutil.DebugPrintAt(screen, w.Title, int(b.X)+4, int(b.Y)+4)
			}
		}
	}
	if d.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout resizes the UI to the window.
func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := arbor.Vec2{X: float64(outsideWidth), Y: float64(outsideHeight)}
	if size != d.ui.ScreenSize() {
		d.ui.SetScreenSize(size)
		if d.cfg.OnResize != nil {
			d.cfg.OnResize(size)
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives ui until the window is closed.
func Run(ui *arbor.UI, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ui.SetScreenSize(arbor.Vec2{X: float64(w), Y: float64(h)})
	ui.Logger().Info("starting", "subsystem", "ebitenui", "width", w, "height", h)
	return ebiten.RunGame(NewDriver(ui, cfg))
}

func toRGBA(c arbor.Color) color.RGBA {
	clamp := func(v float64) uint8 {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	a := clamp(c.A)
	// Premultiplied, as ebiten expects.
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: a,
	}
}
