package arbor

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates a single value on a node and expresses every step as
// a ToWidget message, so animated changes flow through the same handlers as
// any other change. If the target node is freed, the group stops
// immediately.
type TweenGroup struct {
	tween  *gween.Tween
	target Handle
	build  func(target Handle, v float64) *Message
	last   float64
	Done   bool
}

// NewTweenGroup creates a group that tweens from -> to over duration seconds
// and turns each value into a message with build.
func NewTweenGroup(target Handle, from, to float64, duration float32, fn ease.TweenFunc, build func(Handle, float64) *Message) *TweenGroup {
	return &TweenGroup{
		tween:  gween.New(float32(from), float32(to), duration, fn),
		target: target,
		build:  build,
		last:   from,
	}
}

// Target returns the node the group animates.
func (g *TweenGroup) Target() Handle { return g.target }

// Value returns the last value the group produced.
func (g *TweenGroup) Value() float64 { return g.last }

// Update advances the tween by dt seconds and sends the resulting message.
// Nothing is sent once the target is gone.
func (g *TweenGroup) Update(ui *UI, dt float32) {
	if g.Done {
		return
	}
	if !ui.IsValid(g.target) {
		g.Done = true
		return
	}
	val, finished := g.tween.Update(dt)
	g.last = float64(val)
	g.Done = finished
	ui.Send(g.build(g.target, g.last))
}

// AddTween registers g to be advanced on every Tick.
func (ui *UI) AddTween(g *TweenGroup) {
	ui.tweens = append(ui.tweens, g)
}

// Animating reports whether any tween is still running.
func (ui *UI) Animating() bool { return len(ui.tweens) > 0 }

// AnimateSplitRatio moves a split tile's ratio to the given value.
func (ui *UI) AnimateSplitRatio(tile Handle, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	_, t, ok := NodeAs[*Tile](ui, tile)
	if !ok {
		ui.misuse("AnimateSplitRatio", "%s is not a tile", tile)
		return nil
	}
	g := NewTweenGroup(tile, t.content.Ratio, clamp01(to), duration, fn, func(h Handle, v float64) *Message {
		return TileSplitRatioMsg(h, ToWidget, v)
	})
	ui.AddTween(g)
	return g
}

// AnimateWidth tweens a node's explicit width. An Auto width starts from
// the last arranged width.
func (ui *UI) AnimateWidth(h Handle, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	n, ok := ui.nodes.Get(h)
	if !ok {
		ui.misuse("AnimateWidth", "%s does not exist", h)
		return nil
	}
	from := n.width
	if math.IsNaN(from) {
		from = n.actualSize.X
	}
	g := NewTweenGroup(h, from, to, duration, fn, func(h Handle, v float64) *Message {
		return WidthMsg(h, ToWidget, v)
	})
	ui.AddTween(g)
	return g
}

// AnimateHeight tweens a node's explicit height.
func (ui *UI) AnimateHeight(h Handle, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	n, ok := ui.nodes.Get(h)
	if !ok {
		ui.misuse("AnimateHeight", "%s does not exist", h)
		return nil
	}
	from := n.height
	if math.IsNaN(from) {
		from = n.actualSize.Y
	}
	g := NewTweenGroup(h, from, to, duration, fn, func(h Handle, v float64) *Message {
		return HeightMsg(h, ToWidget, v)
	})
	ui.AddTween(g)
	return g
}

func (ui *UI) updateTweens(dt float32) {
	if len(ui.tweens) == 0 {
		return
	}
	live := ui.tweens[:0]
	for _, g := range ui.tweens {
		g.Update(ui, dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(ui.tweens[len(live):])
	ui.tweens = live
}
