package arbor

import (
	"fmt"
	"math"
)

// TileKind is the state a Tile is in.
type TileKind uint8

const (
	TileEmpty  TileKind = iota // hosts nothing
	TileWindow                 // hosts one docked window
	TileSplit                  // split between two child tiles
)

func (k TileKind) String() string {
	switch k {
	case TileWindow:
		return "window"
	case TileSplit:
		return "split"
	default:
		return "empty"
	}
}

// TileContent is what a tile hosts. Window is set for TileWindow; Axis,
// Ratio and Tiles are set for TileSplit.
type TileContent struct {
	Kind   TileKind
	Window Handle
	Axis   Orientation
	Ratio  float64
	Tiles  [2]Handle
}

// EmptyContent returns the empty state.
func EmptyContent() TileContent { return TileContent{Kind: TileEmpty} }

// WindowContent returns the state hosting window.
func WindowContent(window Handle) TileContent {
	return TileContent{Kind: TileWindow, Window: window}
}

// SplitContent returns the state split between first and second. Ratio is
// the share of the first tile and is clamped to [0, 1].
func SplitContent(axis Orientation, ratio float64, first, second Handle) TileContent {
	return TileContent{Kind: TileSplit, Axis: axis, Ratio: clamp01(ratio), Tiles: [2]Handle{first, second}}
}

func (c TileContent) String() string {
	switch c.Kind {
	case TileWindow:
		return fmt.Sprintf("window(%s)", c.Window)
	case TileSplit:
		return fmt.Sprintf("split(%s, %.2f, %s, %s)", c.Axis, c.Ratio, c.Tiles[0], c.Tiles[1])
	default:
		return "empty"
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Max(0, math.Min(1, v))
}

// AnchorSide names a tile's drop anchors.
type AnchorSide uint8

const (
	AnchorLeft AnchorSide = iota
	AnchorRight
	AnchorTop
	AnchorBottom
	AnchorCenter
	anchorCount
)

var (
	anchorColor      = Color{0.3, 0.5, 0.9, 0.5}
	anchorArmedColor = Color{0.3, 0.5, 0.9, 0.9}
	splitterColor    = Color{0.2, 0.2, 0.2, 1}
)

// --- Tile messages ---

// TileSetContent replaces a tile's content.
type TileSetContent struct{ Content TileContent }

// TileSplitWindow splits a tile hosting a single window, docking Window
// into the first or second half along Axis.
type TileSplitWindow struct {
	Window Handle
	Axis   Orientation
	First  bool
}

// TileSplitRatio moves the splitter of a split tile.
type TileSplitRatio struct{ Ratio float64 }

// TileContentMsg builds a TileSetContent message.
func TileContentMsg(dest Handle, dir Direction, c TileContent) *Message {
	return NewMessage(dest, dir, TileSetContent{Content: c})
}

// TileSplitMsg builds a TileSplitWindow message.
func TileSplitMsg(dest Handle, dir Direction, window Handle, axis Orientation, first bool) *Message {
	return NewMessage(dest, dir, TileSplitWindow{Window: window, Axis: axis, First: first})
}

// TileSplitRatioMsg builds a TileSplitRatio message.
func TileSplitRatioMsg(dest Handle, dir Direction, ratio float64) *Message {
	return NewMessage(dest, dir, TileSplitRatio{Ratio: ratio})
}

// --- Tile ---

// Tile is a docking container. It hosts nothing, one window, or two child
// tiles separated by a draggable splitter. Tiles restructure themselves in
// response to window drags, closes and splits.
type Tile struct {
	Base

	content  TileContent
	splitter Handle
	anchors  [anchorCount]Handle

	// dropAnchor is the anchor armed by the current drag, if any.
	dropAnchor       Handle
	splitterDragging bool
	// merging is set while a merge is queued so the notifications it
	// causes do not start a second one.
	merging bool
}

// NewTile builds a tile under parent hosting content. Windows and tiles
// named by content are linked immediately.
func (ui *UI) NewTile(parent Handle, name string, content TileContent) Handle {
	t := &Tile{}
	n := NewNode(name, t).WithHitTest(false)
	n.previewMessages = true
	h := ui.Add(parent, n)

	size := ui.dock.AnchorSize
	for i := range t.anchors {
		t.anchors[i] = ui.NewBorder(h, NewNode(fmt.Sprintf("%s.anchor%d", name, i), &Border{}).
			WithSize(size, size).
			WithVisibility(false).
			WithHitTest(false).
			WithBackground(anchorColor))
	}
	t.splitter = ui.NewBorder(h, NewNode(name+".splitter", &Border{}).
		WithVisibility(false).
		WithBackground(splitterColor))

	t.content = content
	t.content.Ratio = clamp01(content.Ratio)
	switch content.Kind {
	case TileWindow:
		ui.link(content.Window, h)
		if wn, w, ok := NodeAs[*Window](ui, content.Window); ok {
			w.canResize = false
			wn.width, wn.height = Auto, Auto
		}
	case TileSplit:
		ui.link(content.Tiles[0], h)
		ui.link(content.Tiles[1], h)
		if sn, ok := ui.nodes.Get(t.splitter); ok {
			sn.visible = true
		}
	}
	return h
}

// Content returns the current content.
func (t *Tile) Content() TileContent { return t.content }

// Splitter returns the splitter node.
func (t *Tile) Splitter() Handle { return t.splitter }

// Anchor returns the drop anchor on the given side.
func (t *Tile) Anchor(side AnchorSide) Handle { return t.anchors[side] }

// DropAnchor returns the anchor armed by the current drag, or NoHandle.
func (t *Tile) DropAnchor() Handle { return t.dropAnchor }

// Measure sizes the content. Split tiles give each half its ratio of the
// available space minus half the splitter.
func (t *Tile) Measure(ui *UI, n *Node, available Vec2) Vec2 {
	for _, a := range t.anchors {
		ui.MeasureNode(a, available)
	}
	s := ui.dock.SplitterSize
	switch t.content.Kind {
	case TileWindow:
		return ui.MeasureNode(t.content.Window, available)
	case TileSplit:
		r := t.content.Ratio
		if t.content.Axis == Horizontal {
			ui.MeasureNode(t.splitter, Vec2{s, available.Y})
			a := ui.MeasureNode(t.content.Tiles[0], Vec2{math.Max(0, available.X*r-s/2), available.Y})
			b := ui.MeasureNode(t.content.Tiles[1], Vec2{math.Max(0, available.X*(1-r)-s/2), available.Y})
			return Vec2{a.X + b.X + s, math.Max(a.Y, b.Y)}
		}
		ui.MeasureNode(t.splitter, Vec2{available.X, s})
		a := ui.MeasureNode(t.content.Tiles[0], Vec2{available.X, math.Max(0, available.Y*r-s/2)})
		b := ui.MeasureNode(t.content.Tiles[1], Vec2{available.X, math.Max(0, available.Y*(1-r)-s/2)})
		return Vec2{math.Max(a.X, b.X), a.Y + b.Y + s}
	}
	return Vec2{}
}

// Arrange fills the tile with its content and lays the drop anchors out as
// a cross around the center.
func (t *Tile) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	a := ui.dock.AnchorSize
	cx := final.X/2 - a/2
	cy := final.Y/2 - a/2
	ui.ArrangeNode(t.anchors[AnchorCenter], Rect{X: cx, Y: cy, Width: a, Height: a})
	ui.ArrangeNode(t.anchors[AnchorLeft], Rect{X: cx - a, Y: cy, Width: a, Height: a})
	ui.ArrangeNode(t.anchors[AnchorRight], Rect{X: cx + a, Y: cy, Width: a, Height: a})
	ui.ArrangeNode(t.anchors[AnchorTop], Rect{X: cx, Y: cy - a, Width: a, Height: a})
	ui.ArrangeNode(t.anchors[AnchorBottom], Rect{X: cx, Y: cy + a, Width: a, Height: a})

	s := ui.dock.SplitterSize
	full := Rect{Width: final.X, Height: final.Y}
	switch t.content.Kind {
	case TileWindow:
		ui.ArrangeNode(t.content.Window, full)
	case TileSplit:
		r := t.content.Ratio
		if t.content.Axis == Horizontal {
			at := math.Max(0, final.X*r-s/2)
			ui.ArrangeNode(t.content.Tiles[0], Rect{Width: at, Height: final.Y})
			ui.ArrangeNode(t.splitter, Rect{X: at, Width: s, Height: final.Y})
			ui.ArrangeNode(t.content.Tiles[1], Rect{X: at + s, Width: math.Max(0, final.X-at-s), Height: final.Y})
		} else {
			at := math.Max(0, final.Y*r-s/2)
			ui.ArrangeNode(t.content.Tiles[0], Rect{Width: final.X, Height: at})
			ui.ArrangeNode(t.splitter, Rect{Y: at, Width: final.X, Height: s})
			ui.ArrangeNode(t.content.Tiles[1], Rect{Y: at + s, Width: final.X, Height: math.Max(0, final.Y-at-s)})
		}
	}
	return final
}

// HandleMessage runs the tile state machine.
func (t *Tile) HandleMessage(ui *UI, n *Node, m *Message) {
	switch d := m.Data().(type) {
	case TileSetContent:
		if m.IsFor(n.handle, ToWidget) {
			t.setContent(ui, n, d.Content)
		}
	case TileSplitWindow:
		if m.IsFor(n.handle, ToWidget) {
			t.split(ui, n, d)
		}
	case TileSplitRatio:
		if m.IsFor(n.handle, ToWidget) {
			t.setRatio(ui, n, d.Ratio)
		}
	case MouseDown:
		if m.Destination() == t.splitter && !m.Handled() && t.content.Kind == TileSplit {
			t.splitterDragging = true
			ui.CaptureMouse(t.splitter)
			m.SetHandled(true)
		}
	case MouseMove:
		if m.Destination() == t.splitter && t.splitterDragging {
			b := n.screenBounds
			var r float64
			if t.content.Axis == Horizontal && b.Width > 0 {
				r = (d.Pos.X - b.X) / b.Width
			} else if b.Height > 0 {
				r = (d.Pos.Y - b.Y) / b.Height
			}
			ui.Send(TileSplitRatioMsg(n.handle, ToWidget, r))
			m.SetHandled(true)
		}
	case MouseUp:
		if m.Destination() == t.splitter && t.splitterDragging {
			t.splitterDragging = false
			if ui.Captured() == t.splitter {
				ui.ReleaseMouseCapture()
			}
			m.SetHandled(true)
		}
	case WindowMove:
		if m.Direction() == FromWidget && t.content.Kind == TileWindow && t.content.Window == m.Destination() {
			if _, w, ok := NodeAs[*Window](ui, m.Destination()); ok && w.DragDelta().Len() > ui.dock.UndockThreshold {
				t.undock(ui, n, m.Destination())
			}
		}
	case WindowClose:
		if m.Direction() == FromWidget {
			t.mergeOnClose(ui, n, m.Destination())
		}
	case Unlink:
		if m.Direction() == ToWidget {
			t.mergeOnEmpty(ui, n)
		}
	}
}

// setContent switches state and brings parentage, splitter visibility and
// window resizing in line with it.
func (t *Tile) setContent(ui *UI, n *Node, c TileContent) {
	c.Ratio = clamp01(c.Ratio)
	if c.Kind != TileSplit {
		c.Axis, c.Ratio, c.Tiles = 0, 0, [2]Handle{}
	}
	if c.Kind != TileWindow {
		c.Window = NoHandle
	}
	if t.content == c {
		return
	}
	old := t.content
	t.content = c
	t.merging = false

	if old.Kind == TileWindow && !hostsWindow(ui, c, old.Window) {
		if wn, ok := ui.nodes.Get(old.Window); ok && wn.parent == n.handle {
			ui.Send(UnlinkMsg(old.Window, ToWidget))
		}
	}

	switch c.Kind {
	case TileEmpty:
		ui.Send(VisibilityMsg(t.splitter, ToWidget, false))
	case TileWindow:
		ui.Send(LinkWithMsg(c.Window, ToWidget, n.handle))
		ui.Send(VisibilityMsg(t.splitter, ToWidget, false))
		ui.Send(WindowCanResizeMsg(c.Window, ToWidget, false))
		// Docked windows stretch to the tile.
		ui.Send(WidthMsg(c.Window, ToWidget, Auto))
		ui.Send(HeightMsg(c.Window, ToWidget, Auto))
	case TileSplit:
		ui.Send(LinkWithMsg(c.Tiles[0], ToWidget, n.handle))
		ui.Send(LinkWithMsg(c.Tiles[1], ToWidget, n.handle))
		ui.Send(VisibilityMsg(t.splitter, ToWidget, true))
	}
	ui.InvalidateLayout(n.handle)
	ui.Send(TileContentMsg(n.handle, FromWidget, c))
}

// hostsWindow reports whether c hosts window directly or in one of its
// immediate child tiles.
func hostsWindow(ui *UI, c TileContent, window Handle) bool {
	switch c.Kind {
	case TileWindow:
		return c.Window == window
	case TileSplit:
		for _, th := range c.Tiles {
			if _, st, ok := NodeAs[*Tile](ui, th); ok && st.content.Kind == TileWindow && st.content.Window == window {
				return true
			}
		}
	}
	return false
}

// split turns a single-window tile into two child tiles.
func (t *Tile) split(ui *UI, n *Node, d TileSplitWindow) {
	if t.content.Kind != TileWindow {
		ui.misuse("TileSplit", "tile %q is %s, not hosting a single window", n.Name, t.content.Kind)
		return
	}
	existing := t.content.Window
	if existing == d.Window || !ui.nodes.IsValid(d.Window) {
		ui.misuse("TileSplit", "tile %q cannot split with window %s", n.Name, d.Window)
		return
	}

	first := ui.NewTile(n.handle, n.Name+".a", EmptyContent())
	second := ui.NewTile(n.handle, n.Name+".b", EmptyContent())
	docked, other := first, second
	if !d.First {
		docked, other = second, first
	}
	ui.Send(TileContentMsg(other, ToWidget, WindowContent(existing)))
	ui.Send(TileContentMsg(docked, ToWidget, WindowContent(d.Window)))
	ui.Send(TileContentMsg(n.handle, ToWidget, SplitContent(d.Axis, 0.5, first, second)))
	ui.log.Debug("tile split", "subsystem", "dock", "tile", n.Name, "axis", d.Axis.String(), "first", d.First)
}

func (t *Tile) setRatio(ui *UI, n *Node, ratio float64) {
	r := clamp01(ratio)
	if t.content.Kind != TileSplit || t.content.Ratio == r {
		return
	}
	t.content.Ratio = r
	ui.InvalidateLayout(n.handle)
	ui.Send(TileSplitRatioMsg(n.handle, FromWidget, r))
}

// undock tears the hosted window out of the tile and hands it to the
// docking manager as a floating window.
func (t *Tile) undock(ui *UI, n *Node, window Handle) {
	ui.Send(TileContentMsg(n.handle, ToWidget, EmptyContent()))
	ui.Send(WindowCanResizeMsg(window, ToWidget, true))
	if wn, ok := ui.nodes.Get(window); ok {
		// Keep the docked size once floating.
		ui.Send(WidthMsg(window, ToWidget, wn.actualSize.X))
		ui.Send(HeightMsg(window, ToWidget, wn.actualSize.Y))
	}
	if _, dm, ok := FindUpAs[*DockingManager](ui, n.handle); ok {
		dm.addFloating(window)
	}
	ui.log.Debug("window undocked", "subsystem", "dock", "tile", n.Name, "window", window.String())
}

// mergeOnEmpty collapses a split whose child just became empty: the other
// child's content moves up into this tile.
func (t *Tile) mergeOnEmpty(ui *UI, n *Node) {
	if t.content.Kind != TileSplit || t.merging {
		return
	}
	empty := -1
	for i, th := range t.content.Tiles {
		if _, st, ok := NodeAs[*Tile](ui, th); ok && st.content.Kind == TileEmpty {
			if empty >= 0 {
				// Both halves empty; nothing to hoist.
				return
			}
			empty = i
		}
	}
	if empty < 0 {
		return
	}
	t.hoist(ui, n, t.content.Tiles[1-empty])
}

// mergeOnClose collapses a split when the window hosted by one of its
// children was closed. The closed window becomes floating.
func (t *Tile) mergeOnClose(ui *UI, n *Node, window Handle) {
	if t.content.Kind != TileSplit || t.merging {
		return
	}
	for i, th := range t.content.Tiles {
		_, st, ok := NodeAs[*Tile](ui, th)
		if !ok || st.content.Kind != TileWindow || st.content.Window != window {
			continue
		}
		ui.Send(TileContentMsg(th, ToWidget, EmptyContent()))
		// Unlink now so removing the child tile cannot take the window with it.
		ui.Send(UnlinkMsg(window, ToWidget))
		ui.Send(WindowCanResizeMsg(window, ToWidget, true))
		if _, dm, ok := FindUpAs[*DockingManager](ui, n.handle); ok {
			dm.addFloating(window)
		}
		t.hoist(ui, n, t.content.Tiles[1-i])
		return
	}
}

// hoist moves sibling's content into this tile and removes both children.
// Nested splits are flattened by one level each time this runs.
func (t *Tile) hoist(ui *UI, n *Node, sibling Handle) {
	_, st, ok := NodeAs[*Tile](ui, sibling)
	if !ok {
		return
	}
	t.merging = true
	c := st.content
	// Re-parent before the child tiles are removed; removal is recursive.
	switch c.Kind {
	case TileWindow:
		ui.Send(LinkWithMsg(c.Window, ToWidget, n.handle))
	case TileSplit:
		ui.Send(LinkWithMsg(c.Tiles[0], ToWidget, n.handle))
		ui.Send(LinkWithMsg(c.Tiles[1], ToWidget, n.handle))
	}
	ui.Send(TileContentMsg(n.handle, ToWidget, c))
	for _, th := range t.content.Tiles {
		ui.Send(RemoveMsg(th, ToWidget))
	}
	ui.log.Debug("tiles merged", "subsystem", "dock", "tile", n.Name, "content", c.Kind.String())
}

// Preview drives drag-to-dock for floating windows: anchors light up while
// a floating window moves and the armed one decides where it docks on
// release.
func (t *Tile) Preview(ui *UI, n *Node, m *Message) {
	if m.Direction() != FromWidget {
		return
	}
	switch m.Data().(type) {
	case WindowMove:
		if !t.isFloating(ui, n, m.Destination()) {
			return
		}
		if t.content.Kind == TileSplit {
			return
		}
		t.showAnchors(ui, true)
		t.armAnchor(ui, ui.CursorPosition())
	case WindowMoveEnd:
		if !t.isFloating(ui, n, m.Destination()) {
			return
		}
		t.showAnchors(ui, false)
		armed := t.dropAnchor
		t.dropAnchor = NoHandle
		if armed.IsNone() {
			return
		}
		ui.Send(BackgroundMsg(armed, ToWidget, anchorColor))
		t.dock(ui, n, m.Destination(), armed)
	}
}

func (t *Tile) isFloating(ui *UI, n *Node, window Handle) bool {
	_, dm, ok := FindUpAs[*DockingManager](ui, n.handle)
	return ok && dm.IsFloating(window)
}

func (t *Tile) showAnchors(ui *UI, visible bool) {
	for _, a := range t.anchors {
		ui.Send(VisibilityMsg(a, ToWidget, visible))
	}
}

// armAnchor hit-tests pos against each visible anchor and highlights the
// first match.
func (t *Tile) armAnchor(ui *UI, pos Vec2) {
	prev := t.dropAnchor
	t.dropAnchor = NoHandle
	for _, a := range t.anchors {
		an, ok := ui.nodes.Get(a)
		if !ok || !an.globalVisible {
			continue
		}
		if an.screenBounds.Contains(pos.X, pos.Y) {
			t.dropAnchor = a
			break
		}
	}
	if prev == t.dropAnchor {
		return
	}
	if prev.IsSome() {
		ui.Send(BackgroundMsg(prev, ToWidget, anchorColor))
	}
	if t.dropAnchor.IsSome() {
		ui.Send(BackgroundMsg(t.dropAnchor, ToWidget, anchorArmedColor))
	}
}

// dock applies a drop on the given anchor.
func (t *Tile) dock(ui *UI, n *Node, window, anchor Handle) {
	switch t.content.Kind {
	case TileEmpty:
		if anchor == t.anchors[AnchorCenter] {
			ui.Send(TileContentMsg(n.handle, ToWidget, WindowContent(window)))
		}
	case TileWindow:
		switch anchor {
		case t.anchors[AnchorLeft]:
			ui.Send(TileSplitMsg(n.handle, ToWidget, window, Horizontal, true))
		case t.anchors[AnchorRight]:
			ui.Send(TileSplitMsg(n.handle, ToWidget, window, Horizontal, false))
		case t.anchors[AnchorTop]:
			ui.Send(TileSplitMsg(n.handle, ToWidget, window, Vertical, true))
		case t.anchors[AnchorBottom]:
			ui.Send(TileSplitMsg(n.handle, ToWidget, window, Vertical, false))
		}
	}
	ui.log.Debug("window docked", "subsystem", "dock", "tile", n.Name, "window", window.String())
}
