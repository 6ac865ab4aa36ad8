package arbor

import "math"

// InvalidateLayout marks h and every ancestor for re-measure and
// re-arrange. Clean siblings keep their caches and are skipped.
func (ui *UI) InvalidateLayout(h Handle) {
	for n, ok := ui.nodes.Get(h); ok; n, ok = ui.nodes.Get(n.parent) {
		n.measureValid = false
		n.arrangeValid = false
	}
}

// IsLayoutValid reports whether h's measure and arrange caches are clean.
func (ui *UI) IsLayoutValid(h Handle) bool {
	n, ok := ui.nodes.Get(h)
	return ok && n.measureValid && n.arrangeValid
}

// UpdateLayout measures and arranges the tree against the screen size and
// then recomputes screen-space bounds. Clean subtrees reuse their caches.
func (ui *UI) UpdateLayout() {
	ui.MeasureNode(ui.root, ui.screenSize)
	ui.ArrangeNode(ui.root, Rect{Width: ui.screenSize.X, Height: ui.screenSize.Y})
	ui.updateScreenBounds(ui.root, Vec2{}, true)
}

// MeasureNode runs the measure pass on h. Widgets call it for each child
// from their Measure. The result includes the node's margin.
func (ui *UI) MeasureNode(h Handle, available Vec2) Vec2 {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return Vec2{}
	}
	if n.measureValid && n.prevMeasure == available {
		return n.desiredSize
	}
	n.measureValid = true
	n.prevMeasure = available
	// Any new measurement may change what the arrange pass produces.
	n.arrangeValid = false

	if !n.visible {
		n.desiredSize = Vec2{}
		return n.desiredSize
	}

	inner := Vec2{
		X: math.Max(0, available.X-n.margin.Horizontal()),
		Y: math.Max(0, available.Y-n.margin.Vertical()),
	}
	if !math.IsNaN(n.width) {
		inner.X = n.width
	}
	if !math.IsNaN(n.height) {
		inner.Y = n.height
	}
	inner = clampVec(inner, n.minSize, n.maxSize)

	desired := n.widget.Measure(ui, n, inner)
	if !math.IsNaN(n.width) {
		desired.X = n.width
	}
	if !math.IsNaN(n.height) {
		desired.Y = n.height
	}
	desired = clampVec(desired, n.minSize, n.maxSize)
	if !math.IsInf(inner.X, 1) {
		desired.X = math.Min(desired.X, inner.X)
	}
	if !math.IsInf(inner.Y, 1) {
		desired.Y = math.Min(desired.Y, inner.Y)
	}

	n.desiredSize = Vec2{
		X: desired.X + n.margin.Horizontal(),
		Y: desired.Y + n.margin.Vertical(),
	}
	return n.desiredSize
}

// ArrangeNode runs the arrange pass on h with the slot its parent gives it,
// in the parent's local coordinates.
func (ui *UI) ArrangeNode(h Handle, slot Rect) {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return
	}
	if n.arrangeValid && n.prevArrange == slot {
		return
	}
	n.arrangeValid = true
	n.prevArrange = slot

	if !n.visible {
		return
	}

	x := slot.X + n.margin.Left
	y := slot.Y + n.margin.Top
	w := math.Max(0, slot.Width-n.margin.Horizontal())
	ht := math.Max(0, slot.Height-n.margin.Vertical())

	size := Vec2{w, ht}
	if n.hAlign != HAlignStretch {
		size.X = math.Min(n.desiredSize.X-n.margin.Horizontal(), w)
	}
	if n.vAlign != VAlignStretch {
		size.Y = math.Min(n.desiredSize.Y-n.margin.Vertical(), ht)
	}
	if !math.IsNaN(n.width) {
		size.X = n.width
	}
	if !math.IsNaN(n.height) {
		size.Y = n.height
	}
	size = clampVec(size, n.minSize, n.maxSize)

	size = n.widget.Arrange(ui, n, size)
	size = size.Min(Vec2{w, ht})

	var ox, oy float64
	switch n.hAlign {
	case HAlignCenter:
		ox = (w - size.X) / 2
	case HAlignRight:
		ox = w - size.X
	}
	switch n.vAlign {
	case VAlignCenter:
		oy = (ht - size.Y) / 2
	case VAlignBottom:
		oy = ht - size.Y
	}

	n.actualPosition = Vec2{x + ox, y + oy}
	n.actualSize = size
}

// updateScreenBounds converts local positions to screen space and resolves
// global visibility.
func (ui *UI) updateScreenBounds(h Handle, origin Vec2, parentVisible bool) {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return
	}
	n.globalVisible = parentVisible && n.visible
	pos := origin.Add(n.actualPosition)
	n.screenBounds = Rect{X: pos.X, Y: pos.Y, Width: n.actualSize.X, Height: n.actualSize.Y}
	for _, c := range n.children {
		ui.updateScreenBounds(c, pos, n.globalVisible)
	}
}

// --- StackPanel ---

// StackPanel lays its children out one after another along Orientation.
type StackPanel struct {
	Base
	Orientation Orientation
}

// NewStackPanel builds a stack panel under parent.
func (ui *UI) NewStackPanel(parent Handle, name string, o Orientation, children ...Handle) Handle {
	return ui.Add(parent, NewNode(name, &StackPanel{Orientation: o}).WithChildren(children...))
}

// Measure gives every child unbounded space along the stacking axis.
func (s *StackPanel) Measure(ui *UI, n *Node, available Vec2) Vec2 {
	var size Vec2
	for _, c := range n.children {
		if s.Orientation == Vertical {
			d := ui.MeasureNode(c, Vec2{available.X, math.Inf(1)})
			size.X = math.Max(size.X, d.X)
			size.Y += d.Y
		} else {
			d := ui.MeasureNode(c, Vec2{math.Inf(1), available.Y})
			size.X += d.X
			size.Y = math.Max(size.Y, d.Y)
		}
	}
	return size
}

// Arrange stacks children at their desired extent along the axis.
func (s *StackPanel) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	var offset float64
	for _, c := range n.children {
		cn, ok := ui.nodes.Get(c)
		if !ok {
			continue
		}
		if s.Orientation == Vertical {
			ui.ArrangeNode(c, Rect{Y: offset, Width: final.X, Height: cn.desiredSize.Y})
			offset += cn.desiredSize.Y
		} else {
			ui.ArrangeNode(c, Rect{X: offset, Width: cn.desiredSize.X, Height: final.Y})
			offset += cn.desiredSize.X
		}
	}
	return final
}

// --- Border ---

// Border is a plain rectangle with a background. Tiles use it for drop
// anchors and splitters; applications use it as a generic container.
type Border struct{ Base }

// NewBorder builds a border under parent.
func (ui *UI) NewBorder(parent Handle, n *Node) Handle {
	if n.widget == nil {
		n.widget = &Border{}
	}
	return ui.Add(parent, n)
}
