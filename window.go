package arbor

import "math"

const defaultHeaderHeight = 24.0

// --- Window messages ---

// WindowOpen shows a hidden window and brings it to the top.
type WindowOpen struct{}

// WindowClose hides a window. Docked windows are also taken out of their
// tile by the tile's close handling.
type WindowClose struct{}

// WindowMoveStart begins a header drag.
type WindowMoveStart struct{}

// WindowMove moves a window being dragged to Position.
type WindowMove struct{ Position Vec2 }

// WindowMoveEnd finishes a header drag.
type WindowMoveEnd struct{}

// WindowCanResize toggles user resizing.
type WindowCanResize struct{ Value bool }

// WindowOpenMsg builds a WindowOpen message.
func WindowOpenMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, WindowOpen{})
}

// WindowCloseMsg builds a WindowClose message.
func WindowCloseMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, WindowClose{})
}

// WindowMoveStartMsg builds a WindowMoveStart message.
func WindowMoveStartMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, WindowMoveStart{})
}

// WindowMoveMsg builds a WindowMove message.
func WindowMoveMsg(dest Handle, dir Direction, pos Vec2) *Message {
	return NewMessage(dest, dir, WindowMove{Position: pos})
}

// WindowMoveEndMsg builds a WindowMoveEnd message.
func WindowMoveEndMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, WindowMoveEnd{})
}

// WindowCanResizeMsg builds a WindowCanResize message.
func WindowCanResizeMsg(dest Handle, dir Direction, v bool) *Message {
	return NewMessage(dest, dir, WindowCanResize{Value: v})
}

// --- Window ---

// WindowConfig describes a window to build.
type WindowConfig struct {
	Title    string
	Position Vec2
	// Width and Height are the floating size. Zero means Auto.
	Width, Height float64
	// Content is linked under the window's body. May be NoHandle.
	Content Handle
	// HeaderHeight defaults to 24.
	HeaderHeight float64
	// FixedSize disables user resizing.
	FixedSize bool
}

// Window is a movable panel with a header. Dragging the header moves the
// window; docked windows are torn out of their tile once dragged far
// enough.
type Window struct {
	Base
	Title string

	header       Handle
	content      Handle
	headerHeight float64
	canResize    bool

	pressed    bool
	dragging   bool
	pressPos   Vec2
	initialPos Vec2
	dragDelta  Vec2
}

// NewWindow builds a window under parent.
func (ui *UI) NewWindow(parent Handle, name string, cfg WindowConfig) Handle {
	hh := cfg.HeaderHeight
	if hh <= 0 {
		hh = defaultHeaderHeight
	}
	w := &Window{Title: cfg.Title, headerHeight: hh, canResize: !cfg.FixedSize}
	n := NewNode(name, w).WithPosition(cfg.Position)
	if cfg.Width > 0 {
		n.width = cfg.Width
	}
	if cfg.Height > 0 {
		n.height = cfg.Height
	}
	h := ui.Add(parent, n)
	w.header = ui.NewBorder(h, NewNode(name+".header", &Border{}).
		WithBackground(Color{0.25, 0.25, 0.3, 1}))
	if cfg.Content.IsSome() {
		w.content = cfg.Content
		ui.link(cfg.Content, h)
	}
	return h
}

// Header returns the header node that starts drags.
func (w *Window) Header() Handle { return w.header }

// Content returns the body node.
func (w *Window) Content() Handle { return w.content }

// CanResize reports whether the user may resize the window.
func (w *Window) CanResize() bool { return w.canResize }

// IsDragging reports whether a header drag is in progress.
func (w *Window) IsDragging() bool { return w.dragging }

// DragDelta returns how far the current drag has moved the window.
func (w *Window) DragDelta() Vec2 { return w.dragDelta }

// Measure stacks the header over the content.
func (w *Window) Measure(ui *UI, n *Node, available Vec2) Vec2 {
	hd := ui.MeasureNode(w.header, Vec2{available.X, w.headerHeight})
	body := Vec2{available.X, math.Max(0, available.Y-w.headerHeight)}
	cd := ui.MeasureNode(w.content, body)
	return Vec2{math.Max(hd.X, cd.X), w.headerHeight + cd.Y}
}

// Arrange places the header on top and the content below it.
func (w *Window) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	ui.ArrangeNode(w.header, Rect{Width: final.X, Height: w.headerHeight})
	ui.ArrangeNode(w.content, Rect{
		Y:      w.headerHeight,
		Width:  final.X,
		Height: math.Max(0, final.Y-w.headerHeight),
	})
	return final
}

// HandleMessage runs the header drag state machine and applies window
// messages.
func (w *Window) HandleMessage(ui *UI, n *Node, m *Message) {
	if m.Destination() == w.header && m.Direction() == ToWidget {
		w.handleHeaderInput(ui, n, m)
		return
	}
	if !m.IsFor(n.handle, ToWidget) {
		return
	}
	switch d := m.Data().(type) {
	case WindowMoveStart:
		if w.dragging {
			return
		}
		w.dragging = true
		w.dragDelta = Vec2{}
		if !w.pressed {
			// Programmatic drag; measure from where the window is now.
			w.initialPos = n.screenBounds.Position()
		}
		ui.Send(m.Reverse())
	case WindowMove:
		if !w.dragging || d.Position == n.desiredPosition {
			return
		}
		w.dragDelta = d.Position.Sub(w.initialPos)
		ui.Send(DesiredPositionMsg(n.handle, ToWidget, d.Position))
		ui.Send(m.Reverse())
	case WindowMoveEnd:
		if !w.dragging {
			return
		}
		w.dragging = false
		ui.Send(m.Reverse())
	case WindowCanResize:
		if w.canResize == d.Value {
			return
		}
		w.canResize = d.Value
		ui.Send(m.Reverse())
	case WindowClose:
		if !n.visible {
			return
		}
		w.pressed = false
		w.dragging = false
		if ui.Captured() == w.header {
			ui.ReleaseMouseCapture()
		}
		ui.Send(VisibilityMsg(n.handle, ToWidget, false))
		ui.Send(m.Reverse())
	case WindowOpen:
		if n.visible {
			return
		}
		ui.Send(VisibilityMsg(n.handle, ToWidget, true))
		ui.Send(TopmostMsg(n.handle, ToWidget))
		ui.Send(m.Reverse())
	case Unlink:
		// Unlinking keeps the last laid-out position. Mid-drag the window
		// belongs where the drag has put it.
		if w.dragging && n.parent != ui.root {
			ui.Send(DesiredPositionMsg(n.handle, ToWidget, n.desiredPosition))
		}
	}
}

func (w *Window) handleHeaderInput(ui *UI, n *Node, m *Message) {
	switch d := m.Data().(type) {
	case MouseDown:
		if m.Handled() || d.Button != MouseButtonLeft {
			return
		}
		w.pressed = true
		w.pressPos = d.Pos
		w.initialPos = n.screenBounds.Position()
		ui.CaptureMouse(w.header)
		ui.Send(TopmostMsg(n.handle, ToWidget))
		m.SetHandled(true)
	case MouseMove:
		if !w.pressed {
			return
		}
		delta := d.Pos.Sub(w.pressPos)
		if !w.dragging && delta.Len() <= ui.dragDeadZone {
			return
		}
		if !w.dragging {
			ui.Send(WindowMoveStartMsg(n.handle, ToWidget))
		}
		ui.Send(WindowMoveMsg(n.handle, ToWidget, w.initialPos.Add(delta)))
		m.SetHandled(true)
	case MouseUp:
		if !w.pressed {
			return
		}
		w.pressed = false
		if ui.Captured() == w.header {
			ui.ReleaseMouseCapture()
		}
		ui.Send(WindowMoveEndMsg(n.handle, ToWidget))
		m.SetHandled(true)
	}
}
