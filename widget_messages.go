package arbor

// --- Property messages ---
//
// Sent ToWidget they request a change; the base handler applies it only
// when it differs and then echoes the same payload FromWidget.

// Visibility shows or hides a node and its subtree.
type Visibility struct{ Visible bool }

// Width sets the explicit width. Auto clears it.
type Width struct{ Value float64 }

// Height sets the explicit height. Auto clears it.
type Height struct{ Value float64 }

// Margin sets the outer margin.
type Margin struct{ Value Thickness }

// DesiredPosition sets the position used by canvas-like parents.
type DesiredPosition struct{ Position Vec2 }

// Enabled enables or disables input on a node.
type Enabled struct{ Enabled bool }

// HitTestVisibility toggles whether the pointer can pick a node.
type HitTestVisibility struct{ Visible bool }

// Background sets the fill color reported to the render backend.
type Background struct{ Color Color }

// Center moves a node to the middle of its parent. It needs up-to-date
// sizes, so its constructor flags it to run layout first.
type Center struct{}

// --- Structural messages ---
//
// Applied by the UI after routing, so every handler on the way sees the
// tree as it was.

// Remove frees a node and its descendants.
type Remove struct{}

// Unlink moves a node under the root, keeping its screen position.
type Unlink struct{}

// LinkWith re-parents a node.
type LinkWith struct{ Parent Handle }

// Topmost moves a node to the top of its siblings' z-order.
type Topmost struct{}

// Focus gives a node keyboard focus.
type Focus struct{}

// Unfocus takes keyboard focus away from a node.
type Unfocus struct{}

// --- Input messages ---
//
// Produced from platform events and sent ToWidget to the picked, captured
// or focused node.

// MouseDown reports a button press.
type MouseDown struct {
	Pos       Vec2
	Button    MouseButton
	Modifiers KeyModifiers
}

// MouseUp reports a button release.
type MouseUp struct {
	Pos    Vec2
	Button MouseButton
}

// MouseMove reports pointer motion.
type MouseMove struct {
	Pos     Vec2
	Pressed bool
}

// MouseWheel reports wheel motion.
type MouseWheel struct {
	Pos    Vec2
	Amount float64
}

// MouseEnter reports the pointer entering a node.
type MouseEnter struct{}

// MouseLeave reports the pointer leaving a node.
type MouseLeave struct{}

// KeyDown reports a key press.
type KeyDown struct {
	Key       Key
	Modifiers KeyModifiers
}

// KeyUp reports a key release.
type KeyUp struct{ Key Key }

// Text reports a typed character.
type Text struct{ Rune rune }

// --- Constructors ---

// VisibilityMsg builds a Visibility message.
func VisibilityMsg(dest Handle, dir Direction, visible bool) *Message {
	return NewMessage(dest, dir, Visibility{Visible: visible})
}

// WidthMsg builds a Width message.
func WidthMsg(dest Handle, dir Direction, v float64) *Message {
	return NewMessage(dest, dir, Width{Value: v})
}

// HeightMsg builds a Height message.
func HeightMsg(dest Handle, dir Direction, v float64) *Message {
	return NewMessage(dest, dir, Height{Value: v})
}

// MarginMsg builds a Margin message.
func MarginMsg(dest Handle, dir Direction, t Thickness) *Message {
	return NewMessage(dest, dir, Margin{Value: t})
}

// DesiredPositionMsg builds a DesiredPosition message.
func DesiredPositionMsg(dest Handle, dir Direction, p Vec2) *Message {
	return NewMessage(dest, dir, DesiredPosition{Position: p})
}

// EnabledMsg builds an Enabled message.
func EnabledMsg(dest Handle, dir Direction, enabled bool) *Message {
	return NewMessage(dest, dir, Enabled{Enabled: enabled})
}

// HitTestVisibilityMsg builds a HitTestVisibility message.
func HitTestVisibilityMsg(dest Handle, dir Direction, visible bool) *Message {
	return NewMessage(dest, dir, HitTestVisibility{Visible: visible})
}

// BackgroundMsg builds a Background message.
func BackgroundMsg(dest Handle, dir Direction, c Color) *Message {
	return NewMessage(dest, dir, Background{Color: c})
}

// CenterMsg builds a Center message flagged to run layout first.
func CenterMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Center{}).WithLayout()
}

// RemoveMsg builds a Remove message.
func RemoveMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Remove{})
}

// UnlinkMsg builds an Unlink message.
func UnlinkMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Unlink{})
}

// LinkWithMsg builds a LinkWith message.
func LinkWithMsg(dest Handle, dir Direction, parent Handle) *Message {
	return NewMessage(dest, dir, LinkWith{Parent: parent})
}

// TopmostMsg builds a Topmost message.
func TopmostMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Topmost{})
}

// FocusMsg builds a Focus message.
func FocusMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Focus{})
}

// UnfocusMsg builds an Unfocus message.
func UnfocusMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, Unfocus{})
}

// --- Base handling ---

// handleBase applies property messages addressed to n. It runs before the
// widget's own HandleMessage.
func (ui *UI) handleBase(n *Node, m *Message) {
	if !m.IsFor(n.handle, ToWidget) {
		return
	}
	changed := false
	switch d := m.data.(type) {
	case Visibility:
		if n.visible != d.Visible {
			n.visible = d.Visible
			ui.InvalidateLayout(n.handle)
			changed = true
		}
	case Width:
		if !sameFloat(n.width, d.Value) {
			n.width = d.Value
			ui.InvalidateLayout(n.handle)
			changed = true
		}
	case Height:
		if !sameFloat(n.height, d.Value) {
			n.height = d.Value
			ui.InvalidateLayout(n.handle)
			changed = true
		}
	case Margin:
		if n.margin != d.Value {
			n.margin = d.Value
			ui.InvalidateLayout(n.handle)
			changed = true
		}
	case DesiredPosition:
		if n.desiredPosition != d.Position {
			n.desiredPosition = d.Position
			ui.InvalidateLayout(n.handle)
			changed = true
		}
	case Enabled:
		if n.enabled != d.Enabled {
			n.enabled = d.Enabled
			changed = true
		}
	case HitTestVisibility:
		if n.hitTest != d.Visible {
			n.hitTest = d.Visible
			changed = true
		}
	case Background:
		if n.background != d.Color {
			n.background = d.Color
			changed = true
		}
	case Center:
		if p, ok := ui.nodes.Get(n.parent); ok {
			pos := p.actualSize.Sub(n.actualSize)
			ui.Send(DesiredPositionMsg(n.handle, ToWidget, Vec2{pos.X / 2, pos.Y / 2}))
		}
	}
	if changed {
		ui.Send(m.Reverse())
	}
}
