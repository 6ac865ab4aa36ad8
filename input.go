package arbor

// --- Constants ---

const defaultDragDeadZone = 4.0 // pixels

// EventKind identifies a low-level platform event.
type EventKind uint8

const (
	EventPointerMove EventKind = iota // pointer moved, Pos is set
	EventPointerDown                  // button pressed, Pos and Button are set
	EventPointerUp                    // button released, Pos and Button are set
	EventWheel                        // wheel scrolled, Pos and Wheel are set
	EventKeyDown                      // key pressed, Key is set
	EventKeyUp                        // key released, Key is set
	EventText                         // character typed, Rune is set
)

// Event is one low-level input event from a platform event source. Each is
// translated into exactly one base input message.
type Event struct {
	Kind      EventKind
	Pos       Vec2
	Button    MouseButton
	Key       Key
	Rune      rune
	Wheel     float64
	Modifiers KeyModifiers
}

type inputState struct {
	cursor  Vec2
	pressed bool
	button  MouseButton
	hovered Handle
}

// PushEvent queues a platform event for the next Tick.
func (ui *UI) PushEvent(ev Event) {
	ui.pending = append(ui.pending, ev)
}

// ProcessEvent translates ev into a message addressed to the node that
// should receive it: the capture holder or the picked node for pointer
// events, the focused node (or the root) for keyboard events. It reports
// whether a message was produced.
func (ui *UI) ProcessEvent(ev Event) bool {
	ui.modifiers = ev.Modifiers
	switch ev.Kind {
	case EventPointerMove:
		ui.input.cursor = ev.Pos
		target := ui.pointerTarget(ev.Pos)
		ui.updateHover(ui.hitTest(ev.Pos))
		if target.IsNone() {
			return false
		}
		ui.Send(NewMessage(target, ToWidget, MouseMove{Pos: ev.Pos, Pressed: ui.input.pressed}))
		return true

	case EventPointerDown:
		ui.input.cursor = ev.Pos
		ui.input.pressed = true
		ui.input.button = ev.Button
		target := ui.pointerTarget(ev.Pos)
		if target.IsNone() {
			return false
		}
		if target != ui.focused {
			ui.Send(FocusMsg(target, ToWidget))
		}
		ui.Send(NewMessage(target, ToWidget, MouseDown{Pos: ev.Pos, Button: ev.Button, Modifiers: ev.Modifiers}))
		return true

	case EventPointerUp:
		ui.input.cursor = ev.Pos
		ui.input.pressed = false
		target := ui.pointerTarget(ev.Pos)
		if target.IsNone() {
			return false
		}
		ui.Send(NewMessage(target, ToWidget, MouseUp{Pos: ev.Pos, Button: ev.Button}))
		return true

	case EventWheel:
		target := ui.pointerTarget(ev.Pos)
		if target.IsNone() {
			return false
		}
		ui.Send(NewMessage(target, ToWidget, MouseWheel{Pos: ev.Pos, Amount: ev.Wheel}))
		return true

	case EventKeyDown:
		ui.Send(NewMessage(ui.keyboardTarget(), ToWidget, KeyDown{Key: ev.Key, Modifiers: ev.Modifiers}))
		return true

	case EventKeyUp:
		ui.Send(NewMessage(ui.keyboardTarget(), ToWidget, KeyUp{Key: ev.Key}))
		return true

	case EventText:
		ui.Send(NewMessage(ui.keyboardTarget(), ToWidget, Text{Rune: ev.Rune}))
		return true
	}
	return false
}

func (ui *UI) pointerTarget(pos Vec2) Handle {
	if h := ui.Captured(); h.IsSome() {
		return h
	}
	return ui.hitTest(pos)
}

func (ui *UI) keyboardTarget() Handle {
	if h := ui.Focused(); h.IsSome() {
		return h
	}
	return ui.root
}

func (ui *UI) updateHover(picked Handle) {
	prev := ui.input.hovered
	if prev == picked {
		return
	}
	ui.input.hovered = picked
	if ui.nodes.IsValid(prev) {
		ui.Send(NewMessage(prev, ToWidget, MouseLeave{}))
	}
	if picked.IsSome() {
		ui.Send(NewMessage(picked, ToWidget, MouseEnter{}))
	}
}

// --- Hit testing ---

// HitTest returns the topmost visible, hit-testable node under pos, or
// NoHandle. Later children are on top of earlier ones.
func (ui *UI) HitTest(pos Vec2) Handle {
	return ui.hitTest(pos)
}

func (ui *UI) hitTest(pos Vec2) Handle {
	h, _ := ui.pick(ui.root, pos)
	return h
}

func (ui *UI) pick(h Handle, pos Vec2) (Handle, bool) {
	n, ok := ui.nodes.Get(h)
	if !ok || !n.visible || !n.enabled {
		return NoHandle, false
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if found, ok := ui.pick(n.children[i], pos); ok {
			return found, true
		}
	}
	if h != ui.root && n.hitTest && n.screenBounds.Contains(pos.X, pos.Y) {
		return h, true
	}
	return NoHandle, false
}
