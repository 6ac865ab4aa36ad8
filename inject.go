package arbor

// InjectPress queues a left-button press at the given screen coordinates.
// Injected events are consumed one per Tick, ahead of queued platform
// events.
func (ui *UI) InjectPress(x, y float64) {
	ui.InjectEvent(Event{Kind: EventPointerDown, Pos: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move to the given screen coordinates.
func (ui *UI) InjectMove(x, y float64) {
	ui.InjectEvent(Event{Kind: EventPointerMove, Pos: Vec2{x, y}})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (ui *UI) InjectRelease(x, y float64) {
	ui.InjectEvent(Event{Kind: EventPointerUp, Pos: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (ui *UI) InjectClick(x, y float64) {
	ui.InjectPress(x, y)
	ui.InjectRelease(x, y)
}

// InjectClickWith is InjectClick with modifier keys held.
func (ui *UI) InjectClickWith(x, y float64, mods KeyModifiers) {
	ui.InjectEvent(Event{Kind: EventPointerDown, Pos: Vec2{x, y}, Button: MouseButtonLeft, Modifiers: mods})
	ui.InjectEvent(Event{Kind: EventPointerUp, Pos: Vec2{x, y}, Button: MouseButtonLeft, Modifiers: mods})
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-2 linearly interpolated moves ending at (toX, toY), and a release
// there. The total sequence consumes `frames` frames. Minimum frames is 2
// (press + release).
func (ui *UI) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	ui.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		ui.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	ui.InjectRelease(toX, toY)
}

// InjectKey queues a key press followed by its release.
func (ui *UI) InjectKey(k Key, mods KeyModifiers) {
	ui.InjectEvent(Event{Kind: EventKeyDown, Key: k, Modifiers: mods})
	ui.InjectEvent(Event{Kind: EventKeyUp, Key: k, Modifiers: mods})
}

// InjectEvent queues an arbitrary event.
func (ui *UI) InjectEvent(ev Event) {
	ui.injectQueue = append(ui.injectQueue, ev)
}

// PendingInjected returns the number of injected events not yet consumed.
func (ui *UI) PendingInjected() int { return len(ui.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through ProcessEvent. Returns true if an event was consumed.
func (ui *UI) processInjectedInput() bool {
	if len(ui.injectQueue) == 0 {
		return false
	}
	ev := ui.injectQueue[0]
	copy(ui.injectQueue, ui.injectQueue[1:])
	ui.injectQueue = ui.injectQueue[:len(ui.injectQueue)-1]
	ui.ProcessEvent(ev)
	return true
}
