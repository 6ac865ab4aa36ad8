// Package arbor is a retained-mode, message-driven widget toolkit with a
// docking layout system, rendered with [Ebitengine].
//
// Arbor provides the widget tree, a message bus that carries every state
// change, a measure/arrange layout pass, pointer and keyboard routing, and
// the docking widgets (windows, tiles, a docking manager) plus a tree view.
//
// # Quick start
//
// Build a [UI], add widgets and drive it with [UI.Tick] once per frame.
// The ebitenui package wraps this into a window and game loop:
//
//	ui := arbor.New(arbor.Vec2{X: 1280, Y: 720})
//	w := ui.NewWindow(arbor.NoHandle, "log", arbor.WindowConfig{Title: "Log"})
//	tile := ui.NewTile(arbor.NoHandle, "tile", arbor.WindowContent(w))
//	ui.NewDockingManager(ui.Root(), "dock", tile)
//	ebitenui.Run(ui, ebitenui.RunConfig{Title: "Arbor", Width: 1280, Height: 720})
//
// # Widget tree
//
// Every widget lives in a [Node] owned by the UI's node store and is
// addressed by a generational [Handle]. A handle whose node was removed
// is stale: lookups fail and messages sent to it are dropped, never
// misdelivered to a node that reused the slot.
//
// # Messages
//
// A [Message] has a payload, a destination and a [Direction]. ToWidget
// messages are requests; FromWidget messages are notifications that
// something changed. Handlers receive a message at its destination and
// then at each ancestor up to the root, so containers observe what their
// descendants do. Widgets that opt in see every message first in a
// preview pass.
//
// Messages are processed one at a time in the order they were sent. A
// handler never calls back into the bus for delivery; it only sends.
//
//	ui.Send(arbor.WidthMsg(h, arbor.ToWidget, 200))
//	ui.ProcessMessages()
//
// # Layout
//
// Layout is two-pass: [UI.MeasureNode] computes desired sizes bottom-up,
// [UI.ArrangeNode] assigns final rectangles top-down. Results are cached
// until [UI.InvalidateLayout] marks a node and its ancestors dirty.
//
// # Docking
//
// A [Tile] hosts nothing, a [Window], or two child tiles separated by a
// splitter. Dragging a docked window's header past the undock threshold
// tears it out; dragging a floating window over a tile shows drop anchors.
// Closing a docked window collapses its split. The [DockingManager] tracks
// floating windows, and [SaveLayout] and [RestoreLayout] persist the
// arrangement as YAML.
//
// Tweens are provided via [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package arbor
