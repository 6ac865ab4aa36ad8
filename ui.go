package arbor

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/phanxgames/arbor/pool"
)

// DockMetrics holds the fixed sizes the docking subsystem works with.
type DockMetrics struct {
	// UndockThreshold is how far a docked window must be dragged before it
	// is torn out of its tile.
	UndockThreshold float64
	// SplitterSize is the thickness of the bar between two split tiles.
	SplitterSize float64
	// AnchorSize is the edge length of a drop anchor.
	AnchorSize float64
}

// DefaultDockMetrics returns the stock docking sizes.
func DefaultDockMetrics() DockMetrics {
	return DockMetrics{UndockThreshold: 20, SplitterSize: 4, AnchorSize: 30}
}

// Option configures a UI.
type Option func(*UI)

// WithDebug enables debug assertions: structural misuse panics instead of
// being logged and ignored.
func WithDebug(enabled bool) Option {
	return func(ui *UI) { ui.debug = enabled }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(ui *UI) {
		if l != nil {
			ui.log = l
		}
	}
}

// WithDockMetrics overrides the docking sizes.
func WithDockMetrics(m DockMetrics) Option {
	return func(ui *UI) { ui.dock = m }
}

// WithDragDeadZone sets how far the pointer must travel before a press on
// a window header counts as a drag.
func WithDragDeadZone(pixels float64) Option {
	return func(ui *UI) { ui.dragDeadZone = pixels }
}

// UI owns the node store, the message bus and all interaction state. It is
// driven by a single goroutine calling Tick once per frame; only Sender may
// be used from elsewhere.
type UI struct {
	nodes pool.Pool[Node]
	root  Handle
	bus   Bus

	screenSize Vec2
	frame      uint64

	// Interaction state.
	input     inputState
	captured  Handle
	focused   Handle
	modifiers KeyModifiers

	// Routing state.
	delivering   bool
	previewOrder []Handle
	previewDirty bool
	subscribers  subscriberRegistry

	// Frame-driven helpers.
	pending     []Event
	injectQueue []Event
	runner      *InputScript
	tweens      []*TweenGroup

	log          *slog.Logger
	debug        bool
	dock         DockMetrics
	dragDeadZone float64
}

// New creates a UI for a screen of the given size. The root node is a
// Canvas filling the screen.
func New(screenSize Vec2, opts ...Option) *UI {
	ui := &UI{
		screenSize:   screenSize,
		log:          slog.New(slog.DiscardHandler),
		dock:         DefaultDockMetrics(),
		dragDeadZone: defaultDragDeadZone,
	}
	for _, opt := range opts {
		opt(ui)
	}
	root := NewNode("root", &Canvas{})
	root.handle = ui.nodes.Spawn(root)
	ui.root = root.handle
	return ui
}

// Root returns the root canvas.
func (ui *UI) Root() Handle { return ui.root }

// ScreenSize returns the size the root is laid out against.
func (ui *UI) ScreenSize() Vec2 { return ui.screenSize }

// SetScreenSize resizes the root and invalidates layout.
func (ui *UI) SetScreenSize(size Vec2) {
	if ui.screenSize == size {
		return
	}
	ui.screenSize = size
	ui.InvalidateLayout(ui.root)
}

// Frame returns the number of completed ticks.
func (ui *UI) Frame() uint64 { return ui.frame }

// Logger returns the UI's logger.
func (ui *UI) Logger() *slog.Logger { return ui.log }

// Debug reports whether debug assertions are on.
func (ui *UI) Debug() bool { return ui.debug }

// DockMetrics returns the docking sizes.
func (ui *UI) DockMetrics() DockMetrics { return ui.dock }

// --- Node store ---

// Add inserts n under parent and returns its handle. A NoHandle parent means
// the root. Children recorded with Node.WithChildren are linked under n.
func (ui *UI) Add(parent Handle, n *Node) Handle {
	if n.handle.IsSome() && ui.nodes.IsValid(n.handle) {
		ui.misuse("Add", "node %q is already in the store", n.Name)
		return n.handle
	}
	children := n.children
	n.children = nil
	n.parent = NoHandle
	n.handle = ui.nodes.Spawn(n)
	if parent.IsNone() {
		parent = ui.root
	}
	ui.link(n.handle, parent)
	for _, c := range children {
		ui.link(c, n.handle)
	}
	return n.handle
}

// Node returns the node behind h, or false if h is stale.
func (ui *UI) Node(h Handle) (*Node, bool) {
	return ui.nodes.Get(h)
}

// IsValid reports whether h resolves.
func (ui *UI) IsValid(h Handle) bool {
	return ui.nodes.IsValid(h)
}

// NodeCount returns the number of live nodes, root included.
func (ui *UI) NodeCount() int { return ui.nodes.Len() }

// link makes child the last child of parent. Cycles and stale handles are
// refused.
func (ui *UI) link(child, parent Handle) {
	c, ok := ui.nodes.Get(child)
	if !ok {
		return
	}
	p, ok := ui.nodes.Get(parent)
	if !ok {
		return
	}
	if child == parent || ui.IsAncestor(child, parent) {
		ui.misuse("LinkWith", "linking %q under %q would create a cycle", c.Name, p.Name)
		return
	}
	if c.parent == parent {
		return
	}
	ui.detach(c)
	c.parent = parent
	p.children = append(p.children, child)
	ui.InvalidateLayout(parent)
	ui.InvalidateLayout(child)
	ui.previewDirty = true
	if ui.debug {
		debugCheckTreeDepth(ui, c)
		debugCheckDuplicateChild(p)
	}
}

// detach removes c from its parent's child list and clears its parent.
func (ui *UI) detach(c *Node) {
	if c.parent.IsNone() {
		return
	}
	if p, ok := ui.nodes.Get(c.parent); ok {
		p.removeChild(c.handle)
		ui.InvalidateLayout(p.handle)
	}
	c.parent = NoHandle
	ui.previewDirty = true
}

// unlink moves a node under the root, keeping it where it is on screen.
func (ui *UI) unlink(h Handle) {
	n, ok := ui.nodes.Get(h)
	if !ok || h == ui.root || n.parent == ui.root {
		return
	}
	pos := n.screenBounds.Position()
	ui.detach(n)
	n.desiredPosition = pos
	ui.link(h, ui.root)
}

// remove frees h and every descendant. References held elsewhere (tile
// content, selections, floating lists) are left to go stale.
func (ui *UI) remove(h Handle) {
	if h == ui.root {
		ui.misuse("Remove", "the root cannot be removed")
		return
	}
	n, ok := ui.nodes.Get(h)
	if !ok {
		return
	}
	ui.detach(n)
	ui.free(n)
}

func (ui *UI) free(n *Node) {
	for _, c := range n.children {
		if cn, ok := ui.nodes.Get(c); ok {
			ui.free(cn)
		}
	}
	n.children = nil
	if ui.captured == n.handle {
		ui.captured = NoHandle
	}
	if ui.focused == n.handle {
		ui.focused = NoHandle
	}
	ui.nodes.Free(n.handle)
	ui.previewDirty = true
}

// topmost moves h to the end of its parent's child list.
func (ui *UI) topmost(h Handle) {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return
	}
	p, ok := ui.nodes.Get(n.parent)
	if !ok || (len(p.children) > 0 && p.children[len(p.children)-1] == h) {
		return
	}
	p.removeChild(h)
	p.children = append(p.children, h)
	ui.previewDirty = true
}

// --- Capture and focus ---

// CaptureMouse routes all pointer events to h until released. An existing
// holder is released first.
func (ui *UI) CaptureMouse(h Handle) {
	if ui.captured == h {
		return
	}
	if ui.captured.IsSome() {
		ui.ReleaseMouseCapture()
	}
	if !ui.nodes.IsValid(h) {
		return
	}
	ui.captured = h
	ui.log.Debug("mouse captured", "subsystem", "input", "node", h.String())
}

// ReleaseMouseCapture clears the capture holder, if any.
func (ui *UI) ReleaseMouseCapture() {
	if ui.captured.IsNone() {
		return
	}
	ui.log.Debug("mouse released", "subsystem", "input", "node", ui.captured.String())
	ui.captured = NoHandle
}

// Captured returns the capture holder or NoHandle. A removed holder reads
// as NoHandle.
func (ui *UI) Captured() Handle {
	if !ui.nodes.IsValid(ui.captured) {
		ui.captured = NoHandle
	}
	return ui.captured
}

// Focused returns the keyboard focus holder or NoHandle.
func (ui *UI) Focused() Handle {
	if !ui.nodes.IsValid(ui.focused) {
		ui.focused = NoHandle
	}
	return ui.focused
}

// Modifiers returns the modifier keys held as of the last platform event.
func (ui *UI) Modifiers() KeyModifiers { return ui.modifiers }

// CursorPosition returns the pointer position as of the last platform event.
func (ui *UI) CursorPosition() Vec2 { return ui.input.cursor }

// --- Messages ---

// Send pushes m onto the bus. Safe from any goroutine.
func (ui *UI) Send(m *Message) { ui.bus.Send(m) }

// Sender returns the bus as a Sender for worker goroutines.
func (ui *UI) Sender() Sender { return &ui.bus }

// Pending returns the number of queued messages.
func (ui *UI) Pending() int { return ui.bus.Len() }

// PollMessage pops the next message and delivers it: preview pass, routed
// delivery from the destination up to the root, then the UI's own
// structural handling and FromWidget subscribers. It returns the delivered
// message so a frame loop can observe traffic.
//
// Calling PollMessage from inside a handler is misuse and returns false.
func (ui *UI) PollMessage() (*Message, bool) {
	if ui.delivering {
		ui.misuse("PollMessage", "message delivery re-entered from a handler")
		return nil, false
	}
	m, ok := ui.bus.Poll()
	if !ok {
		return nil, false
	}
	if m.performLayout {
		ui.UpdateLayout()
	}
	if !ui.nodes.IsValid(m.destination) {
		ui.log.Debug("message dropped, destination is gone",
			"subsystem", "ui", "message", fmt.Sprintf("%T", m.data), "destination", m.destination.String())
		return m, true
	}

	ui.delivering = true
	ui.preview(m)
	ui.route(m)
	ui.delivering = false

	if m.direction == ToWidget {
		ui.applyStructural(m)
	} else {
		ui.delivering = true
		ui.subscribers.notify(m)
		ui.delivering = false
	}
	return m, true
}

// ProcessMessages drains the bus, including messages pushed during the
// drain, and returns how many were delivered.
func (ui *UI) ProcessMessages() int {
	count := 0
	for {
		if _, ok := ui.PollMessage(); !ok {
			return count
		}
		count++
	}
}

// Tick runs one frame: scripted and injected input, queued platform events,
// tweens, a full message drain and layout.
func (ui *UI) Tick(dt float32) {
	if ui.runner != nil {
		ui.runner.step(ui)
	}
	ui.processInjectedInput()
	events := ui.pending
	ui.pending = nil
	for _, ev := range events {
		ui.ProcessEvent(ev)
	}
	ui.updateTweens(dt)
	ui.ProcessMessages()
	ui.UpdateLayout()
	ui.frame++
}

// Run calls Tick at the given rate until ctx is cancelled. Frame loops that
// own a window (see package ebitenui) call Tick themselves instead.
func (ui *UI) Run(ctx context.Context, ticks <-chan float32) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case dt, ok := <-ticks:
			if !ok {
				return nil
			}
			ui.Tick(dt)
		}
	}
}

// preview offers m to every node that opted into the preview pass, in
// root-to-leaf depth-first order.
func (ui *UI) preview(m *Message) {
	if ui.previewDirty {
		ui.previewOrder = ui.previewOrder[:0]
		ui.collectPreview(ui.root)
		ui.previewDirty = false
	}
	for _, h := range ui.previewOrder {
		if n, ok := ui.nodes.Get(h); ok {
			n.widget.Preview(ui, n, m)
		}
	}
}

func (ui *UI) collectPreview(h Handle) {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return
	}
	if n.previewMessages {
		ui.previewOrder = append(ui.previewOrder, h)
	}
	for _, c := range n.children {
		ui.collectPreview(c)
	}
}

// route delivers m to its destination and then every ancestor. The walk
// always reaches the root; handled only tells ancestors not to act.
func (ui *UI) route(m *Message) {
	for h := m.destination; h.IsSome(); {
		n, ok := ui.nodes.Get(h)
		if !ok {
			panic(fmt.Sprintf("arbor: node store corrupted, %s is referenced as a parent but does not exist", h))
		}
		ui.handleBase(n, m)
		n.widget.HandleMessage(ui, n, m)
		h = n.parent
	}
}

// applyStructural performs the tree edits that belong to the UI rather than
// to any one widget. It runs after routing so handlers saw the old tree.
func (ui *UI) applyStructural(m *Message) {
	switch d := m.data.(type) {
	case Remove:
		ui.remove(m.destination)
	case Unlink:
		ui.unlink(m.destination)
	case LinkWith:
		ui.link(m.destination, d.Parent)
	case Topmost:
		ui.topmost(m.destination)
	case Focus:
		if ui.focused != m.destination {
			prev := ui.focused
			ui.focused = m.destination
			if ui.nodes.IsValid(prev) {
				ui.Send(UnfocusMsg(prev, FromWidget))
			}
			ui.Send(FocusMsg(m.destination, FromWidget))
		}
	case Unfocus:
		if ui.focused == m.destination {
			ui.focused = NoHandle
			ui.Send(UnfocusMsg(m.destination, FromWidget))
		}
	}
}

// --- Subscribers ---

type subscriber struct {
	id uint32
	fn func(*Message)
}

type subscriberRegistry struct {
	subs   []subscriber
	nextID uint32
}

func (r *subscriberRegistry) notify(m *Message) {
	for _, s := range r.subs {
		s.fn(m)
	}
}

// CallbackHandle allows removing a registered subscriber.
type CallbackHandle struct {
	id  uint32
	reg *subscriberRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	for i := range h.reg.subs {
		if h.reg.subs[i].id == h.id {
			copy(h.reg.subs[i:], h.reg.subs[i+1:])
			h.reg.subs[len(h.reg.subs)-1] = subscriber{}
			h.reg.subs = h.reg.subs[:len(h.reg.subs)-1]
			return
		}
	}
}

// Subscribe registers fn for every FromWidget message, called after the
// message has been routed. fn may Send but not poll.
func (ui *UI) Subscribe(fn func(*Message)) CallbackHandle {
	ui.subscribers.nextID++
	id := ui.subscribers.nextID
	ui.subscribers.subs = append(ui.subscribers.subs, subscriber{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &ui.subscribers}
}

// --- Canvas ---

// Canvas places each child at its desired position with its desired size.
// The root of every UI is a Canvas; floating windows live on it.
type Canvas struct{ Base }

// Measure measures children against unbounded space.
func (Canvas) Measure(ui *UI, n *Node, _ Vec2) Vec2 {
	inf := Vec2{math.Inf(1), math.Inf(1)}
	for _, c := range n.children {
		ui.MeasureNode(c, inf)
	}
	return Vec2{}
}

// Arrange places children at their desired positions.
func (Canvas) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	for _, c := range n.children {
		cn, ok := ui.nodes.Get(c)
		if !ok {
			continue
		}
		ui.ArrangeNode(c, Rect{
			X: cn.desiredPosition.X, Y: cn.desiredPosition.Y,
			Width: cn.desiredSize.X, Height: cn.desiredSize.Y,
		})
	}
	return final
}
