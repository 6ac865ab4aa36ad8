package arbor

import (
	"math"

	"github.com/google/uuid"
)

// Widget is the behavior half of a node. Every concrete widget kind
// (Border, StackPanel, Window, Tile, DockingManager, TreeItem, TreeRoot, ...)
// implements it, usually by embedding Base and overriding what it needs.
//
// Handlers receive the UI and their own node. They may read any node, mutate
// their own widget state, build new nodes and push messages, but must never
// poll the bus or mutate other nodes directly.
type Widget interface {
	// Measure returns the size the widget wants given the space available
	// to it (margin already removed).
	Measure(ui *UI, n *Node, available Vec2) Vec2
	// Arrange positions the widget's children inside final and returns the
	// size actually used.
	Arrange(ui *UI, n *Node, final Vec2) Vec2
	// HandleMessage runs for every message routed through this node: the
	// node's own messages and everything bubbling up from descendants.
	HandleMessage(ui *UI, n *Node, m *Message)
	// Preview runs before routed delivery on nodes that opted in with
	// Node.SetPreviewMessages, regardless of where the destination is.
	Preview(ui *UI, n *Node, m *Message)
}

// Base provides default widget behavior: children overlap and each gets the
// full available space; messages are ignored.
type Base struct{}

// Measure measures every child against the full available size and
// returns the component-wise maximum.
func (Base) Measure(ui *UI, n *Node, available Vec2) Vec2 {
	var size Vec2
	for _, c := range n.children {
		size = size.Max(ui.MeasureNode(c, available))
	}
	return size
}

// Arrange gives every child the full final rectangle.
func (Base) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	r := Rect{Width: final.X, Height: final.Y}
	for _, c := range n.children {
		ui.ArrangeNode(c, r)
	}
	return final
}

// HandleMessage does nothing.
func (Base) HandleMessage(*UI, *Node, *Message) {}

// Preview does nothing.
func (Base) Preview(*UI, *Node, *Message) {}

// Node is the state every widget shares: tree links, layout properties and
// results, and flags. The concrete behavior lives in Widget.
//
// Nodes are owned by a UI and addressed by Handle. A *Node obtained from the
// UI must not be kept across a message delivery; keep the Handle instead.
type Node struct {
	// ID is a stable identity that survives handle reuse. External command
	// systems and layout dumps refer to nodes by it.
	ID uuid.UUID
	// Name is a free-form label used by lookups, persistence and dumps.
	Name string

	widget Widget

	handle   Handle
	parent   Handle
	children []Handle

	// Layout properties.
	width, height   float64 // Auto (NaN) when unset
	minSize         Vec2
	maxSize         Vec2
	margin          Thickness
	hAlign          HorizontalAlignment
	vAlign          VerticalAlignment
	desiredPosition Vec2

	// Flags.
	visible         bool
	hitTest         bool
	enabled         bool
	previewMessages bool
	background      Color

	// Layout results, local to the parent unless stated otherwise.
	desiredSize    Vec2
	actualSize     Vec2
	actualPosition Vec2
	screenBounds   Rect
	globalVisible  bool

	// Layout caches.
	measureValid bool
	arrangeValid bool
	prevMeasure  Vec2
	prevArrange  Rect
}

// NewNode creates a detached node with default properties: visible,
// hit-testable, enabled, auto-sized and stretched.
func NewNode(name string, w Widget) *Node {
	if w == nil {
		w = Base{}
	}
	return &Node{
		ID:            uuid.New(),
		Name:          name,
		widget:        w,
		width:         Auto,
		height:        Auto,
		maxSize:       Vec2{math.Inf(1), math.Inf(1)},
		visible:       true,
		hitTest:       true,
		enabled:       true,
		globalVisible: true,
	}
}

// --- Builder-style setters (before the node is added to a UI) ---

// WithSize sets an explicit width and height. Pass Auto to leave one unset.
func (n *Node) WithSize(width, height float64) *Node {
	n.width, n.height = width, height
	return n
}

// WithMinSize sets the lower size bound.
func (n *Node) WithMinSize(v Vec2) *Node { n.minSize = v; return n }

// WithMaxSize sets the upper size bound.
func (n *Node) WithMaxSize(v Vec2) *Node { n.maxSize = v; return n }

// WithMargin sets the outer margin.
func (n *Node) WithMargin(t Thickness) *Node { n.margin = t; return n }

// WithAlignment sets horizontal and vertical alignment.
func (n *Node) WithAlignment(h HorizontalAlignment, v VerticalAlignment) *Node {
	n.hAlign, n.vAlign = h, v
	return n
}

// WithPosition sets the desired position used by canvas-like parents.
func (n *Node) WithPosition(p Vec2) *Node { n.desiredPosition = p; return n }

// WithVisibility sets the initial visibility.
func (n *Node) WithVisibility(v bool) *Node { n.visible = v; return n }

// WithHitTest sets whether the node can be picked by the pointer.
func (n *Node) WithHitTest(v bool) *Node { n.hitTest = v; return n }

// WithBackground sets the fill color reported to the render backend.
func (n *Node) WithBackground(c Color) *Node { n.background = c; return n }

// WithChildren records children to link when the node is added.
func (n *Node) WithChildren(children ...Handle) *Node {
	n.children = append(n.children, children...)
	return n
}

// --- Accessors ---

// Handle returns the node's own handle.
func (n *Node) Handle() Handle { return n.handle }

// Widget returns the node's behavior.
func (n *Node) Widget() Widget { return n.widget }

// Parent returns the parent handle, or NoHandle for the root.
func (n *Node) Parent() Handle { return n.parent }

// Children returns the ordered child list: first is bottom-most in z-order.
// The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []Handle { return n.children }

// Width returns the explicit width, or Auto.
func (n *Node) Width() float64 { return n.width }

// Height returns the explicit height, or Auto.
func (n *Node) Height() float64 { return n.height }

// Margin returns the outer margin.
func (n *Node) Margin() Thickness { return n.margin }

// DesiredPosition returns the position requested from canvas-like parents.
func (n *Node) DesiredPosition() Vec2 { return n.desiredPosition }

// Visible returns the node's own visibility flag.
func (n *Node) Visible() bool { return n.visible }

// GloballyVisible reports whether the node and all its ancestors are
// visible, as of the last layout pass.
func (n *Node) GloballyVisible() bool { return n.globalVisible }

// HitTestVisible reports whether the pointer can pick this node.
func (n *Node) HitTestVisible() bool { return n.hitTest }

// Enabled reports whether the node accepts input.
func (n *Node) Enabled() bool { return n.enabled }

// Background returns the fill color.
func (n *Node) Background() Color { return n.background }

// DesiredSize returns the last measured size, margin included.
func (n *Node) DesiredSize() Vec2 { return n.desiredSize }

// ActualSize returns the last arranged size, margin excluded.
func (n *Node) ActualSize() Vec2 { return n.actualSize }

// ActualPosition returns the arranged position relative to the parent.
func (n *Node) ActualPosition() Vec2 { return n.actualPosition }

// ScreenBounds returns the arranged rectangle in screen space.
func (n *Node) ScreenBounds() Rect { return n.screenBounds }

// PreviewMessages reports whether the node takes part in the preview pass.
func (n *Node) PreviewMessages() bool { return n.previewMessages }

// SetPreviewMessages opts the node in or out of the preview pass. Widgets
// call this from their constructors.
func (n *Node) SetPreviewMessages(v bool) { n.previewMessages = v }

// HasChild reports whether h is a direct child.
func (n *Node) HasChild(h Handle) bool {
	for _, c := range n.children {
		if c == h {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(h Handle) bool {
	for i, c := range n.children {
		if c == h {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = NoHandle
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}

func clampVec(v, lo, hi Vec2) Vec2 {
	return v.Max(lo).Min(hi)
}
