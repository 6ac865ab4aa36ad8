package arbor

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// recorder logs the names of nodes that saw a message.
type recorder struct {
	Base
	log      *[]string
	previews *[]string
	// claim marks routed messages handled after logging them.
	claim bool
}

func (r *recorder) HandleMessage(_ *UI, n *Node, m *Message) {
	if r.log != nil {
		name := n.Name
		if m.Handled() {
			name += "*"
		}
		*r.log = append(*r.log, name)
	}
	if r.claim {
		m.SetHandled(true)
	}
}

func (r *recorder) Preview(_ *UI, n *Node, m *Message) {
	if r.previews != nil {
		*r.previews = append(*r.previews, n.Name)
	}
}

// collectFrom subscribes to FromWidget traffic and returns the payloads
// seen so far.
func collectFrom(t *testing.T, ui *UI) *[]any {
	t.Helper()
	var got []any
	ui.Subscribe(func(m *Message) { got = append(got, m.Data()) })
	return &got
}

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, contains) {
			t.Errorf("panic = %q, want it to contain %q", msg, contains)
		}
	}()
	fn()
}

// --- Construction ---

func TestNewUIRoot(t *testing.T) {
	ui := New(Vec2{640, 480})
	n, ok := ui.Node(ui.Root())
	if !ok {
		t.Fatal("root should resolve")
	}
	if _, ok := n.Widget().(*Canvas); !ok {
		t.Errorf("root widget = %T, want *Canvas", n.Widget())
	}
	if ui.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", ui.NodeCount())
	}
	if ui.ScreenSize() != (Vec2{640, 480}) {
		t.Errorf("ScreenSize = %v", ui.ScreenSize())
	}
}

func TestOptions(t *testing.T) {
	m := DockMetrics{UndockThreshold: 5, SplitterSize: 2, AnchorSize: 10}
	ui := New(Vec2{1, 1}, WithDebug(true), WithDockMetrics(m), WithDragDeadZone(9), WithLogger(nil))
	if !ui.Debug() {
		t.Error("debug should be on")
	}
	if ui.DockMetrics() != m {
		t.Errorf("DockMetrics = %+v", ui.DockMetrics())
	}
	if ui.dragDeadZone != 9 {
		t.Errorf("dragDeadZone = %v", ui.dragDeadZone)
	}
	if ui.Logger() == nil {
		t.Error("a nil logger should keep the default")
	}
}

func TestAddUnderRootByDefault(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("a", nil))
	n, _ := ui.Node(h)
	if n.Parent() != ui.Root() {
		t.Errorf("parent = %v, want root", n.Parent())
	}
}

func TestAddTwiceIsMisuse(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	n := NewNode("a", nil)
	ui.Add(NoHandle, n)
	expectPanic(t, "arbor debug: Add", func() { ui.Add(NoHandle, n) })
}

// --- Routing ---

func TestRouteDestinationThenAncestors(t *testing.T) {
	ui := New(Vec2{100, 100})
	var log []string
	a := ui.Add(NoHandle, NewNode("a", &recorder{log: &log}))
	b := ui.Add(a, NewNode("b", &recorder{log: &log}))
	c := ui.Add(b, NewNode("c", &recorder{log: &log}))
	ui.Add(c, NewNode("below", &recorder{log: &log}))

	ui.Send(NewMessage(c, ToWidget, "ping"))
	if n := ui.ProcessMessages(); n != 1 {
		t.Fatalf("delivered %d, want 1", n)
	}
	want := []string{"c", "b", "a"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("route = %v, want %v", log, want)
	}
}

func TestRouteContinuesPastHandled(t *testing.T) {
	ui := New(Vec2{100, 100})
	var log []string
	a := ui.Add(NoHandle, NewNode("a", &recorder{log: &log}))
	b := ui.Add(a, NewNode("b", &recorder{log: &log, claim: true}))
	c := ui.Add(b, NewNode("c", &recorder{log: &log}))

	m := NewMessage(c, ToWidget, "ping")
	ui.Send(m)
	ui.ProcessMessages()

	// A trailing * means the node saw the message already handled.
	if got, want := strings.Join(log, ","), "c,b,a*"; got != want {
		t.Errorf("route = %s, want %s", got, want)
	}
	if !m.Handled() {
		t.Error("handled flag should survive routing")
	}
}

func TestRouteFIFOAcrossHandlers(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	var order []string
	ui.Subscribe(func(m *Message) {
		switch d := m.Data().(type) {
		case Width:
			order = append(order, fmt.Sprintf("w%v", d.Value))
		case Height:
			order = append(order, fmt.Sprintf("h%v", d.Value))
		}
	})
	ui.Send(WidthMsg(h, ToWidget, 1))
	ui.Send(HeightMsg(h, ToWidget, 2))
	ui.Send(WidthMsg(h, ToWidget, 3))
	ui.ProcessMessages()
	if got := strings.Join(order, ","); got != "w1,h2,w3" {
		t.Errorf("echo order = %s", got)
	}
}

func TestPropertyEchoOnlyOnChange(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	got := collectFrom(t, ui)

	ui.Send(WidthMsg(h, ToWidget, 50))
	ui.ProcessMessages()
	ui.Send(WidthMsg(h, ToWidget, 50))
	ui.ProcessMessages()

	if len(*got) != 1 {
		t.Fatalf("echoes = %v, want one", *got)
	}
	if w, ok := (*got)[0].(Width); !ok || w.Value != 50 {
		t.Errorf("echo = %#v", (*got)[0])
	}
}

func TestPropertyMessages(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	tests := []struct {
		name  string
		msg   *Message
		check func(*Node) bool
	}{
		{"visibility", VisibilityMsg(h, ToWidget, false), func(n *Node) bool { return !n.Visible() }},
		{"height", HeightMsg(h, ToWidget, 7), func(n *Node) bool { return n.Height() == 7 }},
		{"margin", MarginMsg(h, ToWidget, Uniform(2)), func(n *Node) bool { return n.Margin() == Uniform(2) }},
		{"position", DesiredPositionMsg(h, ToWidget, Vec2{3, 4}), func(n *Node) bool { return n.DesiredPosition() == (Vec2{3, 4}) }},
		{"enabled", EnabledMsg(h, ToWidget, false), func(n *Node) bool { return !n.Enabled() }},
		{"hit test", HitTestVisibilityMsg(h, ToWidget, false), func(n *Node) bool { return !n.HitTestVisible() }},
		{"background", BackgroundMsg(h, ToWidget, ColorWhite), func(n *Node) bool { return n.Background() == ColorWhite }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui.Send(tt.msg)
			ui.ProcessMessages()
			n, _ := ui.Node(h)
			if !tt.check(n) {
				t.Errorf("%s was not applied", tt.name)
			}
		})
	}
}

func TestFromWidgetIsNotApplied(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	ui.Send(WidthMsg(h, FromWidget, 50))
	ui.ProcessMessages()
	n, _ := ui.Node(h)
	if n.Width() == 50 {
		t.Error("a FromWidget message must not change state")
	}
}

func TestStaleDestinationDropped(t *testing.T) {
	ui := New(Vec2{100, 100})
	var log []string
	parent := ui.Add(NoHandle, NewNode("parent", &recorder{log: &log}))
	h := ui.Add(parent, NewNode("child", nil))
	ui.Send(RemoveMsg(h, ToWidget))
	ui.ProcessMessages()
	log = nil

	got := collectFrom(t, ui)
	ui.Send(WidthMsg(h, ToWidget, 10))
	m, ok := ui.PollMessage()
	if !ok || m == nil {
		t.Fatal("PollMessage should pop the stale message")
	}
	if len(log) != 0 || len(*got) != 0 {
		t.Errorf("stale message was delivered: log=%v echoes=%v", log, *got)
	}
}

type reentrant struct {
	Base
	polled bool
}

func (r *reentrant) HandleMessage(ui *UI, n *Node, m *Message) {
	if m.IsFor(n.Handle(), ToWidget) {
		_, r.polled = ui.PollMessage()
	}
}

func TestPollMessageReentryPanicsInDebug(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	h := ui.Add(NoHandle, NewNode("n", &reentrant{}))
	ui.Send(NewMessage(h, ToWidget, "go"))
	expectPanic(t, "arbor debug: PollMessage", func() { ui.ProcessMessages() })
}

func TestPollMessageReentryRefused(t *testing.T) {
	ui := New(Vec2{100, 100})
	r := &reentrant{}
	h := ui.Add(NoHandle, NewNode("n", r))
	ui.Send(NewMessage(h, ToWidget, "go"))
	ui.Send(NewMessage(h, ToWidget, "second"))
	ui.PollMessage()
	if r.polled {
		t.Error("nested PollMessage should fail")
	}
	if ui.Pending() != 1 {
		t.Errorf("Pending = %d, want the second message still queued", ui.Pending())
	}
}

// --- Preview ---

func TestPreviewRootToLeaf(t *testing.T) {
	ui := New(Vec2{100, 100})
	var previews, log []string
	p := NewNode("p", &recorder{previews: &previews})
	p.SetPreviewMessages(true)
	ph := ui.Add(NoHandle, p)
	c := NewNode("c", &recorder{previews: &previews})
	c.SetPreviewMessages(true)
	ui.Add(ph, c)
	ui.Add(ph, NewNode("quiet", &recorder{previews: &previews}))
	target := ui.Add(NoHandle, NewNode("target", &recorder{log: &log}))

	ui.Send(NewMessage(target, ToWidget, "x"))
	ui.ProcessMessages()

	if got := strings.Join(previews, ","); got != "p,c" {
		t.Errorf("previews = %s, want p,c", got)
	}
	if len(log) != 1 {
		t.Errorf("target saw %d messages", len(log))
	}
}

func TestPreviewOrderFollowsRelink(t *testing.T) {
	ui := New(Vec2{100, 100})
	var previews []string
	a := NewNode("a", &recorder{previews: &previews})
	a.SetPreviewMessages(true)
	ah := ui.Add(NoHandle, a)
	b := NewNode("b", &recorder{previews: &previews})
	b.SetPreviewMessages(true)
	bh := ui.Add(NoHandle, b)

	ui.Send(LinkWithMsg(ah, ToWidget, bh))
	ui.ProcessMessages()
	previews = nil
	ui.Send(NewMessage(bh, ToWidget, "x"))
	ui.ProcessMessages()
	if got := strings.Join(previews, ","); got != "b,a" {
		t.Errorf("previews = %s, want b,a", got)
	}
}

// --- Subscribers ---

func TestSubscribersSeeOnlyFromWidget(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	var dirs []Direction
	cb := ui.Subscribe(func(m *Message) { dirs = append(dirs, m.Direction()) })

	ui.Send(VisibilityMsg(h, ToWidget, false))
	ui.ProcessMessages()
	if len(dirs) != 1 || dirs[0] != FromWidget {
		t.Fatalf("dirs = %v, want [FromWidget]", dirs)
	}

	cb.Remove()
	ui.Send(VisibilityMsg(h, ToWidget, true))
	ui.ProcessMessages()
	if len(dirs) != 1 {
		t.Errorf("removed subscriber still called: %v", dirs)
	}
	cb.Remove()
}

// --- Structural messages ---

func TestRemoveFreesSubtree(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(a, NewNode("b", nil))
	c := ui.Add(b, NewNode("c", nil))
	keep := ui.Add(NoHandle, NewNode("keep", nil))

	ui.Send(RemoveMsg(a, ToWidget))
	ui.ProcessMessages()

	for _, h := range []Handle{a, b, c} {
		if ui.IsValid(h) {
			t.Errorf("%v should be freed", h)
		}
	}
	if !ui.IsValid(keep) {
		t.Error("sibling should survive")
	}
	if ui.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", ui.NodeCount())
	}
	if err := ui.CheckIntegrity(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveRootRefused(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	ui.Send(RemoveMsg(ui.Root(), ToWidget))
	expectPanic(t, "root cannot be removed", func() { ui.ProcessMessages() })
}

func TestHandleReuseAfterRemove(t *testing.T) {
	ui := New(Vec2{100, 100})
	old := ui.Add(NoHandle, NewNode("old", nil))
	ui.Send(RemoveMsg(old, ToWidget))
	ui.ProcessMessages()
	fresh := ui.Add(NoHandle, NewNode("fresh", nil))

	if old == fresh {
		t.Fatal("reused slot must get a new generation")
	}
	if _, ok := ui.Node(old); ok {
		t.Error("stale handle must not resolve to the new node")
	}
}

func TestUnlinkKeepsScreenPosition(t *testing.T) {
	ui := New(Vec2{800, 600})
	p := ui.Add(NoHandle, NewNode("p", nil).WithPosition(Vec2{100, 50}).WithSize(200, 200))
	c := ui.Add(p, NewNode("c", nil).WithSize(30, 30).WithAlignment(HAlignRight, VAlignBottom))
	ui.UpdateLayout()

	cn, _ := ui.Node(c)
	before := cn.ScreenBounds()
	if before.Position() != (Vec2{270, 220}) {
		t.Fatalf("screen position = %v, want (270,220)", before.Position())
	}

	ui.Send(UnlinkMsg(c, ToWidget))
	ui.ProcessMessages()
	ui.UpdateLayout()

	if cn.Parent() != ui.Root() {
		t.Errorf("parent = %v, want root", cn.Parent())
	}
	if got := cn.ScreenBounds(); got != before {
		t.Errorf("screen bounds = %v, want %v", got, before)
	}
}

func TestLinkWithReparents(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(NoHandle, NewNode("b", nil))
	ui.Send(LinkWithMsg(b, ToWidget, a))
	ui.ProcessMessages()

	bn, _ := ui.Node(b)
	an, _ := ui.Node(a)
	if bn.Parent() != a || !an.HasChild(b) {
		t.Error("b should be a child of a")
	}
	rn, _ := ui.Node(ui.Root())
	if rn.HasChild(b) {
		t.Error("root should no longer list b")
	}
	if !ui.IsAncestor(a, b) || ui.IsAncestor(b, a) {
		t.Error("IsAncestor disagrees with the tree")
	}
}

func TestLinkCycleRefused(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(a, NewNode("b", nil))

	ui.Send(LinkWithMsg(a, ToWidget, b))
	ui.Send(LinkWithMsg(a, ToWidget, a))
	ui.ProcessMessages()

	an, _ := ui.Node(a)
	if an.Parent() != ui.Root() {
		t.Errorf("a.parent = %v, want root", an.Parent())
	}
	if err := ui.CheckIntegrity(); err != nil {
		t.Fatal(err)
	}
}

func TestLinkCyclePanicsInDebug(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(a, NewNode("b", nil))
	ui.Send(LinkWithMsg(a, ToWidget, b))
	expectPanic(t, "cycle", func() { ui.ProcessMessages() })
}

func TestTopmost(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(NoHandle, NewNode("b", nil))
	c := ui.Add(NoHandle, NewNode("c", nil))

	ui.Send(TopmostMsg(a, ToWidget))
	ui.ProcessMessages()

	rn, _ := ui.Node(ui.Root())
	want := []Handle{b, c, a}
	for i, h := range want {
		if rn.Children()[i] != h {
			t.Fatalf("children = %v, want %v", rn.Children(), want)
		}
	}
}

// --- Focus and capture ---

func TestFocusMovesAndEchoes(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(NoHandle, NewNode("b", nil))
	var events []string
	ui.Subscribe(func(m *Message) {
		n, _ := ui.Node(m.Destination())
		switch m.Data().(type) {
		case Focus:
			events = append(events, "focus "+n.Name)
		case Unfocus:
			events = append(events, "unfocus "+n.Name)
		}
	})

	ui.Send(FocusMsg(a, ToWidget))
	ui.ProcessMessages()
	ui.Send(FocusMsg(b, ToWidget))
	ui.ProcessMessages()
	ui.Send(UnfocusMsg(b, ToWidget))
	ui.ProcessMessages()

	want := "focus a,unfocus a,focus b,unfocus b"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
	if ui.Focused().IsSome() {
		t.Errorf("Focused = %v, want none", ui.Focused())
	}
}

func TestCaptureClearedOnRemove(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	ui.CaptureMouse(a)
	ui.Send(FocusMsg(a, ToWidget))
	ui.ProcessMessages()
	if ui.Captured() != a || ui.Focused() != a {
		t.Fatal("a should hold capture and focus")
	}

	ui.Send(RemoveMsg(a, ToWidget))
	ui.ProcessMessages()
	if ui.Captured().IsSome() || ui.Focused().IsSome() {
		t.Error("capture and focus should clear when the holder is removed")
	}
}

func TestCaptureSwitchesHolder(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(NoHandle, NewNode("b", nil))
	ui.CaptureMouse(a)
	ui.CaptureMouse(b)
	if ui.Captured() != b {
		t.Errorf("Captured = %v, want b", ui.Captured())
	}
	ui.ReleaseMouseCapture()
	if ui.Captured().IsSome() {
		t.Error("capture should be released")
	}
}

// --- Frame loop ---

func TestTickAdvancesFrame(t *testing.T) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil).WithSize(10, 10))
	ui.Send(WidthMsg(h, ToWidget, 20))
	ui.Tick(1.0 / 60)

	if ui.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", ui.Frame())
	}
	if ui.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", ui.Pending())
	}
	n, _ := ui.Node(h)
	if n.ActualSize() != (Vec2{20, 10}) {
		t.Errorf("ActualSize = %v, want laid out after the drain", n.ActualSize())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ui := New(Vec2{100, 100})
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan float32)
	errc := make(chan error, 1)
	go func() { errc <- ui.Run(ctx, ticks) }()

	ticks <- 0.016
	ticks <- 0.016
	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if ui.Frame() != 2 {
		t.Errorf("Frame = %d, want 2", ui.Frame())
	}
}

func TestRunStopsOnClosedChannel(t *testing.T) {
	ui := New(Vec2{100, 100})
	ticks := make(chan float32, 1)
	ticks <- 0.016
	close(ticks)
	if err := ui.Run(context.Background(), ticks); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
	if ui.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", ui.Frame())
	}
}

func TestSetScreenSizeInvalidatesRoot(t *testing.T) {
	ui := New(Vec2{100, 100})
	ui.UpdateLayout()
	if !ui.IsLayoutValid(ui.Root()) {
		t.Fatal("root should be clean after layout")
	}
	ui.SetScreenSize(Vec2{200, 100})
	if ui.IsLayoutValid(ui.Root()) {
		t.Error("resizing should invalidate the root")
	}
	ui.UpdateLayout()
	rn, _ := ui.Node(ui.Root())
	if rn.ActualSize() != (Vec2{200, 100}) {
		t.Errorf("root size = %v", rn.ActualSize())
	}
}
