package arbor

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// ---- Misuse reporting -------------------------------------------------------

func TestMisuseLogsOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	ui := New(Vec2{100, 100}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	ui.Send(RemoveMsg(ui.Root(), ToWidget))
	ui.ProcessMessages()

	out := buf.String()
	if !strings.Contains(out, "ignored invalid operation") || !strings.Contains(out, "op=Remove") {
		t.Errorf("log = %q", out)
	}
	if !ui.IsValid(ui.Root()) {
		t.Error("root must survive")
	}
}

func TestMisusePanicsInDebug(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	expectPanic(t, "arbor debug: Test: bad 7", func() { ui.misuse("Test", "bad %d", 7) })
}

// ---- Tree checks -------------------------------------------------------------

func TestDebugDuplicateChildPanics(t *testing.T) {
	n := NewNode("p", nil)
	ui := New(Vec2{100, 100})
	c := ui.Add(NoHandle, NewNode("c", nil))
	n.children = []Handle{c, c}
	expectPanic(t, "lists child", func() { debugCheckDuplicateChild(n) })
}

func TestDebugTreeDepthWarns(t *testing.T) {
	var buf bytes.Buffer
	ui := New(Vec2{100, 100}, WithDebug(true), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	h := NoHandle
	for range debugMaxTreeDepth + 1 {
		h = ui.Add(h, NewNode("n", nil))
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Error("expected a depth warning")
	}
}

// ---- Integrity ---------------------------------------------------------------

func TestCheckIntegrity(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	b := ui.Add(a, NewNode("b", nil))
	if err := ui.CheckIntegrity(); err != nil {
		t.Fatalf("healthy tree: %v", err)
	}

	bn, _ := ui.Node(b)
	bn.parent = ui.Root()
	if err := ui.CheckIntegrity(); err == nil {
		t.Error("a one-sided link should be reported")
	}
	bn.parent = a

	an, _ := ui.Node(a)
	ui.nodes.Free(b)
	if err := ui.CheckIntegrity(); err == nil || !strings.Contains(err.Error(), "missing child") {
		t.Errorf("err = %v, want a missing child", err)
	}
	an.children = nil
}

// ---- Stats -------------------------------------------------------------------

func TestStats(t *testing.T) {
	ui := New(Vec2{100, 100})
	a := ui.Add(NoHandle, NewNode("a", nil))
	ui.Send(FocusMsg(a, ToWidget))
	ui.ProcessMessages()
	ui.CaptureMouse(a)
	ui.Send(WidthMsg(a, ToWidget, 1))
	ui.Tick(0)
	ui.Send(WidthMsg(a, ToWidget, 2))

	s := ui.Stats()
	if s.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", s.Nodes)
	}
	if s.PendingMessages != 1 {
		t.Errorf("PendingMessages = %d, want 1", s.PendingMessages)
	}
	if s.Captured != a || s.Focused != a {
		t.Errorf("Captured = %v Focused = %v", s.Captured, s.Focused)
	}
	if s.Frame != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame)
	}
}
