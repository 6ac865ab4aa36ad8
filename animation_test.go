package arbor

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestAnimateSplitRatioReachesTarget(t *testing.T) {
	f := newSplitDock(t)
	g := f.ui.AnimateSplitRatio(f.root, 0.8, 1.0, ease.Linear)
	if g == nil {
		t.Fatal("expected a tween")
	}
	if !f.ui.Animating() {
		t.Fatal("UI should report a running tween")
	}

	f.ui.Tick(0.5)
	if r := tileContent(t, f.ui, f.root).Ratio; !near(r, 0.65) {
		t.Errorf("ratio halfway = %v, want ~0.65", r)
	}
	f.ui.Tick(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if r := tileContent(t, f.ui, f.root).Ratio; !near(r, 0.8) {
		t.Errorf("ratio = %v, want ~0.8", r)
	}
	if f.ui.Animating() {
		t.Error("finished tweens should be dropped")
	}
	// The tween runs in float32, so allow for the widened ratio.
	if got := bounds(t, f.ui, f.left).Width; math.Abs(got-638) > 0.05 {
		t.Errorf("left width = %v, want it laid out in the same tick", got)
	}
}

func TestAnimateSplitRatioNotATile(t *testing.T) {
	ui := New(Vec2{100, 100}, WithDebug(true))
	h := ui.Add(NoHandle, NewNode("n", nil))
	expectPanic(t, "AnimateSplitRatio", func() { ui.AnimateSplitRatio(h, 0.5, 1, ease.Linear) })
}

func TestAnimateWidthFromAuto(t *testing.T) {
	ui := New(Vec2{400, 300})
	h := ui.Add(NoHandle, NewNode("n", nil))
	ui.Add(h, NewNode("content", nil).WithSize(100, 10))
	ui.UpdateLayout()

	g := ui.AnimateWidth(h, 200, 1.0, ease.Linear)
	if g.Value() != 100 {
		t.Fatalf("start = %v, want the arranged width 100", g.Value())
	}
	ui.Tick(0.5)
	n, _ := ui.Node(h)
	if !near(n.Width(), 150) {
		t.Errorf("width halfway = %v, want ~150", n.Width())
	}
	ui.Tick(0.5)
	if !near(n.Width(), 200) {
		t.Errorf("width = %v, want ~200", n.Width())
	}
}

func TestAnimateHeightExplicitStart(t *testing.T) {
	ui := New(Vec2{400, 300})
	h := ui.Add(NoHandle, NewNode("n", nil).WithSize(Auto, 40))
	g := ui.AnimateHeight(h, 0, 1.0, ease.Linear)
	if g.Value() != 40 || g.Target() != h {
		t.Errorf("start = %v target = %v", g.Value(), g.Target())
	}
}

func TestTweenStopsWhenTargetRemoved(t *testing.T) {
	ui := New(Vec2{400, 300})
	h := ui.Add(NoHandle, NewNode("n", nil).WithSize(10, 10))
	g := ui.AnimateWidth(h, 100, 1.0, ease.Linear)

	ui.Tick(0.25)
	ui.Send(RemoveMsg(h, ToWidget))
	ui.ProcessMessages()
	ui.Tick(0.25)

	if !g.Done {
		t.Error("tween on a removed node should finish")
	}
	if ui.Animating() {
		t.Error("tween should be dropped")
	}
	if ui.Pending() != 0 {
		t.Errorf("Pending = %d, nothing should be sent for a stale target", ui.Pending())
	}
}

func TestTweenGroupCustomBuild(t *testing.T) {
	ui := New(Vec2{400, 300})
	h := ui.Add(NoHandle, NewNode("n", nil))
	var seen []float64
	g := NewTweenGroup(h, 0, 1, 1.0, ease.Linear, func(target Handle, v float64) *Message {
		seen = append(seen, v)
		return BackgroundMsg(target, ToWidget, Color{v, v, v, 1})
	})
	ui.AddTween(g)
	ui.Tick(0.5)
	ui.Tick(0.5)
	if len(seen) != 2 || !near(seen[1], 1) {
		t.Errorf("values = %v", seen)
	}
	n, _ := ui.Node(h)
	if !near(n.Background().R, 1) {
		t.Errorf("background = %v", n.Background())
	}
}
