package arbor

import "testing"

// setupBenchGrid adds n fixed-size nodes under the root in rows of 100.
func setupBenchGrid(n int) *UI {
	ui := New(Vec2{1200, 1200})
	for i := range n {
		ui.Add(NoHandle, NewNode("n", nil).
			WithSize(10, 10).
			WithPosition(Vec2{float64(i%100) * 12, float64(i/100) * 12}))
	}
	ui.UpdateLayout()
	return ui
}

// --- Message Benchmarks ---

func BenchmarkProcessMessages_1000Width(b *testing.B) {
	ui := setupBenchGrid(1000)
	var targets []Handle
	for n := range ui.Walk(ui.Root()) {
		targets = append(targets, n.Handle())
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w := float64(10 + i%2)
		for _, h := range targets[1:] {
			ui.Send(WidthMsg(h, ToWidget, w))
		}
		ui.ProcessMessages()
	}
}

func BenchmarkSendPoll(b *testing.B) {
	ui := New(Vec2{100, 100})
	h := ui.Add(NoHandle, NewNode("n", nil))
	m := CenterMsg(h, ToWidget)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ui.Send(m)
		ui.PollMessage()
	}
}

// --- Layout Benchmarks ---

func BenchmarkUpdateLayout_10000Dirty(b *testing.B) {
	ui := setupBenchGrid(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ui.InvalidateLayout(ui.Root())
		ui.UpdateLayout()
	}
}

func BenchmarkUpdateLayout_10000Clean(b *testing.B) {
	ui := setupBenchGrid(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ui.UpdateLayout()
	}
}

func BenchmarkUpdateLayout_DeepStack(b *testing.B) {
	ui := New(Vec2{800, 600})
	parent := NoHandle
	for range 50 {
		parent = ui.NewStackPanel(parent, "s", Vertical)
		ui.Add(parent, NewNode("leaf", nil).WithSize(20, 4))
	}
	ui.UpdateLayout()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ui.InvalidateLayout(parent)
		ui.UpdateLayout()
	}
}

// --- Hit Testing Benchmark ---

func BenchmarkHitTest_1000Nodes(b *testing.B) {
	ui := setupBenchGrid(1000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ui.HitTest(Vec2{500, 50})
	}
}
