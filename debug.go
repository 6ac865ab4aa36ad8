package arbor

import "fmt"

// misuse reports programmer error in a handler or caller. Debug mode
// panics; otherwise the operation is logged and skipped.
func (ui *UI) misuse(op, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if ui.debug {
		panic(fmt.Sprintf("arbor debug: %s: %s", op, msg))
	}
	ui.log.Warn("ignored invalid operation", "subsystem", "ui", "op", op, "reason", msg)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(ui *UI, n *Node) {
	depth := 1
	for range ui.Ancestors(n.handle) {
		depth++
	}
	if depth > debugMaxTreeDepth {
		ui.log.Warn("tree depth exceeds threshold",
			"subsystem", "ui", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckDuplicateChild panics if a node lists the same child twice, which
// would mean the parent/child links have diverged.
func debugCheckDuplicateChild(n *Node) {
	seen := make(map[Handle]struct{}, len(n.children))
	for _, c := range n.children {
		if _, dup := seen[c]; dup {
			panic(fmt.Sprintf("arbor debug: node %q lists child %s twice", n.Name, c))
		}
		seen[c] = struct{}{}
	}
}

// Stats is a snapshot of UI bookkeeping for debug overlays and logs.
type Stats struct {
	Nodes           int
	PendingMessages int
	PreviewNodes    int
	Captured        Handle
	Focused         Handle
	Frame           uint64
}

// Stats returns current bookkeeping counters.
func (ui *UI) Stats() Stats {
	return Stats{
		Nodes:           ui.nodes.Len(),
		PendingMessages: ui.bus.Len(),
		PreviewNodes:    len(ui.previewOrder),
		Captured:        ui.Captured(),
		Focused:         ui.Focused(),
		Frame:           ui.frame,
	}
}

// CheckIntegrity walks the store and verifies that every parent/child link
// is bidirectional. It returns the first violation found.
func (ui *UI) CheckIntegrity() error {
	for h, n := range ui.nodes.All() {
		for _, c := range n.children {
			cn, ok := ui.nodes.Get(c)
			if !ok {
				return fmt.Errorf("node %q (%s) lists missing child %s", n.Name, h, c)
			}
			if cn.parent != h {
				return fmt.Errorf("node %q (%s) lists child %q whose parent is %s", n.Name, h, cn.Name, cn.parent)
			}
		}
		if n.parent.IsSome() {
			p, ok := ui.nodes.Get(n.parent)
			if !ok {
				return fmt.Errorf("node %q (%s) has missing parent %s", n.Name, h, n.parent)
			}
			if !p.HasChild(h) {
				return fmt.Errorf("node %q (%s) is not listed by its parent %q", n.Name, h, p.Name)
			}
		}
	}
	return nil
}
