package arbor

import (
	"iter"

	"github.com/google/uuid"
)

// NodeAs resolves h and casts its widget to T in one step. It returns false
// for a stale handle or a widget of another kind.
func NodeAs[T Widget](ui *UI, h Handle) (*Node, T, bool) {
	var zero T
	n, ok := ui.nodes.Get(h)
	if !ok {
		return nil, zero, false
	}
	w, ok := n.widget.(T)
	if !ok {
		return nil, zero, false
	}
	return n, w, true
}

// IsAncestor reports whether ancestor lies on the parent chain of h.
func (ui *UI) IsAncestor(ancestor, h Handle) bool {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return false
	}
	for p := n.parent; p.IsSome(); {
		if p == ancestor {
			return true
		}
		pn, ok := ui.nodes.Get(p)
		if !ok {
			return false
		}
		p = pn.parent
	}
	return false
}

// Ancestors iterates from h's parent up to the root.
func (ui *UI) Ancestors(h Handle) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		n, ok := ui.nodes.Get(h)
		if !ok {
			return
		}
		for p := n.parent; p.IsSome(); {
			pn, ok := ui.nodes.Get(p)
			if !ok || !yield(p) {
				return
			}
			p = pn.parent
		}
	}
}

// Walk iterates over h and its descendants depth-first, parents before
// children, in child order.
func (ui *UI) Walk(h Handle) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		ui.walk(h, yield)
	}
}

func (ui *UI) walk(h Handle, yield func(*Node) bool) bool {
	n, ok := ui.nodes.Get(h)
	if !ok {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !ui.walk(c, yield) {
			return false
		}
	}
	return true
}

// FindUp returns the first node at h or above it that satisfies pred.
func (ui *UI) FindUp(h Handle, pred func(*Node) bool) (Handle, bool) {
	for n, ok := ui.nodes.Get(h); ok; n, ok = ui.nodes.Get(n.parent) {
		if pred(n) {
			return n.handle, true
		}
	}
	return NoHandle, false
}

// FindDown returns the first node at h or below it, depth-first, that
// satisfies pred.
func (ui *UI) FindDown(h Handle, pred func(*Node) bool) (Handle, bool) {
	for n := range ui.Walk(h) {
		if pred(n) {
			return n.handle, true
		}
	}
	return NoHandle, false
}

// FindUpAs returns the first node at h or above it whose widget is a T.
func FindUpAs[T Widget](ui *UI, h Handle) (*Node, T, bool) {
	found, ok := ui.FindUp(h, func(n *Node) bool {
		_, ok := n.widget.(T)
		return ok
	})
	if !ok {
		var zero T
		return nil, zero, false
	}
	return NodeAs[T](ui, found)
}

// FindByName returns the first node named name in the whole tree.
func (ui *UI) FindByName(name string) (Handle, bool) {
	return ui.FindDown(ui.root, func(n *Node) bool { return n.Name == name })
}

// FindByID returns the node with the given stable ID.
func (ui *UI) FindByID(id uuid.UUID) (Handle, bool) {
	for h, n := range ui.nodes.All() {
		if n.ID == id {
			return h, true
		}
	}
	return NoHandle, false
}

// CountWidgets returns how many live nodes in the store carry a T widget,
// whether or not they are attached to the tree.
func CountWidgets[T Widget](ui *UI) int {
	count := 0
	for _, n := range ui.nodes.All() {
		if _, ok := n.widget.(T); ok {
			count++
		}
	}
	return count
}
