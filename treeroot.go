package arbor

import "slices"

// --- Tree root messages ---

// TreeRootAddItem appends a top-level item.
type TreeRootAddItem struct{ Item Handle }

// TreeRootRemoveItem removes a top-level item and its subtree.
type TreeRootRemoveItem struct{ Item Handle }

// TreeRootItems replaces all top-level items.
type TreeRootItems struct{ Items []Handle }

// TreeRootSelected replaces the selection. Items whose flag differs are
// sent TreeSelect.
type TreeRootSelected struct{ Selection []Handle }

// TreeRootExpandAll expands every item.
type TreeRootExpandAll struct{}

// TreeRootCollapseAll collapses every item.
type TreeRootCollapseAll struct{}

// TreeRootAddItemMsg builds a TreeRootAddItem message.
func TreeRootAddItemMsg(dest Handle, dir Direction, item Handle) *Message {
	return NewMessage(dest, dir, TreeRootAddItem{Item: item})
}

// TreeRootRemoveItemMsg builds a TreeRootRemoveItem message.
func TreeRootRemoveItemMsg(dest Handle, dir Direction, item Handle) *Message {
	return NewMessage(dest, dir, TreeRootRemoveItem{Item: item})
}

// TreeRootItemsMsg builds a TreeRootItems message.
func TreeRootItemsMsg(dest Handle, dir Direction, items []Handle) *Message {
	return NewMessage(dest, dir, TreeRootItems{Items: slices.Clone(items)})
}

// TreeRootSelectedMsg builds a TreeRootSelected message.
func TreeRootSelectedMsg(dest Handle, dir Direction, selection []Handle) *Message {
	return NewMessage(dest, dir, TreeRootSelected{Selection: slices.Clone(selection)})
}

// TreeRootExpandAllMsg builds a TreeRootExpandAll message.
func TreeRootExpandAllMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, TreeRootExpandAll{})
}

// TreeRootCollapseAllMsg builds a TreeRootCollapseAll message.
func TreeRootCollapseAllMsg(dest Handle, dir Direction) *Message {
	return NewMessage(dest, dir, TreeRootCollapseAll{})
}

// --- Tree root ---

// TreeRoot owns the top-level items of a tree view and its selection. It
// handles keyboard navigation for the whole tree.
type TreeRoot struct {
	Base

	panel    Handle
	items    []Handle
	selected []Handle
}

// NewTreeRoot builds a tree root under parent with the given top-level
// items.
func (ui *UI) NewTreeRoot(parent Handle, name string, items ...Handle) Handle {
	tr := &TreeRoot{}
	h := ui.Add(parent, NewNode(name, tr))
	tr.panel = ui.NewStackPanel(h, name+".items", Vertical)
	if pn, ok := ui.nodes.Get(tr.panel); ok {
		pn.hitTest = false
	}
	for _, item := range items {
		ui.link(item, tr.panel)
		tr.items = append(tr.items, item)
	}
	return h
}

// Items returns the top-level items.
func (tr *TreeRoot) Items() []Handle { return slices.Clone(tr.items) }

// Selection returns the selected items in selection order.
func (tr *TreeRoot) Selection() []Handle { return slices.Clone(tr.selected) }

// VisibleItems flattens the tree depth-first, descending only into
// expanded items.
func (tr *TreeRoot) VisibleItems(ui *UI) []Handle {
	var out []Handle
	var visit func(items []Handle)
	visit = func(items []Handle) {
		for _, h := range items {
			_, ti, ok := NodeAs[*TreeItem](ui, h)
			if !ok {
				continue
			}
			out = append(out, h)
			if ti.expanded {
				visit(ti.items)
			}
		}
	}
	visit(tr.items)
	return out
}

// selectionAfterClick computes the selection a pointer press on item
// produces under mods.
func (tr *TreeRoot) selectionAfterClick(ui *UI, n *Node, item Handle, mods KeyModifiers) ([]Handle, bool) {
	switch {
	case mods.Has(ModCtrl):
		sel := slices.Clone(tr.selected)
		if i := slices.Index(sel, item); i >= 0 {
			sel = slices.Delete(sel, i, i+1)
		} else {
			sel = append(sel, item)
		}
		return sel, true
	case mods.Has(ModShift) && len(tr.selected) > 0:
		visible := tr.VisibleItems(ui)
		from := slices.Index(visible, tr.selected[0])
		to := slices.Index(visible, item)
		if from < 0 || to < 0 {
			return []Handle{item}, true
		}
		if from > to {
			from, to = to, from
		}
		return slices.Clone(visible[from : to+1]), true
	default:
		if len(tr.selected) == 1 && tr.selected[0] == item {
			return nil, false
		}
		return []Handle{item}, true
	}
}

// HandleMessage applies root messages, keeps the selection free of removed
// items and runs keyboard navigation.
func (tr *TreeRoot) HandleMessage(ui *UI, n *Node, m *Message) {
	switch d := m.Data().(type) {
	case KeyDown:
		if m.Direction() == ToWidget && !m.Handled() {
			if tr.navigate(ui, d.Key) {
				m.SetHandled(true)
			}
		}
		return
	case TreeRemoveItem:
		// Bubbling up from an item inside this tree.
		if m.Direction() == ToWidget {
			tr.pruneSelection(ui, n, d.Item)
		}
		return
	}
	if !m.IsFor(n.handle, ToWidget) {
		return
	}
	switch d := m.Data().(type) {
	case TreeRootSelected:
		tr.setSelection(ui, m, d.Selection)
	case TreeRootAddItem:
		if slices.Contains(tr.items, d.Item) || !ui.IsValid(d.Item) {
			return
		}
		tr.items = append(tr.items, d.Item)
		ui.Send(LinkWithMsg(d.Item, ToWidget, tr.panel))
		ui.Send(m.Reverse())
	case TreeRootRemoveItem:
		i := slices.Index(tr.items, d.Item)
		if i < 0 {
			return
		}
		tr.items = slices.Delete(tr.items, i, i+1)
		tr.pruneSelection(ui, n, d.Item)
		ui.Send(RemoveMsg(d.Item, ToWidget))
		ui.Send(m.Reverse())
	case TreeRootItems:
		if slices.Equal(tr.items, d.Items) {
			return
		}
		for _, old := range tr.items {
			if !slices.Contains(d.Items, old) {
				tr.pruneSelection(ui, n, old)
				ui.Send(RemoveMsg(old, ToWidget))
			}
		}
		tr.items = slices.Clone(d.Items)
		for _, item := range tr.items {
			ui.Send(LinkWithMsg(item, ToWidget, tr.panel))
		}
		ui.Send(m.Reverse())
	case TreeRootExpandAll:
		for _, item := range tr.items {
			ui.Send(TreeExpandMsg(item, ToWidget, true, ExpandRecursiveDescendants))
		}
	case TreeRootCollapseAll:
		for _, item := range tr.items {
			ui.Send(TreeExpandMsg(item, ToWidget, false, ExpandRecursiveDescendants))
		}
	}
}

// setSelection diffs sel against every item's flag and echoes the change.
func (tr *TreeRoot) setSelection(ui *UI, m *Message, sel []Handle) {
	if slices.Equal(tr.selected, sel) {
		return
	}
	for node := range ui.Walk(tr.panel) {
		ti, ok := node.widget.(*TreeItem)
		if !ok {
			continue
		}
		want := slices.Contains(sel, node.handle)
		if ti.selected != want {
			ui.Send(TreeSelectMsg(node.handle, ToWidget, want))
		}
	}
	tr.selected = slices.Clone(sel)
	ui.Send(m.Reverse())
}

// pruneSelection drops item and everything below it from the selection.
func (tr *TreeRoot) pruneSelection(ui *UI, n *Node, item Handle) {
	if len(tr.selected) == 0 {
		return
	}
	sel := slices.DeleteFunc(slices.Clone(tr.selected), func(h Handle) bool {
		return h == item || ui.IsAncestor(item, h)
	})
	if len(sel) != len(tr.selected) {
		ui.Send(TreeRootSelectedMsg(n.handle, ToWidget, sel))
	}
}

// navigate moves the selection with the arrow keys. It reports whether the
// key was used.
func (tr *TreeRoot) navigate(ui *UI, key Key) bool {
	visible := tr.VisibleItems(ui)
	if len(visible) == 0 {
		return false
	}
	var current Handle
	if len(tr.selected) > 0 {
		current = tr.selected[0]
	}
	n, ok := ui.nodes.Get(current)
	if !ok {
		switch key {
		case KeyArrowDown, KeyArrowUp:
			ui.Send(TreeRootSelectedMsg(tr.rootHandle(ui), ToWidget, []Handle{visible[0]}))
			return true
		}
		return false
	}
	ti, _ := n.widget.(*TreeItem)
	if ti == nil {
		return false
	}
	root := tr.rootHandle(ui)
	switch key {
	case KeyArrowRight:
		if !ti.expanded && len(ti.items) > 0 {
			ui.Send(TreeExpandMsg(current, ToWidget, true, ExpandDirect))
		}
		return true
	case KeyArrowLeft:
		if ti.expanded && len(ti.items) > 0 {
			ui.Send(TreeExpandMsg(current, ToWidget, false, ExpandDirect))
		} else if parent, ok := ti.parentItem(ui, n); ok {
			ui.Send(TreeRootSelectedMsg(root, ToWidget, []Handle{parent}))
		}
		return true
	case KeyArrowUp, KeyArrowDown:
		i := slices.Index(visible, current)
		if key == KeyArrowUp {
			i--
		} else {
			i++
		}
		if i >= 0 && i < len(visible) {
			ui.Send(TreeRootSelectedMsg(root, ToWidget, []Handle{visible[i]}))
		}
		return true
	}
	return false
}

// rootHandle resolves the node this TreeRoot belongs to through its panel.
func (tr *TreeRoot) rootHandle(ui *UI) Handle {
	if pn, ok := ui.nodes.Get(tr.panel); ok {
		return pn.parent
	}
	return NoHandle
}
