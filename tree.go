package arbor

import (
	"math"
	"slices"
)

const (
	defaultTreeIndent = 16.0
	defaultRowHeight  = 20.0
)

var treeSelectedColor = Color{0.2, 0.4, 0.7, 1}

// ExpandStrategy says how far an expand or collapse spreads.
type ExpandStrategy uint8

const (
	// ExpandDirect affects only the addressed item.
	ExpandDirect ExpandStrategy = iota
	// ExpandRecursiveDescendants applies the same state to every descendant.
	ExpandRecursiveDescendants
	// ExpandRecursiveAncestors applies the same state up the parent chain.
	ExpandRecursiveAncestors
)

// --- Tree item messages ---

// TreeExpand expands or collapses an item.
type TreeExpand struct {
	Expand   bool
	Strategy ExpandStrategy
}

// TreeAddItem appends a child item.
type TreeAddItem struct{ Item Handle }

// TreeRemoveItem removes a child item and its subtree.
type TreeRemoveItem struct{ Item Handle }

// TreeSetItems replaces all child items.
type TreeSetItems struct{ Items []Handle }

// TreeSelect sets an item's selection flag. Only the owning TreeRoot sends
// it, to keep the flag in line with the root's selection.
type TreeSelect struct{ Selected bool }

// TreeSetExpanderShown forces the expander visible even without children.
type TreeSetExpanderShown struct{ Shown bool }

// TreeExpandMsg builds a TreeExpand message.
func TreeExpandMsg(dest Handle, dir Direction, expand bool, strategy ExpandStrategy) *Message {
	return NewMessage(dest, dir, TreeExpand{Expand: expand, Strategy: strategy})
}

// TreeAddItemMsg builds a TreeAddItem message.
func TreeAddItemMsg(dest Handle, dir Direction, item Handle) *Message {
	return NewMessage(dest, dir, TreeAddItem{Item: item})
}

// TreeRemoveItemMsg builds a TreeRemoveItem message.
func TreeRemoveItemMsg(dest Handle, dir Direction, item Handle) *Message {
	return NewMessage(dest, dir, TreeRemoveItem{Item: item})
}

// TreeSetItemsMsg builds a TreeSetItems message.
func TreeSetItemsMsg(dest Handle, dir Direction, items []Handle) *Message {
	return NewMessage(dest, dir, TreeSetItems{Items: slices.Clone(items)})
}

// TreeSelectMsg builds a TreeSelect message.
func TreeSelectMsg(dest Handle, dir Direction, selected bool) *Message {
	return NewMessage(dest, dir, TreeSelect{Selected: selected})
}

// TreeSetExpanderShownMsg builds a TreeSetExpanderShown message.
func TreeSetExpanderShownMsg(dest Handle, dir Direction, shown bool) *Message {
	return NewMessage(dest, dir, TreeSetExpanderShown{Shown: shown})
}

// --- Tree item ---

// TreeItemConfig describes a tree item to build.
type TreeItemConfig struct {
	// Content is the row shown for the item. A plain row is created when
	// it is NoHandle.
	Content            Handle
	Items              []Handle
	Expanded           bool
	AlwaysShowExpander bool
}

// TreeItem is one row of a tree view with an expander and a panel of
// child items shown while expanded.
type TreeItem struct {
	Base

	content  Handle
	expander Handle
	panel    Handle
	items    []Handle

	expanded           bool
	selected           bool
	alwaysShowExpander bool
}

// NewTreeItem builds a tree item under parent.
func (ui *UI) NewTreeItem(parent Handle, name string, cfg TreeItemConfig) Handle {
	ti := &TreeItem{expanded: cfg.Expanded, alwaysShowExpander: cfg.AlwaysShowExpander}
	h := ui.Add(parent, NewNode(name, ti))

	ti.expander = ui.NewBorder(h, NewNode(name+".expander", &Border{}).
		WithSize(defaultTreeIndent, defaultTreeIndent).
		WithAlignment(HAlignCenter, VAlignCenter).
		WithVisibility(len(cfg.Items) > 0 || cfg.AlwaysShowExpander))
	if cfg.Content.IsSome() {
		ti.content = cfg.Content
		ui.link(cfg.Content, h)
	} else {
		ti.content = ui.NewBorder(h, NewNode(name+".row", &Border{}).WithSize(Auto, defaultRowHeight))
	}
	ti.panel = ui.NewStackPanel(h, name+".items", Vertical)
	if pn, ok := ui.nodes.Get(ti.panel); ok {
		pn.visible = cfg.Expanded
		pn.hitTest = false
	}
	for _, item := range cfg.Items {
		ui.link(item, ti.panel)
		ti.items = append(ti.items, item)
	}
	return h
}

// Expanded reports whether the item shows its children.
func (ti *TreeItem) Expanded() bool { return ti.expanded }

// Selected reports the item's selection flag.
func (ti *TreeItem) Selected() bool { return ti.selected }

// Items returns the child items.
func (ti *TreeItem) Items() []Handle { return slices.Clone(ti.items) }

// Content returns the row node.
func (ti *TreeItem) Content() Handle { return ti.content }

// Expander returns the expander node.
func (ti *TreeItem) Expander() Handle { return ti.expander }

// Measure puts the expander and content on one row and the child panel
// below it, indented.
func (ti *TreeItem) Measure(ui *UI, n *Node, available Vec2) Vec2 {
	inner := Vec2{math.Max(0, available.X-defaultTreeIndent), available.Y}
	ed := ui.MeasureNode(ti.expander, Vec2{defaultTreeIndent, available.Y})
	cd := ui.MeasureNode(ti.content, inner)
	pd := ui.MeasureNode(ti.panel, Vec2{inner.X, math.Inf(1)})
	row := math.Max(ed.Y, cd.Y)
	return Vec2{defaultTreeIndent + math.Max(cd.X, pd.X), row + pd.Y}
}

// Arrange lays out the row and the child panel.
func (ti *TreeItem) Arrange(ui *UI, n *Node, final Vec2) Vec2 {
	var row, panelH float64
	if cn, ok := ui.nodes.Get(ti.content); ok {
		row = cn.desiredSize.Y
	}
	if en, ok := ui.nodes.Get(ti.expander); ok {
		row = math.Max(row, en.desiredSize.Y)
	}
	if pn, ok := ui.nodes.Get(ti.panel); ok {
		panelH = pn.desiredSize.Y
	}
	inner := math.Max(0, final.X-defaultTreeIndent)
	ui.ArrangeNode(ti.expander, Rect{Width: defaultTreeIndent, Height: row})
	ui.ArrangeNode(ti.content, Rect{X: defaultTreeIndent, Width: inner, Height: row})
	ui.ArrangeNode(ti.panel, Rect{X: defaultTreeIndent, Y: row, Width: inner, Height: panelH})
	return final
}

// HandleMessage applies tree item messages and turns clicks into
// expansion or selection requests.
func (ti *TreeItem) HandleMessage(ui *UI, n *Node, m *Message) {
	if d, ok := m.Data().(MouseDown); ok {
		ti.handleMouseDown(ui, n, m, d)
		return
	}
	if !m.IsFor(n.handle, ToWidget) {
		return
	}
	switch d := m.Data().(type) {
	case TreeExpand:
		if ti.expanded != d.Expand {
			ti.expanded = d.Expand
			ui.Send(VisibilityMsg(ti.panel, ToWidget, d.Expand))
			ui.Send(m.Reverse())
		}
		switch d.Strategy {
		case ExpandRecursiveDescendants:
			for _, item := range ti.items {
				ui.Send(TreeExpandMsg(item, ToWidget, d.Expand, d.Strategy))
			}
		case ExpandRecursiveAncestors:
			if parent, ok := ti.parentItem(ui, n); ok {
				ui.Send(TreeExpandMsg(parent, ToWidget, d.Expand, d.Strategy))
			}
		}
	case TreeAddItem:
		if slices.Contains(ti.items, d.Item) || !ui.IsValid(d.Item) {
			return
		}
		ti.items = append(ti.items, d.Item)
		ui.Send(LinkWithMsg(d.Item, ToWidget, ti.panel))
		ti.syncExpander(ui)
		ui.Send(m.Reverse())
	case TreeRemoveItem:
		i := slices.Index(ti.items, d.Item)
		if i < 0 {
			return
		}
		ti.items = slices.Delete(ti.items, i, i+1)
		ui.Send(RemoveMsg(d.Item, ToWidget))
		ti.syncExpander(ui)
		ui.Send(m.Reverse())
	case TreeSetItems:
		if slices.Equal(ti.items, d.Items) {
			return
		}
		for _, old := range ti.items {
			if !slices.Contains(d.Items, old) {
				ui.Send(RemoveMsg(old, ToWidget))
			}
		}
		ti.items = slices.Clone(d.Items)
		for _, item := range ti.items {
			ui.Send(LinkWithMsg(item, ToWidget, ti.panel))
		}
		ti.syncExpander(ui)
		ui.Send(m.Reverse())
	case TreeSelect:
		if ti.selected == d.Selected {
			return
		}
		ti.selected = d.Selected
		bg := ColorTransparent
		if d.Selected {
			bg = treeSelectedColor
		}
		ui.Send(BackgroundMsg(ti.content, ToWidget, bg))
		ui.Send(m.Reverse())
	case TreeSetExpanderShown:
		if ti.alwaysShowExpander == d.Shown {
			return
		}
		ti.alwaysShowExpander = d.Shown
		ti.syncExpander(ui)
		ui.Send(m.Reverse())
	}
}

func (ti *TreeItem) syncExpander(ui *UI) {
	ui.Send(VisibilityMsg(ti.expander, ToWidget, len(ti.items) > 0 || ti.alwaysShowExpander))
}

func (ti *TreeItem) handleMouseDown(ui *UI, n *Node, m *Message, d MouseDown) {
	if m.Handled() || m.Direction() != ToWidget || d.Button != MouseButtonLeft {
		return
	}
	if m.Destination() == ti.expander {
		ui.Send(TreeExpandMsg(n.handle, ToWidget, !ti.expanded, ExpandDirect))
		m.SetHandled(true)
		return
	}
	// Alt is reserved for drag reordering.
	if d.Modifiers.Has(ModAlt) {
		return
	}
	rootNode, root, ok := FindUpAs[*TreeRoot](ui, n.parent)
	if !ok {
		return
	}
	if sel, changed := root.selectionAfterClick(ui, rootNode, n.handle, d.Modifiers); changed {
		ui.Send(TreeRootSelectedMsg(rootNode.handle, ToWidget, sel))
	}
	m.SetHandled(true)
}

// parentItem returns the closest TreeItem above n within the same tree.
func (ti *TreeItem) parentItem(ui *UI, n *Node) (Handle, bool) {
	for p := range ui.Ancestors(n.handle) {
		pn, _ := ui.Node(p)
		switch pn.widget.(type) {
		case *TreeItem:
			return p, true
		case *TreeRoot:
			return NoHandle, false
		}
	}
	return NoHandle, false
}
