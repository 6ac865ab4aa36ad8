package arbor

import (
	"slices"
	"testing"
)

type treeFixture struct {
	ui                  *UI
	root                Handle
	a, a1, a2, b, b1, c Handle
}

// newTree builds:
//
//	A (expanded)
//	  A1
//	  A2
//	B
//	  B1
//	C
func newTree(t *testing.T) treeFixture {
	t.Helper()
	ui := New(Vec2{400, 300})
	f := treeFixture{ui: ui}
	f.a1 = ui.NewTreeItem(NoHandle, "A1", TreeItemConfig{})
	f.a2 = ui.NewTreeItem(NoHandle, "A2", TreeItemConfig{})
	f.a = ui.NewTreeItem(NoHandle, "A", TreeItemConfig{Items: []Handle{f.a1, f.a2}, Expanded: true})
	f.b1 = ui.NewTreeItem(NoHandle, "B1", TreeItemConfig{})
	f.b = ui.NewTreeItem(NoHandle, "B", TreeItemConfig{Items: []Handle{f.b1}})
	f.c = ui.NewTreeItem(NoHandle, "C", TreeItemConfig{})
	f.root = ui.NewTreeRoot(NoHandle, "tree", f.a, f.b, f.c)
	ui.UpdateLayout()
	return f
}

func (f treeFixture) treeRoot(t *testing.T) *TreeRoot {
	t.Helper()
	_, tr, ok := NodeAs[*TreeRoot](f.ui, f.root)
	if !ok {
		t.Fatal("tree is not a TreeRoot")
	}
	return tr
}

func (f treeFixture) item(t *testing.T, h Handle) *TreeItem {
	t.Helper()
	_, ti, ok := NodeAs[*TreeItem](f.ui, h)
	if !ok {
		t.Fatalf("%v is not a TreeItem", h)
	}
	return ti
}

// click presses on the item's row.
func (f treeFixture) click(t *testing.T, h Handle, mods KeyModifiers) {
	t.Helper()
	f.ui.Send(NewMessage(f.item(t, h).Content(), ToWidget, MouseDown{Button: MouseButtonLeft, Modifiers: mods}))
	f.ui.ProcessMessages()
}

func (f treeFixture) key(k Key) {
	f.ui.Send(NewMessage(f.root, ToWidget, KeyDown{Key: k}))
	f.ui.ProcessMessages()
}

func (f treeFixture) expectSelection(t *testing.T, want ...Handle) {
	t.Helper()
	got := f.treeRoot(t).Selection()
	if !slices.Equal(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
	for _, h := range []Handle{f.a, f.a1, f.a2, f.b, f.b1, f.c} {
		if sel := f.item(t, h).Selected(); sel != slices.Contains(want, h) {
			t.Errorf("item %v selected = %v", h, sel)
		}
	}
}

// --- Structure ---

func TestVisibleItemsFollowExpansion(t *testing.T) {
	f := newTree(t)
	got := f.treeRoot(t).VisibleItems(f.ui)
	want := []Handle{f.a, f.a1, f.a2, f.b, f.c}
	if !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestTreeItemLayout(t *testing.T) {
	f := newTree(t)
	if got := bounds(t, f.ui, f.a1).Position(); got != (Vec2{16, 20}) {
		t.Errorf("A1 at %v, want (16,20)", got)
	}
	if got := bounds(t, f.ui, f.b).Y; got != 60 {
		t.Errorf("B.Y = %v, want 60", got)
	}
	bn, _ := f.ui.Node(f.b1)
	if bn.GloballyVisible() {
		t.Error("children of a collapsed item are hidden")
	}
}

func TestExpanderVisibility(t *testing.T) {
	f := newTree(t)
	tests := []struct {
		name string
		h    Handle
		want bool
	}{
		{"with children", f.a, true},
		{"leaf", f.c, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			en, _ := f.ui.Node(f.item(t, tt.h).Expander())
			if en.Visible() != tt.want {
				t.Errorf("expander visible = %v, want %v", en.Visible(), tt.want)
			}
		})
	}

	f.ui.Send(TreeSetExpanderShownMsg(f.c, ToWidget, true))
	f.ui.ProcessMessages()
	en, _ := f.ui.Node(f.item(t, f.c).Expander())
	if !en.Visible() {
		t.Error("AlwaysShowExpander should show the expander on a leaf")
	}
}

// --- Expansion ---

func TestExpanderClickToggles(t *testing.T) {
	f := newTree(t)
	b := f.item(t, f.b)
	f.ui.Send(NewMessage(b.Expander(), ToWidget, MouseDown{Button: MouseButtonLeft}))
	f.ui.ProcessMessages()
	if !b.Expanded() {
		t.Fatal("expander click should expand")
	}
	if len(f.treeRoot(t).Selection()) != 0 {
		t.Error("expander click must not select")
	}
}

func TestExpandStrategies(t *testing.T) {
	f := newTree(t)

	f.ui.Send(TreeRootCollapseAllMsg(f.root, ToWidget))
	f.ui.ProcessMessages()
	for _, h := range []Handle{f.a, f.b} {
		if f.item(t, h).Expanded() {
			t.Errorf("%v should be collapsed", h)
		}
	}

	f.ui.Send(TreeExpandMsg(f.b1, ToWidget, true, ExpandRecursiveAncestors))
	f.ui.ProcessMessages()
	if !f.item(t, f.b1).Expanded() || !f.item(t, f.b).Expanded() {
		t.Error("expanding ancestors should reach B")
	}
	if f.item(t, f.a).Expanded() {
		t.Error("A is not an ancestor of B1")
	}

	f.ui.Send(TreeExpandMsg(f.a, ToWidget, true, ExpandRecursiveDescendants))
	f.ui.ProcessMessages()
	for _, h := range []Handle{f.a, f.a1, f.a2} {
		if !f.item(t, h).Expanded() {
			t.Errorf("%v should be expanded", h)
		}
	}
}

func TestExpandEchoesOnlyOnChange(t *testing.T) {
	f := newTree(t)
	got := collectFrom(t, f.ui)
	f.ui.Send(TreeExpandMsg(f.a, ToWidget, true, ExpandDirect))
	f.ui.ProcessMessages()
	for _, d := range *got {
		if _, ok := d.(TreeExpand); ok {
			t.Fatal("expanding an expanded item must not echo")
		}
	}
}

// --- Selection ---

func TestClickSelection(t *testing.T) {
	f := newTree(t)

	f.click(t, f.a, 0)
	f.expectSelection(t, f.a)

	f.click(t, f.b, ModShift)
	f.expectSelection(t, f.a, f.a1, f.a2, f.b)

	f.click(t, f.a1, ModCtrl)
	f.expectSelection(t, f.a, f.a2, f.b)

	f.click(t, f.c, ModCtrl)
	f.expectSelection(t, f.a, f.a2, f.b, f.c)

	f.click(t, f.c, 0)
	f.expectSelection(t, f.c)
}

func TestShiftClickUpwards(t *testing.T) {
	f := newTree(t)
	f.click(t, f.b, 0)
	f.click(t, f.a1, ModShift)
	f.expectSelection(t, f.a1, f.a2, f.b)
}

func TestRepeatClickDoesNotEcho(t *testing.T) {
	f := newTree(t)
	f.click(t, f.c, 0)
	got := collectFrom(t, f.ui)
	f.click(t, f.c, 0)
	for _, d := range *got {
		if _, ok := d.(TreeRootSelected); ok {
			t.Fatal("clicking the sole selection again must not change it")
		}
	}
}

func TestAltClickIgnored(t *testing.T) {
	f := newTree(t)
	f.click(t, f.c, ModAlt)
	f.expectSelection(t)
}

func TestNestedClickSelectsInnermost(t *testing.T) {
	f := newTree(t)
	f.click(t, f.a2, 0)
	f.expectSelection(t, f.a2)
}

// --- Keyboard ---

func TestKeyboardNavigation(t *testing.T) {
	f := newTree(t)

	f.key(KeyArrowDown)
	f.expectSelection(t, f.a)
	f.key(KeyArrowDown)
	f.key(KeyArrowDown)
	f.key(KeyArrowDown)
	f.expectSelection(t, f.b)

	f.key(KeyArrowRight)
	if !f.item(t, f.b).Expanded() {
		t.Fatal("Right should expand B")
	}
	f.key(KeyArrowDown)
	f.expectSelection(t, f.b1)

	f.key(KeyArrowLeft)
	f.expectSelection(t, f.b)
	f.key(KeyArrowLeft)
	if f.item(t, f.b).Expanded() {
		t.Fatal("Left on an expanded item should collapse it")
	}

	f.key(KeyArrowUp)
	f.expectSelection(t, f.a2)
}

func TestKeyboardStopsAtEnds(t *testing.T) {
	f := newTree(t)
	f.key(KeyArrowUp)
	f.expectSelection(t, f.a)
	f.key(KeyArrowUp)
	f.expectSelection(t, f.a)

	f.click(t, f.c, 0)
	f.key(KeyArrowDown)
	f.expectSelection(t, f.c)
}

// --- Items ---

func TestRemoveItemPrunesSelection(t *testing.T) {
	f := newTree(t)
	f.click(t, f.a1, 0)
	f.click(t, f.c, ModCtrl)

	f.ui.Send(TreeRemoveItemMsg(f.a, ToWidget, f.a1))
	f.ui.ProcessMessages()

	if f.ui.IsValid(f.a1) {
		t.Error("removed item should be freed")
	}
	if got := f.item(t, f.a).Items(); !slices.Equal(got, []Handle{f.a2}) {
		t.Errorf("A items = %v", got)
	}
	if got := f.treeRoot(t).Selection(); !slices.Equal(got, []Handle{f.c}) {
		t.Errorf("selection = %v, want [C]", got)
	}
}

func TestRootRemovePrunesDescendants(t *testing.T) {
	f := newTree(t)
	f.click(t, f.a2, 0)
	f.click(t, f.b, ModCtrl)

	f.ui.Send(TreeRootRemoveItemMsg(f.root, ToWidget, f.a))
	f.ui.ProcessMessages()

	for _, h := range []Handle{f.a, f.a1, f.a2} {
		if f.ui.IsValid(h) {
			t.Errorf("%v should be freed", h)
		}
	}
	if got := f.treeRoot(t).Selection(); !slices.Equal(got, []Handle{f.b}) {
		t.Errorf("selection = %v, want [B]", got)
	}
	if got := f.treeRoot(t).Items(); !slices.Equal(got, []Handle{f.b, f.c}) {
		t.Errorf("items = %v", got)
	}
}

func TestAddAndSetItems(t *testing.T) {
	f := newTree(t)
	c1 := f.ui.NewTreeItem(NoHandle, "C1", TreeItemConfig{})
	f.ui.Send(TreeAddItemMsg(f.c, ToWidget, c1))
	f.ui.ProcessMessages()

	cn, _ := f.ui.Node(c1)
	if !f.ui.IsAncestor(f.c, c1) || cn.Parent() == f.c {
		t.Error("added item should sit in C's item panel")
	}
	en, _ := f.ui.Node(f.item(t, f.c).Expander())
	if !en.Visible() {
		t.Error("expander should appear once C has children")
	}

	d := f.ui.NewTreeItem(NoHandle, "D", TreeItemConfig{})
	f.ui.Send(TreeRootItemsMsg(f.root, ToWidget, []Handle{f.c, d}))
	f.ui.ProcessMessages()
	if got := f.treeRoot(t).Items(); !slices.Equal(got, []Handle{f.c, d}) {
		t.Errorf("items = %v", got)
	}
	if f.ui.IsValid(f.a) || f.ui.IsValid(f.b) {
		t.Error("replaced items should be freed")
	}
	if !f.ui.IsValid(c1) {
		t.Error("kept items keep their children")
	}
	if err := f.ui.CheckIntegrity(); err != nil {
		t.Fatal(err)
	}
}

func TestSetItemsOnItem(t *testing.T) {
	f := newTree(t)
	x := f.ui.NewTreeItem(NoHandle, "X", TreeItemConfig{})
	f.ui.Send(TreeSetItemsMsg(f.b, ToWidget, []Handle{x}))
	f.ui.ProcessMessages()
	if got := f.item(t, f.b).Items(); !slices.Equal(got, []Handle{x}) {
		t.Errorf("B items = %v", got)
	}
	if f.ui.IsValid(f.b1) {
		t.Error("B1 should be freed")
	}
}
