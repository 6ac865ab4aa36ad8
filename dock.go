package arbor

import "slices"

// DockingManager hosts a tree of tiles and keeps track of windows that are
// not docked in any of them. It watches all traffic through the preview
// pass so windows leave the floating list as soon as something links them
// into a tile.
type DockingManager struct {
	Base
	floating []Handle
}

// NewDockingManager builds a manager under parent around a root tile.
// floating lists windows that start out undocked.
func (ui *UI) NewDockingManager(parent Handle, name string, rootTile Handle, floating ...Handle) Handle {
	dm := &DockingManager{floating: slices.Clone(floating)}
	n := NewNode(name, dm).WithHitTest(false)
	n.previewMessages = true
	if rootTile.IsSome() {
		n.WithChildren(rootTile)
	}
	return ui.Add(parent, n)
}

// IsFloating reports whether window is in the floating list.
func (dm *DockingManager) IsFloating(window Handle) bool {
	return slices.Contains(dm.floating, window)
}

// FloatingWindows returns the live floating windows. Entries whose windows
// were removed are dropped.
func (dm *DockingManager) FloatingWindows(ui *UI) []Handle {
	dm.floating = slices.DeleteFunc(dm.floating, func(h Handle) bool { return !ui.IsValid(h) })
	return slices.Clone(dm.floating)
}

// RootTile returns the first Tile child, or NoHandle.
func (dm *DockingManager) RootTile(ui *UI, n *Node) Handle {
	for _, c := range n.children {
		if _, _, ok := NodeAs[*Tile](ui, c); ok {
			return c
		}
	}
	return NoHandle
}

// AddFloating registers window as floating. Registering twice has no
// effect.
func (dm *DockingManager) AddFloating(window Handle) {
	dm.addFloating(window)
}

func (dm *DockingManager) addFloating(window Handle) {
	if window.IsNone() || dm.IsFloating(window) {
		return
	}
	dm.floating = append(dm.floating, window)
}

func (dm *DockingManager) removeFloating(window Handle) bool {
	i := slices.Index(dm.floating, window)
	if i < 0 {
		return false
	}
	dm.floating = slices.Delete(dm.floating, i, i+1)
	return true
}

// Preview drops windows from the floating list once they are linked into
// the tree elsewhere or removed.
func (dm *DockingManager) Preview(ui *UI, n *Node, m *Message) {
	if m.Direction() != ToWidget {
		return
	}
	switch m.Data().(type) {
	case LinkWith, Remove:
		if dm.removeFloating(m.Destination()) {
			ui.log.Debug("window no longer floating", "subsystem", "dock", "window", m.Destination().String())
		}
	}
}
