package fswatch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/logging"
)

// Browser shows a directory as a tree. It applies Changed messages sent to
// it, so a Watcher pointed at the same directory keeps it live.
type Browser struct {
	arbor.Base

	dir   string
	tree  arbor.Handle
	items map[string]arbor.Handle
	log   *slog.Logger
}

// NewBrowser builds a browser for dir under parent and loads the current
// contents.
func NewBrowser(ui *arbor.UI, parent arbor.Handle, name, dir string) (arbor.Handle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return arbor.NoHandle, fmt.Errorf("fswatch: resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return arbor.NoHandle, fmt.Errorf("fswatch: %w", err)
	}
	if !info.IsDir() {
		return arbor.NoHandle, fmt.Errorf("fswatch: %s is not a directory", abs)
	}

	b := &Browser{
		dir:   abs,
		items: make(map[string]arbor.Handle),
		log:   logging.For(ui.Logger(), "fswatch"),
	}
	h := ui.Add(parent, arbor.NewNode(name, b).WithHitTest(false))
	b.tree = ui.NewTreeRoot(h, name+".tree", b.scan(ui, abs)...)
	return h, nil
}

// Dir returns the directory being shown.
func (b *Browser) Dir() string { return b.dir }

// Tree returns the TreeRoot holding the items.
func (b *Browser) Tree() arbor.Handle { return b.tree }

// Item returns the tree item for path.
func (b *Browser) Item(path string) (arbor.Handle, bool) {
	h, ok := b.items[filepath.Clean(path)]
	return h, ok
}

// Len returns the number of paths shown.
func (b *Browser) Len() int { return len(b.items) }

// scan creates items for the entries of dir, recursively, and returns the
// top-level ones. The items are not linked anywhere yet.
func (b *Browser) scan(ui *arbor.UI, dir string) []arbor.Handle {
	entries, err := os.ReadDir(dir)
	if err != nil {
		b.log.Warn("read directory", "dir", dir, "error", err)
		return nil
	}
	var out []arbor.Handle
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var children []arbor.Handle
		if e.IsDir() {
			children = b.scan(ui, path)
		}
		out = append(out, b.newItem(ui, path, e.IsDir(), children))
	}
	return out
}

func (b *Browser) newItem(ui *arbor.UI, path string, isDir bool, children []arbor.Handle) arbor.Handle {
	rel, err := filepath.Rel(b.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	h := ui.NewTreeItem(arbor.NoHandle, rel, arbor.TreeItemConfig{
		Items:              children,
		AlwaysShowExpander: isDir,
	})
	b.items[path] = h
	return h
}

// HandleMessage applies filesystem changes addressed to the browser.
func (b *Browser) HandleMessage(ui *arbor.UI, n *arbor.Node, m *arbor.Message) {
	c, ok := arbor.MessageAs[Changed](m)
	if !ok || !m.IsFor(n.Handle(), arbor.ToWidget) {
		return
	}
	switch c.Op {
	case Created:
		b.created(ui, c.Path)
	case Removed:
		b.removed(ui, c.Path)
	case Rescan:
		b.rescan(ui)
	}
	m.SetHandled(true)
}

func (b *Browser) created(ui *arbor.UI, path string) {
	if _, ok := b.items[path]; ok || !b.inside(path) || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		// Gone again before we got to it.
		return
	}
	var children []arbor.Handle
	if info.IsDir() {
		children = b.scan(ui, path)
	}
	parentDir := filepath.Dir(path)
	if parentDir == b.dir {
		ui.Send(arbor.TreeRootAddItemMsg(b.tree, arbor.ToWidget, b.newItem(ui, path, info.IsDir(), children)))
		return
	}
	parent, ok := b.items[parentDir]
	if !ok {
		return
	}
	ui.Send(arbor.TreeAddItemMsg(parent, arbor.ToWidget, b.newItem(ui, path, info.IsDir(), children)))
}

func (b *Browser) removed(ui *arbor.UI, path string) {
	h, ok := b.items[path]
	if !ok {
		return
	}
	prefix := path + string(filepath.Separator)
	for p := range b.items {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(b.items, p)
		}
	}
	parentDir := filepath.Dir(path)
	if parentDir == b.dir {
		ui.Send(arbor.TreeRootRemoveItemMsg(b.tree, arbor.ToWidget, h))
		return
	}
	if parent, ok := b.items[parentDir]; ok {
		ui.Send(arbor.TreeRemoveItemMsg(parent, arbor.ToWidget, h))
	}
}

func (b *Browser) rescan(ui *arbor.UI) {
	clear(b.items)
	items := b.scan(ui, b.dir)
	ui.Send(arbor.TreeRootItemsMsg(b.tree, arbor.ToWidget, items))
	b.log.Debug("rescanned", "dir", b.dir, "paths", len(b.items))
}

func (b *Browser) inside(path string) bool {
	rel, err := filepath.Rel(b.dir, path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
