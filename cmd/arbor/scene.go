package main

import (
	"log/slog"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/fswatch"
)

// scene is the demo workspace: a docking manager with a few windows.
type scene struct {
	manager arbor.Handle
	browser arbor.Handle
	windows map[string]arbor.Handle
}

var (
	bodyColor   = arbor.Color{R: 0.14, G: 0.14, B: 0.17, A: 1}
	outputColor = arbor.Color{R: 0.1, G: 0.12, B: 0.1, A: 1}
	notesColor  = arbor.Color{R: 0.2, G: 0.18, B: 0.12, A: 1}
)

// buildScene lays out the demo: files on the left, output over inspector
// on the right and a floating notes window. With watchDir set the files
// window browses that directory.
func buildScene(ui *arbor.UI, watchDir string, logger *slog.Logger) *scene {
	sc := &scene{windows: make(map[string]arbor.Handle)}

	var files arbor.Handle
	if watchDir != "" {
		h, err := fswatch.NewBrowser(ui, arbor.NoHandle, "browser", watchDir)
		if err != nil {
			logger.Warn("file browser unavailable", "dir", watchDir, "error", err)
		} else {
			files, sc.browser = h, h
		}
	}
	if files.IsNone() {
		files = sampleTree(ui)
	}

	sc.add(ui, "files", arbor.WindowConfig{Title: "Files", Content: files})
	sc.add(ui, "output", arbor.WindowConfig{Title: "Output", Content: panel(ui, "output.body", outputColor)})
	sc.add(ui, "inspector", arbor.WindowConfig{Title: "Inspector", Content: panel(ui, "inspector.body", bodyColor)})
	sc.add(ui, "notes", arbor.WindowConfig{
		Title:    "Notes",
		Position: arbor.Vec2{X: 880, Y: 80},
		Width:    260,
		Height:   200,
		Content:  panel(ui, "notes.body", notesColor),
	})

	left := ui.NewTile(arbor.NoHandle, "dock.left", arbor.WindowContent(sc.windows["files"]))
	top := ui.NewTile(arbor.NoHandle, "dock.right.a", arbor.WindowContent(sc.windows["output"]))
	bottom := ui.NewTile(arbor.NoHandle, "dock.right.b", arbor.WindowContent(sc.windows["inspector"]))
	right := ui.NewTile(arbor.NoHandle, "dock.right", arbor.SplitContent(arbor.Vertical, 0.6, top, bottom))
	root := ui.NewTile(arbor.NoHandle, "dock.tile", arbor.SplitContent(arbor.Horizontal, 0.3, left, right))

	sc.manager = ui.NewDockingManager(ui.Root(), "dock", root, sc.windows["notes"])
	sc.resize(ui, ui.ScreenSize())
	// Floating windows draw above the docked tree.
	ui.Send(arbor.TopmostMsg(sc.windows["notes"], arbor.ToWidget))
	ui.ProcessMessages()
	ui.UpdateLayout()
	return sc
}

func (sc *scene) add(ui *arbor.UI, name string, cfg arbor.WindowConfig) {
	sc.windows[name] = ui.NewWindow(ui.Root(), name, cfg)
}

// resize makes the docking area fill the screen.
func (sc *scene) resize(ui *arbor.UI, size arbor.Vec2) {
	ui.Send(arbor.WidthMsg(sc.manager, arbor.ToWidget, size.X))
	ui.Send(arbor.HeightMsg(sc.manager, arbor.ToWidget, size.Y))
}

func panel(ui *arbor.UI, name string, c arbor.Color) arbor.Handle {
	return ui.NewBorder(arbor.NoHandle, arbor.NewNode(name, &arbor.Border{}).WithBackground(c))
}

func sampleTree(ui *arbor.UI) arbor.Handle {
	leaf := func(name string) arbor.Handle {
		return ui.NewTreeItem(arbor.NoHandle, name, arbor.TreeItemConfig{})
	}
	src := ui.NewTreeItem(arbor.NoHandle, "src", arbor.TreeItemConfig{
		Expanded: true,
		Items:    []arbor.Handle{leaf("main.go"), leaf("ui.go"), leaf("tile.go")},
	})
	docs := ui.NewTreeItem(arbor.NoHandle, "docs", arbor.TreeItemConfig{
		Items: []arbor.Handle{leaf("README.md")},
	})
	return ui.NewTreeRoot(arbor.NoHandle, "tree", src, docs, leaf("go.mod"))
}
