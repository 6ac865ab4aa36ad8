package arbor

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownWindow is returned when a layout names a window the caller
	// did not provide.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrEmptyLayout is returned when a layout has no root tile.
	ErrEmptyLayout = errors.New("layout has no root tile")
)

const layoutVersion = 1

// LayoutDescriptor is the saved arrangement of a docking manager. Windows
// are referred to by node name.
type LayoutDescriptor struct {
	Version  int                  `yaml:"version"`
	Root     *TileDescriptor      `yaml:"root"`
	Floating []FloatingDescriptor `yaml:"floating,omitempty"`
}

// TileDescriptor describes one tile. A tile with Window set hosts that
// window; a tile with two Tiles is split along Axis.
type TileDescriptor struct {
	Window string            `yaml:"window,omitempty"`
	Axis   string            `yaml:"axis,omitempty"`
	Ratio  float64           `yaml:"ratio,omitempty"`
	Tiles  []*TileDescriptor `yaml:"tiles,omitempty"`
}

// FloatingDescriptor places an undocked window.
type FloatingDescriptor struct {
	Window string  `yaml:"window"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// ParseLayout decodes a YAML layout.
func ParseLayout(data []byte) (*LayoutDescriptor, error) {
	var d LayoutDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if d.Root == nil {
		return nil, fmt.Errorf("parse layout: %w", ErrEmptyLayout)
	}
	return &d, nil
}

// ReadLayoutFile loads a YAML layout from path.
func ReadLayoutFile(path string) (*LayoutDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// Marshal encodes d as YAML.
func (d *LayoutDescriptor) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// WriteFile writes d to path as YAML.
func (d *LayoutDescriptor) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// Windows returns every window name the layout mentions, docked first.
func (d *LayoutDescriptor) Windows() []string {
	names := d.Root.Windows()
	for _, f := range d.Floating {
		names = append(names, f.Window)
	}
	return names
}

// Windows returns the names of the windows docked in t and below, in
// depth-first order.
func (t *TileDescriptor) Windows() []string {
	if t == nil {
		return nil
	}
	if t.Window != "" {
		return []string{t.Window}
	}
	var names []string
	for _, c := range t.Tiles {
		names = append(names, c.Windows()...)
	}
	return names
}

// SaveLayout captures the tile tree and floating windows of the docking
// manager at manager.
func SaveLayout(ui *UI, manager Handle) (*LayoutDescriptor, error) {
	mn, dm, ok := NodeAs[*DockingManager](ui, manager)
	if !ok {
		return nil, fmt.Errorf("save layout: %s is not a docking manager", manager)
	}
	root := dm.RootTile(ui, mn)
	if root.IsNone() {
		return nil, fmt.Errorf("save layout: %w", ErrEmptyLayout)
	}
	d := &LayoutDescriptor{Version: layoutVersion, Root: describeTile(ui, root)}
	for _, w := range dm.FloatingWindows(ui) {
		wn, _ := ui.Node(w)
		f := FloatingDescriptor{
			Window: wn.Name,
			X:      wn.desiredPosition.X,
			Y:      wn.desiredPosition.Y,
		}
		if !math.IsNaN(wn.width) {
			f.Width = wn.width
		}
		if !math.IsNaN(wn.height) {
			f.Height = wn.height
		}
		d.Floating = append(d.Floating, f)
	}
	return d, nil
}

func describeTile(ui *UI, h Handle) *TileDescriptor {
	_, t, ok := NodeAs[*Tile](ui, h)
	if !ok {
		return &TileDescriptor{}
	}
	switch t.content.Kind {
	case TileWindow:
		if wn, ok := ui.Node(t.content.Window); ok {
			return &TileDescriptor{Window: wn.Name}
		}
	case TileSplit:
		return &TileDescriptor{
			Axis:  t.content.Axis.String(),
			Ratio: t.content.Ratio,
			Tiles: []*TileDescriptor{
				describeTile(ui, t.content.Tiles[0]),
				describeTile(ui, t.content.Tiles[1]),
			},
		}
	}
	return &TileDescriptor{}
}

// RestoreLayout rebuilds the tile tree of the docking manager at manager
// from d. windows maps the names used in d to live windows. Windows in the
// map that d does not dock become floating. Names d uses that are missing
// from windows are skipped: their tiles come back empty and the returned
// error wraps ErrUnknownWindow. Windows hosted by the old tree or floating
// before the call but absent from windows are kept as floating windows.
func RestoreLayout(ui *UI, manager Handle, d *LayoutDescriptor, windows map[string]Handle) error {
	if ui.delivering {
		ui.misuse("RestoreLayout", "called while a message is being delivered")
		return nil
	}
	mn, dm, ok := NodeAs[*DockingManager](ui, manager)
	if !ok {
		return fmt.Errorf("restore layout: %s is not a docking manager", manager)
	}
	if d == nil || d.Root == nil {
		return fmt.Errorf("restore layout: %w", ErrEmptyLayout)
	}
	var unknown []string
	for _, name := range d.Windows() {
		if h, ok := windows[name]; !ok || !ui.IsValid(h) {
			unknown = append(unknown, name)
		}
	}
	if err := validateTile(d.Root); err != nil {
		return fmt.Errorf("restore layout: %w", err)
	}

	// Pull every hosted window out of the old tree so removing it leaves
	// them alive. Windows d does not know about stay floating.
	known := map[Handle]bool{}
	for _, w := range windows {
		known[w] = true
	}
	var kept []Handle
	for _, w := range dm.floating {
		if !known[w] && ui.IsValid(w) {
			kept = append(kept, w)
		}
	}
	old := dm.RootTile(ui, mn)
	if old.IsSome() {
		for _, w := range hostedWindows(ui, old) {
			ui.unlink(w)
			if !known[w] {
				kept = append(kept, w)
			}
		}
		ui.remove(old)
	}

	docked := map[Handle]bool{}
	buildTile(ui, manager, mn.Name+".tile", d.Root, windows, docked)

	dm.floating = dm.floating[:0]
	placed := map[string]FloatingDescriptor{}
	for _, f := range d.Floating {
		placed[f.Window] = f
	}
	setFloating := func(w Handle) *Node {
		wn, _ := ui.Node(w)
		if wn.parent != ui.root {
			ui.link(w, ui.root)
		}
		if _, win, ok := NodeAs[*Window](ui, w); ok {
			win.canResize = true
		}
		dm.addFloating(w)
		return wn
	}
	for _, name := range slices.Sorted(maps.Keys(windows)) {
		w := windows[name]
		if docked[w] || !ui.IsValid(w) {
			continue
		}
		wn := setFloating(w)
		if f, ok := placed[name]; ok {
			wn.desiredPosition = Vec2{X: f.X, Y: f.Y}
			if f.Width > 0 {
				wn.width = f.Width
			}
			if f.Height > 0 {
				wn.height = f.Height
			}
		}
	}
	for _, w := range kept {
		setFloating(w)
	}
	ui.InvalidateLayout(manager)
	ui.log.Info("layout restored", "subsystem", "dock", "manager", mn.Name,
		"docked", len(docked), "floating", len(dm.floating))
	if len(unknown) > 0 {
		ui.log.Warn("layout names unknown windows", "subsystem", "dock", "windows", unknown)
		return fmt.Errorf("restore layout: %w: %s", ErrUnknownWindow, strings.Join(unknown, ", "))
	}
	return nil
}

// hostedWindows lists the windows docked anywhere under tile.
func hostedWindows(ui *UI, tile Handle) []Handle {
	var out []Handle
	for n := range ui.Walk(tile) {
		if t, ok := n.widget.(*Tile); ok && t.content.Kind == TileWindow && ui.IsValid(t.content.Window) {
			out = append(out, t.content.Window)
		}
	}
	return out
}

func validateTile(t *TileDescriptor) error {
	switch {
	case t == nil:
		return ErrEmptyLayout
	case t.Window != "" && len(t.Tiles) > 0:
		return fmt.Errorf("tile hosts window %q and has child tiles", t.Window)
	case len(t.Tiles) == 0:
		return nil
	case len(t.Tiles) != 2:
		return fmt.Errorf("split tile has %d children, want 2", len(t.Tiles))
	}
	if _, err := parseOrientation(t.Axis); err != nil {
		return err
	}
	for _, c := range t.Tiles {
		if err := validateTile(c); err != nil {
			return err
		}
	}
	return nil
}

// buildTile creates the tiles for t bottom-up so each constructor links
// finished children.
func buildTile(ui *UI, parent Handle, name string, t *TileDescriptor, windows map[string]Handle, docked map[Handle]bool) Handle {
	switch {
	case t.Window != "":
		w, ok := windows[t.Window]
		if !ok || !ui.IsValid(w) || docked[w] {
			return ui.NewTile(parent, name, EmptyContent())
		}
		docked[w] = true
		return ui.NewTile(parent, name, WindowContent(w))
	case len(t.Tiles) == 2:
		axis, _ := parseOrientation(t.Axis)
		h := ui.NewTile(parent, name, EmptyContent())
		first := buildTile(ui, h, name+".a", t.Tiles[0], windows, docked)
		second := buildTile(ui, h, name+".b", t.Tiles[1], windows, docked)
		if _, tile, ok := NodeAs[*Tile](ui, h); ok {
			tile.content = SplitContent(axis, t.Ratio, first, second)
			if sn, ok := ui.nodes.Get(tile.splitter); ok {
				sn.visible = true
			}
		}
		return h
	default:
		return ui.NewTile(parent, name, EmptyContent())
	}
}

func parseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown axis %q", s)
}
