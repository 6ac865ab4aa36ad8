// Package treedump renders a live widget tree as indented text for the
// CLI and for debugging.
package treedump

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/arbor"
)

// Options controls what a dump shows.
type Options struct {
	// Styled colors the output with lipgloss.
	Styled bool
	// Bounds appends each node's screen rectangle.
	Bounds bool
	// IDs appends each node's stable ID.
	IDs bool
	// Hidden includes nodes that are not globally visible.
	Hidden bool
}

var (
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

type dumper struct {
	ui   *arbor.UI
	opts Options
	sb   strings.Builder
}

// Render returns the dump of the subtree at h.
func Render(ui *arbor.UI, h arbor.Handle, opts Options) string {
	d := &dumper{ui: ui, opts: opts}
	d.node(h, 0)
	return d.sb.String()
}

// Write writes a stats header followed by the dump of the whole tree.
func Write(w io.Writer, ui *arbor.UI, opts Options) error {
	st := ui.Stats()
	header := fmt.Sprintf("nodes %d  pending %d  preview %d  frame %d", st.Nodes, st.PendingMessages, st.PreviewNodes, st.Frame)
	if opts.Styled {
		header = headerStyle.Render(header)
	}
	_, err := fmt.Fprintf(w, "%s\n%s", header, Render(ui, ui.Root(), opts))
	return err
}

func (d *dumper) node(h arbor.Handle, depth int) {
	n, ok := d.ui.Node(h)
	if !ok {
		return
	}
	if !n.GloballyVisible() && !d.opts.Hidden && h != d.ui.Root() {
		return
	}

	d.sb.WriteString(strings.Repeat("  ", depth))
	d.sb.WriteString(d.style(kindStyle, widgetKind(n.Widget())))
	d.sb.WriteByte(' ')
	d.sb.WriteString(d.style(nameStyle, n.Name))
	if detail := describe(n); detail != "" {
		d.sb.WriteByte(' ')
		d.sb.WriteString(d.style(detailStyle, detail))
	}
	if d.opts.Bounds {
		b := n.ScreenBounds()
		d.sb.WriteString(d.style(detailStyle, fmt.Sprintf(" [%g,%g %gx%g]", b.X, b.Y, b.Width, b.Height)))
	}
	if d.opts.IDs {
		d.sb.WriteString(d.style(detailStyle, " "+n.ID.String()))
	}
	if !n.Visible() {
		d.sb.WriteString(d.style(hiddenStyle, " (hidden)"))
	}
	d.sb.WriteByte('\n')

	for _, c := range n.Children() {
		d.node(c, depth+1)
	}
}

func (d *dumper) style(s lipgloss.Style, text string) string {
	if !d.opts.Styled {
		return text
	}
	return s.Render(text)
}

func widgetKind(w arbor.Widget) string {
	t := reflect.TypeOf(w)
	if t == nil {
		return "?"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// describe adds the state that matters for the widgets the dump is read
// for.
func describe(n *arbor.Node) string {
	switch w := n.Widget().(type) {
	case *arbor.Tile:
		return w.Content().Kind.String()
	case *arbor.Window:
		return fmt.Sprintf("%q", w.Title)
	case *arbor.TreeItem:
		if w.Expanded() {
			return "expanded"
		}
	case *arbor.StackPanel:
		return w.Orientation.String()
	}
	return ""
}
