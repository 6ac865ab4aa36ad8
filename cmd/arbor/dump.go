package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/treedump"
)

type dumpOptions struct {
	script     string
	frames     int
	layout     string
	saveLayout string
	dump       treedump.Options
}

func newDumpCmd(root *rootOptions) *cobra.Command {
	opts := &dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Build the demo headless and print its widget tree",
		Long: `Builds the demo scene without opening a window, optionally restores
a layout and replays an input script, then prints the widget tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.script, "script", "", "JSON input script to replay")
	f.IntVar(&opts.frames, "frames", 1, "frames to run (scripts run until done)")
	f.StringVar(&opts.layout, "layout", "", "YAML layout to restore (overrides layout.file)")
	f.StringVar(&opts.saveLayout, "save-layout", "", "write the resulting layout to this file")
	f.BoolVar(&opts.dump.Bounds, "bounds", false, "show screen bounds")
	f.BoolVar(&opts.dump.Hidden, "hidden", false, "include hidden nodes")
	f.BoolVar(&opts.dump.IDs, "ids", false, "show node IDs")
	f.BoolVar(&opts.dump.Styled, "color", false, "colorize output")
	return cmd
}

// maxScriptFrames bounds a script run so a stuck script cannot hang.
const maxScriptFrames = 10000

func runDump(cmd *cobra.Command, root *rootOptions, opts *dumpOptions) error {
	cfg, ui, logger, err := root.setup(cmd)
	if err != nil {
		return err
	}
	sc := buildScene(ui, cfg.WatchDir, logger)

	layout := cfg.LayoutFile
	if opts.layout != "" {
		layout = opts.layout
	}
	restoreLayout(ui, sc, layout, logger)

	frames := opts.frames
	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		s, err := arbor.LoadInputScript(data)
		if err != nil {
			return err
		}
		ui.SetInputScript(s)
		for i := 0; i < maxScriptFrames && !s.Done(); i++ {
			ui.Tick(1.0 / 60)
		}
		if !s.Done() {
			return fmt.Errorf("script did not finish in %d frames", maxScriptFrames)
		}
	}
	for range frames {
		ui.Tick(1.0 / 60)
	}

	if opts.saveLayout != "" {
		d, err := arbor.SaveLayout(ui, sc.manager)
		if err != nil {
			return err
		}
		if err := d.WriteFile(opts.saveLayout); err != nil {
			return err
		}
	}
	if err := ui.CheckIntegrity(); err != nil {
		return fmt.Errorf("widget tree is inconsistent: %w", err)
	}
	return treedump.Write(cmd.OutOrStdout(), ui, opts.dump)
}
