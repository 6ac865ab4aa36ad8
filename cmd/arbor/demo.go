package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/ebitenui"
	"github.com/phanxgames/arbor/fswatch"
)

func newDemoCmd(root *rootOptions) *cobra.Command {
	var showFPS bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open the interactive docking demo",
		Long: `Opens a window with docked and floating windows. Drag a window's
header to undock it, drag a floating window over a tile to dock it, and
drag splitters to resize. With layout.file set the arrangement is restored
on start and saved on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ui, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			sc := buildScene(ui, cfg.WatchDir, logger)
			restoreLayout(ui, sc, cfg.LayoutFile, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if sc.browser.IsSome() {
				if err := fswatch.Watch(ctx, cfg.WatchDir, ui.Sender(), sc.browser, fswatch.WithLogger(logger)); err != nil {
					logger.Warn("live file updates disabled", "error", err)
				}
			}

			err = ebitenui.Run(ui, ebitenui.RunConfig{
				Title:      "arbor",
				Width:      int(cfg.ScreenWidth),
				Height:     int(cfg.ScreenHeight),
				ClearColor: arbor.Color{R: 0.08, G: 0.08, B: 0.1, A: 1},
				ShowNames:  true,
				ShowFPS:    showFPS,
				OnResize:   func(size arbor.Vec2) { sc.resize(ui, size) },
			})
			saveLayout(ui, sc, cfg.LayoutFile, logger)
			return err
		},
	}
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show frame rate")
	return cmd
}

// restoreLayout applies a saved layout if one exists. Failures are logged
// and the default arrangement is kept.
func restoreLayout(ui *arbor.UI, sc *scene, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	d, err := arbor.ReadLayoutFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		logger.Warn("layout not restored", "file", path, "error", err)
		return
	}
	if err := arbor.RestoreLayout(ui, sc.manager, d, sc.windows); err != nil {
		logger.Warn("layout restored partially", "file", path, "error", err)
	}
	ui.ProcessMessages()
	ui.UpdateLayout()
}

func saveLayout(ui *arbor.UI, sc *scene, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	d, err := arbor.SaveLayout(ui, sc.manager)
	if err == nil {
		err = d.WriteFile(path)
	}
	if err != nil {
		logger.Warn("layout not saved", "file", path, "error", err)
		return
	}
	logger.Info("layout saved", "file", path)
}
