package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/config"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "arbor",
		Short: "Docking widget toolkit demo and tools",
		Long: `arbor drives a retained-mode widget tree with dockable windows,
tiles and tree views. Run the interactive demo, or dump the widget tree
after replaying scripted input.`,
		// Errors we return are already descriptive.
		SilenceUsage: true,
		Version:      version,
	}
	cmd.SetVersionTemplate(`{{printf "arbor version %s\n" .Version}}`)
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./arbor.yaml)")

	cmd.AddCommand(newDemoCmd(opts))
	cmd.AddCommand(newDumpCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setup loads configuration and builds a UI and logger from it.
func (o *rootOptions) setup(cmd *cobra.Command) (config.Config, *arbor.UI, *slog.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	ui := arbor.New(cfg.ScreenSize(), cfg.Options(logger)...)
	return cfg, ui, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of arbor",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "arbor version %s\n", version)
		},
	}
}
