// Package config loads arbor's toolkit settings with viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. ARBOR_DOCK_UNDOCK_THRESHOLD.
const EnvPrefix = "ARBOR"

// Config is the resolved configuration.
type Config struct {
	ScreenWidth  float64
	ScreenHeight float64

	UndockThreshold float64
	SplitterSize    float64
	AnchorSize      float64
	DragDeadZone    float64

	Debug     bool
	LogLevel  string
	LogFormat string

	// LayoutFile is a saved docking layout restored at startup.
	LayoutFile string
	// WatchDir is the directory shown in the file browser.
	WatchDir string
}

func setDefaults(v *viper.Viper) {
	d := arbor.DefaultDockMetrics()
	v.SetDefault("screen.width", 1280)
	v.SetDefault("screen.height", 720)
	v.SetDefault("dock.undock_threshold", d.UndockThreshold)
	v.SetDefault("dock.splitter_size", d.SplitterSize)
	v.SetDefault("dock.anchor_size", d.AnchorSize)
	v.SetDefault("input.drag_dead_zone", 4)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("layout.file", "")
	v.SetDefault("watch.dir", "")
}

// Load reads configuration. With an empty path it looks for arbor.yaml in
// the working directory and tolerates its absence; an explicit path must
// exist. Environment variables override both.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("arbor") // .yaml is implicit
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		ScreenWidth:     v.GetFloat64("screen.width"),
		ScreenHeight:    v.GetFloat64("screen.height"),
		UndockThreshold: v.GetFloat64("dock.undock_threshold"),
		SplitterSize:    v.GetFloat64("dock.splitter_size"),
		AnchorSize:      v.GetFloat64("dock.anchor_size"),
		DragDeadZone:    v.GetFloat64("input.drag_dead_zone"),
		Debug:           v.GetBool("debug"),
		LogLevel:        v.GetString("log.level"),
		LogFormat:       v.GetString("log.format"),
		LayoutFile:      v.GetString("layout.file"),
		WatchDir:        v.GetString("watch.dir"),
	}
}

// ScreenSize returns the configured screen size.
func (c Config) ScreenSize() arbor.Vec2 {
	return arbor.Vec2{X: c.ScreenWidth, Y: c.ScreenHeight}
}

// DockMetrics returns the configured docking sizes.
func (c Config) DockMetrics() arbor.DockMetrics {
	return arbor.DockMetrics{
		UndockThreshold: c.UndockThreshold,
		SplitterSize:    c.SplitterSize,
		AnchorSize:      c.AnchorSize,
	}
}

// Logger builds the logger described by the log settings.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	l, err := logging.New(c.LogLevel, c.LogFormat, w)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return l, nil
}

// Options converts the config into UI options. logger may be nil.
func (c Config) Options(logger *slog.Logger) []arbor.Option {
	opts := []arbor.Option{
		arbor.WithDebug(c.Debug),
		arbor.WithDockMetrics(c.DockMetrics()),
		arbor.WithDragDeadZone(c.DragDeadZone),
	}
	if logger != nil {
		opts = append(opts, arbor.WithLogger(logger))
	}
	return opts
}
