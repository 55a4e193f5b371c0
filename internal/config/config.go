// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads the touchtrace configuration from a TOML
// file and TOUCHTRACE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"gioui.org/multitouch/gesture"
	"gioui.org/multitouch/unit"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TOUCHTRACE_"

// Config is the touchtrace configuration. A zero PanSlop,
// LongPressDelay or PxPerDp selects the gesture default.
type Config struct {
	// PanSlop is the pan threshold in dp. Zero means 10dp.
	PanSlop float32 `toml:"pan_slop" env:"PAN_SLOP"`
	// LongPressDelay is the long press delay, such as "500ms".
	// Zero means 500ms.
	LongPressDelay Duration `toml:"long_press_delay" env:"LONG_PRESS_DELAY"`
	// PxPerDp is the density of the input surface. Zero means 1.
	PxPerDp float32 `toml:"px_per_dp" env:"PX_PER_DP"`
	// Listen is the address of the websocket server.
	Listen string `toml:"listen" env:"LISTEN"`
	// EnableCORS accepts websocket connections from any origin.
	EnableCORS bool `toml:"enable_cors" env:"ENABLE_CORS"`
	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`
}

// Duration is a time.Duration written as a string in
// configuration files and the environment.
type Duration struct {
	time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		PanSlop:        float32(gesture.DefaultPanSlop),
		LongPressDelay: Duration{gesture.DefaultLongPressDelay},
		PxPerDp:        1,
		Listen:         "localhost:12000",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads the configuration file at path, if it exists, and then
// applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: %w", err)
		default:
			if keys := md.Undecoded(); len(keys) > 0 {
				return Config{}, fmt.Errorf("config: %s: unknown key %q", path, keys[0].String())
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PanSlop < 0 {
		return fmt.Errorf("negative pan_slop %v", c.PanSlop)
	}
	if c.LongPressDelay.Duration < 0 {
		return fmt.Errorf("negative long_press_delay %v", c.LongPressDelay)
	}
	if c.PxPerDp < 0 {
		return fmt.Errorf("negative px_per_dp %v", c.PxPerDp)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

// Gesture returns the gesture configuration, scheduling long presses
// on sched.
func (c Config) Gesture(sched gesture.Scheduler, log logrus.FieldLogger) gesture.Config {
	return gesture.Config{
		PanSlop:        unit.Dp(c.PanSlop),
		LongPressDelay: c.LongPressDelay.Duration,
		Metric:         unit.Metric{PxPerDp: c.PxPerDp},
		Scheduler:      sched,
		Logger:         log,
	}
}

// Logger configures a logger for the level and format.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
