// Package config reads droplayer settings from TOML.
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[drop]
//	base_class = "drop"
//	color_prefix = "background-color-index-"
//	align = "top=bottom,left=left"
//
//	[log]
//	level = "info"
//
//	[serve]
//	addr = ":8080"
//	script_timeout = "5s"
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
)

type Config struct {
	Viewport Viewport `toml:"viewport"`
	Drop     Drop     `toml:"drop"`
	Log      Log      `toml:"log"`
	Serve    Serve    `toml:"serve"`
}

type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

func (v Viewport) Size() geom.Size {
	return geom.Size{Width: v.Width, Height: v.Height}
}

type Drop struct {
	BaseClass   string `toml:"base_class"`
	ColorPrefix string `toml:"color_prefix"`
	// Align is the default alignment in ParseAlign form, e.g. "top=bottom".
	Align string `toml:"align"`
}

type Log struct {
	Level string `toml:"level"`
}

type Serve struct {
	Addr string `toml:"addr"`
	// ScriptTimeout bounds the page scripts of one request, in
	// time.ParseDuration form.
	ScriptTimeout string `toml:"script_timeout"`
}

// DefaultScriptTimeout is the serve script limit when none is configured.
const DefaultScriptTimeout = 5 * time.Second

func Default() Config {
	return Config{
		Viewport: Viewport{Width: 1024, Height: 768},
		Drop: Drop{
			BaseClass:   drop.DefaultBaseClass,
			ColorPrefix: drop.DefaultColorPrefix,
		},
		Log:   Log{Level: "info"},
		Serve: Serve{Addr: ":8080", ScriptTimeout: DefaultScriptTimeout.String()},
	}
}

// Load reads path over the defaults and validates the result. Keys the file
// leaves out keep their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults and validates the result.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later. Alignment
// values are not checked here: invalid ones are reported as warnings when a
// drop is added.
func (c Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height))
	}
	if _, err := drop.ParseAlign(c.Drop.Align); err != nil {
		errs = append(errs, fmt.Errorf("drop.align: %w", err))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Serve.ScriptTimeout != "" {
		if d, err := time.ParseDuration(c.Serve.ScriptTimeout); err != nil {
			errs = append(errs, fmt.Errorf("serve.script_timeout: %w", err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("serve.script_timeout must be positive, got %s", d))
		}
	}
	return errors.Join(errs...)
}

// Align returns the configured default alignment.
func (c Config) Align() drop.Align {
	a, _ := drop.ParseAlign(c.Drop.Align)
	return a
}

// ScriptTimeout returns the serve script limit, DefaultScriptTimeout when
// unset or invalid.
func (c Config) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Serve.ScriptTimeout)
	if err != nil || d <= 0 {
		return DefaultScriptTimeout
	}
	return d
}

// LogLevel returns the configured level, info when unparsable.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Encode renders c as TOML.
func (c Config) Encode() (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
