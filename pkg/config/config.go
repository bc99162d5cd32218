// Package config loads selfmap settings from defaults, a YAML file and
// SELFMAP_* environment variables, in increasing precedence.
//
// Nested keys use an underscore in the environment:
//
//	SELFMAP_WIDTH=1200 SELFMAP_MARGIN_RIGHT=200 selfmap render
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/matzehuels/selfmap/pkg/cache"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SELFMAP_"

// Margin mirrors [render.Margin] with config tags.
type Margin struct {
	Top    float64 `yaml:"top" koanf:"top"`
	Right  float64 `yaml:"right" koanf:"right"`
	Bottom float64 `yaml:"bottom" koanf:"bottom"`
	Left   float64 `yaml:"left" koanf:"left"`
}

// Config holds every user-tunable setting.
type Config struct {
	Width           float64 `yaml:"width" koanf:"width"`
	Height          float64 `yaml:"height" koanf:"height"`
	SecondaryWidth  float64 `yaml:"secondary_width" koanf:"secondary_width"`
	SecondaryHeight float64 `yaml:"secondary_height" koanf:"secondary_height"`
	Margin          Margin  `yaml:"margin" koanf:"margin"`
	Mode            string  `yaml:"mode" koanf:"mode"`
	SecondaryMode   string  `yaml:"secondary_mode" koanf:"secondary_mode"`
	Seed            uint64  `yaml:"seed" koanf:"seed"`
	Interactive     bool    `yaml:"interactive" koanf:"interactive"`
	CacheDir        string  `yaml:"cache_dir" koanf:"cache_dir"`
	RedisAddr       string  `yaml:"redis_addr" koanf:"redis_addr"`
	Listen          string  `yaml:"listen" koanf:"listen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p, s := render.PrimaryDimensions(), render.SecondaryDimensions()
	m := render.DefaultMargin
	return &Config{
		Width:           p.Width,
		Height:          p.Height,
		SecondaryWidth:  s.Width,
		SecondaryHeight: s.Height,
		Margin:          Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left},
		Mode:            string(layout.Radial),
		SecondaryMode:   string(layout.Bucketed),
		Interactive:     true,
		CacheDir:        cache.DefaultDir(),
		Listen:          ":8080",
	}
}

// DefaultPath returns ~/.config/selfmap/config.yaml (or the platform
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "selfmap", "config.yaml")
}

// Load layers the file at path (skipped when missing) and the environment
// over [Default].
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps SELFMAP_MARGIN_TOP to margin.top and SELFMAP_CACHE_DIR to
// cache_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "margin_"); ok {
		return "margin." + rest
	}
	return key
}

// Save writes c as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks dimensions and modes.
func (c *Config) Validate() error {
	if _, err := layout.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if _, err := layout.ParseMode(c.SecondaryMode); err != nil {
		return fmt.Errorf("secondary_mode: %w", err)
	}
	if err := c.PrimaryDimensions().Validate(); err != nil {
		return fmt.Errorf("primary chart: %w", err)
	}
	if err := c.SecondaryDimensions().Validate(); err != nil {
		return fmt.Errorf("secondary chart: %w", err)
	}
	return nil
}

func (c *Config) margin() render.Margin {
	return render.Margin{Top: c.Margin.Top, Right: c.Margin.Right, Bottom: c.Margin.Bottom, Left: c.Margin.Left}
}

// PrimaryDimensions returns the primary chart size.
func (c *Config) PrimaryDimensions() render.Dimensions {
	return render.Dimensions{Width: c.Width, Height: c.Height, Margin: c.margin()}
}

// SecondaryDimensions returns the secondary chart size.
func (c *Config) SecondaryDimensions() render.Dimensions {
	return render.Dimensions{Width: c.SecondaryWidth, Height: c.SecondaryHeight, Margin: c.margin()}
}

// Modes returns the parsed primary and secondary layout modes. Empty or
// invalid values fall back to the defaults.
func (c *Config) Modes() (primary, secondary layout.Mode) {
	primary, secondary = layout.Radial, layout.Bucketed
	if m, err := layout.ParseMode(c.Mode); err == nil {
		primary = m
	}
	if m, err := layout.ParseMode(c.SecondaryMode); err == nil && c.SecondaryMode != "" {
		secondary = m
	}
	return primary, secondary
}
