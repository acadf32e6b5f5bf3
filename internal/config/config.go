// Package config loads painter configuration from TOML files and
// supports live reload through a file watcher.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/folio/internal/painter/style"
	"github.com/dshills/folio/internal/painter/virtual"
)

// Config is the on-disk painter configuration.
type Config struct {
	Virtualization Virtualization `toml:"virtualization"`
	Theme          Theme          `toml:"theme"`
	Links          Links          `toml:"links"`
}

// Virtualization configures the page window manager.
type Virtualization struct {
	// Window is the base number of pages kept mounted.
	Window int `toml:"window"`

	// Overscan is the number of extra pages mounted on each side.
	Overscan int `toml:"overscan"`

	// Gap is the inter-page gap in layout units.
	Gap float64 `toml:"gap"`
}

// Theme configures the painter colors; unset values fall back to the
// stock theme.
type Theme struct {
	ContainerChrome  string `toml:"container_chrome"`
	TrackedInsert    string `toml:"tracked_insert"`
	TrackedDelete    string `toml:"tracked_delete"`
	CommentHighlight string `toml:"comment_highlight"`
	ErrorBackground  string `toml:"error_background"`
	ErrorText        string `toml:"error_text"`
}

// Links configures the hyperlink policy.
type Links struct {
	// AllowedSchemes lists the URL schemes carried onto nodes; anything
	// else is blocked. Empty means the built-in default (http, https).
	AllowedSchemes []string `toml:"allowed_schemes"`
}

// Default returns the built-in configuration.
func Default() Config {
	v := virtual.DefaultOptions()
	return Config{
		Virtualization: Virtualization{
			Window:   v.Window,
			Overscan: v.Overscan,
			Gap:      v.Gap,
		},
	}
}

// Load reads a TOML configuration file. A missing file is not an error:
// it yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	return parse(data, path)
}

// Parse reads a TOML configuration from bytes.
func Parse(data []byte) (Config, error) {
	return parse(data, "<bytes>")
}

func parse(data []byte, origin string) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", origin, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Virtualization.Window < 1 {
		c.Virtualization.Window = Default().Virtualization.Window
	}
	if c.Virtualization.Overscan < 0 {
		c.Virtualization.Overscan = 0
	}
	if c.Virtualization.Gap < 0 {
		c.Virtualization.Gap = 0
	}
}

// VirtualOptions converts the virtualization section.
func (c *Config) VirtualOptions() virtual.Options {
	return virtual.Options{
		Window:   c.Virtualization.Window,
		Overscan: c.Virtualization.Overscan,
		Gap:      c.Virtualization.Gap,
	}
}

// ResolveTheme converts the theme section into a resolved painter theme.
func (c *Config) ResolveTheme() style.Theme {
	return style.Resolve(style.Theme{
		ContainerChrome:  c.Theme.ContainerChrome,
		TrackedInsert:    c.Theme.TrackedInsert,
		TrackedDelete:    c.Theme.TrackedDelete,
		CommentHighlight: c.Theme.CommentHighlight,
		ErrorBackground:  c.Theme.ErrorBackground,
		ErrorText:        c.Theme.ErrorText,
	})
}
