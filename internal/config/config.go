package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Layouts known to the host. Groups can only default to one of the layouts
// listed in Config.Layouts.
var Layouts = []string{
	"tile", "max", "ratiotile", "matrix", "monadtall", "stack", "zoomy",
}

// Match assigns new windows to a group by their WM class (X11) or app ID
// (Wayland).
type Match struct {
	WMClass []string `yaml:"wm_class"`
}

// GroupDecl is a group as declared in the config. An empty Layout means the
// layout wasn't specified.
type GroupDecl struct {
	Label   string  `yaml:"label"`
	Layout  string  `yaml:"layout,omitempty"`
	Matches []Match `yaml:"matches,omitempty"`
}

// Theme is shared by all the layouts.
type Theme struct {
	BorderWidth  int    `yaml:"border_width"`
	Margin       int    `yaml:"margin"`
	BorderFocus  string `yaml:"border_focus"`
	BorderNormal string `yaml:"border_normal"`
}

// FloatingLayout lists windows which never get tiled.
type FloatingLayout struct {
	// AutoFloatTypes are X11 window types, eg "dialog".
	AutoFloatTypes []string `yaml:"auto_float_types"`
	// FloatRules are WM classes / app IDs.
	FloatRules []string `yaml:"float_rules"`
}

type Config struct {
	// Mod is the main modifier, used for the generated group bindings.
	Mod string `yaml:"mod"`
	// Prompt is the command spawned by the spawn_cmd action.
	Prompt   string         `yaml:"prompt"`
	Keys     []Key          `yaml:"keys"`
	Groups   []GroupDecl    `yaml:"groups"`
	Mouse    []Drag         `yaml:"mouse"`
	Layouts  []string       `yaml:"layouts"`
	Theme    Theme          `yaml:"theme"`
	Floating FloatingLayout `yaml:"floating"`
}

// DefaultPath returns $XDG_CONFIG_HOME/dotwm/config.yml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}

	return filepath.Join(dir, "dotwm", "config.yml")
}

// Load reads a YAML config on top of the defaults, so sections missing from
// the file keep their default values. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	return cfg.Validate()
}

// Validate checks the parts of the config which Expand doesn't.
func (c *Config) Validate() error {
	if _, err := NewModifiers(c.Mod); err != nil {
		return err
	}

	for _, name := range c.Layouts {
		if !slices.Contains(Layouts, name) {
			return configErr(ErrUnknownLayout, "layouts: %q", name)
		}
	}
	if len(c.Layouts) == 0 {
		return configErr(ErrUnknownLayout, "layouts: empty")
	}

	for i, drag := range c.Mouse {
		if drag.Action != "move" && drag.Action != "resize" {
			return configErr(ErrUnknownAction, "mouse[%d]: %q", i, drag.Action)
		}
	}

	return nil
}

// Expand builds the groups and the final list of keys.
func (c *Config) Expand() (Expansion, error) {
	exp, err := Expand(c.Keys, c.Groups, c.Mod)
	if err != nil {
		return Expansion{}, err
	}

	for i, group := range exp.Groups {
		if !slices.Contains(c.Layouts, group.Layout) {
			return Expansion{}, configErr(ErrUnknownLayout, "groups[%d]: %q", i, group.Layout)
		}
	}

	return exp, nil
}

// LayoutCycle returns the configured layouts without duplicates.
func (c *Config) LayoutCycle() []string {
	return lo.Uniq(c.Layouts)
}
