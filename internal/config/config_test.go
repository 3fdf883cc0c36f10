package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModifiers(t *testing.T) {
	mods, err := NewModifiers("Shift", "super", "mod4", "ctrl")
	require.NoError(t, err)
	assert.Equal(t, Modifiers{"control", "mod4", "shift"}, mods)
	assert.Equal(t, "control+mod4+shift", mods.String())

	_, err = NewModifiers("hyper")
	assert.ErrorIs(t, err, ErrUnknownModifier)

	// With doesn't touch the receiver
	base := MustModifiers("mod4")
	assert.Equal(t, Modifiers{"mod4", "shift"}, base.With("shift"))
	assert.Equal(t, Modifiers{"mod4"}, base)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"restart", Do(ActionRestart)},
		{"spawn gnome-terminal -e tmux", Spawn("gnome-terminal -e tmux")},
		{"  to_screen 1 ", ToScreen(1)},
		{"group_toscreen 3", GroupToScreen("3")},
		{"window_togroup web", WindowToGroup("web")},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "fly", "spawn", "kill now", "to_screen left", "to_screen -1"} {
		_, err := ParseAction(bad)
		assert.ErrorIs(t, err, ErrUnknownAction, bad)
	}
}

func TestKeyHotkey(t *testing.T) {
	k := NewKey(nil, "XF86AudioMute", Spawn("amixer"))
	assert.Equal(t, "XF86AudioMute", k.Hotkey())

	k = NewKey([]string{"shift", "mod4"}, "1", WindowToGroup("1"))
	assert.Equal(t, "mod4+shift+1", k.Hotkey())
	assert.Equal(t, "mod4+shift+1 window_togroup 1", k.String())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
mod: super
keys:
  - mods: [super]
    key: Return
    action: spawn foot
  - mods: [super, ctrl]
    key: r
    action: restart
groups:
  - label: web
    layout: max
    matches:
      - wm_class: [firefox]
  - label: term
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "super", cfg.Mod)
	require.Len(t, cfg.Keys, 2)
	assert.Equal(t, "mod4+Return", cfg.Keys[0].Hotkey())
	assert.Equal(t, Spawn("foot"), cfg.Keys[0].Action)
	assert.Equal(t, Do(ActionRestart), cfg.Keys[1].Action)
	// untouched sections keep the defaults
	assert.Equal(t, Default().Floating, cfg.Floating)
	assert.Equal(t, Default().Layouts, cfg.Layouts)

	exp, err := cfg.Expand()
	require.NoError(t, err)
	require.Len(t, exp.Groups, 2)
	assert.Equal(t, "tile", exp.Groups[1].Layout)
	assert.Equal(t, "mod4+2", exp.Keys[4].Hotkey())
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad action":   "keys: [{mods: [mod4], key: x, action: teleport}]",
		"bad modifier": "keys: [{mods: [hyper], key: x, action: kill}]",
		"bad layout":   "layouts: [tile, spiral]",
		"bad drag":     "mouse: [{mods: [mod4], button: Button1, action: throw}]",
		"bad mod":      "mod: hyper",
	}

	for name, yml := range tests {
		path := filepath.Join(dir, name+".yml")
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

		_, err := Load(path)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr, name)
	}
}
