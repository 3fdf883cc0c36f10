package config

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHotkeysInOrder(t *testing.T) {
	groups := []GroupDecl{{Label: "web"}, {Label: "code"}, {Label: "term"}}

	exp, err := Expand(nil, groups, "mod4")
	require.NoError(t, err)

	require.Len(t, exp.Groups, 3)
	require.Len(t, exp.Keys, 6)
	for i, g := range exp.Groups {
		digit := strconv.Itoa(i + 1)
		assert.Equal(t, groups[i].Label, g.Label)
		assert.Equal(t, digit, g.Hotkey)

		toScreen := exp.Keys[2*i]
		assert.Equal(t, "mod4+"+digit, toScreen.Hotkey())
		assert.Equal(t, GroupToScreen(g.Label), toScreen.Action)

		toGroup := exp.Keys[2*i+1]
		assert.Equal(t, "mod4+shift+"+digit, toGroup.Hotkey())
		assert.Equal(t, WindowToGroup(g.Label), toGroup.Action)
	}
}

func TestExpandAppendsAfterStaticKeys(t *testing.T) {
	static := []Key{
		NewKey([]string{"mod4"}, "Return", Spawn("foot")),
		NewKey([]string{"mod4", "control"}, "r", Do(ActionRestart)),
	}

	exp, err := Expand(static, []GroupDecl{{Label: "1"}}, "mod4")
	require.NoError(t, err)

	require.Len(t, exp.Keys, 4)
	assert.Equal(t, static, exp.Keys[:2])
	assert.Len(t, static, 2, "input slice untouched")
}

func TestExpandDefaultLayout(t *testing.T) {
	groups := []GroupDecl{
		{Label: "1", Layout: "max"},
		{Label: "2"},
		{Label: "3", Layout: "stack"},
	}

	exp, err := Expand(nil, groups, "mod4")
	require.NoError(t, err)

	assert.Equal(t, "max", exp.Groups[0].Layout)
	assert.Equal(t, DefaultLayout, exp.Groups[1].Layout)
	assert.Equal(t, "stack", exp.Groups[2].Layout)
	// declarations aren't mutated
	assert.Equal(t, "", groups[1].Layout)
}

func TestExpandDoesntShareMatches(t *testing.T) {
	groups := []GroupDecl{
		{Label: "1", Matches: []Match{{WMClass: []string{"Firefox"}}}},
	}

	exp, err := Expand(nil, groups, "mod4")
	require.NoError(t, err)

	groups[0].Matches[0].WMClass[0] = "Steam"
	assert.Equal(t, []string{"Firefox"}, exp.Groups[0].WMClasses())
}

func TestExpandIdempotent(t *testing.T) {
	cfg := Default()

	first, err := Expand(cfg.Keys, cfg.Groups, cfg.Mod)
	require.NoError(t, err)
	second, err := Expand(cfg.Keys, cfg.Groups, cfg.Mod)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExpandErrors(t *testing.T) {
	tenGroups := make([]GroupDecl, 10)
	for i := range tenGroups {
		tenGroups[i].Label = strconv.Itoa(i)
	}

	tests := []struct {
		name   string
		static []Key
		groups []GroupDecl
		mod    string
		want   error
	}{
		{"too many groups", nil, tenGroups, "mod4", ErrTooManyGroups},
		{"empty label", nil, []GroupDecl{{Label: "1"}, {Label: ""}}, "mod4", ErrEmptyLabel},
		{"duplicate label", nil, []GroupDecl{{Label: "a"}, {Label: "a"}}, "mod4", ErrDuplicateLabel},
		{"bad mod", nil, []GroupDecl{{Label: "a"}}, "hyper", ErrUnknownModifier},
		{"blank label", nil, []GroupDecl{{Label: "1"}, {Label: "  "}}, "mod4", ErrEmptyLabel},
		{
			"empty key name",
			[]Key{{Modifiers: Modifiers{"mod4"}, Name: "", Action: Do(ActionKill)}},
			nil,
			"mod4",
			ErrEmptyKey,
		},
		{
			"unknown static modifier",
			[]Key{{Modifiers: Modifiers{"hyper"}, Name: "q", Action: Do(ActionKill)}},
			nil,
			"mod4",
			ErrUnknownModifier,
		},
		{
			"unsorted modifiers collide with a group",
			[]Key{{Modifiers: Modifiers{"shift", "mod4"}, Name: "1", Action: Do(ActionKill)}},
			[]GroupDecl{{Label: "1"}},
			"mod4",
			ErrDuplicateKey,
		},
		{
			"aliased modifier collides with a group",
			[]Key{{Modifiers: Modifiers{"super"}, Name: "1", Action: Do(ActionKill)}},
			[]GroupDecl{{Label: "1"}},
			"mod4",
			ErrDuplicateKey,
		},
		{
			"static key collides with a group",
			[]Key{NewKey([]string{"mod4"}, "3", Spawn("foot"))},
			[]GroupDecl{{Label: "a"}, {Label: "b"}, {Label: "c"}},
			"mod4",
			ErrDuplicateKey,
		},
		{
			"duplicate static keys",
			[]Key{
				NewKey([]string{"mod4", "shift"}, "q", Do(ActionKill)),
				NewKey([]string{"shift", "super", "mod4"}, "q", Do(ActionShutdown)),
			},
			nil,
			"mod4",
			ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.static, tt.groups, tt.mod)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestExpandNormalizesStaticKeys(t *testing.T) {
	static := []Key{{Modifiers: Modifiers{"Shift", "super"}, Name: "q", Action: Do(ActionKill)}}

	exp, err := Expand(static, nil, "mod4")
	require.NoError(t, err)

	assert.Equal(t, Modifiers{"mod4", "shift"}, exp.Keys[0].Modifiers)
	assert.Equal(t, Modifiers{"Shift", "super"}, static[0].Modifiers)
}

func TestHotkeyIsASet(t *testing.T) {
	a := Key{Modifiers: Modifiers{"shift", "super", "mod4"}, Name: "q"}
	b := NewKey([]string{"mod4", "shift"}, "q", Do(ActionKill))

	assert.Equal(t, "mod4+shift+q", a.Hotkey())
	assert.Equal(t, b.Hotkey(), a.Hotkey())
	assert.ErrorIs(t, CheckDuplicates([]Key{a, b}), ErrDuplicateKey)
}

func TestExpandNineGroups(t *testing.T) {
	groups := make([]GroupDecl, MaxGroups)
	for i := range groups {
		groups[i].Label = "g" + strconv.Itoa(i)
	}

	exp, err := Expand(nil, groups, "mod4")
	require.NoError(t, err)
	assert.Equal(t, "9", exp.Groups[8].Hotkey)
}

func TestConfigExpandUnknownLayout(t *testing.T) {
	cfg := Default()
	cfg.Layouts = []string{"tile"}

	_, err := cfg.Expand()
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestDefaultExpands(t *testing.T) {
	cfg := Default()

	exp, err := cfg.Expand()
	require.NoError(t, err)

	assert.Len(t, exp.Groups, 9)
	assert.Len(t, exp.Keys, len(cfg.Keys)+18)

	g, ok := exp.Group("3")
	require.True(t, ok)
	assert.Equal(t, "tile", g.Layout)

	g, ok = exp.Group("5")
	require.True(t, ok)
	assert.Equal(t, "max", g.Layout)
	assert.Equal(t, []string{"VirtualBox"}, g.WMClasses())
}
