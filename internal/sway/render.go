// Package sway translates the config into sway commands and reads window
// metadata from the sway tree.
package sway

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/korin/dotwm/internal/config"
)

var modifierNames = map[string]string{
	"mod4":    "Mod4",
	"mod1":    "Mod1",
	"control": "Ctrl",
	"shift":   "Shift",
}

// sway layouts used for the config's layouts
var layoutNames = map[string]string{
	"tile":      "splith",
	"ratiotile": "splith",
	"monadtall": "splith",
	"matrix":    "splitv",
	"max":       "tabbed",
	"stack":     "stacking",
	"zoomy":     "stacking",
}

// Layout returns the sway layout for a config layout name.
func Layout(name string) string {
	if l, ok := layoutNames[name]; ok {
		return l
	}

	return "splith"
}

// Hotkey formats a key as a sway key combo, eg Mod4+Shift+1.
func Hotkey(k config.Key) string {
	parts := lo.Map(k.Modifiers, func(m string, _ int) string {
		return modifierNames[m]
	})

	return strings.Join(append(parts, k.Name), "+")
}

// Quote returns s as a sway string argument.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Render returns the sway commands applying the expanded config. outputs are
// the output names in the order used by the to_screen action.
func Render(cfg *config.Config, exp config.Expansion, outputs []string) []string {
	var cmds []string

	cmds = append(cmds, renderTheme(cfg.Theme)...)
	if cmd, ok := floatingModifier(cfg.Mouse); ok {
		cmds = append(cmds, cmd)
	}

	for _, winType := range cfg.Floating.AutoFloatTypes {
		cmds = append(cmds, fmt.Sprintf(`for_window [window_type=%s] floating enable`,
			Quote(winType)))
	}
	for _, class := range cfg.Floating.FloatRules {
		for _, crit := range criteria(class) {
			cmds = append(cmds, fmt.Sprintf(`for_window %s floating enable`, crit))
		}
	}

	for _, group := range exp.Groups {
		for _, class := range group.WMClasses() {
			for _, crit := range criteria(class) {
				cmds = append(cmds, fmt.Sprintf(`assign %s workspace %s`, crit,
					Quote(group.Label)))
			}
		}
	}

	cycle := layoutCycle(cfg)
	for _, key := range exp.Keys {
		cmds = append(cmds, fmt.Sprintf("bindsym %s %s", Hotkey(key),
			Command(key.Action, cfg.Prompt, cycle, outputs)))
	}

	return cmds
}

// Command maps a binding's action to a sway command.
func Command(a config.Action, prompt string, cycle, outputs []string) string {
	switch a.Kind {

	case config.ActionSpawn:
		return "exec " + a.Arg
	case config.ActionSpawnCmd:
		return "exec " + prompt
	case config.ActionRestart:
		return "reload"
	case config.ActionShutdown:
		return "exit"
	case config.ActionKill:
		return "kill"
	case config.ActionToggleFloating:
		return "floating toggle"
	case config.ActionPrevGroup:
		return "workspace prev_on_output"
	case config.ActionNextGroup:
		return "workspace next_on_output"
	case config.ActionNextLayout:
		return toggleLayout(cycle)
	case config.ActionPrevLayout:
		return toggleLayout(lo.Reverse(append([]string{}, cycle...)))
	case config.ActionLayoutDown:
		return "focus next"
	case config.ActionLayoutUp:
		return "focus prev"
	case config.ActionShuffleDown:
		return "move right"
	case config.ActionShuffleUp:
		return "move left"
	case config.ActionGroupToScreen:
		return "workspace " + Quote(a.Arg)
	case config.ActionWindowToGroup:
		return "move container to workspace " + Quote(a.Arg)

	case config.ActionToScreen:
		n, err := strconv.Atoi(a.Arg)
		if err != nil || n >= len(outputs) {
			return "nop no output " + a.Arg
		}
		return "focus output " + Quote(outputs[n])
	}

	return "nop " + string(a.Kind)
}

func toggleLayout(cycle []string) string {
	if len(cycle) < 2 {
		return "layout toggle split"
	}

	return "layout toggle " + strings.Join(cycle, " ")
}

// layoutCycle returns the sway layouts of the configured layouts, in order.
func layoutCycle(cfg *config.Config) []string {
	return lo.Uniq(lo.Map(cfg.LayoutCycle(), func(name string, _ int) string {
		return Layout(name)
	}))
}

// criteria matches a window by its X11 class or its Wayland app ID.
func criteria(class string) []string {
	re := "^" + regexp.QuoteMeta(class) + "$"

	return []string{
		fmt.Sprintf(`[class=%s]`, Quote(re)),
		fmt.Sprintf(`[app_id=%s]`, Quote(re)),
	}
}

func renderTheme(t config.Theme) []string {
	return []string{
		fmt.Sprintf("default_border pixel %d", t.BorderWidth),
		fmt.Sprintf("default_floating_border pixel %d", t.BorderWidth),
		fmt.Sprintf("gaps inner all set %d", t.Margin),
		fmt.Sprintf("client.focused %[1]s %[1]s #ffffff %[1]s %[1]s", t.BorderFocus),
		fmt.Sprintf("client.focused_inactive %[1]s %[1]s #999999 %[1]s %[1]s", t.BorderNormal),
		fmt.Sprintf("client.unfocused %[1]s %[1]s #999999 %[1]s %[1]s", t.BorderNormal),
	}
}

// floatingModifier maps the mouse drags to sway's floating_modifier, which
// drags with the left button and resizes with the right one ("normal"), or
// the other way around ("inverse").
func floatingModifier(drags []config.Drag) (string, bool) {
	if len(drags) == 0 {
		return "", false
	}

	mode := "normal"
	for _, d := range drags {
		if (d.Action == "move" && d.Button == "Button3") ||
			(d.Action == "resize" && d.Button == "Button1") {
			mode = "inverse"
		}
	}
	mods := lo.Map(drags[0].Modifiers, func(m string, _ int) string {
		return modifierNames[m]
	})
	if len(mods) == 0 {
		return "", false
	}

	return fmt.Sprintf("floating_modifier %s %s", strings.Join(mods, "+"), mode), true
}
