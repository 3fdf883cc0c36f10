package config

// spawned by the default keys
const (
	cmdGvim           = `gvim -f "$@" &`
	cmdBrowser        = "google-chrome"
	cmdFileManager    = "nautilus --no-desktop"
	cmdLockScreen     = "gnome-screensaver-command -l"
	cmdScreenshot     = "gnome-screenshot"
	cmdTerminal       = "gnome-terminal"
	cmdTmux           = "gnome-terminal -e tmux"
	cmdTrackpadToggle = "synclient TouchpadOff=$(synclient -l | grep -c 'TouchpadOff.*=.*0')"
	cmdVolumeUp       = "amixer -q -c 0 sset Master 5dB+"
	cmdVolumeDown     = "amixer -q -c 0 sset Master 5dB-"
	cmdVolumeToggle   = "amixer -q -D pulse sset Master 1+ toggle"
	cmdPrompt         = "dotwm prompt"
)

const (
	mod = "mod4"
	ctl = "control"
)

// Default returns the built-in config. Each call returns a new copy.
func Default() *Config {
	return &Config{
		Mod:    mod,
		Prompt: cmdPrompt,
		Keys: []Key{
			// window manager
			NewKey([]string{mod, ctl}, "r", Do(ActionRestart)),
			NewKey([]string{mod, ctl}, "q", Do(ActionShutdown)),
			NewKey([]string{mod, ctl}, "l", Spawn(cmdLockScreen)),

			// windows
			NewKey([]string{mod}, "w", Do(ActionKill)),
			NewKey([]string{mod}, "f", Do(ActionToggleFloating)),

			// groups
			NewKey([]string{mod}, "Left", Do(ActionPrevGroup)),
			NewKey([]string{mod}, "Right", Do(ActionNextGroup)),

			// layouts
			NewKey([]string{mod}, "Up", Do(ActionNextLayout)),
			NewKey([]string{mod}, "Down", Do(ActionPrevLayout)),

			// stack
			NewKey([]string{mod}, "k", Do(ActionLayoutDown)),
			NewKey([]string{mod}, "j", Do(ActionLayoutUp)),
			NewKey([]string{mod, ctl}, "k", Do(ActionShuffleDown)),
			NewKey([]string{mod, ctl}, "j", Do(ActionShuffleUp)),

			NewKey([]string{mod}, "r", Do(ActionSpawnCmd)),

			// screens, left and right
			NewKey([]string{mod}, "h", ToScreen(0)),
			NewKey([]string{mod}, "l", ToScreen(1)),

			// launchers
			NewKey([]string{mod}, "g", Spawn(cmdGvim)),
			NewKey([]string{mod}, "n", Spawn(cmdBrowser)),
			NewKey([]string{mod}, "e", Spawn(cmdFileManager)),
			NewKey([]string{mod}, "Return", Spawn(cmdTerminal)),
			NewKey([]string{mod}, "t", Spawn(cmdTmux)),

			// media
			NewKey(nil, "XF86AudioRaiseVolume", Spawn(cmdVolumeUp)),
			NewKey(nil, "XF86AudioLowerVolume", Spawn(cmdVolumeDown)),
			NewKey(nil, "XF86AudioMute", Spawn(cmdVolumeToggle)),
			NewKey(nil, "XF86TouchpadToggle", Spawn(cmdTrackpadToggle)),

			NewKey([]string{mod}, "p", Spawn(cmdScreenshot)),
		},
		Groups: []GroupDecl{
			{Label: "1", Layout: "max", Matches: []Match{{WMClass: []string{"Firefox", "Google-chrome"}}}},
			{Label: "2", Layout: "max", Matches: []Match{{WMClass: []string{"Sublime", "Vim", "gVim", "VIM", "GVIM"}}}},
			{Label: "3"},
			{Label: "4", Layout: "max"},
			{Label: "5", Layout: "max", Matches: []Match{{WMClass: []string{"VirtualBox"}}}},
			{Label: "6", Layout: "max", Matches: []Match{{WMClass: []string{"Steam"}}}},
			{Label: "7"},
			{Label: "8"},
			{Label: "9", Layout: "max"},
		},
		Mouse: []Drag{
			{Modifiers: MustModifiers(mod), Button: "Button1", Action: "move"},
			{Modifiers: MustModifiers(mod), Button: "Button3", Action: "resize"},
		},
		Layouts: []string{
			"tile", "max", "ratiotile", "matrix", "monadtall", "stack", "zoomy",
		},
		Theme: Theme{
			BorderWidth:  1,
			Margin:       0,
			BorderFocus:  "#336699",
			BorderNormal: "#333333",
		},
		Floating: FloatingLayout{
			AutoFloatTypes: []string{"notification", "toolbar", "splash", "dialog"},
			FloatRules: []string{
				"audacious",
				"Download",
				"dropbox",
				"file_progress",
				"file-roller",
				"gimp",
				"Komodo_confirm_repl",
				"Komodo_find2",
				"pidgin",
				"skype",
				"Transmission",
				// Komodo update window
				"Update",
				"Xephyr",
			},
		},
	}
}
