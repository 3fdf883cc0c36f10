package config

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ActionKind string

// action vocabulary understood by the host
const (
	ActionSpawn          ActionKind = "spawn"
	ActionRestart        ActionKind = "restart"
	ActionShutdown       ActionKind = "shutdown"
	ActionKill           ActionKind = "kill"
	ActionToggleFloating ActionKind = "toggle_floating"
	ActionPrevGroup      ActionKind = "prev_group"
	ActionNextGroup      ActionKind = "next_group"
	ActionNextLayout     ActionKind = "next_layout"
	ActionPrevLayout     ActionKind = "prev_layout"
	ActionLayoutDown     ActionKind = "layout_down"
	ActionLayoutUp       ActionKind = "layout_up"
	ActionShuffleDown    ActionKind = "shuffle_down"
	ActionShuffleUp      ActionKind = "shuffle_up"
	ActionSpawnCmd       ActionKind = "spawn_cmd"
	ActionToScreen       ActionKind = "to_screen"
	ActionGroupToScreen  ActionKind = "group_toscreen"
	ActionWindowToGroup  ActionKind = "window_togroup"
)

// kinds which require an argument
var actionArgs = map[ActionKind]bool{
	ActionSpawn:          true,
	ActionRestart:        false,
	ActionShutdown:       false,
	ActionKill:           false,
	ActionToggleFloating: false,
	ActionPrevGroup:      false,
	ActionNextGroup:      false,
	ActionNextLayout:     false,
	ActionPrevLayout:     false,
	ActionLayoutDown:     false,
	ActionLayoutUp:       false,
	ActionShuffleDown:    false,
	ActionShuffleUp:      false,
	ActionSpawnCmd:       false,
	ActionToScreen:       true,
	ActionGroupToScreen:  true,
	ActionWindowToGroup:  true,
}

// Action is a zero-argument command executed by the host when a binding
// fires. Arg is the command line for spawn, the screen index for to_screen
// and the group label for group_toscreen / window_togroup.
type Action struct {
	Kind ActionKind
	Arg  string
}

// ParseAction reads the textual form, eg "spawn gnome-terminal -e tmux" or
// "to_screen 1".
func ParseAction(text string) (Action, error) {
	text = strings.TrimSpace(text)
	kind, arg, _ := strings.Cut(text, " ")
	a := Action{Kind: ActionKind(kind), Arg: strings.TrimSpace(arg)}

	needsArg, ok := actionArgs[a.Kind]
	if !ok {
		return Action{}, configErr(ErrUnknownAction, "%q", text)
	}
	if needsArg && a.Arg == "" {
		return Action{}, configErr(ErrUnknownAction, "%q requires an argument", kind)
	}
	if !needsArg && a.Arg != "" {
		return Action{}, configErr(ErrUnknownAction, "%q takes no argument", kind)
	}
	if a.Kind == ActionToScreen {
		if n, err := strconv.Atoi(a.Arg); err != nil || n < 0 {
			return Action{}, configErr(ErrUnknownAction, "%q needs a screen index", text)
		}
	}

	return a, nil
}

func (a Action) String() string {
	if a.Arg == "" {
		return string(a.Kind)
	}

	return string(a.Kind) + " " + a.Arg
}

func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := ParseAction(text)
	if err != nil {
		return err
	}
	*a = parsed

	return nil
}

func (a Action) MarshalYAML() (any, error) {
	return a.String(), nil
}

func Spawn(cmd string) Action       { return Action{Kind: ActionSpawn, Arg: cmd} }
func ToScreen(n int) Action         { return Action{Kind: ActionToScreen, Arg: strconv.Itoa(n)} }
func GroupToScreen(l string) Action { return Action{Kind: ActionGroupToScreen, Arg: l} }
func WindowToGroup(l string) Action { return Action{Kind: ActionWindowToGroup, Arg: l} }

// Do returns an argument-less action.
func Do(kind ActionKind) Action { return Action{Kind: kind} }
