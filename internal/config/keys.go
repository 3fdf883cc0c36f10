package config

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// canonical modifier names, keyed by every accepted alias
var modifierAliases = map[string]string{
	"mod4":    "mod4",
	"super":   "mod4",
	"mod1":    "mod1",
	"alt":     "mod1",
	"control": "control",
	"ctrl":    "control",
	"shift":   "shift",
}

// Modifiers is a set of modifier keys. It's always sorted and without
// duplicates, so two equal sets are equal slices.
type Modifiers []string

// NewModifiers normalizes names into a modifier set.
func NewModifiers(names ...string) (Modifiers, error) {
	mods := make(Modifiers, 0, len(names))
	for _, name := range names {
		canon, ok := modifierAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, configErr(ErrUnknownModifier, "%q", name)
		}
		mods = append(mods, canon)
	}
	mods = lo.Uniq(mods)
	slices.Sort(mods)

	return mods, nil
}

// canonical is the set m describes, even when m was built by hand. Unknown
// names are kept, lowercased.
func (m Modifiers) canonical() Modifiers {
	mods := lo.Map(m, func(name string, _ int) string {
		name = strings.ToLower(strings.TrimSpace(name))
		if canon, ok := modifierAliases[name]; ok {
			return canon
		}
		return name
	})
	mods = lo.Uniq(mods)
	slices.Sort(mods)

	return mods
}

// MustModifiers is NewModifiers for static tables.
func MustModifiers(names ...string) Modifiers {
	mods, err := NewModifiers(names...)
	if err != nil {
		panic(err)
	}

	return mods
}

// With returns a new set extended with name.
func (m Modifiers) With(name string) Modifiers {
	return MustModifiers(append(slices.Clone(m), name)...)
}

func (m Modifiers) String() string {
	return strings.Join(m, "+")
}

func (m *Modifiers) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	mods, err := NewModifiers(names...)
	if err != nil {
		return err
	}
	*m = mods

	return nil
}

// Key binds a hotkey to an action.
type Key struct {
	Modifiers Modifiers `yaml:"mods"`
	Name      string    `yaml:"key"`
	Action    Action    `yaml:"action"`
}

// Hotkey is the identity of a binding: its modifier set plus the key name.
func (k Key) Hotkey() string {
	if len(k.Modifiers) == 0 {
		return k.Name
	}

	return k.Modifiers.canonical().String() + "+" + k.Name
}

// normalize returns a copy of k with a validated modifier set.
func (k Key) normalize() (Key, error) {
	if strings.TrimSpace(k.Name) == "" {
		return Key{}, configErr(ErrEmptyKey, "%s", k.Action)
	}
	if len(k.Modifiers) == 0 {
		return k, nil
	}
	mods, err := NewModifiers(k.Modifiers...)
	if err != nil {
		return Key{}, err
	}
	k.Modifiers = mods

	return k, nil
}

func (k Key) String() string {
	return k.Hotkey() + " " + k.Action.String()
}

// NewKey is a shorthand for static key tables.
func NewKey(mods []string, name string, action Action) Key {
	return Key{Modifiers: MustModifiers(mods...), Name: name, Action: action}
}

// Drag is a mouse binding, which moves or resizes a floating window.
type Drag struct {
	Modifiers Modifiers `yaml:"mods"`
	Button    string    `yaml:"button"`
	// Action is "move" or "resize".
	Action string `yaml:"action"`
}
