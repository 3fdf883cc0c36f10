package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// DefaultLayout is used by groups declared without one.
	DefaultLayout = "tile"
	// MaxGroups is the number of single-digit hotkeys.
	MaxGroups = 9
)

// GroupSpec is an expanded group. It doesn't share memory with the
// declaration it came from.
type GroupSpec struct {
	Label   string  `yaml:"label"`
	Layout  string  `yaml:"layout"`
	Matches []Match `yaml:"matches,omitempty"`
	// Hotkey is the digit used by the generated bindings.
	Hotkey string `yaml:"hotkey"`
}

// WMClasses returns all the classes matched by the group.
func (g GroupSpec) WMClasses() []string {
	var classes []string
	for _, m := range g.Matches {
		classes = append(classes, m.WMClass...)
	}

	return classes
}

// Expansion is the result of Expand.
type Expansion struct {
	Groups []GroupSpec
	Keys   []Key
}

// Group returns the group with the passed label.
func (e Expansion) Group(label string) (GroupSpec, bool) {
	for _, g := range e.Groups {
		if g.Label == label {
			return g, true
		}
	}

	return GroupSpec{}, false
}

// Expand turns the group declarations into groups and appends 2 bindings per
// group to a copy of static: mod+digit switches the screen to the group and
// mod+shift+digit moves the focused window there. The digit is the group's
// position, starting from 1.
func Expand(static []Key, groups []GroupDecl, mod string) (Expansion, error) {
	if len(groups) > MaxGroups {
		return Expansion{}, configErr(ErrTooManyGroups, "%d groups, max %d",
			len(groups), MaxGroups)
	}
	modSet, err := NewModifiers(mod)
	if err != nil {
		return Expansion{}, err
	}

	exp := Expansion{
		Groups: make([]GroupSpec, 0, len(groups)),
		Keys:   make([]Key, 0, len(static)+2*len(groups)),
	}
	for i, k := range static {
		key, err := k.normalize()
		if err != nil {
			return Expansion{}, fmt.Errorf("keys[%d]: %w", i, err)
		}
		exp.Keys = append(exp.Keys, key)
	}
	labels := make(map[string]struct{}, len(groups))

	for i, decl := range groups {
		if strings.TrimSpace(decl.Label) == "" {
			return Expansion{}, configErr(ErrEmptyLabel, "groups[%d]", i)
		}
		if _, ok := labels[decl.Label]; ok {
			return Expansion{}, configErr(ErrDuplicateLabel, "groups[%d]: %q", i, decl.Label)
		}
		labels[decl.Label] = struct{}{}

		hotkey := strconv.Itoa(i + 1)
		group := GroupSpec{
			Label:   decl.Label,
			Layout:  decl.Layout,
			Matches: cloneMatches(decl.Matches),
			Hotkey:  hotkey,
		}
		if group.Layout == "" {
			group.Layout = DefaultLayout
		}
		exp.Groups = append(exp.Groups, group)

		exp.Keys = append(exp.Keys,
			Key{Modifiers: modSet, Name: hotkey, Action: GroupToScreen(decl.Label)},
			Key{Modifiers: modSet.With("shift"), Name: hotkey, Action: WindowToGroup(decl.Label)},
		)
	}

	if err := CheckDuplicates(exp.Keys); err != nil {
		return Expansion{}, err
	}

	return exp, nil
}

// CheckDuplicates fails on the first hotkey bound twice.
func CheckDuplicates(keys []Key) error {
	seen := make(map[string]int, len(keys))
	for i, k := range keys {
		hotkey := k.Hotkey()
		if prev, ok := seen[hotkey]; ok {
			return configErr(ErrDuplicateKey, "%s (keys[%d] and keys[%d])", hotkey, prev, i)
		}
		seen[hotkey] = i
	}

	return nil
}

func cloneMatches(matches []Match) []Match {
	if matches == nil {
		return nil
	}
	ret := make([]Match, len(matches))
	for i, m := range matches {
		ret[i] = Match{WMClass: slices.Clone(m.WMClass)}
	}

	return ret
}
