package usrCmds

import (
	"github.com/samber/lo"

	"github.com/korin/dotwm/internal/config"
	"github.com/korin/dotwm/internal/floating"
	"github.com/korin/dotwm/internal/sway"
	"github.com/korin/dotwm/internal/types"
)

func init() {
	// order matters, GroupLayout skips windows floated by FloatingDialogs
	onNew(FloatingDialogs)
	onNew(GroupLayout)
}

// FloatingDialogs floats new dialogs and transient windows.
func FloatingDialogs(d DaemonAPI, win types.WindowData) error {
	w, err := d.Window(win.ID)
	if err != nil {
		return err
	}

	return floating.FloatingDialogs(w)
}

// GroupLayout applies the layout of the group a new window landed in. Groups
// using the default layout are left alone, so manual layout changes stick.
func GroupLayout(d DaemonAPI, win types.WindowData) error {
	w, err := d.Window(win.ID)
	if err != nil {
		return err
	}
	if w.Floating {
		return nil
	}

	// assign rules can put the window outside of the focused workspace
	space := w.Workspace
	if space == "" {
		space = win.Workspace
	}
	group, found := lo.Find(d.Groups(), func(g config.GroupSpec) bool {
		return g.Label == space
	})
	if !found || group.Layout == config.DefaultLayout {
		return nil
	}
	p("group %s: layout %s for #%d", group.Label, group.Layout, win.ID)

	return d.SwayMsg(`[con_id=%d] layout %s`, win.ID, sway.Layout(group.Layout))
}
