package usrCmds

import (
	"fmt"
	"sort"
)

func init() {
	register("arrange", ArrangeWindows)
}

// ArrangeWindows moves the existing windows into the groups matching their
// app, the same way new windows get assigned. Pass -dry=1 to only list them.
func ArrangeWindows(d DaemonAPI, args map[string]string) (string, error) {
	_, dry := args["-dry"]
	groups := d.Groups()
	wins := d.ListWindows()

	// stable output
	ids := make([]string, 0, len(wins))
	for id := range wins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ret := ""
	for _, id := range ids {
		win := wins[id]

	match:
		for _, group := range groups {
			for _, class := range group.WMClasses() {
				if !d.WinMatch(win, class, true, false) {
					continue
				}
				if win.Workspace == group.Label {
					// already there
					break match
				}

				p(`Arrange: #%d:%s "%s" -> %s`, win.ID, win.App, win.Title, group.Label)
				ret += fmt.Sprintf("#%d %s -> %s\n", win.ID, win.App, group.Label)
				if dry {
					break match
				}
				if err := d.MoveWinToGroup(win.ID, group.Label); err != nil {
					return ret, err
				}
				break match
			}
		}
	}

	return ret, nil
}
