package sway

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("window not found")

// MsgFunc runs a formatted sway command.
type MsgFunc func(msg string, args ...any) error

// node is the part of a GET_TREE node not exposed by gosway.
type node struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	AppID      *string `json:"app_id"`
	WindowType *string `json:"window_type"`
	Props      *struct {
		Class        string `json:"class"`
		WindowType   string `json:"window_type"`
		TransientFor *int64 `json:"transient_for"`
	} `json:"window_properties"`
	Nodes         []node `json:"nodes"`
	FloatingNodes []node `json:"floating_nodes"`
}

// Window is a sway container holding a view. It implements floating.Window.
type Window struct {
	ID        int64
	Name      string
	Workspace string
	Class     string
	AppID     string
	// Type is the X11 window type, empty for Wayland windows.
	Type     string
	Owner    int64
	HasOwner bool
	Floating bool

	msg MsgFunc
}

// FindWindow looks up a container in a raw GET_TREE reply. Commands issued by
// the returned window go through msg.
func FindWindow(tree []byte, id int64, msg MsgFunc) (*Window, error) {
	var root node
	if err := json.Unmarshal(tree, &root); err != nil {
		return nil, fmt.Errorf("sway tree: %w", err)
	}

	found, space := findNode(&root, id, "")
	if found == nil {
		return nil, fmt.Errorf("%w: #%d", ErrNotFound, id)
	}

	win := &Window{
		ID:        found.ID,
		Name:      found.Name,
		Workspace: space,
		Floating:  found.Type == "floating_con",
		msg:       msg,
	}
	if found.AppID != nil {
		win.AppID = *found.AppID
	}
	if found.WindowType != nil {
		win.Type = *found.WindowType
	}
	if found.Props != nil {
		win.Class = found.Props.Class
		if win.Type == "" {
			win.Type = found.Props.WindowType
		}
		if found.Props.TransientFor != nil && *found.Props.TransientFor != 0 {
			win.Owner = *found.Props.TransientFor
			win.HasOwner = true
		}
	}

	return win, nil
}

// findNode returns the node and the name of its workspace.
func findNode(n *node, id int64, space string) (*node, string) {
	if n.ID == id {
		return n, space
	}
	if n.Type == "workspace" {
		space = n.Name
	}
	for _, children := range [][]node{n.Nodes, n.FloatingNodes} {
		for i := range children {
			if found, s := findNode(&children[i], id, space); found != nil {
				return found, s
			}
		}
	}

	return nil, ""
}

func (w *Window) WindowType() (string, error) {
	return w.Type, nil
}

func (w *Window) TransientFor() (int64, bool, error) {
	return w.Owner, w.HasOwner, nil
}

func (w *Window) SetFloating() error {
	if w.msg == nil {
		return errors.New("window not bound to sway")
	}

	return w.msg(`[con_id=%d] floating enable`, w.ID)
}
