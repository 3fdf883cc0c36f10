package usrCmds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korin/dotwm/internal/config"
	"github.com/korin/dotwm/internal/sway"
	"github.com/korin/dotwm/internal/types"
)

const tree = `{"id": 1, "nodes": [{"id": 2, "type": "output", "nodes": [
  {"id": 3, "type": "workspace", "name": "2",
   "nodes": [
     {"id": 10, "type": "con", "window_type": "normal",
      "window_properties": {"class": "gVim"}},
     {"id": 11, "type": "con", "window_type": "dialog",
      "window_properties": {"class": "gVim"}}
   ],
   "floating_nodes": [
     {"id": 12, "type": "floating_con",
      "window_properties": {"class": "gVim", "transient_for": 10}}
   ]},
  {"id": 4, "type": "workspace", "name": "3",
   "nodes": [{"id": 20, "type": "con", "app_id": "foot"}]},
  {"id": 5, "type": "workspace", "name": "scratch",
   "nodes": [{"id": 30, "type": "con", "app_id": "foot"}]}
]}]}`

type fakeDaemon struct {
	wins   map[string]types.WindowData
	groups []config.GroupSpec
	msgs   []string
	moved  map[int]string
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	cfg := config.Default()
	exp, err := cfg.Expand()
	require.NoError(t, err)

	return &fakeDaemon{
		wins:   map[string]types.WindowData{},
		groups: exp.Groups,
		moved:  map[int]string{},
	}
}

func (f *fakeDaemon) FocusedWindow() types.WindowData          { return types.WindowData{} }
func (f *fakeDaemon) ListWindows() map[string]types.WindowData { return f.wins }
func (f *fakeDaemon) Groups() []config.GroupSpec               { return f.groups }

func (f *fakeDaemon) Window(id int) (*sway.Window, error) {
	return sway.FindWindow([]byte(tree), int64(id), f.SwayMsg)
}

func (f *fakeDaemon) SwayMsg(msg string, args ...any) error {
	f.msgs = append(f.msgs, fmt.Sprintf(msg, args...))
	return nil
}

func (f *fakeDaemon) MoveWinToGroup(winID int, label string) error {
	f.moved[winID] = label
	return nil
}

func (f *fakeDaemon) WinMatch(win types.WindowData, match string, matchApp, _ bool) bool {
	return matchApp && strings.EqualFold(win.App, match)
}

func TestEmitNew(t *testing.T) {
	d := newFakeDaemon(t)

	// group "2" uses the max layout, the focused workspace doesn't matter
	for _, id := range []int{10, 11, 12} {
		err := Emit(EventNew, d, types.WindowData{ID: id, Workspace: "1", App: "gVim"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"[con_id=10] layout tabbed",
		"[con_id=11] floating enable",
		// 11 is still tiled in the tree snapshot
		"[con_id=11] layout tabbed",
		"[con_id=12] floating enable",
	}, d.msgs)
}

func TestEmitDefaultLayoutGroup(t *testing.T) {
	d := newFakeDaemon(t)

	require.NoError(t, Emit(EventNew, d, types.WindowData{ID: 20, Workspace: "3"}))
	require.NoError(t, Emit(EventNew, d, types.WindowData{ID: 30, Workspace: "1"}))
	assert.Empty(t, d.msgs)
}

func TestEmitReportsErrors(t *testing.T) {
	d := newFakeDaemon(t)

	err := Emit(EventNew, d, types.WindowData{ID: 99, Workspace: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sway.ErrNotFound))
	assert.Contains(t, err.Error(), "new #99")

	// no listeners
	assert.NoError(t, Emit(EventClose, d, types.WindowData{ID: 99}))
}

func TestArrangeWindows(t *testing.T) {
	d := newFakeDaemon(t)
	wins := []types.WindowData{
		{ID: 1, App: "firefox", Workspace: "3"},
		{ID: 2, App: "Steam", Workspace: "6"},
		{ID: 3, App: "foot", Workspace: "1"},
		{ID: 4, App: "vim", Workspace: "9"},
	}
	for _, w := range wins {
		d.wins[strconv.Itoa(w.ID)] = w
	}

	out, err := Run("arrange", d, map[string]string{"-dry": ""})
	require.NoError(t, err)
	assert.Equal(t, "#1 firefox -> 1\n#4 vim -> 2\n", out)
	assert.Empty(t, d.moved)

	_, err = Run("arrange", d, nil)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "1", 4: "2"}, d.moved)

	_, err = Run("nope", d, nil)
	assert.Error(t, err)
}
