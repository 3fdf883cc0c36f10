package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Difrex/gosway/ipc"
	"github.com/samber/lo"

	"github.com/korin/dotwm/internal/config"
	"github.com/korin/dotwm/internal/sway"
	"github.com/korin/dotwm/internal/types"
	"github.com/korin/dotwm/internal/watcher"
	usrCmds "github.com/korin/dotwm/pkg/usr-cmds"
)

const (
	maxTracked = 100
	lenHotkey  = 24
	lenAction  = 60
	rpcHost    = "localhost:7863"
	rpcHostDbg = "localhost:7864"
	// how long a PID can hold the prompt
	pidTimeout = time.Second * 3
	// title of the prompt's terminal window
	promptTitle = "dotwm"
)

type WindowFocus []string

type Daemon struct {
	conn        *ipc.SwayConnection
	connMx      sync.Mutex
	watcher     *watcher.PathWatcher
	ctx         context.Context
	mx          sync.Mutex
	winFocus    WindowFocus
	winData     map[string]types.WindowData
	cfg         *config.Config
	exp         config.Expansion
	openedByPID int
	openedAt    time.Time
	Autoconfig  bool
	ConfigPath  string
	Logger      *log.Logger
}

// ///// ///// /////
// ///// DAEMON
// ///// ///// /////

func (d *Daemon) Start() {
	var err error
	d.ctx = context.Background()
	d.winData = make(map[string]types.WindowData)

	// expand the config before touching sway
	d.cfg, d.exp, err = LoadConfig(d.ConfigPath)
	if err != nil {
		d.Logger.Fatalf("error: %s", err)
	}
	d.Logger.Printf("Config: %d groups, %d keys", len(d.exp.Groups), len(d.exp.Keys))

	d.watcher, err = watcher.New(d.ctx, d.Logger, d.ConfigPath)
	if err != nil {
		d.Logger.Fatalf("error: %s", err)
	}
	// TODO reconnect backoff?
	conn, err := ipc.NewSwayConnection()
	if err != nil {
		d.Logger.Fatal(err)
	}
	d.conn = conn

	// read the existing tree to track the windows
	tree, err := d.conn.GetTree()
	if err != nil {
		d.Logger.Fatal("error:", err)
	}
	for _, output := range tree.Nodes {
		for _, workspace := range output.Nodes {
			for _, container := range workspace.Nodes {
				d.parseNode(&container, workspace.Name, output.Name)
			}
		}
	}

	err = d.Apply()
	if err != nil {
		d.Logger.Fatal("error:", err)
	}

	subCon, err := ipc.NewSwayConnection()
	if err != nil {
		d.Logger.Fatal(err)
	}

	// windows for the hooks, workspaces for reloads
	_, err = subCon.SendCommand(ipc.IPC_SUBSCRIBE, `["window", "workspace"]`)
	if err != nil {
		d.Logger.Fatal(err)
	}

	// Listen for the events
	s := subCon.Subscribe()
	defer s.Close()

	go rpcServer(d.Logger, d)
	d.watcher.Start()
	log.Println("Listening for sway events...")

	for {
		select {

		case event := <-s.Events:
			if isLog() {
				log.Printf("Event: %s #%d", event.Change, event.Container.ID)
			}

			// sway re-read its config and dropped ours
			if event.Change == "reload" {
				d.Reload()
				continue
			}
			// workspace events don't carry a container
			if event.Container.ID == 0 {
				continue
			}

			switch event.Change {
			case "new":
				d.onNew(&event.Container)
			case "focus":
				d.onFocus(&event.Container)
			case "close":
				d.onClose(&event.Container)
			}

		case <-d.watcher.ConfigChanged:
			log.Println("Config file changed")
			d.Reload()

		case err := <-s.Errors:
			// TODO reconnect / backoff
			log.Println("Error:", err)
		}
	}
}

// LoadConfig reads and expands the config at path.
func LoadConfig(path string) (*config.Config, config.Expansion, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, config.Expansion{}, err
	}
	exp, err := cfg.Expand()
	if err != nil {
		return nil, config.Expansion{}, err
	}

	return cfg, exp, nil
}

// Apply sends the current config to sway.
func (d *Daemon) Apply() error {
	outputs, err := d.ListOutputs()
	if err != nil {
		return err
	}

	d.mx.Lock()
	msgs := sway.Render(d.cfg, d.exp, outputs)
	d.mx.Unlock()

	if d.Autoconfig {
		msgs = append(msgs,
			fmt.Sprintf(`for_window [title=%s] floating enable`, sway.Quote(promptTitle)),
			fmt.Sprintf(`for_window [title=%s] border none`, sway.Quote(promptTitle)),
			fmt.Sprintf(`for_window [title=%s] sticky enable`, sway.Quote(promptTitle)),
		)
	}

	return d.SwayMsgs(msgs)
}

// Reload re-reads the config and applies it. An invalid config is logged and
// the previous one stays in place.
func (d *Daemon) Reload() error {
	cfg, exp, err := LoadConfig(d.ConfigPath)
	if err != nil {
		d.Logger.Printf("reload error: %s", err)
		return err
	}

	d.mx.Lock()
	d.cfg, d.exp = cfg, exp
	d.mx.Unlock()
	d.Logger.Printf("Reloaded: %d groups, %d keys", len(exp.Groups), len(exp.Keys))

	err = d.Apply()
	if err != nil {
		d.Logger.Printf("apply error: %s", err)
	}

	return err
}

// ListOutputs returns the names of the active outputs, in the tree's order.
func (d *Daemon) ListOutputs() ([]string, error) {
	var ret []string
	err := d.withConn(func(conn *ipc.SwayConnection) error {
		tree, err := conn.GetTree()
		if err != nil {
			return err
		}
		for _, output := range tree.Nodes {
			if output.Name == "__i3" {
				continue
			}
			ret = append(ret, output.Name)
		}

		return nil
	})

	return ret, err
}

// withConn runs fn with exclusive access to the command connection, which is
// shared by the event loop and the RPC server.
func (d *Daemon) withConn(fn func(conn *ipc.SwayConnection) error) error {
	d.connMx.Lock()
	defer d.connMx.Unlock()

	return fn(d.conn)
}

func (d *Daemon) parseNode(con *ipc.Node, space, output string) {
	isWin := con.Layout != "splith" && con.Layout != "splitv" &&
		con.Layout != "tabbed" && con.Layout != "stacked"

	if isWin {
		id := strconv.Itoa(int(con.ID))
		data := types.WindowData{
			ID:        int(con.ID),
			Output:    output,
			Workspace: space,
			Title:     con.Name,
			App:       con.WindowProperties.Class,
		}
		if con.AppID != nil {
			data.App = con.AppID.(string)
		}

		d.winData[id] = data
		d.winFocus, _ = unshiftAndTrim(d.winFocus, id)
	}

	for _, node := range con.Nodes {
		d.parseNode(&node, space, output)
	}
}

func (d *Daemon) onClose(c *ipc.Container) {
	id := strconv.Itoa(c.ID)

	d.mx.Lock()
	win := d.winData[id]
	d.winFocus = lo.Without(d.winFocus, id)
	delete(d.winData, id)
	d.mx.Unlock()

	d.emit(usrCmds.EventClose, win)
}

// onNew is the client_new hook point.
func (d *Daemon) onNew(con *ipc.Container) {
	win := d.track(con)
	d.emit(usrCmds.EventNew, win)
}

func (d *Daemon) onFocus(con *ipc.Container) {
	// skip the prompt
	if con.Name == promptTitle {
		return
	}
	win := d.track(con)
	d.emit(usrCmds.EventFocus, win)
}

// track records the window as the most recently used one.
func (d *Daemon) track(con *ipc.Container) types.WindowData {
	id := strconv.Itoa(con.ID)
	data := types.WindowData{
		ID:    con.ID,
		Title: con.Name,
		App:   con.WindowProperties.Class,
	}

	err := d.withConn(func(conn *ipc.SwayConnection) error {
		space, err := conn.GetFocusedWorkspace()
		if err != nil {
			return err
		}
		data.Output = space.Output
		data.Workspace = space.Name

		return nil
	})
	if err != nil {
		log.Printf("error: %s", err)
	}
	if appID, ok := con.AppID.(string); ok && appID != "" {
		data.App = appID
	}

	d.mx.Lock()
	defer d.mx.Unlock()

	d.winData[id] = data
	var removed []string
	d.winFocus, removed = unshiftAndTrim(d.winFocus, id)
	for _, id := range removed {
		delete(d.winData, id)
	}

	return data
}

// emit runs the listeners synchronously, in the event loop.
func (d *Daemon) emit(event string, win types.WindowData) {
	err := usrCmds.Emit(event, d, win)
	if err != nil {
		d.Logger.Printf("hook error: %s", err)
	}
}

func (d *Daemon) FocusedWindow() types.WindowData {
	d.mx.Lock()
	defer d.mx.Unlock()

	if len(d.winFocus) < 1 {
		return types.WindowData{}
	}

	return d.winData[d.winFocus[0]]
}

// Window reads a window from the current sway tree.
func (d *Daemon) Window(id int) (*sway.Window, error) {
	var tree []byte
	err := d.withConn(func(conn *ipc.SwayConnection) error {
		var err error
		tree, err = conn.SendCommand(ipc.IPC_GET_TREE, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	return sway.FindWindow(tree, int64(id), d.SwayMsg)
}

func (d *Daemon) Groups() []config.GroupSpec {
	d.mx.Lock()
	defer d.mx.Unlock()

	return d.exp.Groups
}

// Keys returns the active bindings.
func (d *Daemon) Keys() []config.Key {
	d.mx.Lock()
	defer d.mx.Unlock()

	return d.exp.Keys
}

func (d *Daemon) SwayMsgs(msgs []string) error {
	for _, msg := range msgs {
		err := d.SwayMsg("%s", msg)
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Daemon) SwayMsg(msg string, args ...any) error {
	cmd := fmt.Sprintf(msg, args...)

	if isLog() {
		log.Printf("swaymsg %s", cmd)
	}
	err := d.withConn(func(conn *ipc.SwayConnection) error {
		_, err := conn.RunSwayCommand(cmd)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}

	return nil
}

func (d *Daemon) ListWindows() map[string]types.WindowData {
	d.mx.Lock()
	defer d.mx.Unlock()

	return lo.Assign(d.winData)
}

// MoveWinToGroup moves a window to the workspace of a group.
func (d *Daemon) MoveWinToGroup(winID int, label string) error {
	winIDStr := strconv.Itoa(winID)
	d.mx.Lock()
	_, isGroup := d.exp.Group(label)
	win, ok := d.winData[winIDStr]
	d.mx.Unlock()

	if !isGroup {
		return fmt.Errorf("unknown group: %s", label)
	}

	if ok && win.Workspace == label {
		// skip already there
		return nil
	}

	err := d.SwayMsg("[con_id=%d] move container to workspace %s", winID, sway.Quote(label))
	if err != nil {
		return err
	}

	if ok {
		win.Workspace = label
		d.mx.Lock()
		d.winData[winIDStr] = win
		d.mx.Unlock()
	}

	return nil
}

func (d *Daemon) WinMatch(win types.WindowData, match string, matchApp, matchTitle bool) bool {
	match = strings.ToLower(match)
	if matchApp && strings.ToLower(win.App) == match {
		return true
	}
	if matchTitle && strings.Contains(strings.ToLower(win.Title), match) {
		return true
	}

	return false
}

// ///// ///// /////
// ///// UTILS
// ///// ///// /////

func unshiftAndTrim(slice []string, id string) ([]string, []string) {
	slice = lo.Without(slice, id)
	ret := append([]string{id}, slice...)
	var removed []string
	if len(ret) > maxTracked {
		removed = ret[maxTracked:]
		ret = ret[:maxTracked]
	}
	return ret, removed
}

func maxLen(str string, maxLength int) string {
	if len(str) > maxLength {
		if len(str) > 4 {
			return str[:maxLength-3] + "..."
		} else {
			return str[:maxLength]
		}
	}
	return str
}

func IsLightMode() bool {
	cmd := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
	output, err := cmd.Output()
	if err != nil {
		return false
	}

	return strings.Contains(string(output), "light")
}

func isLog() bool {
	return os.Getenv("DOTWM_LOG") != ""
}

func isDev() bool {
	return os.Getenv("DOTWM_DEBUG") != ""
}

// parseFlags parses a string of flags into a map
// input: 23 -a --b=4 foo=2 -bar=1
// output: map[123: a: b:4 bar:1 foo:2]
func parseFlags(input string) map[string]string {
	flags := strings.Split(input, " ")
	flagMap := make(map[string]string)

	for _, flag := range flags {
		if flag == "" {
			continue
		}
		prefix1 := strings.HasPrefix(flag, "--")
		prefix2 := strings.HasPrefix(flag, "-")
		equals := strings.Index(flag, "=") > 0

		if prefix1 || prefix2 || equals {
			parts := strings.SplitN(flag, "=", 2)
			if len(parts) == 2 {
				flagMap[parts[0]] = parts[1]
			} else {
				flagMap[parts[0]] = ""
			}
		} else {
			// index flag
			flagMap[flag] = ""
		}
	}

	return flagMap
}
