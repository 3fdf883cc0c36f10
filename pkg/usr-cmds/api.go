package usrCmds

import (
	"errors"
	"fmt"
	"log"

	"github.com/korin/dotwm/internal/config"
	"github.com/korin/dotwm/internal/sway"
	"github.com/korin/dotwm/internal/types"
)

// window events which run the listeners
const (
	EventNew   = "new"
	EventFocus = "focus"
	EventClose = "close"
)

type DaemonAPI interface {
	FocusedWindow() types.WindowData
	ListWindows() map[string]types.WindowData
	// Window reads the current state of a window from the sway tree.
	Window(id int) (*sway.Window, error)
	Groups() []config.GroupSpec
	SwayMsg(msg string, args ...any) error
	MoveWinToGroup(winID int, label string) error
	WinMatch(win types.WindowData, match string, matchApp, matchTitle bool) bool
}

type UserFunc func(DaemonAPI, map[string]string) (string, error)

// WinListenerFunc handles a window event. Listeners run in the daemon's event
// loop and shouldn't block.
type WinListenerFunc func(DaemonAPI, types.WindowData) error

var Registered map[string]UserFunc
var Listeners map[string][]WinListenerFunc

// register registers a new user command function.
func register(name string, fn UserFunc) {
	if Registered == nil {
		Registered = make(map[string]UserFunc)
	}
	Registered[name] = fn
}

// listener registers a new event listener.
func listener(event string, fn WinListenerFunc) {
	if Listeners == nil {
		Listeners = make(map[string][]WinListenerFunc)
	}
	Listeners[event] = append(Listeners[event], fn)
}

// onNew registers a window "new" event listener, aka client_new.
func onNew(fn WinListenerFunc) {
	listener(EventNew, fn)
}

// Emit runs the listeners of event in registration order. All of them run,
// and their errors are returned joined.
func Emit(event string, d DaemonAPI, win types.WindowData) error {
	var errs []error
	for _, fn := range Listeners[event] {
		if err := fn(d, win); err != nil {
			errs = append(errs, fmt.Errorf("%s #%d: %w", event, win.ID, err))
		}
	}

	return errors.Join(errs...)
}

// Run executes a registered user command.
func Run(name string, d DaemonAPI, args map[string]string) (string, error) {
	fn, ok := Registered[name]
	if !ok {
		return "", fmt.Errorf("unknown user command: %s", name)
	}

	return fn(d, args)
}

// p prints to the daemon's log.
func p(msg string, vals ...any) {
	log.Printf(msg, vals...)
}
