// Package floating decides which new windows skip tiling.
package floating

// TypeDialog is the X11 _NET_WM_WINDOW_TYPE of dialog windows.
const TypeDialog = "dialog"

// Window is a newly created window, as seen by the client_new hook.
type Window interface {
	// WindowType returns the window type reported by the display protocol,
	// eg "normal" or "dialog".
	WindowType() (string, error)
	// TransientFor returns the ID of the owning window, if there's one.
	TransientFor() (id int64, ok bool, err error)
	// SetFloating marks the window as floating.
	SetFloating() error
}

// ShouldFloat is true for dialogs and for windows owned by another window.
func ShouldFloat(w Window) (bool, error) {
	winType, err := w.WindowType()
	if err != nil {
		return false, err
	}
	if winType == TypeDialog {
		return true, nil
	}

	_, transient, err := w.TransientFor()
	if err != nil {
		return false, err
	}

	return transient, nil
}

// FloatingDialogs floats w when ShouldFloat says so. It never unfloats a
// window and returns query errors unchanged.
func FloatingDialogs(w Window) error {
	float, err := ShouldFloat(w)
	if err != nil || !float {
		return err
	}

	return w.SetFloating()
}
