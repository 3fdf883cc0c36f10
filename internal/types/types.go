package types

// WindowData is what the daemon tracks per window.
type WindowData struct {
	ID        int
	Output    string
	Workspace string
	Title     string
	App       string
}
