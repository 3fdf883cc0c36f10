package states

import am "github.com/pancsta/asyncmachine-go/pkg/machine"

// S is a type alias for a list of state names.
type S = am.S

// States of the PathWatcher machine.
var States = am.Struct{
	am.Exception: {Multi: true},

	Init: {Add: S{Watching}},
	Watching: {
		Require: S{Init},
		After:   S{Init},
	},
	ChangeEvent: {
		Multi:   true,
		Require: S{Watching},
	},
	Refreshing: {
		Multi:  true,
		Remove: S{AllRefreshed},
	},
	Refreshed:    {Multi: true},
	AllRefreshed: {},
	ConfigChanged: {
		Multi:   true,
		Require: S{Watching},
	},
}

// StatesDir are the states of a single PATH dir.
var StatesDir = am.Struct{
	am.Exception: {Multi: true},

	Refreshing:   {Remove: S{Refreshed}},
	Refreshed:    {Remove: S{Refreshing, DirDebounced}},
	DirCached:    {},
	DirDebounced: {},
}

const (
	Init          = "Init"
	Watching      = "Watching"
	ChangeEvent   = "ChangeEvent"
	Refreshing    = "Refreshing"
	Refreshed     = "Refreshed"
	AllRefreshed  = "AllRefreshed"
	ConfigChanged = "ConfigChanged"
	DirCached     = "DirCached"
	DirDebounced  = "DirDebounced"
)

// Names is the ordered list of the machine's states.
var Names = S{
	am.Exception,
	Init,
	Watching,
	ChangeEvent,
	Refreshing,
	Refreshed,
	AllRefreshed,
	ConfigChanged,
}

// NamesDir is the ordered list of the per-dir states.
var NamesDir = S{
	am.Exception,
	Refreshing,
	Refreshed,
	DirCached,
	DirDebounced,
}
