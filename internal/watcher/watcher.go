package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	am "github.com/pancsta/asyncmachine-go/pkg/machine"
	"github.com/pancsta/asyncmachine-go/pkg/telemetry"
	"github.com/samber/lo"

	ss "github.com/korin/dotwm/internal/watcher/states"
)

// debounce is the min time between 2 refreshes of the same dir.
const debounce = time.Second

// PathWatcher keeps an index of the executables in PATH, which feeds the
// command prompt, and reports changes of the config file.
type PathWatcher struct {
	am.ExceptionHandler

	Mach        *am.Machine
	ResultsLock sync.Mutex
	Results     []string
	EnvPath     string
	ConfigPath  string
	// ConfigChanged receives a value after each write to ConfigPath. Pending
	// notifications get coalesced.
	ConfigChanged chan struct{}

	watcher     *fsnotify.Watcher
	dirCache    map[string][]string
	dirState    map[string]*am.Machine
	ongoing     map[string]context.Context
	lastRefresh map[string]time.Time
}

func New(ctx context.Context, logger *log.Logger, configPath string) (*PathWatcher, error) {
	w := &PathWatcher{
		EnvPath:       os.Getenv("PATH"),
		ConfigPath:    filepath.Clean(configPath),
		ConfigChanged: make(chan struct{}, 1),
		dirCache:      make(map[string][]string),
		dirState:      make(map[string]*am.Machine),
		ongoing:       make(map[string]context.Context),
		lastRefresh:   make(map[string]time.Time),
	}
	opts := &am.Opts{
		ID: "watcher",
	}

	if isAMDebug() {
		opts.HandlerTimeout = time.Minute
		opts.DontPanicToException = true
	}
	w.Mach = am.New(ctx, ss.States, opts)

	err := w.Mach.VerifyStates(ss.Names)
	if err != nil {
		return nil, err
	}

	err = w.Mach.BindHandlers(w)
	if err != nil {
		return nil, err
	}

	w.Mach.SetTestLogger(logger.Printf, am.LogChanges)
	w.Mach.SetLogArgs(am.NewArgsMapper([]string{"dir"}, 0))
	if isAMDebug() {
		err = telemetry.TransitionsToDBG(w.Mach, "")
		if err != nil {
			return nil, err
		}
	}

	return w, nil
}

func (w *PathWatcher) InitState(e *am.Event) {
	var err error

	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		w.Mach.Remove1(ss.Init, nil)
		w.Mach.AddErr(err)
	}
}

func (w *PathWatcher) InitEnd(e *am.Event) {
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *PathWatcher) WatchingState(e *am.Event) {
	dirs := lo.Uniq(strings.Split(w.EnvPath, string(os.PathListSeparator)))

	// start the loop (bound to this instance)
	ctx := e.Machine.NewStateCtx(ss.Watching)
	go w.watchLoop(ctx)

	// the config's dir, so renames by editors get caught too
	if w.ConfigPath != "." {
		configDir := filepath.Dir(w.ConfigPath)
		if _, err := os.Stat(configDir); err == nil {
			if err := w.watcher.Add(configDir); err != nil {
				e.Machine.AddErr(err)
			}
		}
	}

	for _, dir := range dirs {
		// if path doesn't exist, continue
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := w.watcher.Add(dir)
		if err != nil {
			e.Machine.AddErr(err)
		}

		// create a state for each dir
		state := am.New(ctx, ss.StatesDir, nil)
		err = state.VerifyStates(ss.NamesDir)
		if err != nil {
			e.Machine.AddErr(err)
			continue
		}

		w.dirState[dir] = state

		// schedule a refresh
		w.Mach.Add1(ss.Refreshing, am.A{"dir": dir})
	}
}

func (w *PathWatcher) WatchingEnd(e *am.Event) {
	paths := w.watcher.WatchList()

	for _, path := range paths {
		err := w.watcher.Remove(path)
		if err != nil {
			e.Machine.AddErr(err)
		}
	}
}

func (w *PathWatcher) watchLoop(ctx context.Context) {
	for {
		select {

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.Mach.Remove1(ss.Watching, nil)
				return
			}
			w.Mach.Add1(ss.ChangeEvent, am.A{
				"fsnotify.Event": event,
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.Mach.Remove1(ss.Watching, nil)
				return
			}
			w.Mach.AddErr(err)

		case <-ctx.Done():
			// state expired
			return
		}
	}
}

func (w *PathWatcher) ChangeEventState(e *am.Event) {
	defer e.Machine.Remove1(ss.ChangeEvent, nil)
	event := e.Args["fsnotify.Event"].(fsnotify.Event)

	if filepath.Clean(event.Name) == w.ConfigPath {
		if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
			w.Mach.Add1(ss.ConfigChanged, nil)
		}
		return
	}

	dir := filepath.Dir(event.Name)
	if _, ok := w.dirState[dir]; !ok {
		// another file in the config dir
		return
	}

	// exe
	isRemove := event.Op&fsnotify.Remove == fsnotify.Remove
	if !isRemove {
		isExe, err := isExecutable(event.Name)
		if !isExe || err != nil {
			return
		}
	}

	w.Mach.Add1(ss.Refreshing, am.A{
		"dir": dir,
	})
}

func (w *PathWatcher) ConfigChangedState(e *am.Event) {
	defer e.Machine.Remove1(ss.ConfigChanged, nil)

	select {
	case w.ConfigChanged <- struct{}{}:
	default:
		// already pending
	}
}

func (w *PathWatcher) ExceptionState(e *am.Event) {
	w.ExceptionHandler.ExceptionState(e)
}

func (w *PathWatcher) RefreshingEnter(e *am.Event) bool {
	// validate req params
	dir, ok1 := e.Args["dir"].(string)
	dirState, ok2 := w.dirState[dir]
	if !ok1 || !ok2 {
		return false
	}

	// let the debounced refreshes pass
	isDebounce, _ := e.Args["isDebounce"].(bool)
	if dirState.Is1(ss.Refreshing) || (dirState.Is1(ss.DirDebounced) && !isDebounce) {
		return false
	}

	return true
}

func (w *PathWatcher) RefreshingState(e *am.Event) {
	w.Mach.Remove1(ss.Refreshing, nil)

	dir := e.Args["dir"].(string)
	dirState := w.dirState[dir]

	// max 1 refresh per second
	since := time.Since(w.lastRefresh[dir])
	if dirState.Is1(ss.DirCached) && since < debounce {
		w.Mach.Log("Debounce for %s", dir)
		dirState.Add1(ss.DirDebounced, nil)

		go func() {
			time.Sleep(debounce)
			w.Mach.Add1(ss.Refreshing, am.A{
				"dir":        dir,
				"isDebounce": true,
			})
		}()

		return
	}

	dirState.Add1(ss.Refreshing, nil)
	w.ongoing[dir] = dirState.NewStateCtx(ss.Refreshing)
	ctx := w.ongoing[dir]

	go func() {
		if ctx.Err() != nil {
			return // expired
		}

		executables, err := listExecutables(dir)
		if err != nil {
			e.Machine.AddErr(err)
		}

		w.Mach.Remove1(ss.Refreshing, am.A{
			"dir": dir,
		})
		w.Mach.Add1(ss.Refreshed, am.A{
			"dir":         dir,
			"executables": executables,
		})
	}()
}

func (w *PathWatcher) RefreshingExit(e *am.Event) bool {
	// GC
	if dir, ok := e.Args["dir"].(string); ok {
		delete(w.ongoing, dir)
	}

	// check completions
	mut := e.Mutation()

	// removing Init is a force shutdown
	removeInit := mut.Type == am.MutationRemove && mut.StateWasCalled(ss.Init)

	return len(w.ongoing) == 0 || removeInit
}

func (w *PathWatcher) RefreshingEnd(e *am.Event) {
	// forced cleanup
	for i := range w.ongoing {
		delete(w.ongoing, i)
	}
}

func (w *PathWatcher) RefreshedEnter(e *am.Event) bool {
	// validate req params
	_, ok1 := e.Args["dir"].(string)
	_, ok2 := e.Args["executables"].([]string)

	return ok1 && ok2
}

func (w *PathWatcher) RefreshedState(e *am.Event) {
	w.Mach.Remove1(ss.Refreshed, nil)

	dir := e.Args["dir"].(string)
	executables := e.Args["executables"].([]string)
	w.dirCache[dir] = executables
	w.lastRefresh[dir] = time.Now()

	// update the per-dir state
	w.dirState[dir].Add(am.S{ss.Refreshed, ss.DirCached}, nil)

	// try to finish the whole refresh
	w.Mach.Add1(ss.AllRefreshed, nil)
}

func (w *PathWatcher) AllRefreshedEnter(e *am.Event) bool {
	return len(w.ongoing) == 0
}

func (w *PathWatcher) AllRefreshedState(e *am.Event) {
	w.ResultsLock.Lock()
	defer w.ResultsLock.Unlock()

	// rebuild, so removed files disappear
	w.Results = indexExecutables(w.dirCache)
}

// Executables waits for the pending refreshes and returns the index.
func (w *PathWatcher) Executables(ctx context.Context) ([]string, error) {
	select {
	case <-w.Mach.When1(ss.AllRefreshed, nil):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	w.ResultsLock.Lock()
	defer w.ResultsLock.Unlock()

	return append([]string{}, w.Results...), nil
}

func (w *PathWatcher) Start() {
	w.Mach.Add1(ss.Init, nil)
}

func (w *PathWatcher) Stop() {
	w.Mach.Remove1(ss.Init, nil)
}

// ///// ///// /////
// ///// HELPERS
// ///// ///// /////

func isAMDebug() bool {
	return os.Getenv("DOTWM_DEBUG") == "2"
}

func isExecutable(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return !info.IsDir() && info.Mode().Perm()&0111 != 0, nil
}

func listExecutables(dirPath string) ([]string, error) {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	executables := []string{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		isExe, err := isExecutable(filepath.Join(dirPath, file.Name()))
		if err != nil {
			continue
		}

		if isExe {
			executables = append(executables, file.Name())
		}
	}

	return executables, nil
}

// indexExecutables merges the per-dir lists into a sorted list of unique
// names.
func indexExecutables(dirCache map[string][]string) []string {
	var all []string
	for _, executables := range dirCache {
		all = append(all, executables...)
	}
	all = lo.Uniq(all)
	sort.Strings(all)

	return all
}
