package watcher

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ss "github.com/korin/dotwm/internal/watcher/states"
)

func newTestWatcher(t *testing.T) (*PathWatcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	w, err := New(context.Background(), log.New(io.Discard, "", 0), path)
	require.NoError(t, err)
	w.EnvPath = t.TempDir()

	w.Start()
	t.Cleanup(w.Stop)
	require.True(t, w.Mach.Is1(ss.Watching))

	return w, path
}

func TestConfigChangedCoalesces(t *testing.T) {
	w, _ := newTestWatcher(t)

	w.Mach.Add1(ss.ConfigChanged, nil)
	w.Mach.Add1(ss.ConfigChanged, nil)
	w.Mach.Add1(ss.ConfigChanged, nil)

	assert.Len(t, w.ConfigChanged, 1)
	<-w.ConfigChanged
	assert.Len(t, w.ConfigChanged, 0)
}

func TestConfigWriteNotifies(t *testing.T) {
	w, path := newTestWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("mod: mod4\n"), 0o644))

	select {
	case <-w.ConfigChanged:
	case <-time.After(5 * time.Second):
		t.Fatal("no config change reported")
	}
}

func TestListExecutables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foot"), nil, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lib"), 0o755))

	exes, err := listExecutables(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"foot"}, exes)

	_, err = listExecutables(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(path, nil, 0o700))

	ok, err := isExecutable(path)
	require.NoError(t, err)
	assert.True(t, ok)

	// dirs have the x bit too
	ok, err = isExecutable(dir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexExecutables(t *testing.T) {
	index := indexExecutables(map[string][]string{
		"/usr/bin":       {"vim", "foot", "sway"},
		"/usr/local/bin": {"vim", "dotwm"},
		"/empty":         nil,
	})

	assert.Equal(t, []string{"dotwm", "foot", "sway", "vim"}, index)
}
