package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/brettbedarf/fileshell/shell"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m, err := NewManager(root, "test")
	require.NoError(t, err)
	return m, root
}

func exec(t *testing.T, s *Session, line string) {
	t.Helper()
	_, err := s.Exec(line, strings.NewReader(""), io.Discard)
	require.NoError(t, err)
}

func TestNewManager_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := NewManager(filepath.Join(t.TempDir(), "missing"), "test")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_OpenGetClose(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)

	s, err := m.Open()
	require.NoError(t, err)
	_, err = uuid.Parse(s.ID)
	assert.NoError(t, err, "session IDs are UUIDs")
	assert.Equal(t, root, s.Cwd())
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Close(s.ID)
	m.Close(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SessionsHaveIndependentCursors(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "b"), 0o755))

	s1, err := m.Open()
	require.NoError(t, err)
	s2, err := m.Open()
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID, s2.ID)

	exec(t, s1, "cd a")
	exec(t, s2, "cd b")

	assert.Equal(t, filepath.Join(root, "a"), s1.Cwd())
	assert.Equal(t, filepath.Join(root, "b"), s2.Cwd())
	assert.Equal(t, "test:/a> ", s1.Prompt())
	assert.Equal(t, "test:/b> ", s2.Prompt())
}

func TestSession_ExecState(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	s, err := m.Open()
	require.NoError(t, err)

	state, err := s.Exec("exit", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, shell.Terminated, state)
}

// TestSession_ConcurrentExec runs many commands against sessions from several
// goroutines; run with -race to check the per-session locking.
func TestSession_ConcurrentExec(t *testing.T) {
	t.Parallel()

	m, root := newTestManager(t)
	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := m.Open()
			if !assert.NoError(t, err) {
				return
			}
			dir := fmt.Sprintf("d%d", i)
			for _, line := range []string{"create_dir " + dir, "cd " + dir, "create_file f", "cd ..", "ls"} {
				_, err := s.Exec(line, strings.NewReader(""), io.Discard)
				assert.NoError(t, err, "session %d: %s", i, line)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, m.Len())
	for i := range 8 {
		assert.FileExists(t, filepath.Join(root, fmt.Sprintf("d%d", i), "f"))
	}
}
