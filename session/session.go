// Package session gives every shell user an independent workspace and cursor
// over one shared root.
package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/brettbedarf/fileshell/filesystem"
	"github.com/brettbedarf/fileshell/internal/util"
	"github.com/brettbedarf/fileshell/shell"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Session is one shell with its own cursor. Commands of a session run one at
// a time; different sessions may run concurrently.
type Session struct {
	ID      string
	Created time.Time

	mu    sync.Mutex
	fs    *filesystem.FileSystem
	shell *shell.Shell
}

// Exec runs one command line while holding the session lock.
// It implements [shell.Executor].
func (s *Session) Exec(line string, in io.Reader, out io.Writer) (shell.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shell.Exec(line, in, out)
}

// Prompt renders the prompt for the session's current directory
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shell.Prompt()
}

// Cwd returns the session's absolute current directory
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Cwd()
}

var _ shell.Executor = (*Session)(nil)

// Manager tracks the open sessions of one root directory
type Manager struct {
	root       string
	promptName string
	sessions   *xsync.Map[string, *Session]
}

// NewManager creates a Manager for root, which must be an existing directory.
func NewManager(root, promptName string) (*Manager, error) {
	// validate once up front so Open only fails for new problems
	if _, err := filesystem.NewFS(root); err != nil {
		return nil, err
	}
	return &Manager{
		root:       root,
		promptName: promptName,
		sessions:   xsync.NewMap[string, *Session](),
	}, nil
}

// Open creates a session with its cursor at the root
func (m *Manager) Open() (*Session, error) {
	logger := util.GetLogger("SessionManager")

	fs, err := filesystem.NewFS(m.root)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	s := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		fs:      fs,
		shell:   shell.New(fs, m.promptName),
	}
	m.sessions.Store(s.ID, s)
	logger.Info().Str("session", s.ID).Str("root", fs.Root()).Msg("Session opened")
	return s, nil
}

// Get returns the open session with the given ID
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Load(id)
}

// Close forgets a session. Closing an unknown ID is a no-op.
func (m *Manager) Close(id string) {
	logger := util.GetLogger("SessionManager")
	if _, ok := m.sessions.LoadAndDelete(id); ok {
		logger.Info().Str("session", id).Msg("Session closed")
	}
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	return m.sessions.Size()
}
