package mocks

import (
	"io"

	"github.com/brettbedarf/fileshell"
	"github.com/stretchr/testify/mock"
)

// MockWorkspace implements fileshell.Workspace for testing across packages.
// Calls without a matching expectation fail the test, which makes it useful
// to prove that a code path never touches the workspace.
type MockWorkspace struct {
	mock.Mock
}

func (m *MockWorkspace) Cwd() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockWorkspace) DisplayPath(path string) string {
	args := m.Called(path)
	return args.String(0)
}

func (m *MockWorkspace) ChangeDirectory(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockWorkspace) List(name string) ([]fileshell.Entry, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fileshell.Entry), args.Error(1)
}

func (m *MockWorkspace) CreateDir(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockWorkspace) DeleteDir(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockWorkspace) CreateFile(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockWorkspace) DeleteFile(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockWorkspace) WriteToFile(name string, r io.Reader) (int64, error) {
	args := m.Called(name, r)

	// Handle function return types (for tests that consume r)
	if fn, ok := args.Get(0).(func(string, io.Reader) int64); ok {
		return fn(name, r), args.Error(1)
	}
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkspace) ReadFile(name string) ([]byte, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWorkspace) CopyFile(src, dst string) error {
	return m.Called(src, dst).Error(0)
}

func (m *MockWorkspace) MoveFile(src, dst string) error {
	return m.Called(src, dst).Error(0)
}

func (m *MockWorkspace) RenameFile(src, newName string) error {
	return m.Called(src, newName).Error(0)
}

var _ fileshell.Workspace = (*MockWorkspace)(nil)
