// Package fileshell contains core domain types and interfaces for a shell that
// manipulates files confined to a single working directory.
package fileshell

import (
	"io"
	"time"
)

// Entry describes one item of a directory listing
type Entry struct {
	Name    string
	Size    int64 // 0 for directories
	IsDir   bool
	ModTime time.Time
}

// Workspace is the set of sandboxed operations the dispatcher can invoke.
// Every name argument is resolved against the current directory and must stay
// within the root; implementations report failures as [*Error].
type Workspace interface {
	// Cwd returns the absolute current directory
	Cwd() string

	// DisplayPath returns the root-relative form of an absolute path, always
	// starting with "/"
	DisplayPath(path string) string

	ChangeDirectory(name string) error
	List(name string) ([]Entry, error)

	CreateDir(name string) error
	DeleteDir(name string) error

	CreateFile(name string) error
	DeleteFile(name string) error

	// WriteToFile reads r until EOF and appends everything read to the file.
	// r is not consumed if a pre-condition check fails.
	// Returns the number of bytes appended
	WriteToFile(name string, r io.Reader) (int64, error)

	ReadFile(name string) ([]byte, error)

	CopyFile(src, dst string) error
	MoveFile(src, dst string) error
	RenameFile(src, newName string) error
}
