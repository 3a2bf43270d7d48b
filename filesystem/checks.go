package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/fileshell"
)

// stat returns the FileInfo for p, translating a missing path into
// [fileshell.ErrNotFound]. Other failures are wrapped with their cause.
func (n *Navigator) stat(op, name, p string) (fs.FileInfo, error) {
	info, err := n.vfs.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileshell.NewError(op, name, fileshell.ErrNotFound)
		}
		return nil, wrapErr(op, name, err)
	}
	return info, nil
}

// checkDir requires p to exist and be a directory
func (n *Navigator) checkDir(op, name, p string) error {
	info, err := n.stat(op, name, p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fileshell.NewError(op, name, fileshell.ErrNotADirectory)
	}
	return nil
}

// checkFile requires p to exist and not be a directory. A name typed with a
// trailing separator names a directory, so it never matches a file.
func (n *Navigator) checkFile(op, name, p string) (fs.FileInfo, error) {
	info, err := n.stat(op, name, p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fileshell.NewError(op, name, fileshell.ErrNotAFile)
	}
	if hasTrailingSep(name) {
		return nil, fileshell.NewError(op, name, fileshell.ErrNotADirectory)
	}
	return info, nil
}

// checkAbsent requires nothing to exist at p, not even a dangling symlink
func (n *Navigator) checkAbsent(op, name, p string) error {
	_, err := n.vfs.Lstat(p)
	switch {
	case err == nil:
		return fileshell.NewError(op, name, fileshell.ErrAlreadyExists)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return wrapErr(op, name, err)
	}
}

// checkNewFile is checkAbsent for a file about to be created
func (n *Navigator) checkNewFile(op, name, p string) error {
	if err := n.checkAbsent(op, name, p); err != nil {
		return err
	}
	if hasTrailingSep(name) {
		return fileshell.NewError(op, name, fileshell.ErrNotAFile)
	}
	return nil
}

// hasTrailingSep reports whether name was typed ending in a path separator
func hasTrailingSep(name string) bool {
	return strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator))
}

// wrapErr wraps an OS failure in a [*fileshell.Error] naming the typed
// argument. The path inside *fs.PathError and *os.LinkError is the resolved
// host path, so only the underlying cause is kept.
func wrapErr(op, name string, err error) error {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr):
		err = pathErr.Err
	case errors.As(err, &linkErr):
		err = linkErr.Err
	}
	return fileshell.NewError(op, name, err)
}
