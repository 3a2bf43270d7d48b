package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/avfs/avfs"
	"github.com/brettbedarf/fileshell"
	"github.com/brettbedarf/fileshell/internal/util"
)

// Navigator owns the immutable root and the mutable current directory (cursor)
// of one shell session. The cursor is always the root or a lexical descendant of it.
//
// NOTE: Navigator is **not** thread-safe; give every session its own.
type Navigator struct {
	vfs    avfs.VFS
	root   string
	cursor string
}

// NewNavigator creates a Navigator over vfs rooted at the absolute, cleaned
// form of root with the cursor at the root. The root must be an existing directory.
func NewNavigator(vfs avfs.VFS, root string) (*Navigator, error) {
	abs, err := vfs.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := vfs.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fileshell.NewError("root", root, fileshell.ErrNotADirectory)
	}
	return &Navigator{vfs: vfs, root: abs, cursor: abs}, nil
}

// Root returns the absolute root directory
func (n *Navigator) Root() string { return n.root }

// Cwd returns the absolute current directory
func (n *Navigator) Cwd() string { return n.cursor }

// Resolve interprets name relative to the cursor and returns the cleaned
// absolute path. Absolute names are only cleaned. The result is not checked
// for containment; see [Navigator.IsWithinRoot].
func (n *Navigator) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(n.cursor, name)
}

// IsWithinRoot reports whether path is the root or lies below it. The check is
// lexical and compares whole path components, so "/work2" is not within "/work".
func (n *Navigator) IsWithinRoot(path string) bool {
	return filepath.IsAbs(path) && within(n.root, path)
}

// ResolveWithin resolves name and checks containment, returning
// [fileshell.ErrSandboxViolation] wrapped in a [*fileshell.Error] when it escapes.
func (n *Navigator) ResolveWithin(op, name string) (string, error) {
	p := n.Resolve(name)
	if !n.IsWithinRoot(p) {
		logger := util.GetLogger("Navigator")
		logger.Info().Str("op", op).Str("name", name).Str("cwd", n.DisplayPath(n.cursor)).Msg("Rejected path outside working directory")
		return "", fileshell.NewError(op, name, fileshell.ErrSandboxViolation)
	}
	return p, nil
}

// ChangeDirectory moves the cursor to name. The cursor is left untouched on failure.
func (n *Navigator) ChangeDirectory(name string) error {
	const op = "cd"
	p, err := n.ResolveWithin(op, name)
	if err != nil {
		return err
	}
	if err := n.checkDir(op, name, p); err != nil {
		return err
	}
	n.cursor = p
	return nil
}

// DisplayPath returns the root-relative, slash-separated form of path, always
// starting with "/". The root itself displays as "/". Paths outside the root
// are returned cleaned but otherwise unchanged.
func (n *Navigator) DisplayPath(path string) string {
	if !n.IsWithinRoot(path) {
		return filepath.Clean(path)
	}
	rel, _ := filepath.Rel(n.root, filepath.Clean(path))
	if rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// containsCursor reports whether p is the cursor or one of its ancestors
func (n *Navigator) containsCursor(p string) bool {
	return within(p, n.cursor)
}

// within reports whether path equals base or is below it, component-wise
func within(base, path string) bool {
	rel, err := filepath.Rel(base, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
