package filesystem

import (
	"io"
	"os"
	"sort"

	"github.com/avfs/avfs"
	"github.com/avfs/avfs/vfs/osfs"
	"github.com/brettbedarf/fileshell"
	"github.com/brettbedarf/fileshell/internal/util"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileSystem implements [fileshell.Workspace] on an [avfs.VFS], confined to
// the root of its [Navigator]. Every operation evaluates all of its checks
// before touching the filesystem.
type FileSystem struct {
	*Navigator
}

var _ fileshell.Workspace = (*FileSystem)(nil)

// NewFS creates a FileSystem on the host filesystem rooted at root with the
// cursor at root.
func NewFS(root string) (*FileSystem, error) {
	vfs, err := osfs.New()
	if err != nil {
		return nil, err
	}
	return NewFSWithVFS(vfs, root)
}

// NewFSWithVFS creates a FileSystem on vfs rooted at root, which must already
// exist on vfs.
func NewFSWithVFS(vfs avfs.VFS, root string) (*FileSystem, error) {
	nav, err := NewNavigator(vfs, root)
	if err != nil {
		return nil, err
	}
	return &FileSystem{Navigator: nav}, nil
}

// List returns the entries of the directory name (the cursor when name is
// empty) sorted by name.
func (fs *FileSystem) List(name string) ([]fileshell.Entry, error) {
	const op = "ls"
	if name == "" {
		name = "."
	}
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return nil, err
	}
	if err := fs.checkDir(op, name, p); err != nil {
		return nil, err
	}
	dirEntries, err := fs.vfs.ReadDir(p)
	if err != nil {
		return nil, wrapErr(op, name, err)
	}

	logger := util.GetLogger("FS.List")
	entries := make([]fileshell.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			logger.Debug().Err(err).Str("entry", de.Name()).Msg("Skipping entry")
			continue
		}
		e := fileshell.Entry{Name: de.Name(), IsDir: info.IsDir(), ModTime: info.ModTime()}
		if !e.IsDir {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// CreateDir creates an empty directory. Missing parents are not created.
func (fs *FileSystem) CreateDir(name string) error {
	const op = "create_dir"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return err
	}
	if err := fs.checkAbsent(op, name, p); err != nil {
		return err
	}
	if err := fs.vfs.Mkdir(p, dirPerm); err != nil {
		return wrapErr(op, name, err)
	}
	fs.logDone(op, p)
	return nil
}

// DeleteDir removes a directory and everything below it. The root and any
// directory containing the cursor cannot be removed.
func (fs *FileSystem) DeleteDir(name string) error {
	const op = "delete_dir"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return err
	}
	if err := fs.checkDir(op, name, p); err != nil {
		return err
	}
	if fs.containsCursor(p) {
		return fileshell.NewError(op, name, fileshell.ErrInUse)
	}
	if err := fs.vfs.RemoveAll(p); err != nil {
		return wrapErr(op, name, err)
	}
	fs.logDone(op, p)
	return nil
}

// CreateFile creates an empty file.
func (fs *FileSystem) CreateFile(name string) error {
	const op = "create_file"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return err
	}
	if err := fs.checkNewFile(op, name, p); err != nil {
		return err
	}
	// O_EXCL keeps an existing file untouched if one appears after the check
	f, err := fs.vfs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return wrapErr(op, name, err)
	}
	if err := f.Close(); err != nil {
		return wrapErr(op, name, err)
	}
	fs.logDone(op, p)
	return nil
}

// DeleteFile removes a single file.
func (fs *FileSystem) DeleteFile(name string) error {
	const op = "delete_file"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return err
	}
	if _, err := fs.checkFile(op, name, p); err != nil {
		return err
	}
	if err := fs.vfs.Remove(p); err != nil {
		return wrapErr(op, name, err)
	}
	fs.logDone(op, p)
	return nil
}

// WriteToFile reads r to EOF and appends the data to an existing file.
// Nothing is read from r when a check fails, and nothing is written when
// reading fails.
func (fs *FileSystem) WriteToFile(name string, r io.Reader) (int64, error) {
	const op = "write_to_file"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return 0, err
	}
	if _, err := fs.checkFile(op, name, p); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, wrapErr(op, name, err)
	}
	f, err := fs.vfs.OpenFile(p, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return 0, wrapErr(op, name, err)
	}
	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return int64(n), wrapErr(op, name, err)
	}
	logger := util.GetLogger("FS")
	logger.Debug().Str("op", op).Str("path", fs.DisplayPath(p)).Int("bytes", n).Msg("Appended to file")
	return int64(n), nil
}

// ReadFile returns the full contents of a file.
func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	const op = "read_file"
	p, err := fs.ResolveWithin(op, name)
	if err != nil {
		return nil, err
	}
	if _, err := fs.checkFile(op, name, p); err != nil {
		return nil, err
	}
	data, err := fs.vfs.ReadFile(p)
	if err != nil {
		return nil, wrapErr(op, name, err)
	}
	return data, nil
}

// CopyFile copies the bytes and permission bits of src to the new file dst.
func (fs *FileSystem) CopyFile(src, dst string) error {
	const op = "copy_file"
	sp, dp, err := fs.checkTransfer(op, src, dst)
	if err != nil {
		return err
	}
	if err := copyFile(fs.vfs, sp, dp); err != nil {
		return wrapErr(op, dst, err)
	}
	fs.logTransfer(op, sp, dp)
	return nil
}

// MoveFile relocates src to dst, copying across devices when a rename is not possible.
func (fs *FileSystem) MoveFile(src, dst string) error {
	const op = "move_file"
	sp, dp, err := fs.checkTransfer(op, src, dst)
	if err != nil {
		return err
	}
	if err := moveFile(fs.vfs, sp, dp); err != nil {
		return wrapErr(op, src, err)
	}
	fs.logTransfer(op, sp, dp)
	return nil
}

// RenameFile renames src to newName. A plain name stays in the cursor
// directory like every other relative argument. Like [FileSystem.MoveFile]
// it copies when src and newName are on different devices.
func (fs *FileSystem) RenameFile(src, newName string) error {
	const op = "rename_file"
	sp, dp, err := fs.checkTransfer(op, src, newName)
	if err != nil {
		return err
	}
	if err := moveFile(fs.vfs, sp, dp); err != nil {
		return wrapErr(op, src, err)
	}
	fs.logTransfer(op, sp, dp)
	return nil
}

// checkTransfer runs the shared source then destination checks of
// copy, move and rename and returns both resolved paths.
func (fs *FileSystem) checkTransfer(op, src, dst string) (string, string, error) {
	sp, err := fs.ResolveWithin(op, src)
	if err != nil {
		return "", "", err
	}
	if _, err := fs.checkFile(op, src, sp); err != nil {
		return "", "", err
	}
	dp, err := fs.ResolveWithin(op, dst)
	if err != nil {
		return "", "", err
	}
	if err := fs.checkNewFile(op, dst, dp); err != nil {
		return "", "", err
	}
	return sp, dp, nil
}

func (fs *FileSystem) logDone(op, p string) {
	logger := util.GetLogger("FS")
	logger.Debug().Str("op", op).Str("path", fs.DisplayPath(p)).Msg("Operation complete")
}

func (fs *FileSystem) logTransfer(op, src, dst string) {
	logger := util.GetLogger("FS")
	logger.Debug().Str("op", op).Str("src", fs.DisplayPath(src)).Str("dst", fs.DisplayPath(dst)).Msg("Operation complete")
}
