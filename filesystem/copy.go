package filesystem

import (
	"errors"
	"hash/fnv"
	"io/fs"
	"os"
	"syscall"

	"github.com/avfs/avfs"
	"github.com/brettbedarf/fileshell/internal/util"
)

var errIncompleteCopy = errors.New("incomplete copy")

// copyFile copies src to the not yet existing dst, keeping the permission bits.
// A partially written dst is removed on failure.
func copyFile(vfs avfs.VFS, src, dst string) error {
	// CopyFileHash only returns a sum once every step succeeded, and its
	// error can be lost when closing dst succeeds.
	sum, err := avfs.CopyFileHash(vfs, vfs, dst, src, fnv.New64a())
	if err == nil && sum == nil {
		err = errIncompleteCopy
	}
	if err == nil {
		return nil
	}
	if rerr := vfs.Remove(dst); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		logger := util.GetLogger("FS")
		logger.Warn().Err(rerr).Str("path", dst).Msg("Failed to remove partial copy")
	}
	return err
}

// moveFile renames src to dst and falls back to copy then remove when they
// live on different devices.
func moveFile(vfs avfs.VFS, src, dst string) error {
	err := vfs.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(vfs, src, dst); err != nil {
		return err
	}
	return vfs.Remove(src)
}
