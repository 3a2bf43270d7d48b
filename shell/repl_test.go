package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/brettbedarf/fileshell/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestShell creates a Shell over <tmp>/sandbox; <tmp>/etc exists next to it
func newTestShell(t *testing.T) (*Shell, *filesystem.FileSystem) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "sandbox")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "etc"), 0o755))

	fs, err := filesystem.NewFS(root)
	require.NoError(t, err)
	return New(fs, "test"), fs
}

func runScript(t *testing.T, sh *Shell, script string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, NewREPL(sh, strings.NewReader(script), &out).Run(context.Background()))
	return out.String()
}

func TestShell_Prompt(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)
	assert.Equal(t, "test:/> ", sh.Prompt())

	require.NoError(t, fs.CreateDir("sub"))
	require.NoError(t, fs.ChangeDirectory("sub"))
	assert.Equal(t, "test:/sub> ", sh.Prompt())
}

// TestREPL_Scenario walks the documented session: create and enter a
// directory, write and read a file, then fail to escape the sandbox.
func TestREPL_Scenario(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)

	out := runScript(t, sh, "create_dir sub\ncd sub\ncreate_file a.txt\nexit\n")
	assert.Contains(t, out, "Directory 'sub' created")
	assert.Contains(t, out, "File 'a.txt' created")
	assert.Equal(t, filepath.Join(fs.Root(), "sub"), fs.Cwd())

	// write_to_file consumes the rest of the input
	out = runScript(t, sh, "write_to_file a.txt\nhi")
	assert.Contains(t, out, "Appended 2 bytes to 'a.txt'")

	out = runScript(t, sh, "read_file a.txt\ncd ../../etc\npwd\n")
	assert.Contains(t, out, "test:/sub> hi\n")
	assert.Contains(t, out, "****** Error: cd '../../etc': path escapes the working directory ******")
	assert.Contains(t, out, "test:/sub> /sub\n", "cursor must be unchanged")
	assert.Equal(t, filepath.Join(fs.Root(), "sub"), fs.Cwd())
}

func TestREPL_CopyThenRead(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)
	runScript(t, sh, "create_file A\nwrite_to_file A\nold")
	runScript(t, sh, "write_to_file A\n-new")

	out := runScript(t, sh, "copy_file A B\nread_file B\nread_file A\n")

	assert.Equal(t, 2, strings.Count(out, "old-new\n"), "copy matches the source and the source is unchanged")
	data, err := fs.ReadFile("B")
	require.NoError(t, err)
	assert.Equal(t, "old-new", string(data))
}

func TestREPL_RenameThenRead(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)
	runScript(t, sh, "create_file A\nwrite_to_file A\ncontent")

	out := runScript(t, sh, "rename_file A B\nread_file A\nread_file B\n")

	assert.Contains(t, out, "****** Error: read_file 'A': no such file or directory ******")
	assert.Contains(t, out, "content\n")
}

func TestREPL_ErrorsKeepRunning(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)

	out := runScript(t, sh, "frobnicate\n\ncopy_file a\ncreate_file x\n")

	assert.Contains(t, out, "****** Error: frobnicate: unknown command ******")
	assert.Contains(t, out, "****** Error: copy_file: wrong number of arguments (usage: copy_file <src> <dst>) ******")
	assert.FileExists(t, filepath.Join(fs.Root(), "x"), "commands after errors still run")
}

func TestREPL_ExitStopsReading(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)

	runScript(t, sh, "exit\ncreate_file x\n")

	assert.NoFileExists(t, filepath.Join(fs.Root(), "x"))
}

func TestREPL_EndOfInput(t *testing.T) {
	t.Parallel()

	sh, fs := newTestShell(t)

	// last line has no newline but still runs
	out := runScript(t, sh, "create_file x")

	assert.FileExists(t, filepath.Join(fs.Root(), "x"))
	assert.True(t, strings.HasSuffix(out, "test:/> \n"), "final prompt is closed with a newline, got %q", out)
}

func TestREPL_ReadError(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)
	readErr := errors.New("tty gone")
	in := io.MultiReader(strings.NewReader("pwd\n"), iotest.ErrReader(readErr))

	err := NewREPL(sh, in, io.Discard).Run(context.Background())

	assert.ErrorIs(t, err, readErr)
}

// cancelAfterExec cancels its context once the first line has run
type cancelAfterExec struct {
	*Shell
	cancel context.CancelFunc
}

func (c cancelAfterExec) Exec(line string, in io.Reader, out io.Writer) (State, error) {
	defer c.cancel()
	return c.Shell.Exec(line, in, out)
}

func TestREPL_ContextCanceled(t *testing.T) {
	t.Parallel()

	t.Run("before start", func(t *testing.T) {
		t.Parallel()
		sh, fs := newTestShell(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		in := strings.NewReader("create_file x\n")
		var out bytes.Buffer

		err := NewREPL(sh, in, &out).Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, out.String(), "no prompt after cancellation")
		assert.NoFileExists(t, filepath.Join(fs.Root(), "x"))
	})

	t.Run("between commands", func(t *testing.T) {
		t.Parallel()
		sh, fs := newTestShell(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := NewREPL(cancelAfterExec{sh, cancel}, strings.NewReader("create_file x\ncreate_file y\n"), io.Discard).Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.FileExists(t, filepath.Join(fs.Root(), "x"))
		assert.NoFileExists(t, filepath.Join(fs.Root(), "y"), "no command runs after cancellation")
	})
}
