package shell

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/brettbedarf/fileshell"
)

// ExitCommand ends the session. It is handled by the [Dispatcher] itself and
// is not part of the [Registry].
const ExitCommand = "exit"

// clearScreen moves the cursor home and erases the terminal
const clearScreen = "\033[H\033[2J"

const listTimeFormat = "2006-01-02 15:04:05"

// Env is everything a command may touch while it runs
type Env struct {
	WS  fileshell.Workspace
	In  io.Reader // text stream for commands that read input beyond the command line
	Out io.Writer
}

// Command is one entry of the [Registry]
type Command struct {
	Name    string
	Usage   string
	Summary string
	MinArgs int
	MaxArgs int
	Run     func(env *Env, args []string) error
}

// Registry is the closed set of commands the shell can run. It is built once
// by [NewRegistry] and cannot be extended afterwards.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns the registry of built-in commands.
func NewRegistry() *Registry {
	r := &Registry{cmds: make(map[string]*Command)}
	for _, c := range []*Command{
		{
			Name: "create_dir", Usage: "create_dir <name>", Summary: "Create an empty directory.",
			MinArgs: 1, MaxArgs: 1, Run: runCreateDir,
		},
		{
			Name: "delete_dir", Usage: "delete_dir <name>", Summary: "Delete a directory and its contents.",
			MinArgs: 1, MaxArgs: 1, Run: runDeleteDir,
		},
		{
			Name: "cd", Usage: "cd <name>", Summary: "Change the current directory.",
			MinArgs: 1, MaxArgs: 1, Run: runCd,
		},
		{
			Name: "create_file", Usage: "create_file <name>", Summary: "Create an empty file.",
			MinArgs: 1, MaxArgs: 1, Run: runCreateFile,
		},
		{
			Name: "write_to_file", Usage: "write_to_file <name>", Summary: "Append text read until end of input (Ctrl-D).",
			MinArgs: 1, MaxArgs: 1, Run: runWriteToFile,
		},
		{
			Name: "read_file", Usage: "read_file <name>", Summary: "Print the contents of a file.",
			MinArgs: 1, MaxArgs: 1, Run: runReadFile,
		},
		{
			Name: "delete_file", Usage: "delete_file <name>", Summary: "Delete a file.",
			MinArgs: 1, MaxArgs: 1, Run: runDeleteFile,
		},
		{
			Name: "copy_file", Usage: "copy_file <src> <dst>", Summary: "Copy a file to a new path.",
			MinArgs: 2, MaxArgs: 2, Run: runCopyFile,
		},
		{
			Name: "move_file", Usage: "move_file <src> <dst>", Summary: "Move a file to a new path.",
			MinArgs: 2, MaxArgs: 2, Run: runMoveFile,
		},
		{
			Name: "rename_file", Usage: "rename_file <src> <new_name>", Summary: "Rename a file.",
			MinArgs: 2, MaxArgs: 2, Run: runRenameFile,
		},
		{
			Name: "ls", Usage: "ls [dir]", Summary: "List a directory, the current one by default.",
			MinArgs: 0, MaxArgs: 1, Run: runList,
		},
		{
			Name: "pwd", Usage: "pwd", Summary: "Print the current directory.",
			Run: runPwd,
		},
		{
			Name: "clear", Usage: "clear", Summary: "Clear the screen.",
			Run: runClear,
		},
	} {
		r.cmds[c.Name] = c
	}
	r.cmds["help"] = &Command{
		Name: "help", Usage: "help", Summary: "Show available commands.",
		Run: r.runHelp,
	}
	return r
}

// Lookup returns the command registered under name
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Commands returns every registered command sorted by name
func (r *Registry) Commands() []*Command {
	cmds := make([]*Command, 0, len(r.cmds))
	for _, c := range r.cmds {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

func runCreateDir(env *Env, args []string) error {
	if err := env.WS.CreateDir(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Directory '%s' created\n", args[0])
	return nil
}

func runDeleteDir(env *Env, args []string) error {
	if err := env.WS.DeleteDir(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Directory '%s' deleted\n", args[0])
	return nil
}

func runCd(env *Env, args []string) error {
	return env.WS.ChangeDirectory(args[0])
}

func runCreateFile(env *Env, args []string) error {
	if err := env.WS.CreateFile(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "File '%s' created\n", args[0])
	return nil
}

func runWriteToFile(env *Env, args []string) error {
	in := &hintReader{r: env.In, out: env.Out, hint: "Enter text, finish with Ctrl-D:\n"}
	n, err := env.WS.WriteToFile(args[0], in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Appended %d bytes to '%s'\n", n, args[0])
	return nil
}

func runReadFile(env *Env, args []string) error {
	data, err := env.WS.ReadFile(args[0])
	if err != nil {
		return err
	}
	env.Out.Write(data) // nolint:errcheck
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(env.Out)
	}
	return nil
}

func runDeleteFile(env *Env, args []string) error {
	if err := env.WS.DeleteFile(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "File '%s' deleted\n", args[0])
	return nil
}

func runCopyFile(env *Env, args []string) error {
	if err := env.WS.CopyFile(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "File '%s' copied to '%s'\n", args[0], args[1])
	return nil
}

func runMoveFile(env *Env, args []string) error {
	if err := env.WS.MoveFile(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "File '%s' moved to '%s'\n", args[0], args[1])
	return nil
}

func runRenameFile(env *Env, args []string) error {
	if err := env.WS.RenameFile(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "File '%s' renamed to '%s'\n", args[0], args[1])
	return nil
}

func runList(env *Env, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	entries, err := env.WS.List(name)
	if err != nil {
		return err
	}
	return WriteListing(env.Out, entries)
}

// WriteListing prints entries as a name/size/modified table. Directories have no size.
func WriteListing(out io.Writer, entries []fileshell.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tSize\tModified")
	for _, e := range entries {
		size := "-"
		name := e.Name
		if e.IsDir {
			name += "/"
		} else {
			size = fmt.Sprint(e.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, size, e.ModTime.Format(listTimeFormat))
	}
	return tw.Flush()
}

func runPwd(env *Env, _ []string) error {
	fmt.Fprintln(env.Out, env.WS.DisplayPath(env.WS.Cwd()))
	return nil
}

func runClear(env *Env, _ []string) error {
	fmt.Fprint(env.Out, clearScreen)
	return nil
}

func (r *Registry) runHelp(env *Env, _ []string) error {
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	for _, c := range r.Commands() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Usage, c.Summary)
	}
	fmt.Fprintf(tw, "%s\t%s\n", ExitCommand, "Leave the shell.")
	return tw.Flush()
}

// hintReader prints hint to out right before the first read so the prompt
// for text only appears once the target file passed its checks.
type hintReader struct {
	r      io.Reader
	out    io.Writer
	hint   string
	hinted bool
}

func (h *hintReader) Read(p []byte) (int, error) {
	if !h.hinted {
		h.hinted = true
		fmt.Fprint(h.out, h.hint)
	}
	return h.r.Read(p)
}
