package shell

import (
	"fmt"
	"io"

	"github.com/brettbedarf/fileshell"
)

// Shell binds a [Dispatcher] to one workspace. It implements [Executor].
type Shell struct {
	ws         fileshell.Workspace
	dispatcher *Dispatcher
	promptName string
}

// New creates a Shell running commands against ws.
func New(ws fileshell.Workspace, promptName string) *Shell {
	return &Shell{ws: ws, dispatcher: NewDispatcher(), promptName: promptName}
}

// Exec dispatches one line, reading any extra text from in and writing output to out
func (s *Shell) Exec(line string, in io.Reader, out io.Writer) (State, error) {
	return s.dispatcher.Dispatch(&Env{WS: s.ws, In: in, Out: out}, line)
}

// Prompt renders "<name>:<display path>> " for the current directory
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s:%s> ", s.promptName, s.ws.DisplayPath(s.ws.Cwd()))
}
