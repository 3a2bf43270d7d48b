// Package shell turns lines of user input into sandboxed workspace operations.
package shell

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/fileshell"
	"github.com/brettbedarf/fileshell/internal/util"
)

// State of the read-eval-print loop
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Parse splits a line into a command name and its positional arguments.
// An empty or blank line yields an empty name.
func Parse(line string) (name string, args []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Dispatcher maps command lines onto the commands of a [Registry]
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a Dispatcher over the built-in registry
func NewDispatcher() *Dispatcher {
	return &Dispatcher{registry: NewRegistry()}
}

// Registry returns the commands this dispatcher can run
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch runs one line against env and returns the next state.
//
//   - blank line: no-op, Running
//   - "exit": Terminated
//   - registered name: runs the command; a wrong argument count is reported as
//     [fileshell.ErrMalformedInvocation] without running it
//   - anything else: [fileshell.ErrUnknownCommand]
//
// Every error leaves the state Running.
func (d *Dispatcher) Dispatch(env *Env, line string) (State, error) {
	logger := util.GetLogger("Dispatcher")

	name, args := Parse(line)
	if name == "" {
		return Running, nil
	}
	if name == ExitCommand {
		logger.Debug().Msg("Exit requested")
		return Terminated, nil
	}

	cmd, ok := d.registry.Lookup(name)
	if !ok {
		logger.Debug().Str("cmd", name).Msg("Unknown command")
		return Running, fileshell.NewError(name, "", fileshell.ErrUnknownCommand)
	}
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		logger.Debug().Str("cmd", name).Int("args", len(args)).Msg("Malformed invocation")
		return Running, fileshell.NewError(name, "",
			fmt.Errorf("%w (usage: %s)", fileshell.ErrMalformedInvocation, cmd.Usage))
	}

	if env.In == nil {
		env.In = strings.NewReader("")
	}
	logger.Trace().Str("cmd", name).Strs("args", args).Msg("Dispatching")
	if err := cmd.Run(env, args); err != nil {
		logger.Debug().Err(err).Str("cmd", name).Msg("Command failed")
		return Running, err
	}
	return Running, nil
}
