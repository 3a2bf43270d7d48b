package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/brettbedarf/fileshell/internal/util"
)

// Executor runs single command lines for a [REPL]
type Executor interface {
	Exec(line string, in io.Reader, out io.Writer) (State, error)
	Prompt() string
}

// REPL reads command lines from one input, runs them and prints the outcome.
// Commands that consume text (write_to_file) read from the same input, so on a
// terminal the user can end the text with Ctrl-D and keep going.
type REPL struct {
	exec Executor
	in   *bufio.Reader
	out  io.Writer
}

// NewREPL creates a REPL reading from in and writing to out
func NewREPL(exec Executor, in io.Reader, out io.Writer) *REPL {
	return &REPL{exec: exec, in: bufio.NewReader(in), out: out}
}

// Run loops until "exit", the end of input or the cancellation of ctx, which
// is checked before every prompt. Command failures are printed and never end
// the loop; only a failure to read input or ctx's error is returned.
func (r *REPL) Run(ctx context.Context) error {
	logger := util.GetLogger("REPL")
	for {
		if err := ctx.Err(); err != nil {
			logger.Debug().Err(err).Msg("Context done")
			return err
		}
		fmt.Fprint(r.out, r.exec.Prompt())
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if err != nil && line == "" {
			fmt.Fprintln(r.out)
			logger.Debug().Msg("End of input")
			return nil
		}

		state, err := r.exec.Exec(line, r.in, r.out)
		if err != nil {
			PrintError(r.out, err)
		}
		if state == Terminated {
			return nil
		}
	}
}

// PrintError writes err as a single highlighted line
func PrintError(out io.Writer, err error) {
	fmt.Fprintf(out, "****** Error: %s ******\n", err)
}
