package depletion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrNoCommand is returned when a runner is given an empty command line.
var ErrNoCommand = errors.New("empty solver command")

// Runner invokes the transport solver in a directory of input files.
type Runner interface {
	Run(ctx context.Context, dir string, command []string) error
}

// LogFile is the name of the solver output file in a step directory.
const LogFile = "solver.log"

// ExecRunner runs the solver as a child process. Output goes to Stdout and
// Stderr, or to LogFile in the step directory when they are nil.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Run implements Runner. Cancelling ctx kills the process.
func (r ExecRunner) Run(ctx context.Context, dir string, command []string) error {
	if len(command) == 0 || command[0] == "" {
		return ErrNoCommand
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = r.Stdout, r.Stderr
	if cmd.Stdout == nil || cmd.Stderr == nil {
		f, err := os.Create(filepath.Join(dir, LogFile))
		if err != nil {
			return fmt.Errorf("solver log: %w", err)
		}
		defer f.Close()
		if cmd.Stdout == nil {
			cmd.Stdout = f
		}
		if cmd.Stderr == nil {
			cmd.Stderr = f
		}
	}

	logger.Debug("Starting solver", zap.Strings("command", command), zap.String("dir", dir))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", command[0], err)
	}
	return nil
}
