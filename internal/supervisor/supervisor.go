// Package supervisor consumes a resolved launch plan and owns the lifecycle
// of the processes it describes: executable lookup, parameter file
// materialization, startup, and teardown on first failure or cancellation.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/spotstack/launchgo/internal/ctxlog"
	"github.com/spotstack/launchgo/internal/index"
	"github.com/spotstack/launchgo/internal/launch"
	"github.com/spotstack/launchgo/internal/params"
)

// Supervisor starts and monitors the processes of a resolved plan.
type Supervisor struct {
	idx  *index.Index
	outW io.Writer
}

// New creates a supervisor that locates executables through the given index
// and streams "screen" output to outW.
func New(idx *index.Index, outW io.Writer) *Supervisor {
	return &Supervisor{idx: idx, outW: outW}
}

// Run starts every process in the plan and blocks until all of them exit.
// The first failure cancels the remaining processes; context cancellation
// stops all of them with an interrupt before the kill deadline.
func (s *Supervisor) Run(ctx context.Context, plan *launch.Plan) error {
	logger := ctxlog.FromContext(ctx).With("run_id", uuid.NewString()[:8])
	ctx = ctxlog.WithLogger(ctx, logger)

	processes := plan.AllProcesses()
	if len(processes) == 0 {
		logger.Warn("Plan contains no processes, nothing to supervise.")
		return nil
	}

	paramsDir, err := os.MkdirTemp("", "launchgo-params-*")
	if err != nil {
		return fmt.Errorf("creating parameters directory: %w", err)
	}
	defer os.RemoveAll(paramsDir)

	cmds := make([]*exec.Cmd, 0, len(processes))
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	for i, process := range processes {
		cmd, err := s.buildCommand(runCtx, process, paramsDir, i)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	var wg sync.WaitGroup
	for i, cmd := range cmds {
		cmd := cmd
		process := processes[i]
		if err := cmd.Start(); err != nil {
			cancel(fmt.Errorf("starting %s/%s: %w", process.Package, process.Executable, err))
			break
		}
		logger.Info("Process started.", "package", process.Package, "executable", process.Executable, "pid", cmd.Process.Pid)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := cmd.Wait(); err != nil && runCtx.Err() == nil {
				cancel(fmt.Errorf("process %s/%s failed: %w", process.Package, process.Executable, err))
				return
			}
			logger.Info("Process exited.", "package", process.Package, "executable", process.Executable)
		}()
	}

	wg.Wait()

	cause := context.Cause(runCtx)
	if cause == nil || errors.Is(cause, context.Canceled) {
		return nil
	}
	if ctx.Err() != nil {
		// Outer cancellation (a signal) is a normal shutdown.
		return nil
	}
	return cause
}

// buildCommand turns one resolved process record into a ready-to-start
// command. In-memory parameter sets are written to generated files; file
// parameters are passed through with their resolved path untouched.
func (s *Supervisor) buildCommand(ctx context.Context, process *launch.Process, paramsDir string, ordinal int) (*exec.Cmd, error) {
	path, err := s.locate(process)
	if err != nil {
		return nil, err
	}

	args := []string{"--ros-args"}
	if process.Name != "" {
		args = append(args, "-r", "__node:="+process.Name)
	}
	for j, parameter := range process.Parameters {
		file := parameter.File
		if parameter.Values != nil {
			file = filepath.Join(paramsDir, fmt.Sprintf("%s_%d_%d.yaml", process.Executable, ordinal, j))
			if err := params.Write(file, process.Name, parameter.Values); err != nil {
				return nil, fmt.Errorf("writing parameters for %s/%s: %w", process.Package, process.Executable, err)
			}
		}
		args = append(args, "--params-file", file)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGINT)
	}
	cmd.WaitDelay = 10 * time.Second
	if process.Output == "screen" {
		cmd.Stdout = s.outW
		cmd.Stderr = s.outW
	} else {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}
	return cmd, nil
}

// locate finds the process executable: the install tree first, then PATH.
func (s *Supervisor) locate(process *launch.Process) (string, error) {
	path, err := s.idx.Executable(process.Package, process.Executable)
	if err == nil {
		return path, nil
	}
	var notFound *index.PackageNotFoundError
	if errors.As(err, &notFound) {
		if path, lookErr := exec.LookPath(process.Executable); lookErr == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("locating executable for %s/%s: %w", process.Package, process.Executable, err)
}
