package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/farcloser/primordium/fault"
)

// Command describes one external process invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env entries are added to the inherited environment.
	Env []string
	// Timeout of zero means no deadline.
	Timeout time.Duration
	// KillGrace is how long a timed out process group gets between SIGTERM
	// and SIGKILL. Zero means SIGKILL follows immediately.
	KillGrace time.Duration
}

// Result is the typed outcome of Run. Err is nil only when the process
// exited with status 0 within its deadline.
type Result struct {
	Path     string
	Args     []string
	Dir      string
	Started  time.Time
	Stopped  time.Time
	Duration time.Duration
	Stdout   *bytes.Buffer
	Stderr   *bytes.Buffer
	ExitCode int
	// MaxRSSKB is the peak resident set size of the reaped leader process as
	// reported by the kernel.
	MaxRSSKB int64
	TimedOut bool
	Err      error
}

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// Run starts proto as the leader of a new process group and waits for it.
// On deadline the whole group is sent SIGTERM, then SIGKILL after KillGrace.
// Once the leader is reaped the group is sent SIGKILL whatever the outcome,
// so no descendant survives the command. Run never panics on
// process failures, all of them are reported through Result.
func Run(ctx context.Context, proto Command) Result {
	res := Result{
		Path:     proto.Path,
		Args:     append([]string(nil), proto.Args...),
		Dir:      proto.Dir,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		ExitCode: -1,
	}

	path, found := Available(proto.Path)
	if !found {
		res.Err = fmt.Errorf("%w: %s", fault.ErrMissingRequirements, proto.Path)
		return res
	}

	if proto.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, proto.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, proto.Args...)
	cmd.Dir = proto.Dir
	if len(proto.Env) > 0 {
		cmd.Env = append(os.Environ(), proto.Env...)
	}
	cmd.Stdout = res.Stdout
	cmd.Stderr = res.Stderr
	setProcessGroup(cmd)

	var (
		canceled atomic.Bool
		escalate atomic.Pointer[time.Timer]
	)
	cmd.Cancel = func() error {
		canceled.Store(true)
		escalate.Store(time.AfterFunc(proto.KillGrace, func() {
			_ = signalProcessGroup(cmd, syscall.SIGKILL)
		}))
		return signalProcessGroup(cmd, syscall.SIGTERM)
	}
	// bounds the wait for pipes kept open by orphaned descendants
	cmd.WaitDelay = proto.KillGrace + time.Second

	res.Started = time.Now().UTC()
	err := cmd.Start()
	if err != nil {
		res.Stopped = time.Now().UTC()
		res.Err = fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, proto.Path, err)
		return res
	}

	err = cmd.Wait()
	res.Stopped = time.Now().UTC()
	res.Duration = res.Stopped.Sub(res.Started)
	if t := escalate.Load(); t != nil {
		t.Stop()
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
		res.MaxRSSKB = maxRSSKB(cmd.ProcessState)
	}

	// the leader is reaped, make sure nothing of its group outlives it
	_ = signalProcessGroup(cmd, syscall.SIGKILL)

	switch {
	case canceled.Load() && errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Err = fmt.Errorf("%w: %s after %v", fault.ErrTimeout, proto.Path, proto.Timeout)
	case canceled.Load():
		res.Err = fmt.Errorf("%s: %w", proto.Path, ctx.Err())
	case errors.Is(err, exec.ErrWaitDelay) && res.ExitCode == 0:
		// exited cleanly, a descendant kept the output pipes open
	case err != nil:
		res.Err = fmt.Errorf("%w: %s: exit code %d: %w", fault.ErrCommandFailure, proto.Path, res.ExitCode, err)
	}
	return res
}
