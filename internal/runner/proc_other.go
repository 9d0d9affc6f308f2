//go:build !unix

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup is a no-op on non-Unix platforms.
func setProcessGroup(_ *exec.Cmd) {}

// signalProcessGroup kills the process directly on non-Unix platforms.
func signalProcessGroup(cmd *exec.Cmd, _ syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func maxRSSKB(_ *os.ProcessState) int64 {
	return 0
}
