package stdio_handler

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// SentinelExitStatus is reported when the child did not exit normally (e.g. it was killed by a signal)
const SentinelExitStatus = 0

// backgroundReapGracePeriod is how long a background reap waits after SIGTERM before sending SIGKILL
const backgroundReapGracePeriod = 2 * time.Second

// ExitStatus is the outcome of a reaped child
type ExitStatus struct {
	// Code is the exit code, or SentinelExitStatus if the child did not exit normally
	Code int

	// Exited is true if the child called exit
	Exited bool

	// Signal is the terminating signal when the child was killed
	Signal unix.Signal
}

func (s ExitStatus) String() string {
	if s.Exited {
		return fmt.Sprintf("exited with code %d", s.Code)
	}
	if s.Signal != 0 {
		return fmt.Sprintf("terminated by signal %s", unix.SignalName(s.Signal))
	}
	return "terminated abnormally"
}

func exitStatusFromWaitStatus(ws unix.WaitStatus) ExitStatus {
	switch {
	case ws.Exited():
		return ExitStatus{Code: ws.ExitStatus(), Exited: true}
	case ws.Signaled():
		return ExitStatus{Code: SentinelExitStatus, Signal: ws.Signal()}
	default:
		return ExitStatus{Code: SentinelExitStatus}
	}
}

// Child is a started process together with the parent's ends of its standard streams
type Child struct {
	Path string
	Argv []string
	Dir  string

	Stdin  *Endpoint
	Stdout *Endpoint
	Stderr *Endpoint

	process  *os.Process
	pid      int
	reaped   bool
	released bool
}

// Start runs path with argv in dir, its standard streams connected through handler.
//
// The child's ends are closed in the parent once the process has started. On
// any failure every stream the handler created is closed and no process is left running.
func Start(handler StdioHandler, path string, argv []string, dir string) (*Child, error) {
	if err := handler.SetupStreams(); err != nil {
		return nil, fmt.Errorf("failed to create pipes: %w", err)
	}

	process, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir:   dir,
		Files: handler.GetChildStreams(),
		Sys:   handler.SysProcAttr(),
	})

	// The child has its own copies of these ends
	handler.CloseChildStreams()

	if err != nil {
		handler.CloseParentStreams()
		return nil, fmt.Errorf("failed to create process: %w", err)
	}

	child := &Child{
		Path:    path,
		Argv:    append([]string(nil), argv...),
		Dir:     dir,
		process: process,
		pid:     process.Pid,
	}

	stdin, stdout, stderr := handler.GetParentStreams()

	if child.Stdin, err = newEndpoint("stdin", stdin); err == nil {
		if child.Stdout, err = newEndpoint("stdout", stdout); err == nil {
			child.Stderr, err = newEndpoint("stderr", stderr)
		}
	}

	if err != nil {
		handler.CloseParentStreams()
		child.Terminate()
		child.ReapInBackground()
		return nil, err
	}

	return child, nil
}

func (c *Child) Pid() int {
	return c.pid
}

// TryReap checks, without blocking, whether the child has terminated.
// If it has, its exit status is consumed and returned with ok set.
func (c *Child) TryReap() (status ExitStatus, ok bool, err error) {
	if c.reaped {
		return ExitStatus{}, false, errors.New("child already reaped")
	}

	var ws unix.WaitStatus

	for {
		pid, err := unix.Wait4(c.pid, &ws, unix.WNOHANG, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return ExitStatus{}, false, fmt.Errorf("wait4(%d): %w", c.pid, err)
		}
		if pid == 0 {
			return ExitStatus{}, false, nil
		}

		c.reaped = true
		return exitStatusFromWaitStatus(ws), true, nil
	}
}

// MarkReaped records that the child can no longer be waited for, e.g. after wait4 failed.
func (c *Child) MarkReaped() {
	c.reaped = true
}

// Terminate sends SIGTERM to the child and its process group.
// It is a no-op once the child has been reaped, since its pid may have been reused.
func (c *Child) Terminate() error {
	return c.signal(unix.SIGTERM)
}

func (c *Child) signal(sig unix.Signal) error {
	if c.reaped {
		return nil
	}

	err := unix.Kill(c.pid, sig)
	_ = unix.Kill(-c.pid, sig) // Kill the whole process group

	if errors.Is(err, unix.ESRCH) {
		return nil
	}

	return err
}

// CloseStreams closes the parent's three endpoints. Safe to call repeatedly.
func (c *Child) CloseStreams() error {
	return closeAllWithCloserFunc(closeIfNotNil, c.Stdin, c.Stdout, c.Stderr)
}

// Release frees the OS process handle. Safe to call repeatedly.
func (c *Child) Release() error {
	if c.released {
		return nil
	}

	c.released = true
	return c.process.Release()
}

// ReapInBackground waits for the child in a separate goroutine so it does not
// linger as a zombie, escalating to SIGKILL if it survives the grace period.
// The handle is released once the child is gone.
func (c *Child) ReapInBackground() {
	if c.reaped {
		c.Release()
		return
	}

	pid := c.pid
	process := c.process
	c.reaped = true
	c.released = true

	go func() {
		defer process.Release()

		var ws unix.WaitStatus
		deadline := time.Now().Add(backgroundReapGracePeriod)

		for time.Now().Before(deadline) {
			reapedPid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
			if reapedPid == pid || (err != nil && !errors.Is(err, unix.EINTR)) {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}

		unix.Kill(pid, unix.SIGKILL)
		unix.Kill(-pid, unix.SIGKILL)

		for {
			_, err := unix.Wait4(pid, &ws, 0, nil)
			if !errors.Is(err, unix.EINTR) {
				return
			}
		}
	}()
}
