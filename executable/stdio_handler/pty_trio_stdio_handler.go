package stdio_handler

import (
	"os"
	"syscall"

	"github.com/creack/pty"
)

// PtyTrioStdioHandler connects each standard stream through its own PTY pair.
// The child sees a terminal on all three streams while stdout and stderr stay separate.
type PtyTrioStdioHandler struct {
	stdinMaster, stdinSlave   *os.File
	stdoutMaster, stdoutSlave *os.File
	stderrMaster, stderrSlave *os.File
}

// SetupStreams attempts to open all three PTY pairs.
// Returns an error if any PTY fails to open, and cleans up any successfully opened PTYs.
func (h *PtyTrioStdioHandler) SetupStreams() error {
	var err error

	if h.stdinMaster, h.stdinSlave, err = pty.Open(); err != nil {
		return err
	}

	if h.stdoutMaster, h.stdoutSlave, err = pty.Open(); err != nil {
		h.closeAll()
		return err
	}

	if h.stderrMaster, h.stderrSlave, err = pty.Open(); err != nil {
		h.closeAll()
		return err
	}

	return nil
}

func (h *PtyTrioStdioHandler) GetChildStreams() []*os.File {
	return []*os.File{h.stdinSlave, h.stdoutSlave, h.stderrSlave}
}

func (h *PtyTrioStdioHandler) GetParentStreams() (stdin, stdout, stderr *os.File) {
	return h.stdinMaster, h.stdoutMaster, h.stderrMaster
}

// CloseChildStreams closes the slave ends - the child process now owns them
func (h *PtyTrioStdioHandler) CloseChildStreams() error {
	return closeAllWithCloserFunc(closeIfOpen, h.stdinSlave, h.stdoutSlave, h.stderrSlave)
}

func (h *PtyTrioStdioHandler) CloseParentStreams() error {
	return closeAllWithCloserFunc(closeIfOpen, h.stdinMaster, h.stdoutMaster, h.stderrMaster)
}

func (h *PtyTrioStdioHandler) SysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func (h *PtyTrioStdioHandler) Name() string {
	return "pty"
}

func (h *PtyTrioStdioHandler) Clone() StdioHandler {
	return &PtyTrioStdioHandler{}
}

// closeAll closes all PTY file descriptors opened so far.
func (h *PtyTrioStdioHandler) closeAll() error {
	var firstError error

	if closeMasterError := h.CloseParentStreams(); closeMasterError != nil {
		firstError = closeMasterError
	}

	if closeSlaveError := h.CloseChildStreams(); closeSlaveError != nil && firstError == nil {
		firstError = closeSlaveError
	}

	return firstError
}
