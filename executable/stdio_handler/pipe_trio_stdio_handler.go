package stdio_handler

import (
	"os"
	"syscall"
)

// PipeTrioStdioHandler connects each standard stream through its own pipe
type PipeTrioStdioHandler struct {
	stdinRead, stdinWrite   *os.File
	stdoutRead, stdoutWrite *os.File
	stderrRead, stderrWrite *os.File
}

func (h *PipeTrioStdioHandler) SetupStreams() error {
	var err error

	if h.stdinRead, h.stdinWrite, err = os.Pipe(); err != nil {
		return err
	}

	if h.stdoutRead, h.stdoutWrite, err = os.Pipe(); err != nil {
		h.closeAll()
		return err
	}

	if h.stderrRead, h.stderrWrite, err = os.Pipe(); err != nil {
		h.closeAll()
		return err
	}

	return nil
}

func (h *PipeTrioStdioHandler) GetChildStreams() []*os.File {
	return []*os.File{h.stdinRead, h.stdoutWrite, h.stderrWrite}
}

func (h *PipeTrioStdioHandler) GetParentStreams() (stdin, stdout, stderr *os.File) {
	return h.stdinWrite, h.stdoutRead, h.stderrRead
}

func (h *PipeTrioStdioHandler) CloseChildStreams() error {
	return closeAllWithCloserFunc(closeIfOpen, h.stdinRead, h.stdoutWrite, h.stderrWrite)
}

func (h *PipeTrioStdioHandler) CloseParentStreams() error {
	return closeAllWithCloserFunc(closeIfOpen, h.stdinWrite, h.stdoutRead, h.stderrRead)
}

func (h *PipeTrioStdioHandler) SysProcAttr() *syscall.SysProcAttr {
	// New process group, so termination reaches the child's own children too
	return &syscall.SysProcAttr{Setpgid: true}
}

func (h *PipeTrioStdioHandler) Name() string {
	return "pipe"
}

func (h *PipeTrioStdioHandler) Clone() StdioHandler {
	return &PipeTrioStdioHandler{}
}

// closeAll closes both ends of every pipe created so far
func (h *PipeTrioStdioHandler) closeAll() error {
	var firstError error

	// best effort
	if closeParentError := h.CloseParentStreams(); closeParentError != nil {
		firstError = closeParentError
	}

	if closeChildError := h.CloseChildStreams(); closeChildError != nil && firstError == nil {
		firstError = closeChildError
	}

	return firstError
}
