package stdio_handler

import (
	"os"
	"syscall"
)

// StdioHandler creates the three stream pairs connecting a child to its parent.
//
// Lifecycle for one spawn: SetupStreams, start the process with
// GetChildStreams, CloseChildStreams, then hand GetParentStreams to the
// caller. CloseParentStreams is only needed when the start fails.
type StdioHandler interface {
	// SetupStreams creates all three pairs. On error, every pair already created is closed.
	SetupStreams() error

	// GetChildStreams returns the child's ends in stdin, stdout, stderr order
	GetChildStreams() []*os.File

	// GetParentStreams returns the parent's ends: stdin (write), stdout and stderr (read)
	GetParentStreams() (stdin, stdout, stderr *os.File)

	// CloseChildStreams closes the ends duplicated into the child (called after the process starts)
	CloseChildStreams() error

	// CloseParentStreams closes the parent's ends
	CloseParentStreams() error

	// SysProcAttr returns the process attributes this transport needs
	SysProcAttr() *syscall.SysProcAttr

	Name() string

	// Clone returns a fresh handler of the same kind, with no streams open
	Clone() StdioHandler
}
