package stdio_handler

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

var ErrEndpointClosed = errors.New("endpoint is closed")

// ReadResult classifies a single non-blocking read.
type ReadResult int

const (
	// ReadData means n > 0 bytes were read.
	ReadData ReadResult = iota
	// ReadWouldBlock means the stream is open but has nothing buffered right now.
	ReadWouldBlock
	// ReadEndOfStream means the child closed its end.
	ReadEndOfStream
	// ReadFailed means the read returned an error.
	ReadFailed
)

func (r ReadResult) String() string {
	switch r {
	case ReadData:
		return "data"
	case ReadWouldBlock:
		return "would block"
	case ReadEndOfStream:
		return "end of stream"
	case ReadFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Endpoint is a parent-owned end of one of the child's standard streams.
//
// The descriptor is switched to non-blocking mode and accessed through its
// RawConn, so Read and Write never wait on the runtime poller. Close is
// idempotent; once closed the endpoint is never read or written again.
type Endpoint struct {
	name       string
	file       *os.File
	raw        syscall.RawConn
	isTerminal bool
	open       bool
}

func newEndpoint(name string, file *os.File) (*Endpoint, error) {
	raw, err := file.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	endpoint := &Endpoint{name: name, file: file, raw: raw, open: true}

	var setupErr error
	controlErr := raw.Control(func(fd uintptr) {
		setupErr = unix.SetNonblock(int(fd), true)
		// In linux, if the source is a terminal device, read(2) results in EIO when the child process has exited and closed its slave end
		// (Source: The Linux Programming Interface Appendix F - 64.1)
		endpoint.isTerminal = isatty.IsTerminal(fd)
	})

	if controlErr != nil {
		return nil, fmt.Errorf("%s: %w", name, controlErr)
	}
	if setupErr != nil {
		return nil, fmt.Errorf("%s: set non-blocking: %w", name, setupErr)
	}

	return endpoint, nil
}

func (e *Endpoint) Name() string {
	return e.name
}

func (e *Endpoint) IsOpen() bool {
	return e != nil && e.open
}

func (e *Endpoint) IsTerminal() bool {
	return e.isTerminal
}

// Read performs exactly one non-blocking read into buf.
func (e *Endpoint) Read(buf []byte) (int, ReadResult, error) {
	if !e.IsOpen() {
		return 0, ReadFailed, ErrEndpointClosed
	}

	var (
		n       int
		readErr error
	)

	err := e.raw.Read(func(fd uintptr) bool {
		for {
			n, readErr = unix.Read(int(fd), buf)
			if !errors.Is(readErr, unix.EINTR) {
				return true
			}
		}
	})
	if err != nil {
		return 0, ReadFailed, err
	}

	switch {
	case readErr == nil && n > 0:
		return n, ReadData, nil
	case readErr == nil:
		return 0, ReadEndOfStream, nil
	case errors.Is(readErr, unix.EAGAIN):
		return 0, ReadWouldBlock, nil
	case e.isTerminal && errors.Is(readErr, unix.EIO):
		return 0, ReadEndOfStream, nil
	default:
		return 0, ReadFailed, readErr
	}
}

// Write performs exactly one non-blocking write of p and returns the bytes accepted.
// A full pipe is reported as unix.EAGAIN.
func (e *Endpoint) Write(p []byte) (int, error) {
	if !e.IsOpen() {
		return 0, ErrEndpointClosed
	}

	var (
		n        int
		writeErr error
	)

	err := e.raw.Write(func(fd uintptr) bool {
		for {
			n, writeErr = unix.Write(int(fd), p)
			if !errors.Is(writeErr, unix.EINTR) {
				return true
			}
		}
	})
	if err != nil {
		return 0, err
	}
	if writeErr != nil {
		return 0, writeErr
	}

	return n, nil
}

// Close releases the descriptor. Closing an already closed endpoint is a no-op.
func (e *Endpoint) Close() error {
	if !e.IsOpen() {
		return nil
	}

	e.open = false
	return closeIfOpen(e.file)
}
