package executable

import (
	"github.com/codecrafters-io/command-supervisor/emitter"
	"github.com/codecrafters-io/command-supervisor/executable/stdio_handler"
)

// poll is the clock callback: flush available output, then check whether the child is gone.
func (s *Supervisor) poll() {
	if s.state != Running {
		return
	}

	s.drain()

	// An output handler may have destroyed the supervisor
	if s.state != Running {
		return
	}

	if s.checkExited() {
		return
	}

	s.pollBackoff += s.cfg.PollStep
	if s.pollBackoff > s.cfg.PollCeiling {
		s.pollBackoff = s.cfg.PollCeiling
	}

	s.clock.Delay(s.pollBackoff)
}

// runSynchronously busy-polls, without sleeping, until the child exits.
// Output is flushed on every iteration.
func (s *Supervisor) runSynchronously() {
	for s.state == Running {
		s.drain()

		if s.state != Running {
			return
		}

		s.checkExited()
	}
}

// checkExited reaps the child if it has terminated and reports whether it did.
// A failing wait is treated as termination with the sentinel status.
func (s *Supervisor) checkExited() bool {
	status, exited, err := s.child.TryReap()
	if err != nil {
		s.logger.Errorf("Failed to query status of process %d: %s", s.child.Pid(), err)
		s.child.MarkReaped()
		s.reap(stdio_handler.ExitStatus{Code: stdio_handler.SentinelExitStatus})
		return true
	}

	if !exited {
		return false
	}

	s.reap(status)
	return true
}

// reap performs the final flush and cleanup for a child whose status was consumed.
// The supervisor is idle again before the status is emitted, so the completion
// handler may spawn the next child.
func (s *Supervisor) reap(status stdio_handler.ExitStatus) {
	s.state = Reaping
	s.clock.Unset()

	s.drain()

	child := s.child
	if child == nil {
		return // destroyed while flushing
	}

	if err := child.CloseStreams(); err != nil {
		s.logger.Errorf("Failed to close streams of process %d: %s", child.Pid(), err)
	}
	if err := child.Release(); err != nil {
		s.logger.Errorf("Failed to release process %d: %s", child.Pid(), err)
	}

	s.child = nil
	s.state = Idle

	s.logger.Debugf("Process %d %s", child.Pid(), status)
	s.emitter.Float(emitter.Done, float64(status.Code))
}

// drain does one non-blocking read from stdout, then one from stderr
func (s *Supervisor) drain() {
	s.draining = true
	defer func() { s.draining = false }()

	if s.child != nil {
		s.readStream(s.child.Stdout, emitter.Stdout)
	}

	if s.child != nil {
		s.readStream(s.child.Stderr, emitter.Stderr)
	}
}

func (s *Supervisor) readStream(endpoint *stdio_handler.Endpoint, outlet emitter.Outlet) {
	if !endpoint.IsOpen() {
		return
	}

	// One byte is kept free, so a read never fills the whole buffer
	n, result, err := endpoint.Read(s.readBuffer[:len(s.readBuffer)-1])

	switch result {
	case stdio_handler.ReadData:
		s.emitChunk(outlet, s.readBuffer[:n])
	case stdio_handler.ReadWouldBlock:
	case stdio_handler.ReadEndOfStream:
		s.logger.Debugf("%s closed", endpoint.Name())
		endpoint.Close()
	case stdio_handler.ReadFailed:
		s.logger.Errorf("Failed to read %s: %s", endpoint.Name(), err)
		endpoint.Close()
	}
}

func (s *Supervisor) emitChunk(outlet emitter.Outlet, chunk []byte) {
	messages, err := s.decoder.Decode(chunk)
	if err != nil {
		s.logger.Warnf("%s: %s", outlet, err)
	}

	for _, msg := range messages {
		emitter.Emit(s.emitter, outlet, msg)
	}
}
