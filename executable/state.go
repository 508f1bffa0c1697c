package executable

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyArgv      = errors.New("no command given")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrAlreadyRunning = errors.New("process already in progress")
	ErrDestroyed      = errors.New("supervisor destroyed")
)

// State is the lifecycle stage of a Supervisor
type State int

const (
	// Idle: no child, no open streams, no scheduled poll
	Idle State = iota
	// Running: a child was started and has not been reaped yet
	Running
	// Reaping: the child has exited and its last output is being flushed
	Reaping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Reaping:
		return "reaping"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
