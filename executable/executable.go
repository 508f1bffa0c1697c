package executable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/codecrafters-io/command-supervisor/config"
	"github.com/codecrafters-io/command-supervisor/emitter"
	"github.com/codecrafters-io/command-supervisor/executable/output_decoder"
	"github.com/codecrafters-io/command-supervisor/executable/stdio_handler"
	"github.com/codecrafters-io/command-supervisor/logger"
	"github.com/codecrafters-io/command-supervisor/scheduler"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// MaxSendSize is the most bytes a single Send writes; longer payloads are truncated.
const MaxSendSize = 65535

// Supervisor runs one child process at a time and turns its output into messages.
//
// A Supervisor is not safe for concurrent use. Every method, and the poll
// callback it registers with the Scheduler, must run on the same goroutine
// (scheduler.Loop provides this).
type Supervisor struct {
	id string

	cfg              config.Config
	workingDirectory string
	decoder          output_decoder.Decoder
	stdioHandler     stdio_handler.StdioHandler

	emitter emitter.Emitter
	clock   scheduler.Clock
	logger  *logger.Logger

	state       State
	child       *stdio_handler.Child
	pollBackoff int
	readBuffer  []byte

	draining  bool
	destroyed bool
}

// NewSupervisor creates an idle supervisor. The working directory is resolved once, here.
func NewSupervisor(cfg config.Config, em emitter.Emitter, sched scheduler.Scheduler, log *logger.Logger) (*Supervisor, error) {
	if em == nil {
		return nil, errors.New("emitter is required")
	}
	if sched == nil {
		return nil, errors.New("scheduler is required")
	}
	if log == nil {
		log = logger.GetQuietLogger("")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workingDirectory, err := cfg.ResolveWorkingDirectory()
	if err != nil {
		return nil, err
	}

	decoder, err := output_decoder.New(cfg.OutputMode())
	if err != nil {
		return nil, err
	}

	handler, err := newStdioHandler(cfg.Transport)
	if err != nil {
		return nil, err
	}

	s := &Supervisor{
		id:               uuid.NewString(),
		cfg:              cfg,
		workingDirectory: workingDirectory,
		decoder:          decoder,
		stdioHandler:     handler,
		emitter:          em,
		logger:           log.Clone(),
		state:            Idle,
		readBuffer:       make([]byte, cfg.ReadBufferSize),
	}

	s.logger.PushSecondaryPrefix(s.id[:8])
	s.clock = sched.NewClock(s.poll)

	return s, nil
}

func newStdioHandler(transport string) (stdio_handler.StdioHandler, error) {
	switch transport {
	case config.TransportPipe:
		return &stdio_handler.PipeTrioStdioHandler{}, nil
	case config.TransportPty:
		return &stdio_handler.PtyTrioStdioHandler{}, nil
	default:
		return nil, fmt.Errorf("unknown transport: %s", transport)
	}
}

func (s *Supervisor) ID() string {
	return s.id
}

func (s *Supervisor) State() State {
	return s.state
}

// Pid returns the child's pid, or 0 when idle
func (s *Supervisor) Pid() int {
	if s.child == nil {
		return 0
	}
	return s.child.Pid()
}

// PollDelay returns the delay, in time units, used for the most recent poll
func (s *Supervisor) PollDelay() int {
	return s.pollBackoff
}

func (s *Supervisor) WorkingDirectory() string {
	return s.workingDirectory
}

// Spawn starts argv[0] with argv, in the working directory.
//
// Spawn fails without side effects if argv is empty or too long, or if a child
// is already running. If the program cannot be started every stream created
// for it is closed and the supervisor stays idle. In synchronous mode Spawn
// returns only after the child has exited and its status was emitted.
func (s *Supervisor) Spawn(argv []string) error {
	if s.destroyed {
		return ErrDestroyed
	}

	if s.state != Idle {
		s.logger.Errorf("Cannot spawn %s: %s (pid %d)", argv, ErrAlreadyRunning, s.Pid())
		return ErrAlreadyRunning
	}

	if len(argv) == 0 {
		s.logger.Errorln(ErrEmptyArgv.Error())
		return ErrEmptyArgv
	}

	if maxArgs := s.cfg.MaxArgs - 1; len(argv) > maxArgs {
		err := fmt.Errorf("%w: %d (max %d)", ErrTooManyArgs, len(argv), maxArgs)
		s.logger.Errorln(err.Error())
		return err
	}

	s.logger.Debugf("Running %s", formatCommandLine(argv))
	s.logger.Debugf("Working directory: %s", s.workingDirectory)

	path, err := stdio_handler.ResolveExecutable(argv[0], s.workingDirectory)
	if err != nil {
		s.logger.Errorln(err.Error())
		return err
	}

	child, err := stdio_handler.Start(s.stdioHandler.Clone(), path, argv, s.workingDirectory)
	if err != nil {
		s.logger.Errorln(err.Error())
		return err
	}

	s.child = child
	s.state = Running
	s.pollBackoff = s.cfg.PollInitialDelay

	s.logger.Debugf("Started process %d (%s)", child.Pid(), s.stdioHandler.Name())

	if s.cfg.Synchronous {
		s.runSynchronously()
		return nil
	}

	s.clock.Delay(s.pollBackoff)
	return nil
}

// SpawnAtoms is Spawn for hosts that hold the command line as atoms
func (s *Supervisor) SpawnAtoms(atoms []atom.Atom) error {
	argv := make([]string, len(atoms))
	for i, a := range atoms {
		if a.IsFloat() {
			argv[i] = atom.FormatFloat(a.FloatValue())
		} else {
			argv[i] = a.SymbolValue()
		}
	}

	return s.Spawn(argv)
}

// Send writes the atoms, separated by single spaces, to the child's stdin in one write.
// At most MaxSendSize bytes are written. Nothing is written when no child is
// running or its stdin was closed.
func (s *Supervisor) Send(atoms []atom.Atom) {
	s.Write(atom.Join(atoms, MaxSendSize))
}

// Write performs one non-blocking write of data to the child's stdin.
// A short write is reported but not retried.
func (s *Supervisor) Write(data []byte) {
	if s.child == nil || !s.child.Stdin.IsOpen() || len(data) == 0 {
		return
	}

	n, err := s.child.Stdin.Write(data)

	switch {
	case errors.Is(err, unix.EAGAIN):
		s.logger.Warnf("stdin of process %d is full, dropped %d bytes", s.child.Pid(), len(data))
	case err != nil:
		s.logger.Errorf("Failed to write to stdin of process %d: %s", s.child.Pid(), err)
		s.child.Stdin.Close()
	case n < len(data):
		s.logger.Warnf("Partial write to stdin of process %d: %d of %d bytes", s.child.Pid(), n, len(data))
	}
}

// Kill asks the child and its process group to terminate.
// The child is reaped, and its status emitted, by a later poll.
func (s *Supervisor) Kill() {
	if s.child == nil {
		return
	}

	if err := s.child.Terminate(); err != nil {
		s.logger.Errorf("Failed to kill process %d: %s", s.child.Pid(), err)
		return
	}

	s.logger.Debugf("Sent SIGTERM to process %d", s.child.Pid())
}

// Destroy terminates a running child, flushes and closes its streams and cancels the poll.
// No completion message is emitted for a child that is still running. The
// child is reaped in the background. Destroy is idempotent; once destroyed the
// supervisor rejects Spawn and ignores everything else.
func (s *Supervisor) Destroy() {
	if s.destroyed {
		return
	}

	s.destroyed = true
	s.clock.Unset()

	if s.child == nil {
		return
	}

	child := s.child

	if err := child.Terminate(); err != nil {
		s.logger.Errorf("Failed to kill process %d: %s", child.Pid(), err)
	}

	if !s.draining {
		s.drain()
	}

	s.child = nil
	s.state = Idle

	if err := child.CloseStreams(); err != nil {
		s.logger.Errorf("Failed to close streams of process %d: %s", child.Pid(), err)
	}
	child.ReapInBackground()

	s.logger.Debugf("Destroyed, process %d is reaped in the background", child.Pid())
}

func formatCommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = fmt.Sprintf("%q", arg)
	}
	return strings.Join(quoted, " ")
}
