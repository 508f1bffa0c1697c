package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/codecrafters-io/command-supervisor/config"
	"github.com/codecrafters-io/command-supervisor/emitter"
	"github.com/codecrafters-io/command-supervisor/executable"
	"github.com/codecrafters-io/command-supervisor/logger"
	"github.com/codecrafters-io/command-supervisor/scheduler"
	"golang.org/x/sync/errgroup"
)

// completionFunc is an Emitter that only listens to the Done outlet
type completionFunc func(status int)

func (f completionFunc) Float(outlet emitter.Outlet, v float64) {
	if outlet == emitter.Done {
		f(int(v))
	}
}

func (f completionFunc) Symbol(emitter.Outlet, string)                {}
func (f completionFunc) List(emitter.Outlet, []atom.Atom)             {}
func (f completionFunc) Anything(emitter.Outlet, string, []atom.Atom) {}

// host owns the event loop and the supervisor living on it.
// The supervisor is only touched from the loop goroutine while the loop runs.
type host struct {
	loop       *scheduler.Loop
	supervisor *executable.Supervisor
	logger     *logger.Logger

	onDone func(status int)
}

func newHost(cfg config.Config, log *logger.Logger, out io.Writer) (*host, error) {
	h := &host{
		loop:   scheduler.NewLoop(cfg.TimeUnit()),
		logger: log,
	}

	em := emitter.Fanout{
		emitter.NewPrinter(out),
		completionFunc(func(status int) {
			if h.onDone != nil {
				h.onDone(status)
			}
		}),
	}

	supervisor, err := executable.NewSupervisor(cfg, em, h.loop, log)
	if err != nil {
		return nil, err
	}
	h.supervisor = supervisor

	return h, nil
}

// run drives the loop until ctx is canceled or stop is called, then destroys the supervisor.
// start runs on the loop before anything else.
func (h *host) run(ctx context.Context, start func(stop context.CancelFunc) error) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := h.loop.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return h.forwardSignals(ctx, stop)
	})

	var startErr error
	if err := h.loop.Call(func() { startErr = start(stop) }); err != nil {
		startErr = err
	}
	if startErr != nil {
		stop()
	}

	err := group.Wait()

	// The loop has stopped, so this goroutine is the only one left using the supervisor
	h.supervisor.Destroy()

	if startErr != nil {
		return startErr
	}
	return err
}

// forwardSignals kills the child on SIGINT and stops the host on SIGTERM
func (h *host) forwardSignals(ctx context.Context, stop context.CancelFunc) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-signals:
			if sig == syscall.SIGTERM {
				stop()
				return nil
			}

			h.logger.Debugf("Received %s, killing process", sig)
			if err := h.loop.Post(h.supervisor.Kill); err != nil {
				return nil
			}
		}
	}
}

// forwardLines posts every line read from r to the loop, then onEOF.
//
// Reads from r cannot be interrupted, so this runs outside the errgroup and
// simply stops posting once the loop is gone.
func (h *host) forwardLines(r io.Reader, onLine func(line string), onEOF func()) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), config.DefaultReadBufferSize)

	for scanner.Scan() {
		line := scanner.Text()
		if err := h.loop.Post(func() { onLine(line) }); err != nil {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		h.logger.Errorf("Failed to read input: %s", err)
	}

	if onEOF != nil {
		h.loop.Post(onEOF)
	}
}
