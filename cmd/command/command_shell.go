package main

import (
	"context"
	"io"
	"strings"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/codecrafters-io/command-supervisor/executable"
	"github.com/codecrafters-io/command-supervisor/logger"
	"github.com/spf13/cobra"
)

const shellHelp = `Reads one message per line from stdin:

  exec <program> [args...]   start a program (one at a time)
  send [values...]           write the values, space separated, to the program's stdin
  kill                       terminate the program
  quit                       stop

Several messages can share a line when separated by ';'.
Creation flags (-b binary, -s synchronous, -o opaque text, -pty) may follow "--".`

func newShellCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell [-- creation flags]",
		Short: "Drive a supervisor interactively with exec/send/kill messages",
		Long:  shellHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			rest, warnings := cfg.ParseFlags(args)

			log := newLogger(cfg)
			for _, warning := range warnings {
				log.Warnf("%s", warning)
			}
			if len(rest) > 0 {
				log.Warnf("ignoring extra arguments: %s", strings.Join(rest, " "))
			}

			h, err := newHost(cfg, log, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return h.shell(cmd.Context(), cmd.InOrStdin())
		},
	}

	return cmd
}

// shell handles messages read from stdin until "quit", or until end of input
// and the running program (if any) has exited.
func (h *host) shell(ctx context.Context, stdin io.Reader) error {
	return h.run(ctx, func(stop context.CancelFunc) error {
		onEOF := func() {
			if h.supervisor.State() == executable.Idle {
				stop()
				return
			}
			h.onDone = func(int) { stop() }
		}

		go h.forwardLines(stdin, func(line string) {
			if quit := handleShellLine(h.supervisor, h.logger, line); quit {
				stop()
			}
		}, onEOF)

		return nil
	})
}

// handleShellLine dispatches every message on line and reports whether "quit" was among them
func handleShellLine(supervisor *executable.Supervisor, log *logger.Logger, line string) (quit bool) {
	for _, tokens := range atom.Tokenize(line) {
		for i, token := range tokens {
			tokens[i] = atom.Unescape(token)
		}

		selector, args := tokens[0], tokens[1:]

		switch selector {
		case "exec":
			// Spawn reports its own failures
			supervisor.Spawn(args)
		case "send":
			supervisor.Send(atom.FromStrings(args))
		case "kill":
			supervisor.Kill()
		case "quit":
			return true
		default:
			log.Errorf("Unknown message: %s", selector)
		}
	}

	return false
}
