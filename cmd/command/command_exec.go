package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// exitStatusError carries the child's exit status out of Execute
type exitStatusError struct {
	status int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.status)
}

func newExecCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [flags] -- <program> [args...]",
		Short: "Run a program once, forwarding stdin lines to it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			h, err := newHost(cfg, newLogger(cfg), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			status, err := h.exec(cmd.Context(), args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if status != 0 {
				return &exitStatusError{status: status}
			}
			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}

// exec spawns argv once and returns its exit status. Each line read from stdin
// is written to the child, newline included.
func (h *host) exec(ctx context.Context, argv []string, stdin io.Reader) (int, error) {
	status := 0

	err := h.run(ctx, func(stop context.CancelFunc) error {
		h.onDone = func(code int) {
			status = code
			stop()
		}

		if err := h.supervisor.Spawn(argv); err != nil {
			return err
		}

		if stdin != nil {
			go h.forwardLines(stdin, func(line string) {
				h.supervisor.Write([]byte(line + "\n"))
			}, nil)
		}

		return nil
	})

	return status, err
}
