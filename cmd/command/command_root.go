package main

import (
	"fmt"
	"os"

	"github.com/codecrafters-io/command-supervisor/config"
	"github.com/codecrafters-io/command-supervisor/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	binary     bool
	sync       bool
	opaque     bool
	pty        bool
	debug      bool
	dir        string
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "command",
		Short:         "Run a child process and print its output as messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.BoolVarP(&opts.binary, "binary", "b", false, "emit raw byte values instead of decoded text")
	flags.BoolVarP(&opts.sync, "sync", "s", false, "block until the child exits instead of polling")
	flags.BoolVar(&opts.opaque, "opaque", false, "emit every read as one symbol instead of decoding lines")
	flags.BoolVar(&opts.pty, "pty", false, "connect the child's standard streams to pseudo-terminals")
	flags.BoolVar(&opts.debug, "debug", false, "print debug logs")
	flags.StringVar(&opts.dir, "dir", "", "working directory of the child (default: current directory)")

	root.AddCommand(newExecCmd(opts))
	root.AddCommand(newShellCmd(opts))

	return root
}

// config builds the configuration: file first, then flags given on the command line
func (o *rootOptions) config(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()

	if flags.Changed("binary") {
		cfg.BinaryOutput = o.binary
	}
	if flags.Changed("sync") {
		cfg.Synchronous = o.sync
	}
	if flags.Changed("opaque") && o.opaque {
		cfg.TextFraming = config.TextFramingOpaque
	}
	if flags.Changed("pty") && o.pty {
		cfg.Transport = config.TransportPty
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("dir") {
		cfg.WorkingDirectory = o.dir
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg config.Config) *logger.Logger {
	return logger.New(os.Stderr, cfg.Debug, "[command] ")
}
