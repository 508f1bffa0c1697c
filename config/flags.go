package config

import (
	"fmt"
	"strings"

	"github.com/codecrafters-io/command-supervisor/atom"
)

// ParseFlags applies creation flags to c and returns the remaining arguments.
//
// Flags are read from the front of args until the first token that does not
// start with '-' or is a number (so "-5" is an argument, not a flag):
//
//	-b    binary output
//	-s    synchronous mode
//	-o    opaque text framing
//	-pty  pty transport
//
// Unknown flags are skipped and reported as warnings.
func (c *Config) ParseFlags(args []string) (rest []string, warnings []string) {
	i := 0
	for ; i < len(args) && isFlag(args[i]); i++ {
		switch args[i] {
		case "-b":
			c.BinaryOutput = true
		case "-s":
			c.Synchronous = true
		case "-o":
			c.TextFraming = TextFramingOpaque
		case "-pty":
			c.Transport = TransportPty
		default:
			warnings = append(warnings, fmt.Sprintf("unknown flag %s", args[i]))
		}
	}

	return args[i:], warnings
}

func isFlag(arg string) bool {
	return strings.HasPrefix(arg, "-") && !atom.IsNumeric(arg)
}
