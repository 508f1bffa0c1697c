package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// OutputMode selects how bytes read from the child are turned into messages.
type OutputMode int

const (
	// StructuredText splits chunks into lines and decodes each line by its leading token.
	StructuredText OutputMode = iota
	// OpaqueText emits each chunk as a single symbol.
	OpaqueText
	// RawBytes emits each chunk as a list of byte values.
	RawBytes
)

func (m OutputMode) String() string {
	switch m {
	case StructuredText:
		return "structured"
	case OpaqueText:
		return "opaque"
	case RawBytes:
		return "raw"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

const (
	TextFramingStructured = "structured"
	TextFramingOpaque     = "opaque"

	TransportPipe = "pipe"
	TransportPty  = "pty"
)

const (
	DefaultPollInitialDelay = 4
	DefaultPollStep         = 2
	DefaultPollCeiling      = 100
	DefaultTimeUnitMs       = 1
	DefaultReadBufferSize   = 65536
	DefaultMaxArgs          = 256
)

// Config holds the construction-time settings of a supervisor.
type Config struct {
	// BinaryOutput emits raw byte values instead of decoded text.
	BinaryOutput bool `yaml:"binary_output"`

	// Synchronous makes Spawn block until the child exits instead of polling.
	Synchronous bool `yaml:"synchronous"`

	// TextFraming is "structured" (line-delimited messages) or "opaque" (one symbol per read).
	TextFraming string `yaml:"text_framing"`

	// Transport is "pipe" or "pty".
	Transport string `yaml:"transport"`

	// WorkingDirectory is the child's cwd. Empty means the current directory.
	WorkingDirectory string `yaml:"working_directory"`

	PollInitialDelay int `yaml:"poll_initial_delay"`
	PollStep         int `yaml:"poll_step"`
	PollCeiling      int `yaml:"poll_ceiling"`
	TimeUnitMs       int `yaml:"time_unit_ms"`

	// ReadBufferSize is the buffer capacity; each read returns at most ReadBufferSize-1 bytes.
	ReadBufferSize int `yaml:"read_buffer_size"`

	// MaxArgs bounds argv: at most MaxArgs-1 arguments are accepted.
	MaxArgs int `yaml:"max_args"`

	Debug bool `yaml:"debug"`
}

// Default returns a Config with every default applied.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.TextFraming == "" {
		c.TextFraming = TextFramingStructured
	}
	if c.Transport == "" {
		c.Transport = TransportPipe
	}
	if c.PollInitialDelay == 0 {
		c.PollInitialDelay = DefaultPollInitialDelay
	}
	if c.PollStep == 0 {
		c.PollStep = DefaultPollStep
	}
	if c.PollCeiling == 0 {
		c.PollCeiling = DefaultPollCeiling
	}
	if c.TimeUnitMs == 0 {
		c.TimeUnitMs = DefaultTimeUnitMs
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.MaxArgs == 0 {
		c.MaxArgs = DefaultMaxArgs
	}
}

// Validate checks the configuration for values the supervisor cannot work with.
func (c *Config) Validate() error {
	switch c.TextFraming {
	case TextFramingStructured, TextFramingOpaque:
	default:
		return fmt.Errorf("text_framing must be one of [%s, %s] (got: %s)", TextFramingStructured, TextFramingOpaque, c.TextFraming)
	}

	switch c.Transport {
	case TransportPipe, TransportPty:
	default:
		return fmt.Errorf("transport must be one of [%s, %s] (got: %s)", TransportPipe, TransportPty, c.Transport)
	}

	if c.PollInitialDelay < 0 || c.PollStep < 0 {
		return fmt.Errorf("poll_initial_delay and poll_step must not be negative")
	}
	if c.PollCeiling < c.PollInitialDelay {
		return fmt.Errorf("poll_ceiling (%d) must be at least poll_initial_delay (%d)", c.PollCeiling, c.PollInitialDelay)
	}
	if c.TimeUnitMs < 0 {
		return fmt.Errorf("time_unit_ms must not be negative (got: %d)", c.TimeUnitMs)
	}
	if c.ReadBufferSize < 2 {
		return fmt.Errorf("read_buffer_size must be at least 2 (got: %d)", c.ReadBufferSize)
	}
	if c.MaxArgs < 2 {
		return fmt.Errorf("max_args must be at least 2 (got: %d)", c.MaxArgs)
	}

	return nil
}

// OutputMode maps the binary/text settings onto a decoding strategy.
func (c *Config) OutputMode() OutputMode {
	if c.BinaryOutput {
		return RawBytes
	}
	if c.TextFraming == TextFramingOpaque {
		return OpaqueText
	}
	return StructuredText
}

// TimeUnit returns the duration of one scheduler time unit.
func (c *Config) TimeUnit() time.Duration {
	return time.Duration(c.TimeUnitMs) * time.Millisecond
}

// ResolveWorkingDirectory returns the absolute directory the child should run in.
func (c *Config) ResolveWorkingDirectory() (string, error) {
	if c.WorkingDirectory == "" {
		return os.Getwd()
	}

	dir, err := filepath.Abs(c.WorkingDirectory)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("working directory %s: %w", c.WorkingDirectory, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %s is not a directory", c.WorkingDirectory)
	}

	return dir, nil
}

// Load reads a YAML configuration file, applies defaults and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
