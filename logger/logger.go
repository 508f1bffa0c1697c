package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelSuccess
	levelWarn
	levelError
	levelPlain
)

var levelColors = map[level]color.Attribute{
	levelDebug:   color.FgCyan,
	levelInfo:    color.FgHiBlue,
	levelSuccess: color.FgHiGreen,
	levelWarn:    color.FgYellow,
	levelError:   color.FgHiRed,
}

// Serializes logging in case of multiple cloned loggers
type syncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer.Write(p)
}

// Logger is the diagnostic channel of a supervisor. It wraps log.Logger with:
//   - A prefix, plus a stack of secondary prefixes
//   - Colors, when writing to a terminal
//   - Debug mode (all logs, debug and above)
//   - Quiet mode (nothing but Plain output)
type Logger struct {
	// IsDebug is used to determine whether to emit debug logs.
	IsDebug bool

	// IsQuiet suppresses every leveled log.
	IsQuiet bool

	prefix            string
	secondaryPrefixes []string
	useColor          bool

	// logger is a value rather than a pointer so Clone can give each clone its own prefix
	logger       log.Logger
	outputWriter *syncWriter
}

// GetLogger returns a logger writing to stdout.
func GetLogger(isDebug bool, prefix string) *Logger {
	return New(os.Stdout, isDebug, prefix)
}

// GetQuietLogger returns a logger that drops every leveled log.
func GetQuietLogger(prefix string) *Logger {
	l := New(io.Discard, false, prefix)
	l.IsQuiet = true
	return l
}

// New returns a logger writing to w. Colors are used only if w is a terminal.
func New(w io.Writer, isDebug bool, prefix string) *Logger {
	l := &Logger{
		IsDebug:      isDebug,
		prefix:       prefix,
		useColor:     isTerminal(w),
		outputWriter: &syncWriter{writer: w},
	}
	l.logger = *log.New(l.outputWriter, "", 0)
	l.updateLoggerPrefix()
	return l
}

// Clone clones a given logger
// Uses the same outputwriter to ensure logs are serialized
// when a clone and an original is running concurrently
func (l *Logger) Clone() *Logger {
	cloned := &Logger{
		IsDebug:           l.IsDebug,
		IsQuiet:           l.IsQuiet,
		prefix:            l.prefix,
		secondaryPrefixes: append([]string(nil), l.secondaryPrefixes...),
		useColor:          l.useColor,
		outputWriter:      l.outputWriter,
	}

	cloned.logger = *log.New(cloned.outputWriter, "", 0)
	cloned.updateLoggerPrefix()

	return cloned
}

func (l *Logger) GetSecondaryPrefixes() []string {
	return l.secondaryPrefixes
}

// PushSecondaryPrefix pushes a new secondary prefix to secondaryPrefixes
func (l *Logger) PushSecondaryPrefix(prefix string) {
	l.secondaryPrefixes = append(l.secondaryPrefixes, prefix)
	l.updateLoggerPrefix()
}

// PopSecondaryPrefix removes the secondary prefix from the top of secondaryPrefixes
func (l *Logger) PopSecondaryPrefix() string {
	if len(l.secondaryPrefixes) == 0 {
		return ""
	}
	lastPrefix := l.secondaryPrefixes[len(l.secondaryPrefixes)-1]
	l.secondaryPrefixes = l.secondaryPrefixes[:len(l.secondaryPrefixes)-1]
	l.updateLoggerPrefix()
	return lastPrefix
}

// WithAdditionalSecondaryPrefix runs fn with an extra secondary prefix pushed.
func (l *Logger) WithAdditionalSecondaryPrefix(prefix string, fn func()) {
	l.PushSecondaryPrefix(prefix)
	defer l.PopSecondaryPrefix()
	fn()
}

func (l *Logger) updateLoggerPrefix() {
	fullPrefix := l.prefix
	for _, secondaryPrefix := range l.secondaryPrefixes {
		fullPrefix += fmt.Sprintf("[%s] ", secondaryPrefix)
	}
	l.logger.SetPrefix(l.colorize(color.FgYellow, fullPrefix))
}

func (l *Logger) colorize(attribute color.Attribute, s string) string {
	if !l.useColor || s == "" {
		return s
	}

	c := color.New(attribute)
	c.EnableColor()
	return c.Sprint(s)
}

func (l *Logger) emit(lvl level, fstring string, args ...any) {
	switch {
	case lvl == levelDebug && !l.IsDebug:
		return
	case lvl != levelPlain && l.IsQuiet:
		return
	}

	msg := fstring
	if len(args) > 0 {
		msg = fmt.Sprintf(fstring, args...)
	}

	for _, line := range strings.Split(msg, "\n") {
		if attribute, ok := levelColors[lvl]; ok {
			line = l.colorize(attribute, line)
		}
		l.logger.Println(line)
	}
}

func (l *Logger) Debugf(fstring string, args ...any) {
	l.emit(levelDebug, fstring, args...)
}

func (l *Logger) Debugln(msg string) {
	l.emit(levelDebug, msg)
}

func (l *Logger) Infof(fstring string, args ...any) {
	l.emit(levelInfo, fstring, args...)
}

func (l *Logger) Infoln(msg string) {
	l.emit(levelInfo, msg)
}

func (l *Logger) Successf(fstring string, args ...any) {
	l.emit(levelSuccess, fstring, args...)
}

func (l *Logger) Warnf(fstring string, args ...any) {
	l.emit(levelWarn, fstring, args...)
}

func (l *Logger) Errorf(fstring string, args ...any) {
	l.emit(levelError, fstring, args...)
}

func (l *Logger) Errorln(msg string) {
	l.emit(levelError, msg)
}

func (l *Logger) Plainf(fstring string, args ...any) {
	l.emit(levelPlain, fstring, args...)
}

func (l *Logger) Plainln(msg string) {
	l.emit(levelPlain, msg)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd())
}
