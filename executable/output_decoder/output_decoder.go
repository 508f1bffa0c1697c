package output_decoder

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/codecrafters-io/command-supervisor/config"
	"github.com/codecrafters-io/command-supervisor/emitter"
)

// ErrSubstitution is returned for a message containing a '$' followed by a digit
var ErrSubstitution = errors.New("substitution marker not allowed in child output")

// Decoder turns one chunk read from the child into messages.
//
// Chunks are decoded independently, nothing is carried over between reads.
// A non-nil error reports messages that were dropped; the returned messages
// are still valid and in order.
type Decoder interface {
	Decode(chunk []byte) ([]emitter.Message, error)
	Mode() config.OutputMode
}

// New returns the decoder for mode
func New(mode config.OutputMode) (Decoder, error) {
	switch mode {
	case config.RawBytes:
		return RawBytesDecoder{}, nil
	case config.OpaqueText:
		return OpaqueTextDecoder{}, nil
	case config.StructuredText:
		return StructuredTextDecoder{}, nil
	default:
		return nil, fmt.Errorf("unknown output mode: %s", mode)
	}
}

// RawBytesDecoder emits each chunk as a list of byte values
type RawBytesDecoder struct{}

func (RawBytesDecoder) Mode() config.OutputMode {
	return config.RawBytes
}

func (RawBytesDecoder) Decode(chunk []byte) ([]emitter.Message, error) {
	if len(chunk) == 0 {
		return nil, nil
	}

	atoms := make([]atom.Atom, len(chunk))
	for i, b := range chunk {
		atoms[i] = atom.Float(float64(b))
	}

	return []emitter.Message{emitter.ListMessage(atoms)}, nil
}

// OpaqueTextDecoder emits each chunk, up to the first NUL, as one symbol
type OpaqueTextDecoder struct{}

func (OpaqueTextDecoder) Mode() config.OutputMode {
	return config.OpaqueText
}

func (OpaqueTextDecoder) Decode(chunk []byte) ([]emitter.Message, error) {
	if i := bytes.IndexByte(chunk, 0); i >= 0 {
		chunk = chunk[:i]
	}

	if len(chunk) == 0 {
		return nil, nil
	}

	return []emitter.Message{emitter.SymbolMessage(string(chunk))}, nil
}

// StructuredTextDecoder treats every line (or ';'-separated part of a line) as a message,
// typed by its leading token:
//
//	42          -> float 42
//	3 4 5       -> list [3 4 5]
//	hello world -> anything "hello" [world]
type StructuredTextDecoder struct{}

func (StructuredTextDecoder) Mode() config.OutputMode {
	return config.StructuredText
}

func (StructuredTextDecoder) Decode(chunk []byte) ([]emitter.Message, error) {
	if i := bytes.IndexByte(chunk, 0); i >= 0 {
		chunk = chunk[:i]
	}

	text := strings.ReplaceAll(string(chunk), "\n", ";")

	var (
		messages []emitter.Message
		errs     []error
	)

	for _, tokens := range atom.Tokenize(text) {
		msg, err := decodeMessage(tokens)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		messages = append(messages, msg)
	}

	return messages, errors.Join(errs...)
}

func decodeMessage(tokens []string) (emitter.Message, error) {
	for _, token := range tokens {
		if atom.HasSubstitution(token) {
			return emitter.Message{}, fmt.Errorf("dropped %q: %w", strings.Join(tokens, " "), ErrSubstitution)
		}
	}

	plain := make([]string, len(tokens))
	for i, token := range tokens {
		plain[i] = atom.Unescape(token)
	}

	atoms := atom.FromStrings(plain)

	if atoms[0].IsFloat() {
		if len(atoms) == 1 {
			return emitter.FloatMessage(atoms[0].FloatValue()), nil
		}
		return emitter.ListMessage(atoms), nil
	}

	return emitter.AnythingMessage(atoms[0].SymbolValue(), atoms[1:]), nil
}
