package emitter

import (
	"fmt"
	"strings"

	"github.com/codecrafters-io/command-supervisor/atom"
)

type Kind int

const (
	KindFloat Kind = iota
	KindSymbol
	KindList
	KindAnything
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindAnything:
		return "anything"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Message is one decoded output unit. Only the fields matching Kind are set.
type Message struct {
	Kind   Kind
	Float  float64
	Symbol string
	Tag    string
	Atoms  []atom.Atom
}

func FloatMessage(f float64) Message {
	return Message{Kind: KindFloat, Float: f}
}

func SymbolMessage(s string) Message {
	return Message{Kind: KindSymbol, Symbol: s}
}

func ListMessage(atoms []atom.Atom) Message {
	return Message{Kind: KindList, Atoms: atoms}
}

func AnythingMessage(tag string, args []atom.Atom) Message {
	return Message{Kind: KindAnything, Tag: tag, Atoms: args}
}

// String renders the message the way a host console would print it.
func (m Message) String() string {
	switch m.Kind {
	case KindFloat:
		return atom.FormatFloat(m.Float)
	case KindSymbol:
		return "symbol " + m.Symbol
	case KindList:
		return "list " + strings.Join(atom.Strings(m.Atoms), " ")
	case KindAnything:
		if len(m.Atoms) == 0 {
			return m.Tag
		}
		return m.Tag + " " + strings.Join(atom.Strings(m.Atoms), " ")
	default:
		return fmt.Sprintf("unknown(%d)", int(m.Kind))
	}
}
