package emitter

import (
	"fmt"

	"github.com/codecrafters-io/command-supervisor/atom"
)

// Outlet identifies one of the three independent channels a supervisor emits on.
type Outlet int

const (
	// Done carries exactly one exit status per completed spawn.
	Done Outlet = iota
	Stdout
	Stderr
)

func (o Outlet) String() string {
	switch o {
	case Done:
		return "done"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Emitter pushes typed messages outward to the host.
type Emitter interface {
	Float(outlet Outlet, f float64)
	Symbol(outlet Outlet, s string)
	List(outlet Outlet, atoms []atom.Atom)
	Anything(outlet Outlet, tag string, args []atom.Atom)
}

// Emit dispatches a decoded message to the matching Emitter operation.
func Emit(e Emitter, outlet Outlet, msg Message) {
	switch msg.Kind {
	case KindFloat:
		e.Float(outlet, msg.Float)
	case KindSymbol:
		e.Symbol(outlet, msg.Symbol)
	case KindList:
		e.List(outlet, msg.Atoms)
	case KindAnything:
		e.Anything(outlet, msg.Tag, msg.Atoms)
	default:
		panic(fmt.Sprintf("emitter: unknown message kind %d", int(msg.Kind)))
	}
}

// Fanout forwards every message to each emitter in order.
type Fanout []Emitter

func (f Fanout) Float(outlet Outlet, v float64) {
	for _, e := range f {
		e.Float(outlet, v)
	}
}

func (f Fanout) Symbol(outlet Outlet, s string) {
	for _, e := range f {
		e.Symbol(outlet, s)
	}
}

func (f Fanout) List(outlet Outlet, atoms []atom.Atom) {
	for _, e := range f {
		e.List(outlet, atoms)
	}
}

func (f Fanout) Anything(outlet Outlet, tag string, args []atom.Atom) {
	for _, e := range f {
		e.Anything(outlet, tag, args)
	}
}
