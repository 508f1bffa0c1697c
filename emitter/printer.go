package emitter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes one line per message, prefixed by the outlet name.
// Lines are colored per outlet when the writer is a terminal.
type Printer struct {
	mu     sync.Mutex
	writer io.Writer
	colors map[Outlet]*color.Color
}

func NewPrinter(w io.Writer) *Printer {
	useColor := isTerminal(w)

	colors := map[Outlet]*color.Color{
		Done:   color.New(color.FgHiGreen),
		Stdout: color.New(color.FgHiBlue),
		Stderr: color.New(color.FgHiRed),
	}

	for _, c := range colors {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &Printer{writer: w, colors: colors}
}

func (p *Printer) Float(outlet Outlet, f float64) {
	p.print(outlet, FloatMessage(f))
}

func (p *Printer) Symbol(outlet Outlet, s string) {
	p.print(outlet, SymbolMessage(s))
}

func (p *Printer) List(outlet Outlet, atoms []atom.Atom) {
	p.print(outlet, ListMessage(atoms))
}

func (p *Printer) Anything(outlet Outlet, tag string, args []atom.Atom) {
	p.print(outlet, AnythingMessage(tag, args))
}

func (p *Printer) print(outlet Outlet, msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefix := fmt.Sprintf("%s: ", outlet)
	if c, ok := p.colors[outlet]; ok {
		prefix = c.Sprint(prefix)
	}

	fmt.Fprintf(p.writer, "%s%s\n", prefix, msg)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd())
}
