package emitter

import (
	"bytes"
	"testing"

	"github.com/codecrafters-io/command-supervisor/atom"
	"github.com/stretchr/testify/assert"
)

func TestEmitDispatchesByKind(t *testing.T) {
	r := NewRecorder()

	Emit(r, Stdout, FloatMessage(42))
	Emit(r, Stdout, ListMessage([]atom.Atom{atom.Float(3), atom.Float(4)}))
	Emit(r, Stderr, AnythingMessage("hello", []atom.Atom{atom.Symbol("world")}))
	Emit(r, Stderr, SymbolMessage("raw text"))

	records := r.Records()
	assert.Len(t, records, 4)
	assert.Equal(t, Record{Outlet: Stdout, Message: FloatMessage(42)}, records[0])
	assert.Equal(t, KindList, records[1].Message.Kind)
	assert.Equal(t, "hello", records[2].Message.Tag)
	assert.Equal(t, Stderr, records[3].Outlet)

	assert.Len(t, r.Messages(Stdout), 2)
	assert.Len(t, r.Messages(Stderr), 2)
	assert.Empty(t, r.Messages(Done))
}

func TestRecorderHelpers(t *testing.T) {
	r := NewRecorder()

	_, ok := r.ExitStatus()
	assert.False(t, ok)

	r.List(Stdout, []atom.Atom{atom.Float('h'), atom.Float('i')})
	r.List(Stdout, []atom.Atom{atom.Float('\n')})
	r.Symbol(Stderr, "ab")
	r.Symbol(Stderr, "cd")
	r.Float(Done, 3)

	assert.Equal(t, []byte("hi\n"), r.Bytes(Stdout))
	assert.Equal(t, "abcd", r.Text(Stderr))

	status, ok := r.ExitStatus()
	assert.True(t, ok)
	assert.Equal(t, 3, status)

	r.Reset()
	assert.Empty(t, r.Records())
}

func TestRecorderCopiesAtoms(t *testing.T) {
	r := NewRecorder()
	atoms := []atom.Atom{atom.Float(1)}

	r.List(Stdout, atoms)
	atoms[0] = atom.Float(2)

	assert.Equal(t, 1.0, r.Messages(Stdout)[0].Atoms[0].FloatValue())
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "42", FloatMessage(42).String())
	assert.Equal(t, "symbol abc", SymbolMessage("abc").String())
	assert.Equal(t, "list 3 4 5", ListMessage([]atom.Atom{atom.Float(3), atom.Float(4), atom.Float(5)}).String())
	assert.Equal(t, "hello world", AnythingMessage("hello", []atom.Atom{atom.Symbol("world")}).String())
	assert.Equal(t, "bang", AnythingMessage("bang", nil).String())
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.Float(Done, 0)
	p.Anything(Stdout, "hello", []atom.Atom{atom.Symbol("world")})
	p.List(Stderr, []atom.Atom{atom.Float(1), atom.Float(2)})
	p.Symbol(Stdout, "x")

	assert.Equal(t, "done: 0\nstdout: hello world\nstderr: list 1 2\nstdout: symbol x\n", out.String())
}

func TestFanout(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	f := Fanout{a, b}

	f.Float(Done, 1)
	f.Symbol(Stdout, "s")
	f.List(Stdout, nil)
	f.Anything(Stderr, "t", nil)

	assert.Equal(t, a.Records(), b.Records())
	assert.Len(t, a.Records(), 4)
}

func TestOutletString(t *testing.T) {
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "stdout", Stdout.String())
	assert.Equal(t, "stderr", Stderr.String())
	assert.Equal(t, "unknown(7)", Outlet(7).String())
}
