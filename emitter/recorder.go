package emitter

import (
	"sync"

	"github.com/codecrafters-io/command-supervisor/atom"
)

// Record is a single message captured by a Recorder.
type Record struct {
	Outlet  Outlet
	Message Message
}

// Recorder is an Emitter that keeps every message in arrival order.
// It is safe for concurrent use so tests can inspect it while a host loop runs.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Float(outlet Outlet, f float64) {
	r.add(outlet, FloatMessage(f))
}

func (r *Recorder) Symbol(outlet Outlet, s string) {
	r.add(outlet, SymbolMessage(s))
}

func (r *Recorder) List(outlet Outlet, atoms []atom.Atom) {
	r.add(outlet, ListMessage(append([]atom.Atom(nil), atoms...)))
}

func (r *Recorder) Anything(outlet Outlet, tag string, args []atom.Atom) {
	r.add(outlet, AnythingMessage(tag, append([]atom.Atom(nil), args...)))
}

func (r *Recorder) add(outlet Outlet, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Outlet: outlet, Message: msg})
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Messages returns the messages recorded on a single outlet.
func (r *Recorder) Messages(outlet Outlet) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []Message
	for _, record := range r.records {
		if record.Outlet == outlet {
			messages = append(messages, record.Message)
		}
	}
	return messages
}

// Bytes concatenates the byte lists recorded on outlet, as produced in binary mode.
func (r *Recorder) Bytes(outlet Outlet) []byte {
	var data []byte
	for _, msg := range r.Messages(outlet) {
		if msg.Kind != KindList {
			continue
		}
		for _, a := range msg.Atoms {
			data = append(data, byte(a.FloatValue()))
		}
	}
	return data
}

// Text concatenates the symbols recorded on outlet, as produced in opaque text mode.
func (r *Recorder) Text(outlet Outlet) string {
	var text string
	for _, msg := range r.Messages(outlet) {
		if msg.Kind == KindSymbol {
			text += msg.Symbol
		}
	}
	return text
}

// ExitStatus returns the last completion status recorded, if any.
func (r *Recorder) ExitStatus() (int, bool) {
	done := r.Messages(Done)
	if len(done) == 0 {
		return 0, false
	}
	return int(done[len(done)-1].Float), true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
