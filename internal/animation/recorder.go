package animation

import (
	"fmt"
	"sync"
)

// Write is one parameter write seen by a Recorder.
type Write struct {
	Param Param
	Bool  bool
	Int   int
	IsInt bool
}

func (w Write) String() string {
	if w.IsInt {
		return fmt.Sprintf("%s=%d", w.Param.Name(), w.Int)
	}
	return fmt.Sprintf("%s=%t", w.Param.Name(), w.Bool)
}

// Recorder is an in-memory Backend that keeps every write.
type Recorder struct {
	mu     sync.Mutex
	writes []Write
	bools  map[Param]bool
	ints   map[Param]int
}

func NewRecorder() *Recorder {
	return &Recorder{
		bools: make(map[Param]bool),
		ints:  make(map[Param]int),
	}
}

func (r *Recorder) SetBool(h Handle, v bool) {
	p, ok := Lookup(h)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bools[p] = v
	r.writes = append(r.writes, Write{Param: p, Bool: v})
}

func (r *Recorder) SetInt(h Handle, v int) {
	p, ok := Lookup(h)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints[p] = v
	r.writes = append(r.writes, Write{Param: p, Int: v, IsInt: true})
}

func (r *Recorder) Bool(p Param) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bools[p]
}

func (r *Recorder) Int(p Param) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ints[p]
}

// Writes returns a copy of every write so far.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	clear(r.bools)
	clear(r.ints)
}
