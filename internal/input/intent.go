package input

import "sync"

type Vec2 struct {
	X float64
	Y float64
}

// Pressed reports whether either component is non-zero.
func (v Vec2) Pressed() bool {
	return v.X != 0 || v.Y != 0
}

// Snapshot is the input state read once at the start of a tick.
type Snapshot struct {
	Move Vec2
	Run  bool
	Jump bool
	// JumpEdge is set when any jump event arrived since the previous snapshot.
	JumpEdge bool
}

// Intent holds the latest input written by device callbacks. Writes are
// last-write-wins; only the jump edge survives coalescing.
type Intent struct {
	mu       sync.Mutex
	move     Vec2
	run      bool
	jump     bool
	jumpEdge bool
}

func NewIntent() *Intent {
	return &Intent{}
}

func (i *Intent) OnMove(x, y float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.move = Vec2{X: x, Y: y}
}

func (i *Intent) OnRun(held bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.run = held
}

func (i *Intent) OnJump(held bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.jump = held
	i.jumpEdge = true
}

// Handle routes a device event to the matching setter.
func (i *Intent) Handle(ev Event) {
	switch ev.Kind {
	case KindMove:
		if ev.Phase == PhaseCanceled {
			i.OnMove(0, 0)
			return
		}
		i.OnMove(ev.Value.X, ev.Value.Y)
	case KindRun:
		i.OnRun(ev.Phase != PhaseCanceled && ev.Held)
	case KindJump:
		i.OnJump(ev.Phase != PhaseCanceled && ev.Held)
	}
}

// Snapshot returns the current state and clears the jump edge.
func (i *Intent) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	s := Snapshot{Move: i.move, Run: i.run, Jump: i.jump, JumpEdge: i.jumpEdge}
	i.jumpEdge = false
	return s
}

// Peek returns the current state without consuming the jump edge.
func (i *Intent) Peek() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Snapshot{Move: i.move, Run: i.run, Jump: i.jump, JumpEdge: i.jumpEdge}
}

// ClearEdge drops a pending jump edge so the next snapshot sees only held state.
func (i *Intent) ClearEdge() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.jumpEdge = false
}

// Reset releases every held input, as a device does when it is disabled.
// A held jump being released counts as a jump edge.
func (i *Intent) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.jump {
		i.jumpEdge = true
	}
	i.move = Vec2{}
	i.run = false
	i.jump = false
}
