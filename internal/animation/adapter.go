package animation

import (
	"github.com/Versifine/gait/internal/event"
	"github.com/Versifine/gait/internal/locomotion"
)

// Backend receives animator parameter writes.
type Backend interface {
	SetBool(h Handle, v bool)
	SetInt(h Handle, v int)
}

// Adapter mirrors locomotion signals onto a Backend, writing only values
// that changed since the last write.
type Adapter struct {
	backend   Backend
	character string

	written [paramCount]bool
	bools   [paramCount]bool
	ints    [paramCount]int
	cancels []func()
}

func NewAdapter(character string, backend Backend) *Adapter {
	return &Adapter{backend: backend, character: character}
}

// Apply pushes the tick's signals.
func (a *Adapter) Apply(sig locomotion.Signals) {
	a.setBool(IsWalking, sig.IsWalking)
	a.setBool(IsRunning, sig.IsRunning)
	a.setBool(IsJumping, sig.IsJumping)
	a.setBool(IsFalling, sig.IsFalling)
	a.setInt(JumpIndex, sig.JumpIndex)
}

// Attach listens for this character's jump and landing events on bus.
// Subscriptions live until Close.
func (a *Adapter) Attach(bus *event.Bus) {
	if bus == nil {
		return
	}
	a.cancels = append(a.cancels,
		bus.Subscribe(event.EventJump, func(raw any) {
			ev, ok := raw.(event.JumpEvent)
			if !ok || ev.Character != a.character {
				return
			}
			a.onJump(ev.Index)
		}),
		bus.Subscribe(event.EventGrounded, func(raw any) {
			ev, ok := raw.(event.GroundedEvent)
			if !ok || ev.Character != a.character {
				return
			}
			a.onGrounded()
		}),
	)
}

// Close releases bus subscriptions. It is safe to call more than once.
func (a *Adapter) Close() {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil
}

func (a *Adapter) onJump(index int) {
	a.setBool(IsJumping, true)
	a.setInt(JumpIndex, index)
}

func (a *Adapter) onGrounded() {
	a.setBool(IsJumping, false)
	a.setInt(JumpIndex, 0)
}

func (a *Adapter) setBool(p Param, v bool) {
	if a.backend == nil || a.written[p] && a.bools[p] == v {
		return
	}
	a.written[p] = true
	a.bools[p] = v
	a.backend.SetBool(p.Handle(), v)
}

func (a *Adapter) setInt(p Param, v int) {
	if a.backend == nil || a.written[p] && a.ints[p] == v {
		return
	}
	a.written[p] = true
	a.ints[p] = v
	a.backend.SetInt(p.Handle(), v)
}
