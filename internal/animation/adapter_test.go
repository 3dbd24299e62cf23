package animation

import (
	"testing"

	"github.com/Versifine/gait/internal/event"
	"github.com/Versifine/gait/internal/locomotion"
)

func TestParamHandlesAreDistinct(t *testing.T) {
	seen := make(map[Handle]Param)
	for _, p := range Params() {
		h := p.Handle()
		if h != HashName(p.Name()) {
			t.Fatalf("%s handle = %d, want hash of name", p, h)
		}
		if other, dup := seen[h]; dup {
			t.Fatalf("%s and %s share handle %d", p, other, h)
		}
		seen[h] = p
		if got, ok := Lookup(h); !ok || got != p {
			t.Fatalf("Lookup(%d) = %v %v, want %s", h, got, ok, p)
		}
	}
	if len(seen) != 5 {
		t.Fatalf("params = %d, want 5", len(seen))
	}
	if Param(42).Name() != "unknown" {
		t.Fatalf("Param(42).Name() = %q, want unknown", Param(42).Name())
	}
}

func TestHashName_FNV1a(t *testing.T) {
	// FNV-1a 32-bit offset basis for the empty input.
	if h := HashName(""); h != 0x811c9dc5 {
		t.Fatalf("HashName(\"\") = %#x, want 0x811c9dc5", uint32(h))
	}
}

func TestAdapter_FirstApplyWritesEverything(t *testing.T) {
	rec := NewRecorder()
	a := NewAdapter("hero", rec)

	a.Apply(locomotion.Signals{})

	if n := len(rec.Writes()); n != 5 {
		t.Fatalf("writes = %d, want 5", n)
	}
}

func TestAdapter_WritesOnlyChanges(t *testing.T) {
	rec := NewRecorder()
	a := NewAdapter("hero", rec)
	a.Apply(locomotion.Signals{})
	rec.Reset()

	a.Apply(locomotion.Signals{})
	if n := len(rec.Writes()); n != 0 {
		t.Fatalf("writes for unchanged signals = %d, want 0", n)
	}

	a.Apply(locomotion.Signals{IsWalking: true, IsRunning: true})
	writes := rec.Writes()
	if len(writes) != 2 {
		t.Fatalf("writes = %v, want 2", writes)
	}
	if !rec.Bool(IsWalking) || !rec.Bool(IsRunning) {
		t.Fatalf("walking=%v running=%v, want true true", rec.Bool(IsWalking), rec.Bool(IsRunning))
	}
}

func TestAdapter_BusEventsDriveJumpParams(t *testing.T) {
	rec := NewRecorder()
	bus := event.NewBus()
	a := NewAdapter("hero", rec)
	a.Attach(bus)

	bus.Publish(event.EventJump, event.JumpEvent{Character: "hero", Index: 2})
	if !rec.Bool(IsJumping) || rec.Int(JumpIndex) != 2 {
		t.Fatalf("jumping=%v index=%d, want true 2", rec.Bool(IsJumping), rec.Int(JumpIndex))
	}

	bus.Publish(event.EventJump, event.JumpEvent{Character: "other", Index: 1})
	if rec.Int(JumpIndex) != 2 {
		t.Fatalf("index = %d after another character's jump, want 2", rec.Int(JumpIndex))
	}

	bus.Publish(event.EventGrounded, event.GroundedEvent{Character: "hero"})
	if rec.Bool(IsJumping) || rec.Int(JumpIndex) != 0 {
		t.Fatalf("jumping=%v index=%d, want false 0", rec.Bool(IsJumping), rec.Int(JumpIndex))
	}

	a.Close()
	a.Close()
	if bus.Len(event.EventJump) != 0 || bus.Len(event.EventGrounded) != 0 {
		t.Fatalf("subscriptions left after Close")
	}

	before := len(rec.Writes())
	bus.Publish(event.EventJump, event.JumpEvent{Character: "hero", Index: 1})
	if len(rec.Writes()) != before {
		t.Fatalf("adapter still receiving events after Close")
	}
}

func TestAdapter_NilBackend(t *testing.T) {
	a := NewAdapter("ghost", nil)
	a.Apply(locomotion.Signals{IsWalking: true})
	a.Attach(nil)
	a.Close()
}
