package arena

import (
	"errors"
	"math"
	"testing"

	"github.com/Versifine/gait/internal/animation"
	"github.com/Versifine/gait/internal/event"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/physics"
	"github.com/Versifine/gait/internal/scenario"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func newArena(t *testing.T) *Arena {
	t.Helper()
	a := New(Options{
		Settings: locomotion.DefaultSettings(),
		Store:    physics.FlatWorld{Top: -1},
		Seed:     7,
	})
	t.Cleanup(a.Close)
	return a
}

func walk() *scenario.Scenario {
	return &scenario.Scenario{
		Name:   "walk",
		Settle: 0.5,
		Steps:  []scenario.Step{{Duration: 1, Move: [2]float64{0, 1}}},
	}
}

func TestSpawn_DuplicateName(t *testing.T) {
	a := newArena(t)
	if _, err := a.Spawn("a", physics.Vec3{X: 0.5, Z: 0.5}, nil, 0); err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if _, err := a.Spawn("a", physics.Vec3{X: 3.5, Z: 0.5}, nil, 0); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Spawn(dup) error = %v, want ErrDuplicateName", err)
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}

func TestStep_PushSeparatesOverlapping(t *testing.T) {
	a := newArena(t)
	for name, x := range map[string]float64{"a": 0.5, "b": 0.7} {
		if _, err := a.Spawn(name, physics.Vec3{X: x, Z: 0.5}, nil, 0); err != nil {
			t.Fatalf("Spawn(%s) error: %v", name, err)
		}
	}

	a.Step(0.02)
	states := a.Snapshot()
	if len(states) != 2 || states[0].Name != "a" || states[1].Name != "b" {
		t.Fatalf("Snapshot() = %+v, want a then b", states)
	}
	approxEqual(t, states[0].Position.X, 0.42, 1e-9, "a.x after one push")
	approxEqual(t, states[1].Position.X, 0.78, 1e-9, "b.x after one push")

	for range 10 {
		a.Step(0.02)
	}
	states = a.Snapshot()
	if gap := states[1].Position.X - states[0].Position.X; gap < 0.6 {
		t.Fatalf("gap = %v, want at least one body width", gap)
	}
	for _, s := range states {
		approxEqual(t, s.Position.Y, 0, 1e-9, s.Name+".y")
		approxEqual(t, s.Position.Z, 0.5, 1e-9, s.Name+".z")
		if s.Root != locomotion.Grounded || s.Sub != locomotion.Idle || !s.Grounded {
			t.Fatalf("%s = %s/%s grounded=%v, want grounded idle", s.Name, s.Root, s.Sub, s.Grounded)
		}
	}
}

func TestStep_ScriptedWithDelay(t *testing.T) {
	a := newArena(t)
	if _, err := a.Spawn("a", physics.Vec3{X: 0.5, Z: 0.5}, walk(), 0); err != nil {
		t.Fatalf("Spawn(a) error: %v", err)
	}
	if _, err := a.Spawn("b", physics.Vec3{X: 3.5, Z: 0.5}, walk(), 0.5); err != nil {
		t.Fatalf("Spawn(b) error: %v", err)
	}

	for range 10 {
		a.Step(0.1)
	}
	states := a.Snapshot()
	approxEqual(t, states[0].Position.Z, 1.5, 1e-9, "a.z")
	approxEqual(t, states[1].Position.Z, 1.0, 1e-9, "b.z")
	if states[0].Tick != 10 || states[1].Tick != 10 {
		t.Fatalf("ticks = %d %d, want 10 10", states[0].Tick, states[1].Tick)
	}

	for i := 0; !a.Done(); i++ {
		if i > 100 {
			t.Fatal("arena never finished")
		}
		a.Step(0.1)
	}
	states = a.Snapshot()
	approxEqual(t, states[0].Position.Z, 1.5, 1e-9, "a.z final")
	approxEqual(t, states[1].Position.Z, 1.5, 1e-9, "b.z final")
	for _, s := range states {
		if s.Sub != locomotion.Idle {
			t.Fatalf("%s sub = %s, want idle", s.Name, s.Sub)
		}
	}
}

func TestStep_ManualJumpReachesAnimatorAndBus(t *testing.T) {
	bus := event.NewBus()
	a := New(Options{
		Settings: locomotion.DefaultSettings(),
		Store:    physics.FlatWorld{Top: -1},
		Bus:      bus,
	})
	t.Cleanup(a.Close)

	var jumps []event.JumpEvent
	cancel := bus.Subscribe(event.EventJump, func(raw any) {
		jumps = append(jumps, raw.(event.JumpEvent))
	})
	defer cancel()

	if _, err := a.Spawn("hero", physics.Vec3{X: 0.5, Z: 0.5}, nil, 0); err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	src, ok := a.Manual("hero")
	if !ok {
		t.Fatal("Manual(hero) not found")
	}
	src.Jump(true)
	a.Step(0.02)

	if len(jumps) != 1 || jumps[0].Character != "hero" {
		t.Fatalf("jump events = %+v, want one for hero", jumps)
	}
	ch, ok := a.Lookup("hero")
	if !ok {
		t.Fatal("Lookup(hero) not found")
	}
	if !ch.Animator.Bool(animation.IsJumping) {
		t.Fatal("IsJumping not written to animator")
	}
	if s := a.Snapshot()[0]; s.Root != locomotion.Jump || s.Position.Y <= 0 {
		t.Fatalf("after jump = %+v, want airborne in Jump", s)
	}
}

func TestStep_PausedAndDespawn(t *testing.T) {
	a := newArena(t)
	if _, err := a.Spawn("a", physics.Vec3{X: 0.5, Z: 0.5}, walk(), 0); err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	a.Step(0)
	a.Step(-1)
	if a.Steps() != 0 || a.Snapshot()[0].Tick != 0 {
		t.Fatalf("paused steps advanced the arena: steps=%d", a.Steps())
	}

	if !a.Despawn("a") {
		t.Fatal("Despawn(a) = false")
	}
	if a.Despawn("a") {
		t.Fatal("second Despawn(a) = true")
	}
	if a.Len() != 0 || len(a.Snapshot()) != 0 {
		t.Fatalf("arena not empty after despawn")
	}
	a.Step(0.1)
}
