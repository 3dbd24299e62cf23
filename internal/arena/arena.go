package arena

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Versifine/gait/internal/animation"
	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/event"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/physics"
	"github.com/Versifine/gait/internal/scenario"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var ErrDuplicateName = errors.New("duplicate character name")

type Options struct {
	Settings locomotion.Settings
	Shape    physics.Shape
	Store    physics.BlockStore
	// Seed feeds each character's jump variety sampler, offset by spawn order.
	Seed uint64
	// Bus receives every character's events. A private bus is used when nil.
	Bus *event.Bus
}

// State is one character as seen by Snapshot.
type State struct {
	Name     string
	Position physics.Vec3
	Yaw      float64
	Root     locomotion.Root
	Sub      locomotion.Sub
	Grounded bool
	Tick     uint64
}

// Arena runs many controllers in one donburi world. Each Step runs the
// systems in order: scripted input, locomotion, push separation and
// transform sync.
type Arena struct {
	ecs    *ecs.ECS
	opts   Options
	bus    *event.Bus
	names  map[string]donburi.Entity
	spawns uint64
	dt     float64
	steps  uint64
}

func New(opts Options) *Arena {
	if opts.Shape == (physics.Shape{}) {
		opts.Shape = physics.DefaultShape()
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	a := &Arena{
		ecs:   ecs.NewECS(donburi.NewWorld()),
		opts:  opts,
		bus:   bus,
		names: make(map[string]donburi.Entity),
	}
	a.ecs.AddSystem(a.updateScriptedInput)
	a.ecs.AddSystem(a.updateLocomotion)
	a.ecs.AddSystem(a.updatePush)
	a.ecs.AddSystem(a.updateTransforms)
	return a
}

// Spawn adds a character at pos. With a timeline the character is driven by
// it after delay seconds; without one it listens to a manual source that
// Manual returns.
func (a *Arena) Spawn(name string, pos physics.Vec3, timeline *scenario.Scenario, delay float64) (*CharacterData, error) {
	if _, ok := a.names[name]; ok {
		return nil, fmt.Errorf("arena: %q: %w", name, ErrDuplicateName)
	}

	var (
		source input.Source
		drv    *scenario.Driver
		manual *input.Manual
	)
	if timeline != nil {
		drv = scenario.NewDelayedDriver(timeline, delay)
		source = drv
	} else {
		manual = input.NewManual()
		source = manual
	}

	body := physics.NewBody(a.opts.Shape, pos, a.opts.Store)
	rec := animation.NewRecorder()
	ctrl, err := controller.New(controller.Options{
		Name:     name,
		Settings: a.opts.Settings,
		Collider: body,
		Source:   source,
		Backend:  rec,
		Bus:      a.bus,
		Sampler:  locomotion.NewSeededSampler(a.opts.Seed + a.spawns),
	})
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	ctrl.Enable()
	a.spawns++

	world := a.ecs.World
	var entity donburi.Entity
	if drv != nil {
		entity = world.Create(Character, Transform, ScriptedInput)
		ScriptedInput.Set(world.Entry(entity), &ScriptedInputData{Driver: drv})
	} else {
		entity = world.Create(Character, Transform)
	}
	entry := world.Entry(entity)
	ch := &CharacterData{
		Name:       name,
		Controller: ctrl,
		Body:       body,
		Animator:   rec,
		Manual:     manual,
	}
	Character.Set(entry, ch)
	Transform.Set(entry, &TransformData{Position: body.Position(), Yaw: ctrl.Last().Yaw})
	a.names[name] = entity

	slog.Debug("Arena character spawned", "character", name, "pos", pos, "scripted", drv != nil)
	return Character.Get(entry), nil
}

// Despawn removes the character and closes its controller.
func (a *Arena) Despawn(name string) bool {
	entity, ok := a.names[name]
	if !ok {
		return false
	}
	world := a.ecs.World
	if world.Valid(entity) {
		Character.Get(world.Entry(entity)).Controller.Close()
		world.Remove(entity)
	}
	delete(a.names, name)
	return true
}

// Step advances every character by dt. Non-positive dt is a paused frame.
func (a *Arena) Step(dt float64) {
	if dt <= 0 {
		return
	}
	a.dt = dt
	a.ecs.Update()
	a.steps++
}

// Done reports whether every scripted character has finished its timeline.
func (a *Arena) Done() bool {
	done := true
	ScriptedInput.Each(a.ecs.World, func(entry *donburi.Entry) {
		if !ScriptedInput.Get(entry).Driver.Done() {
			done = false
		}
	})
	return done
}

// Snapshot returns every character sorted by name.
func (a *Arena) Snapshot() []State {
	states := make([]State, 0, len(a.names))
	Character.Each(a.ecs.World, func(entry *donburi.Entry) {
		ch := Character.Get(entry)
		tf := Transform.Get(entry)
		last := ch.Controller.Last()
		states = append(states, State{
			Name:     ch.Name,
			Position: tf.Position,
			Yaw:      tf.Yaw,
			Root:     last.Root,
			Sub:      last.Sub,
			Grounded: last.Grounded,
			Tick:     last.Tick,
		})
	})
	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}

// Lookup finds a spawned character by name.
func (a *Arena) Lookup(name string) (*CharacterData, bool) {
	entity, ok := a.names[name]
	if !ok || !a.ecs.World.Valid(entity) {
		return nil, false
	}
	return Character.Get(a.ecs.World.Entry(entity)), true
}

// Manual returns the input source of a character spawned without a timeline.
func (a *Arena) Manual(name string) (*input.Manual, bool) {
	ch, ok := a.Lookup(name)
	if !ok || ch.Manual == nil {
		return nil, false
	}
	return ch.Manual, true
}

func (a *Arena) Len() int { return len(a.names) }

func (a *Arena) Steps() uint64 { return a.steps }

func (a *Arena) Bus() *event.Bus { return a.bus }

// Close closes every controller.
func (a *Arena) Close() {
	Character.Each(a.ecs.World, func(entry *donburi.Entry) {
		Character.Get(entry).Controller.Close()
	})
}
