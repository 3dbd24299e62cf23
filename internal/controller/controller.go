package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Versifine/gait/internal/animation"
	"github.com/Versifine/gait/internal/event"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/motion"
	"github.com/Versifine/gait/internal/physics"
)

var ErrMissingCollaborator = errors.New("missing collaborator")

type Options struct {
	Name     string
	Settings locomotion.Settings
	Collider motion.Collider
	Source   input.Source
	// Backend and Bus are optional. Without a Bus the controller uses a
	// private one so the animation adapter still sees jump and landing events.
	Backend    animation.Backend
	Bus        *event.Bus
	Sampler    locomotion.Sampler
	InitialYaw float64
}

// Frame is the externally visible result of one tick.
type Frame struct {
	Tick             uint64
	Position         physics.Vec3
	Yaw              float64
	Root             locomotion.Root
	Sub              locomotion.Sub
	Applied          physics.Vec3
	Displacement     physics.Vec3
	VerticalVelocity float64
	Grounded         bool
	Signals          locomotion.Signals
}

// Controller owns one character: its input intent, state machine,
// integrator and animation adapter.
type Controller struct {
	name       string
	collider   motion.Collider
	source     input.Source
	intent     *input.Intent
	binding    *input.Binding
	machine    *locomotion.Machine
	integrator *motion.Integrator
	adapter    *animation.Adapter
	bus        *event.Bus

	tick uint64
	last Frame
}

func New(opts Options) (*Controller, error) {
	if opts.Collider == nil {
		return nil, fmt.Errorf("controller %q: collider: %w", opts.Name, ErrMissingCollaborator)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("controller %q: input source: %w", opts.Name, ErrMissingCollaborator)
	}

	machine, err := locomotion.NewMachine(opts.Name, opts.Settings, opts.Sampler)
	if err != nil {
		return nil, fmt.Errorf("controller %q: %w", opts.Name, err)
	}

	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	c := &Controller{
		name:     opts.Name,
		collider: opts.Collider,
		source:   opts.Source,
		intent:   input.NewIntent(),
		machine:  machine,
		integrator: motion.NewIntegrator(
			opts.Collider,
			opts.Settings.Movement.MovementSpeed,
			opts.Settings.Movement.RotationFactorPerFrame,
			opts.InitialYaw,
		),
		adapter: animation.NewAdapter(opts.Name, opts.Backend),
		bus:     bus,
	}
	c.adapter.Attach(bus)
	c.last = c.frame(motion.Result{Yaw: c.integrator.Facing().Yaw()}, machine.Context().Applied, locomotion.Signals{
		Root: machine.Root(),
		Sub:  machine.Sub(),
	})
	return c, nil
}

// Enable starts receiving input from the source.
func (c *Controller) Enable() {
	if c.binding != nil {
		return
	}
	c.binding = input.Bind(c.source, c.intent)
	slog.Debug("Controller enabled", "character", c.name)
}

// Disable detaches from the input source before returning and releases any
// held input.
func (c *Controller) Disable() {
	if c.binding == nil {
		return
	}
	c.binding.Release()
	c.binding = nil
	c.intent.Reset()
	slog.Debug("Controller disabled", "character", c.name)
}

func (c *Controller) Enabled() bool {
	return c.binding != nil
}

// Close disables the controller and drops its bus subscriptions.
func (c *Controller) Close() {
	c.Disable()
	c.adapter.Close()
}

// Tick runs one simulation step against the given camera. A non-positive dt
// returns the previous frame, without its one-shot events, and consumes no
// input.
func (c *Controller) Tick(dt float64, cam input.Camera) Frame {
	if dt <= 0 {
		paused := c.last
		paused.Signals.Events = nil
		return paused
	}

	in := c.intent.Snapshot().Project(cam)
	applied, sig := c.machine.Tick(dt, in, c.collider.IsGrounded())
	res := c.integrator.Step(applied, in.Relative, in.MovementPressed(), dt)
	c.publish(sig.Events)
	c.adapter.Apply(sig)

	c.tick++
	c.last = c.frame(res, applied, sig)
	return c.last
}

func (c *Controller) frame(res motion.Result, applied physics.Vec3, sig locomotion.Signals) Frame {
	return Frame{
		Tick:             c.tick,
		Position:         c.collider.Position(),
		Yaw:              res.Yaw,
		Root:             sig.Root,
		Sub:              sig.Sub,
		Applied:          applied,
		Displacement:     res.Displacement,
		VerticalVelocity: c.machine.Context().VerticalVelocity,
		Grounded:         c.collider.IsGrounded(),
		Signals:          sig,
	}
}

func (c *Controller) publish(events []locomotion.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case locomotion.EventJump:
			c.bus.Publish(event.EventJump, event.JumpEvent{Character: c.name, Index: ev.JumpIndex})
		case locomotion.EventGrounded:
			c.bus.Publish(event.EventGrounded, event.GroundedEvent{Character: c.name})
		case locomotion.EventFalling:
			c.bus.Publish(event.EventFalling, event.FallingEvent{Character: c.name})
		case locomotion.EventRootChanged:
			c.bus.Publish(event.EventRoot, event.StateEvent{
				Character: c.name,
				From:      ev.FromRoot.String(),
				To:        ev.ToRoot.String(),
			})
		case locomotion.EventSubChanged:
			c.bus.Publish(event.EventSub, event.StateEvent{
				Character: c.name,
				From:      ev.FromSub.String(),
				To:        ev.ToSub.String(),
			})
		}
	}
}

type positioner interface {
	SetPosition(physics.Vec3)
}

// Teleport moves the character without sweeping. The collider must support
// SetPosition.
func (c *Controller) Teleport(pos physics.Vec3) error {
	p, ok := c.collider.(positioner)
	if !ok {
		return fmt.Errorf("controller %q: collider %T cannot teleport", c.name, c.collider)
	}
	p.SetPosition(pos)
	c.last.Position = c.collider.Position()
	c.last.Grounded = c.collider.IsGrounded()
	return nil
}

// Reset returns the state machine to Grounded/Idle and faces yaw.
func (c *Controller) Reset(yaw float64) {
	c.machine.Reset()
	c.integrator.SetYaw(yaw)
	c.intent.Reset()
	c.intent.ClearEdge()
	c.last = c.frame(motion.Result{Yaw: c.integrator.Facing().Yaw()}, c.machine.Context().Applied, locomotion.Signals{
		Root: c.machine.Root(),
		Sub:  c.machine.Sub(),
	})
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) Last() Frame { return c.last }

func (c *Controller) Intent() *input.Intent { return c.intent }

func (c *Controller) Machine() *locomotion.Machine { return c.machine }

func (c *Controller) Bus() *event.Bus { return c.bus }

func (c *Controller) Collider() motion.Collider { return c.collider }
