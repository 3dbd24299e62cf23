package locomotion

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/motion"
	"github.com/Versifine/gait/internal/physics"
)

// Sampler picks a jump variant in [0, n).
type Sampler interface {
	IntN(n int) int
}

type globalSampler struct{}

func (globalSampler) IntN(n int) int { return rand.IntN(n) }

// NewSeededSampler returns a deterministic sampler for reproducible runs.
func NewSeededSampler(seed uint64) Sampler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Context is the continuous state shared by every locomotion state.
type Context struct {
	VerticalVelocity float64
	Applied          physics.Vec3
	RelativeInput    input.Vec2
	Flags            Flags
	IsWalking        bool
	IsRunning        bool
	IsJumping        bool
	IsFalling        bool
	JumpIndex        int
}

type EventKind int

const (
	EventJump EventKind = iota
	EventGrounded
	EventFalling
	EventRootChanged
	EventSubChanged
)

func (k EventKind) String() string {
	switch k {
	case EventJump:
		return "jump"
	case EventGrounded:
		return "grounded"
	case EventFalling:
		return "falling"
	case EventRootChanged:
		return "root_changed"
	case EventSubChanged:
		return "sub_changed"
	default:
		return "unknown"
	}
}

// Event is a one-shot notification raised while a tick runs.
type Event struct {
	Kind      EventKind
	JumpIndex int
	FromRoot  Root
	ToRoot    Root
	FromSub   Sub
	ToSub     Sub
}

// Signals is what the machine exposes to animation and reporting after a tick.
type Signals struct {
	Root      Root
	Sub       Sub
	Regime    motion.Regime
	IsWalking bool
	IsRunning bool
	IsJumping bool
	IsFalling bool
	JumpIndex int
	Events    []Event
}

// Machine is the two-level locomotion state machine for one character.
type Machine struct {
	name     string
	settings Settings
	vertical motion.Vertical
	sampler  Sampler

	ctx    Context
	root   Root
	sub    Sub
	events []Event
}

// NewMachine validates settings and starts the machine in Grounded/Idle.
// A nil sampler draws from the global source.
func NewMachine(name string, settings Settings, sampler Sampler) (*Machine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("locomotion machine %q: %w", name, err)
	}
	if sampler == nil {
		sampler = globalSampler{}
	}
	m := &Machine{
		name:     name,
		settings: settings,
		sampler:  sampler,
		vertical: motion.Vertical{
			GroundGravity:  settings.Movement.GroundGravity,
			Gravity:        settings.Jump.Gravity(),
			FallMultiplier: settings.Movement.FallMultiplier,
		},
		events: make([]Event, 0, 8),
	}
	m.Reset()
	return m, nil
}

// Reset puts the machine back in Grounded/Idle with no pending input.
func (m *Machine) Reset() {
	m.ctx = Context{}
	m.root = Grounded
	m.sub = Idle
	m.ctx.VerticalVelocity = m.settings.Movement.GroundGravity
	m.ctx.Applied.Y = m.settings.Movement.GroundGravity
	m.events = m.events[:0]
}

// Tick advances the machine by one simulation step. A non-positive dt is a
// paused frame: nothing changes and the previous applied movement is returned.
func (m *Machine) Tick(dt float64, in input.Frame, grounded bool) (physics.Vec3, Signals) {
	m.events = m.events[:0]
	if dt <= 0 {
		return m.ctx.Applied, m.signals()
	}

	m.refresh(in)

	rootEntered := false
	if next := NextRoot(m.root, m.ctx.Flags, grounded); next != m.root {
		m.switchRoot(next)
		rootEntered = true
	} else if next := NextSub(m.sub, m.ctx.Flags); next != m.sub {
		m.switchSub(next)
	}

	m.updateSub()
	if !rootEntered {
		m.updateRoot(dt)
	}
	return m.ctx.Applied, m.signals()
}

func (m *Machine) refresh(in input.Frame) {
	m.ctx.RelativeInput = in.Relative
	m.ctx.Flags.MovementPressed = in.MovementPressed()
	m.ctx.Flags.RunPressed = in.Run
	m.ctx.Flags.JumpPressed = in.Jump
	if in.JumpEdge {
		m.ctx.Flags.RequireNewJumpPress = false
	}
}

func (m *Machine) switchRoot(next Root) {
	prevRoot, prevSub := m.root, m.sub

	m.exitSub(prevSub)
	m.exitRoot(prevRoot)
	m.emit(Event{Kind: EventRootChanged, FromRoot: prevRoot, ToRoot: next})

	m.root = next
	m.enterRoot(next, prevRoot)
	m.sub = InitialSub(m.ctx.Flags)
	m.enterSub(m.sub)
	if m.sub != prevSub {
		m.emit(Event{Kind: EventSubChanged, FromSub: prevSub, ToSub: m.sub})
	}

	slog.Debug("Locomotion root changed",
		"character", m.name,
		"from", prevRoot.String(),
		"to", next.String(),
		"sub", m.sub.String(),
	)
}

func (m *Machine) switchSub(next Sub) {
	prev := m.sub
	m.exitSub(prev)
	m.sub = next
	m.enterSub(next)
	m.emit(Event{Kind: EventSubChanged, FromSub: prev, ToSub: next})

	slog.Debug("Locomotion sub changed",
		"character", m.name,
		"root", m.root.String(),
		"from", prev.String(),
		"to", next.String(),
	)
}

func (m *Machine) enterRoot(r Root, from Root) {
	switch r {
	case Grounded:
		m.ctx.VerticalVelocity = m.settings.Movement.GroundGravity
		m.ctx.Applied.Y = m.settings.Movement.GroundGravity
		m.ctx.IsJumping = false
		m.ctx.JumpIndex = 0
		if from == Jump || from == Fall {
			m.emit(Event{Kind: EventGrounded})
		}
	case Jump:
		m.ctx.IsJumping = true
		m.ctx.JumpIndex = m.sampleJumpIndex()
		v := m.settings.Jump.Velocity()
		m.ctx.VerticalVelocity = v
		m.ctx.Applied.Y = v
		m.emit(Event{Kind: EventJump, JumpIndex: m.ctx.JumpIndex})
	case Fall:
		m.ctx.IsFalling = true
		m.emit(Event{Kind: EventFalling})
	}
}

func (m *Machine) exitRoot(r Root) {
	switch r {
	case Jump:
		if m.ctx.Flags.JumpPressed {
			m.ctx.Flags.RequireNewJumpPress = true
		}
		m.ctx.IsJumping = false
	case Fall:
		m.ctx.IsFalling = false
	}
}

func (m *Machine) updateRoot(dt float64) {
	v, applied := m.vertical.Step(m.regime(), m.ctx.VerticalVelocity, dt)
	m.ctx.VerticalVelocity = v
	m.ctx.Applied.Y = applied
}

// regime maps the active root onto a vertical integration mode. A jump falls
// once it stops rising or the button is released.
func (m *Machine) regime() motion.Regime {
	switch m.root {
	case Jump:
		if m.ctx.VerticalVelocity <= 0 || !m.ctx.Flags.JumpPressed {
			return motion.Falling
		}
		return motion.Rising
	case Fall:
		return motion.Falling
	default:
		return motion.Pinned
	}
}

func (m *Machine) enterSub(s Sub) {
	switch s {
	case Idle:
		m.ctx.Applied.X = 0
		m.ctx.Applied.Z = 0
		m.ctx.IsWalking = false
		m.ctx.IsRunning = false
	case Walk:
		m.ctx.IsWalking = true
		m.ctx.IsRunning = false
	case Run:
		m.ctx.IsWalking = true
		m.ctx.IsRunning = true
	}
}

// No substate has exit behaviour yet.
func (m *Machine) exitSub(Sub) {}

func (m *Machine) updateSub() {
	switch m.sub {
	case Walk:
		m.ctx.Applied.X = m.ctx.RelativeInput.X
		m.ctx.Applied.Z = m.ctx.RelativeInput.Y
	case Run:
		k := m.settings.Movement.RunMultiplier
		m.ctx.Applied.X = m.ctx.RelativeInput.X * k
		m.ctx.Applied.Z = m.ctx.RelativeInput.Y * k
	}
}

func (m *Machine) sampleJumpIndex() int {
	n := m.settings.Jump.MaxJumpVarieties
	if n <= 1 {
		return 0
	}
	idx := m.sampler.IntN(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

func (m *Machine) emit(ev Event) {
	m.events = append(m.events, ev)
}

func (m *Machine) signals() Signals {
	s := Signals{
		Root:      m.root,
		Sub:       m.sub,
		Regime:    m.regime(),
		IsWalking: m.ctx.IsWalking,
		IsRunning: m.ctx.IsRunning,
		IsJumping: m.ctx.IsJumping,
		IsFalling: m.ctx.IsFalling,
		JumpIndex: m.ctx.JumpIndex,
	}
	if len(m.events) > 0 {
		s.Events = append([]Event(nil), m.events...)
	}
	return s
}

func (m *Machine) Root() Root { return m.root }

func (m *Machine) Sub() Sub { return m.sub }

// Context returns a copy of the shared state.
func (m *Machine) Context() Context { return m.ctx }

func (m *Machine) Settings() Settings { return m.settings }

func (m *Machine) Name() string { return m.name }
