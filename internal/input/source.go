package input

import "sync"

type Kind int

const (
	KindMove Kind = iota
	KindRun
	KindJump
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindRun:
		return "run"
	case KindJump:
		return "jump"
	default:
		return "unknown"
	}
}

type Phase int

const (
	PhaseStarted Phase = iota
	PhasePerformed
	PhaseCanceled
)

// Event is one callback from an input device.
type Event struct {
	Kind  Kind
	Phase Phase
	Value Vec2
	Held  bool
}

type Handler func(Event)

// Source is an input device that pushes events to subscribers. The returned
// cancel func stops delivery before it returns.
type Source interface {
	Subscribe(h Handler) (cancel func())
}

// Binding connects an Intent to a Source for as long as it is held.
type Binding struct {
	once   sync.Once
	cancel func()
}

func Bind(src Source, intent *Intent) *Binding {
	return &Binding{cancel: src.Subscribe(intent.Handle)}
}

// Release detaches the intent. Calling it more than once is a no-op.
func (b *Binding) Release() {
	if b == nil {
		return
	}
	b.once.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
	})
}

// Manual is a Source fed directly by code, used by the console and tests.
type Manual struct {
	mu   sync.Mutex
	subs []*subscription
}

// subscription serialises deliveries with cancel so a handler never runs
// after its cancel func has returned.
type subscription struct {
	mu       sync.Mutex
	handler  Handler
	released bool
}

func (s *subscription) deliver(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.handler(ev)
}

func NewManual() *Manual {
	return &Manual{}
}

// Subscribe registers h. The cancel func waits for a delivery to h that is
// already running, so it must not be called from inside h.
func (m *Manual) Subscribe(h Handler) func() {
	sub := &subscription{handler: h}
	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()

	return func() {
		sub.mu.Lock()
		sub.released = true
		sub.mu.Unlock()

		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s == sub {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every live subscriber in subscription order.
func (m *Manual) Emit(ev Event) {
	m.mu.Lock()
	live := append([]*subscription(nil), m.subs...)
	m.mu.Unlock()

	for _, sub := range live {
		sub.deliver(ev)
	}
}

func (m *Manual) Move(x, y float64) {
	phase := PhasePerformed
	if x == 0 && y == 0 {
		phase = PhaseCanceled
	}
	m.Emit(Event{Kind: KindMove, Phase: phase, Value: Vec2{X: x, Y: y}})
}

func (m *Manual) Run(held bool) {
	m.Emit(Event{Kind: KindRun, Phase: heldPhase(held), Held: held})
}

func (m *Manual) Jump(held bool) {
	m.Emit(Event{Kind: KindJump, Phase: heldPhase(held), Held: held})
}

func (m *Manual) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func heldPhase(held bool) Phase {
	if held {
		return PhaseStarted
	}
	return PhaseCanceled
}
