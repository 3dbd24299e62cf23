package event

const (
	EventJump     = "locomotion.jump"
	EventGrounded = "locomotion.grounded"
	EventFalling  = "locomotion.falling"
	EventRoot     = "locomotion.root"
	EventSub      = "locomotion.sub"
)

type JumpEvent struct {
	Character string
	Index     int
}

type GroundedEvent struct {
	Character string
}

type FallingEvent struct {
	Character string
}

// StateEvent reports a root or sub state change by state name.
type StateEvent struct {
	Character string
	From      string
	To        string
}
