package locomotion

type Root int

const (
	Grounded Root = iota
	Jump
	Fall
)

func (r Root) String() string {
	switch r {
	case Grounded:
		return "grounded"
	case Jump:
		return "jump"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

type Sub int

const (
	Idle Sub = iota
	Walk
	Run
)

func (s Sub) String() string {
	switch s {
	case Idle:
		return "idle"
	case Walk:
		return "walk"
	case Run:
		return "run"
	default:
		return "unknown"
	}
}

// Flags are the discrete inputs the transition tables read.
type Flags struct {
	MovementPressed     bool
	RunPressed          bool
	JumpPressed         bool
	RequireNewJumpPress bool
}

// NextRoot returns the root state to switch to, or r when no rule matches.
func NextRoot(r Root, f Flags, grounded bool) Root {
	switch r {
	case Grounded:
		if f.JumpPressed && !f.RequireNewJumpPress {
			return Jump
		}
		if !grounded {
			return Fall
		}
	case Jump, Fall:
		if grounded {
			return Grounded
		}
	}
	return r
}

// NextSub returns the substate to switch to, or s when no rule matches.
func NextSub(s Sub, f Flags) Sub {
	switch s {
	case Idle:
		if f.MovementPressed && f.RunPressed {
			return Run
		}
		if f.MovementPressed {
			return Walk
		}
	case Walk:
		if !f.MovementPressed {
			return Idle
		}
		if f.RunPressed {
			return Run
		}
	case Run:
		if !f.MovementPressed {
			return Idle
		}
		if !f.RunPressed {
			return Walk
		}
	}
	return s
}

// InitialSub picks the substate a freshly entered root starts in.
func InitialSub(f Flags) Sub {
	switch {
	case !f.MovementPressed && !f.RunPressed:
		return Idle
	case f.MovementPressed && !f.RunPressed:
		return Walk
	default:
		return Run
	}
}
