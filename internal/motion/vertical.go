package motion

// Regime selects how vertical velocity evolves during a tick.
type Regime int

const (
	// Pinned holds the body against the ground with a constant bias.
	Pinned Regime = iota
	Rising
	Falling
)

func (r Regime) String() string {
	switch r {
	case Pinned:
		return "pinned"
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "unknown"
	}
}

// Vertical integrates vertical velocity with a trapezoidal step.
type Vertical struct {
	GroundGravity  float64
	Gravity        float64
	FallMultiplier float64
}

// Step advances velocity v by dt under regime r and returns the new velocity
// together with the average velocity to apply over the tick.
func (g Vertical) Step(r Regime, v, dt float64) (next, applied float64) {
	switch r {
	case Rising:
		next = v + g.Gravity*dt
	case Falling:
		next = v + g.Gravity*g.FallMultiplier*dt
	default:
		return g.GroundGravity, g.GroundGravity
	}
	return next, (v + next) * 0.5
}
