package scenario

import (
	"github.com/Versifine/gait/internal/input"
)

const timeEpsilon = 1e-9

// Driver plays a scenario as an input device. Events are emitted only when
// the active step changes a value.
type Driver struct {
	sc    *Scenario
	src   *input.Manual
	clock float64

	step    int
	applied Step
	synced  bool
}

func NewDriver(sc *Scenario) *Driver {
	return NewDelayedDriver(sc, 0)
}

// NewDelayedDriver idles for delay seconds before the first step.
func NewDelayedDriver(sc *Scenario, delay float64) *Driver {
	return &Driver{sc: sc, src: input.NewManual(), clock: -delay, step: -1}
}

func (d *Driver) Subscribe(h input.Handler) func() {
	return d.src.Subscribe(h)
}

// Sync emits whatever input changes the current step requires.
func (d *Driver) Sync() {
	idx := d.stepAt(d.clock)
	if d.synced && idx == d.step {
		return
	}

	var want Step
	if idx >= 0 && idx < len(d.sc.Steps) {
		want = d.sc.Steps[idx]
	}
	if want.Move != d.applied.Move {
		d.src.Move(want.Move[0], want.Move[1])
	}
	if want.Run != d.applied.Run {
		d.src.Run(want.Run)
	}
	if want.Jump != d.applied.Jump {
		d.src.Jump(want.Jump)
	}

	d.step = idx
	d.applied = want
	d.synced = true
}

// Advance moves the clock forward by dt and syncs input.
func (d *Driver) Advance(dt float64) {
	d.clock += dt
	d.Sync()
}

// Done reports whether the timeline, including settle time, has elapsed.
func (d *Driver) Done() bool {
	return d.clock >= d.sc.Duration()-timeEpsilon
}

// Step returns the index of the active step, -1 before the first and
// len(Steps) during settle time.
func (d *Driver) Step() int {
	return d.stepAt(d.clock)
}

func (d *Driver) Clock() float64 {
	return d.clock
}

// CameraYaw is the yaw of the camera for the active step.
func (d *Driver) CameraYaw() float64 {
	idx := d.stepAt(d.clock)
	if idx >= 0 && idx < len(d.sc.Steps) && d.sc.Steps[idx].CameraYaw != nil {
		return *d.sc.Steps[idx].CameraYaw
	}
	return d.sc.CameraYaw
}

func (d *Driver) Camera() input.Camera {
	return input.CameraFromYaw(d.CameraYaw())
}

func (d *Driver) stepAt(t float64) int {
	if t < -timeEpsilon {
		return -1
	}
	end := 0.0
	for i, st := range d.sc.Steps {
		end += st.Duration
		if t < end-timeEpsilon {
			return i
		}
	}
	return len(d.sc.Steps)
}
