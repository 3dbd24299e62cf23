package scenario

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/physics"
)

// Transition records a tick on which the root or sub state changed.
type Transition struct {
	Tick     uint64
	Time     float64
	Root     locomotion.Root
	Sub      locomotion.Sub
	Position physics.Vec3
}

type Report struct {
	Name        string
	Frames      []controller.Frame
	Transitions []Transition
	// Apex is the highest point reached relative to the starting height.
	Apex     float64
	Jumps    int
	Landings int
	Final    controller.Frame
}

// Run ticks ctrl at a fixed dt until drv's timeline is exhausted. The driver
// must be the controller's input source and the controller must be enabled.
func Run(ctrl *controller.Controller, drv *Driver, dt float64) (*Report, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("scenario %q: dt must be positive, got %v", drv.sc.Name, dt)
	}

	start := ctrl.Last()
	report := &Report{
		Name:   drv.sc.Name,
		Frames: make([]controller.Frame, 0, int(math.Ceil(drv.sc.Duration()/dt))+1),
		Final:  start,
	}
	root, sub := start.Root, start.Sub

	drv.Sync()
	for !drv.Done() {
		frame := ctrl.Tick(dt, drv.Camera())
		report.Frames = append(report.Frames, frame)
		report.Final = frame
		report.Apex = math.Max(report.Apex, frame.Position.Y-start.Position.Y)

		for _, ev := range frame.Signals.Events {
			switch ev.Kind {
			case locomotion.EventJump:
				report.Jumps++
			case locomotion.EventGrounded:
				report.Landings++
			}
		}
		if frame.Root != root || frame.Sub != sub {
			report.Transitions = append(report.Transitions, Transition{
				Tick:     frame.Tick,
				Time:     drv.Clock() + dt,
				Root:     frame.Root,
				Sub:      frame.Sub,
				Position: frame.Position,
			})
			root, sub = frame.Root, frame.Sub
		}

		drv.Advance(dt)
	}

	slog.Debug("Scenario finished",
		"character", ctrl.Name(),
		"scenario", report.Name,
		"ticks", len(report.Frames),
		"jumps", report.Jumps,
	)
	return report, nil
}
