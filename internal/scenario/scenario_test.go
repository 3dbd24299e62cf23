package scenario

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/physics"
)

const walkThenRest = `name: walk
camera_yaw: 0
settle: 0.5
steps:
  - duration: 1.0
    move: [0, 1]
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`name: tour
camera_yaw: 45
steps:
  - duration: 0.5
    move: [0, 1]
  - duration: 0.25
    move: [1, 0]
    run: true
    camera_yaw: 90
  - duration: 0.1
    jump: true
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if sc.Name != "tour" || len(sc.Steps) != 3 {
		t.Fatalf("scenario = %+v", sc)
	}
	if sc.Steps[1].CameraYaw == nil || *sc.Steps[1].CameraYaw != 90 {
		t.Fatalf("step 1 camera yaw = %v, want 90", sc.Steps[1].CameraYaw)
	}
	if math.Abs(sc.Duration()-0.85) > 1e-12 {
		t.Fatalf("Duration() = %v, want 0.85", sc.Duration())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "empty", content: "", invalid: true},
		{name: "negative duration", content: "steps:\n  - duration: -1\n", invalid: true},
		{name: "zero total", content: "steps:\n  - duration: 0\n", invalid: true},
		{name: "move out of range", content: "steps:\n  - duration: 1\n    move: [2, 0]\n", invalid: true},
		{name: "negative settle", content: "settle: -0.5\nsteps:\n  - duration: 1\n", invalid: true},
		{name: "unknown field", content: "steps:\n  - duration: 1\n    crouch: true\n"},
		{name: "malformed", content: "steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatalf("Parse() error = nil, want failure")
			}
			if tt.invalid && !errors.Is(err, ErrInvalidScenario) {
				t.Fatalf("Parse() error = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte(walkThenRest), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if sc.Settle != 0.5 {
		t.Fatalf("Settle = %v, want 0.5", sc.Settle)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v, want ErrNotExist", err)
	}
}

func TestDriver_EmitsOnlyChanges(t *testing.T) {
	sc := &Scenario{Steps: []Step{
		{Duration: 0.1, Move: [2]float64{0, 1}},
		{Duration: 0.1, Move: [2]float64{0, 1}, Run: true},
		{Duration: 0.1},
	}}
	drv := NewDriver(sc)
	var events []input.Event
	cancel := drv.Subscribe(func(ev input.Event) { events = append(events, ev) })
	defer cancel()

	drv.Sync()
	if len(events) != 1 || events[0].Kind != input.KindMove {
		t.Fatalf("events after sync = %+v, want one move", events)
	}

	drv.Advance(0.05)
	if len(events) != 1 {
		t.Fatalf("events mid-step = %d, want 1", len(events))
	}

	drv.Advance(0.05)
	if len(events) != 2 || events[1].Kind != input.KindRun || !events[1].Held {
		t.Fatalf("events at step 1 = %+v, want run pressed", events)
	}

	drv.Advance(0.1)
	if len(events) != 4 {
		t.Fatalf("events at step 2 = %+v, want move and run released", events)
	}
	if events[2].Phase != input.PhaseCanceled || events[3].Held {
		t.Fatalf("release events = %+v", events[2:])
	}

	if drv.Done() {
		t.Fatalf("Done() before last step elapsed")
	}
	drv.Advance(0.1)
	if !drv.Done() || drv.Step() != 3 {
		t.Fatalf("Done()=%v Step()=%d, want true 3", drv.Done(), drv.Step())
	}
}

func TestDriver_DelayAndCameraOverride(t *testing.T) {
	yaw := 90.0
	sc := &Scenario{CameraYaw: 10, Steps: []Step{{Duration: 1, Jump: true, CameraYaw: &yaw}}}
	drv := NewDelayedDriver(sc, 0.5)
	var events int
	drv.Subscribe(func(input.Event) { events++ })

	drv.Sync()
	if drv.Step() != -1 || events != 0 || drv.CameraYaw() != 10 {
		t.Fatalf("before start: step=%d events=%d yaw=%v", drv.Step(), events, drv.CameraYaw())
	}

	drv.Advance(0.5)
	if drv.Step() != 0 || events != 1 || drv.CameraYaw() != 90 {
		t.Fatalf("after delay: step=%d events=%d yaw=%v", drv.Step(), events, drv.CameraYaw())
	}
}

func newController(t *testing.T, drv *Driver) *controller.Controller {
	t.Helper()
	body := physics.NewBody(physics.DefaultShape(), physics.Vec3{X: 0.5, Z: 0.5}, physics.FlatWorld{Top: -1})
	ctrl, err := controller.New(controller.Options{
		Name:     "runner",
		Settings: locomotion.DefaultSettings(),
		Collider: body,
		Source:   drv,
		Sampler:  locomotion.NewSeededSampler(3),
	})
	if err != nil {
		t.Fatalf("controller.New() error: %v", err)
	}
	ctrl.Enable()
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestRun_WalkThenRest(t *testing.T) {
	sc, err := Parse([]byte(walkThenRest))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	drv := NewDriver(sc)
	ctrl := newController(t, drv)

	report, err := Run(ctrl, drv, 0.1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(report.Frames) != 15 {
		t.Fatalf("frames = %d, want 15", len(report.Frames))
	}
	if math.Abs(report.Final.Position.Z-1.5) > 1e-9 {
		t.Fatalf("final z = %v, want 1.5", report.Final.Position.Z)
	}
	if len(report.Transitions) != 2 {
		t.Fatalf("transitions = %+v, want walk then idle", report.Transitions)
	}
	if report.Transitions[0].Sub != locomotion.Walk || report.Transitions[1].Sub != locomotion.Idle {
		t.Fatalf("transitions = %+v, want walk then idle", report.Transitions)
	}
	if report.Transitions[1].Tick != 11 {
		t.Fatalf("idle at tick %d, want 11", report.Transitions[1].Tick)
	}
}

func TestRun_HopLandsOnce(t *testing.T) {
	sc := &Scenario{
		Name:   "hop",
		Settle: 1.0,
		Steps:  []Step{{Duration: 0.1, Jump: true}, {Duration: 0.1}},
	}
	drv := NewDriver(sc)
	ctrl := newController(t, drv)

	report, err := Run(ctrl, drv, 0.02)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Jumps != 1 || report.Landings != 1 {
		t.Fatalf("jumps=%d landings=%d, want 1 1", report.Jumps, report.Landings)
	}
	if report.Apex <= 0.2 || report.Apex >= 2.2 {
		t.Fatalf("apex = %v, want between launch step and full jump", report.Apex)
	}
	if report.Final.Root != locomotion.Grounded || !report.Final.Grounded {
		t.Fatalf("final root=%s grounded=%v, want grounded", report.Final.Root, report.Final.Grounded)
	}
}

func TestRun_RejectsNonPositiveDt(t *testing.T) {
	sc, err := Parse([]byte(walkThenRest))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	drv := NewDriver(sc)
	ctrl := newController(t, drv)

	if _, err := Run(ctrl, drv, 0); err == nil {
		t.Fatalf("Run(dt=0) error = nil")
	}
}
