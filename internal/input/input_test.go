package input

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Versifine/gait/internal/physics"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func TestIntent_SnapshotClearsJumpEdge(t *testing.T) {
	intent := NewIntent()
	intent.OnJump(true)
	intent.OnJump(false)

	first := intent.Snapshot()
	if !first.JumpEdge {
		t.Fatalf("first snapshot JumpEdge = false, want true")
	}
	if first.Jump {
		t.Fatalf("first snapshot Jump = true, want false after release")
	}

	second := intent.Snapshot()
	if second.JumpEdge {
		t.Fatalf("second snapshot JumpEdge = true, want false")
	}
}

func TestIntent_LastWriteWins(t *testing.T) {
	intent := NewIntent()
	intent.OnMove(1, 0)
	intent.OnMove(0, -1)
	intent.OnRun(true)

	s := intent.Snapshot()
	if s.Move != (Vec2{X: 0, Y: -1}) {
		t.Fatalf("move = %+v, want {0 -1}", s.Move)
	}
	if !s.Run {
		t.Fatalf("run = false, want true")
	}
}

func TestIntent_ResetReleasesHeldInputs(t *testing.T) {
	intent := NewIntent()
	intent.OnMove(1, 1)
	intent.OnRun(true)
	intent.OnJump(true)
	_ = intent.Snapshot()

	intent.Reset()
	s := intent.Snapshot()

	if s.Move.Pressed() || s.Run || s.Jump {
		t.Fatalf("snapshot after reset = %+v, want released", s)
	}
	if !s.JumpEdge {
		t.Fatalf("JumpEdge after releasing held jump = false, want true")
	}
}

func TestIntent_ConcurrentWriters(t *testing.T) {
	intent := NewIntent()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				intent.OnMove(1, 0)
				intent.OnJump(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	s := intent.Snapshot()
	if s.Move != (Vec2{X: 1}) {
		t.Fatalf("move = %+v, want {1 0}", s.Move)
	}
	if !s.JumpEdge {
		t.Fatalf("JumpEdge = false, want true")
	}
}

func TestProjectOntoCameraPlane(t *testing.T) {
	tests := []struct {
		name  string
		raw   Vec2
		cam   Camera
		wantX float64
		wantZ float64
	}{
		{name: "identity forward", raw: Vec2{Y: 1}, cam: CameraFromYaw(0), wantZ: 1},
		{name: "identity right", raw: Vec2{X: 1}, cam: CameraFromYaw(0), wantX: 1},
		{name: "yaw 90 forward", raw: Vec2{Y: 1}, cam: CameraFromYaw(90), wantX: 1},
		{name: "yaw 90 right", raw: Vec2{X: 1}, cam: CameraFromYaw(90), wantZ: -1},
		{
			name:  "pitched camera",
			raw:   Vec2{Y: 1},
			cam:   Camera{Forward: physics.Vec3{Y: -1, Z: 1}, Up: physics.Up},
			wantZ: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOntoCameraPlane(tt.raw, tt.cam.Forward, tt.cam.Up)
			approxEqual(t, got.X, tt.wantX, 1e-9, "x")
			approxEqual(t, got.Y, tt.wantZ, 1e-9, "z")
		})
	}
}

func TestProjectOntoCameraPlane_DegenerateCameraKeepsRaw(t *testing.T) {
	raw := Vec2{X: 0.3, Y: -0.7}
	got := ProjectOntoCameraPlane(raw, physics.Up, physics.Up)
	if got != raw {
		t.Fatalf("got %+v, want raw %+v", got, raw)
	}
}

func TestCameraFromTarget(t *testing.T) {
	cam := CameraFromTarget(physics.Vec3{X: 0, Y: 5, Z: -5}, physics.Vec3{})
	approxEqual(t, cam.Yaw(), 0, 1e-9, "yaw")

	got := Snapshot{Move: Vec2{Y: 1}}.Project(cam)
	approxEqual(t, got.Relative.Y, 1, 1e-9, "relative.z")
	if !got.MovementPressed() {
		t.Fatalf("MovementPressed = false, want true")
	}
}

func TestBinding_ReleaseStopsDelivery(t *testing.T) {
	src := NewManual()
	intent := NewIntent()
	b := Bind(src, intent)

	src.Move(1, 0)
	src.Jump(true)
	if s := intent.Peek(); s.Move != (Vec2{X: 1}) || !s.Jump {
		t.Fatalf("peek = %+v, want move {1 0} and jump held", s)
	}

	b.Release()
	b.Release()
	if n := src.Subscribers(); n != 0 {
		t.Fatalf("subscribers after release = %d, want 0", n)
	}

	src.Move(0, 1)
	if s := intent.Peek(); s.Move != (Vec2{X: 1}) {
		t.Fatalf("move after release = %+v, want unchanged {1 0}", s.Move)
	}
}

func TestIntent_HandleCanceledMove(t *testing.T) {
	intent := NewIntent()
	intent.Handle(Event{Kind: KindMove, Phase: PhasePerformed, Value: Vec2{X: 0.5, Y: 0.5}})
	intent.Handle(Event{Kind: KindMove, Phase: PhaseCanceled, Value: Vec2{X: 0.5, Y: 0.5}})

	if s := intent.Snapshot(); s.Move.Pressed() {
		t.Fatalf("move after cancel = %+v, want zero", s.Move)
	}
}

func TestIntent_ClearEdgeKeepsHeldState(t *testing.T) {
	intent := NewIntent()
	intent.OnJump(true)
	intent.ClearEdge()

	s := intent.Snapshot()
	if s.JumpEdge || !s.Jump {
		t.Fatalf("snapshot = %+v, want jump held without edge", s)
	}
}

func TestManual_CancelWaitsForRunningDelivery(t *testing.T) {
	src := NewManual()
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var calls int
	cancel := src.Subscribe(func(Event) {
		calls++
		entered <- struct{}{}
		<-unblock
	})

	emitted := make(chan struct{})
	go func() {
		src.Run(true)
		close(emitted)
	}()
	<-entered

	cancelled := make(chan struct{})
	go func() {
		cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("cancel returned while its handler was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(unblock)
	<-cancelled
	<-emitted

	src.Run(false)
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
	if src.Subscribers() != 0 {
		t.Fatalf("subscribers = %d, want 0", src.Subscribers())
	}
}

func TestBinding_ReleaseDuringEmitLeavesIntentClean(t *testing.T) {
	src := NewManual()
	entered := make(chan struct{})
	unblock := make(chan struct{})
	cancelGate := src.Subscribe(func(Event) {
		entered <- struct{}{}
		<-unblock
	})
	defer cancelGate()

	intent := NewIntent()
	binding := Bind(src, intent)

	emitted := make(chan struct{})
	go func() {
		src.Run(true)
		close(emitted)
	}()
	<-entered

	binding.Release()
	intent.Reset()
	close(unblock)
	<-emitted

	if s := intent.Peek(); s.Run {
		t.Fatalf("intent after Release and Reset = %+v, want run released", s)
	}
}
