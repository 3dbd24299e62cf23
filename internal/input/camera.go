package input

import (
	"math"

	"github.com/Versifine/gait/internal/physics"
)

// Camera is the view basis used to turn stick input into world directions.
type Camera struct {
	Forward physics.Vec3
	Up      physics.Vec3
}

// CameraFromYaw builds a level camera whose heading is yaw degrees from +Z toward +X.
func CameraFromYaw(yawDeg float64) Camera {
	rad := yawDeg * math.Pi / 180
	return Camera{
		Forward: physics.Vec3{X: math.Sin(rad), Z: math.Cos(rad)},
		Up:      physics.Up,
	}
}

// CameraFromTarget aims the camera from its position at the follow target.
func CameraFromTarget(cameraPos, targetPos physics.Vec3) Camera {
	return Camera{Forward: targetPos.Sub(cameraPos), Up: physics.Up}
}

// Yaw is the heading of the camera's forward vector in degrees.
func (c Camera) Yaw() float64 {
	f := c.Forward.ProjectOnPlane(c.Up)
	if f.Len() <= physics.CollisionAxisTolerance {
		return 0
	}
	return math.Atan2(f.X, f.Z) * 180 / math.Pi
}

// ProjectOntoCameraPlane maps raw stick input onto the ground plane of the
// camera, returning (x, z). A camera looking straight along up leaves raw as is.
func ProjectOntoCameraPlane(raw Vec2, cameraForward, cameraUp physics.Vec3) Vec2 {
	forward := cameraForward.ProjectOnPlane(cameraUp).Normalize()
	if forward == (physics.Vec3{}) {
		return raw
	}
	up := cameraUp.Normalize()
	if up == (physics.Vec3{}) {
		return raw
	}
	right := up.Cross(forward)
	world := forward.Scale(raw.Y).Add(right.Scale(raw.X))
	return Vec2{X: world.X, Y: world.Z}
}

// Frame is a snapshot resolved against a camera.
type Frame struct {
	Relative Vec2
	Run      bool
	Jump     bool
	JumpEdge bool
}

func (f Frame) MovementPressed() bool {
	return f.Relative.Pressed()
}

func (s Snapshot) Project(cam Camera) Frame {
	return Frame{
		Relative: ProjectOntoCameraPlane(s.Move, cam.Forward, cam.Up),
		Run:      s.Run,
		Jump:     s.Jump,
		JumpEdge: s.JumpEdge,
	}
}
