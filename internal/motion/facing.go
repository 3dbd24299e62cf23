package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Facing is the character's orientation about the up axis.
type Facing struct {
	q mgl64.Quat
}

func NewFacing(yawDeg float64) Facing {
	return Facing{q: mgl64.QuatRotate(mgl64.DegToRad(yawDeg), worldUp)}
}

// LookRotation returns the orientation whose forward axis points along (x, 0, z).
func LookRotation(x, z float64) mgl64.Quat {
	return mgl64.QuatRotate(math.Atan2(x, z), worldUp)
}

// Toward turns the facing toward the horizontal direction (x, z) by fraction t
// of the remaining arc. t >= 1 snaps to the target; a zero direction is ignored.
func (f Facing) Toward(x, z, t float64) Facing {
	if x == 0 && z == 0 || t <= 0 {
		return f
	}
	target := LookRotation(x, z)
	if t >= 1 {
		return Facing{q: target}
	}
	current := f.Quat()
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	return Facing{q: mgl64.QuatSlerp(current, target, t).Normalize()}
}

// Forward is the unit vector the character faces.
func (f Facing) Forward() mgl64.Vec3 {
	return f.Quat().Rotate(mgl64.Vec3{0, 0, 1})
}

// Yaw is the heading in degrees measured from +Z toward +X.
func (f Facing) Yaw() float64 {
	fwd := f.Forward()
	return mgl64.RadToDeg(math.Atan2(fwd.X(), fwd.Z()))
}

// Quat returns the orientation; the zero Facing is the identity.
func (f Facing) Quat() mgl64.Quat {
	if f.q == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return f.q
}
