package physics

import "math"

// Vec3 uses a Y-up, Z-forward, X-right convention.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var (
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l <= CollisionAxisTolerance {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ProjectOnPlane removes the component of v along normal.
func (v Vec3) ProjectOnPlane(normal Vec3) Vec3 {
	n := normal.Normalize()
	if n == (Vec3{}) {
		return v
	}
	return v.Sub(n.Scale(v.Dot(n)))
}

func (v Vec3) component(a axis) float64 {
	switch a {
	case axisX:
		return v.X
	case axisY:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vec3) withComponent(a axis, value float64) Vec3 {
	switch a {
	case axisX:
		v.X = value
	case axisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
