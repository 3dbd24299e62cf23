package physics

import "math"

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min Vec3
	Max Vec3
}

// Shape is a character box anchored at the centre of its feet.
type Shape struct {
	Width  float64
	Depth  float64
	Height float64
}

func DefaultShape() Shape {
	return Shape{Width: DefaultWidth, Depth: DefaultDepth, Height: DefaultHeight}
}

func (s Shape) AABB(pos Vec3) AABB {
	hw := s.Width / 2
	hd := s.Depth / 2
	return AABB{
		Min: Vec3{X: pos.X - hw, Y: pos.Y, Z: pos.Z - hd},
		Max: Vec3{X: pos.X + hw, Y: pos.Y + s.Height, Z: pos.Z + hd},
	}
}

func (b AABB) Offset(d Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X < o.Max.X &&
		b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y &&
		b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z &&
		b.Max.Z > o.Min.Z
}

type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// others returns the two axes orthogonal to a.
func (a axis) others() (axis, axis) {
	switch a {
	case axisX:
		return axisY, axisZ
	case axisY:
		return axisX, axisZ
	default:
		return axisX, axisY
	}
}

func CollidesWithBlock(box AABB, store BlockStore) bool {
	if store == nil {
		return false
	}

	for y := floorForMin(box.Min.Y); y <= floorForMax(box.Max.Y); y++ {
		for x := floorForMin(box.Min.X); x <= floorForMax(box.Max.X); x++ {
			for z := floorForMin(box.Min.Z); z <= floorForMax(box.Max.Z); z++ {
				if !store.IsSolid(x, y, z) {
					continue
				}
				cell := AABB{
					Min: Vec3{X: float64(x), Y: float64(y), Z: float64(z)},
					Max: Vec3{X: float64(x + 1), Y: float64(y + 1), Z: float64(z + 1)},
				}
				if box.Intersects(cell) {
					return true
				}
			}
		}
	}
	return false
}

// ResolveMovement sweeps shape from pos by delta, one axis at a time in Y, X, Z
// order. It returns the final position and the displacement actually applied.
func ResolveMovement(shape Shape, pos, delta Vec3, store BlockStore) (Vec3, Vec3) {
	next := pos
	for _, a := range [...]axis{axisY, axisX, axisZ} {
		allowed := sweepAxis(shape.AABB(next), a, delta.component(a), store)
		next = next.withComponent(a, next.component(a)+allowed)
	}
	return next, next.Sub(pos)
}

// sweepAxis returns how far box may travel along a before touching a solid cell.
func sweepAxis(box AABB, a axis, delta float64, store BlockStore) float64 {
	if store == nil || nearlyZero(delta) {
		return delta
	}

	b, c := a.others()
	minB, maxB := floorForMin(box.Min.component(b)), floorForMax(box.Max.component(b))
	minC, maxC := floorForMin(box.Min.component(c)), floorForMax(box.Max.component(c))

	solid := func(along, j, k int) bool {
		var cell [3]int
		cell[a] = along
		cell[b] = j
		cell[c] = k
		return store.IsSolid(cell[0], cell[1], cell[2])
	}
	blocked := func(along int) bool {
		for j := minB; j <= maxB; j++ {
			for k := minC; k <= maxC; k++ {
				if solid(along, j, k) {
					return true
				}
			}
		}
		return false
	}

	allowed := delta
	if delta > 0 {
		face := box.Max.component(a)
		start := int(math.Floor(face))
		end := int(math.Floor(face + delta))
		for cell := start; cell <= end; cell++ {
			if blocked(cell) {
				allowed = math.Min(allowed, float64(cell)-face)
				break
			}
		}
	} else {
		face := box.Min.component(a)
		start := int(math.Floor(face - CollisionAxisTolerance))
		end := int(math.Floor(face + delta))
		for cell := start; cell >= end; cell-- {
			if blocked(cell) {
				allowed = math.Max(allowed, float64(cell+1)-face)
				break
			}
		}
	}
	return allowed
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}
