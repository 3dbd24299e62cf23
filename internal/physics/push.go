package physics

import "math"

// Neighbor is another character that may overlap the one being pushed.
type Neighbor struct {
	Position Vec3
	Shape    Shape
}

// ApplyPush separates a character from overlapping neighbors on the XZ plane.
// The push is capped per neighbor and per tick, then swept against store.
func ApplyPush(shape Shape, pos Vec3, store BlockStore, neighbors []Neighbor) Vec3 {
	if len(neighbors) == 0 {
		return pos
	}

	self := shape.AABB(pos)
	var push Vec3

	for _, n := range neighbors {
		ns := n.Shape
		if ns.Width <= 0 {
			ns.Width = DefaultWidth
		}
		if ns.Height <= 0 {
			ns.Height = DefaultHeight
		}
		if ns.Depth <= 0 {
			ns.Depth = ns.Width
		}

		other := ns.AABB(n.Position)
		if self.Max.Y <= other.Min.Y || self.Min.Y >= other.Max.Y {
			continue
		}

		dx := pos.X - n.Position.X
		dz := pos.Z - n.Position.Z
		dist2 := dx*dx + dz*dz

		minDist := (shape.Width + ns.Width) / 2
		if dist2 >= minDist*minDist {
			continue
		}

		dist := math.Sqrt(dist2)
		nx, nz := 1.0, 0.0
		if dist >= CollisionAxisTolerance {
			nx, nz = dx/dist, dz/dist
		}

		overlap := minDist - dist
		if overlap <= 0 {
			continue
		}

		mag := math.Min(overlap*pushStrength, pushMaxPerCharacter)
		push.X += nx * mag
		push.Z += nz * mag
	}

	length := push.Len()
	if length <= CollisionAxisTolerance {
		return pos
	}
	if length > pushMaxPerTick {
		push = push.Scale(pushMaxPerTick / length)
	}

	next, _ := ResolveMovement(shape, pos, push, store)
	return next
}
