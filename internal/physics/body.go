package physics

import "sync"

// Body is a kinematic character box swept against a BlockStore.
type Body struct {
	mu       sync.RWMutex
	pos      Vec3
	shape    Shape
	store    BlockStore
	grounded bool
}

func NewBody(shape Shape, pos Vec3, store BlockStore) *Body {
	b := &Body{pos: pos, shape: shape, store: store}
	b.grounded = b.probeGround()
	return b
}

// MoveAndCollide moves the body by delta and returns the displacement that
// was actually applied after collisions.
func (b *Body) MoveAndCollide(delta Vec3) Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, applied := ResolveMovement(b.shape, b.pos, delta, b.store)
	b.pos = next
	landed := delta.Y < 0 && !nearlyEqual(applied.Y, delta.Y)
	b.grounded = landed || b.probeGround()
	return applied
}

func (b *Body) IsGrounded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grounded
}

func (b *Body) Position() Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pos
}

// SetPosition teleports the body without sweeping.
func (b *Body) SetPosition(pos Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = pos
	b.grounded = b.probeGround()
}

func (b *Body) Shape() Shape {
	return b.shape
}

func (b *Body) Store() BlockStore {
	return b.store
}

func (b *Body) probeGround() bool {
	return IsStandingOn(b.shape, b.pos, b.store)
}

// IsStandingOn reports whether a solid cell lies within GroundProbeDistance
// below the feet of shape at pos.
func IsStandingOn(shape Shape, pos Vec3, store BlockStore) bool {
	if store == nil {
		return false
	}
	probe := shape.AABB(pos).Offset(Vec3{Y: -GroundProbeDistance})
	return CollidesWithBlock(probe, store)
}
