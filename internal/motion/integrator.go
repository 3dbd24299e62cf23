package motion

import (
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/physics"
)

// Collider is the move-and-collide primitive the integrator drives.
type Collider interface {
	MoveAndCollide(delta physics.Vec3) physics.Vec3
	IsGrounded() bool
	Position() physics.Vec3
}

// Result describes one integration step.
type Result struct {
	Requested    physics.Vec3
	Displacement physics.Vec3
	Yaw          float64
}

// Integrator turns applied movement into rotation and collided displacement.
type Integrator struct {
	collider       Collider
	speed          float64
	rotationFactor float64
	facing         Facing
}

func NewIntegrator(collider Collider, movementSpeed, rotationFactor, initialYaw float64) *Integrator {
	return &Integrator{
		collider:       collider,
		speed:          movementSpeed,
		rotationFactor: rotationFactor,
		facing:         NewFacing(initialYaw),
	}
}

// Step rotates toward heading while moving, then sweeps applied*speed*dt
// through the collider. A non-positive dt leaves everything untouched.
func (it *Integrator) Step(applied physics.Vec3, heading input.Vec2, moving bool, dt float64) Result {
	if dt <= 0 {
		return Result{Yaw: it.facing.Yaw()}
	}

	if moving {
		it.facing = it.facing.Toward(heading.X, heading.Y, it.rotationFactor*dt)
	}

	requested := applied.Scale(it.speed * dt)
	displacement := it.collider.MoveAndCollide(requested)
	return Result{
		Requested:    requested,
		Displacement: displacement,
		Yaw:          it.facing.Yaw(),
	}
}

func (it *Integrator) Facing() Facing {
	return it.facing
}

func (it *Integrator) SetYaw(yawDeg float64) {
	it.facing = NewFacing(yawDeg)
}

func (it *Integrator) Collider() Collider {
	return it.collider
}
