package kinematics

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidJump = errors.New("invalid jump parameters")

// Jump describes a symmetric parabolic jump by its total airtime and apex height.
type Jump struct {
	JumpTime  float64 `yaml:"jump_time"`
	MaxHeight float64 `yaml:"max_height"`
}

func (j Jump) Validate() error {
	if !positiveFinite(j.JumpTime) {
		return fmt.Errorf("%w: jump_time must be positive and finite, got %v", ErrInvalidJump, j.JumpTime)
	}
	if !positiveFinite(j.MaxHeight) {
		return fmt.Errorf("%w: max_height must be positive and finite, got %v", ErrInvalidJump, j.MaxHeight)
	}
	return nil
}

func (j Jump) Gravity() float64 {
	return Gravity(j.JumpTime, j.MaxHeight)
}

func (j Jump) Velocity() float64 {
	return Velocity(j.JumpTime, j.MaxHeight)
}

func (j Jump) TimeToApex() float64 {
	return TimeToApex(j.JumpTime)
}

// Gravity is the constant acceleration that brings a body launched at
// Velocity(jumpTime, maxHeight) to rest at maxHeight after jumpTime/2.
func Gravity(jumpTime, maxHeight float64) float64 {
	half := TimeToApex(jumpTime)
	return -2 * maxHeight / (half * half)
}

func Velocity(jumpTime, maxHeight float64) float64 {
	return 2 * maxHeight / TimeToApex(jumpTime)
}

func TimeToApex(jumpTime float64) float64 {
	return jumpTime / 2
}

// ApexHeight is the peak reached from launch velocity v under gravity g (< 0).
func ApexHeight(v, g float64) float64 {
	if g >= 0 {
		return math.Inf(1)
	}
	return -v * v / (2 * g)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
