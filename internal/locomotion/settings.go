package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/Versifine/gait/internal/kinematics"
)

var ErrInvalidSettings = errors.New("invalid locomotion settings")

type MovementSettings struct {
	GroundGravity          float64 `yaml:"ground_gravity"`
	MovementSpeed          float64 `yaml:"movement_speed"`
	RunMultiplier          float64 `yaml:"run_multiplier"`
	FallMultiplier         float64 `yaml:"fall_multiplier"`
	RotationFactorPerFrame float64 `yaml:"rotation_factor_per_frame"`
}

type JumpSettings struct {
	kinematics.Jump  `yaml:",inline"`
	MaxJumpVarieties int `yaml:"max_jump_varieties"`
}

type Settings struct {
	Movement MovementSettings `yaml:"movement"`
	Jump     JumpSettings     `yaml:"jump"`
}

func DefaultSettings() Settings {
	return Settings{
		Movement: MovementSettings{
			GroundGravity:          -0.05,
			MovementSpeed:          1,
			RunMultiplier:          3,
			FallMultiplier:         2,
			RotationFactorPerFrame: 15,
		},
		Jump: JumpSettings{
			Jump:             kinematics.Jump{JumpTime: 0.8, MaxHeight: 2},
			MaxJumpVarieties: 3,
		},
	}
}

func (s Settings) Validate() error {
	m := s.Movement
	checks := []struct {
		name string
		ok   bool
	}{
		{"movement.ground_gravity", finite(m.GroundGravity) && m.GroundGravity <= 0},
		{"movement.movement_speed", finite(m.MovementSpeed) && m.MovementSpeed > 0},
		{"movement.run_multiplier", finite(m.RunMultiplier) && m.RunMultiplier > 0},
		{"movement.fall_multiplier", finite(m.FallMultiplier) && m.FallMultiplier > 0},
		{"movement.rotation_factor_per_frame", finite(m.RotationFactorPerFrame) && m.RotationFactorPerFrame >= 0},
		{"jump.max_jump_varieties", s.Jump.MaxJumpVarieties >= 1},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidSettings, c.name)
		}
	}
	if err := s.Jump.Jump.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
