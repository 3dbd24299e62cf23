package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Step holds one input state for Duration seconds.
type Step struct {
	Duration float64    `yaml:"duration"`
	Move     [2]float64 `yaml:"move"`
	Run      bool       `yaml:"run"`
	Jump     bool       `yaml:"jump"`
	// CameraYaw overrides the scenario camera for this step when set.
	CameraYaw *float64 `yaml:"camera_yaw,omitempty"`
}

type Scenario struct {
	Name      string  `yaml:"name"`
	CameraYaw float64 `yaml:"camera_yaw"`
	// Settle adds idle time after the last step so the character can land.
	Settle float64 `yaml:"settle"`
	Steps  []Step  `yaml:"steps"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario strictly: unknown keys are errors.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	if !nonNegative(s.Settle) {
		return fmt.Errorf("%w: settle must be non-negative, got %v", ErrInvalidScenario, s.Settle)
	}
	for i, st := range s.Steps {
		if !nonNegative(st.Duration) {
			return fmt.Errorf("%w: step %d duration must be non-negative, got %v", ErrInvalidScenario, i, st.Duration)
		}
		for _, v := range st.Move {
			if math.IsNaN(v) || v < -1 || v > 1 {
				return fmt.Errorf("%w: step %d move must be within [-1, 1], got %v", ErrInvalidScenario, i, st.Move)
			}
		}
	}
	if s.Duration() <= 0 {
		return fmt.Errorf("%w: total duration is zero", ErrInvalidScenario)
	}
	return nil
}

// Duration is the length of every step plus the settle time.
func (s *Scenario) Duration() float64 {
	total := s.Settle
	for _, st := range s.Steps {
		total += st.Duration
	}
	return total
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
