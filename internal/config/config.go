package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/logger"
	"github.com/Versifine/gait/internal/physics"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Movement  locomotion.MovementSettings `yaml:"movement"`
	Jump      locomotion.JumpSettings     `yaml:"jump"`
	Character CharacterConfig             `yaml:"character"`
	Logging   LoggingConfig               `yaml:"logging"`
	Sim       SimConfig                   `yaml:"sim"`
}

type CharacterConfig struct {
	Name   string     `yaml:"name"`
	Width  float64    `yaml:"width"`
	Depth  float64    `yaml:"depth"`
	Height float64    `yaml:"height"`
	Spawn  [3]float64 `yaml:"spawn"`
	Yaw    float64    `yaml:"yaw"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimConfig struct {
	Dt   float64 `yaml:"dt"`
	Seed uint64  `yaml:"seed"`
	// FloorTop is the highest solid layer of the flat test world.
	FloorTop int `yaml:"floor_top"`
}

func Default() *Config {
	settings := locomotion.DefaultSettings()
	return &Config{
		Movement: settings.Movement,
		Jump:     settings.Jump,
		Character: CharacterConfig{
			Name:   "player",
			Width:  physics.DefaultWidth,
			Depth:  physics.DefaultDepth,
			Height: physics.DefaultHeight,
			Spawn:  [3]float64{0.5, 0, 0.5},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Sim:     SimConfig{Dt: 0.02, FloorTop: -1},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	ch := c.Character
	if ch.Name == "" {
		return fmt.Errorf("%w: character.name is empty", ErrInvalidConfig)
	}
	if !(ch.Width > 0 && ch.Depth > 0 && ch.Height > 0) {
		return fmt.Errorf("%w: character dimensions must be positive", ErrInvalidConfig)
	}
	if !(c.Sim.Dt > 0) || math.IsInf(c.Sim.Dt, 0) {
		return fmt.Errorf("%w: sim.dt must be positive, got %v", ErrInvalidConfig, c.Sim.Dt)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("%w: unknown logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

func (c *Config) Settings() locomotion.Settings {
	return locomotion.Settings{Movement: c.Movement, Jump: c.Jump}
}

func (c *Config) Shape() physics.Shape {
	return physics.Shape{Width: c.Character.Width, Depth: c.Character.Depth, Height: c.Character.Height}
}

func (c *Config) SpawnPoint() physics.Vec3 {
	s := c.Character.Spawn
	return physics.Vec3{X: s[0], Y: s[1], Z: s[2]}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Logging.Level, Format: c.Logging.Format}
}
