package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Versifine/gait/internal/arena"
	"github.com/Versifine/gait/internal/config"
	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/debug"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/locomotion"
	"github.com/Versifine/gait/internal/logger"
	"github.com/Versifine/gait/internal/physics"
	"github.com/Versifine/gait/internal/scenario"
)

const arenaStagger = 0.25

func tour() *scenario.Scenario {
	left := -90.0
	return &scenario.Scenario{
		Name:   "tour",
		Settle: 1.0,
		Steps: []scenario.Step{
			{Duration: 0.5},
			{Duration: 1.0, Move: [2]float64{0, 1}},
			{Duration: 1.0, Move: [2]float64{0, 1}, Run: true},
			{Duration: 0.1, Move: [2]float64{0, 1}, Run: true, Jump: true},
			{Duration: 0.9, Move: [2]float64{0, 1}, Run: true},
			{Duration: 1.0, Move: [2]float64{0, 1}, CameraYaw: &left},
			{Duration: 0.3, Jump: true},
		},
	}
}

func sampler(cfg *config.Config) locomotion.Sampler {
	if cfg.Sim.Seed == 0 {
		return nil
	}
	return locomotion.NewSeededSampler(cfg.Sim.Seed)
}

func store(cfg *config.Config) physics.BlockStore {
	return physics.FlatWorld{Top: cfg.Sim.FloorTop}
}

func runScenario(cfg *config.Config, sc *scenario.Scenario, dt float64) (*scenario.Report, error) {
	drv := scenario.NewDriver(sc)
	body := physics.NewBody(cfg.Shape(), cfg.SpawnPoint(), store(cfg))
	ctrl, err := controller.New(controller.Options{
		Name:       cfg.Character.Name,
		Settings:   cfg.Settings(),
		Collider:   body,
		Source:     drv,
		Sampler:    sampler(cfg),
		InitialYaw: cfg.Character.Yaw,
	})
	if err != nil {
		return nil, err
	}
	ctrl.Enable()
	defer ctrl.Close()

	report, err := scenario.Run(ctrl, drv, dt)
	if err != nil {
		return nil, err
	}

	for _, tr := range report.Transitions {
		slog.Info("State changed",
			"character", cfg.Character.Name,
			"tick", tr.Tick,
			"t", fmt.Sprintf("%.2f", tr.Time),
			"root", tr.Root.String(),
			"sub", tr.Sub.String(),
			"pos", formatVec(tr.Position),
		)
	}
	final := report.Final
	slog.Info("Scenario complete",
		"character", cfg.Character.Name,
		"scenario", report.Name,
		"ticks", len(report.Frames),
		"jumps", report.Jumps,
		"landings", report.Landings,
		"apex", fmt.Sprintf("%.3f", report.Apex),
		"pos", formatVec(final.Position),
		"yaw", fmt.Sprintf("%.1f", final.Yaw),
		"state", final.Root.String()+"/"+final.Sub.String(),
	)
	return report, nil
}

func runArena(cfg *config.Config, sc *scenario.Scenario, n int, dt float64) error {
	a := arena.New(arena.Options{
		Settings: cfg.Settings(),
		Shape:    cfg.Shape(),
		Store:    store(cfg),
		Seed:     cfg.Sim.Seed,
	})
	defer a.Close()

	spawn := cfg.SpawnPoint()
	for i := range n {
		name := fmt.Sprintf("%s-%d", cfg.Character.Name, i)
		pos := spawn.Add(physics.Vec3{X: float64(i) * cfg.Character.Width * 0.5})
		if _, err := a.Spawn(name, pos, sc, float64(i)*arenaStagger); err != nil {
			return err
		}
	}

	limit := int((sc.Duration()+float64(n)*arenaStagger)/dt) + 2
	for i := 0; !a.Done() && i < limit; i++ {
		a.Step(dt)
	}

	for _, s := range a.Snapshot() {
		slog.Info("Arena character",
			"character", s.Name,
			"ticks", s.Tick,
			"pos", formatVec(s.Position),
			"yaw", fmt.Sprintf("%.1f", s.Yaw),
			"state", s.Root.String()+"/"+s.Sub.String(),
			"grounded", s.Grounded,
		)
	}
	slog.Info("Arena complete", "characters", a.Len(), "steps", a.Steps())
	return nil
}

func runConsole(ctx context.Context, cfg *config.Config) error {
	src := input.NewManual()
	body := physics.NewBody(cfg.Shape(), cfg.SpawnPoint(), store(cfg))
	ctrl, err := controller.New(controller.Options{
		Name:       cfg.Character.Name,
		Settings:   cfg.Settings(),
		Collider:   body,
		Source:     src,
		Sampler:    sampler(cfg),
		InitialYaw: cfg.Character.Yaw,
	})
	if err != nil {
		return err
	}
	ctrl.Enable()
	defer ctrl.Close()

	console := debug.NewConsole(ctrl, src)
	console.SetCameraYaw(cfg.Character.Yaw)
	return console.Start(ctx)
}

// watch re-runs the scenario on every change to the config or scenario file.
// A reload that fails keeps the previous config and scenario.
func watch(ctx context.Context, opts options, cfg *config.Config, sc *scenario.Scenario) error {
	paths := []string{opts.configPath}
	if opts.scenarioPath != "" {
		paths = append(paths, opts.scenarioPath)
	}
	w, err := config.NewWatcher(paths...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if _, err := runScenario(cfg, sc, tickSize(opts, cfg)); err != nil {
		slog.Error("Scenario failed", "error", err)
	}
	slog.Info("Watching for changes", "files", paths)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			nextCfg, err := loadConfig(opts)
			if err != nil {
				slog.Error("Reload failed, keeping previous config", "file", name, "error", err)
				continue
			}
			nextSc, err := loadScenario(opts.scenarioPath)
			if err != nil {
				slog.Error("Reload failed, keeping previous scenario", "file", name, "error", err)
				continue
			}
			cfg, sc = nextCfg, nextSc
			logger.SetLevel(cfg.Logging.Level)
			slog.Info("Reloaded", "file", name)
			if _, err := runScenario(cfg, sc, tickSize(opts, cfg)); err != nil {
				slog.Error("Scenario failed", "error", err)
			}
		}
	}
}

func formatVec(v physics.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
