package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/gait/internal/config"
	"github.com/Versifine/gait/internal/logger"
	"github.com/Versifine/gait/internal/scenario"
)

type options struct {
	configPath     string
	explicitConfig bool
	scenarioPath   string
	console        bool
	watch          bool
	dt             float64
	logLevel       string
	arena          int
}

func main() {
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("gait", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "configs/gait.yaml", "path to the yaml config")
	fs.StringVar(&opts.scenarioPath, "scenario", "", "path to a yaml input timeline (built-in tour when empty)")
	fs.BoolVar(&opts.console, "console", false, "drive the character from an interactive terminal")
	fs.BoolVar(&opts.watch, "watch", false, "re-run the scenario whenever the config or scenario changes")
	fs.Float64Var(&opts.dt, "dt", 0, "fixed tick in seconds (sim.dt when zero)")
	fs.StringVar(&opts.logLevel, "log-level", "", "override logging.level")
	fs.IntVar(&opts.arena, "arena", 0, "run the scenario with this many characters in one world")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			opts.explicitConfig = true
		}
	})
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out, closeOut, err := logOutput(cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeOut()
	logCfg := cfg.LoggerConfig()
	logCfg.Output = out
	logger.Init(logCfg)

	sc, err := loadScenario(opts.scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.console:
		return runConsole(ctx, cfg)
	case opts.watch:
		return watch(ctx, opts, cfg, sc)
	case opts.arena > 0:
		return runArena(cfg, sc, opts.arena, tickSize(opts, cfg))
	default:
		_, err = runScenario(cfg, sc, tickSize(opts, cfg))
		return err
	}
}

// loadConfig falls back to defaults when the default config path is absent.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if !os.IsNotExist(err) || opts.explicitConfig {
			return nil, err
		}
		cfg = config.Default()
	}
	if opts.logLevel != "" {
		if !logger.ValidLevel(opts.logLevel) {
			return nil, fmt.Errorf("%w: unknown -log-level %q", config.ErrInvalidConfig, opts.logLevel)
		}
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return tour(), nil
	}
	return scenario.Load(path)
}

func tickSize(opts options, cfg *config.Config) float64 {
	if opts.dt > 0 {
		return opts.dt
	}
	return cfg.Sim.Dt
}

func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
