// Package config loads the solver's runtime tuning from a YAML file,
// falling back to compiled-in defaults when no file is supplied or a
// field is left zero. Both command applications load the same shape;
// which fields a given domain actually uses is up to its own wiring.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gosolve/pkg/solver/localsearch"
	"github.com/gitrdm/gosolve/pkg/solver/runtime"
)

// SolverConfig is the top-level shape of solver.yaml.
type SolverConfig struct {
	Solver  SolverSection  `yaml:"solver"`
	Server  ServerSection  `yaml:"server"`
	Logging LoggingSection `yaml:"logging"`
}

// SolverSection tunes the construction + local search runtime.
type SolverSection struct {
	HistorySize       int    `yaml:"history_size"`
	StepLimit         int64  `yaml:"step_limit"`
	TimeLimitSeconds  int    `yaml:"time_limit_seconds"`
	MaxConcurrentJobs int    `yaml:"max_concurrent_jobs"`
	RoadNetwork       string `yaml:"road_network"` // "haversine" or "osm"
	OSMCacheDir       string `yaml:"osm_cache_dir"`
}

// ServerSection configures the REST listener.
type ServerSection struct {
	Addr string `yaml:"addr"`
}

// LoggingSection configures each command's zerolog logger.
type LoggingSection struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Pretty bool   `yaml:"pretty"` // console-writer output instead of JSON
}

// Default returns the solver's baseline configuration, used whenever no
// solver.yaml is found or a loaded file leaves a field at its zero value.
func Default() SolverConfig {
	return SolverConfig{
		Solver: SolverSection{
			HistorySize:       localsearch.DefaultConfig().HistorySize,
			StepLimit:         0,
			TimeLimitSeconds:  30,
			MaxConcurrentJobs: 4,
			RoadNetwork:       "haversine",
			OSMCacheDir:       ".osm_cache",
		},
		Server: ServerSection{Addr: ":8080"},
		Logging: LoggingSection{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads solver.yaml at path, filling any zero-valued field from
// Default(). A missing file is not an error: Load returns Default()
// unchanged, so a command can run with no configuration file at all.
func Load(path string) (SolverConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read solver config %s: %w", path, err)
	}

	var loaded SolverConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse solver config %s: %w", path, err)
	}
	mergeDefaults(&loaded, cfg)
	return loaded, nil
}

// mergeDefaults fills every zero-valued field of loaded from defaults,
// in place, so a partial solver.yaml only overrides what it mentions.
func mergeDefaults(loaded *SolverConfig, defaults SolverConfig) {
	if loaded.Solver.HistorySize == 0 {
		loaded.Solver.HistorySize = defaults.Solver.HistorySize
	}
	if loaded.Solver.TimeLimitSeconds == 0 {
		loaded.Solver.TimeLimitSeconds = defaults.Solver.TimeLimitSeconds
	}
	if loaded.Solver.MaxConcurrentJobs == 0 {
		loaded.Solver.MaxConcurrentJobs = defaults.Solver.MaxConcurrentJobs
	}
	if loaded.Solver.RoadNetwork == "" {
		loaded.Solver.RoadNetwork = defaults.Solver.RoadNetwork
	}
	if loaded.Solver.OSMCacheDir == "" {
		loaded.Solver.OSMCacheDir = defaults.Solver.OSMCacheDir
	}
	if loaded.Server.Addr == "" {
		loaded.Server.Addr = defaults.Server.Addr
	}
	if loaded.Logging.Level == "" {
		loaded.Logging.Level = defaults.Logging.Level
	}
}

// RuntimeConfig translates the loaded solver section into runtime.Config.
func (c SolverConfig) RuntimeConfig() runtime.Config {
	return runtime.Config{
		LocalSearch: localsearch.Config{
			HistorySize: c.Solver.HistorySize,
			StepLimit:   c.Solver.StepLimit,
		},
		TimeLimit: time.Duration(c.Solver.TimeLimitSeconds) * time.Second,
	}
}
