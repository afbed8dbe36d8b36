package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.HistorySize != Default().Solver.HistorySize {
		t.Fatalf("expected default history size, got %d", cfg.Solver.HistorySize)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("solver:\n  history_size: 900\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.HistorySize != 900 {
		t.Fatalf("expected overridden history size 900, got %d", cfg.Solver.HistorySize)
	}
	if cfg.Solver.TimeLimitSeconds != Default().Solver.TimeLimitSeconds {
		t.Fatalf("expected default time limit to survive a partial file, got %d", cfg.Solver.TimeLimitSeconds)
	}
	if cfg.Solver.RoadNetwork != Default().Solver.RoadNetwork {
		t.Fatalf("expected default road network, got %q", cfg.Solver.RoadNetwork)
	}
}

func TestRuntimeConfigTranslation(t *testing.T) {
	cfg := Default()
	cfg.Solver.TimeLimitSeconds = 5
	rc := cfg.RuntimeConfig()
	if rc.LocalSearch.HistorySize != cfg.Solver.HistorySize {
		t.Fatalf("expected history size to carry over, got %d", rc.LocalSearch.HistorySize)
	}
	if rc.TimeLimit.Seconds() != 5 {
		t.Fatalf("expected a 5 second time limit, got %s", rc.TimeLimit)
	}
}
