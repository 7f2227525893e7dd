package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Starvation.BaseThreshold <= 0 {
		t.Error("defaults must carry a positive starvation threshold")
	}
	if cfg.Respiratory.LungCapacity <= 0 {
		t.Error("defaults must carry a positive lung capacity")
	}
	if cfg.Circulatory.BleedCap <= 0 {
		t.Error("defaults must carry a positive bleed cap")
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	override := []byte("starvation:\n  base_threshold: 7.5\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Starvation.BaseThreshold != 7.5 {
		t.Errorf("base_threshold = %v, want 7.5", cfg.Starvation.BaseThreshold)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Respiratory.LungCapacity <= 0 {
		t.Error("unoverridden fields must keep defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	bad := []byte("circulatory:\n  flow_falloff: 1.5\n")
	if err := os.WriteFile(path, bad, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for flow_falloff >= 1")
	}
}

func TestDerivedThresholds(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := cfg.Starvation.BaseThreshold * cfg.Muscular.StarvationScale
	if math.Abs(cfg.Derived.MuscularStarve-want) > 1e-9 {
		t.Errorf("MuscularStarve = %v, want %v", cfg.Derived.MuscularStarve, want)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Starvation.BaseThreshold != cfg.Starvation.BaseThreshold {
		t.Error("round-tripped config diverged")
	}
}
