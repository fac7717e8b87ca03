package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()
	if s.Model != "hinge" {
		t.Errorf("expected model hinge, got %s", s.Model)
	}
	if s.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if s.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if s.World.BodyCount <= 0 {
		t.Error("body count should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	s := GetPreset("hinge", "limited")
	if s == nil {
		t.Fatal("expected preset, got nil")
	}
	if s.Steps != 600 {
		t.Errorf("expected 600 steps, got %d", s.Steps)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("hinge", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "limited") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("hinge")
	if len(presets) == 0 {
		t.Error("expected presets for hinge")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	s := GetPreset("chain", "short")
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != s.Model || loaded.Steps != s.Steps {
		t.Fatalf("round trip mismatch: got %+v, want %+v", loaded, s)
	}
}
