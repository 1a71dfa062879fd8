package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/ocean"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Width != Default().Width || cfg.Settings != core.DefaultRenderSettings() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"width": 320,
		"preset": "choppy",
		"settings": {"reflectivity": 0.5, "zoom": 2, "useSkyTexture": false, "useGroundTexture": false}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Width != 320 {
		t.Errorf("Expected width 320, got %d", cfg.Width)
	}
	if cfg.Height != Default().Height {
		t.Errorf("Unset height should keep default %d, got %d", Default().Height, cfg.Height)
	}
	if cfg.Settings.Reflectivity != 0.5 || cfg.Settings.Zoom != 2 || cfg.Settings.UseGroundTexture {
		t.Errorf("Settings not loaded: %+v", cfg.Settings)
	}

	waves, err := cfg.WaveParams()
	if err != nil {
		t.Fatalf("WaveParams failed: %v", err)
	}
	if waves != ocean.ChoppyWaveParams() {
		t.Errorf("Expected choppy preset, got %+v", waves)
	}
}

func TestLoad_ExplicitWavesWinOverPreset(t *testing.T) {
	path := writeConfig(t, `{"preset": "choppy", "waves": {"angleStep": 5, "initialFrequency": 1, "initialSpeed": 1,
		"frequencyGrowth": 1.2, "speedGrowth": 1.1, "weightDecay": 0.7, "drag": 0, "positionScale": 0.2,
		"depth": 3, "marchOctaves": 4, "normalOctaves": 8}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	waves, _ := cfg.WaveParams()
	if waves.Depth != 3 || waves.MarchOctaves != 4 || waves.Drag != 0 {
		t.Errorf("Explicit waves not used: %+v", waves)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"Malformed JSON", `{"width": `, "error parsing"},
		{"Unknown field", `{"widht": 10}`, "error parsing"},
		{"Bad size", `{"width": 0}`, "size must be positive"},
		{"Bad reflectivity", `{"settings": {"reflectivity": 1.5, "zoom": 1}}`, "reflectivity"},
		{"Bad preset", `{"preset": "stormy"}`, "unknown wave preset"},
		{"Two skies", `{"textures": {"skyCubemap": "a", "skyPanorama": "b"}}`, "only one"},
		{"Two grounds", `{"textures": {"groundCubemap": "a", "ground": "b"}}`, "groundCubemap"},
		{"Bad fps", `{"fps": 0}`, "fps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Expected error containing %q, got %v", tt.errText, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Width = 123
	cfg.Settings.UseSkyTexture = true

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Width != 123 || !loaded.Settings.UseSkyTexture {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}

func TestFrameTime(t *testing.T) {
	cfg := Default()
	cfg.Time = 2
	cfg.FPS = 10

	if got := cfg.FrameTime(1); got != 2 {
		t.Errorf("Frame 1: expected 2, got %f", got)
	}
	if got := cfg.FrameTime(11); got != 3 {
		t.Errorf("Frame 11: expected 3, got %f", got)
	}
}
