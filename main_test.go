package main

import (
	"context"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/config"
)

type testLogger struct{}

func (testLogger) Printf(format string, args ...interface{}) {}

// noOverrides leaves every config value untouched
func noOverrides() overrides {
	return overrides{time: -1, reflectivity: -1}
}

func TestLoadConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	tests := []struct {
		name   string
		modify func(o *overrides)
		check  func(t *testing.T, cfg config.Config)
		errStr string
	}{
		{
			name:   "defaults",
			modify: func(o *overrides) {},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Width != config.Default().Width || cfg.Settings != config.Default().Settings {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name: "size and time",
			modify: func(o *overrides) {
				o.width, o.height, o.time = 64, 32, 0
			},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Width != 64 || cfg.Height != 32 || cfg.Time != 0 {
					t.Errorf("Overrides not applied: %+v", cfg)
				}
			},
		},
		{
			name: "render settings",
			modify: func(o *overrides) {
				o.reflectivity, o.zoom = 0, 4
				o.skyTexture, o.groundTexture = "on", "off"
			},
			check: func(t *testing.T, cfg config.Config) {
				s := cfg.Settings
				if s.Reflectivity != 0 || s.Zoom != 4 || !s.UseSkyTexture || s.UseGroundTexture {
					t.Errorf("Settings overrides not applied: %+v", s)
				}
			},
		},
		{
			name: "panorama replaces cubemap",
			modify: func(o *overrides) {
				o.skyPanorama = "sky.png"
				o.noSeabed = true
			},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Textures.SkyPanorama != "sky.png" || cfg.Textures.SkyCubemap != "" || cfg.Textures.Seabed {
					t.Errorf("Texture overrides not applied: %+v", cfg.Textures)
				}
			},
		},
		{
			name:   "bad switch",
			modify: func(o *overrides) { o.skyTexture = "maybe" },
			errStr: "-sky-texture",
		},
		{
			name:   "bad reflectivity",
			modify: func(o *overrides) { o.reflectivity = 3 },
			errStr: "reflectivity",
		},
		{
			name:   "bad preset",
			modify: func(o *overrides) { o.preset = "stormy" },
			errStr: "preset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := noOverrides()
			tt.modify(&o)
			cfg, err := loadConfig(missing, o)

			if tt.errStr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errStr) {
					t.Errorf("Expected error containing %q, got %v", tt.errStr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestCreateOutputDir(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	tests := []struct {
		name     string
		expected string
	}{
		{"ocean", filepath.Join("output", "ocean")},
		{"nested/name", filepath.Join("output", "name")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputDir, err := createOutputDir(tt.name)
			if err != nil {
				t.Fatalf("createOutputDir failed: %v", err)
			}
			if outputDir != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, outputDir)
			}
			if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
				t.Errorf("Expected directory %s to exist", outputDir)
			}
		})
	}
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 24, 16
	cfg.TileSize = 8
	cfg.Frames = 3
	return cfg
}

func TestRenderStill(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "still.png")
	if err := renderStill(smallConfig(), filename, testLogger{}); err != nil {
		t.Fatalf("renderStill failed: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("Expected 24x16, got %v", img.Bounds())
	}
}

func TestRenderAnimation(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "anim.gif")
	if err := renderAnimation(context.Background(), smallConfig(), filename, testLogger{}); err != nil {
		t.Fatalf("renderAnimation failed: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("Failed to decode GIF: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(anim.Image))
	}
}

func TestRenderAnimation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	filename := filepath.Join(t.TempDir(), "anim.gif")
	if err := renderAnimation(ctx, smallConfig(), filename, testLogger{}); err == nil {
		t.Error("Expected error for cancelled context")
	}
	if _, err := os.Stat(filename); err == nil {
		t.Error("Cancelled animation should not be written")
	}
}
