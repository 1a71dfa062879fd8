package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-ocean-raytracer/pkg/config"
	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/export"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
)

// overrides holds command line values that replace config file values.
// Zero values and negative numbers leave the config untouched.
type overrides struct {
	width, height int
	time          float64
	frames        int
	fps           float64
	preset        string
	reflectivity  float64
	zoom          float64
	skyCubemap    string
	skyPanorama   string
	groundCubemap string
	ground        string
	noSeabed      bool
	skyTexture    string
	groundTexture string
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "JSON config file (defaults are used if missing)")
	mode := flag.String("mode", "still", "Output: 'still' (PNG) or 'gif' (animated GIF)")
	name := flag.String("name", "ocean", "Output subdirectory under output/")
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")
	help := flag.Bool("help", false, "Show help information")

	var o overrides
	flag.IntVar(&o.width, "width", 0, "Image width (0 = config)")
	flag.IntVar(&o.height, "height", 0, "Image height (0 = config)")
	flag.Float64Var(&o.time, "time", -1, "Animation time of the first frame in seconds (-1 = config)")
	flag.IntVar(&o.frames, "frames", 0, "Frames to render in gif mode (0 = config)")
	flag.Float64Var(&o.fps, "fps", 0, "Animation frames per second (0 = config)")
	flag.StringVar(&o.preset, "preset", "", "Wave preset: 'calm' or 'choppy'")
	flag.Float64Var(&o.reflectivity, "reflectivity", -1, "Reflection blend weight in [0,1] (-1 = config)")
	flag.Float64Var(&o.zoom, "zoom", 0, "Camera zoom (0 = config)")
	flag.StringVar(&o.skyCubemap, "sky-cubemap", "", "Directory with posx..negz sky faces")
	flag.StringVar(&o.skyPanorama, "sky-panorama", "", "Equirectangular sky image")
	flag.StringVar(&o.groundCubemap, "ground-cubemap", "", "Directory with posx..negz underwater faces")
	flag.StringVar(&o.ground, "ground", "", "Equirectangular seabed image")
	flag.BoolVar(&o.noSeabed, "no-seabed", false, "Disable the procedural seabed")
	flag.StringVar(&o.skyTexture, "sky-texture", "", "Sky texture mode: 'on' or 'off'")
	flag.StringVar(&o.groundTexture, "ground-texture", "", "Ground texture mode: 'on' or 'off'")
	flag.Parse()

	if *help {
		fmt.Println("Ocean Raytracer")
		fmt.Println("Usage: ocean [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/<name>/render_<timestamp>.png (or .gif)")
		return
	}

	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", *writeConfig)
		return
	}

	fmt.Println("Starting Ocean Raytracer...")

	outputDir, err := createOutputDir(*name)
	if err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	logger := renderer.NewDefaultLogger()
	timestamp := time.Now().Format("20060102_150405")

	var filename string
	switch *mode {
	case "still":
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
		err = renderStill(cfg, filename, logger)
	case "gif":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.gif", timestamp))
		err = renderAnimation(ctx, cfg, filename, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(path string, o overrides) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.height > 0 {
		cfg.Height = o.height
	}
	if o.time >= 0 {
		cfg.Time = o.time
	}
	if o.frames > 0 {
		cfg.Frames = o.frames
	}
	if o.fps > 0 {
		cfg.FPS = o.fps
	}
	if o.preset != "" {
		cfg.Preset = o.preset
		cfg.Waves = nil
	}
	if o.reflectivity >= 0 {
		cfg.Settings.Reflectivity = o.reflectivity
	}
	if o.zoom > 0 {
		cfg.Settings.Zoom = o.zoom
	}
	if o.skyCubemap != "" {
		cfg.Textures.SkyCubemap = o.skyCubemap
		cfg.Textures.SkyPanorama = ""
	}
	if o.skyPanorama != "" {
		cfg.Textures.SkyPanorama = o.skyPanorama
		cfg.Textures.SkyCubemap = ""
	}
	if o.groundCubemap != "" {
		cfg.Textures.GroundCubemap = o.groundCubemap
		cfg.Textures.Ground = ""
	}
	if o.ground != "" {
		cfg.Textures.Ground = o.ground
		cfg.Textures.GroundCubemap = ""
	}
	if o.noSeabed {
		cfg.Textures.Seabed = false
	}
	if cfg.Settings.UseSkyTexture, err = parseSwitch(o.skyTexture, cfg.Settings.UseSkyTexture); err != nil {
		return cfg, fmt.Errorf("invalid -sky-texture: %w", err)
	}
	if cfg.Settings.UseGroundTexture, err = parseSwitch(o.groundTexture, cfg.Settings.UseGroundTexture); err != nil {
		return cfg, fmt.Errorf("invalid -ground-texture: %w", err)
	}

	return cfg, cfg.Validate()
}

// parseSwitch parses "on"/"off", returning current for an empty value
func parseSwitch(value string, current bool) (bool, error) {
	switch value {
	case "":
		return current, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return current, fmt.Errorf("expected 'on' or 'off', got %q", value)
	}
}

// createOutputDir creates output/<name> and returns its path
func createOutputDir(name string) (string, error) {
	outputDir := filepath.Join("output", filepath.Base(name))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	return outputDir, nil
}

// newProgressiveRenderer builds the tiled renderer the config describes
func newProgressiveRenderer(cfg config.Config, logger core.Logger) (*renderer.ProgressiveRenderer, error) {
	fr, err := cfg.NewFrameRenderer(logger)
	if err != nil {
		return nil, err
	}
	return renderer.NewProgressiveRenderer(fr, cfg.Width, cfg.Height, cfg.ProgressiveConfig(), logger), nil
}

// renderStill renders the first frame of the config to a PNG
func renderStill(cfg config.Config, filename string, logger core.Logger) error {
	pr, err := newProgressiveRenderer(cfg, logger)
	if err != nil {
		return err
	}
	defer pr.Close()

	in := cfg.FrameInput(1, cfg.Settings)
	logger.Printf("Rendering %dx%d at t=%.2fs with %d workers...\n",
		cfg.Width, cfg.Height, in.Time, pr.GetNumWorkers())

	startTime := time.Now()
	img, stats, err := pr.RenderFrame(in, 1, nil)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Water pixels: %d/%d, %.1f march steps on average (max %d), %d misses\n",
		stats.WaterPixels, stats.TotalPixels, stats.AverageSteps, stats.MaxSteps, stats.MarchMisses)

	return export.SavePNG(filename, img)
}

// renderAnimation renders cfg.Frames frames to an animated GIF. Cancelling
// ctx stops rendering and writes nothing.
func renderAnimation(ctx context.Context, cfg config.Config, filename string, logger core.Logger) error {
	pr, err := newProgressiveRenderer(cfg, logger)
	if err != nil {
		return err
	}

	input := func(frame int) renderer.FrameInput {
		return cfg.FrameInput(frame, cfg.Settings)
	}
	frameChan, _, errChan := pr.RenderSequence(ctx, input, renderer.RenderOptions{TotalFrames: cfg.Frames})

	anim := export.NewGIFAnimation(cfg.FPS)
	var totalElapsed time.Duration
	for result := range frameChan {
		anim.AddFrame(result.Image)
		totalElapsed += result.Elapsed
	}
	if err := <-errChan; err != nil {
		return err
	}

	logger.Printf("Rendered %d frames in %v\n", anim.Len(), totalElapsed)
	return anim.Save(filename)
}
