// Command oceanview renders the ocean in a window. Drag with the left mouse
// button to look around; keys 1-8 change zoom, texture modes and reflectivity.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/df07/go-ocean-raytracer/pkg/config"
	"github.com/df07/go-ocean-raytracer/pkg/controls"
	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyBindings maps the control keys to ebiten keys
var keyBindings = map[controls.Key]ebiten.Key{
	controls.Key1: ebiten.KeyDigit1,
	controls.Key2: ebiten.KeyDigit2,
	controls.Key3: ebiten.KeyDigit3,
	controls.Key4: ebiten.KeyDigit4,
	controls.Key5: ebiten.KeyDigit5,
	controls.Key6: ebiten.KeyDigit6,
	controls.Key7: ebiten.KeyDigit7,
	controls.Key8: ebiten.KeyDigit8,
}

// inputSource is the per-tick input the game reads
type inputSource interface {
	Cursor() (x, y int, dragging bool)
	JustPressed(key controls.Key) bool
	JustReleased(key controls.Key) bool
	Quit() bool
}

// ebitenInput reads input from ebiten
type ebitenInput struct{}

func (ebitenInput) Cursor() (int, int, bool) {
	x, y := ebiten.CursorPosition()
	return x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (ebitenInput) JustPressed(key controls.Key) bool {
	return inpututil.IsKeyJustPressed(keyBindings[key])
}

func (ebitenInput) JustReleased(key controls.Key) bool {
	return inpututil.IsKeyJustReleased(keyBindings[key])
}

func (ebitenInput) Quit() bool {
	return ebiten.IsKeyPressed(ebiten.KeyEscape)
}

// Game renders frames in the background and shows the latest one
type Game struct {
	width, height int
	base          core.RenderSettings
	startTime     float64
	start         time.Time
	input         inputSource
	latch         *controls.ToggleLatch
	settings      *controls.SettingsStore

	mu      sync.Mutex
	pointer core.Vec2   // Bottom-left origin
	latest  *image.RGBA // Most recent completed frame
	stats   renderer.FrameStats
	elapsed time.Duration
}

// NewGame creates a game for the configured viewport
func NewGame(cfg config.Config, input inputSource) *Game {
	return &Game{
		width:     cfg.Width,
		height:    cfg.Height,
		base:      cfg.Settings,
		startTime: cfg.Time,
		start:     time.Now(),
		input:     input,
		latch:     controls.NewToggleLatch(),
		settings:  controls.NewSettingsStore(cfg.Settings),
		pointer:   renderer.CenteredPointer(cfg.Width, cfg.Height),
	}
}

// frameInput snapshots the game state for the next frame
func (g *Game) frameInput(frame int) renderer.FrameInput {
	g.mu.Lock()
	pointer := g.pointer
	g.mu.Unlock()

	return renderer.FrameInput{
		Time:     g.startTime + time.Since(g.start).Seconds(),
		Width:    g.width,
		Height:   g.height,
		Pointer:  pointer,
		Settings: g.settings.Load(),
	}
}

// run consumes frames until the sequence ends
func (g *Game) run(frameChan <-chan renderer.FrameResult, errChan <-chan error) {
	for result := range frameChan {
		g.mu.Lock()
		g.latest = result.Image
		g.stats = result.Stats
		g.elapsed = result.Elapsed
		g.mu.Unlock()
	}
	if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Rendering failed: %v", err)
	}
}

// Update reads the pointer and keys. Changes reach the renderer at the start
// of its next frame.
func (g *Game) Update() error {
	if g.input.Quit() {
		return ebiten.Termination
	}

	if x, y, dragging := g.input.Cursor(); dragging {
		px := max(0, min(float64(x), float64(g.width)))
		py := max(0, min(float64(y), float64(g.height)))
		g.mu.Lock()
		g.pointer = core.NewVec2(px, float64(g.height)-py)
		g.mu.Unlock()
	}

	changed := false
	for key := controls.Key1; key <= controls.Key8; key++ {
		if g.input.JustPressed(key) {
			g.latch.Press(key)
			changed = true
		}
		if g.input.JustReleased(key) {
			g.latch.Release(key)
			changed = true
		}
	}
	if changed {
		return g.settings.ApplyKeys(g.base, g.latch.Snapshot())
	}
	return nil
}

// Draw copies the latest frame to the screen
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	latest, stats, elapsed := g.latest, g.stats, g.elapsed
	g.mu.Unlock()

	if latest == nil {
		ebitenutil.DebugPrint(screen, "Rendering first frame...")
		return
	}
	screen.WritePixels(latest.Pix)

	s := g.settings.Load()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%v/frame  %.1f steps  zoom %.1f  refl %.1f",
		elapsed.Round(time.Millisecond), stats.AverageSteps, s.Zoom, s.Reflectivity))
}

// Layout renders at the configured resolution; ebiten scales it to the window
func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }

// loadConfig reads the config file and applies the size flags; 0 keeps
// the configured size
func loadConfig(path string, width, height int) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("error loading config: %w", err)
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "JSON config file (defaults are used if missing)")
	width := flag.Int("width", 0, "Render width (0 = config)")
	height := flag.Int("height", 0, "Render height (0 = config)")
	scale := flag.Int("scale", 1, "Window scale factor")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *width, *height)
	if err != nil {
		log.Fatal(err)
	}

	logger := renderer.NewDefaultLogger()
	fr, err := cfg.NewFrameRenderer(logger)
	if err != nil {
		log.Fatalf("Error creating renderer: %v", err)
	}

	g := NewGame(cfg, ebitenInput{})
	pr := renderer.NewProgressiveRenderer(fr, cfg.Width, cfg.Height, cfg.ProgressiveConfig(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	frameChan, _, errChan := pr.RenderSequence(ctx, g.frameInput, renderer.RenderOptions{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.run(frameChan, errChan)
	}()

	ebiten.SetWindowSize(cfg.Width*(*scale), cfg.Height*(*scale))
	ebiten.SetWindowTitle("Ocean")
	err = ebiten.RunGame(g)
	cancel()
	<-done
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
