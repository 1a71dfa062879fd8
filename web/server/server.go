package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-ocean-raytracer/pkg/config"
	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
)

// DefaultTileSize is the tile edge used for streamed renders when the
// config does not set one
const DefaultTileSize = 64

// Request limits
const (
	minSize, maxSize     = 16, 2000
	minFrames, maxFrames = 1, 600
	maxTime              = 1e6
)

// Server handles web requests for the ocean renderer
type Server struct {
	port   int
	base   config.Config
	env    renderer.Environment
	static string
}

// NewServer creates a web server. Textures named by cfg are loaded once and
// shared by every request.
func NewServer(port int, cfg config.Config, logger core.Logger) (*Server, error) {
	env, err := cfg.Textures.Environment(logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		port:   port,
		base:   cfg,
		env:    env,
		static: "static/",
	}, nil
}

// progressiveConfig returns the tiling of the base config
func (s *Server) progressiveConfig() renderer.ProgressiveConfig {
	config := s.base.ProgressiveConfig()
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	return config
}

// RenderRequest holds the parameters shared by render, inspect and live requests
type RenderRequest struct {
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Time     float64             `json:"time"`    // Animation time of the first frame
	Frames   int                 `json:"frames"`  // Frames to stream
	FPS      float64             `json:"fps"`     // Animation clock rate between frames
	Preset   string              `json:"preset"`  // Wave preset
	Pointer  core.Vec2           `json:"pointer"` // Bottom-left origin
	Settings core.RenderSettings `json:"settings"`
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.static)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.handleLive)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleConfig returns the server defaults and parameter limits
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response := map[string]interface{}{
		"defaults": map[string]interface{}{
			"width":    s.base.Width,
			"height":   s.base.Height,
			"time":     s.base.Time,
			"frames":   1,
			"fps":      s.base.FPS,
			"preset":   s.base.Preset,
			"settings": s.base.Settings,
		},
		"textures": map[string]bool{
			"sky":    s.env.Sky != nil,
			"ground": s.env.Ground != nil,
		},
		"limits": map[string]interface{}{
			"width":        map[string]int{"min": minSize, "max": maxSize},
			"height":       map[string]int{"min": minSize, "max": maxSize},
			"frames":       map[string]int{"min": minFrames, "max": maxFrames},
			"reflectivity": map[string]float64{"min": 0, "max": 1},
			"zoom":         map[string]float64{"min": 0.1, "max": 16},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseCommonParams parses the parameters shared by every endpoint
func (s *Server) parseCommonParams(values url.Values, req *RenderRequest) error {
	var err error
	if req.Width, err = parseIntParam(values, "width", s.base.Width, minSize, maxSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", s.base.Height, minSize, maxSize); err != nil {
		return err
	}
	if req.Time, err = parseFloatParam(values, "time", s.base.Time, 0, maxTime); err != nil {
		return err
	}
	if req.FPS, err = parseFloatParam(values, "fps", s.base.FPS, 1, 120); err != nil {
		return err
	}

	req.Preset = s.base.Preset
	if preset := values.Get("preset"); preset != "" {
		if preset != config.PresetCalm && preset != config.PresetChoppy {
			return fmt.Errorf("unknown preset: %s", preset)
		}
		req.Preset = preset
	}

	settings := s.base.Settings
	if settings.Reflectivity, err = parseFloatParam(values, "reflectivity", settings.Reflectivity, 0, 1); err != nil {
		return err
	}
	if settings.Zoom, err = parseFloatParam(values, "zoom", settings.Zoom, 0.1, 16); err != nil {
		return err
	}
	if settings.UseSkyTexture, err = parseBoolParam(values, "skyTexture", settings.UseSkyTexture); err != nil {
		return err
	}
	if settings.UseGroundTexture, err = parseBoolParam(values, "groundTexture", settings.UseGroundTexture); err != nil {
		return err
	}
	req.Settings = settings

	// Pointer defaults to the center, which looks straight ahead
	center := renderer.CenteredPointer(req.Width, req.Height)
	if req.Pointer.X, err = parseFloatParam(values, "pointerX", center.X, 0, float64(req.Width)); err != nil {
		return err
	}
	if req.Pointer.Y, err = parseFloatParam(values, "pointerY", center.Y, 0, float64(req.Height)); err != nil {
		return err
	}

	return nil
}

// newFrameRenderer builds a frame renderer for a request over the shared environment
func (s *Server) newFrameRenderer(req *RenderRequest) (*renderer.FrameRenderer, error) {
	cfg := s.base
	cfg.Preset = req.Preset
	if req.Preset != s.base.Preset {
		cfg.Waves = nil
	}
	waves, err := cfg.WaveParams()
	if err != nil {
		return nil, err
	}
	fr := renderer.NewFrameRenderer(waves, s.env)
	fr.Gamma = s.base.Gamma
	return fr, nil
}

// frameInput returns the input of a 1-based frame of a request
func (req *RenderRequest) frameInput(frame int) renderer.FrameInput {
	return renderer.FrameInput{
		Time:     req.Time + float64(frame-1)/req.FPS,
		Width:    req.Width,
		Height:   req.Height,
		Pointer:  req.Pointer,
		Settings: req.Settings,
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
