package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	FrameNumber int    `json:"frameNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this frame (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalFrames int    `json:"totalFrames"` // Total number of frames planned
}

// FrameUpdate is sent via SSE when a frame completes
type FrameUpdate struct {
	Event       string  `json:"event"`
	FrameNumber int     `json:"frameNumber"`
	TotalFrames int     `json:"totalFrames"`
	Time        float64 `json:"time"`
	ElapsedMs   int64   `json:"elapsedMs"`
	Stats       Stats   `json:"stats"`
}

// Stats represents frame statistics
type Stats struct {
	TotalPixels  int     `json:"totalPixels"`
	SkyPixels    int     `json:"skyPixels"`
	WaterPixels  int     `json:"waterPixels"`
	MarchMisses  int     `json:"marchMisses"`
	AverageSteps float64 `json:"averageSteps"`
	MaxSteps     int     `json:"maxSteps"`
}

func newStats(stats renderer.FrameStats) Stats {
	return Stats{
		TotalPixels:  stats.TotalPixels,
		SkyPixels:    stats.SkyPixels,
		WaterPixels:  stats.WaterPixels,
		MarchMisses:  stats.MarchMisses,
		AverageSteps: stats.AverageSteps,
		MaxSteps:     stats.MaxSteps,
	}
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "frameComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender handles frame rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine. It drains the channel once closed,
	// and the handler waits for it so nothing is written after returning.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming. The console channel is never
	// closed since the render goroutine may still log after a disconnect.
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()
	defer func() {
		stopConsole()
		<-consoleDone
	}()

	fr, err := s.newFrameRenderer(req)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}
	pr := renderer.NewProgressiveRenderer(fr, req.Width, req.Height, s.progressiveConfig(), webLogger)

	// Start rendering and stream events
	startTime := time.Now()
	renderOptions := renderer.RenderOptions{TileUpdates: true, TotalFrames: req.Frames}
	frameChan, tileChan, errChan := pr.RenderSequence(ctx, req.frameInput, renderOptions)

	s.handleRenderingEvents(ctx, sseEventChan, frameChan, tileChan, errChan, req, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages handles the console message streaming goroutine
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				// Channel closed
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			// Send to unified SSE channel
			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	frameChan <-chan renderer.FrameResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	req *RenderRequest, startTime time.Time) {

	for frameChan != nil || tileChan != nil {
		select {
		case frameResult, ok := <-frameChan:
			if !ok {
				frameChan = nil // Channel closed
				continue
			}
			s.handleFrameComplete(ctx, sseEventChan, frameResult, req, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil // Channel closed
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	// Both channels are closed, so the error (if any) is ready
	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handleFrameComplete processes and sends frame completion events
func (s *Server) handleFrameComplete(ctx context.Context, sseEventChan chan SSEEvent, frameResult renderer.FrameResult, req *RenderRequest, startTime time.Time) {
	update := FrameUpdate{
		Event:       "frameComplete",
		FrameNumber: frameResult.FrameNumber,
		TotalFrames: req.Frames,
		Time:        frameResult.Time,
		ElapsedMs:   time.Since(startTime).Milliseconds(),
		Stats:       newStats(frameResult.Stats),
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling frame update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "frameComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, tileResult renderer.TileCompletionResult) {
	// Convert tile image to base64 PNG
	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		FrameNumber: tileResult.FrameNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalFrames: tileResult.TotalFrames,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	if err := s.parseCommonParams(r.URL.Query(), req); err != nil {
		return nil, err
	}

	var err error
	if req.Frames, err = parseIntParam(r.URL.Query(), "frames", 1, minFrames, maxFrames); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height*req.Frames > 1920*1080*10 {
		log.Printf("Render warning: %d frames at %dx%d may render slowly", req.Frames, req.Width, req.Height)
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
