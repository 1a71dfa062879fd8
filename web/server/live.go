package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-ocean-raytracer/pkg/controls"
	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Live view limits
const (
	liveDefaultWidth  = 320
	liveDefaultHeight = 180
	liveMaxSize       = 960
)

// LiveInput is a message from the browser. Pointer coordinates are canvas
// pixels with a top-left origin.
type LiveInput struct {
	Type string  `json:"type"` // "pointer", "keydown" or "keyup"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Key  int     `json:"key"` // Key code for key events
}

// LiveFrame is a rendered frame sent to the browser
type LiveFrame struct {
	Type        string              `json:"type"` // "frame" or "error"
	FrameNumber int                 `json:"frameNumber"`
	Time        float64             `json:"time"`
	ImageData   string              `json:"imageData,omitempty"` // Base64 encoded PNG
	Settings    core.RenderSettings `json:"settings"`
	Stats       Stats               `json:"stats"`
	ElapsedMs   int64               `json:"elapsedMs"`
	Message     string              `json:"message,omitempty"`
}

// liveSession holds the interactive state of one connection
type liveSession struct {
	req      *RenderRequest
	latch    *controls.ToggleLatch
	settings *controls.SettingsStore
	start    time.Time

	mu      sync.Mutex
	pointer core.Vec2 // Bottom-left origin
}

func newLiveSession(req *RenderRequest) *liveSession {
	return &liveSession{
		req:      req,
		latch:    controls.NewToggleLatch(),
		settings: controls.NewSettingsStore(req.Settings),
		start:    time.Now(),
		pointer:  req.Pointer,
	}
}

// apply updates the session from a browser message
func (ls *liveSession) apply(msg LiveInput) {
	switch msg.Type {
	case "pointer":
		x := max(0, min(msg.X, float64(ls.req.Width)))
		y := max(0, min(msg.Y, float64(ls.req.Height)))
		ls.mu.Lock()
		ls.pointer = core.NewVec2(x, float64(ls.req.Height)-y)
		ls.mu.Unlock()
	case "keydown":
		ls.latch.Press(controls.Key(msg.Key))
	case "keyup":
		ls.latch.Release(controls.Key(msg.Key))
	default:
		return
	}

	if err := ls.settings.ApplyKeys(ls.req.Settings, ls.latch.Snapshot()); err != nil {
		log.Printf("Live view: %v", err)
	}
}

// frameInput snapshots the session for the next frame. The animation clock
// follows wall time from the start of the session.
func (ls *liveSession) frameInput(frame int) renderer.FrameInput {
	ls.mu.Lock()
	pointer := ls.pointer
	ls.mu.Unlock()

	return renderer.FrameInput{
		Time:     ls.req.Time + time.Since(ls.start).Seconds(),
		Width:    ls.req.Width,
		Height:   ls.req.Height,
		Pointer:  pointer,
		Settings: ls.settings.Load(),
	}
}

// handleLive streams frames over a websocket while the browser sends
// pointer and key events. Rendering runs until the connection closes.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	values := r.URL.Query()
	if !values.Has("width") {
		values.Set("width", strconv.Itoa(liveDefaultWidth))
	}
	if !values.Has("height") {
		values.Set("height", strconv.Itoa(liveDefaultHeight))
	}
	if err := s.parseCommonParams(values, req); err != nil {
		http.Error(w, "Invalid parameters: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Width > liveMaxSize || req.Height > liveMaxSize {
		http.Error(w, "Live view is limited to 960x960", http.StatusBadRequest)
		return
	}

	fr, err := s.newFrameRenderer(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := newLiveSession(req)
	pr := renderer.NewProgressiveRenderer(fr, req.Width, req.Height, s.progressiveConfig(), &serverLogger{})
	frameChan, _, errChan := pr.RenderSequence(ctx, session.frameInput, renderer.RenderOptions{})

	// Writer: frames go out one at a time, so a slow client slows rendering.
	// It is the only goroutine writing to conn.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for result := range frameChan {
			imageData, err := imageToBase64PNG(result.Image)
			if err != nil {
				log.Printf("Error encoding live frame: %v", err)
				cancel()
				continue
			}
			err = conn.WriteJSON(LiveFrame{
				Type:        "frame",
				FrameNumber: result.FrameNumber,
				Time:        result.Time,
				ImageData:   imageData,
				Settings:    result.Settings,
				Stats:       newStats(result.Stats),
				ElapsedMs:   result.Elapsed.Milliseconds(),
			})
			if err != nil {
				cancel()
			}
		}
		if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
			conn.WriteJSON(LiveFrame{Type: "error", Message: err.Error()})
		}
	}()

	// Handle incoming messages (pointer and keys)
	for {
		var msg LiveInput
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("WebSocket read error:", err)
			}
			break
		}
		session.apply(msg)
	}

	cancel()
	<-writerDone
}

// serverLogger implements core.Logger with the standard log package
type serverLogger struct{}

func (l *serverLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
