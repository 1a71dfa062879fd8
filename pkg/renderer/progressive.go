package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for tiled parallel rendering
type ProgressiveConfig struct {
	TileSize   int // Size of each tile (64x64 recommended)
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// ProgressiveRenderer renders frames tile by tile on a worker pool and
// reports tiles as they complete
type ProgressiveRenderer struct {
	renderer      *FrameRenderer
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	workerPool    *WorkerPool
	logger        core.Logger
	startOnce     sync.Once
	stopOnce      sync.Once
	mu            sync.Mutex // Serializes frames; tiles of one frame run in parallel
	closed        bool       // Guarded by mu
}

// NewProgressiveRenderer creates a renderer for a fixed viewport size
func NewProgressiveRenderer(fr *FrameRenderer, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	tiles := NewTileGrid(width, height, config.TileSize)

	return &ProgressiveRenderer{
		renderer:   fr,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		workerPool: NewWorkerPool(len(tiles), config.NumWorkers),
		logger:     logger,
	}
}

// FrameResult contains a completed frame
type FrameResult struct {
	FrameNumber int
	Time        float64             // Animation time of the frame
	Settings    core.RenderSettings // Settings the frame was rendered with
	Image       *image.RGBA
	Stats       FrameStats
	Elapsed     time.Duration
	IsLast      bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX       int // Tile coordinates (not pixel coordinates)
	TileY       int
	TileImage   *image.RGBA // Image data for just this tile
	FrameNumber int         // Which frame this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this frame (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalFrames int // Total number of frames planned (0 = unbounded)
}

// RenderOptions configures sequence rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
	TotalFrames int  // Frames to render; 0 renders until the context is cancelled
}

// Close stops the worker pool. The renderer cannot be used afterwards.
func (pr *ProgressiveRenderer) Close() {
	pr.mu.Lock()
	pr.closed = true
	pr.mu.Unlock()
	pr.stopOnce.Do(pr.workerPool.Stop)
}

// GetNumWorkers returns the number of parallel workers
func (pr *ProgressiveRenderer) GetNumWorkers() int {
	return pr.workerPool.GetNumWorkers()
}

// RenderFrame renders one frame using parallel tiles. The tile callback, if
// provided, is invoked on the calling goroutine as tiles complete.
func (pr *ProgressiveRenderer) RenderFrame(in FrameInput, frameNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, FrameStats, error) {
	if in.Width != pr.width || in.Height != pr.height {
		return nil, FrameStats{}, fmt.Errorf("frame size %dx%d does not match renderer size %dx%d", in.Width, in.Height, pr.width, pr.height)
	}
	if err := in.Settings.Validate(); err != nil {
		return nil, FrameStats{}, fmt.Errorf("invalid render settings: %w", err)
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.closed {
		return nil, FrameStats{}, fmt.Errorf("progressive renderer is closed")
	}
	pr.startOnce.Do(pr.workerPool.Start)

	frame := pr.renderer.Prepare(in)
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:   tile,
			Frame:  frame,
			Image:  img,
			TaskID: taskID,
		})
	}

	var stats FrameStats
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, FrameStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.Merge(result.Stats)

		tile := pr.tiles[result.TaskID]

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   extractTileImage(img, tile.Bounds),
				FrameNumber: frameNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
			})
		}
	}

	return img, stats, nil
}

// RenderSequence renders an animation with channel-based communication.
// input is called once per frame, before the frame starts, so settings
// changed by a host take effect between frames and never within one.
// The caller should read from the returned channels in separate goroutines.
// With options.TileUpdates the tile channel must be drained; a slow tile
// consumer slows rendering. Without it the tile channel is closed immediately.
func (pr *ProgressiveRenderer) RenderSequence(ctx context.Context, input func(frame int) FrameInput, options RenderOptions) (<-chan FrameResult, <-chan TileCompletionResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	tileChan := make(chan TileCompletionResult, 100) // Buffer for tiles
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(frameChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		if options.TotalFrames > 0 {
			pr.logger.Printf("Rendering %d frames at %dx%d with %d workers...\n",
				options.TotalFrames, pr.width, pr.height, pr.GetNumWorkers())
		} else {
			pr.logger.Printf("Rendering live at %dx%d with %d workers...\n",
				pr.width, pr.height, pr.GetNumWorkers())
		}

		for frameNumber := 1; options.TotalFrames <= 0 || frameNumber <= options.TotalFrames; frameNumber++ {
			// Check if the consumer went away before starting this frame
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before frame %d\n", frameNumber)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					result.TotalFrames = options.TotalFrames
					// Each tile is drawn once per frame, so none may be dropped
					select {
					case tileChan <- result:
					case <-ctx.Done():
					}
				}
			}

			in := input(frameNumber)
			startTime := time.Now()
			img, stats, err := pr.RenderFrame(in, frameNumber, tileCallback)
			if err != nil {
				errChan <- err
				return
			}
			elapsed := time.Since(startTime)

			if options.TotalFrames > 0 {
				pr.logger.Printf("Frame %d/%d (t=%.2fs) completed in %v (%.1f march steps/water pixel, %d misses)\n",
					frameNumber, options.TotalFrames, in.Time, elapsed, stats.AverageSteps, stats.MarchMisses)
			}

			result := FrameResult{
				FrameNumber: frameNumber,
				Time:        in.Time,
				Settings:    in.Settings,
				Image:       img,
				Stats:       stats,
				Elapsed:     elapsed,
				IsLast:      frameNumber == options.TotalFrames,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, tileChan, errChan
}
