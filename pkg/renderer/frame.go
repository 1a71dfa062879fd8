package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/ocean"
	"github.com/df07/go-ocean-raytracer/pkg/optics"
)

// FrameInput holds everything a frame's pixels depend on besides the environment
type FrameInput struct {
	Time     float64             // Animation clock in seconds
	Width    int                 // Viewport width in pixels
	Height   int                 // Viewport height in pixels
	Pointer  core.Vec2           // Pointer position in pixels, bottom-left origin
	Settings core.RenderSettings // Render modes for this frame
}

// Resolution returns the viewport size as a Vec2
func (in FrameInput) Resolution() core.Vec2 {
	return core.NewVec2(float64(in.Width), float64(in.Height))
}

// CenteredPointer returns the pointer position that looks straight ahead
func CenteredPointer(width, height int) core.Vec2 {
	return core.NewVec2(float64(width)/2, float64(height)/2)
}

// Environment holds the optional image collaborators
type Environment struct {
	Sky    core.Sampler // Sky cubemap, keyed by direction
	Ground core.Sampler // Seabed texture, keyed by refraction direction
}

// Branch records which part of the pipeline produced a pixel
type Branch int

const (
	BranchSky Branch = iota
	BranchWater
)

func (b Branch) String() string {
	if b == BranchWater {
		return "water"
	}
	return "sky"
}

// FrameRenderer owns the static configuration of the ocean pipeline
type FrameRenderer struct {
	Waves       ocean.WaveParams
	Environment Environment
	Gamma       float64 // Output gamma; 1 writes linear values
}

// NewFrameRenderer creates a frame renderer
func NewFrameRenderer(waves ocean.WaveParams, env Environment) *FrameRenderer {
	return &FrameRenderer{
		Waves:       waves,
		Environment: env,
		Gamma:       1.0,
	}
}

// Frame is the per-frame pipeline. It is immutable once prepared and safe to
// share between goroutines rendering different pixels.
type Frame struct {
	input      FrameInput
	mode       core.RenderMode
	camera     CameraRig
	field      ocean.WaveField
	ceiling    core.Plane
	floor      core.Plane
	marcher    *ocean.SurfaceMarcher
	normals    *ocean.NormalEstimator
	sky        core.Sampler
	compositor *optics.Compositor
	epsilon    float64
	gamma      float64
}

// Prepare builds the pipeline for one frame
func (fr *FrameRenderer) Prepare(in FrameInput) *Frame {
	field := ocean.NewWaveField(fr.Waves, in.Time)
	sky := optics.NewSky(in.Time)
	env := fr.Environment

	return &Frame{
		input:      in,
		mode:       in.Settings.Mode(env.Sky != nil, env.Ground != nil),
		camera:     NewCameraRig(fr.Waves.Depth),
		field:      field,
		ceiling:    field.Ceiling(),
		floor:      field.Floor(),
		marcher:    ocean.NewSurfaceMarcher(field, fr.Waves.MarchOctaves),
		normals:    ocean.NewNormalEstimator(field, fr.Waves.NormalOctaves),
		sky:        sky,
		compositor: optics.NewCompositor(sky, env.Sky, env.Ground),
		epsilon:    1e-2,
		gamma:      fr.Gamma,
	}
}

// Mode returns the resolved render mode of the frame
func (f *Frame) Mode() core.RenderMode {
	return f.mode
}

// Input returns the frame's inputs
func (f *Frame) Input() FrameInput {
	return f.input
}

// SkyColor returns the sky seen along a direction
func (f *Frame) SkyColor(direction core.Vec3) core.Vec3 {
	if f.mode.Has(core.ModeSkyTexture) {
		return f.compositor.SkyTexture.Sample(direction)
	}
	return f.sky.Sample(direction)
}

// PixelInfo describes how a single ray was shaded
type PixelInfo struct {
	Ray    core.Ray
	Branch Branch
	Hit    ocean.HitRecord // Zero for the sky branch
	Normal core.Vec3       // Shading normal; zero for the sky branch
	Color  core.Vec3       // Linear color before output conversion
}

// Trace returns the color seen along a ray. Rays at or above the horizon
// (within epsilon) see the sky and skip the water entirely.
func (f *Frame) Trace(ray core.Ray) (core.Vec3, Branch, ocean.HitRecord) {
	info := f.trace(ray)
	return info.Color, info.Branch, info.Hit
}

func (f *Frame) trace(ray core.Ray) PixelInfo {
	if ray.Direction.Y >= -f.epsilon {
		return PixelInfo{Ray: ray, Branch: BranchSky, Color: f.SkyColor(ray.Direction)}
	}

	start := f.ceiling.Intersect(ray)
	end := f.floor.Intersect(ray)
	hit := f.marcher.March(ray, start, end)

	normal := f.normals.NormalAt(hit.Position.XZ(), hit.Distance, f.mode.Has(core.ModeSkyTexture))
	c := f.compositor.Shade(ray.Direction, normal, f.mode, f.input.Settings.Reflectivity)
	return PixelInfo{Ray: ray, Branch: BranchWater, Hit: hit, Normal: normal, Color: c}
}

// tracePixel traces the camera ray through a pixel coordinate (bottom-left origin)
func (f *Frame) tracePixel(pixel core.Vec2) PixelInfo {
	ray := f.camera.GetRay(pixel, f.input.Resolution(), f.input.Pointer, f.input.Settings.Zoom)
	return f.trace(ray)
}

// Inspect traces the pixel at image coordinates (top-left origin)
func (f *Frame) Inspect(x, y int) PixelInfo {
	return f.tracePixel(f.pixelCenter(x, y))
}

// pixelCenter converts image coordinates to a bottom-left origin pixel center
func (f *Frame) pixelCenter(x, y int) core.Vec2 {
	return core.NewVec2(float64(x)+0.5, float64(f.input.Height-y)-0.5)
}

// Color returns the linear color at a pixel coordinate (bottom-left origin)
func (f *Frame) Color(pixel core.Vec2) core.Vec3 {
	return f.tracePixel(pixel).Color
}

// OutputColor converts a linear color to the RGBA value written to the image
func (f *Frame) OutputColor(c core.Vec3) color.RGBA {
	return vec3ToColor(c, f.gamma)
}

// RenderBounds renders the pixels of an image region (top-left origin) into img.
// Regions must not overlap when called concurrently.
func (f *Frame) RenderBounds(bounds image.Rectangle, img *image.RGBA) FrameStats {
	stats := FrameStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			info := f.tracePixel(f.pixelCenter(x, y))
			stats.record(info.Branch, info.Hit)
			img.SetRGBA(x, y, vec3ToColor(info.Color, f.gamma))
		}
	}

	stats.finalize()
	return stats
}

// Render renders the whole frame on the calling goroutine
func (f *Frame) Render() (*image.RGBA, FrameStats) {
	img := image.NewRGBA(image.Rect(0, 0, f.input.Width, f.input.Height))
	stats := f.RenderBounds(img.Bounds(), img)
	return img, stats
}

// vec3ToColor converts a linear color to RGBA with clamping and optional gamma.
// Overexposed and non-finite values never abort a frame.
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	// Clamp passes NaN through, so zero it first
	finite := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	c := core.NewVec3(finite(colorVec.X), finite(colorVec.Y), finite(colorVec.Z)).Clamp(0, 1)
	if gamma > 0 && gamma != 1 {
		c = c.GammaCorrect(gamma)
	}

	return color.RGBA{
		R: uint8(math.Round(255 * c.X)),
		G: uint8(math.Round(255 * c.Y)),
		B: uint8(math.Round(255 * c.Z)),
		A: 255,
	}
}
