package renderer

import "github.com/df07/go-ocean-raytracer/pkg/ocean"

// FrameStats contains statistics about a rendered frame or tile
type FrameStats struct {
	TotalPixels  int     // Total number of pixels rendered
	SkyPixels    int     // Pixels that skipped the water
	WaterPixels  int     // Pixels that marched the water surface
	MarchMisses  int     // Water pixels whose march ran out of steps
	MarchSteps   int     // Total march iterations across water pixels
	AverageSteps float64 // Average march iterations per water pixel
	MaxSteps     int     // Most iterations used by any pixel
}

// record adds a single pixel's outcome
func (s *FrameStats) record(branch Branch, hit ocean.HitRecord) {
	if branch == BranchSky {
		s.SkyPixels++
		return
	}
	s.WaterPixels++
	s.MarchSteps += hit.Steps
	s.MaxSteps = max(s.MaxSteps, hit.Steps)
	if !hit.Found {
		s.MarchMisses++
	}
}

// Merge accumulates another tile's statistics
func (s *FrameStats) Merge(other FrameStats) {
	s.TotalPixels += other.TotalPixels
	s.SkyPixels += other.SkyPixels
	s.WaterPixels += other.WaterPixels
	s.MarchMisses += other.MarchMisses
	s.MarchSteps += other.MarchSteps
	s.MaxSteps = max(s.MaxSteps, other.MaxSteps)
	s.finalize()
}

// finalize calculates derived statistics
func (s *FrameStats) finalize() {
	if s.WaterPixels == 0 {
		s.AverageSteps = 0
		return
	}
	s.AverageSteps = float64(s.MarchSteps) / float64(s.WaterPixels)
}
