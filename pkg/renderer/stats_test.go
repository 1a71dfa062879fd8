package renderer

import (
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/ocean"
)

func TestFrameStats_Record(t *testing.T) {
	stats := FrameStats{TotalPixels: 3}
	stats.record(BranchSky, ocean.HitRecord{})
	stats.record(BranchWater, ocean.HitRecord{Found: true, Steps: 4})
	stats.record(BranchWater, ocean.HitRecord{Found: false, Steps: 300})
	stats.finalize()

	if stats.SkyPixels != 1 || stats.WaterPixels != 2 {
		t.Errorf("Expected 1 sky and 2 water pixels, got %d and %d", stats.SkyPixels, stats.WaterPixels)
	}
	if stats.MarchMisses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.MarchMisses)
	}
	if stats.MaxSteps != 300 {
		t.Errorf("Expected max steps 300, got %d", stats.MaxSteps)
	}
	if stats.AverageSteps != 152 {
		t.Errorf("Expected average 152 steps, got %f", stats.AverageSteps)
	}
}

func TestFrameStats_Merge(t *testing.T) {
	a := FrameStats{TotalPixels: 4, WaterPixels: 2, MarchSteps: 10, MaxSteps: 6}
	b := FrameStats{TotalPixels: 4, SkyPixels: 2, WaterPixels: 2, MarchSteps: 30, MaxSteps: 20, MarchMisses: 1}

	a.Merge(b)

	if a.TotalPixels != 8 {
		t.Errorf("Expected 8 total pixels, got %d", a.TotalPixels)
	}
	if a.MaxSteps != 20 {
		t.Errorf("Expected max steps 20, got %d", a.MaxSteps)
	}
	if a.AverageSteps != 10 {
		t.Errorf("Expected average 10 steps, got %f", a.AverageSteps)
	}
	if a.MarchMisses != 1 {
		t.Errorf("Expected 1 miss, got %d", a.MarchMisses)
	}
}

func TestFrameStats_NoWater(t *testing.T) {
	stats := FrameStats{TotalPixels: 1}
	stats.record(BranchSky, ocean.HitRecord{})
	stats.finalize()

	if stats.AverageSteps != 0 {
		t.Errorf("Expected zero average without water pixels, got %f", stats.AverageSteps)
	}
}
