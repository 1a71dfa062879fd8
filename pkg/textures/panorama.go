package textures

import (
	"math"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// Panorama samples an equirectangular image by direction. The image center
// looks down -z and the top row is straight up.
type Panorama struct {
	Image *ImageData
}

// NewPanorama creates a panorama sampler
func NewPanorama(img *ImageData) *Panorama {
	return &Panorama{Image: img}
}

// LoadPanorama loads an equirectangular image
func LoadPanorama(filename string) (*Panorama, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return NewPanorama(img), nil
}

// Sample implements core.Sampler. The zero direction samples black.
func (p *Panorama) Sample(direction core.Vec3) core.Vec3 {
	if direction.LengthSquared() == 0 {
		return core.Vec3{}
	}
	d := direction.Normalize()
	u := 0.5 + math.Atan2(d.X, -d.Z)/(2.0*math.Pi)
	v := math.Acos(max(-1.0, min(1.0, d.Y))) / math.Pi
	return p.Image.Evaluate(u, v)
}
