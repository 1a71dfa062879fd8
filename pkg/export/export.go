// Package export writes rendered frames as PNG stills and animated GIFs.
package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"
	"os"
)

// SavePNG writes a single image as PNG
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}

// DelayForFPS converts a frame rate to a GIF frame delay in 100ths of a second
func DelayForFPS(fps float64) int {
	if fps <= 0 {
		return 10
	}
	return max(1, int(math.Round(100/fps)))
}

// GIFAnimation accumulates frames of a looping animated GIF
type GIFAnimation struct {
	out   gif.GIF
	delay int
}

// NewGIFAnimation creates an empty animation played back at fps
func NewGIFAnimation(fps float64) *GIFAnimation {
	return &GIFAnimation{
		out:   gif.GIF{LoopCount: 0},
		delay: DelayForFPS(fps),
	}
}

// AddFrame quantizes img to the Plan 9 palette with Floyd-Steinberg dithering
// and appends it
func (a *GIFAnimation) AddFrame(img image.Image) {
	pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, img.Bounds().Min)

	a.out.Image = append(a.out.Image, pimg)
	a.out.Delay = append(a.out.Delay, a.delay)
}

// Len returns the number of frames added
func (a *GIFAnimation) Len() int {
	return len(a.out.Image)
}

// Encode writes the animation
func (a *GIFAnimation) Encode(w io.Writer) error {
	if a.Len() == 0 {
		return fmt.Errorf("animation has no frames")
	}
	return gif.EncodeAll(w, &a.out)
}

// Save writes the animation to a file
func (a *GIFAnimation) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := a.Encode(file); err != nil {
		return fmt.Errorf("error saving GIF: %w", err)
	}
	return nil
}
