// Package textures provides the image-backed and procedural samplers the
// ocean uses for its sky and seabed.
package textures

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	_ "golang.org/x/image/bmp" // BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], top row first
}

// LoadImage loads a PNG, JPEG, BMP or WebP image and converts it to a Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	img, err := decodeFile(filename)
	if err != nil {
		return nil, err
	}
	return NewImageData(img), nil
}

func decodeFile(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, nil
}

// NewImageData converts a decoded image to linear Vec3 colors in [0, 1]
func NewImageData(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// resample scales an image to width x height with bilinear filtering
func resample(img image.Image, width, height int) image.Image {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewRGBA64(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Texel returns the pixel at (x, y), clamping coordinates to the image bounds
func (d *ImageData) Texel(x, y int) core.Vec3 {
	if d.Width == 0 || d.Height == 0 {
		return core.Vec3{}
	}
	x = max(0, min(x, d.Width-1))
	y = max(0, min(y, d.Height-1))
	return d.Pixels[y*d.Width+x]
}

// Evaluate samples the image at normalized coordinates using nearest-neighbor
// filtering. u runs left to right and v top to bottom.
func (d *ImageData) Evaluate(u, v float64) core.Vec3 {
	x := int(u * float64(d.Width))
	y := int(v * float64(d.Height))
	return d.Texel(x, y)
}

// Uniform is a sampler returning the same color in every direction
type Uniform struct {
	Color core.Vec3
}

// NewUniform creates a uniform sampler
func NewUniform(color core.Vec3) *Uniform {
	return &Uniform{Color: color}
}

// Sample implements core.Sampler
func (u *Uniform) Sample(direction core.Vec3) core.Vec3 {
	return u.Color
}
