package textures

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

// Face indexes a cubemap face
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// FaceNames are the conventional file stems of the six faces, in Face order
var FaceNames = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

// Cubemap samples six square face images by direction
type Cubemap struct {
	Faces [6]*ImageData
	Size  int
}

// NewCubemap creates a cubemap from six faces of equal square size
func NewCubemap(faces [6]*ImageData) (*Cubemap, error) {
	if faces[0] == nil {
		return nil, fmt.Errorf("cubemap face %s is missing", FaceNames[0])
	}
	size := faces[0].Width
	for i, face := range faces {
		if face == nil {
			return nil, fmt.Errorf("cubemap face %s is missing", FaceNames[i])
		}
		if face.Width != size || face.Height != size {
			return nil, fmt.Errorf("cubemap face %s is %dx%d, expected %dx%d",
				FaceNames[i], face.Width, face.Height, size, size)
		}
	}
	if size == 0 {
		return nil, fmt.Errorf("cubemap faces are empty")
	}
	return &Cubemap{Faces: faces, Size: size}, nil
}

// LoadCubemap loads six face images in Face order. Faces of different sizes
// are resampled to the size of the first face.
func LoadCubemap(paths [6]string) (*Cubemap, error) {
	var faces [6]*ImageData
	size := 0
	for i, path := range paths {
		img, err := decodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("cubemap face %s: %w", FaceNames[i], err)
		}
		if i == 0 {
			size = max(img.Bounds().Dx(), img.Bounds().Dy())
		}
		faces[i] = NewImageData(resample(img, size, size))
	}
	return NewCubemap(faces)
}

// faceExtensions are tried in order when looking up faces in a directory
var faceExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// LoadCubemapDir loads a cubemap from a directory holding posx, negx, posy,
// negy, posz and negz images in any supported format
func LoadCubemapDir(dir string) (*Cubemap, error) {
	var paths [6]string
	for i, name := range FaceNames {
		for _, ext := range faceExtensions {
			candidate := filepath.Join(dir, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				paths[i] = candidate
				break
			}
		}
		if paths[i] == "" {
			return nil, fmt.Errorf("cubemap face %s not found in %s", name, dir)
		}
	}
	return LoadCubemap(paths)
}

// SelectFace picks the face a direction points at and the face coordinates
// (u right, v down) in [0, 1]. Face orientation follows the usual skybox layout.
func SelectFace(direction core.Vec3) (Face, float64, float64) {
	ax := math.Abs(direction.X)
	ay := math.Abs(direction.Y)
	az := math.Abs(direction.Z)

	var face Face
	var major, sc, tc float64
	switch {
	case ax >= ay && ax >= az:
		major = ax
		if direction.X > 0 {
			face, sc, tc = FacePosX, -direction.Z, -direction.Y
		} else {
			face, sc, tc = FaceNegX, direction.Z, -direction.Y
		}
	case ay >= az:
		major = ay
		if direction.Y > 0 {
			face, sc, tc = FacePosY, direction.X, direction.Z
		} else {
			face, sc, tc = FaceNegY, direction.X, -direction.Z
		}
	default:
		major = az
		if direction.Z > 0 {
			face, sc, tc = FacePosZ, direction.X, -direction.Y
		} else {
			face, sc, tc = FaceNegZ, -direction.X, -direction.Y
		}
	}

	u := 0.5 * (sc/major + 1.0)
	v := 0.5 * (tc/major + 1.0)
	return face, u, v
}

// Sample implements core.Sampler. The zero direction samples black.
func (c *Cubemap) Sample(direction core.Vec3) core.Vec3 {
	if direction.LengthSquared() == 0 {
		return core.Vec3{}
	}
	face, u, v := SelectFace(direction)
	return c.Faces[face].Evaluate(u, v)
}
