package textures

import (
	"fmt"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/df07/go-ocean-raytracer/pkg/core"
)

var faceColors = [6]color.RGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{G: 255, B: 255, A: 255},
	{R: 255, B: 255, A: 255},
}

func toVec3(c color.RGBA) core.Vec3 {
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func solidFace(size int, c core.Vec3) *ImageData {
	pixels := make([]core.Vec3, size*size)
	for i := range pixels {
		pixels[i] = c
	}
	return &ImageData{Width: size, Height: size, Pixels: pixels}
}

func TestSelectFace(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		face      Face
		u, v      float64
	}{
		{"+X center", core.NewVec3(1, 0, 0), FacePosX, 0.5, 0.5},
		{"-X center", core.NewVec3(-1, 0, 0), FaceNegX, 0.5, 0.5},
		{"+Y center", core.NewVec3(0, 1, 0), FacePosY, 0.5, 0.5},
		{"-Y center", core.NewVec3(0, -1, 0), FaceNegY, 0.5, 0.5},
		{"+Z center", core.NewVec3(0, 0, 1), FacePosZ, 0.5, 0.5},
		{"-Z center", core.NewVec3(0, 0, -1), FaceNegZ, 0.5, 0.5},
		{"-Z off axis", core.NewVec3(0.5, 0.5, -1), FaceNegZ, 0.25, 0.25},
		{"+X scaled", core.NewVec3(4, 0, 0), FacePosX, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, u, v := SelectFace(tt.direction)
			if face != tt.face {
				t.Errorf("Expected face %s, got %s", FaceNames[tt.face], FaceNames[face])
			}
			if abs(u-tt.u) > 1e-9 || abs(v-tt.v) > 1e-9 {
				t.Errorf("Expected uv (%f, %f), got (%f, %f)", tt.u, tt.v, u, v)
			}
		})
	}
}

func TestCubemap_Sample(t *testing.T) {
	var faces [6]*ImageData
	for i := range faces {
		faces[i] = solidFace(4, toVec3(faceColors[i]))
	}
	cube, err := NewCubemap(faces)
	if err != nil {
		t.Fatalf("NewCubemap failed: %v", err)
	}

	axes := [6]core.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}
	for i, axis := range axes {
		checkColor(t, FaceNames[i], cube.Sample(axis), toVec3(faceColors[i]))
	}

	if got := cube.Sample(core.Vec3{}); got != (core.Vec3{}) {
		t.Errorf("Zero direction should sample black, got %v", got)
	}
}

func TestNewCubemap_Errors(t *testing.T) {
	var faces [6]*ImageData
	for i := range faces {
		faces[i] = solidFace(4, core.NewVec3(1, 1, 1))
	}

	missing := faces
	missing[3] = nil
	if _, err := NewCubemap(missing); err == nil {
		t.Error("Expected error for missing face")
	}

	mismatched := faces
	mismatched[5] = solidFace(8, core.NewVec3(1, 1, 1))
	if _, err := NewCubemap(mismatched); err == nil {
		t.Error("Expected error for mismatched face size")
	}
}

func TestLoadCubemap_ResamplesFaces(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%s.png", FaceNames[i]))
		size := 8
		if i%2 == 1 {
			size = 3
		}
		writeSolidPNG(t, paths[i], size, faceColors[i])
	}

	cube, err := LoadCubemap(paths)
	if err != nil {
		t.Fatalf("LoadCubemap failed: %v", err)
	}
	if cube.Size != 8 {
		t.Errorf("Expected faces resampled to 8, got %d", cube.Size)
	}
	for i, face := range cube.Faces {
		if face.Width != 8 || face.Height != 8 {
			t.Errorf("Face %s is %dx%d", FaceNames[i], face.Width, face.Height)
		}
	}
	checkColor(t, "negx resampled", cube.Sample(core.NewVec3(-1, 0, 0)), toVec3(faceColors[FaceNegX]))

	paths[2] = filepath.Join(dir, "missing.png")
	if _, err := LoadCubemap(paths); err == nil {
		t.Error("Expected error for missing face file")
	}
}

func TestLoadCubemapDir(t *testing.T) {
	dir := t.TempDir()
	for i, name := range FaceNames {
		writeSolidPNG(t, filepath.Join(dir, name+".png"), 4, faceColors[i])
	}

	cube, err := LoadCubemapDir(dir)
	if err != nil {
		t.Fatalf("LoadCubemapDir failed: %v", err)
	}
	checkColor(t, "posy", cube.Sample(core.NewVec3(0, 1, 0)), toVec3(faceColors[FacePosY]))

	if _, err := LoadCubemapDir(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}
