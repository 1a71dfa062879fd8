package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler looks up a color by direction. Sky cubemaps, ground textures and
// procedural environments all implement it.
type Sampler interface {
	Sample(direction Vec3) Vec3
}

// SamplerFunc adapts an ordinary function to the Sampler interface
type SamplerFunc func(direction Vec3) Vec3

// Sample calls f(direction)
func (f SamplerFunc) Sample(direction Vec3) Vec3 {
	return f(direction)
}
