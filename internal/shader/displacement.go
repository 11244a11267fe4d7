// Package shader holds the particle displacement model and the Kage programs
// used by the renderer.
//
// Kage has no vertex stage, so the per-vertex half of the displacement
// program runs in Go (Luminance, Displacement, PointSize, Transform) and the
// per-fragment half runs on the GPU (points.kage).
package shader

import "github.com/hajimehoshi/ebiten/v2"

const (
	// LuminanceThreshold is the brightness at or below which a point stays
	// on the rest plane.
	LuminanceThreshold = 0.1

	baseDepth = 100.0
	bassDepth = 200.0
)

// Uniforms is the per-draw state shared by both stages. The render loop is
// its only writer.
type Uniforms struct {
	Texture        *ebiten.Image
	PointSizeScale float32
	BassStrength   float32
	Opacity        float32
}

// Luminance is the mean of the three channels, each in [0,1].
func Luminance(r, g, b float32) float32 {
	return (r + g + b) / 3
}

// Displacement is the distance a point moves toward +Z. Dark points are cut
// off hard instead of fading.
func Displacement(lum, bass float32) float32 {
	if lum <= LuminanceThreshold {
		return 0
	}
	return lum * (baseDepth + bass*bassDepth)
}

// PointSize is the on-screen point size in pixels. Bass does not affect it.
func PointSize(scale, lum float32) float32 {
	return scale * (lum*6 + 3)
}

// Transform runs the vertex stage for one point: it returns the displaced
// position and the point size for a texel colour given as 8-bit channels.
func Transform(x, y, z float32, r, g, b uint8, u *Uniforms) (dx, dy, dz, size float32) {
	lum := Luminance(float32(r)/255, float32(g)/255, float32(b)/255)
	return x, y, z + Displacement(lum, u.BassStrength), PointSize(u.PointSizeScale, lum)
}
