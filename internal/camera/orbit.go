package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// Orbit is a damped orbit around the origin in spherical coordinates.
// Azimuth is measured around +Y from +Z, Polar down from +Y.
type Orbit struct {
	Azimuth  float64
	Polar    float64
	Distance float64

	Damping     float64
	MinDistance float64
	MaxDistance float64
	RotateSpeed float64
	ZoomSpeed   float64

	// pending rotation, decayed by Damping every Update
	velAzimuth float64
	velPolar   float64
	scale      float64
}

// NewOrbit places the eye on +Z at distance, looking at the origin.
func NewOrbit(distance, minDistance, maxDistance, damping float64) *Orbit {
	o := &Orbit{
		Polar:       math.Pi / 2,
		Damping:     damping,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		scale:       1,
	}
	o.Distance = o.clampDistance(distance)
	return o
}

// Drag adds a pointer drag of (dx, dy) pixels in a viewport of the given
// height. A drag across the full height turns the orbit once.
func (o *Orbit) Drag(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	o.velAzimuth -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.velPolar -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Wheel dollies in for positive steps and out for negative ones.
func (o *Orbit) Wheel(steps float64) {
	o.Zoom(math.Pow(0.95, o.ZoomSpeed*steps))
}

// Zoom multiplies the distance by factor on the next Update.
func (o *Orbit) Zoom(factor float64) {
	if factor > 0 {
		o.scale *= factor
	}
}

// Update applies one frame of damped motion.
func (o *Orbit) Update() {
	o.Azimuth += o.velAzimuth * o.Damping
	o.Polar += o.velPolar * o.Damping
	o.Polar = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, o.Polar))
	o.Distance = o.clampDistance(o.Distance * o.scale)

	o.scale = 1
	o.velAzimuth *= 1 - o.Damping
	o.velPolar *= 1 - o.Damping
}

// Velocity is the rotation still waiting to be applied.
func (o *Orbit) Velocity() (azimuth, polar float64) {
	return o.velAzimuth, o.velPolar
}

// Eye is the camera position.
func (o *Orbit) Eye() mgl32.Vec3 {
	sp := math.Sin(o.Polar)
	return mgl32.Vec3{
		float32(o.Distance * sp * math.Sin(o.Azimuth)),
		float32(o.Distance * math.Cos(o.Polar)),
		float32(o.Distance * sp * math.Cos(o.Azimuth)),
	}
}

// View looks from Eye at the origin with +Y up.
func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Eye(), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) clampDistance(d float64) float64 {
	return math.Max(o.MinDistance, math.Min(o.MaxDistance, d))
}
