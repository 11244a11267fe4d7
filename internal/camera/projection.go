package camera

import "github.com/go-gl/mathgl/mgl32"

// Projection is a perspective projection that follows the viewport size.
type Projection struct {
	fov, near, far float32
	width, height  int
	matrix         mgl32.Mat4
}

func NewProjection(fovDeg, near, far float64, width, height int) *Projection {
	p := &Projection{fov: float32(fovDeg), near: float32(near), far: float32(far)}
	p.Resize(width, height)
	return p
}

// Resize updates the aspect ratio. Non-positive sizes are a programming
// error.
func (p *Projection) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		panic("camera: projection resized to an empty viewport")
	}
	p.width, p.height = width, height
	aspect := float32(width) / float32(height)
	p.matrix = mgl32.Perspective(mgl32.DegToRad(p.fov), aspect, p.near, p.far)
}

func (p *Projection) Size() (width, height int) { return p.width, p.height }

func (p *Projection) Matrix() mgl32.Mat4 { return p.matrix }

// Aspect is width over height.
func (p *Projection) Aspect() float64 { return float64(p.width) / float64(p.height) }
