package particles

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-mirror/internal/shader"
)

// Each point is a quad; uint16 indices limit a batch to 65536 vertices.
const pointsPerBatch = 65536 / 4

// Texels is a square texture with one texel per grid cell.
type Texels interface {
	RGB(x, y int) (r, g, b uint8)
}

// Cloud draws a Field as screen-space point quads. Buffers are sized once
// for the whole field and reused every frame.
type Cloud struct {
	field    *Field
	program  *ebiten.Shader
	vertices []ebiten.Vertex
	indices  []uint16
	count    int
}

func NewCloud(field *Field) *Cloud {
	batch := min(field.Len(), pointsPerBatch)
	indices := make([]uint16, 0, batch*6)
	for i := 0; i < batch; i++ {
		v := uint16(i * 4)
		indices = append(indices, v, v+1, v+2, v+1, v+3, v+2)
	}
	return &Cloud{
		field:    field,
		vertices: make([]ebiten.Vertex, field.Len()*4),
		indices:  indices,
	}
}

// Build runs the vertex stage for every point against tex and projects the
// result with mvp into a width×height viewport. Points behind the camera or
// far outside the viewport are dropped. It returns the number of points
// kept.
func (c *Cloud) Build(tex Texels, mvp mgl32.Mat4, width, height int, u *shader.Uniforms) int {
	w, h := float32(width), float32(height)
	m := mvp
	c.count = 0

	for k := 0; k < c.field.Len(); k++ {
		x, y, z := c.field.Position(k)
		tx, ty := c.field.Texel(k)
		r, g, b := tex.RGB(tx, ty)
		x, y, z, size := shader.Transform(x, y, z, r, g, b, u)

		cw := m[3]*x + m[7]*y + m[11]*z + m[15]
		if cw <= 0 {
			continue
		}
		nx := (m[0]*x + m[4]*y + m[8]*z + m[12]) / cw
		ny := (m[1]*x + m[5]*y + m[9]*z + m[13]) / cw
		nz := (m[2]*x + m[6]*y + m[10]*z + m[14]) / cw
		if nx < -1.1 || nx > 1.1 || ny < -1.1 || ny > 1.1 || nz < -1 || nz > 1 {
			continue
		}

		sx := (nx*0.5 + 0.5) * w
		sy := (0.5 - ny*0.5) * h
		half := size / 2
		srcX, srcY := float32(tx)+0.5, float32(ty)+0.5

		v := c.vertices[c.count*4 : c.count*4+4]
		v[0] = quadVertex(sx-half, sy-half, srcX, srcY)
		v[1] = quadVertex(sx+half, sy-half, srcX, srcY)
		v[2] = quadVertex(sx-half, sy+half, srcX, srcY)
		v[3] = quadVertex(sx+half, sy+half, srcX, srcY)
		c.count++
	}
	return c.count
}

func quadVertex(dx, dy, sx, sy float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: dx, DstY: dy,
		SrcX: sx, SrcY: sy,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

// Quad returns the screen rectangle of the i-th kept point from the last
// Build.
func (c *Cloud) Quad(i int) (x0, y0, x1, y1 float32) {
	v := c.vertices[i*4 : i*4+4]
	return v[0].DstX, v[0].DstY, v[3].DstX, v[3].DstY
}

// Draw renders the points kept by the last Build onto dst, sampling
// u.Texture in the fragment stage.
func (c *Cloud) Draw(dst *ebiten.Image, u *shader.Uniforms) error {
	if c.program == nil {
		p, err := shader.Points()
		if err != nil {
			return err
		}
		c.program = p
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = u.Texture
	op.Uniforms = map[string]any{"Opacity": u.Opacity}
	for start := 0; start < c.count; start += pointsPerBatch {
		end := min(start+pointsPerBatch, c.count)
		dst.DrawTrianglesShader(c.vertices[start*4:end*4], c.indices[:(end-start)*6], c.program, op)
	}
	return nil
}

// Dispose releases the compiled program.
func (c *Cloud) Dispose() {
	if c.program != nil {
		c.program.Deallocate()
		c.program = nil
	}
}
