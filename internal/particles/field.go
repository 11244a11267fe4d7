// Package particles builds the static point lattice that samples the video
// texture and draws it as a displaced point cloud.
package particles

import "github.com/pkg/errors"

// Field is an immutable N×N lattice of rest positions and texture
// coordinates. Index k refers to row k/N and column k%N in both arrays.
type Field struct {
	size      int
	width     float64
	height    float64
	positions []float32 // x, y, z per point
	uvs       []float32 // u, v per point
}

// Build lays out gridSize×gridSize points centred on the origin, spanning
// worldHeight*aspect by worldHeight on the XY plane with z = 0.
func Build(gridSize int, aspect, worldHeight float64) (*Field, error) {
	if gridSize <= 0 {
		return nil, errors.Errorf("grid size must be positive, got %d", gridSize)
	}
	if aspect <= 0 || worldHeight <= 0 {
		return nil, errors.Errorf("invalid field extent: aspect %g, height %g", aspect, worldHeight)
	}

	f := &Field{
		size:      gridSize,
		width:     worldHeight * aspect,
		height:    worldHeight,
		positions: make([]float32, 0, gridSize*gridSize*3),
		uvs:       make([]float32, 0, gridSize*gridSize*2),
	}

	n := float64(gridSize)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			x := ((float64(col)+0.5)/n - 0.5) * f.width
			y := ((float64(row)+0.5)/n - 0.5) * f.height
			f.positions = append(f.positions, float32(x), float32(y), 0)
			f.uvs = append(f.uvs, float32(float64(col)/n), float32(float64(row)/n))
		}
	}
	return f, nil
}

// Size is the number of points along each side.
func (f *Field) Size() int { return f.size }

// Len is the total number of points.
func (f *Field) Len() int { return f.size * f.size }

// Extent returns the world-space width and height.
func (f *Field) Extent() (width, height float64) { return f.width, f.height }

func (f *Field) Position(k int) (x, y, z float32) {
	return f.positions[3*k], f.positions[3*k+1], f.positions[3*k+2]
}

func (f *Field) UV(k int) (u, v float32) {
	return f.uvs[2*k], f.uvs[2*k+1]
}

// Texel maps point k's UV to its texel in a size×size texture whose first
// row is the top of the image. UV v = 0 is the bottom of the picture.
func (f *Field) Texel(k int) (x, y int) {
	u, v := f.UV(k)
	n := float32(f.size)
	col := int(u*n + 0.5)
	row := int(v*n + 0.5)
	return col, f.size - 1 - row
}
