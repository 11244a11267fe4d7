package media

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Texture is the video frame resampled to one texel per grid cell. The CPU
// copy feeds the vertex stage; the GPU copy feeds the fragment stage.
type Texture struct {
	size   int
	pixels *image.RGBA
	seq    uint64
	dirty  bool
	gpu    *ebiten.Image
}

// NewTexture starts out black.
func NewTexture(size int) *Texture {
	return &Texture{
		size:   size,
		pixels: image.NewRGBA(image.Rect(0, 0, size, size)),
		dirty:  true,
	}
}

// Update resamples frame into the texture if seq differs from the last one
// seen. It reports whether the texture changed.
func (t *Texture) Update(frame image.Image, seq uint64) bool {
	if frame == nil || seq == t.seq {
		return false
	}
	t.seq = seq

	draw.BiLinear.Scale(t.pixels, t.pixels.Bounds(), frame, frame.Bounds(), draw.Src, nil)
	t.dirty = true
	return true
}

func (t *Texture) Size() int { return t.size }

// Pixels is the CPU copy, first row at the top of the picture.
func (t *Texture) Pixels() *image.RGBA { return t.pixels }

// RGB returns the texel at (x, y).
func (t *Texture) RGB(x, y int) (r, g, b uint8) {
	i := t.pixels.PixOffset(x, y)
	return t.pixels.Pix[i], t.pixels.Pix[i+1], t.pixels.Pix[i+2]
}

// Image uploads pending changes and returns the GPU copy.
func (t *Texture) Image() *ebiten.Image {
	if t.gpu == nil {
		t.gpu = ebiten.NewImage(t.size, t.size)
		t.dirty = true
	}
	if t.dirty {
		t.gpu.WritePixels(t.pixels.Pix)
		t.dirty = false
	}
	return t.gpu
}

// Dispose releases the GPU copy. Safe to call more than once.
func (t *Texture) Dispose() {
	if t.gpu != nil {
		t.gpu.Deallocate()
		t.gpu = nil
	}
}
