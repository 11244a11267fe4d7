// Package postfx renders the scene into an offscreen target and composites
// it onto the screen with a multi-level bloom.
package postfx

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-mirror/internal/shader"
	"github.com/pkg/errors"
)

// Bloom parameters. Levels is the number of mip halvings blurred and added
// back, at most len(levelFactors).
type Bloom struct {
	Strength  float64
	Radius    float64
	Threshold float64
	Levels    int
}

const smoothWidth = 0.01

var (
	levelFactors = [...]float64{1.0, 0.8, 0.6, 0.4, 0.2}
	kernelRadii  = [...]int{3, 5, 7, 9, 11}
)

// LevelFactors returns the additive weight of each bloom level before
// strength is applied: mix(f, 1.2-f, radius).
func LevelFactors(radius float64, levels int) []float64 {
	levels = min(levels, len(levelFactors))
	out := make([]float64, levels)
	for i := range out {
		f := levelFactors[i]
		out[i] = f + (1.2-2*f)*radius
	}
	return out
}

// Stack owns every render target of the post-process chain. Targets are
// allocated on the first Draw after construction or a size change, shaders on
// the first Draw.
type Stack struct {
	bloom         Bloom
	width, height int
	stale         bool

	scene   *ebiten.Image
	bright  *ebiten.Image
	levels  []*ebiten.Image
	scratch []*ebiten.Image

	extract *ebiten.Shader
	blur    *ebiten.Shader
}

func New(bloom Bloom, width, height int) *Stack {
	bloom.Levels = max(1, min(bloom.Levels, len(levelFactors)))
	s := &Stack{bloom: bloom}
	s.Resize(width, height)
	return s
}

// Resize records a new viewport size for the base pass and every bloom
// level. A non-positive size is a caller bug.
func (s *Stack) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		panic(errors.Errorf("postfx: invalid size %dx%d", width, height))
	}
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.stale = true
}

func (s *Stack) Size() (width, height int) { return s.width, s.height }

// BloomSizes is the size of each bloom level, each half the previous one
// starting from half the viewport.
func (s *Stack) BloomSizes() []image.Point {
	sizes := make([]image.Point, s.bloom.Levels)
	w, h := s.width, s.height
	for i := range sizes {
		w, h = max(1, w/2), max(1, h/2)
		sizes[i] = image.Pt(w, h)
	}
	return sizes
}

func (s *Stack) allocate() {
	s.release()
	s.scene = ebiten.NewImage(s.width, s.height)
	s.bright = ebiten.NewImage(s.width, s.height)
	for _, p := range s.BloomSizes() {
		s.levels = append(s.levels, ebiten.NewImage(p.X, p.Y))
		s.scratch = append(s.scratch, ebiten.NewImage(p.X, p.Y))
	}
	s.stale = false
}

func (s *Stack) compile() error {
	if s.extract == nil {
		sh, err := shader.Extract()
		if err != nil {
			return err
		}
		s.extract = sh
	}
	if s.blur == nil {
		sh, err := shader.Blur()
		if err != nil {
			return err
		}
		s.blur = sh
	}
	return nil
}

// Draw renders the base pass with drawScene into an offscreen target and
// composites it with bloom onto screen.
func (s *Stack) Draw(screen *ebiten.Image, drawScene func(target *ebiten.Image) error) error {
	if err := s.compile(); err != nil {
		return err
	}
	if s.stale || s.scene == nil {
		s.allocate()
	}

	s.scene.Clear()
	if err := drawScene(s.scene); err != nil {
		return err
	}

	s.extractBright()
	s.blurLevels()

	screen.DrawImage(s.scene, nil)
	for i, k := range LevelFactors(s.bloom.Radius, len(s.levels)) {
		k *= s.bloom.Strength
		lw, lh := s.levels[i].Bounds().Dx(), s.levels[i].Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(s.width)/float64(lw), float64(s.height)/float64(lh))
		op.Filter = ebiten.FilterLinear
		op.ColorScale.Scale(float32(k), float32(k), float32(k), float32(k))
		op.Blend = ebiten.BlendLighter
		screen.DrawImage(s.levels[i], op)
	}
	return nil
}

func (s *Stack) extractBright() {
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = s.scene
	op.Uniforms = map[string]any{
		"Threshold":   float32(s.bloom.Threshold),
		"SmoothWidth": float32(smoothWidth),
	}
	op.Blend = ebiten.BlendCopy
	s.bright.DrawRectShader(s.width, s.height, s.extract, op)
}

func (s *Stack) blurLevels() {
	src := s.bright
	for i, dst := range s.levels {
		sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
		lw, lh := dst.Bounds().Dx(), dst.Bounds().Dy()

		down := &ebiten.DrawImageOptions{}
		down.GeoM.Scale(float64(lw)/float64(sw), float64(lh)/float64(sh))
		down.Filter = ebiten.FilterLinear
		down.Blend = ebiten.BlendCopy
		dst.DrawImage(src, down)

		r := kernelRadii[i]
		s.blurPass(s.scratch[i], dst, 1, 0, r)
		s.blurPass(dst, s.scratch[i], 0, 1, r)
		src = dst
	}
}

func (s *Stack) blurPass(dst, src *ebiten.Image, dx, dy float32, radius int) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = map[string]any{
		"Direction": []float32{dx, dy},
		"Sigma":     float32(radius),
		"Radius":    float32(radius),
	}
	op.Blend = ebiten.BlendCopy
	dst.DrawRectShader(w, h, s.blur, op)
}

func (s *Stack) release() {
	for _, img := range append(append([]*ebiten.Image{s.scene, s.bright}, s.levels...), s.scratch...) {
		if img != nil {
			img.Deallocate()
		}
	}
	s.scene, s.bright = nil, nil
	s.levels, s.scratch = nil, nil
}

// Dispose releases every render target and shader. Safe to call more than
// once.
func (s *Stack) Dispose() {
	s.release()
	if s.extract != nil {
		s.extract.Deallocate()
		s.extract = nil
	}
	if s.blur != nil {
		s.blur.Deallocate()
		s.blur = nil
	}
}
