package shader

import (
	_ "embed"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

var (
	//go:embed points.kage
	pointsSource []byte

	//go:embed extract.kage
	extractSource []byte

	//go:embed blur.kage
	blurSource []byte
)

// Points compiles the particle fragment program. Uniform: Opacity.
func Points() (*ebiten.Shader, error) { return compile("points", pointsSource) }

// Extract compiles the luminosity high-pass used by bloom. Uniforms:
// Threshold, SmoothWidth.
func Extract() (*ebiten.Shader, error) { return compile("extract", extractSource) }

// Blur compiles the separable Gaussian blur. Uniforms: Direction, Sigma,
// Radius.
func Blur() (*ebiten.Shader, error) { return compile("blur", blurSource) }

func compile(name string, src []byte) (*ebiten.Shader, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile %s shader", name)
	}
	return s, nil
}
