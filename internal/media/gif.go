package media

import (
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/pkg/errors"
)

// GIF plays a decoded animated GIF on a loop. Frames are composited up front
// so Frame only picks one by elapsed time.
type GIF struct {
	frames []*image.RGBA
	ends   []time.Duration // cumulative end time of each frame
	total  time.Duration
	aspect float64
	start  time.Time
	now    func() time.Time
}

func OpenGIF(path string) (*GIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open video")
	}
	defer f.Close()

	g, err := DecodeGIF(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	logger.Printf("Loaded %s (%d frames, %v loop)", path, len(g.frames), g.total)
	return g, nil
}

// DecodeGIF reads every frame of an animated GIF.
func DecodeGIF(r io.Reader) (*GIF, error) {
	anim, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(anim.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}

	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}

	g := &GIF{now: time.Now}
	canvas := image.NewRGBA(bounds)
	var elapsed time.Duration
	for i, src := range anim.Image {
		var restore *image.RGBA
		disposal := byte(0)
		if i < len(anim.Disposal) {
			disposal = anim.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = clone.AsRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		g.frames = append(g.frames, clone.AsRGBA(canvas))

		// GIF delays are in hundredths of a second; browsers treat tiny
		// delays as 100ms.
		delay := 10 * time.Millisecond * time.Duration(anim.Delay[i])
		if delay < 20*time.Millisecond {
			delay = 100 * time.Millisecond
		}
		elapsed += delay
		g.ends = append(g.ends, elapsed)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	g.total = elapsed
	g.aspect = float64(bounds.Dx()) / float64(bounds.Dy())
	g.start = g.now()
	return g, nil
}

func (g *GIF) Frame() (image.Image, uint64) {
	if len(g.frames) == 0 {
		return nil, 0
	}
	since := g.now().Sub(g.start)
	t := since % g.total
	lap := uint64(since / g.total)
	for i, end := range g.ends {
		if t < end {
			return g.frames[i], lap*uint64(len(g.frames)) + uint64(i) + 1
		}
	}
	last := len(g.frames) - 1
	return g.frames[last], lap*uint64(len(g.frames)) + uint64(last) + 1
}

func (g *GIF) Aspect() float64 { return g.aspect }

func (g *GIF) Close() error {
	g.frames = nil
	g.ends = nil
	return nil
}
