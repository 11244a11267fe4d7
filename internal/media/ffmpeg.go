package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// FFmpeg decodes any video ffmpeg understands by piping raw RGBA frames from
// an ffmpeg process that loops the file at its native frame rate.
type FFmpeg struct {
	width, height int
	aspect        float64

	mu    sync.Mutex
	front *image.RGBA
	seq   uint64

	// out is the consumer's copy of front, owned by the caller of Frame.
	out    *image.RGBA
	outSeq uint64

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// OpenFFmpeg probes path for its dimensions and starts decoding it scaled to
// decodeWidth pixels wide.
func OpenFFmpeg(path string, decodeWidth int) (*FFmpeg, error) {
	srcW, srcH, err := probe(path)
	if err != nil {
		return nil, err
	}
	if decodeWidth <= 0 || decodeWidth > srcW {
		decodeWidth = srcW
	}
	w := decodeWidth
	h := int(float64(srcH)*float64(w)/float64(srcW)+0.5) &^ 1
	if h < 2 {
		h = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-loglevel", "error",
		"-stream_loop", "-1",
		"-re",
		"-i", path,
		"-an",
		"-vf", fmt.Sprintf("scale=%d:%d", w, h),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "ffmpeg stdout")
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrap(err, "start ffmpeg")
	}

	v := newFFmpeg(w, h, float64(srcW)/float64(srcH), cancel)
	go v.read(stdout, cmd.Wait)
	logger.Printf("Decoding %s (%dx%d) at %dx%d via ffmpeg", path, srcW, srcH, w, h)
	return v, nil
}

func probe(path string) (width, height int, err error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	).Output()
	if err != nil {
		return 0, 0, errors.Wrapf(err, "ffprobe %s", path)
	}
	return parseProbe(out)
}

// parseProbe reads ffprobe's "WxH" output.
func parseProbe(out []byte) (width, height int, err error) {
	line := strings.TrimSpace(string(bytes.SplitN(out, []byte("\n"), 2)[0]))
	ws, hs, ok := strings.Cut(line, "x")
	if !ok {
		return 0, 0, errors.Errorf("unexpected ffprobe output %q", line)
	}
	if width, err = strconv.Atoi(ws); err != nil {
		return 0, 0, errors.Wrap(err, "video width")
	}
	if height, err = strconv.Atoi(hs); err != nil {
		return 0, 0, errors.Wrap(err, "video height")
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.Errorf("invalid video size %dx%d", width, height)
	}
	return width, height, nil
}

func newFFmpeg(width, height int, aspect float64, cancel context.CancelFunc) *FFmpeg {
	return &FFmpeg{
		width:  width,
		height: height,
		aspect: aspect,
		out:    image.NewRGBA(image.Rect(0, 0, width, height)),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// read decodes frames from r until it fails, then records why via wait.
func (v *FFmpeg) read(r io.Reader, wait func() error) {
	defer close(v.done)

	back := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	for {
		if _, err := io.ReadFull(r, back.Pix); err != nil {
			if werr := wait(); werr != nil && err == io.EOF {
				err = werr
			}
			v.mu.Lock()
			v.err = err
			v.mu.Unlock()
			return
		}

		v.mu.Lock()
		old := v.front
		v.front = back
		v.seq++
		v.mu.Unlock()

		if old == nil {
			old = image.NewRGBA(back.Rect)
		}
		back = old
	}
}

// Frame returns the most recent frame. The image is a copy taken under the
// decoder's lock and stays valid until the next call. A stalled decoder
// keeps returning the last frame.
func (v *FFmpeg) Frame() (image.Image, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.front == nil {
		return nil, 0
	}
	if v.seq != v.outSeq {
		copy(v.out.Pix, v.front.Pix)
		v.outSeq = v.seq
	}
	return v.out, v.outSeq
}

func (v *FFmpeg) Aspect() float64 { return v.aspect }

// Err is the reason decoding stopped, if it has.
func (v *FFmpeg) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Close kills ffmpeg and waits for the reader to finish.
func (v *FFmpeg) Close() error {
	v.once.Do(func() {
		v.cancel()
		<-v.done
	})
	return nil
}
