// Package media provides decoded video frames and the grid-sized texture the
// particles sample.
package media

import (
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var logger = log.New(os.Stderr, "[media] ", log.LstdFlags)

// VideoSource yields the most recent decoded frame of a looping video.
type VideoSource interface {
	// Frame returns the current frame and a sequence number that changes
	// whenever the frame does. The image is nil until the first frame is
	// decoded and must not be modified.
	Frame() (image.Image, uint64)
	// Aspect is width over height of the video.
	Aspect() float64
	Close() error
}

// OpenVideo picks a decoder from the file extension: animated GIFs are
// decoded in-process, everything else is piped through ffmpeg at
// decodeWidth pixels wide.
func OpenVideo(path string, decodeWidth int) (VideoSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		g, err := OpenGIF(path)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	v, err := OpenFFmpeg(path, decodeWidth)
	if err != nil {
		return nil, err
	}
	return v, nil
}
