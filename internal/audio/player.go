package audio

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

var logger = log.New(os.Stderr, "[audio] ", log.LstdFlags)

// Player decodes one audio file and plays it on a loop through a Tap.
type Player struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap

	speakerReady bool
	playing      bool
	closed       bool
	lastErr      error
}

// Open decodes path (wav, mp3 or flac) without starting playback.
func Open(path string, ringSize int) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open audio")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.Errorf("unsupported audio file type: %s", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	logger.Printf("Loaded %s (%d Hz, %d samples)", path, format.SampleRate, streamer.Len())

	// streamer -> loop -> tap -> ctrl
	if ringSize <= 0 {
		ringSize = 8192
	}
	tap := NewTap(beep.Loop(-1, streamer), ringSize)
	return &Player{
		path:     path,
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: tap},
		tap:      tap,
	}, nil
}

// Tap exposes the sample ring the analyzer reads from.
func (p *Player) Tap() *Tap { return p.tap }

// Playing reports whether playback has started.
func (p *Player) Playing() bool { return p.playing }

// Position is the playback position within the current loop.
func (p *Player) Position() time.Duration {
	if !p.playing || p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Err returns the last start failure, if any.
func (p *Player) Err() error { return p.lastErr }

// Start initializes the speaker if needed and begins playback. A failure is
// remembered and may be retried by calling Start again.
func (p *Player) Start() error {
	if p.closed || p.playing {
		return nil
	}

	if !p.speakerReady {
		bufferSize := p.format.SampleRate.N(time.Second / 20)
		if err := speaker.Init(p.format.SampleRate, bufferSize); err != nil {
			p.lastErr = errors.Wrap(err, "init speaker")
			logger.Printf("Playback not started: %v", p.lastErr)
			return p.lastErr
		}
		p.speakerReady = true
	}

	speaker.Play(p.ctrl)
	p.playing = true
	p.lastErr = nil
	logger.Printf("Playing %s", p.path)
	return nil
}

// Close stops playback and releases the decoder and file. Safe to call more
// than once.
func (p *Player) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.speakerReady {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
		speaker.Clear()
	}
	p.playing = false

	var err error
	if p.streamer != nil {
		if cerr := p.streamer.Close(); cerr != nil {
			err = errors.Wrap(cerr, "close audio stream")
		}
		p.streamer = nil
	}
	// The decoder usually closes the file itself.
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	return err
}
