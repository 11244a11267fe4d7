// Package game wires the particle mirror together: the owned scene context,
// the per-frame loop and the ebiten.Game that feeds it input.
package game

import (
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-mirror/internal/audio"
	"github.com/iburimskiy/particle-mirror/internal/camera"
	"github.com/iburimskiy/particle-mirror/internal/config"
	"github.com/iburimskiy/particle-mirror/internal/media"
	"github.com/iburimskiy/particle-mirror/internal/particles"
	"github.com/iburimskiy/particle-mirror/internal/postfx"
	"github.com/iburimskiy/particle-mirror/internal/sensor"
	"github.com/iburimskiy/particle-mirror/internal/shader"
	"github.com/pkg/errors"
)

var logger = log.New(os.Stderr, "[game] ", log.LstdFlags)

type audioPlayer interface {
	Start() error
	Playing() bool
	Position() time.Duration
	Close() error
}

// Scene owns everything one running mirror needs. The loop is the only
// writer of its fields.
type Scene struct {
	field      *particles.Field
	cloud      *particles.Cloud
	texture    *media.Texture
	uniforms   shader.Uniforms
	projection *camera.Projection
	controller *camera.Controller
	post       *postfx.Stack
	loop       *Loop

	video  media.VideoSource
	player audioPlayer
	sensor sensor.Source

	notice    string
	audioErr  error
	renderErr error
	closed    bool
}

// NewScene opens the media and sensor named in s and builds the scene for a
// width×height viewport. Playback failures are not fatal; the audio is
// retried on the next user gesture.
func NewScene(s config.Settings, width, height int) (*Scene, error) {
	sc := &Scene{}
	fail := func(err error) (*Scene, error) {
		_ = sc.Close()
		return nil, err
	}

	video, err := media.OpenVideo(s.Media.Video, 2*s.Grid.Size)
	if err != nil {
		return fail(err)
	}
	sc.video = video
	if sc.field, err = particles.Build(s.Grid.Size, video.Aspect(), s.Grid.WorldHeight); err != nil {
		return fail(err)
	}
	sc.cloud = particles.NewCloud(sc.field)
	sc.texture = media.NewTexture(s.Grid.Size)
	sc.uniforms = shader.Uniforms{
		PointSizeScale: float32(s.Grid.PointSize),
		Opacity:        float32(s.Grid.Opacity),
	}

	player, err := audio.Open(s.Media.Audio, config.VisualRingSize)
	if err != nil {
		return fail(err)
	}
	sc.player = player
	spectrum := audio.NewSpectrum(player.Tap(), config.FFTSize, config.MinDecibels, config.MaxDecibels)
	analyzer := audio.NewAnalyzer(spectrum, audio.AnalyzerOptions{
		Bins:       spectrum.BinCount(),
		BassRange:  config.BassRange,
		Normalizer: config.BassNormalizer,
		Clamp:      s.Audio.ClampBass,
	})

	if s.Sensor.Replay != "" {
		replay, err := sensor.OpenReplay(s.Sensor.Replay)
		if err != nil {
			return fail(err)
		}
		sc.sensor = replay
	}

	capability := camera.Implicit()
	if s.Orientation.Permission == "prompt" {
		capability = camera.Explicit(camera.DialogRequester{})
	}
	orbit := newOrbit(s.Camera)
	notifier := camera.NotifierFunc(func(message string) {
		sc.notice = message
		camera.DesktopNotifier{}.Notify(message)
	})
	sc.controller = camera.NewController(orbit, capability, notifier, s.Orientation.PitchOffset)
	sc.projection = camera.NewProjection(s.Camera.FieldOfView, config.NearPlane, config.FarPlane, width, height)
	sc.post = postfx.New(postfx.Bloom{
		Strength:  s.Bloom.Strength,
		Radius:    s.Bloom.Radius,
		Threshold: s.Bloom.Threshold,
		Levels:    s.Bloom.Levels,
	}, width, height)
	sc.loop = NewLoop(analyzer, sc.controller, &sc.uniforms, sc.render)

	sc.StartAudio()
	return sc, nil
}

func newOrbit(c config.CameraSettings) *camera.Orbit {
	orbit := camera.NewOrbit(c.Distance, c.MinDistance, c.MaxDistance, c.Damping)
	orbit.RotateSpeed = config.RotateSpeed
	orbit.ZoomSpeed = config.ZoomSpeed
	return orbit
}

// StartAudio (re)tries playback. The error is kept for the status line.
func (s *Scene) StartAudio() {
	if s.closed || s.player == nil || s.player.Playing() {
		return
	}
	s.audioErr = s.player.Start()
}

// Poll pulls the latest video frame and orientation sample into the scene.
func (s *Scene) Poll() {
	if s.closed {
		return
	}
	frame, seq := s.video.Frame()
	s.texture.Update(frame, seq)

	// Samples taken before access was granted are discarded.
	if s.sensor != nil {
		sample, ok := sensor.Latest(s.sensor.Samples())
		if ok && s.controller.State() == camera.OrientationDriven {
			s.controller.HandleOrientation(sample)
		}
	}
}

// Resize propagates a new viewport size to the projection and every
// post-process target.
func (s *Scene) Resize(width, height int) {
	s.projection.Resize(width, height)
	s.post.Resize(width, height)
}

func (s *Scene) Size() (width, height int) { return s.projection.Size() }

func (s *Scene) render(screen *ebiten.Image) {
	w, h := s.projection.Size()
	mvp := s.projection.Matrix().Mul4(s.controller.View())
	s.uniforms.Texture = s.texture.Image()
	s.cloud.Build(s.texture, mvp, w, h, &s.uniforms)

	err := s.post.Draw(screen, func(target *ebiten.Image) error {
		target.Fill(color.Black)
		return s.cloud.Draw(target, &s.uniforms)
	})
	if err != nil && s.renderErr == nil {
		s.renderErr = errors.Wrap(err, "render")
		logger.Printf("Rendering failed: %v", s.renderErr)
	}
}

// Close tears the scene down in order: loop, sensor, camera, GPU resources,
// video, audio. Later calls do nothing.
func (s *Scene) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.loop != nil {
		s.loop.Stop()
	}

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if s.sensor != nil {
		keep(s.sensor.Close())
	}
	if s.controller != nil {
		s.controller.Close()
	}
	if s.cloud != nil {
		s.cloud.Dispose()
	}
	if s.post != nil {
		s.post.Dispose()
	}
	if s.texture != nil {
		s.texture.Dispose()
	}
	if s.video != nil {
		keep(s.video.Close())
	}
	if s.player != nil {
		keep(s.player.Close())
	}
	if first != nil {
		logger.Printf("Teardown: %v", first)
	}
	return first
}

func (s *Scene) Closed() bool { return s.closed }
