package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-mirror/internal/shader"
)

// BassSource yields the bass strength for the current tick.
type BassSource interface {
	BassStrength() float64
}

// Stepper advances the camera by one tick.
type Stepper interface {
	Step()
}

// Loop is the per-frame driver. ebiten calls Update then Draw once per
// display refresh; every tick reads bass, writes it into the uniforms, steps
// the camera and renders. Nothing is skipped or reordered.
type Loop struct {
	bass     BassSource
	camera   Stepper
	uniforms *shader.Uniforms
	render   func(screen *ebiten.Image)

	ticks   uint64
	stopped bool
}

func NewLoop(bass BassSource, camera Stepper, uniforms *shader.Uniforms, render func(screen *ebiten.Image)) *Loop {
	return &Loop{
		bass:     bass,
		camera:   camera,
		uniforms: uniforms,
		render:   render,
	}
}

// Update runs the simulation half of a tick. After Stop it returns
// ebiten.Termination and touches nothing.
func (l *Loop) Update() error {
	if l.stopped {
		return ebiten.Termination
	}
	l.uniforms.BassStrength = float32(l.bass.BassStrength())
	l.camera.Step()
	l.ticks++
	return nil
}

// Draw renders the frame prepared by the last Update.
func (l *Loop) Draw(screen *ebiten.Image) {
	if l.stopped {
		return
	}
	l.render(screen)
}

// Stop ends the loop; no further work is scheduled.
func (l *Loop) Stop() { l.stopped = true }

func (l *Loop) Stopped() bool { return l.stopped }

// Ticks is the number of completed updates.
func (l *Loop) Ticks() uint64 { return l.ticks }
