// Package camera drives the view either from a damped orbit controlled by
// the pointer or from device orientation samples.
package camera

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/iburimskiy/particle-mirror/internal/sensor"
	"github.com/pkg/errors"
)

// State is the controller's input mode.
type State int

const (
	Manual State = iota
	PermissionPending
	OrientationDriven
)

func (s State) String() string {
	switch s {
	case Manual:
		return "manual"
	case PermissionPending:
		return "permission pending"
	case OrientationDriven:
		return "orientation"
	default:
		return "unknown"
	}
}

const deniedMessage = "Orientation access was not granted; drag to orbit instead."

type permissionResult struct {
	granted bool
	err     error
}

// Controller owns the camera state. All methods except the permission
// goroutine it starts must be called from the render loop.
type Controller struct {
	state       State
	orbit       *Orbit
	capability  Capability
	notifier    Notifier
	pitchOffset float64

	results chan permissionResult
	cancel  context.CancelFunc

	sample    sensor.Sample
	hasSample bool
	rotation  mgl32.Quat
	view      mgl32.Mat4
	closed    bool
}

func NewController(orbit *Orbit, capability Capability, notifier Notifier, pitchOffsetDeg float64) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Controller{
		state:       Manual,
		orbit:       orbit,
		capability:  capability,
		notifier:    notifier,
		pitchOffset: pitchOffsetDeg,
		results:     make(chan permissionResult, 1),
		rotation:    mgl32.QuatIdent(),
		view:        orbit.View(),
	}
}

func (c *Controller) State() State { return c.state }

// CanRequestOrientation reports whether the enable-orientation trigger is
// live.
func (c *Controller) CanRequestOrientation() bool { return c.state == Manual && !c.closed }

// RequestOrientation starts the permission handshake. It is a no-op unless
// the controller is Manual. With an implicit capability the switch happens
// immediately; otherwise the result is applied by a later Step.
func (c *Controller) RequestOrientation(ctx context.Context) {
	if !c.CanRequestOrientation() {
		return
	}
	c.state = PermissionPending

	if !c.capability.RequiresGrant() {
		c.resolve(permissionResult{granted: true})
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	go c.request(ctx, c.capability.requester)
}

func (c *Controller) request(ctx context.Context, r Requester) {
	var res permissionResult
	defer func() {
		if p := recover(); p != nil {
			res = permissionResult{err: errors.Errorf("permission request panicked: %v", p)}
		}
		c.results <- res
	}()
	granted, err := r.RequestPermission(ctx)
	res = permissionResult{granted: granted, err: err}
}

func (c *Controller) resolve(res permissionResult) {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if res.err == nil && res.granted {
		c.state = OrientationDriven
		// Hold the current orbit pose until the first sample arrives.
		c.rotation = mgl32.Mat4ToQuat(c.orbit.View()).Inverse()
		logger.Printf("Orientation control enabled")
		return
	}

	c.state = Manual
	if res.err != nil {
		logger.Printf("Orientation permission failed: %v", res.err)
	} else {
		logger.Printf("Orientation permission denied")
	}
	c.notifier.Notify(deniedMessage)
}

// Drag forwards pointer drags to the orbit. Ignored once orientation drives
// the camera.
func (c *Controller) Drag(dx, dy float64, viewportHeight int) {
	if c.state == OrientationDriven {
		return
	}
	c.orbit.Drag(dx, dy, viewportHeight)
}

// Wheel forwards scroll steps to the orbit. Ignored once orientation drives
// the camera.
func (c *Controller) Wheel(steps float64) {
	if c.state == OrientationDriven {
		return
	}
	c.orbit.Wheel(steps)
}

// Pinch forwards a pinch zoom factor to the orbit.
func (c *Controller) Pinch(factor float64) {
	if c.state == OrientationDriven {
		return
	}
	c.orbit.Zoom(factor)
}

// HandleOrientation records the latest sample; only the last one before a
// Step is used.
func (c *Controller) HandleOrientation(s sensor.Sample) {
	c.sample = s
	c.hasSample = true
}

// Step advances the camera by one frame.
func (c *Controller) Step() {
	select {
	case res := <-c.results:
		if c.state == PermissionPending {
			c.resolve(res)
		}
	default:
	}

	switch c.state {
	case Manual, PermissionPending:
		c.orbit.Update()
		c.view = c.orbit.View()
	case OrientationDriven:
		if c.hasSample {
			c.rotation = OrientationRotation(c.sample, c.pitchOffset)
		}
		c.view = viewFrom(c.orbit.Eye(), c.rotation)
	}
}

// View is the current view matrix.
func (c *Controller) View() mgl32.Mat4 { return c.view }

// Eye is the current camera position.
func (c *Controller) Eye() mgl32.Vec3 { return c.orbit.Eye() }

// Close abandons a pending permission request.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
