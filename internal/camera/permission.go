package camera

import (
	"context"
	"log"
	"os"

	"github.com/ncruces/zenity"
	"github.com/pkg/errors"
)

var logger = log.New(os.Stderr, "[camera] ", log.LstdFlags)

// Requester asks the platform for access to the orientation sensor.
// granted is false when the user declined.
type Requester interface {
	RequestPermission(ctx context.Context) (granted bool, err error)
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(ctx context.Context) (bool, error)

func (f RequesterFunc) RequestPermission(ctx context.Context) (bool, error) { return f(ctx) }

// Capability says how the platform guards the orientation sensor. It has
// exactly two forms: Implicit (no grant needed) and Explicit (a Requester
// must grant access first).
type Capability struct {
	requester Requester
}

// Implicit is a platform where orientation data needs no grant.
func Implicit() Capability { return Capability{} }

// Explicit is a platform where r must grant access before use.
func Explicit(r Requester) Capability { return Capability{requester: r} }

// RequiresGrant reports whether this is the Explicit form.
func (c Capability) RequiresGrant() bool { return c.requester != nil }

// Notifier tells the user something went wrong.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

// DialogRequester asks with a native yes/no dialog.
type DialogRequester struct{}

func (DialogRequester) RequestPermission(ctx context.Context) (bool, error) {
	err := zenity.Question(
		"Allow the visualizer to steer the camera with device orientation?",
		zenity.Title("Orientation access"),
		zenity.OKLabel("Allow"),
		zenity.CancelLabel("Deny"),
		zenity.Context(ctx),
	)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, zenity.ErrCanceled):
		return false, nil
	default:
		return false, errors.Wrap(err, "orientation permission dialog")
	}
}

// DesktopNotifier shows a desktop notification without blocking the caller.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(message string) {
	go func() {
		if err := zenity.Notify(message, zenity.Title("Particle Mirror")); err != nil {
			logger.Printf("Notification failed: %v", err)
		}
	}()
}
