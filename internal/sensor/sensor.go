// Package sensor delivers device orientation samples to the camera.
package sensor

// Sample is one device orientation reading in degrees.
//
//	Alpha  rotation about the vertical axis (yaw), [0, 360)
//	Beta   front-back tilt (pitch), [-180, 180)
//	Gamma  left-right tilt (roll), [-90, 90)
type Sample struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// Source is a stream of orientation samples. Samples are delivered on the
// returned channel until Close is called.
type Source interface {
	Samples() <-chan Sample
	Close() error
}

// Latest drains every sample currently buffered on ch and returns the last
// one. ok is false when nothing was waiting.
func Latest(ch <-chan Sample) (s Sample, ok bool) {
	for {
		select {
		case v, open := <-ch:
			if !open {
				return s, ok
			}
			s, ok = v, true
		default:
			return s, ok
		}
	}
}
