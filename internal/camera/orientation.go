package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/iburimskiy/particle-mirror/internal/sensor"
)

// OrientationRotation converts a device orientation sample to a camera
// rotation. Yaw (alpha) is applied about Y, then pitch (beta plus
// pitchOffset) about X, then negated roll (gamma) about Z. The offset turns
// "phone held upright" into "camera looking at the horizon".
func OrientationRotation(s sensor.Sample, pitchOffsetDeg float64) mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(float32(s.Alpha)), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(mgl32.DegToRad(float32(s.Beta+pitchOffsetDeg)), mgl32.Vec3{1, 0, 0})
	roll := mgl32.QuatRotate(mgl32.DegToRad(float32(-s.Gamma)), mgl32.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// viewFrom builds the view matrix of a camera at eye with the given world
// rotation.
func viewFrom(eye mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	return rotation.Inverse().Mat4().Mul4(mgl32.Translate3D(-eye.X(), -eye.Y(), -eye.Z()))
}
