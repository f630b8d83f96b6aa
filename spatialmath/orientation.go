// Package spatialmath holds the planar pose and orientation math the controller runs on.
// Orientations are gonum quaternions with Real as w and Imag, Jmag, Kmag as x, y, z.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D Euclidean space.
// Roll is about x, pitch about y, yaw about z, all counterclockwise.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NewZeroOrientation returns a quaternion which signifies no rotation.
func NewZeroOrientation() quat.Number {
	return quat.Number{Real: 1}
}

// NewQuaternion builds a quaternion from its x, y, z, w components, the order used by ROS
// geometry messages.
func NewQuaternion(x, y, z, w float64) quat.Number {
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// QuaternionFromYaw returns the unit quaternion for a pure rotation of yaw radians about z.
func QuaternionFromYaw(yaw float64) quat.Number {
	return quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}
}

// YawFromQuaternion extracts the rotation about the vertical axis. The quaternion is not
// normalized first: a non-unit input still yields a defined angle.
func YawFromQuaternion(q quat.Number) float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
}

// EulerAnglesFromQuaternion converts a quaternion to roll, pitch and yaw. The pitch term is
// clamped to [-1, 1] before asin so slightly denormalized inputs don't produce NaN.
func EulerAnglesFromQuaternion(q quat.Number) *EulerAngles {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinPitch := 2 * (w*y - z*x)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch := math.Asin(sinPitch)

	return &EulerAngles{Roll: roll, Pitch: pitch, Yaw: YawFromQuaternion(q)}
}
