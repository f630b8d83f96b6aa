package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a single observation of the vehicle: a position in meters and an orientation.
// Only x, y and yaw matter to the controller; z, roll and pitch are carried along.
type Pose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// NewPose returns a pose at the given position and orientation.
func NewPose(position r3.Vector, orientation quat.Number) Pose {
	return Pose{Position: position, Orientation: orientation}
}

// NewPlanarPose returns a pose at (x, y, 0) rotated yaw radians about z.
func NewPlanarPose(x, y, yaw float64) Pose {
	return Pose{Position: r3.Vector{X: x, Y: y}, Orientation: QuaternionFromYaw(yaw)}
}

// Yaw is the heading of the pose in radians, in [-π, π].
func (p Pose) Yaw() float64 {
	return YawFromQuaternion(p.Orientation)
}

// IsFinite reports whether every component of the pose is a finite number.
func (p Pose) IsFinite() bool {
	for _, v := range []float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.Real, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Pose) String() string {
	return fmt.Sprintf("pos=(%.3f, %.3f, %.3f) yaw=%.3f", p.Position.X, p.Position.Y, p.Position.Z, p.Yaw())
}
