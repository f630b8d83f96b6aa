package navigation

import (
	"math"

	"github.com/jetracer/goalnav/spatialmath"
)

// Errors are the two control errors derived from one pose.
type Errors struct {
	// Heading is the signed rotation from the vehicle's yaw to the goal bearing, in (-π, π].
	Heading float64
	// Distance is the straight-line distance to the goal in meters, always >= 0.
	Distance float64
	// GoalHeading is the bearing from the vehicle to the goal.
	GoalHeading float64
	// Yaw is the vehicle heading extracted from the pose.
	Yaw float64
}

// ComputeErrors derives the heading and distance errors of pose relative to goal.
//
// When the pose sits exactly on the goal the bearing is undefined; the bearing is then
// taken to be the vehicle's own yaw so the heading error is 0.
func ComputeErrors(pose spatialmath.Pose, goal Goal) Errors {
	dx := goal.X - pose.Position.X
	dy := goal.Y - pose.Position.Y
	yaw := pose.Yaw()

	distance := math.Hypot(dx, dy)
	goalHeading := yaw
	if distance != 0 {
		goalHeading = math.Atan2(dy, dx)
	}

	return Errors{
		Heading:     spatialmath.AngleDiff(yaw, goalHeading),
		Distance:    distance,
		GoalHeading: goalHeading,
		Yaw:         yaw,
	}
}
