package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the z axis
var (
	th   = math.Pi / 4.
	q45z = quat.Number{Real: math.Cos(th / 2.), Kmag: math.Sin(th / 2.)}
	q45x = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)}
)

func TestYawFromQuaternion(t *testing.T) {
	test.That(t, YawFromQuaternion(NewZeroOrientation()), test.ShouldEqual, 0.0)
	test.That(t, YawFromQuaternion(q45z), test.ShouldAlmostEqual, th)
	test.That(t, YawFromQuaternion(q45x), test.ShouldAlmostEqual, 0.0)

	for _, deg := range []float64{-179, -90, -45, 0, 30, 90, 135, 179} {
		yaw := deg * math.Pi / 180
		test.That(t, YawFromQuaternion(QuaternionFromYaw(yaw)), test.ShouldAlmostEqual, yaw)
	}

	// ROS component order is x, y, z, w.
	q := NewQuaternion(0, 0, math.Sin(th/2.), math.Cos(th/2.))
	test.That(t, q.Real, test.ShouldAlmostEqual, q45z.Real)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, q45z.Kmag)
	test.That(t, q.Imag, test.ShouldEqual, 0.0)
	test.That(t, q.Jmag, test.ShouldEqual, 0.0)
}

func TestYawFromNonUnitQuaternion(t *testing.T) {
	// Scaled quaternions still produce a finite angle.
	scaled := quat.Scale(3, q45z)
	yaw := YawFromQuaternion(scaled)
	test.That(t, math.IsNaN(yaw), test.ShouldBeFalse)
	test.That(t, yaw, test.ShouldBeGreaterThanOrEqualTo, -math.Pi)
	test.That(t, yaw, test.ShouldBeLessThanOrEqualTo, math.Pi)

	test.That(t, YawFromQuaternion(quat.Number{}), test.ShouldEqual, 0.0)
}

func TestEulerAngles(t *testing.T) {
	ea := EulerAnglesFromQuaternion(q45x)
	test.That(t, ea.Roll, test.ShouldAlmostEqual, th)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0.0)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, 0.0)

	ea = EulerAnglesFromQuaternion(q45z)
	test.That(t, ea.Roll, test.ShouldAlmostEqual, 0.0)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, th)

	// Pitch input beyond ±1 is clamped instead of producing NaN.
	overPitch := quat.Number{Real: 1, Jmag: 1}
	ea = EulerAnglesFromQuaternion(overPitch)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, math.Pi/2)
}

func TestPose(t *testing.T) {
	p := NewPlanarPose(1, -2, math.Pi/2)
	test.That(t, p.Position.X, test.ShouldEqual, 1.0)
	test.That(t, p.Position.Y, test.ShouldEqual, -2.0)
	test.That(t, p.Yaw(), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, p.IsFinite(), test.ShouldBeTrue)
	test.That(t, p.String(), test.ShouldContainSubstring, "yaw=1.571")

	p.Position.X = math.NaN()
	test.That(t, p.IsFinite(), test.ShouldBeFalse)
}
