package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestWrapToPiRange(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(7))
	inputs := []float64{
		0, math.Pi, -math.Pi, 2 * math.Pi, -2 * math.Pi, 3 * math.Pi, -3 * math.Pi,
		math.Pi + 1e-9, -math.Pi - 1e-9, 1e6, -1e6, 1e300, -1e300, math.MaxFloat64,
	}
	for i := 0; i < 1000; i++ {
		inputs = append(inputs, (r.Float64()-0.5)*1000)
	}
	for _, a := range inputs {
		w := WrapToPi(a)
		test.That(t, w, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, w, test.ShouldBeLessThanOrEqualTo, math.Pi)

		// Congruent mod 2π. The tolerance grows with |a| since a itself can't be
		// represented more precisely than that.
		if math.Abs(a) < 1e6 {
			diff := math.Remainder(w-a, 2*math.Pi)
			test.That(t, math.Abs(diff), test.ShouldBeLessThan, 1e-9)
		}
	}
}

func TestWrapToPiBoundaries(t *testing.T) {
	test.That(t, WrapToPi(math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, WrapToPi(-math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, WrapToPi(0), test.ShouldEqual, 0.0)
	test.That(t, WrapToPi(3*math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, WrapToPi(-3*math.Pi/2), test.ShouldAlmostEqual, math.Pi/2)
}

func TestWrapToPiNonFinite(t *testing.T) {
	test.That(t, math.IsNaN(WrapToPi(math.NaN())), test.ShouldBeTrue)
	test.That(t, math.IsInf(WrapToPi(math.Inf(1)), 1), test.ShouldBeTrue)
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(0.1, -0.1), test.ShouldAlmostEqual, -0.2)
	test.That(t, AngleDiff(math.Pi-0.1, -math.Pi+0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, AngleDiff(-math.Pi+0.1, math.Pi-0.1), test.ShouldAlmostEqual, -0.2)
}
