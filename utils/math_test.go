package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversion(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(33.3)), test.ShouldAlmostEqual, 33.3)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1.0, 1.0+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1.0, 1.1, 1e-9), test.ShouldBeFalse)
}

func TestAllFinite(t *testing.T) {
	test.That(t, AllFinite(0, -1.5, 1e300), test.ShouldBeTrue)
	test.That(t, AllFinite(1, math.NaN()), test.ShouldBeFalse)
	test.That(t, AllFinite(math.Inf(-1)), test.ShouldBeFalse)
}
