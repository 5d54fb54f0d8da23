package factor

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/edgeloop-robotics/invdepth/camera"
	"github.com/edgeloop-robotics/invdepth/spatialmath"
)

func TestLandmarkCartesian(t *testing.T) {
	// zero bearing lies on the anchor's +z axis at distance 1/rho
	pt, err := Landmark{Theta: 0, Phi: 0, Rho: 1}.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.X, test.ShouldAlmostEqual, 0)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 0)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 1)

	pt, err = Landmark{Theta: 0, Phi: 0, Rho: 0.25}.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 4)

	// theta of 90 degrees points along +x
	pt, err = Landmark{Theta: math.Pi / 2, Phi: 0, Rho: 2}.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.X, test.ShouldAlmostEqual, 0.5)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 0, 1e-9)

	// the point always lies at distance 1/|rho|
	pt, err = Landmark{Theta: 0.7, Phi: -0.3, Rho: 0.5}.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.Norm(), test.ShouldAlmostEqual, 2, 1e-9)
}

func TestLandmarkBehindAnchor(t *testing.T) {
	// negative rho is a legal state meaning the point is behind the anchor
	pt, err := Landmark{Theta: 0, Phi: 0, Rho: -1}.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.Z, test.ShouldAlmostEqual, -1)
}

func TestLandmarkInvalid(t *testing.T) {
	_, err := Landmark{Theta: 0, Phi: 0, Rho: 0}.Cartesian()
	test.That(t, errors.Is(err, ErrBadLandmark), test.ShouldBeTrue)
	_, err = Landmark{Theta: math.NaN(), Phi: 0, Rho: 1}.Cartesian()
	test.That(t, errors.Is(err, ErrBadLandmark), test.ShouldBeTrue)
	_, err = Landmark{Theta: 0, Phi: math.Inf(1), Rho: 1}.Cartesian()
	test.That(t, errors.Is(err, ErrBadLandmark), test.ShouldBeTrue)
}

func TestLandmarkPerturb(t *testing.T) {
	l := Landmark{Theta: 0.1, Phi: 0.2, Rho: 0.3}
	p := l.Perturb([]float64{0.01, -0.02, 0.03})
	test.That(t, p.Theta, test.ShouldAlmostEqual, 0.11)
	test.That(t, p.Phi, test.ShouldAlmostEqual, 0.18)
	test.That(t, p.Rho, test.ShouldAlmostEqual, 0.33)
	test.That(t, l.AlmostEqual(l, 1e-12), test.ShouldBeTrue)
	test.That(t, l.AlmostEqual(p, 1e-12), test.ShouldBeFalse)
}

func TestLandmarkFromObservation(t *testing.T) {
	intrinsics := &camera.Intrinsics{Fx: 600, Fy: 600, Ppx: 320, Ppy: 240}
	px := r2.Point{X: 350.5, Y: 210.25}
	depth := 3.0

	l, err := LandmarkFromObservation(px, depth, intrinsics)
	test.That(t, err, test.ShouldBeNil)

	// projecting the seeded landmark reproduces the pixel
	pt, err := l.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	cam := camera.Model{Intrinsics: intrinsics, Pose: spatialmath.NewZeroPose()}
	got, err := cam.Project(pt)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.X, test.ShouldAlmostEqual, px.X, 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, px.Y, 1e-9)
	test.That(t, pt.Z, test.ShouldAlmostEqual, depth, 1e-9)

	_, err = LandmarkFromObservation(px, 0, intrinsics)
	test.That(t, errors.Is(err, ErrBadLandmark), test.ShouldBeTrue)
	_, err = LandmarkFromObservation(px, -2, intrinsics)
	test.That(t, errors.Is(err, ErrBadLandmark), test.ShouldBeTrue)
}

func TestLandmarkRoundTripDistance(t *testing.T) {
	// Cartesian then re-seed recovers the parameterization
	l := Landmark{Theta: -0.4, Phi: 0.25, Rho: 0.8}
	pt, err := l.Cartesian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.Atan2(pt.X, pt.Z), test.ShouldAlmostEqual, l.Theta, 1e-9)
	test.That(t, math.Asin(pt.Y/pt.Norm()), test.ShouldAlmostEqual, l.Phi, 1e-9)
	test.That(t, 1/pt.Norm(), test.ShouldAlmostEqual, l.Rho, 1e-9)
}
