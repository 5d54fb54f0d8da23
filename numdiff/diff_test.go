package numdiff

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestJacobianScalar(t *testing.T) {
	// d/dx sin(x) about x0
	x0 := 0.3
	f := func(delta []float64) ([]float64, error) {
		return []float64{math.Sin(x0 + delta[0])}, nil
	}
	jac, err := Jacobian(f, 1)
	test.That(t, err, test.ShouldBeNil)
	r, c := jac.Dims()
	test.That(t, r, test.ShouldEqual, 1)
	test.That(t, c, test.ShouldEqual, 1)
	test.That(t, jac.At(0, 0), test.ShouldAlmostEqual, math.Cos(x0), 1e-9)
}

func TestJacobianVector(t *testing.T) {
	// f(x, y) = (x*y, x+y, y^2) about (2, -1)
	x0, y0 := 2.0, -1.0
	f := func(delta []float64) ([]float64, error) {
		x := x0 + delta[0]
		y := y0 + delta[1]
		return []float64{x * y, x + y, y * y}, nil
	}
	jac, err := Jacobian(f, 2)
	test.That(t, err, test.ShouldBeNil)
	want := [][]float64{
		{y0, x0},
		{1, 1},
		{0, 2 * y0},
	}
	for i := range want {
		for j := range want[i] {
			test.That(t, jac.At(i, j), test.ShouldAlmostEqual, want[i][j], 1e-8)
		}
	}
}

func TestJacobianStepAgreement(t *testing.T) {
	// estimates at different step sizes agree for a smooth function
	f := func(delta []float64) ([]float64, error) {
		return []float64{math.Exp(delta[0]) * math.Cos(delta[1])}, nil
	}
	coarse, err := Jacobian(f, 2)
	test.That(t, err, test.ShouldBeNil)
	fine, err := JacobianWithStep(f, 2, 1e-6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, coarse.At(0, 0), test.ShouldAlmostEqual, fine.At(0, 0), 1e-5)
	test.That(t, coarse.At(0, 1), test.ShouldAlmostEqual, fine.At(0, 1), 1e-5)
}

func TestJacobianErrors(t *testing.T) {
	ok := func(delta []float64) ([]float64, error) { return []float64{0}, nil }
	_, err := Jacobian(ok, 0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = JacobianWithStep(ok, 1, 0)
	test.That(t, err, test.ShouldNotBeNil)

	boom := errors.New("evaluation failed")
	failing := func(delta []float64) ([]float64, error) { return nil, boom }
	_, err = Jacobian(failing, 2)
	test.That(t, errors.Is(err, boom), test.ShouldBeTrue)
}
