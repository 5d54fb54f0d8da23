package factor

import (
	"testing"

	"go.viam.com/test"
)

func TestDiagonalNoise(t *testing.T) {
	n, err := NewDiagonalNoise(2, 4)
	test.That(t, err, test.ShouldBeNil)

	whitened, err := n.Whiten([]float64{2, 4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, whitened[0], test.ShouldAlmostEqual, 1)
	test.That(t, whitened[1], test.ShouldAlmostEqual, 1)

	_, err = n.Whiten([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewDiagonalNoise(1, 0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewDiagonalNoise(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestIsotropicNoise(t *testing.T) {
	n, err := NewIsotropicNoise(2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Sigmas(), test.ShouldResemble, []float64{0.5, 0.5})

	same, err := NewDiagonalNoise(0.5, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.AlmostEqual(same, 1e-9), test.ShouldBeTrue)

	other, err := NewDiagonalNoise(0.5, 0.6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.AlmostEqual(other, 1e-9), test.ShouldBeFalse)

	shorter, err := NewDiagonalNoise(0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.AlmostEqual(shorter, 1e-9), test.ShouldBeFalse)

	_, err = NewIsotropicNoise(0, 1)
	test.That(t, err, test.ShouldNotBeNil)
}
