package factor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// NoiseModel weights a residual by the measurement uncertainty. This core
// treats the model as opaque fixed state: it is bound at construction,
// compared during equality checks, and applied only through WhitenedResidual.
type NoiseModel interface {
	// Whiten scales a residual into units of standard deviations.
	Whiten(residual []float64) ([]float64, error)
	// Sigmas returns the per-dimension standard deviations.
	Sigmas() []float64
	// AlmostEqual reports whether two noise models agree within tol.
	AlmostEqual(other NoiseModel, tol float64) bool
}

type diagonalNoise struct {
	sigmas []float64
}

// NewDiagonalNoise creates a noise model with independent per-dimension
// standard deviations. All sigmas must be positive.
func NewDiagonalNoise(sigmas ...float64) (NoiseModel, error) {
	for _, s := range sigmas {
		if s <= 0 {
			return nil, errors.Errorf("noise sigmas must be positive, got %v", sigmas)
		}
	}
	return &diagonalNoise{sigmas: append([]float64(nil), sigmas...)}, nil
}

// NewIsotropicNoise creates a noise model with the same standard deviation in
// every dimension.
func NewIsotropicNoise(dim int, sigma float64) (NoiseModel, error) {
	if dim <= 0 {
		return nil, errors.Errorf("noise dimension must be positive, got %d", dim)
	}
	sigmas := make([]float64, dim)
	for i := range sigmas {
		sigmas[i] = sigma
	}
	return NewDiagonalNoise(sigmas...)
}

func (n *diagonalNoise) Whiten(residual []float64) ([]float64, error) {
	if len(residual) != len(n.sigmas) {
		return nil, errors.Errorf("residual dimension %d does not match noise dimension %d", len(residual), len(n.sigmas))
	}
	whitened := make([]float64, len(residual))
	floats.DivTo(whitened, residual, n.sigmas)
	return whitened, nil
}

func (n *diagonalNoise) Sigmas() []float64 {
	return append([]float64(nil), n.sigmas...)
}

func (n *diagonalNoise) AlmostEqual(other NoiseModel, tol float64) bool {
	if other == nil {
		return false
	}
	otherSigmas := other.Sigmas()
	return len(otherSigmas) == len(n.sigmas) && floats.EqualApprox(n.sigmas, otherSigmas, tol)
}

// noiseAlmostEqual compares two possibly-nil noise models.
func noiseAlmostEqual(a, b NoiseModel, tol float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AlmostEqual(b, tol)
}
