// Package numdiff estimates derivatives of residual functions by finite differences.
//
// Reference:
//   - https://en.wikipedia.org/wiki/Finite_difference
package numdiff

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultStep is the perturbation magnitude used when none is specified.
const DefaultStep = 1e-5

// A PerturbedFunc maps a tangent-space perturbation of a single argument to a
// residual vector. The caller closes over the remaining arguments and over the
// chart that applies the perturbation, so the same estimator serves arguments
// that live on a manifold (poses) and in a plain vector space (landmarks) alike.
// The perturbation slice is reused between calls and must not be retained.
type PerturbedFunc func(delta []float64) ([]float64, error)

// Jacobian estimates the derivative of f's residual with respect to a local
// perturbation of dim dimensions, evaluated about delta = 0, using DefaultStep.
func Jacobian(f PerturbedFunc, dim int) (*mat.Dense, error) {
	return JacobianWithStep(f, dim, DefaultStep)
}

// JacobianWithStep is Jacobian with an explicit step size. It uses central
// differences, costing two evaluations of f per tangent dimension.
func JacobianWithStep(f PerturbedFunc, dim int, step float64) (*mat.Dense, error) {
	if dim <= 0 {
		return nil, errors.Errorf("tangent dimension must be positive, got %d", dim)
	}
	if step <= 0 {
		return nil, errors.Errorf("step size must be positive, got %f", step)
	}

	delta := make([]float64, dim)
	var jac *mat.Dense
	col := []float64(nil)
	for i := 0; i < dim; i++ {
		delta[i] = step
		plus, err := f(delta)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating +step in dimension %d", i)
		}
		delta[i] = -step
		minus, err := f(delta)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating -step in dimension %d", i)
		}
		delta[i] = 0

		if jac == nil {
			jac = mat.NewDense(len(plus), dim, nil)
			col = make([]float64, len(plus))
		}
		if len(plus) != len(minus) || len(plus) != len(col) {
			return nil, errors.Errorf("residual dimension changed during differentiation (dimension %d)", i)
		}
		floats.SubTo(col, plus, minus)
		floats.Scale(1/(2*step), col)
		jac.SetCol(i, col)
	}
	return jac, nil
}
