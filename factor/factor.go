// Package factor implements inverse-depth reprojection factors for nonlinear
// least-squares factor graphs, e.g. bundle adjustment or visual SLAM backends.
//
// A factor encodes one pixel measurement's contribution to the global
// objective. Landmarks follow the (theta, phi, rho) inverse-depth
// parameterization of Civera et al., anchored to a reference pose. Jacobians
// are estimated numerically via central differences over each variable's local
// tangent-space chart.
package factor

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/edgeloop-robotics/invdepth/camera"
)

// Factor is the contract the optimizer evaluates: a fixed measurement bound to
// the variables it constrains. Implementations are stateless, deterministic
// evaluators over externally supplied variable values; it is safe to evaluate
// many factors concurrently as long as the shared calibration is never mutated.
type Factor interface {
	// Keys returns the variable identifiers this factor depends on, in
	// construction order.
	Keys() []Key

	// Evaluate returns the reprojection residual (predicted minus measured
	// pixel) at the given variable values. For every non-nil entry of
	// jacobians, the residual's derivative with respect to the corresponding
	// variable (in Keys order) is also computed and stored there. Derivatives
	// are strictly opt-in; a nil or short slice skips them.
	Evaluate(values *Values, jacobians []*mat.Dense) ([]float64, error)

	// Describe renders a human-readable description of the factor under the
	// given label, formatting keys with kf.
	Describe(label string, kf KeyFormatter) string

	// AlmostEqual reports whether other is a factor of the same kind with the
	// same keys and with measurement, calibration, and noise matching within tol.
	AlmostEqual(other Factor, tol float64) bool

	// Measured returns the fixed pixel measurement.
	Measured() r2.Point
	// Calibration returns the shared camera calibration.
	Calibration() *camera.Intrinsics
	// Noise returns the attached noise model, which may be nil.
	Noise() NoiseModel
}

// ResidualDim is the dimension of every reprojection residual.
const ResidualDim = 2

// WhitenedResidual evaluates the factor and scales the residual by its noise
// model. A factor without a noise model returns the raw residual.
func WhitenedResidual(f Factor, values *Values) ([]float64, error) {
	residual, err := f.Evaluate(values, nil)
	if err != nil {
		return nil, err
	}
	if f.Noise() == nil {
		return residual, nil
	}
	return f.Noise().Whiten(residual)
}

// penaltyResidual is the bounded fallback returned when a landmark projects
// behind the observing camera. Both components equal twice the calibration's
// x focal length, keeping the residual finite so the optimizer can pull the
// landmark back in front of the camera over later iterations.
func penaltyResidual(intrinsics *camera.Intrinsics) []float64 {
	return []float64{2 * intrinsics.Fx, 2 * intrinsics.Fx}
}
