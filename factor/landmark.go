package factor

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/edgeloop-robotics/invdepth/camera"
	"github.com/edgeloop-robotics/invdepth/spatialmath"
	"github.com/edgeloop-robotics/invdepth/utils"
)

// ErrBadLandmark is returned when a landmark parameterization cannot be
// converted to a Cartesian point.
var ErrBadLandmark = errors.New("invalid inverse depth landmark")

// LandmarkTangentDim is the dimension of a landmark's local tangent space.
const LandmarkTangentDim = 3

// Landmark is an inverse-depth parameterization of a 3D point, expressed
// relative to an anchor pose: a bearing given by azimuth Theta and elevation
// Phi, and the reciprocal Rho of the distance along that bearing. A landmark
// with Theta = Phi = 0 lies on the anchor's +z axis at distance 1/Rho.
//
// Rho must be finite and nonzero. Negative Rho is a legal state meaning the
// point lies behind the anchor along the bearing; such a point typically fails
// cheirality during projection and takes the penalty-residual path, which is
// how the optimizer recovers it back to positive depth.
type Landmark struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	Rho   float64 `json:"rho"`
}

// Cartesian converts the landmark to a point in its anchor's local frame.
func (l Landmark) Cartesian() (r3.Vector, error) {
	if !utils.AllFinite(l.Theta, l.Phi, l.Rho) || l.Rho == 0 {
		return r3.Vector{}, errors.Wrapf(ErrBadLandmark, "theta=%f phi=%f rho=%f", l.Theta, l.Phi, l.Rho)
	}
	return r3.Vector{
		X: math.Cos(l.Phi) * math.Sin(l.Theta) / l.Rho,
		Y: math.Sin(l.Phi) / l.Rho,
		Z: math.Cos(l.Phi) * math.Cos(l.Theta) / l.Rho,
	}, nil
}

// Perturb displaces the landmark by a tangent vector (dTheta, dPhi, dRho).
// Landmarks are a plain vector space, so the chart is ordinary addition.
func (l Landmark) Perturb(delta []float64) Landmark {
	if len(delta) != LandmarkTangentDim {
		panic("landmark perturbation must have 3 elements")
	}
	return Landmark{Theta: l.Theta + delta[0], Phi: l.Phi + delta[1], Rho: l.Rho + delta[2]}
}

// AlmostEqual compares all landmark parameters within tol.
func (l Landmark) AlmostEqual(other Landmark, tol float64) bool {
	return utils.Float64AlmostEqual(l.Theta, other.Theta, tol) &&
		utils.Float64AlmostEqual(l.Phi, other.Phi, tol) &&
		utils.Float64AlmostEqual(l.Rho, other.Rho, tol)
}

// LandmarkFromObservation seeds a landmark from a pixel observation and an
// initial depth guess, both in the anchor camera's own frame. It is the inverse
// of the projection chain used by the factors and is the usual way a new
// landmark enters the problem.
func LandmarkFromObservation(px r2.Point, depth float64, intrinsics *camera.Intrinsics) (Landmark, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return Landmark{}, err
	}
	if depth <= 0 || !utils.AllFinite(depth) {
		return Landmark{}, errors.Wrapf(ErrBadLandmark, "depth guess %f must be positive and finite", depth)
	}
	cam := camera.Model{Intrinsics: intrinsics, Pose: spatialmath.NewZeroPose()}
	local := cam.BackProject(px, depth)
	r := local.Norm()
	return Landmark{
		Theta: math.Atan2(local.X, local.Z),
		Phi:   math.Asin(local.Y / r),
		Rho:   1 / r,
	}, nil
}
