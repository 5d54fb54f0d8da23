package spatialmath

import (
	"github.com/golang/geo/r3"
)

// PoseTangentDim is the dimension of the local tangent space of a pose:
// three of translation followed by three of rotation.
const PoseTangentDim = 6

// PerturbPose displaces a pose by a small tangent-space vector
// (tx, ty, tz, rx, ry, rz) expressed in the pose's local frame. The rotation
// components are an R3 axis angle. This is the local chart used for
// finite-difference derivatives: poses are not a flat vector space, so
// perturbation composes the exponential of delta onto the pose rather than
// adding to raw coordinates.
func PerturbPose(p Pose, delta []float64) Pose {
	if len(delta) != PoseTangentDim {
		panic("pose perturbation must have 6 elements")
	}
	step := NewPose(
		r3.Vector{X: delta[0], Y: delta[1], Z: delta[2]},
		R3ToR4(r3.Vector{X: delta[3], Y: delta[4], Z: delta[5]}),
	)
	return Compose(p, step)
}

// PoseTangent is the inverse of PerturbPose about the same base pose: it maps a
// nearby pose to the local displacement vector that produces it.
func PoseTangent(base, p Pose) []float64 {
	diff := PoseBetween(base, p)
	pt := diff.Point()
	aa := QuatToR3AA(diff.Orientation().Quaternion())
	return []float64{pt.X, pt.Y, pt.Z, aa.X, aa.Y, aa.Z}
}
