package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof rigid transform: the placement of a frame (e.g. a camera)
// in world coordinates. Poses are immutable once constructed.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
	// TransformPoint maps a point expressed in this pose's local frame into world coordinates.
	TransformPoint(pt r3.Vector) r3.Vector
}

// dualQuaternion performs rigid transformations in 3D. The real part is a unit
// rotation quaternion and the dual part encodes the translation against it.
type dualQuaternion struct {
	num dualquat.Number
}

// newDualQuaternion returns an identity transform. Since the real part of a dual
// quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &dualQuaternion{}.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewZeroPose returns a pose at the world origin with no rotation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose creates a pose from a point and an orientation.
func NewPose(pt r3.Vector, o Orientation) Pose {
	q := &dualQuaternion{dualquat.Number{Real: o.Quaternion()}}
	q.setTranslation(pt)
	return q
}

// NewPoseFromPoint creates a pose with the given point and no rotation.
func NewPoseFromPoint(pt r3.Vector) Pose {
	q := newDualQuaternion()
	q.setTranslation(pt)
	return q
}

// NewPoseFromOrientation creates a pose at the origin with the given orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	return &dualQuaternion{dualquat.Number{Real: o.Quaternion(), Dual: quat.Number{}}}
}

// setTranslation sets the dual part against the rotation so that Point returns (x, y, z).
func (q *dualQuaternion) setTranslation(pt r3.Vector) {
	q.num.Dual = quat.Mul(quat.Number{Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, q.num.Real)
}

// Point returns the translation of the pose.
func (q *dualQuaternion) Point() r3.Vector {
	// Multiplying by the full conjugate leaves the identity rotation and the raw translation.
	t := dualquat.Mul(q.num, dualquat.Conj(q.num))
	return r3.Vector{X: t.Dual.Imag, Y: t.Dual.Jmag, Z: t.Dual.Kmag}
}

// Orientation returns the rotation of the pose.
func (q *dualQuaternion) Orientation() Orientation {
	return NewOrientationFromQuaternion(q.num.Real)
}

// TransformPoint maps a point in the pose's local frame to world coordinates.
func (q *dualQuaternion) TransformPoint(pt r3.Vector) r3.Vector {
	p := quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}
	rotated := quat.Mul(quat.Mul(q.num.Real, p), quat.Conj(q.num.Real))
	t := q.Point()
	return r3.Vector{X: rotated.Imag + t.X, Y: rotated.Jmag + t.Y, Z: rotated.Kmag + t.Z}
}

// dqFromPose gets the dual quaternion behind any Pose, converting if necessary.
func dqFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q
	}
	q := &dualQuaternion{dualquat.Number{Real: p.Orientation().Quaternion()}}
	q.setTranslation(p.Point())
	return q
}

// Compose returns the pose representing b placed within the frame of a.
func Compose(a, b Pose) Pose {
	q := &dualQuaternion{dualquat.Mul(dqFromPose(a).num, dqFromPose(b).num)}
	// Tiny unit drift accumulates over repeated composition.
	if vecLen := quat.Abs(q.num.Real); vecLen != 1 {
		q.num.Real = quat.Scale(1/vecLen, q.num.Real)
	}
	return q
}

// PoseInverse returns the pose that undoes the given pose.
func PoseInverse(p Pose) Pose {
	return &dualQuaternion{dualquat.ConjQuat(dqFromPose(p).num)}
}

// PoseBetween returns the pose of b relative to a, i.e. Compose(a, PoseBetween(a, b)) == b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqualEps tests if two poses are within epsilon of each other in
// translation and approximately equal in orientation.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return a.Point().Sub(b.Point()).Norm() <= epsilon && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}
