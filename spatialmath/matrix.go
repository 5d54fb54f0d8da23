package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// NewPoseFromMatrix creates a pose from a 3x3 rotation matrix and a translation,
// e.g. an extrinsic calibration recovered by a two-view solver.
func NewPoseFromMatrix(rotation *mat.Dense, translation r3.Vector) (Pose, error) {
	r, c := rotation.Dims()
	if r != 3 || c != 3 {
		return nil, errors.Errorf("rotation must be a 3x3 matrix, got %dx%d", r, c)
	}
	if det := mat.Det(rotation); det < 0 {
		return nil, errors.Errorf("rotation matrix determinant is negative (%f), not a rotation", det)
	}
	m := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, rotation.At(i, j))
		}
	}
	qRot := mgl64.Mat4ToQuat(m)
	return NewPose(translation, NewOrientationFromQuaternion(
		quat.Number{Real: qRot.W, Imag: qRot.X(), Jmag: qRot.Y(), Kmag: qRot.Z()},
	)), nil
}

// RotationMatrix returns the 3x3 rotation matrix of the pose's orientation.
func RotationMatrix(p Pose) *mat.Dense {
	q := p.Orientation().Quaternion()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*z*w, 2*x*z + 2*y*w,
		2*x*y + 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z - 2*x*w,
		2*x*z - 2*y*w, 2*y*z + 2*x*w, 1 - 2*x*x - 2*y*y,
	})
}
