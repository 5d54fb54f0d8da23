// Package camera implements the calibrated pinhole projection model used by the
// reprojection factors.
package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/edgeloop-robotics/invdepth/spatialmath"
	"github.com/edgeloop-robotics/invdepth/utils"
)

// ErrCheirality is returned when a point to be projected lies behind the camera,
// where no valid pixel projection exists.
var ErrCheirality = errors.New("point is behind the camera")

// ErrNoIntrinsics is returned when camera intrinsic parameters are missing or malformed.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// Intrinsics holds the parameters necessary to do a perspective projection of a
// 3D scene onto the 2D image plane. Intrinsics are shared between every factor
// observing the same physical camera and must never be mutated after construction.
type Intrinsics struct {
	Fx   float64 `json:"fx"`
	Fy   float64 `json:"fy"`
	Skew float64 `json:"skew"`
	Ppx  float64 `json:"ppx"`
	Ppy  float64 `json:"ppy"`
}

// CheckValid checks if the fields for Intrinsics have valid inputs.
func (params *Intrinsics) CheckValid() error {
	if params == nil {
		return errors.Wrap(ErrNoIntrinsics, "intrinsics do not exist")
	}
	if params.Fx <= 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid focal length fx = %#v", params.Fx)
	}
	if params.Fy <= 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid focal length fy = %#v", params.Fy)
	}
	if !utils.AllFinite(params.Skew, params.Ppx, params.Ppy) {
		return errors.Wrap(ErrNoIntrinsics, "skew or principal point is not finite")
	}
	return nil
}

// AlmostEqual compares all calibration parameters within tol.
func (params *Intrinsics) AlmostEqual(other *Intrinsics, tol float64) bool {
	if params == nil || other == nil {
		return params == other
	}
	return utils.Float64AlmostEqual(params.Fx, other.Fx, tol) &&
		utils.Float64AlmostEqual(params.Fy, other.Fy, tol) &&
		utils.Float64AlmostEqual(params.Skew, other.Skew, tol) &&
		utils.Float64AlmostEqual(params.Ppx, other.Ppx, tol) &&
		utils.Float64AlmostEqual(params.Ppy, other.Ppy, tol)
}

// CameraMatrix returns the 3x3 intrinsic matrix
// [[fx s ppx], [0 fy ppy], [0 0 1]].
func (params *Intrinsics) CameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(0, 1, params.Skew)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}

// Model pairs shared intrinsics with the pose of the camera in world coordinates.
// The camera looks along the +z axis of its pose.
type Model struct {
	Intrinsics *Intrinsics
	Pose       spatialmath.Pose
}

// Project maps a world point through the camera onto the image plane. It returns
// an error wrapping ErrCheirality when the point is not in front of the camera,
// rather than a numerically invalid pixel.
func (m Model) Project(world r3.Vector) (r2.Point, error) {
	local := spatialmath.PoseInverse(m.Pose).TransformPoint(world)
	if local.Z <= 0 {
		return r2.Point{}, errors.Wrapf(ErrCheirality, "depth %f", local.Z)
	}
	u := (m.Intrinsics.Fx*local.X+m.Intrinsics.Skew*local.Y)/local.Z + m.Intrinsics.Ppx
	v := m.Intrinsics.Fy*local.Y/local.Z + m.Intrinsics.Ppy
	return r2.Point{X: u, Y: v}, nil
}

// BackProject maps a pixel and a depth along the camera's +z axis back to a
// world point. It is the inverse of Project for positive depths.
func (m Model) BackProject(px r2.Point, depth float64) r3.Vector {
	y := (px.Y - m.Intrinsics.Ppy) / m.Intrinsics.Fy * depth
	x := (px.X - m.Intrinsics.Ppx - m.Intrinsics.Skew*(y/depth)) / m.Intrinsics.Fx * depth
	return m.Pose.TransformPoint(r3.Vector{X: x, Y: y, Z: depth})
}
