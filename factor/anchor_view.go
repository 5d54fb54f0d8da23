package factor

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/edgeloop-robotics/invdepth/camera"
	"github.com/edgeloop-robotics/invdepth/numdiff"
	"github.com/edgeloop-robotics/invdepth/spatialmath"
	"github.com/edgeloop-robotics/invdepth/utils"
)

// AnchorViewFactor constrains a pose and an inverse-depth landmark anchored to
// that same pose: the first observation of a landmark, where the anchor camera
// is also the camera that took the measurement.
type AnchorViewFactor struct {
	poseKey     Key
	landmarkKey Key
	measured    r2.Point
	calibration *camera.Intrinsics
	noise       NoiseModel
	logger      golog.Logger
}

// NewAnchorViewFactor creates a factor binding a pixel measurement to a pose
// key and a landmark key. The calibration is shared with every other factor
// observing the same camera and must outlive the factor unmodified.
func NewAnchorViewFactor(
	poseKey, landmarkKey Key,
	measured r2.Point,
	calibration *camera.Intrinsics,
	noise NoiseModel,
	logger golog.Logger,
) (*AnchorViewFactor, error) {
	if err := calibration.CheckValid(); err != nil {
		return nil, err
	}
	return &AnchorViewFactor{
		poseKey:     poseKey,
		landmarkKey: landmarkKey,
		measured:    measured,
		calibration: calibration,
		noise:       noise,
		logger:      logger,
	}, nil
}

// Keys returns the pose key followed by the landmark key.
func (f *AnchorViewFactor) Keys() []Key {
	return []Key{f.poseKey, f.landmarkKey}
}

// residual computes the reprojection residual at the given variable values.
func (f *AnchorViewFactor) residual(pose spatialmath.Pose, landmark Landmark) ([]float64, error) {
	local, err := landmark.Cartesian()
	if err != nil {
		return nil, err
	}
	world := pose.TransformPoint(local)
	cam := camera.Model{Intrinsics: f.calibration, Pose: pose}
	projected, err := cam.Project(world)
	if errors.Is(err, camera.ErrCheirality) {
		f.logger.Debugw("inverse depth landmark moved behind camera",
			"landmark", DefaultKeyFormatter(f.landmarkKey),
			"camera", DefaultKeyFormatter(f.poseKey),
		)
		return penaltyResidual(f.calibration), nil
	}
	if err != nil {
		return nil, err
	}
	return []float64{projected.X - f.measured.X, projected.Y - f.measured.Y}, nil
}

// Evaluate implements Factor. Jacobian slot 0 is with respect to the pose,
// slot 1 with respect to the landmark.
func (f *AnchorViewFactor) Evaluate(values *Values, jacobians []*mat.Dense) ([]float64, error) {
	pose, err := values.Pose(f.poseKey)
	if err != nil {
		return nil, err
	}
	landmark, err := values.Landmark(f.landmarkKey)
	if err != nil {
		return nil, err
	}

	var jacErr error
	if len(jacobians) > 0 && jacobians[0] != nil {
		jac, err := numdiff.Jacobian(func(delta []float64) ([]float64, error) {
			return f.residual(spatialmath.PerturbPose(pose, delta), landmark)
		}, spatialmath.PoseTangentDim)
		if err != nil {
			jacErr = multierr.Append(jacErr, errors.Wrap(err, "pose jacobian"))
		} else {
			jacobians[0].CloneFrom(jac)
		}
	}
	if len(jacobians) > 1 && jacobians[1] != nil {
		jac, err := numdiff.Jacobian(func(delta []float64) ([]float64, error) {
			return f.residual(pose, landmark.Perturb(delta))
		}, LandmarkTangentDim)
		if err != nil {
			jacErr = multierr.Append(jacErr, errors.Wrap(err, "landmark jacobian"))
		} else {
			jacobians[1].CloneFrom(jac)
		}
	}

	residual, err := f.residual(pose, landmark)
	return residual, multierr.Combine(jacErr, err)
}

// Describe implements Factor.
func (f *AnchorViewFactor) Describe(label string, kf KeyFormatter) string {
	return fmt.Sprintf("%s keys = [%s %s]\n%s.z = (%f, %f)",
		label, kf(f.poseKey), kf(f.landmarkKey), label, f.measured.X, f.measured.Y)
}

func (f *AnchorViewFactor) String() string {
	return f.Describe("AnchorViewFactor", DefaultKeyFormatter)
}

// AlmostEqual implements Factor. A factor of any other kind is unequal, never an error.
func (f *AnchorViewFactor) AlmostEqual(other Factor, tol float64) bool {
	o, ok := other.(*AnchorViewFactor)
	return ok &&
		f.poseKey == o.poseKey &&
		f.landmarkKey == o.landmarkKey &&
		utils.Float64AlmostEqual(f.measured.X, o.measured.X, tol) &&
		utils.Float64AlmostEqual(f.measured.Y, o.measured.Y, tol) &&
		f.calibration.AlmostEqual(o.calibration, tol) &&
		noiseAlmostEqual(f.noise, o.noise, tol)
}

// Measured implements Factor.
func (f *AnchorViewFactor) Measured() r2.Point {
	return f.measured
}

// Calibration implements Factor.
func (f *AnchorViewFactor) Calibration() *camera.Intrinsics {
	return f.calibration
}

// Noise implements Factor.
func (f *AnchorViewFactor) Noise() NoiseModel {
	return f.noise
}
