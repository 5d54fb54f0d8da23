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

// CrossViewFactor constrains two poses and an inverse-depth landmark: the
// landmark is anchored in the first pose's frame and re-observed by the camera
// at the second pose. This is the factor added for every observation of a
// landmark after its first.
type CrossViewFactor struct {
	anchorKey   Key
	observerKey Key
	landmarkKey Key
	measured    r2.Point
	calibration *camera.Intrinsics
	noise       NoiseModel
	logger      golog.Logger
}

// NewCrossViewFactor creates a factor binding a pixel measurement to an anchor
// pose key, an observing pose key, and a landmark key.
func NewCrossViewFactor(
	anchorKey, observerKey, landmarkKey Key,
	measured r2.Point,
	calibration *camera.Intrinsics,
	noise NoiseModel,
	logger golog.Logger,
) (*CrossViewFactor, error) {
	if err := calibration.CheckValid(); err != nil {
		return nil, err
	}
	return &CrossViewFactor{
		anchorKey:   anchorKey,
		observerKey: observerKey,
		landmarkKey: landmarkKey,
		measured:    measured,
		calibration: calibration,
		noise:       noise,
		logger:      logger,
	}, nil
}

// Keys returns the anchor pose key, the observing pose key, then the landmark key.
func (f *CrossViewFactor) Keys() []Key {
	return []Key{f.anchorKey, f.observerKey, f.landmarkKey}
}

// residual computes the reprojection residual at the given variable values.
func (f *CrossViewFactor) residual(anchor, observer spatialmath.Pose, landmark Landmark) ([]float64, error) {
	local, err := landmark.Cartesian()
	if err != nil {
		return nil, err
	}
	world := anchor.TransformPoint(local)
	cam := camera.Model{Intrinsics: f.calibration, Pose: observer}
	projected, err := cam.Project(world)
	if errors.Is(err, camera.ErrCheirality) {
		f.logger.Debugw("inverse depth landmark moved behind camera",
			"anchor", DefaultKeyFormatter(f.anchorKey),
			"landmark", DefaultKeyFormatter(f.landmarkKey),
			"camera", DefaultKeyFormatter(f.observerKey),
		)
		return penaltyResidual(f.calibration), nil
	}
	if err != nil {
		return nil, err
	}
	return []float64{projected.X - f.measured.X, projected.Y - f.measured.Y}, nil
}

// Evaluate implements Factor. Jacobian slot 0 is with respect to the anchor
// pose, slot 1 the observing pose, slot 2 the landmark.
func (f *CrossViewFactor) Evaluate(values *Values, jacobians []*mat.Dense) ([]float64, error) {
	anchor, err := values.Pose(f.anchorKey)
	if err != nil {
		return nil, err
	}
	observer, err := values.Pose(f.observerKey)
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
			return f.residual(spatialmath.PerturbPose(anchor, delta), observer, landmark)
		}, spatialmath.PoseTangentDim)
		if err != nil {
			jacErr = multierr.Append(jacErr, errors.Wrap(err, "anchor pose jacobian"))
		} else {
			jacobians[0].CloneFrom(jac)
		}
	}
	if len(jacobians) > 1 && jacobians[1] != nil {
		jac, err := numdiff.Jacobian(func(delta []float64) ([]float64, error) {
			return f.residual(anchor, spatialmath.PerturbPose(observer, delta), landmark)
		}, spatialmath.PoseTangentDim)
		if err != nil {
			jacErr = multierr.Append(jacErr, errors.Wrap(err, "observer pose jacobian"))
		} else {
			jacobians[1].CloneFrom(jac)
		}
	}
	if len(jacobians) > 2 && jacobians[2] != nil {
		jac, err := numdiff.Jacobian(func(delta []float64) ([]float64, error) {
			return f.residual(anchor, observer, landmark.Perturb(delta))
		}, LandmarkTangentDim)
		if err != nil {
			jacErr = multierr.Append(jacErr, errors.Wrap(err, "landmark jacobian"))
		} else {
			jacobians[2].CloneFrom(jac)
		}
	}

	residual, err := f.residual(anchor, observer, landmark)
	return residual, multierr.Combine(jacErr, err)
}

// Describe implements Factor.
func (f *CrossViewFactor) Describe(label string, kf KeyFormatter) string {
	return fmt.Sprintf("%s keys = [%s %s %s]\n%s.z = (%f, %f)",
		label, kf(f.anchorKey), kf(f.observerKey), kf(f.landmarkKey), label, f.measured.X, f.measured.Y)
}

func (f *CrossViewFactor) String() string {
	return f.Describe("CrossViewFactor", DefaultKeyFormatter)
}

// AlmostEqual implements Factor. A factor of any other kind is unequal, never an error.
func (f *CrossViewFactor) AlmostEqual(other Factor, tol float64) bool {
	o, ok := other.(*CrossViewFactor)
	return ok &&
		f.anchorKey == o.anchorKey &&
		f.observerKey == o.observerKey &&
		f.landmarkKey == o.landmarkKey &&
		utils.Float64AlmostEqual(f.measured.X, o.measured.X, tol) &&
		utils.Float64AlmostEqual(f.measured.Y, o.measured.Y, tol) &&
		f.calibration.AlmostEqual(o.calibration, tol) &&
		noiseAlmostEqual(f.noise, o.noise, tol)
}

// Measured implements Factor.
func (f *CrossViewFactor) Measured() r2.Point {
	return f.measured
}

// Calibration implements Factor.
func (f *CrossViewFactor) Calibration() *camera.Intrinsics {
	return f.calibration
}

// Noise implements Factor.
func (f *CrossViewFactor) Noise() NoiseModel {
	return f.noise
}
