package factor

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/edgeloop-robotics/invdepth/spatialmath"
)

// Key identifies one variable in the optimization problem. Key assignment is
// owned by the surrounding optimizer; this package only carries keys around.
type Key uint64

// KeyFormatter renders a key for diagnostics, e.g. symbol names like "x7".
type KeyFormatter func(Key) string

// DefaultKeyFormatter prints the raw key value.
func DefaultKeyFormatter(k Key) string {
	return strconv.FormatUint(uint64(k), 10)
}

// ErrMissingVariable is returned when a factor references a key the Values does not hold.
var ErrMissingVariable = errors.New("no variable estimate for key")

// Values holds the optimizer's current estimate for each variable a factor may
// reference. Factors read from it and never write.
type Values struct {
	poses     map[Key]spatialmath.Pose
	landmarks map[Key]Landmark
}

// NewValues returns an empty set of variable estimates.
func NewValues() *Values {
	return &Values{
		poses:     map[Key]spatialmath.Pose{},
		landmarks: map[Key]Landmark{},
	}
}

// SetPose stores a pose estimate under the given key.
func (v *Values) SetPose(k Key, p spatialmath.Pose) {
	v.poses[k] = p
}

// SetLandmark stores a landmark estimate under the given key.
func (v *Values) SetLandmark(k Key, l Landmark) {
	v.landmarks[k] = l
}

// Pose returns the pose estimate for the given key.
func (v *Values) Pose(k Key) (spatialmath.Pose, error) {
	p, ok := v.poses[k]
	if !ok {
		return nil, errors.Wrapf(ErrMissingVariable, "pose %s", DefaultKeyFormatter(k))
	}
	return p, nil
}

// Landmark returns the landmark estimate for the given key.
func (v *Values) Landmark(k Key) (Landmark, error) {
	l, ok := v.landmarks[k]
	if !ok {
		return Landmark{}, errors.Wrapf(ErrMissingVariable, "landmark %s", DefaultKeyFormatter(k))
	}
	return l, nil
}
