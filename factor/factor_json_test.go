package factor

import (
	"encoding/json"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestFactorJSONRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	measured := r2.Point{X: 101.25, Y: 202.5}
	noise, err := NewDiagonalNoise(1.5, 2.5)
	test.That(t, err, test.ShouldBeNil)

	anchorView, err := NewAnchorViewFactor(anchorKey, landmarkKey, measured, testCalibration, noise, logger)
	test.That(t, err, test.ShouldBeNil)
	data, err := json.Marshal(anchorView)
	test.That(t, err, test.ShouldBeNil)
	parsed, err := ParseFactorJSON(data, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed.AlmostEqual(anchorView, 1e-9), test.ShouldBeTrue)

	crossView, err := NewCrossViewFactor(anchorKey, observerKey, landmarkKey, measured, testCalibration, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	data, err = json.Marshal(crossView)
	test.That(t, err, test.ShouldBeNil)
	parsed, err = ParseFactorJSON(data, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed.AlmostEqual(crossView, 1e-9), test.ShouldBeTrue)
	test.That(t, parsed.Keys(), test.ShouldResemble, crossView.Keys())
}

func TestParseFactorJSONErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := ParseFactorJSON([]byte(`not json`), logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ParseFactorJSON([]byte(`{"kind":"unknown","keys":[1,2],"measured_px":[0,0],"calibration":{"fx":1,"fy":1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)

	// wrong key count for the kind
	_, err = ParseFactorJSON([]byte(`{"kind":"anchor_view","keys":[1,2,3],"measured_px":[0,0],"calibration":{"fx":1,"fy":1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ParseFactorJSON([]byte(`{"kind":"cross_view","keys":[1,2],"measured_px":[0,0],"calibration":{"fx":1,"fy":1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)

	// malformed measurement
	_, err = ParseFactorJSON([]byte(`{"kind":"anchor_view","keys":[1,2],"measured_px":[0],"calibration":{"fx":1,"fy":1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)

	// calibration must be valid
	_, err = ParseFactorJSON([]byte(`{"kind":"anchor_view","keys":[1,2],"measured_px":[0,0],"calibration":{"fx":-1,"fy":1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
}
