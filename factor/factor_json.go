package factor

import (
	"encoding/json"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/edgeloop-robotics/invdepth/camera"
)

// Factor fixed state (keys, measurement, calibration, noise sigmas) is
// persisted as JSON so a saved problem can be reloaded. Variable estimates are
// owned by the optimizer and are not part of a factor's document.

const (
	anchorViewKind = "anchor_view"
	crossViewKind  = "cross_view"
)

type factorConfig struct {
	Kind        string             `json:"kind"`
	Keys        []Key              `json:"keys"`
	Measured    []float64          `json:"measured_px"`
	Calibration *camera.Intrinsics `json:"calibration"`
	Sigmas      []float64          `json:"sigmas,omitempty"`
}

func newFactorConfig(kind string, keys []Key, measured r2.Point, calibration *camera.Intrinsics, noise NoiseModel) factorConfig {
	cfg := factorConfig{
		Kind:        kind,
		Keys:        keys,
		Measured:    []float64{measured.X, measured.Y},
		Calibration: calibration,
	}
	if noise != nil {
		cfg.Sigmas = noise.Sigmas()
	}
	return cfg
}

func (cfg *factorConfig) fixedState() (r2.Point, NoiseModel, error) {
	if len(cfg.Measured) != ResidualDim {
		return r2.Point{}, nil, errors.Errorf("measurement must have %d elements, got %d", ResidualDim, len(cfg.Measured))
	}
	measured := r2.Point{X: cfg.Measured[0], Y: cfg.Measured[1]}
	var noise NoiseModel
	if len(cfg.Sigmas) > 0 {
		var err error
		noise, err = NewDiagonalNoise(cfg.Sigmas...)
		if err != nil {
			return r2.Point{}, nil, err
		}
	}
	return measured, noise, nil
}

// MarshalJSON implements json.Marshaler.
func (f *AnchorViewFactor) MarshalJSON() ([]byte, error) {
	return json.Marshal(newFactorConfig(anchorViewKind, f.Keys(), f.measured, f.calibration, f.noise))
}

// MarshalJSON implements json.Marshaler.
func (f *CrossViewFactor) MarshalJSON() ([]byte, error) {
	return json.Marshal(newFactorConfig(crossViewKind, f.Keys(), f.measured, f.calibration, f.noise))
}

// ParseFactorJSON reconstructs a factor from its JSON document. The logger is
// runtime state, not persisted state, so the caller supplies it.
func ParseFactorJSON(data []byte, logger golog.Logger) (Factor, error) {
	cfg := factorConfig{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing factor JSON")
	}
	measured, noise, err := cfg.fixedState()
	if err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case anchorViewKind:
		if len(cfg.Keys) != 2 {
			return nil, errors.Errorf("%s factor must have 2 keys, got %d", anchorViewKind, len(cfg.Keys))
		}
		return NewAnchorViewFactor(cfg.Keys[0], cfg.Keys[1], measured, cfg.Calibration, noise, logger)
	case crossViewKind:
		if len(cfg.Keys) != 3 {
			return nil, errors.Errorf("%s factor must have 3 keys, got %d", crossViewKind, len(cfg.Keys))
		}
		return NewCrossViewFactor(cfg.Keys[0], cfg.Keys[1], cfg.Keys[2], measured, cfg.Calibration, noise, logger)
	default:
		return nil, errors.Errorf("unknown factor kind %q", cfg.Kind)
	}
}
