package model

import (
	"errors"
	"fmt"
)

// Scaler kinds.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

// Scaler is a fitted per-feature affine transform. It is immutable after
// loading and safe for concurrent use.
type Scaler struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale"`
	Min   []float64 `json:"min,omitempty"`
}

func (s *Scaler) validate() error {
	if len(s.Scale) == 0 {
		return errors.New("scaler has no features")
	}
	switch s.Kind {
	case KindStandard:
		if len(s.Mean) != len(s.Scale) {
			return fmt.Errorf("standard scaler: %d means for %d scales", len(s.Mean), len(s.Scale))
		}
	case KindMinMax:
		if len(s.Min) != len(s.Scale) {
			return fmt.Errorf("minmax scaler: %d mins for %d scales", len(s.Min), len(s.Scale))
		}
	default:
		return fmt.Errorf("unsupported scaler kind %q", s.Kind)
	}
	return nil
}

// Features returns the number of features the scaler was fitted with.
func (s *Scaler) Features() int {
	return len(s.Scale)
}

// Transform scales every row. Rows must have exactly Features() values.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Scale) {
			return nil, fmt.Errorf("row %d has %d features, scaler expects %d", i, len(row), len(s.Scale))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			switch s.Kind {
			case KindStandard:
				scale := s.Scale[j]
				if scale == 0 {
					scale = 1
				}
				scaled[j] = (v - s.Mean[j]) / scale
			case KindMinMax:
				scaled[j] = v*s.Scale[j] + s.Min[j]
			}
		}
		out[i] = scaled
	}
	return out, nil
}
