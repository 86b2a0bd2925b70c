// Package model loads the fitted scaler and classifier artifacts used to
// classify fire risk.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

// Classifier kinds.
const (
	KindDecisionTree = "decision_tree"
	KindVoting       = "voting"
)

// LoadScaler reads and validates a scaler artifact. The scaler must be fitted
// on exactly the model's feature columns.
func LoadScaler(path string) (*Scaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler: %w", err)
	}
	return ParseScaler(payload)
}

// ParseScaler decodes a scaler artifact.
func ParseScaler(payload []byte) (*Scaler, error) {
	var s Scaler
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Features() != len(firerisk.FeatureColumns) {
		return nil, fmt.Errorf("scaler fitted on %d features, want %d", s.Features(), len(firerisk.FeatureColumns))
	}
	return &s, nil
}

// LoadClassifier reads and validates a classifier artifact.
func LoadClassifier(path string) (firerisk.Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier: %w", err)
	}
	return ParseClassifier(payload)
}

// ParseClassifier decodes a classifier artifact of any supported kind.
func ParseClassifier(payload []byte) (firerisk.Classifier, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}

	features := len(firerisk.FeatureColumns)
	switch head.Kind {
	case KindDecisionTree:
		var dt DecisionTree
		if err := json.Unmarshal(payload, &dt); err != nil {
			return nil, fmt.Errorf("decode decision tree: %w", err)
		}
		if err := dt.validate(features); err != nil {
			return nil, err
		}
		return &dt, nil
	case KindVoting:
		var v Voting
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("decode voting classifier: %w", err)
		}
		if err := v.validate(features); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", head.Kind)
	}
}
