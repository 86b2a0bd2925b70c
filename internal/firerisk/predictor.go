package firerisk

import (
	"fmt"
)

// Scaler applies a previously fitted feature transform.
type Scaler interface {
	Transform(rows [][]float64) ([][]float64, error)
}

// Classifier maps scaled feature vectors to integer class codes, one per row.
type Classifier interface {
	Predict(rows [][]float64) ([]int, error)
}

// Prediction is the model output for a whole table.
type Prediction struct {
	Rows    int
	Codes   []int
	Labels  []string
	Current Current

	// Coerced lists every zero-substituted cell in the table.
	Coerced []CoercedCell
}

// Predictor validates, normalizes and classifies raw feed tables. The scaler
// and classifier are read-only after construction.
type Predictor struct {
	scaler     Scaler
	classifier Classifier
}

// NewPredictor creates a Predictor.
func NewPredictor(scaler Scaler, classifier Classifier) *Predictor {
	return &Predictor{
		scaler:     scaler,
		classifier: classifier,
	}
}

// Assess runs the full pipeline over a table whose columns still carry their
// source names.
//
// It returns ErrEmptyData for a table without rows, *MissingColumnsError if
// any required column is absent and *TimestampError if the last row's time
// cannot be parsed. Unparsable numeric cells never fail: they become 0.
func (p *Predictor) Assess(raw Table) (Prediction, error) {
	if raw.Empty() {
		return Prediction{}, ErrEmptyData
	}

	t := raw.Rename(ColumnRenames)
	if missing := t.MissingColumns(RequiredColumns()); len(missing) > 0 {
		return Prediction{}, &MissingColumnsError{Missing: missing}
	}

	matrix, coerced := NormalizeFeatures(t)

	scaled, err := p.scaler.Transform(matrix)
	if err != nil {
		return Prediction{}, fmt.Errorf("scale features: %w", err)
	}
	codes, err := p.classifier.Predict(scaled)
	if err != nil {
		return Prediction{}, fmt.Errorf("classify features: %w", err)
	}
	if len(codes) != len(matrix) {
		return Prediction{}, fmt.Errorf("classifier returned %d codes for %d rows", len(codes), len(matrix))
	}

	labels := make([]string, len(codes))
	for i, c := range codes {
		labels[i] = LabelForCode(c)
	}

	last := len(t.Rows) - 1
	rawTime := t.Rows[last][ColumnTime]
	ts, err := ParseTimestamp(rawTime)
	if err != nil {
		return Prediction{}, err
	}

	style := StyleForCode(codes[last])
	current := Current{
		Code:     codes[last],
		Label:    style.Label,
		Level:    style.Level,
		Features: FeaturesFromVector(matrix[last]),
		RawTime:  rawTime,
		Time:     ts,
		DateText: FormatDateID(ts),
	}
	for _, c := range coerced {
		if c.Row == last {
			current.Coerced = append(current.Coerced, c)
		}
	}

	return Prediction{
		Rows:    len(matrix),
		Codes:   codes,
		Labels:  labels,
		Current: current,
		Coerced: coerced,
	}, nil
}
