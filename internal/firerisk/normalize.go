package firerisk

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalNumber is plain decimal notation with an optional exponent. It keeps
// Go-only literal forms such as hex floats away from strconv.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseLocaleFloat parses a number that may use a comma as decimal
// separator, e.g. "23,5" -> 23.5. Every comma is replaced by a period before
// parsing. ok is false when the text is not a finite number, in which case
// the returned value is 0.
func ParseLocaleFloat(s string) (v float64, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if !decimalNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeFeatures coerces the feature columns of every row to float64.
// Cells that are missing or unparsable become 0 and are reported in coerced;
// they never fail the batch. Rows of the returned matrix are ordered like
// the table, columns like FeatureColumns.
func NormalizeFeatures(t Table) (matrix [][]float64, coerced []CoercedCell) {
	matrix = make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		vec := make([]float64, len(FeatureColumns))
		for j, col := range FeatureColumns {
			// An absent cell reads as "" and is coerced like an empty one.
			raw := row[col]
			v, ok := ParseLocaleFloat(raw)
			if !ok {
				coerced = append(coerced, CoercedCell{Row: i, Column: col, Raw: raw})
			}
			vec[j] = v
		}
		matrix[i] = vec
	}
	return matrix, coerced
}
