package firerisk

import "time"

// Summary condenses a range of assessments.
type Summary struct {
	Count int       `json:"count"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`

	// MeanFeatures averages the current reading of every assessment.
	MeanFeatures Features `json:"meanFeatures"`

	// LevelCounts counts assessments per current risk label.
	LevelCounts map[string]int `json:"levelCounts"`
	// Dominant is the most frequent label; ties go to the higher risk.
	Dominant string `json:"dominant"`
	// Peak is the highest risk seen.
	Peak string `json:"peak"`
}

// Summarize aggregates assessments ordered by CheckedAt ascending.
func Summarize(assessments []Assessment) Summary {
	s := Summary{LevelCounts: make(map[string]int)}
	if len(assessments) == 0 {
		s.Dominant = LabelUnknown
		s.Peak = LabelUnknown
		return s
	}

	var sum [5]float64
	codeCounts := make(map[int]int)
	peak := -1
	for _, a := range assessments {
		for i, v := range a.Current.Features.Vector() {
			sum[i] += v
		}
		s.LevelCounts[a.Current.Label]++
		codeCounts[a.Current.Code]++
		if known(a.Current.Code) && a.Current.Code > peak {
			peak = a.Current.Code
		}
	}

	n := float64(len(assessments))
	mean := make([]float64, len(sum))
	for i := range sum {
		mean[i] = sum[i] / n
	}

	best, bestCount := -1, 0
	for code, count := range codeCounts {
		if !known(code) {
			continue
		}
		if count > bestCount || (count == bestCount && code > best) {
			best, bestCount = code, count
		}
	}

	s.Count = len(assessments)
	s.From = assessments[0].CheckedAt
	s.To = assessments[len(assessments)-1].CheckedAt
	s.MeanFeatures = FeaturesFromVector(mean)
	s.Dominant = LabelForCode(best)
	s.Peak = LabelForCode(peak)
	return s
}

func known(code int) bool {
	return code >= 0 && code < len(riskStyles)
}
