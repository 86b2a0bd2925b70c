package firerisk

// RiskLevel is the ordinal fire-risk category.
type RiskLevel string

const (
	RiskUnknown  RiskLevel = "unknown"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// LabelUnknown is shown for class codes outside the known range.
const LabelUnknown = "Unknown"

// RiskStyle holds the display attributes of a risk level.
type RiskStyle struct {
	Label       string    `json:"label"`
	Level       RiskLevel `json:"level"`
	TextColor   string    `json:"textColor"`
	BgColor     string    `json:"bgColor"`
	MarkerColor string    `json:"markerColor"`
	Description string    `json:"description"`
}

var riskStyles = []RiskStyle{
	{Label: "Low / Rendah", Level: RiskLow, TextColor: "#1E3A8A", BgColor: "#DBEAFE", MarkerColor: "blue", Description: "Intensitas rendah, mudah dikendalikan."},
	{Label: "Moderate / Sedang", Level: RiskModerate, TextColor: "#064E3B", BgColor: "#D1FAE5", MarkerColor: "green", Description: "Masih dapat dikendalikan."},
	{Label: "High / Tinggi", Level: RiskHigh, TextColor: "#7C2D12", BgColor: "#FFEDD5", MarkerColor: "orange", Description: "Sulit dikendalikan."},
	{Label: "Very High / Sangat Tinggi", Level: RiskVeryHigh, TextColor: "#7F1D1D", BgColor: "#FEE2E2", MarkerColor: "red", Description: "Sangat sulit dikendalikan."},
}

var unknownStyle = RiskStyle{
	Label:       LabelUnknown,
	Level:       RiskUnknown,
	TextColor:   "#111827",
	BgColor:     "#E5E7EB",
	MarkerColor: "gray",
}

// StyleForCode returns the display style for a classifier output code.
// Codes outside 0..3 map to the Unknown style.
func StyleForCode(code int) RiskStyle {
	if code < 0 || code >= len(riskStyles) {
		return unknownStyle
	}
	return riskStyles[code]
}

// LabelForCode maps a classifier output code to its display label.
func LabelForCode(code int) string {
	return StyleForCode(code).Label
}

// StyleForLabel looks a style up by its display label.
func StyleForLabel(label string) RiskStyle {
	for _, s := range riskStyles {
		if s.Label == label {
			return s
		}
	}
	return unknownStyle
}

// Legend returns the styles of the four known levels, lowest first.
func Legend() []RiskStyle {
	return append([]RiskStyle(nil), riskStyles...)
}
