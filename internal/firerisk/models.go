package firerisk

import (
	"time"
)

// Source column names as they appear in the spreadsheet export.
const (
	SourceTimestamp    = "Timestamp"
	SourceTemperature  = "Suhu"
	SourceHumidity     = "Kelembapan Udara"
	SourceRainfall     = "Curah Hujan"
	SourceWindSpeed    = "Kecepatan Angin"
	SourceSoilMoisture = "Kelembapan Tanah"
)

// Internal column names after renaming.
const (
	ColumnTime         = "Waktu"
	ColumnTemperature  = "Tavg: Temperatur rata-rata (°C)"
	ColumnHumidity     = "RH_avg: Kelembapan rata-rata (%)"
	ColumnRainfall     = "RR: Curah hujan (mm)"
	ColumnWindSpeed    = "ff_avg: Kecepatan angin rata-rata (m/s)"
	ColumnSoilMoisture = "Kelembaban Permukaan Tanah"
)

// ColumnRenames maps source column names to their internal names.
var ColumnRenames = map[string]string{
	SourceTimestamp:    ColumnTime,
	SourceTemperature:  ColumnTemperature,
	SourceHumidity:     ColumnHumidity,
	SourceRainfall:     ColumnRainfall,
	SourceWindSpeed:    ColumnWindSpeed,
	SourceSoilMoisture: ColumnSoilMoisture,
}

// FeatureColumns lists the model inputs in the order the scaler and
// classifier were fitted with.
var FeatureColumns = []string{
	ColumnTemperature,
	ColumnHumidity,
	ColumnRainfall,
	ColumnWindSpeed,
	ColumnSoilMoisture,
}

// RequiredColumns returns the feature columns followed by the time column.
func RequiredColumns() []string {
	cols := make([]string, 0, len(FeatureColumns)+1)
	cols = append(cols, FeatureColumns...)
	return append(cols, ColumnTime)
}

// Features is the normalized (pre-scaling) feature vector of a single reading.
// All fields are finite.
type Features struct {
	Temperature  float64 `json:"temperatureC"`
	Humidity     float64 `json:"humidityPercent"`
	Rainfall     float64 `json:"rainfallMm"`
	WindSpeed    float64 `json:"windSpeedMs"`
	SoilMoisture float64 `json:"soilMoisturePercent"`
}

// FeaturesFromVector builds Features from a vector ordered like FeatureColumns.
func FeaturesFromVector(v []float64) Features {
	var f Features
	fields := []*float64{&f.Temperature, &f.Humidity, &f.Rainfall, &f.WindSpeed, &f.SoilMoisture}
	for i := range fields {
		if i < len(v) {
			*fields[i] = v[i]
		}
	}
	return f
}

// Vector returns the features ordered like FeatureColumns.
func (f Features) Vector() []float64 {
	return []float64{f.Temperature, f.Humidity, f.Rainfall, f.WindSpeed, f.SoilMoisture}
}

// CoercedCell identifies a cell that could not be parsed and was replaced by zero.
type CoercedCell struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Raw    string `json:"raw"`
}

// Station is the monitoring site shown on the dashboard map.
type Station struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Assessment is the outcome of one successful refresh cycle.
type Assessment struct {
	ID        string    `json:"id"`
	CheckedAt time.Time `json:"checkedAt"` // always UTC
	Station   Station   `json:"station"`

	Rows   int      `json:"rows"`
	Labels []string `json:"labels"`

	// Current is derived from the last row of the feed.
	Current Current `json:"current"`
}

// Current is the headline reading: the last row of the feed.
type Current struct {
	Code     int           `json:"code"`
	Label    string        `json:"label"`
	Level    RiskLevel     `json:"level"`
	Features Features      `json:"features"`
	RawTime  string        `json:"rawTime"`
	Time     time.Time     `json:"time"`
	DateText string        `json:"dateText"`
	Coerced  []CoercedCell `json:"coerced,omitempty"`
}

// CycleOutcome classifies the result of a refresh cycle.
type CycleOutcome string

const (
	OutcomePending        CycleOutcome = "pending"
	OutcomeOK             CycleOutcome = "ok"
	OutcomeNoData         CycleOutcome = "no_data"
	OutcomeMissingColumns CycleOutcome = "missing_columns"
	OutcomeFetchError     CycleOutcome = "fetch_error"
	OutcomeTimestampError CycleOutcome = "timestamp_error"
	OutcomeModelError     CycleOutcome = "model_error"
	OutcomeStoreError     CycleOutcome = "store_error"
)

// CycleStatus describes the most recent refresh cycle.
type CycleStatus struct {
	CycleID   string       `json:"cycleId,omitempty"`
	Outcome   CycleOutcome `json:"outcome"`
	CheckedAt time.Time    `json:"checkedAt"`
	Error     string       `json:"error,omitempty"`

	// Set for OutcomeMissingColumns.
	Missing []string `json:"missing,omitempty"`
	Preview *Table   `json:"preview,omitempty"`
}

// Supersedes reports whether this cycle failed after the given assessment was
// stored, making that assessment stale. A pending status (no cycle has run
// since start-up) supersedes nothing.
func (s CycleStatus) Supersedes(a Assessment) bool {
	switch s.Outcome {
	case OutcomeOK, OutcomePending:
		return false
	}
	return s.CycleID != a.ID
}
