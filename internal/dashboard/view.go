package dashboard

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

// Dashboard states.
const (
	StateReady          = "ready"
	StatePending        = "pending"
	StateNoData         = "no_data"
	StateMissingColumns = "missing_columns"
	StateError          = "error"
)

const (
	msgNoData         = "Data belum tersedia atau kosong di Google Sheets."
	msgMissingColumns = "Kolom wajib tidak ditemukan di Sheets: "
	msgPending        = "Memuat data sensor..."

	mapZoom         = 11
	mapCircleRadius = 3000 // meters
)

// Theme is the palette of the light or dark mode. Accent colors come from
// validated profiles; everything else is constant.
type Theme struct {
	Dark    bool
	BG      template.CSS
	Panel   template.CSS
	Text    template.CSS
	Muted   template.CSS
	Accent  template.CSS
	Accent2 template.CSS
	Border  template.CSS
	Shadow  template.CSS
	Grad    template.CSS
}

func themeFor(p Profile, dark bool) Theme {
	if dark {
		return Theme{
			Dark:    true,
			BG:      "#0B1220",
			Panel:   "rgba(255,255,255,0.06)",
			Text:    "#E8EEF9",
			Muted:   "#9FB0C8",
			Accent:  template.CSS(p.DarkAccent),
			Accent2: template.CSS(p.DarkAccent2),
			Border:  "rgba(255,255,255,0.12)",
			Shadow:  "0 10px 30px rgba(0,0,0,0.55)",
			Grad:    "linear-gradient(135deg, #1E293B 0%, #0B1220 100%)",
		}
	}
	return Theme{
		BG:      "#F6F7FB",
		Panel:   "rgba(255,255,255,0.72)",
		Text:    "#0F172A",
		Muted:   "#475569",
		Accent:  template.CSS(p.Accent),
		Accent2: template.CSS(p.Accent2),
		Border:  "rgba(15,23,42,0.08)",
		Shadow:  "0 10px 24px rgba(2,6,23,0.08)",
		Grad:    "linear-gradient(135deg, #EEF2FF 0%, #E6FFFB 100%)",
	}
}

// MetricCard is one headline number.
type MetricCard struct {
	Label string
	Value string
}

// PopupLine is one "<b>Key:</b> value" line of the map popup.
type PopupLine struct {
	Key   string
	Value string
}

// MapView positions the station marker.
type MapView struct {
	Lat    float64
	Lon    float64
	Zoom   int
	Radius int
	Color  string
	Popup  []PopupLine
}

// PreviewView is a raw table rendered under the missing-columns error.
type PreviewView struct {
	Columns []string
	Rows    [][]string
}

// Input is everything BuildView needs.
type Input struct {
	Profile     Profile
	Dark        bool
	Status      firerisk.CycleStatus
	Latest      *firerisk.Assessment // nil when nothing has been assessed yet
	Station     firerisk.Station
	FeedEditURL string
	Refresh     time.Duration
	Now         time.Time
}

// View is the data the dashboard template renders.
type View struct {
	Profile Profile
	Theme   Theme
	State   string

	// Message is the notice shown for non-ready states.
	Message string
	Preview *PreviewView

	// Stale is set when a newer cycle failed and an older assessment is shown.
	Stale      bool
	StaleError string

	Metrics     []MetricCard
	Risk        firerisk.RiskStyle
	UpdatedText string
	StationName string
	Coords      string
	Map         *MapView

	Legend         []firerisk.RiskStyle
	Year           int
	FeedEditURL    string
	RefreshSeconds int
}

// BuildView assembles the dashboard view from the latest cycle status and the
// last good assessment.
func BuildView(in Input) View {
	v := View{
		Profile:        in.Profile,
		Theme:          themeFor(in.Profile, in.Dark),
		Legend:         firerisk.Legend(),
		Year:           in.Now.Year(),
		FeedEditURL:    in.FeedEditURL,
		RefreshSeconds: int(in.Refresh.Round(time.Second) / time.Second),
		StationName:    in.Station.Name,
		Coords:         fmt.Sprintf("%.4f, %.4f", in.Station.Lat, in.Station.Lon),
	}
	if v.RefreshSeconds < 1 {
		v.RefreshSeconds = 1
	}

	switch in.Status.Outcome {
	case firerisk.OutcomeNoData:
		v.State = StateNoData
		v.Message = msgNoData
		return v
	case firerisk.OutcomeMissingColumns:
		v.State = StateMissingColumns
		v.Message = msgMissingColumns + strings.Join(in.Status.Missing, ", ")
		v.Preview = previewOf(in.Status.Preview)
		return v
	}

	if in.Latest == nil {
		if in.Status.Outcome == firerisk.OutcomePending {
			v.State = StatePending
			v.Message = msgPending
		} else {
			v.State = StateError
			v.Message = "Gagal memuat data: " + in.Status.Error
		}
		return v
	}

	a := in.Latest
	cur := a.Current
	f := cur.Features

	v.State = StateReady
	if in.Status.Supersedes(*a) {
		v.Stale = true
		v.StaleError = in.Status.Error
	}
	v.Risk = firerisk.StyleForCode(cur.Code)
	v.UpdatedText = cur.DateText
	v.StationName = a.Station.Name
	v.Coords = fmt.Sprintf("%.4f, %.4f", a.Station.Lat, a.Station.Lon)
	v.Metrics = []MetricCard{
		{Label: "🌡 Suhu (°C)", Value: oneDecimal(f.Temperature)},
		{Label: "💧 RH (%)", Value: oneDecimal(f.Humidity)},
		{Label: "🌧 Curah (mm)", Value: oneDecimal(f.Rainfall)},
		{Label: "💨 Angin (m/s)", Value: oneDecimal(f.WindSpeed)},
		{Label: "🪴 Tanah (%)", Value: oneDecimal(f.SoilMoisture)},
		{Label: "🔥 Risiko", Value: cur.Label},
	}
	v.Map = &MapView{
		Lat:    a.Station.Lat,
		Lon:    a.Station.Lon,
		Zoom:   mapZoom,
		Radius: mapCircleRadius,
		Color:  v.Risk.MarkerColor,
		Popup: []PopupLine{
			{Key: "Prediksi", Value: cur.Label},
			{Key: "Suhu", Value: oneDecimal(f.Temperature) + " °C"},
			{Key: "Kelembapan", Value: oneDecimal(f.Humidity) + " %"},
			{Key: "Curah Hujan", Value: oneDecimal(f.Rainfall) + " mm"},
			{Key: "Kecepatan Angin", Value: oneDecimal(f.WindSpeed) + " m/s"},
			{Key: "Kelembaban Tanah", Value: oneDecimal(f.SoilMoisture) + " %"},
			{Key: "Waktu", Value: cur.RawTime},
		},
	}
	return v
}

func oneDecimal(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

func previewOf(t *firerisk.Table) *PreviewView {
	if t == nil {
		return nil
	}
	p := &PreviewView{Columns: t.Columns}
	for _, r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = r[c]
		}
		p.Rows = append(p.Rows, cells)
	}
	return p
}
