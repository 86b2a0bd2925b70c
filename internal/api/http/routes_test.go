package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fire-risk-dashboard/internal/dashboard"
	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
	"github.com/i474232898/fire-risk-dashboard/internal/store"
)

var checkedAt = time.Date(2024, 8, 12, 3, 0, 0, 0, time.UTC)

type fakeService struct {
	status firerisk.CycleStatus
	store  *store.MemoryStore
}

func (f *fakeService) Status() firerisk.CycleStatus { return f.status }
func (f *fakeService) Station() firerisk.Station {
	return firerisk.Station{Name: "Pekanbaru", Lat: -0.5071, Lon: 101.4478}
}
func (f *fakeService) Now() time.Time { return checkedAt }
func (f *fakeService) GetLatest() (firerisk.Assessment, error) {
	return f.store.GetLatest()
}
func (f *fakeService) GetRange(from, to time.Time) ([]firerisk.Assessment, error) {
	return f.store.GetRange(from, to)
}

func newTestApp(t *testing.T) (*fiber.App, *fakeService) {
	t.Helper()
	svc := &fakeService{
		status: firerisk.CycleStatus{Outcome: firerisk.OutcomePending},
		store:  store.NewMemoryStore(10, 0, nil),
	}

	renderer, err := dashboard.NewRenderer()
	require.NoError(t, err)
	profiles, err := dashboard.LoadProfiles("")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	RegisterDashboard(app, svc, DashboardConfig{
		Renderer:       renderer,
		Profiles:       profiles,
		DefaultVariant: "hsel",
		Refresh:        7 * time.Second,
	})
	return app, svc
}

func saveAssessment(t *testing.T, svc *fakeService, id string, code int) {
	t.Helper()
	ts := time.Date(2024, 8, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.store.SaveAssessment(firerisk.Assessment{
		ID:        id,
		CheckedAt: checkedAt,
		Station:   svc.Station(),
		Rows:      1,
		Labels:    []string{firerisk.LabelForCode(code)},
		Current: firerisk.Current{
			Code:     code,
			Label:    firerisk.LabelForCode(code),
			Level:    firerisk.StyleForCode(code).Level,
			RawTime:  "2024-08-12 10:00:00",
			Time:     ts,
			DateText: firerisk.FormatDateID(ts),
		},
	}))
	svc.status = firerisk.CycleStatus{CycleID: id, Outcome: firerisk.OutcomeOK, CheckedAt: checkedAt}
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestCurrentRisk(t *testing.T) {
	app, svc := newTestApp(t)

	resp, body := get(t, app, "/api/v1/risk/current")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error":true`)

	saveAssessment(t, svc, "cycle-1", 2)
	resp, body = get(t, app, "/api/v1/risk/current")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Assessment firerisk.Assessment `json:"assessment"`
		Style      firerisk.RiskStyle  `json:"style"`
		Stale      bool                `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "High / Tinggi", payload.Assessment.Current.Label)
	assert.Equal(t, "orange", payload.Style.MarkerColor)
	assert.False(t, payload.Stale)

	svc.status = firerisk.CycleStatus{CycleID: "cycle-2", Outcome: firerisk.OutcomeFetchError}
	_, body = get(t, app, "/api/v1/risk/current")
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.True(t, payload.Stale)
}

func TestCurrentRiskAfterRestart(t *testing.T) {
	app, svc := newTestApp(t)
	saveAssessment(t, svc, "cycle-1", 1)
	svc.status = firerisk.CycleStatus{Outcome: firerisk.OutcomePending}

	resp, body := get(t, app, "/api/v1/risk/current")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Stale bool `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.False(t, payload.Stale)

	resp, body = get(t, app, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "Pembaruan terakhir gagal")
}

func TestCurrentRiskMissingColumns(t *testing.T) {
	app, svc := newTestApp(t)
	preview := firerisk.Table{Columns: []string{"Timestamp"}, Rows: []firerisk.Row{{"Timestamp": "2024-08-12"}}}
	svc.status = firerisk.CycleStatus{
		Outcome: firerisk.OutcomeMissingColumns,
		Missing: []string{firerisk.ColumnRainfall},
		Preview: &preview,
	}

	resp, body := get(t, app, "/api/v1/risk/current")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Missing []string        `json:"missing"`
		Preview *firerisk.Table `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, []string{"RR: Curah hujan (mm)"}, payload.Missing)
	require.NotNil(t, payload.Preview)
	assert.Equal(t, 1, payload.Preview.Len())
}

// TestHistoryValidation verifies that the history endpoint requires a valid,
// ordered time range.
func TestHistoryValidation(t *testing.T) {
	app, svc := newTestApp(t)

	for _, target := range []string{
		"/api/v1/risk/history",
		"/api/v1/risk/history?from=2024-08-12T00:00:00Z",
		"/api/v1/risk/history?from=yesterday&to=today",
		"/api/v1/risk/history?from=2024-08-13T00:00:00Z&to=2024-08-12T00:00:00Z",
	} {
		resp, _ := get(t, app, target)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}

	resp, _ := get(t, app, "/api/v1/risk/history?from=2024-08-12T00:00:00Z&to=2024-08-13T00:00:00Z")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	saveAssessment(t, svc, "cycle-1", 0)
	from := checkedAt.Add(-time.Hour).Unix()
	to := checkedAt.Add(time.Hour).Unix()
	resp, body := get(t, app, "/api/v1/risk/history?from="+itoa(from)+"&to="+itoa(to))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Assessments []firerisk.Assessment `json:"assessments"`
		Summary     firerisk.Summary      `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Assessments, 1)
	assert.Equal(t, "cycle-1", payload.Assessments[0].ID)
	assert.Equal(t, 1, payload.Summary.Count)
	assert.Equal(t, "Low / Rendah", payload.Summary.Peak)
}

func TestStatusAndLegend(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/api/v1/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"outcome":"pending"`)

	resp, body = get(t, app, "/api/v1/legend")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var legend []firerisk.RiskStyle
	require.NoError(t, json.Unmarshal(body, &legend))
	require.Len(t, legend, 4)
	assert.Equal(t, "Low / Rendah", legend[0].Label)
}

func TestDashboardPages(t *testing.T) {
	app, svc := newTestApp(t)
	saveAssessment(t, svc, "cycle-1", 3)

	resp, body := get(t, app, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, string(body), "Smart Fire Prediction HSEL")
	assert.Contains(t, string(body), "Very High / Sangat Tinggi")

	resp, body = get(t, app, "/v/rhsem?theme=dark")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Smart Fire Prediction RHSEM")
	assert.Contains(t, string(body), "#0B1220")

	resp, _ = get(t, app, "/v/unknown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardNoData(t *testing.T) {
	app, svc := newTestApp(t)
	svc.status = firerisk.CycleStatus{Outcome: firerisk.OutcomeNoData}

	resp, body := get(t, app, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Data belum tersedia atau kosong di Google Sheets.")
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
