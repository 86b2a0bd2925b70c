package firerisk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/fire-risk-dashboard/internal/observability"
)

type stubSource struct {
	table Table
	err   error
}

func (s *stubSource) Fetch(context.Context) (Table, error) {
	return s.table, s.err
}

type sliceStore struct {
	items []Assessment
	err   error
}

func (s *sliceStore) SaveAssessment(a Assessment) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, a)
	return nil
}

func (s *sliceStore) GetLatest() (Assessment, error) {
	if len(s.items) == 0 {
		return Assessment{}, errors.New("empty")
	}
	return s.items[len(s.items)-1], nil
}

func (s *sliceStore) GetRange(from, to time.Time) ([]Assessment, error) {
	return s.items, nil
}

func newTestService(src Source, st Store, codes []int) (*Service, *observability.Metrics, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 12, 3, 0, 0, 0, time.UTC))
	metrics := observability.NewMetricsForTesting()
	pred := NewPredictor(&identityScaler{}, &fixedClassifier{codes: codes})
	station := Station{Name: "Pekanbaru", Lat: -0.5071, Lon: 101.4478}
	return NewService(src, pred, st, station, clock, zap.NewNop(), metrics), metrics, clock
}

func goodTable() Table {
	return Table{
		Columns: sourceColumns(),
		Rows:    []Row{sourceRow("2024-08-12 10:00:00", "28,3", "75", "x", "1,2", "40")},
	}
}

func TestServiceRefreshSuccess(t *testing.T) {
	st := &sliceStore{}
	svc, metrics, clock := newTestService(&stubSource{table: goodTable()}, st, []int{3})

	assert.Equal(t, OutcomePending, svc.Status().Outcome)

	require.NoError(t, svc.Refresh(context.Background()))

	status := svc.Status()
	assert.Equal(t, OutcomeOK, status.Outcome)
	assert.NotEmpty(t, status.CycleID)
	assert.True(t, clock.Now().Equal(status.CheckedAt))

	latest, err := svc.GetLatest()
	require.NoError(t, err)
	assert.Equal(t, status.CycleID, latest.ID)
	assert.Equal(t, "Very High / Sangat Tinggi", latest.Current.Label)
	assert.Equal(t, "Pekanbaru", latest.Station.Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RefreshTotal.WithLabelValues(string(OutcomeOK))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CellsCoerced))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CurrentRiskCode))
}

func TestServiceFailuresKeepLastGood(t *testing.T) {
	src := &stubSource{table: goodTable()}
	st := &sliceStore{}
	svc, metrics, _ := newTestService(src, st, []int{1})

	require.NoError(t, svc.Refresh(context.Background()))
	good, err := svc.GetLatest()
	require.NoError(t, err)

	t.Run("empty feed", func(t *testing.T) {
		src.table, src.err = Table{Columns: sourceColumns()}, nil
		err := svc.Refresh(context.Background())
		require.ErrorIs(t, err, ErrEmptyData)
		assert.Equal(t, OutcomeNoData, svc.Status().Outcome)
	})

	t.Run("missing columns", func(t *testing.T) {
		src.table = Table{
			Columns: []string{SourceTimestamp, SourceTemperature},
			Rows:    []Row{{SourceTimestamp: "2024-08-12", SourceTemperature: "30"}},
		}
		require.Error(t, svc.Refresh(context.Background()))

		status := svc.Status()
		assert.Equal(t, OutcomeMissingColumns, status.Outcome)
		assert.Equal(t, []string{ColumnHumidity, ColumnRainfall, ColumnWindSpeed, ColumnSoilMoisture}, status.Missing)
		require.NotNil(t, status.Preview)
		assert.Equal(t, 1, status.Preview.Len())
	})

	t.Run("unparsable timestamp", func(t *testing.T) {
		src.table = Table{
			Columns: sourceColumns(),
			Rows:    []Row{sourceRow("kemarin sore", "30", "60", "0", "2", "20")},
		}
		err := svc.Refresh(context.Background())
		var tsErr *TimestampError
		require.ErrorAs(t, err, &tsErr)
		assert.Equal(t, OutcomeTimestampError, svc.Status().Outcome)
	})

	t.Run("classifier failure", func(t *testing.T) {
		// The classifier always answers one code; two rows make it inconsistent.
		row := sourceRow("2024-08-12 11:00:00", "30", "60", "0", "2", "20")
		src.table = Table{Columns: sourceColumns(), Rows: []Row{row, row}}
		require.Error(t, svc.Refresh(context.Background()))

		status := svc.Status()
		assert.Equal(t, OutcomeModelError, status.Outcome)
		assert.Contains(t, status.Error, "1 codes for 2 rows")
	})

	t.Run("fetch error", func(t *testing.T) {
		src.table, src.err = Table{}, errors.New("connection refused")
		require.Error(t, svc.Refresh(context.Background()))
		assert.Equal(t, OutcomeFetchError, svc.Status().Outcome)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedFetchErrors))
	})

	t.Run("store error", func(t *testing.T) {
		src.table, src.err = goodTable(), nil
		st.err = errors.New("disk full")
		require.Error(t, svc.Refresh(context.Background()))
		assert.Equal(t, OutcomeStoreError, svc.Status().Outcome)
		st.err = nil
	})

	latest, err := svc.GetLatest()
	require.NoError(t, err)
	assert.Equal(t, good.ID, latest.ID)
	assert.Len(t, st.items, 1)
}
