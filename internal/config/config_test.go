package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 7*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 1000, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, DefaultStationName, cfg.StationName)
	assert.Nil(t, cfg.StationLat)
	assert.Nil(t, cfg.StationLon)
	assert.Equal(t, "hsel", cfg.DashboardVariant)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STATION_LAT", "-0.45")
	t.Setenv("STATION_LON", "101.5")
	t.Setenv("LOG_FORMAT", "console")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	require.NotNil(t, cfg.StationLat)
	assert.Equal(t, -0.45, *cfg.StationLat)
	assert.Equal(t, 101.5, *cfg.StationLon)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "REFRESH_INTERVAL", "soon"},
		{"zero interval", "REFRESH_INTERVAL", "0s"},
		{"bad feed url", "FEED_URL", "not a url"},
		{"unknown driver", "STORE_DRIVER", "postgres"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"latitude range", "STATION_LAT", "123"},
		{"non numeric port", "PORT", "http"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if tc.key == "STATION_LAT" {
				t.Setenv("STATION_LON", "101")
			}
			_, _, err := Load()
			assert.Error(t, err)
		})
	}

	t.Run("lat without lon", func(t *testing.T) {
		t.Setenv("STATION_LAT", "-0.5")
		_, _, err := Load()
		assert.Error(t, err)
	})
}
