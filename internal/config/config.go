package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultFeedURL     = "https://docs.google.com/spreadsheets/d/1epkIp2U1okjCfXOoz_bkgey4kYa30EtmWlLB6c_911Y/export?format=csv"
	defaultFeedEditURL = "https://docs.google.com/spreadsheets/d/1epkIp2U1okjCfXOoz_bkgey4kYa30EtmWlLB6c_911Y/edit?gid=0#gid=0"

	DefaultStationName    = "Pekanbaru"
	DefaultStationCountry = "Indonesia"
	DefaultStationLat     = -0.5071
	DefaultStationLon     = 101.4478
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Feed is the published CSV export; FeedEditURL is linked from the
	// dashboard.
	FeedURL     string `validate:"required,url"`
	FeedEditURL string `validate:"omitempty,url"`

	// RefreshInterval controls how often the feed is polled.
	RefreshInterval time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`

	ModelPath  string `validate:"required"`
	ScalerPath string `validate:"required"`

	StoreDriver     string        `validate:"oneof=memory sqlite"`
	StoreMaxHistory int           `validate:"gte=0"` // 0 = unlimited
	StoreMaxAge     time.Duration `validate:"gte=0"` // 0 = unlimited
	SQLitePath      string        `validate:"required_if=StoreDriver sqlite"`

	StationName    string `validate:"required"`
	StationCountry string
	// StationLat/StationLon are nil when unset so the station can be
	// geocoded instead.
	StationLat     *float64 `validate:"omitempty,latitude"`
	StationLon     *float64 `validate:"omitempty,longitude"`
	GeocoderAPIKey string

	BrandingFile     string
	DashboardVariant string `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
	LogFile   string

	ShutdownTimeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from the environment (and a .env file when
// present) with sensible defaults. It reports whether a .env file was read
// so the caller can log it once a logger exists.
func Load() (*AppConfig, bool, error) {
	envLoaded := godotenv.Load() == nil

	cfg := &AppConfig{
		Port:             getenvDefault("PORT", "8080"),
		FeedURL:          getenvDefault("FEED_URL", defaultFeedURL),
		FeedEditURL:      getenvDefault("FEED_EDIT_URL", defaultFeedEditURL),
		ModelPath:        getenvDefault("MODEL_PATH", "models/classifier.json"),
		ScalerPath:       getenvDefault("SCALER_PATH", "models/scaler.json"),
		StoreDriver:      getenvDefault("STORE_DRIVER", "memory"),
		StoreMaxHistory:  getenvInt("STORE_MAX_HISTORY", 1000),
		SQLitePath:       getenvDefault("SQLITE_PATH", "data/assessments.db"),
		StationName:      getenvDefault("STATION_NAME", DefaultStationName),
		StationCountry:   getenvDefault("STATION_COUNTRY", DefaultStationCountry),
		GeocoderAPIKey:   os.Getenv("GEOCODER_API_KEY"),
		BrandingFile:     os.Getenv("BRANDING_FILE"),
		DashboardVariant: getenvDefault("DASHBOARD_VARIANT", "hsel"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		LogFormat:        getenvDefault("LOG_FORMAT", "json"),
		LogFile:          os.Getenv("LOG_FILE"),
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"REFRESH_INTERVAL", "7s", &cfg.RefreshInterval}, // the dashboard's auto-refresh period
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
		{"STORE_MAX_AGE", "24h", &cfg.StoreMaxAge},
		{"SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenvDefault(d.key, d.def))
		if err != nil {
			return nil, envLoaded, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	var err error
	if cfg.StationLat, err = getenvFloat("STATION_LAT"); err != nil {
		return nil, envLoaded, err
	}
	if cfg.StationLon, err = getenvFloat("STATION_LON"); err != nil {
		return nil, envLoaded, err
	}
	if (cfg.StationLat == nil) != (cfg.StationLon == nil) {
		return nil, envLoaded, fmt.Errorf("STATION_LAT and STATION_LON must be set together")
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, envLoaded, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, envLoaded, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
