// Package station resolves the coordinates of the monitoring site.
package station

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

// Params describes the configured site.
type Params struct {
	Name    string
	Country string

	// Lat and Lon take precedence over geocoding when both are set.
	Lat *float64
	Lon *float64

	// GeocoderAPIKey enables geocoding of Name, Country.
	GeocoderAPIKey string

	// Fallback is used when nothing else yields coordinates.
	Fallback firerisk.Station
}

// GeocodeFunc looks up a city's coordinates.
type GeocodeFunc func(ctx context.Context, apiKey, city, country string) (lat, lon float64, err error)

// GoogleGeocode resolves a city through the Google Geocoding API.
func GoogleGeocode(ctx context.Context, apiKey, city, country string) (float64, float64, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	// The geocoder client takes no context, so the lookup runs aside and
	// is abandoned on cancellation.
	ch := make(chan result, 1)
	go func() {
		geocoder.ApiKey = apiKey
		loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return 0, 0, r.err
		}
		return r.loc.Latitude, r.loc.Longitude, nil
	}
}

// Resolve returns the station for p. Explicit coordinates win; otherwise the
// name is geocoded when an API key is configured. Geocoding failures fall back
// to p.Fallback with a warning and never fail startup.
func Resolve(ctx context.Context, p Params, geocode GeocodeFunc, logger *zap.Logger) firerisk.Station {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := firerisk.Station{Name: p.Name, Lat: p.Fallback.Lat, Lon: p.Fallback.Lon}
	if st.Name == "" {
		st.Name = p.Fallback.Name
	}

	if p.Lat != nil && p.Lon != nil {
		st.Lat, st.Lon = *p.Lat, *p.Lon
		return st
	}
	if p.GeocoderAPIKey == "" || geocode == nil {
		return st
	}

	lat, lon, err := geocode(ctx, p.GeocoderAPIKey, st.Name, p.Country)
	if err == nil {
		err = checkCoords(lat, lon)
	}
	if err != nil {
		logger.Warn("station geocoding failed; using default coordinates",
			zap.String("station", st.Name),
			zap.Error(err),
		)
		return st
	}

	logger.Info("station geocoded",
		zap.String("station", st.Name),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)
	st.Lat, st.Lon = lat, lon
	return st
}

var errNoLocation = errors.New("geocoder returned no location")

func checkCoords(lat, lon float64) error {
	if lat == 0 && lon == 0 {
		return errNoLocation
	}
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return fmt.Errorf("coordinates out of range: %f, %f", lat, lon)
	}
	return nil
}
