package firerisk

import (
	"context"
	"time"
)

// Source abstracts the sensor feed (e.g. a published spreadsheet export).
type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

// Store is the contract the in-memory store and the SQLite store satisfy.
type Store interface {
	SaveAssessment(a Assessment) error
	GetLatest() (Assessment, error)
	GetRange(from, to time.Time) ([]Assessment, error)
}
