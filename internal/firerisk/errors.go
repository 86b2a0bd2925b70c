package firerisk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyData is returned when the feed has no rows.
var ErrEmptyData = errors.New("no data available")

// MissingColumnsError reports every required column absent from the feed.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "required columns not found: " + strings.Join(e.Missing, ", ")
}

// TimestampError is returned when the time cell of the current row cannot be
// parsed.
type TimestampError struct {
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
