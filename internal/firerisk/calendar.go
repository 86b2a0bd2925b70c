package firerisk

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var weekdaysID = map[string]string{
	"Monday":    "Senin",
	"Tuesday":   "Selasa",
	"Wednesday": "Rabu",
	"Thursday":  "Kamis",
	"Friday":    "Jumat",
	"Saturday":  "Sabtu",
	"Sunday":    "Minggu",
}

var monthsID = map[string]string{
	"January":   "Januari",
	"February":  "Februari",
	"March":     "Maret",
	"April":     "April",
	"May":       "Mei",
	"June":      "Juni",
	"July":      "Juli",
	"August":    "Agustus",
	"September": "September",
	"October":   "Oktober",
	"November":  "November",
	"December":  "Desember",
}

// timestampLayouts are tried in order. Ambiguous slash dates are read
// month-first, as the spreadsheet's form timestamps are written; a slash date
// that is invalid month-first (day above 12) is retried day-first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
}

// WeekdayID translates an English weekday name to Indonesian. Unknown names
// are returned unchanged.
func WeekdayID(name string) string {
	if v, ok := weekdaysID[name]; ok {
		return v
	}
	return name
}

// MonthID translates an English month name to Indonesian. Unknown names are
// returned unchanged.
func MonthID(name string) string {
	if v, ok := monthsID[name]; ok {
		return v
	}
	return name
}

// ParseTimestamp parses a feed time cell. The result carries no zone
// conversion: wall-clock values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &TimestampError{Value: s, Err: errors.New("empty value")}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &TimestampError{Value: s, Err: errors.New("unrecognized date-time format")}
}

// FormatDateID renders t as "Senin, 02 Januari 2006".
func FormatDateID(t time.Time) string {
	day := WeekdayID(t.Weekday().String())
	month := MonthID(t.Month().String())
	return fmt.Sprintf("%s, %02d %s %d", day, t.Day(), month, t.Year())
}
