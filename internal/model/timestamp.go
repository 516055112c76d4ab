package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as a JSON number, like the REAL columns it
	// is read from.
	decimal.MarshalJSONWithoutQuotes = true
}

// timestampLayouts are the formats accepted for fecha, fecha_hora and the
// other text timestamp columns. Layouts without a zone are read in the
// caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var ErrBadTimestamp = errors.New("unrecognized timestamp")

// ParseTimestamp parses a stored timestamp. Values without an explicit
// zone are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// FormatTimestamp renders t the way new rows store it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
