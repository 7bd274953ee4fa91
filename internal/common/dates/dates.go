// Package dates converts between Unit wire date strings and Go values.
package dates

import (
	"time"

	"cloud.google.com/go/civil"

	apperrors "unit-client/internal/common/errors"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the wire format for timestamps.
	DateTimeLayout = time.RFC3339
)

// ToDateTime parses an RFC 3339 timestamp such as "2021-01-05T00:00:00Z".
// Fractional seconds are accepted.
func ToDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, apperrors.NewDateParseError(s, DateTimeLayout, err)
	}
	return t, nil
}

// ToDate parses a date-only string such as "1990-01-01".
func ToDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, apperrors.NewDateParseError(s, DateLayout, err)
	}
	return d, nil
}

// ToDateStr formats d with DateLayout; the inverse of ToDate.
func ToDateStr(d civil.Date) string {
	return d.In(time.UTC).Format(DateLayout)
}
