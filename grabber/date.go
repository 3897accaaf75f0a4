package grabber

import (
	"strings"
	"time"
)

// DateLayout is the format dates are printed in on listing and chapter rows,
// e.g. "25 December 2015 - 02:30 pm"
const DateLayout = "02 January 2006 - 03:04 pm"

// ParseDate parses a DateLayout string in loc. It never fails: an empty
// string gives a DateAbsent timestamp and anything unparseable a
// DateMalformed one, both with Millis 0.
func ParseDate(value string, loc *time.Location) Timestamp {
	value = collapseSpace(value)
	if value == "" {
		return Timestamp{State: DateAbsent}
	}
	if loc == nil {
		loc = time.UTC
	}

	// month names match case-insensitively, the am/pm marker does not
	t, err := time.ParseInLocation(DateLayout, strings.ToLower(value), loc)
	if err != nil {
		return Timestamp{State: DateMalformed}
	}

	return Timestamp{Millis: t.UnixMilli(), State: DateParsed}
}
