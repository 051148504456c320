package searchterm

import (
	"fmt"
	"regexp"
)

// Precision is the granularity of a date literal.
type Precision int

const (
	// PrecisionYear is a YYYY literal.
	PrecisionYear Precision = iota + 1
	// PrecisionMonth is a YYYY-MM literal.
	PrecisionMonth
	// PrecisionDay is a YYYY-MM-DD literal.
	PrecisionDay
	// PrecisionHour is a YYYY-MM-DDTHH literal.
	PrecisionHour
	// PrecisionMinute is a YYYY-MM-DDTHH:MM literal.
	PrecisionMinute
	// PrecisionSecond is a YYYY-MM-DDTHH:MM:SS literal.
	PrecisionSecond
	// PrecisionMillisecond is a YYYY-MM-DDTHH:MM:SS.ffff literal.
	PrecisionMillisecond
)

// String returns the lowercase precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionHour:
		return "hour"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	case PrecisionMillisecond:
		return "millisecond"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// MarshalText renders the precision by name.
func (p Precision) MarshalText() ([]byte, error) {
	if p < PrecisionYear || p > PrecisionMillisecond {
		return nil, fmt.Errorf("invalid precision %d", int(p))
	}
	return []byte(p.String()), nil
}

// shape pairs an anchored literal pattern with the precision it implies.
// Capture groups are, in order: year, month, day, hour, minute, second,
// fraction. Shapes with lower precision capture a prefix of that list.
type shape struct {
	precision Precision
	pattern   *regexp.Regexp
}

// shapes is ordered from most to least specific. The first match wins, so the
// order must not change.
var shapes = []shape{
	{PrecisionMillisecond, regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})\.(\d{4})$`)},
	{PrecisionSecond, regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})$`)},
	{PrecisionMinute, regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})$`)},
	{PrecisionHour, regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2})$`)},
	{PrecisionDay, regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)},
	{PrecisionMonth, regexp.MustCompile(`^(\d{4})-(\d{2})$`)},
	{PrecisionYear, regexp.MustCompile(`^(\d{4})$`)},
}

// DetectPrecision returns the precision of the first shape matching literal.
// It performs no calendar validation.
func DetectPrecision(literal string) (Precision, bool) {
	for _, s := range shapes {
		if s.pattern.MatchString(literal) {
			return s.precision, true
		}
	}
	return 0, false
}
