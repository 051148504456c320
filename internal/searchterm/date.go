package searchterm

import (
	"fmt"
	"strconv"
	"time"
)

// components holds the numeric fields of a date literal. Fields below the
// literal's precision keep their zero defaults (month and day default to 1).
type components struct {
	year, month, day     int
	hour, minute, second int
	millisecond          int
}

// ParseDate parses a date literal and returns its precision together with the
// inclusive instant window it expands to.
//
// Returns a *TermError with ErrCodeInvalidDateFormat if the literal matches
// none of the supported shapes or holds an impossible calendar value.
func ParseDate(literal string) (Precision, Range, error) {
	for _, s := range shapes {
		m := s.pattern.FindStringSubmatch(literal)
		if m == nil {
			continue
		}

		c, err := parseComponents(m[1:])
		if err != nil {
			return 0, Range{}, invalidDateError(literal, err.Error())
		}
		if err := c.validate(); err != nil {
			return 0, Range{}, invalidDateError(literal, err.Error())
		}

		return s.precision, window(s.precision, c), nil
	}

	return 0, Range{}, invalidDateError(literal, "")
}

// parseComponents converts regexp captures into components.
// A fraction capture has four digits; only the first three are kept since
// instants have millisecond resolution.
func parseComponents(groups []string) (components, error) {
	c := components{month: 1, day: 1}
	targets := []*int{&c.year, &c.month, &c.day, &c.hour, &c.minute, &c.second, &c.millisecond}

	for i, g := range groups {
		if i == 6 {
			g = g[:3]
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return components{}, fmt.Errorf("parse %q: %w", g, err)
		}
		*targets[i] = n
	}
	return c, nil
}

// validate rejects values that time.Date would silently normalize.
func (c components) validate() error {
	if c.year < 1 || c.year > 9999 {
		return fmt.Errorf("year %04d out of range", c.year)
	}
	if c.month < 1 || c.month > 12 {
		return fmt.Errorf("month %02d out of range", c.month)
	}
	if last := daysIn(c.year, time.Month(c.month)); c.day < 1 || c.day > last {
		return fmt.Errorf("day %02d out of range for %04d-%02d", c.day, c.year, c.month)
	}
	if c.hour > 23 {
		return fmt.Errorf("hour %02d out of range", c.hour)
	}
	if c.minute > 59 {
		return fmt.Errorf("minute %02d out of range", c.minute)
	}
	if c.second > 59 {
		return fmt.Errorf("second %02d out of range", c.second)
	}
	return nil
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// window expands validated components to the inclusive range for p.
func window(p Precision, c components) Range {
	month := time.Month(c.month)

	switch p {
	case PrecisionYear:
		start := time.Date(c.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Range{Min: start, Max: start.AddDate(1, 0, 0).Add(-time.Millisecond)}
	case PrecisionMonth:
		start := time.Date(c.year, month, 1, 0, 0, 0, 0, time.UTC)
		return Range{Min: start, Max: start.AddDate(0, 1, 0).Add(-time.Millisecond)}
	case PrecisionDay:
		start := time.Date(c.year, month, c.day, 0, 0, 0, 0, time.UTC)
		return Range{Min: start, Max: start.AddDate(0, 0, 1).Add(-time.Millisecond)}
	case PrecisionHour:
		start := time.Date(c.year, month, c.day, c.hour, 0, 0, 0, time.UTC)
		return Range{Min: start, Max: start.Add(time.Hour - time.Millisecond)}
	case PrecisionMinute:
		// Lower bound is .999, not .000. See package doc.
		start := time.Date(c.year, month, c.day, c.hour, c.minute, 0, 0, time.UTC)
		return Range{
			Min: start.Add(999 * time.Millisecond),
			Max: start.Add(time.Minute - time.Millisecond),
		}
	case PrecisionSecond:
		at := time.Date(c.year, month, c.day, c.hour, c.minute, c.second, 0, time.UTC).
			Add(999 * time.Millisecond)
		return Range{Min: at, Max: at}
	default:
		at := time.Date(c.year, month, c.day, c.hour, c.minute, c.second,
			c.millisecond*int(time.Millisecond), time.UTC)
		return Range{Min: at, Max: at}
	}
}
