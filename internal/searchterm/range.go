package searchterm

import (
	"encoding/json"
	"time"
)

// InstantLayout formats instants at millisecond resolution without a zone.
// All instants handled by this package are UTC.
const InstantLayout = "2006-01-02T15:04:05.000"

// Range is an inclusive instant window. Min is never after Max.
type Range struct {
	Min time.Time
	Max time.Time
}

// Contains reports whether v lies within the window, bounds included.
func (r Range) Contains(v time.Time) bool {
	return !v.Before(r.Min) && !v.After(r.Max)
}

// String renders the window as "[min, max]".
func (r Range) String() string {
	return "[" + r.Min.UTC().Format(InstantLayout) + ", " + r.Max.UTC().Format(InstantLayout) + "]"
}

// MarshalJSON renders both bounds with InstantLayout.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min string `json:"min"`
		Max string `json:"max"`
	}{
		Min: r.Min.UTC().Format(InstantLayout),
		Max: r.Max.UTC().Format(InstantLayout),
	})
}
