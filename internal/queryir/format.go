package queryir

import (
	"fmt"
	"strings"
	"time"
)

// InstantLayout is the rendering used by Format.
const InstantLayout = "2006-01-02T15:04:05.000"

// Format renders p as a human-readable boolean expression over the
// placeholder field name, e.g. "birth_date >= 2024-05-14T00:00:00.000".
func Format(p Predicate, field string) string {
	switch pred := p.(type) {
	case nil:
		return "true"
	case Between:
		return fmt.Sprintf("%s <= %s <= %s", instant(pred.Min), field, instant(pred.Max))
	case *Between:
		return Format(*pred, field)
	case Outside:
		return fmt.Sprintf("(%s < %s OR %s > %s)", field, instant(pred.Min), field, instant(pred.Max))
	case *Outside:
		return Format(*pred, field)
	case OnOrAfter:
		return fmt.Sprintf("%s >= %s", field, instant(pred.Bound))
	case *OnOrAfter:
		return Format(*pred, field)
	case OnOrBefore:
		return fmt.Sprintf("%s <= %s", field, instant(pred.Bound))
	case *OnOrBefore:
		return Format(*pred, field)
	case After:
		return fmt.Sprintf("%s > %s", field, instant(pred.Bound))
	case *After:
		return Format(*pred, field)
	case Before:
		return fmt.Sprintf("%s < %s", field, instant(pred.Bound))
	case *Before:
		return Format(*pred, field)
	case And:
		if len(pred.Predicates) == 0 {
			return "true"
		}
		parts := make([]string, len(pred.Predicates))
		for i, sub := range pred.Predicates {
			parts[i] = Format(sub, field)
		}
		return strings.Join(parts, " AND ")
	case *And:
		return Format(*pred, field)
	default:
		return fmt.Sprintf("<%T>", p)
	}
}

func instant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}
