package filter

import (
	"regexp"
	"strconv"
	"time"

	"github.com/IvanShishkin/csr/pkg/models"
)

var ageExpr = regexp.MustCompile(`^(\d+)(s|m|h|d|w)$`)

var ageUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseModified parses a modification-time expression relative to now.
//
// Accepted forms:
//
//	>7d          modified within the last 7 days
//	<12h         modified more than 12 hours ago
//	>2024-01-31  modified after midnight (local time) of that date
//	<2024-01-31T10:00:00Z
//
// Anything else returns false and the filter stays disabled.
func ParseModified(expr string, now time.Time) (*models.TimeConstraint, bool) {
	if len(expr) < 2 {
		return nil, false
	}

	op := models.Comparator(expr[:1])
	if op != models.GreaterThan && op != models.LessThan {
		return nil, false
	}
	value := expr[1:]

	if m := ageExpr.FindStringSubmatch(value); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, false
		}
		return &models.TimeConstraint{
			Op: op,
			At: now.Add(-time.Duration(n) * ageUnits[m[2]]),
		}, true
	}

	if t, err := time.ParseInLocation("2006-01-02", value, now.Location()); err == nil {
		return &models.TimeConstraint{Op: op, At: t}, true
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &models.TimeConstraint{Op: op, At: t}, true
	}

	return nil, false
}
