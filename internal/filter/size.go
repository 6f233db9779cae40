package filter

import (
	"regexp"
	"strconv"

	"github.com/IvanShishkin/csr/pkg/models"
)

var sizeExpr = regexp.MustCompile(`^([<>])(\d+(?:\.\d*)?|\.\d+)(KB|MB|GB|B)$`)

// ParseSize parses a size expression (e.g. ">10MB", "<1.5KB") into a constraint.
// Input that does not match the grammar returns false and the size filter
// stays disabled.
func ParseSize(expr string) (*models.SizeConstraint, bool) {
	m := sizeExpr.FindStringSubmatch(expr)
	if m == nil {
		return nil, false
	}

	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}

	unit := m[3]
	return &models.SizeConstraint{
		Op:        models.Comparator(m[1]),
		Threshold: value * models.UnitMultipliers[unit],
		Unit:      unit,
	}, true
}
