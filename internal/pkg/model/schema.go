package model

import (
	"strings"
)

const (
	// ReservedTablePrefix is prepended to table names of symbols starting with a digit.
	ReservedTablePrefix = "stock_"

	PeriodColumn      = "period_label"
	SnapshotKeyColumn = "stock_symbol"
)

// TableSchema describes the fixed column layout of a family's destination table.
type TableSchema struct {
	Family Family

	// PeriodColumn is set for time-series tables, KeyColumn for snapshot tables.
	PeriodColumn string
	KeyColumn    string

	// Columns holds the canonical metric columns in destination order.
	Columns []string

	// LinkColumn is an optional trailing text column.
	LinkColumn string
}

// Width is the number of value fields a record carries, link column included.
func (s TableSchema) Width() int {
	if s.LinkColumn != "" {
		return len(s.Columns) + 1
	}
	return len(s.Columns)
}

// TableName derives the destination table identity for a symbol and family.
// Symbols are lower-cased, every character outside [a-z0-9] becomes "_", and
// names that would start with a digit get ReservedTablePrefix.
func TableName(symbol Symbol, family Family) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(string(symbol))) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	name := sb.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = ReservedTablePrefix + name
	}

	return name + "_" + string(family)
}
