package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

// MetricMatrix holds one value slice per dictionary metric, indexed like the dictionary.
// Every slice is exactly as long as the period list.
type MetricMatrix [][]model.Value

// NewMetricMatrix returns an all-missing matrix.
func NewMetricMatrix(metrics, periods int) MetricMatrix {
	m := make(MetricMatrix, metrics)
	for i := range m {
		m[i] = make([]model.Value, periods) // zero Value is missing
	}
	return m
}

// Align resolves every row label against the dictionary and writes the row's normalized cells
// into that metric's slice. A later row resolving to the same metric replaces the earlier one.
// Cells beyond the period count are never read, positions without a cell stay missing.
// Labels that match no metric are returned for diagnostics.
func Align(periods int, rows []LabeledRow, dict Dictionary) (MetricMatrix, []string) {
	matrix := NewMetricMatrix(dict.Len(), periods)

	var unmatched []string
	for _, row := range rows {
		idx, ok := dict.Resolve(row.Label)
		if !ok {
			unmatched = append(unmatched, row.Label)
			continue
		}

		values := make([]model.Value, periods)
		for i := 0; i < periods && i < len(row.Cells); i++ {
			values[i] = utils.ParseNumeric(row.Cells[i])
		}
		matrix[idx] = values
	}

	return matrix, unmatched
}
