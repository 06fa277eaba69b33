package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
)

// Assemble transposes the matrix into one record per period, carrying every metric in
// dictionary order. It is a pure function of its inputs.
func Assemble(periods []string, matrix MetricMatrix) []model.PeriodRecord {
	records := make([]model.PeriodRecord, len(periods))
	for i, period := range periods {
		values := make([]model.Value, len(matrix))
		for m := range matrix {
			if i < len(matrix[m]) {
				values[m] = matrix[m][i]
			}
		}
		records[i] = model.PeriodRecord{Period: period, Values: values}
	}

	return records
}

// AttachLinks sets each record's link from the positional link list. Records past the
// end of the list keep a nil link.
func AttachLinks(records []model.PeriodRecord, links []string) {
	for i := range records {
		if i < len(links) {
			link := links[i]
			records[i].Link = &link
		}
	}
}
