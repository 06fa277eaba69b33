package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

const (
	// LabelCellText reads the whole label cell, expansion markers included ("Net Profit+").
	LabelCellText LabelMode = iota
	// LabelNestedControl prefers the text of a button nested in the label cell and cuts it at the first "+".
	LabelNestedControl
)

const tagButton = "button"

// LabelMode decides how a row label is read from its cell. It is fixed per family.
type LabelMode int

// Metric is a canonical metric: its destination column and the label substrings that identify it.
type Metric struct {
	Column   string
	Patterns []string
}

// Dictionary is an ordered list of canonical metrics. Order is both match priority and column order.
type Dictionary struct {
	metrics  []Metric
	patterns [][]string // lower-cased Patterns, same indexes as metrics
}

func NewDictionary(metrics ...Metric) Dictionary {
	d := Dictionary{
		metrics:  metrics,
		patterns: make([][]string, len(metrics)),
	}
	for i, m := range metrics {
		for _, p := range m.Patterns {
			d.patterns[i] = append(d.patterns[i], strings.ToLower(p))
		}
	}

	return d
}

func (d Dictionary) Len() int {
	return len(d.metrics)
}

// Columns returns the metric columns in canonical order.
func (d Dictionary) Columns() []string {
	cols := make([]string, len(d.metrics))
	for i, m := range d.metrics {
		cols[i] = m.Column
	}
	return cols
}

// Resolve returns the index of the first metric that has a pattern occurring, case-insensitively,
// in the whitespace-normalized label.
func (d Dictionary) Resolve(label string) (int, bool) {
	normalized := strings.ToLower(utils.NormalizeSpaces(label))
	if normalized == "" {
		return 0, false
	}

	for i, patterns := range d.patterns {
		for _, p := range patterns {
			if strings.Contains(normalized, p) {
				return i, true
			}
		}
	}

	return 0, false
}

// rowLabel reads a row label from its cell according to the family's label mode.
func rowLabel(cell *goquery.Selection, mode LabelMode) string {
	if mode == LabelNestedControl {
		if button := cell.Find(tagButton).First(); button.Length() > 0 {
			label, _, _ := strings.Cut(utils.StrippedText(button), "+")
			return strings.TrimSpace(label)
		}
	}

	return utils.StrippedText(cell)
}
