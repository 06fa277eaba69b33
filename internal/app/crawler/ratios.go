package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

const (
	ratiosSectionID      = "ratios"
	ratiosHolderSelector = "div.responsive-holder"
)

var ratiosDictionary = NewDictionary(
	Metric{Column: "debtor_days", Patterns: []string{"Debtor Days"}},
	Metric{Column: "inventory_days", Patterns: []string{"Inventory Days"}},
	Metric{Column: "days_payable", Patterns: []string{"Days Payable"}},
	Metric{Column: "cash_conversion_cycle", Patterns: []string{"Cash Conversion Cycle"}},
	Metric{Column: "working_capital_days", Patterns: []string{"Working Capital Days"}},
	Metric{Column: "roce", Patterns: []string{"ROCE"}},
	Metric{Column: "roe", Patterns: []string{"ROE"}},
)

// NewRatiosParser reads the ratios table, which some pages wrap in a responsive holder and
// others place directly in the section.
func NewRatiosParser(logger *zap.Logger) *TableParser {
	return &TableParser{
		family:     model.FamilyRatios,
		dictionary: ratiosDictionary,
		labelMode:  LabelNestedControl,
		locate:     containerTable(ratiosSectionID, ratiosHolderSelector, true),
		logger:     logger,
	}
}
