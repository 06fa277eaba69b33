package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

const balanceSheetSectionID = "balance-sheet"

var balanceSheetDictionary = NewDictionary(
	Metric{Column: "equity_capital", Patterns: []string{"Equity Capital"}},
	Metric{Column: "reserves", Patterns: []string{"Reserves"}},
	Metric{Column: "borrowings", Patterns: []string{"Borrowings"}},
	Metric{Column: "other_liabilities", Patterns: []string{"Other Liabilities"}},
	Metric{Column: "total_liabilities", Patterns: []string{"Total Liabilities"}},
	Metric{Column: "fixed_assets", Patterns: []string{"Fixed Assets"}},
	Metric{Column: "cwip", Patterns: []string{"CWIP"}},
	Metric{Column: "investments", Patterns: []string{"Investments"}},
	Metric{Column: "other_assets", Patterns: []string{"Other Assets"}},
	Metric{Column: "total_assets", Patterns: []string{"Total Assets"}},
)

func NewBalanceSheetParser(logger *zap.Logger) *TableParser {
	return &TableParser{
		family:     model.FamilyBalanceSheet,
		dictionary: balanceSheetDictionary,
		labelMode:  LabelCellText,
		locate:     sectionTable(balanceSheetSectionID),
		logger:     logger,
	}
}
