package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

const profitLossSectionID = "profit-loss"

// Labels keep their "+" expansion marker in this family, so the patterns carry it too.
// Banks report Revenue / Financing Profit / Financing Margin instead of Sales / Operating Profit / OPM.
var profitLossDictionary = NewDictionary(
	Metric{Column: "sales", Patterns: []string{"Sales+"}},
	Metric{Column: "revenue", Patterns: []string{"Revenue"}},
	Metric{Column: "expenses", Patterns: []string{"Expenses+"}},
	Metric{Column: "financing_profit", Patterns: []string{"Financing Profit"}},
	Metric{Column: "operating_profit", Patterns: []string{"Operating Profit"}},
	Metric{Column: "financing_margin", Patterns: []string{"Financing Margin %"}},
	Metric{Column: "opm", Patterns: []string{"OPM %"}},
	Metric{Column: "other_income", Patterns: []string{"Other Income+"}},
	Metric{Column: "interest", Patterns: []string{"Interest"}},
	Metric{Column: "depreciation", Patterns: []string{"Depreciation"}},
	Metric{Column: "profit_before_tax", Patterns: []string{"Profit before tax"}},
	Metric{Column: "tax", Patterns: []string{"Tax %"}},
	Metric{Column: "net_profit", Patterns: []string{"Net Profit+"}},
	Metric{Column: "eps", Patterns: []string{"EPS in Rs"}},
	Metric{Column: "dividend_payout", Patterns: []string{"Dividend Payout %"}},
)

func NewProfitLossParser(logger *zap.Logger) *TableParser {
	return &TableParser{
		family:     model.FamilyProfitLoss,
		dictionary: profitLossDictionary,
		labelMode:  LabelCellText,
		locate:     sectionTable(profitLossSectionID),
		logger:     logger,
	}
}
