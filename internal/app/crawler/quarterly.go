package crawler

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

const (
	quarterlySectionID = "quarters"
	cashFlowSectionID  = "cash-flow"

	// The disclosure row under the quarterly results links the filed result documents.
	quarterlyDisclosureRowSelector = "tr.font-size-14.ink-600"
	quarterlyLinkColumn            = "raw_pdf_link"
)

var quarterlyDictionary = NewDictionary(
	Metric{Column: "sales", Patterns: []string{"Sales+"}},
	Metric{Column: "revenue", Patterns: []string{"Revenue"}},
	Metric{Column: "expenses", Patterns: []string{"Expenses+"}},
	Metric{Column: "financing_profit", Patterns: []string{"Financing Profit"}},
	Metric{Column: "operating_profit", Patterns: []string{"Operating Profit"}},
	Metric{Column: "financing_margin_percent", Patterns: []string{"Financing Margin %"}},
	Metric{Column: "opm", Patterns: []string{"OPM %"}},
	Metric{Column: "other_income", Patterns: []string{"Other Income+"}},
	Metric{Column: "interest", Patterns: []string{"Interest"}},
	Metric{Column: "depreciation", Patterns: []string{"Depreciation"}},
	Metric{Column: "profit_before_tax", Patterns: []string{"Profit before tax"}},
	Metric{Column: "tax", Patterns: []string{"Tax %"}},
	Metric{Column: "net_profit", Patterns: []string{"Net Profit+"}},
	Metric{Column: "eps", Patterns: []string{"EPS in Rs"}},
	Metric{Column: "gross_npa_percent", Patterns: []string{"Gross NPA %"}},
	Metric{Column: "net_npa_percent", Patterns: []string{"Net NPA %"}},
)

// NewQuarterlyParser reads the quarterly results table and the disclosure links below it.
// Relative links are resolved against baseURL.
func NewQuarterlyParser(baseURL *url.URL, logger *zap.Logger) *TableParser {
	return &TableParser{
		family:     model.FamilyQuarterly,
		dictionary: quarterlyDictionary,
		labelMode:  LabelCellText,
		locate:     quarterlyTable,
		links: func(doc *goquery.Document) []string {
			return disclosureLinks(doc, quarterlyDisclosureRowSelector, baseURL)
		},
		linkColumn: quarterlyLinkColumn,
		logger:     logger,
	}
}

// otherStatementSections hold tables of other families, which the quarterly fallback never takes.
var otherStatementSections = []string{
	profitLossSectionID,
	balanceSheetSectionID,
	cashFlowSectionID,
	ratiosSectionID,
	shareholdingSectionID,
}

// quarterlyTable prefers the quarters section and otherwise takes the first data table of the page
// outside other statement sections, which is where the quarterly results are rendered.
func quarterlyTable(doc *goquery.Document) (*goquery.Selection, error) {
	if section, err := findSection(doc, quarterlySectionID); err == nil {
		if table, err := firstDataTable(section, "section "+quarterlySectionID); err == nil {
			return table, nil
		}
	}

	tables := doc.Find(dataTableSelector).FilterFunction(func(_ int, table *goquery.Selection) bool {
		for _, id := range otherStatementSections {
			if table.Closest("section#"+id).Length() > 0 {
				return false
			}
		}
		return true
	})
	if tables.Length() == 0 {
		return nil, fmt.Errorf("%w: outside other statement sections", ErrTableNotFound)
	}

	return tables.First(), nil
}
