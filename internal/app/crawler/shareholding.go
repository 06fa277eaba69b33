package crawler

import (
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

const (
	shareholdingSectionID         = "shareholding"
	shareholdingQuarterlySelector = "#quarterly-shp"
)

var shareholdingDictionary = NewDictionary(
	Metric{Column: "promoters", Patterns: []string{"Promoters"}},
	Metric{Column: "fiis", Patterns: []string{"FIIs"}},
	Metric{Column: "diis", Patterns: []string{"DIIs"}},
	Metric{Column: "government", Patterns: []string{"Government"}},
	Metric{Column: "public", Patterns: []string{"Public"}},
	Metric{Column: "no_of_shareholders", Patterns: []string{"No. of Shareholders"}},
)

// NewShareholdingParser reads the quarterly shareholding pattern. The yearly tab of the same
// section is ignored.
func NewShareholdingParser(logger *zap.Logger) *TableParser {
	return &TableParser{
		family:     model.FamilyShareholding,
		dictionary: shareholdingDictionary,
		labelMode:  LabelNestedControl,
		locate:     containerTable(shareholdingSectionID, shareholdingQuarterlySelector, false),
		logger:     logger,
	}
}
