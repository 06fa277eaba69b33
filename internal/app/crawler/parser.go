package crawler

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

var _ StatementParser = &TableParser{}

// StatementParser turns a company page into one family's time series.
type StatementParser interface {
	Family() model.Family
	Schema() model.TableSchema
	Parse(symbol model.Symbol, doc *goquery.Document) (model.Statement, error)
}

// TableParser is the time-series pipeline shared by all table families:
// locate the table, read labels per LabelMode, align rows to the dictionary, assemble records.
type TableParser struct {
	family     model.Family
	dictionary Dictionary
	labelMode  LabelMode
	locate     Locator

	// links is set for families with a link column.
	links      func(doc *goquery.Document) []string
	linkColumn string

	logger *zap.Logger
}

func (p *TableParser) Family() model.Family {
	return p.family
}

func (p *TableParser) Schema() model.TableSchema {
	return model.TableSchema{
		Family:       p.family,
		PeriodColumn: model.PeriodColumn,
		Columns:      p.dictionary.Columns(),
		LinkColumn:   p.linkColumn,
	}
}

func (p *TableParser) Parse(symbol model.Symbol, doc *goquery.Document) (model.Statement, error) {
	ex, err := extractTable(doc, p.locate, p.labelMode)
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to extract %s table: %w", p.family, err)
	}

	matrix, unmatched := Align(len(ex.Periods), ex.Rows, p.dictionary)
	for _, label := range unmatched {
		p.logger.Debug("metric not matched", zap.String("symbol", string(symbol)), zap.String("label", label))
	}

	records := Assemble(ex.Periods, matrix)
	if p.links != nil {
		AttachLinks(records, p.links(doc))
	}

	return model.Statement{
		Symbol:  symbol,
		Family:  p.family,
		Schema:  p.Schema(),
		Records: records,
	}, nil
}
