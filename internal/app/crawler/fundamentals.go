package crawler

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	snapshotPanelSelector = "#top-ratios"
	snapshotEntrySelector = "li"
	snapshotNameSelector  = ".name"
	snapshotValueSelector = ".number"
)

// SnapshotPoint is one labeled data point of the summary panel and the column it is stored in.
type SnapshotPoint struct {
	Label  string
	Column string
}

var fundamentalPoints = []SnapshotPoint{
	{Label: "Market Cap", Column: "market_cap"},
	{Label: "Current Price", Column: "current_price"},
	{Label: "High / Low", Column: "high_low"},
	{Label: "Stock P/E", Column: "stock_pe"},
	{Label: "Book Value", Column: "book_value"},
	{Label: "Dividend Yield", Column: "dividend_yield"},
	{Label: "ROCE", Column: "roce"},
	{Label: "ROE", Column: "roe"},
	{Label: "Face Value", Column: "face_value"},
}

// SnapshotParser reads the fundamentals family: a single key/value panel instead of a time series.
type SnapshotParser struct {
	points []SnapshotPoint
	logger *zap.Logger
}

func NewSnapshotParser(logger *zap.Logger) *SnapshotParser {
	return &SnapshotParser{
		points: fundamentalPoints,
		logger: logger,
	}
}

func (p *SnapshotParser) Family() model.Family {
	return model.FamilyFundamentals
}

func (p *SnapshotParser) Schema() model.TableSchema {
	cols := make([]string, len(p.points))
	for i, pt := range p.points {
		cols[i] = pt.Column
	}

	return model.TableSchema{
		Family:    model.FamilyFundamentals,
		KeyColumn: model.SnapshotKeyColumn,
		Columns:   cols,
	}
}

// Parse resolves every data point by exact label match. Values stay display strings,
// absent points read model.SnapshotMissing.
func (p *SnapshotParser) Parse(symbol model.Symbol, doc *goquery.Document) (model.Snapshot, error) {
	panel := doc.Find(snapshotPanelSelector).First()
	if panel.Length() == 0 {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrPanelNotFound, snapshotPanelSelector)
	}

	entries := map[string]string{}
	panel.Find(snapshotEntrySelector).Each(func(_ int, li *goquery.Selection) {
		name := utils.NormalizeSpaces(li.Find(snapshotNameSelector).First().Text())
		if name == "" {
			return
		}
		if _, seen := entries[name]; seen {
			return
		}

		number := li.Find(snapshotValueSelector).First()
		if number.Length() == 0 {
			return
		}
		entries[name] = utils.NormalizeSpaces(number.Text())
	})

	snap := model.Snapshot{
		Symbol: symbol,
		Schema: p.Schema(),
		Fields: make([]model.SnapshotField, 0, len(p.points)),
	}
	for _, pt := range p.points {
		value, ok := entries[pt.Label]
		if !ok || value == "" {
			p.logger.Debug("data point not found", zap.String("symbol", string(symbol)), zap.String("label", pt.Label))
			value = model.SnapshotMissing
		}
		snap.Fields = append(snap.Fields, model.SnapshotField{Label: pt.Label, Column: pt.Column, Value: value})
	}

	return snap, nil
}
