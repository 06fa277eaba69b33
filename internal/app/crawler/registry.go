package crawler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

var ErrUnknownFamily = errors.New("unknown statement family")

// NewParsers builds the parsers for the requested families in run order. The returned
// snapshot parser is nil unless the fundamentals family is requested.
func NewParsers(families []model.Family, baseURL *url.URL, logger *zap.Logger) ([]StatementParser, *SnapshotParser, error) {
	wanted := map[model.Family]bool{}
	for _, f := range families {
		wanted[f] = true
	}

	known := map[model.Family]bool{}
	for _, f := range model.Families() {
		known[f] = true
	}
	for f := range wanted {
		if !known[f] {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFamily, f)
		}
	}

	var (
		parsers  []StatementParser
		snapshot *SnapshotParser
	)
	for _, f := range model.Families() {
		if !wanted[f] {
			continue
		}

		named := logger.Named(string(f))
		if !f.IsTimeSeries() {
			snapshot = NewSnapshotParser(named)
			continue
		}

		switch f {
		case model.FamilyBalanceSheet:
			parsers = append(parsers, NewBalanceSheetParser(named))
		case model.FamilyProfitLoss:
			parsers = append(parsers, NewProfitLossParser(named))
		case model.FamilyQuarterly:
			parsers = append(parsers, NewQuarterlyParser(baseURL, named))
		case model.FamilyRatios:
			parsers = append(parsers, NewRatiosParser(named))
		case model.FamilyShareholding:
			parsers = append(parsers, NewShareholdingParser(named))
		}
	}

	return parsers, snapshot, nil
}
