// Package store persists extracted statements and snapshots into per-symbol tables.
//
//go:generate go run -mod=mod github.com/matryer/moq -out storemock/store_mock.go -pkg storemock . Store
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

var ErrRowWidth = errors.New("record width does not match table schema")

var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// Store writes one family's data for one symbol into the table derived from both.
type Store interface {
	// InsertStatement creates the table if absent and appends the statement's records.
	// Failing rows are skipped and counted, the remaining rows are still committed.
	InsertStatement(ctx context.Context, st model.Statement) (InsertResult, error)

	// UpsertSnapshot creates the table if absent and inserts or replaces the symbol's row.
	UpsertSnapshot(ctx context.Context, snap model.Snapshot) error
}

// InsertResult counts what happened to the records of one statement.
type InsertResult struct {
	Table    string
	Inserted int
	Skipped  int // malformed or rejected by the store
	Existing int // period already present in the table
}

// isRolling reports whether a period label names a moving window such as "TTM" rather than a
// dated period. Rolling periods are replaced instead of kept when they are already stored.
func isRolling(period string) bool {
	return !yearPattern.MatchString(period)
}

// recordArgs lays a record out in column order: period, metrics, then the link if the schema has one.
func recordArgs(schema model.TableSchema, rec model.PeriodRecord) ([]any, error) {
	if len(rec.Values) != len(schema.Columns) {
		return nil, fmt.Errorf("%w: %d values for %d columns", ErrRowWidth, len(rec.Values), len(schema.Columns))
	}
	if rec.Link != nil && schema.LinkColumn == "" {
		return nil, fmt.Errorf("%w: link without link column", ErrRowWidth)
	}

	args := make([]any, 0, 1+schema.Width())
	args = append(args, rec.Period)
	for _, v := range rec.Values {
		args = append(args, v.Ptr())
	}
	if schema.LinkColumn != "" {
		args = append(args, rec.Link)
	}

	return args, nil
}

// snapshotValues coerces the snapshot's display strings into column order.
// Missing and unparseable points become missing values.
func snapshotValues(snap model.Snapshot) []model.Value {
	byColumn := make(map[string]string, len(snap.Fields))
	for _, f := range snap.Fields {
		byColumn[f.Column] = f.Value
	}

	values := make([]model.Value, len(snap.Schema.Columns))
	for i, col := range snap.Schema.Columns {
		raw, ok := byColumn[col]
		if !ok || raw == model.SnapshotMissing {
			continue
		}
		values[i] = utils.ParseNumeric(raw)
	}

	return values
}
