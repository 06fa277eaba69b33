package store

import (
	"context"
	"sort"
	"sync"

	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

var _ Store = &MemoryStore{}

// MemoryStore keeps tables in memory. It follows the same contract as PostgresStore:
// the first write defines a table's schema, and records that do not fit it are skipped.
type MemoryStore struct {
	mu           sync.Mutex
	skipExisting bool
	logger       *zap.Logger

	schemas   map[string]model.TableSchema
	records   map[string][]model.PeriodRecord
	snapshots map[string]map[model.Symbol][]model.Value
}

func NewMemoryStore(skipExisting bool, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		skipExisting: skipExisting,
		logger:       logger,
		schemas:      map[string]model.TableSchema{},
		records:      map[string][]model.PeriodRecord{},
		snapshots:    map[string]map[model.Symbol][]model.Value{},
	}
}

func (s *MemoryStore) InsertStatement(_ context.Context, st model.Statement) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := model.TableName(st.Symbol, st.Family)
	res := InsertResult{Table: table}
	schema := s.ensureTable(table, st.Schema)

	stored := map[string]bool{}
	if s.skipExisting {
		for _, rec := range s.records[table] {
			stored[rec.Period] = true
		}
	}

	seen := map[string]bool{}
	for i, rec := range st.Records {
		replace := stored[rec.Period] && !seen[rec.Period] && isRolling(rec.Period)
		if seen[rec.Period] || (stored[rec.Period] && !replace) {
			res.Existing++
			continue
		}
		if _, err := recordArgs(schema, rec); err != nil {
			s.logger.Error("failed to insert row",
				zap.String("table", table),
				zap.Int("row", i),
				zap.String("period", rec.Period),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}

		if replace {
			s.removePeriod(table, rec.Period)
		}
		s.records[table] = append(s.records[table], rec)
		res.Inserted++
		if s.skipExisting {
			seen[rec.Period] = true
		}
	}

	s.logger.Debug("statement stored", zap.String("table", table), zap.Int("inserted", res.Inserted))
	return res, nil
}

func (s *MemoryStore) UpsertSnapshot(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := model.TableName(snap.Symbol, model.FamilyFundamentals)
	s.ensureTable(table, snap.Schema)

	if s.snapshots[table] == nil {
		s.snapshots[table] = map[model.Symbol][]model.Value{}
	}
	s.snapshots[table][snap.Symbol] = snapshotValues(snap)

	return nil
}

func (s *MemoryStore) removePeriod(table, period string) {
	kept := s.records[table][:0]
	for _, rec := range s.records[table] {
		if rec.Period != period {
			kept = append(kept, rec)
		}
	}
	s.records[table] = kept
}

func (s *MemoryStore) ensureTable(table string, schema model.TableSchema) model.TableSchema {
	if existing, ok := s.schemas[table]; ok {
		return existing
	}
	s.schemas[table] = schema
	return schema
}

// Tables returns the names of all tables created so far, sorted.
func (s *MemoryStore) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns a copy of the records stored in a time-series table.
func (s *MemoryStore) Records(table string) []model.PeriodRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.PeriodRecord(nil), s.records[table]...)
}

// Snapshot returns the coerced snapshot row of a symbol.
func (s *MemoryStore) Snapshot(table string, symbol model.Symbol) ([]model.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.snapshots[table][symbol]
	return values, ok
}
