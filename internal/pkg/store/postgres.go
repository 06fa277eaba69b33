package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"go.uber.org/zap"
)

var (
	_ Store = &PostgresStore{}
	_ DB    = (*pgxpool.Pool)(nil)
)

// DB is the part of a pgxpool.Pool the store writes through.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresStore struct {
	pool         DB
	skipExisting bool
	logger       *zap.Logger
}

// NewPostgres returns a store writing through pool. With skipExisting, periods already
// present in a table are not inserted again.
func NewPostgres(pool DB, skipExisting bool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		pool:         pool,
		skipExisting: skipExisting,
		logger:       logger,
	}
}

func (s *PostgresStore) InsertStatement(ctx context.Context, st model.Statement) (InsertResult, error) {
	table := model.TableName(st.Symbol, st.Family)
	res := InsertResult{Table: table}

	if _, err := s.pool.Exec(ctx, CreateTableSQL(table, st.Schema)); err != nil {
		return res, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	stored := map[string]bool{}
	if s.skipExisting {
		var err error
		if stored, err = s.existingPeriods(ctx, table, st.Schema); err != nil {
			return res, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	insert := InsertSQL(table, st.Schema)
	seen := map[string]bool{}
	for i, rec := range st.Records {
		replace := stored[rec.Period] && !seen[rec.Period] && isRolling(rec.Period)
		if seen[rec.Period] || (stored[rec.Period] && !replace) {
			res.Existing++
			continue
		}

		args, err := recordArgs(st.Schema, rec)
		if err == nil {
			var remove string
			if replace {
				remove = DeletePeriodSQL(table, st.Schema)
			}
			err = insertRow(ctx, tx, remove, insert, args)
		}
		if err != nil {
			s.logger.Error("failed to insert row",
				zap.String("table", table),
				zap.Int("row", i),
				zap.String("period", rec.Period),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}

		res.Inserted++
		if s.skipExisting {
			seen[rec.Period] = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("failed to commit %s: %w", table, err)
	}

	return res, nil
}

// insertRow runs the insert in a savepoint so a rejected row does not abort the surrounding
// transaction. A non-empty remove first deletes the stored rows of the record's period.
func insertRow(ctx context.Context, tx pgx.Tx, remove, insert string, args []any) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if remove != "" {
		if _, err := sp.Exec(ctx, remove, args[0]); err != nil {
			_ = sp.Rollback(ctx)
			return err
		}
	}

	if _, err := sp.Exec(ctx, insert, args...); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}

	return sp.Commit(ctx)
}

func (s *PostgresStore) existingPeriods(ctx context.Context, table string, schema model.TableSchema) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, ExistingPeriodsSQL(table, schema))
	if err != nil {
		return nil, fmt.Errorf("failed to query periods of %s: %w", table, err)
	}
	defer rows.Close()

	periods := map[string]bool{}
	for rows.Next() {
		var period *string
		if err := rows.Scan(&period); err != nil {
			return nil, fmt.Errorf("failed to scan period of %s: %w", table, err)
		}
		if period != nil {
			periods[*period] = true
		}
	}

	return periods, rows.Err()
}

func (s *PostgresStore) UpsertSnapshot(ctx context.Context, snap model.Snapshot) error {
	table := model.TableName(snap.Symbol, model.FamilyFundamentals)

	if _, err := s.pool.Exec(ctx, CreateTableSQL(table, snap.Schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	values := snapshotValues(snap)
	args := make([]any, 0, 1+len(values))
	args = append(args, string(snap.Symbol))
	for _, v := range values {
		args = append(args, v.Ptr())
	}

	if _, err := s.pool.Exec(ctx, UpsertSnapshotSQL(table, snap.Schema), args...); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", table, err)
	}

	s.logger.Debug("snapshot upserted", zap.String("table", table))
	return nil
}
