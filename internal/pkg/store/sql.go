package store

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
)

const (
	periodColumnType = "VARCHAR(20)"
	metricColumnType = "NUMERIC"
	textColumnType   = "TEXT"
)

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// CreateTableSQL returns the create-if-absent DDL for a family table.
func CreateTableSQL(table string, schema model.TableSchema) string {
	var cols []string
	if schema.KeyColumn != "" {
		cols = append(cols, quote(schema.KeyColumn)+" "+textColumnType+" PRIMARY KEY")
	} else {
		cols = append(cols, "id SERIAL PRIMARY KEY", quote(schema.PeriodColumn)+" "+periodColumnType)
	}
	for _, c := range schema.Columns {
		cols = append(cols, quote(c)+" "+metricColumnType)
	}
	if schema.LinkColumn != "" {
		cols = append(cols, quote(schema.LinkColumn)+" "+textColumnType)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(table), strings.Join(cols, ", "))
}

// InsertSQL returns the parameterized insert for one period record, see recordArgs for the argument order.
func InsertSQL(table string, schema model.TableSchema) string {
	cols := []string{quote(schema.PeriodColumn)}
	for _, c := range schema.Columns {
		cols = append(cols, quote(c))
	}
	if schema.LinkColumn != "" {
		cols = append(cols, quote(schema.LinkColumn))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(cols, ", "), placeholders(len(cols)))
}

// UpsertSnapshotSQL returns the insert-or-replace statement keyed by the snapshot key column.
func UpsertSnapshotSQL(table string, schema model.TableSchema) string {
	cols := []string{quote(schema.KeyColumn)}
	updates := make([]string, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		cols = append(cols, quote(c))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", quote(c), quote(c)))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		quote(table),
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		quote(schema.KeyColumn),
		strings.Join(updates, ", "),
	)
}

// ExistingPeriodsSQL selects the period labels already stored in a time-series table.
func ExistingPeriodsSQL(table string, schema model.TableSchema) string {
	return fmt.Sprintf("SELECT %s FROM %s", quote(schema.PeriodColumn), quote(table))
}

// DeletePeriodSQL removes the rows of one period label, $1, from a time-series table.
func DeletePeriodSQL(table string, schema model.TableSchema) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", quote(table), quote(schema.PeriodColumn))
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}
