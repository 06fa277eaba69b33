package crawler

import (
	"os"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

// LoadGoldenFile loads a golden file from disk and returns its contents as a string.
// The filename should be relative to the test's working directory (typically the package directory).
func LoadGoldenFile(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", filename, err)
	}
	return string(data)
}

// LoadGoldenDocument loads and parses a golden HTML page.
func LoadGoldenDocument(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	return ParseTestDocument(t, LoadGoldenFile(t, filename))
}

// ParseTestDocument parses inline markup and fails the test on error.
func ParseTestDocument(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := utils.ParseDocument(rawHTML)
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

// ColumnValues returns one metric column across all records of a statement.
func ColumnValues(t *testing.T, st model.Statement, column string) []model.Value {
	t.Helper()
	for i, c := range st.Schema.Columns {
		if c != column {
			continue
		}
		values := make([]model.Value, len(st.Records))
		for r, rec := range st.Records {
			values[r] = rec.Values[i]
		}
		return values
	}

	t.Fatalf("column %q not in schema of %s", column, st.Family)
	return nil
}

// AssertRecordShape checks that every record carries exactly one value per schema column.
func AssertRecordShape(t *testing.T, st model.Statement) {
	t.Helper()
	for _, rec := range st.Records {
		if len(rec.Values) != len(st.Schema.Columns) {
			t.Errorf("record %q has %d values, want %d", rec.Period, len(rec.Values), len(st.Schema.Columns))
		}
		if rec.Link != nil && st.Schema.LinkColumn == "" {
			t.Errorf("record %q has a link but %s has no link column", rec.Period, st.Family)
		}
	}
}

// AssertPeriods checks the period labels of a statement in order.
func AssertPeriods(t *testing.T, st model.Statement, want ...string) {
	t.Helper()
	if len(st.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(st.Records), len(want))
	}
	for i, rec := range st.Records {
		if rec.Period != want[i] {
			t.Errorf("record %d period = %q, want %q", i, rec.Period, want[i])
		}
	}
}
