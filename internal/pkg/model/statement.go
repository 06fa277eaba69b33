package model

import (
	"strconv"
)

const (
	FamilyBalanceSheet Family = "balance_sheet"
	FamilyProfitLoss   Family = "profit_loss"
	FamilyQuarterly    Family = "quarterly"
	FamilyRatios       Family = "ratios"
	FamilyShareholding Family = "shareholding_pattern"
	FamilyFundamentals Family = "fundamental"

	// SnapshotMissing is stored for snapshot data points that are absent from the page.
	SnapshotMissing = "N/A"
)

type (
	// Family names one statement category. Its value doubles as the table suffix.
	Family string
	Symbol string
)

// Families lists every family in the order a run processes them.
func Families() []Family {
	return []Family{
		FamilyBalanceSheet,
		FamilyProfitLoss,
		FamilyQuarterly,
		FamilyRatios,
		FamilyShareholding,
		FamilyFundamentals,
	}
}

// IsTimeSeries reports whether the family is a period table rather than a single snapshot.
func (f Family) IsTimeSeries() bool {
	return f != FamilyFundamentals
}

// Value is a normalized cell: a float, or missing. Missing is distinct from zero.
type Value struct {
	Float float64
	Valid bool
}

func Missing() Value {
	return Value{}
}

func Number(f float64) Value {
	return Value{Float: f, Valid: true}
}

func (v Value) IsMissing() bool {
	return !v.Valid
}

// Ptr returns nil for missing values, which the store writes as NULL.
func (v Value) Ptr() *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float
	return &f
}

func (v Value) String() string {
	if !v.Valid {
		return "<missing>"
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// PeriodRecord is one destination row: a period label plus every canonical metric in fixed order.
type PeriodRecord struct {
	Period string
	Values []Value
	Link   *string // only for tables with a link column
}

// Statement is the extracted time series of one family for one symbol.
type Statement struct {
	Symbol  Symbol
	Family  Family
	Schema  TableSchema
	Records []PeriodRecord
}

type SnapshotField struct {
	Label  string
	Column string
	Value  string
}

// Snapshot holds the display strings of the summary panel for one symbol.
type Snapshot struct {
	Symbol Symbol
	Schema TableSchema
	Fields []SnapshotField
}
