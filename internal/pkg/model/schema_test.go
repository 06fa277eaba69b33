package model

import "testing"

func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol Symbol
		family Family
		want   string
	}{
		{name: "plain symbol", symbol: "RELIANCE", family: FamilyBalanceSheet, want: "reliance_balance_sheet"},
		{name: "leading digit gets prefix", symbol: "3MINDIA", family: FamilyFundamentals, want: "stock_3mindia_fundamental"},
		{name: "dash normalized", symbol: "BAJAJ-AUTO", family: FamilyRatios, want: "bajaj_auto_ratios"},
		{name: "dot and ampersand normalized", symbol: "M&M.NS", family: FamilyQuarterly, want: "m_m_ns_quarterly"},
		{name: "digit after normalization", symbol: "360ONE", family: FamilyShareholding, want: "stock_360one_shareholding_pattern"},
		{name: "surrounding whitespace ignored", symbol: " tcs ", family: FamilyProfitLoss, want: "tcs_profit_loss"},
		{name: "empty symbol still valid identifier", symbol: "", family: FamilyRatios, want: "stock__ratios"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TableName(tt.symbol, tt.family); got != tt.want {
				t.Errorf("TableName(%q, %q) = %q, want %q", tt.symbol, tt.family, got, tt.want)
			}
		})
	}
}

func TestTableName_NeverStartsWithDigit(t *testing.T) {
	t.Parallel()

	for _, sym := range []Symbol{"3MINDIA", "5PAISA", "20MICRONS", "0"} {
		for _, fam := range Families() {
			got := TableName(sym, fam)
			if got[0] >= '0' && got[0] <= '9' {
				t.Errorf("TableName(%q, %q) = %q starts with a digit", sym, fam, got)
			}
		}
	}
}

func TestTableSchema_Width(t *testing.T) {
	t.Parallel()

	plain := TableSchema{Columns: []string{"a", "b"}}
	if got := plain.Width(); got != 2 {
		t.Errorf("Width() = %d, want 2", got)
	}

	linked := TableSchema{Columns: []string{"a", "b"}, LinkColumn: "raw_pdf_link"}
	if got := linked.Width(); got != 3 {
		t.Errorf("Width() with link column = %d, want 3", got)
	}
}

func TestValue(t *testing.T) {
	t.Parallel()

	if !Missing().IsMissing() {
		t.Error("Missing().IsMissing() = false, want true")
	}
	if Missing().Ptr() != nil {
		t.Error("Missing().Ptr() should be nil")
	}

	v := Number(0)
	if v.IsMissing() {
		t.Error("Number(0) must not be missing")
	}
	if p := v.Ptr(); p == nil || *p != 0 {
		t.Errorf("Number(0).Ptr() = %v, want pointer to 0", p)
	}
	if got := Number(1200).String(); got != "1200" {
		t.Errorf("Number(1200).String() = %q, want %q", got, "1200")
	}
}

func TestFamily_IsTimeSeries(t *testing.T) {
	t.Parallel()

	for _, f := range Families() {
		want := f != FamilyFundamentals
		if got := f.IsTimeSeries(); got != want {
			t.Errorf("%s.IsTimeSeries() = %v, want %v", f, got, want)
		}
	}
}
