package crawler

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yama6a/statement-scraper/internal/pkg/http"
	"github.com/yama6a/statement-scraper/internal/pkg/http/httpmock"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/store"
	"github.com/yama6a/statement-scraper/internal/pkg/store/storemock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var errConnectionReset = errors.New("connection reset by peer")

func testServiceConfig() ServiceConfig {
	return ServiceConfig{
		BaseURL:  "https://www.screener.in",
		PagePath: "/company/%s/",
		Retry: RetryPolicy{
			MaxAttempts:    3,
			InitialBackoff: 10 * time.Second,
			MaxBackoff:     time.Minute,
			Multiplier:     2,
		},
	}
}

// pageServer serves the golden page for every symbol unless fail says otherwise.
type pageServer struct {
	mu    sync.Mutex
	page  string
	calls map[string]int
	fail  func(symbol string, call int) error
}

func newPageServer(t *testing.T, fail func(symbol string, call int) error) *pageServer {
	t.Helper()
	return &pageServer{
		page:  LoadGoldenFile(t, companyPageFile),
		calls: map[string]int{},
		fail:  fail,
	}
}

func (p *pageServer) client() *httpmock.ClientMock {
	return &httpmock.ClientMock{
		FetchFunc: func(_ context.Context, url string, _ map[string]string) (string, error) {
			symbol := strings.TrimSuffix(strings.TrimPrefix(url, "https://www.screener.in/company/"), "/")

			p.mu.Lock()
			p.calls[symbol]++
			call := p.calls[symbol]
			p.mu.Unlock()

			if p.fail != nil {
				if err := p.fail(symbol, call); err != nil {
					return "", err
				}
			}
			return p.page, nil
		},
	}
}

func (p *pageServer) callsFor(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[symbol]
}

func newTestService(t *testing.T, client http.Client, s store.Store, waits *[]time.Duration) *Service {
	t.Helper()
	return newTestServiceWithLogger(t, client, s, waits, zaptest.NewLogger(t))
}

func newTestServiceWithLogger(
	t *testing.T,
	client http.Client,
	s store.Store,
	waits *[]time.Duration,
	logger *zap.Logger,
) *Service {
	t.Helper()

	parsers, snapshot, err := NewParsers(model.Families(), mustURL(t, "https://www.screener.in"), logger)
	if err != nil {
		t.Fatalf("NewParsers() error = %v", err)
	}

	svc := NewService(client, s, parsers, snapshot, testServiceConfig(), logger)
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
	return svc
}

func TestService_Run(t *testing.T) {
	t.Parallel()

	pages := newPageServer(t, nil)
	mem := store.NewMemoryStore(true, zap.NewNop())
	var waits []time.Duration
	svc := newTestService(t, pages.client(), mem, &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"TCS", "3MINDIA"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := Summary{
		Symbols:      2,
		Statements:   10,
		RowsInserted: 24, // 2 + 3 + 3 + 2 + 2 per symbol
		Snapshots:    2,
	}
	if !equalSummary(sum, want) {
		t.Errorf("Run() summary = %+v, want %+v", sum, want)
	}
	if len(waits) != 0 {
		t.Errorf("waits = %v, want none", waits)
	}

	// the page is fetched once per symbol and shared by all families
	for _, symbol := range []string{"TCS", "3MINDIA"} {
		if got := pages.callsFor(symbol); got != 1 {
			t.Errorf("fetches of %s = %d, want 1", symbol, got)
		}
	}

	wantTables := []string{
		"stock_3mindia_balance_sheet",
		"stock_3mindia_fundamental",
		"stock_3mindia_profit_loss",
		"stock_3mindia_quarterly",
		"stock_3mindia_ratios",
		"stock_3mindia_shareholding_pattern",
		"tcs_balance_sheet",
		"tcs_fundamental",
		"tcs_profit_loss",
		"tcs_quarterly",
		"tcs_ratios",
		"tcs_shareholding_pattern",
	}
	if got := mem.Tables(); !slices.Equal(got, wantTables) {
		t.Errorf("Tables() = %v, want %v", got, wantTables)
	}

	quarterly := mem.Records("tcs_quarterly")
	if len(quarterly) != 3 {
		t.Fatalf("quarterly records = %d, want 3", len(quarterly))
	}
	wantLink := "https://www.screener.in/company/source/quarter/3365/6/2024/"
	if quarterly[0].Link == nil || *quarterly[0].Link != wantLink {
		t.Errorf("first quarterly link = %v, want %q", quarterly[0].Link, wantLink)
	}

	snap, ok := mem.Snapshot("tcs_fundamental", "TCS")
	if !ok {
		t.Fatal("no snapshot stored for TCS")
	}
	if snap[0] != model.Number(1352345) {
		t.Errorf("market cap = %v, want 1352345", snap[0])
	}

	// a second run finds the dated periods stored and only refreshes TTM
	sum, err = svc.Run(context.Background(), []model.Symbol{"TCS"})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if sum.RowsInserted != 1 || sum.RowsExisting != 11 || sum.Snapshots != 1 {
		t.Errorf("second Run() summary = %+v, want 1 inserted, 11 existing, 1 snapshot", sum)
	}
	if got := mem.Records("tcs_profit_loss"); len(got) != 3 {
		t.Errorf("profit and loss records after second run = %d, want 3", len(got))
	}
}

func TestService_Run_RetriesFundamentals(t *testing.T) {
	t.Parallel()

	pages := newPageServer(t, func(symbol string, call int) error {
		if symbol == "INFY" && call < 3 {
			return errConnectionReset
		}
		return nil
	})
	mem := store.NewMemoryStore(true, zap.NewNop())
	var waits []time.Duration
	svc := newTestService(t, pages.client(), mem, &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"TCS", "INFY"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.FetchFailed != 1 {
		t.Errorf("FetchFailed = %d, want 1", sum.FetchFailed)
	}
	if sum.Statements != 5 { // INFY time series are not retried
		t.Errorf("Statements = %d, want 5", sum.Statements)
	}
	if sum.Snapshots != 2 {
		t.Errorf("Snapshots = %d, want 2", sum.Snapshots)
	}
	if len(sum.Abandoned) != 0 {
		t.Errorf("Abandoned = %v, want none", sum.Abandoned)
	}
	if want := []time.Duration{10 * time.Second, 20 * time.Second}; !slices.Equal(waits, want) {
		t.Errorf("waits = %v, want %v", waits, want)
	}
	if got := pages.callsFor("INFY"); got != 3 {
		t.Errorf("fetches of INFY = %d, want 3", got)
	}
	if got := pages.callsFor("TCS"); got != 1 {
		t.Errorf("fetches of TCS = %d, want 1", got)
	}

	if _, ok := mem.Snapshot("infy_fundamental", "INFY"); !ok {
		t.Error("no snapshot stored for INFY")
	}
	if got := mem.Records("infy_balance_sheet"); len(got) != 0 {
		t.Errorf("INFY balance sheet records = %d, want 0", len(got))
	}
}

func TestService_Run_RetriesExhausted(t *testing.T) {
	t.Parallel()

	pages := newPageServer(t, func(symbol string, _ int) error {
		if symbol == "GONE" {
			return errConnectionReset
		}
		return nil
	})
	var waits []time.Duration
	svc := newTestService(t, pages.client(), store.NewMemoryStore(true, zap.NewNop()), &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"GONE", "TCS"})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Run() error = %v, want %v", err, ErrRetriesExhausted)
	}

	if want := []model.Symbol{"GONE"}; !slices.Equal(sum.Abandoned, want) {
		t.Errorf("Abandoned = %v, want %v", sum.Abandoned, want)
	}
	if got := pages.callsFor("GONE"); got != 3 {
		t.Errorf("fetches of GONE = %d, want 3", got)
	}
	if len(waits) != 2 {
		t.Errorf("waits = %v, want 2", waits)
	}
	if sum.Snapshots != 1 || sum.Statements != 5 {
		t.Errorf("summary = %+v, want 1 snapshot and 5 statements", sum)
	}
}

func TestService_Run_MissingPanelIsRetried(t *testing.T) {
	t.Parallel()

	page := LoadGoldenFile(t, companyPageFile)
	noPanel := strings.Replace(page, `id="top-ratios"`, `id="other-ratios"`, 1)
	client := &httpmock.ClientMock{
		FetchFunc: func(context.Context, string, map[string]string) (string, error) {
			return noPanel, nil
		},
	}
	var waits []time.Duration
	svc := newTestService(t, client, store.NewMemoryStore(true, zap.NewNop()), &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"TCS"})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Run() error = %v, want %v", err, ErrRetriesExhausted)
	}
	if sum.Statements != 5 || sum.Snapshots != 0 {
		t.Errorf("summary = %+v, want 5 statements and no snapshot", sum)
	}
	if got := len(client.FetchCalls()); got != 3 {
		t.Errorf("fetches = %d, want 3", got)
	}
}

func TestService_Run_MissingSectionSkipsOnlyThatFamily(t *testing.T) {
	t.Parallel()

	page := LoadGoldenFile(t, companyPageFile)
	noRatios := strings.Replace(page, `<section id="ratios"`, `<section id="ratios-hidden"`, 1)
	client := &httpmock.ClientMock{
		FetchFunc: func(context.Context, string, map[string]string) (string, error) {
			return noRatios, nil
		},
	}
	mem := store.NewMemoryStore(true, zap.NewNop())
	var waits []time.Duration
	svc := newTestService(t, client, mem, &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"TCS"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Statements != 4 || sum.Snapshots != 1 {
		t.Errorf("summary = %+v, want 4 statements and 1 snapshot", sum)
	}
	if slices.Contains(mem.Tables(), "tcs_ratios") {
		t.Errorf("Tables() = %v, want no tcs_ratios", mem.Tables())
	}
}

func TestService_Run_StoreFailuresAreNotRetried(t *testing.T) {
	t.Parallel()

	pages := newPageServer(t, nil)
	st := &storemock.StoreMock{
		InsertStatementFunc: func(_ context.Context, s model.Statement) (store.InsertResult, error) {
			return store.InsertResult{Table: model.TableName(s.Symbol, s.Family)}, errors.New("connection refused")
		},
		UpsertSnapshotFunc: func(context.Context, model.Snapshot) error {
			return errors.New("connection refused")
		},
	}
	var waits []time.Duration
	svc := newTestService(t, pages.client(), st, &waits)

	sum, err := svc.Run(context.Background(), []model.Symbol{"TCS"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.Statements != 0 || sum.Snapshots != 0 {
		t.Errorf("summary = %+v, want nothing stored", sum)
	}
	if len(waits) != 0 {
		t.Errorf("waits = %v, want none", waits)
	}
	if got := len(st.InsertStatementCalls()); got != 5 {
		t.Errorf("InsertStatement calls = %d, want 5", got)
	}
	if got := len(st.UpsertSnapshotCalls()); got != 1 {
		t.Errorf("UpsertSnapshot calls = %d, want 1", got)
	}
	if got := pages.callsFor("TCS"); got != 1 {
		t.Errorf("fetches of TCS = %d, want 1", got)
	}

	first := st.InsertStatementCalls()[0].St
	if first.Family != model.FamilyBalanceSheet || first.Symbol != "TCS" {
		t.Errorf("first statement = %s/%s, want TCS/%s", first.Symbol, first.Family, model.FamilyBalanceSheet)
	}
}

func TestService_Run_Cancelled(t *testing.T) {
	t.Parallel()

	pages := newPageServer(t, nil)
	core, logs := observer.New(zapcore.InfoLevel)
	var waits []time.Duration
	svc := newTestServiceWithLogger(t, pages.client(), store.NewMemoryStore(true, zap.NewNop()), &waits, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := svc.Run(ctx, []model.Symbol{"TCS"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if got := pages.callsFor("TCS"); got != 0 {
		t.Errorf("fetches of TCS = %d, want 0", got)
	}
	if want := []model.Symbol{"TCS"}; !slices.Equal(sum.Abandoned, want) {
		t.Errorf("Abandoned = %v, want %v", sum.Abandoned, want)
	}
	if got := logs.FilterMessage("run finished").Len(); got != 1 {
		t.Errorf("run finished logged %d times, want 1", got)
	}
}

func TestService_Run_CancelledMidRoster(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pages := newPageServer(t, func(symbol string, _ int) error {
		if symbol == "INFY" {
			cancel()
			return context.Canceled
		}
		return nil
	})
	core, logs := observer.New(zapcore.InfoLevel)
	var waits []time.Duration
	svc := newTestServiceWithLogger(t, pages.client(), store.NewMemoryStore(true, zap.NewNop()), &waits, zap.New(core))

	sum, err := svc.Run(ctx, []model.Symbol{"TCS", "INFY", "WIPRO"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if sum.Snapshots != 1 || sum.Statements != 5 {
		t.Errorf("summary = %+v, want TCS fully stored", sum)
	}
	if want := []model.Symbol{"INFY", "WIPRO"}; !slices.Equal(sum.Abandoned, want) {
		t.Errorf("Abandoned = %v, want %v", sum.Abandoned, want)
	}
	if got := pages.callsFor("WIPRO"); got != 0 {
		t.Errorf("fetches of WIPRO = %d, want 0", got)
	}

	finished := logs.FilterMessage("run finished").All()
	if len(finished) != 1 {
		t.Fatalf("run finished logged %d times, want 1", len(finished))
	}
	if got := finished[0].ContextMap()["abandoned"]; got != int64(2) {
		t.Errorf("logged abandoned = %v, want 2", got)
	}
}

func TestService_PageURL(t *testing.T) {
	t.Parallel()

	cfg := testServiceConfig()
	cfg.BaseURL = "https://www.screener.in/"
	svc := NewService(&httpmock.ClientMock{}, &storemock.StoreMock{}, nil, nil, cfg, zap.NewNop())

	tests := []struct {
		symbol model.Symbol
		want   string
	}{
		{symbol: "TCS", want: "https://www.screener.in/company/TCS/"},
		{symbol: "A/B", want: "https://www.screener.in/company/A%2FB/"},
		{symbol: "M M", want: "https://www.screener.in/company/M%20M/"},
	}
	for _, tt := range tests {
		tt := tt
		if got := svc.PageURL(tt.symbol); got != tt.want {
			t.Errorf("PageURL(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func equalSummary(got, want Summary) bool {
	return got.Symbols == want.Symbols &&
		got.FetchFailed == want.FetchFailed &&
		got.Statements == want.Statements &&
		got.RowsInserted == want.RowsInserted &&
		got.RowsSkipped == want.RowsSkipped &&
		got.RowsExisting == want.RowsExisting &&
		got.Snapshots == want.Snapshots &&
		slices.Equal(got.Abandoned, want.Abandoned)
}
