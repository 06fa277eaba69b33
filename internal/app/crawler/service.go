package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/yama6a/statement-scraper/internal/pkg/http"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/store"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ServiceConfig struct {
	BaseURL string
	// PagePath is a format string taking the path-escaped symbol, e.g. "/company/%s/".
	PagePath    string
	SymbolDelay time.Duration
	Retry       RetryPolicy
}

// Summary counts the outcome of one run.
type Summary struct {
	Symbols      int
	FetchFailed  int
	Statements   int
	RowsInserted int
	RowsSkipped  int
	RowsExisting int
	Snapshots    int
	Abandoned    []model.Symbol
}

type Service struct {
	httpClient http.Client
	store      store.Store
	parsers    []StatementParser
	snapshot   *SnapshotParser
	cfg        ServiceConfig
	limiter    *rate.Limiter
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// NewService wires a run. snapshot may be nil, which disables the fundamentals collector.
func NewService(
	httpClient http.Client,
	s store.Store,
	parsers []StatementParser,
	snapshot *SnapshotParser,
	cfg ServiceConfig,
	logger *zap.Logger,
) *Service {
	limit := rate.Inf
	if cfg.SymbolDelay > 0 {
		limit = rate.Every(cfg.SymbolDelay)
	}

	return &Service{
		httpClient: httpClient,
		store:      s,
		parsers:    parsers,
		snapshot:   snapshot,
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		sleep:      sleepContext,
		logger:     logger,
	}
}

// Run processes every symbol once for the time-series families, then collects fundamentals
// with retries. Symbols are handled one at a time, a failure in one never affects another.
func (s *Service) Run(ctx context.Context, symbols []model.Symbol) (Summary, error) {
	logger := s.logger.With(zap.String("run", uuid.NewString()))
	logger.Info("run started", zap.Int("symbols", len(symbols)), zap.Int("families", s.familyCount()))

	sum := Summary{Symbols: len(symbols)}
	var pending []model.Symbol

	for i, symbol := range symbols {
		doc, err := s.fetchPage(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				if s.snapshot != nil {
					sum.Abandoned = append(pending, symbols[i:]...)
				}
				logSummary(logger, sum)
				return sum, ctx.Err()
			}
			logger.Warn("skipping symbol", zap.String("symbol", string(symbol)), zap.Error(err))
			sum.FetchFailed++
			if s.snapshot != nil {
				pending = append(pending, symbol)
			}
			continue
		}

		for _, p := range s.parsers {
			s.collectStatement(ctx, logger, p, symbol, doc, &sum)
		}

		if s.snapshot != nil && !s.collectSnapshot(ctx, logger, symbol, doc, &sum) {
			pending = append(pending, symbol)
		}
	}

	err := s.retrySnapshots(ctx, logger, pending, &sum)
	logSummary(logger, sum)

	return sum, err
}

func logSummary(logger *zap.Logger, sum Summary) {
	logger.Info("run finished",
		zap.Int("symbols", sum.Symbols),
		zap.Int("fetchFailed", sum.FetchFailed),
		zap.Int("statements", sum.Statements),
		zap.Int("rowsInserted", sum.RowsInserted),
		zap.Int("rowsSkipped", sum.RowsSkipped),
		zap.Int("rowsExisting", sum.RowsExisting),
		zap.Int("snapshots", sum.Snapshots),
		zap.Int("abandoned", len(sum.Abandoned)),
	)
}

func (s *Service) familyCount() int {
	if s.snapshot != nil {
		return len(s.parsers) + 1
	}
	return len(s.parsers)
}

func (s *Service) collectStatement(
	ctx context.Context,
	logger *zap.Logger,
	p StatementParser,
	symbol model.Symbol,
	doc *goquery.Document,
	sum *Summary,
) {
	fields := []zap.Field{zap.String("symbol", string(symbol)), zap.String("family", string(p.Family()))}

	st, err := p.Parse(symbol, doc)
	if err != nil {
		logger.Warn("skipping family", append(fields, zap.Error(err))...)
		return
	}

	res, err := s.store.InsertStatement(ctx, st)
	sum.RowsInserted += res.Inserted
	sum.RowsSkipped += res.Skipped
	sum.RowsExisting += res.Existing
	if err != nil {
		logger.Error("failed to store statement", append(fields, zap.Error(err))...)
		return
	}

	sum.Statements++
	logger.Debug("statement stored", append(fields,
		zap.String("table", res.Table),
		zap.Int("periods", len(st.Records)),
		zap.Int("inserted", res.Inserted),
	)...)
}

// collectSnapshot reports false when the symbol should be retried. Persistence failures are final.
func (s *Service) collectSnapshot(
	ctx context.Context,
	logger *zap.Logger,
	symbol model.Symbol,
	doc *goquery.Document,
	sum *Summary,
) bool {
	snap, err := s.snapshot.Parse(symbol, doc)
	if err != nil {
		logger.Warn("failed to extract fundamentals", zap.String("symbol", string(symbol)), zap.Error(err))
		return false
	}

	if err := s.store.UpsertSnapshot(ctx, snap); err != nil {
		logger.Error("failed to store fundamentals", zap.String("symbol", string(symbol)), zap.Error(err))
		return true
	}

	sum.Snapshots++
	return true
}

// retrySnapshots re-runs the fundamentals collector over the failed symbols until none remain
// or the attempt budget is spent.
func (s *Service) retrySnapshots(ctx context.Context, logger *zap.Logger, remaining []model.Symbol, sum *Summary) error {
	if s.snapshot == nil || len(remaining) == 0 {
		return nil
	}

	logger = logger.Named("fundamentals")
	waits := s.cfg.Retry.NewBackOff()
	for attempt := 2; attempt <= s.cfg.Retry.MaxAttempts && len(remaining) > 0; attempt++ {
		wait := waits.NextBackOff()
		logger.Info("retrying fundamentals",
			zap.Int("attempt", attempt),
			zap.Int("remaining", len(remaining)),
			zap.Duration("backoff", wait),
		)
		if err := s.sleep(ctx, wait); err != nil {
			sum.Abandoned = remaining
			return err
		}

		var failed []model.Symbol
		for i, symbol := range remaining {
			doc, err := s.fetchPage(ctx, symbol)
			if err != nil {
				if ctx.Err() != nil {
					sum.Abandoned = append(failed, remaining[i:]...)
					return ctx.Err()
				}
				logger.Warn("failed to fetch page", zap.String("symbol", string(symbol)), zap.Error(err))
				failed = append(failed, symbol)
				continue
			}
			if !s.collectSnapshot(ctx, logger, symbol, doc, sum) {
				failed = append(failed, symbol)
			}
		}
		remaining = failed
	}

	if len(remaining) == 0 {
		return nil
	}

	sum.Abandoned = remaining
	abandoned := make([]string, len(remaining))
	for i, symbol := range remaining {
		abandoned[i] = string(symbol)
	}
	logger.Error("giving up on fundamentals", zap.Strings("symbols", abandoned))

	return fmt.Errorf("%w: %d symbols after %d attempts", ErrRetriesExhausted, len(remaining), s.cfg.Retry.MaxAttempts)
}

func (s *Service) fetchPage(ctx context.Context, symbol model.Symbol) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := s.PageURL(symbol)
	body, err := s.httpClient.Fetch(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	return utils.ParseDocument(body)
}

// PageURL returns the company page of a symbol.
func (s *Service) PageURL(symbol model.Symbol) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + fmt.Sprintf(s.cfg.PagePath, url.PathEscape(string(symbol)))
}
