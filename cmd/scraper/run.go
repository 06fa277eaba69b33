package main

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/yama6a/statement-scraper/internal/app/crawler"
	"github.com/yama6a/statement-scraper/internal/pkg/config"
	"github.com/yama6a/statement-scraper/internal/pkg/http"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/roster"
	"github.com/yama6a/statement-scraper/internal/pkg/store"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [SYMBOL...]",
	Short: "Scrape the given symbols, or the configured roster",
	Long: `Fetches every symbol's company page, extracts the enabled statement families and
writes them to their tables. Symbols given as arguments replace the configured roster.
With a schedule the run repeats until interrupted.`,
	RunE: runScraper,
}

var (
	runFamilies []string
	runRoster   string
	runSchedule string
	runDryRun   bool
)

func init() {
	runCmd.Flags().StringSliceVar(&runFamilies, "families", nil, "families to scrape (default all)")
	runCmd.Flags().StringVar(&runRoster, "roster", "", "roster file (.yaml, .yml or one symbol per line)")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "cron expression, runs once when empty")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "keep results in memory instead of writing to postgres")
}

func runScraper(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	symbols, err := loadSymbols(cfg, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := newStore(ctx, cfg.Store, logger.Named("store"))
	if err != nil {
		return err
	}
	defer closeStore()

	baseURL, err := url.Parse(cfg.Source.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	parsers, snapshot, err := crawler.NewParsers(cfg.Families(), baseURL, logger.Named("parser"))
	if err != nil {
		return err
	}

	baseHTTPClient := &gohttp.Client{Timeout: cfg.Source.Timeout}
	httpClient := http.NewClient(baseHTTPClient, cfg.Source.Timeout, cfg.Source.UserAgent)

	svc := crawler.NewService(httpClient, st, parsers, snapshot, crawler.ServiceConfig{
		BaseURL:     cfg.Source.BaseURL,
		PagePath:    cfg.Source.PagePath,
		SymbolDelay: cfg.Run.SymbolDelay,
		Retry: crawler.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
			Multiplier:     cfg.Retry.Multiplier,
			Jitter:         cfg.Retry.Jitter,
		},
	}, logger.Named("crawler"))

	job := func(ctx context.Context) error {
		_, err := svc.Run(ctx, symbols)
		if errors.Is(err, crawler.ErrRetriesExhausted) {
			logger.Warn("run finished with abandoned symbols", zap.Error(err))
			return nil
		}
		return err
	}

	if cfg.Run.Schedule == "" {
		return job(ctx)
	}
	return crawler.NewScheduler(logger.Named("scheduler")).Run(ctx, cfg.Run.Schedule, job)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("families") {
		cfg.Run.Families = runFamilies
	}
	if flags.Changed("roster") {
		cfg.Roster.File = runRoster
	}
	if flags.Changed("schedule") {
		cfg.Run.Schedule = runSchedule
	}
	if runDryRun {
		cfg.Store.Driver = config.DriverMemory
	}
	return cfg.Validate()
}

// loadSymbols prefers symbols given on the command line over the roster file and the
// configured symbol list.
func loadSymbols(cfg *config.Config, args []string) ([]model.Symbol, error) {
	if len(args) > 0 {
		return roster.Merge(args), nil
	}

	var fromFile []string
	if cfg.Roster.File != "" {
		symbols, err := roster.Load(cfg.Roster.File)
		if err != nil {
			return nil, err
		}
		for _, s := range symbols {
			fromFile = append(fromFile, string(s))
		}
	}

	symbols := roster.Merge(fromFile, cfg.Roster.Symbols)
	if len(symbols) == 0 {
		return nil, roster.ErrEmptyRoster
	}
	return symbols, nil
}

// newStore connects the configured store. Failing to reach postgres is the one fatal error of a run.
func newStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		return store.NewMemoryStore(cfg.SkipExistingPeriods, logger), func() {}, nil
	}

	pool, err := pgxpool.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
	return store.NewPostgres(pool, cfg.SkipExistingPeriods, logger), pool.Close, nil
}
