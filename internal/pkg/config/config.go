// Package config loads scraper settings from a YAML file, the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
)

const (
	envPrefix = "SCRAPER"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Run    RunConfig    `mapstructure:"run"`
	Retry  RetryConfig  `mapstructure:"retry"`
	Store  StoreConfig  `mapstructure:"store"`
	Roster RosterConfig `mapstructure:"roster"`
	Log    LogConfig    `mapstructure:"log"`
}

type SourceConfig struct {
	BaseURL   string        `mapstructure:"base_url"   validate:"required,url"`
	PagePath  string        `mapstructure:"page_path"  validate:"required,contains=%s"`
	Timeout   time.Duration `mapstructure:"timeout"    validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent"`
}

type RunConfig struct {
	Families    []string      `mapstructure:"families"     validate:"required,min=1,dive,oneof=balance_sheet profit_loss quarterly ratios shareholding_pattern fundamental"` //nolint:lll
	SymbolDelay time.Duration `mapstructure:"symbol_delay" validate:"gte=0"`
	Schedule    string        `mapstructure:"schedule"` // cron expression, empty runs once
}

type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"    validate:"min=1"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" validate:"gte=0"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"     validate:"gtefield=InitialBackoff"`
	Multiplier     float64       `mapstructure:"multiplier"      validate:"gte=1"`
	Jitter         float64       `mapstructure:"jitter"          validate:"gte=0,lt=1"`
}

type StoreConfig struct {
	Driver              string `mapstructure:"driver"                validate:"oneof=postgres memory"`
	Host                string `mapstructure:"host"                  validate:"required_if=Driver postgres"`
	Port                int    `mapstructure:"port"                  validate:"min=1,max=65535"`
	DBName              string `mapstructure:"dbname"                validate:"required_if=Driver postgres"`
	User                string `mapstructure:"user"                  validate:"required_if=Driver postgres"`
	Password            string `mapstructure:"password"`
	SSLMode             string `mapstructure:"sslmode"               validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SSLRootCert         string `mapstructure:"sslrootcert"`
	UseSSL              bool   `mapstructure:"use_ssl"`
	SkipExistingPeriods bool   `mapstructure:"skip_existing_periods"`
}

type RosterConfig struct {
	File    string   `mapstructure:"file"`
	Symbols []string `mapstructure:"symbols"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads the configuration. An explicit path must exist, otherwise ./config/scraper.yaml and
// $HOME/.scraper/scraper.yaml are tried and may be absent. Environment variables override the file:
// SCRAPER_<SECTION>_<KEY>, plus the PG_* and USE_SSL variables for the store.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scraper")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".scraper"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Store.UseSSL && cfg.Store.SSLMode == "disable" {
		cfg.Store.SSLMode = "require"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.base_url", "https://www.screener.in")
	v.SetDefault("source.page_path", "/company/%s/")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.user_agent", "")

	families := make([]string, 0, len(model.Families()))
	for _, f := range model.Families() {
		families = append(families, string(f))
	}
	v.SetDefault("run.families", families)
	v.SetDefault("run.symbol_delay", 2*time.Second)
	v.SetDefault("run.schedule", "")

	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.initial_backoff", 10*time.Second)
	v.SetDefault("retry.max_backoff", 5*time.Minute)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter", 0.2)

	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.host", "localhost")
	v.SetDefault("store.port", 5432)
	v.SetDefault("store.dbname", "equity_data")
	v.SetDefault("store.user", "postgres")
	v.SetDefault("store.password", "")
	v.SetDefault("store.sslmode", "disable")
	v.SetDefault("store.sslrootcert", "")
	v.SetDefault("store.use_ssl", false)
	v.SetDefault("store.skip_existing_periods", true)

	v.SetDefault("roster.file", "")
	v.SetDefault("roster.symbols", []string{})

	v.SetDefault("log.level", "info")
}

// bindLegacyEnv keeps the database variables of existing deployments working.
// The prefixed variable wins when both are set.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string]string{
		"store.dbname":      "PG_DBNAME",
		"store.user":        "PG_USER",
		"store.password":    "PG_PASSWORD",
		"store.host":        "PG_HOST",
		"store.port":        "PG_PORT",
		"store.use_ssl":     "USE_SSL",
		"store.sslrootcert": "PG_SSLROOTCERT",
	}
	for key, env := range legacy {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Families returns the configured families as model values.
func (c *Config) Families() []model.Family {
	families := make([]model.Family, len(c.Run.Families))
	for i, f := range c.Run.Families {
		families[i] = model.Family(f)
	}
	return families
}

// DSN builds a postgres connection URL.
func (c StoreConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.DBName,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}

	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.SSLRootCert != "" {
		q.Set("sslrootcert", c.SSLRootCert)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
