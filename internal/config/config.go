package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"er-patch-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath   string
	LogLevel string

	SiteBaseURL     string
	SiteLocale      string
	SiteLocaleQuery string
	UserAgent       string

	FetchTimeout     time.Duration
	FetchRetryDelay  time.Duration
	FetchSettle      time.Duration
	RequestDelay     time.Duration
	RequestJitter    time.Duration
	ListingPageDelay time.Duration

	CacheDir   string
	ReportDir  string
	ChromePath string
	Headless   bool
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "er-patches.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SiteBaseURL:     getEnv("SITE_BASE_URL", "https://playeternalreturn.com"),
		SiteLocale:      getEnv("SITE_LOCALE", "ko_KR"),
		SiteLocaleQuery: getEnv("SITE_LOCALE_QUERY", "ko-KR"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"),
		CacheDir:        getEnv("CACHE_DIR", ""),
		ReportDir:       getEnv("REPORT_DIR", constants.ReportDir),
		ChromePath:      getEnv("CHROME_PATH", ""),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"FETCH_TIMEOUT", constants.PageFetchTimeout, &cfg.FetchTimeout},
		{"FETCH_RETRY_DELAY", constants.FetchRetryDelay, &cfg.FetchRetryDelay},
		{"FETCH_SETTLE", constants.PageSettleDelay, &cfg.FetchSettle},
		{"REQUEST_DELAY", constants.RequestDelay, &cfg.RequestDelay},
		{"REQUEST_JITTER", constants.RequestJitter, &cfg.RequestJitter},
		{"LISTING_PAGE_DELAY", constants.ListingPageDelay, &cfg.ListingPageDelay},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	headless, err := strconv.ParseBool(getEnv("HEADLESS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEADLESS: %w", err)
	}
	cfg.Headless = headless

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("site", cfg.SiteBaseURL).
		Str("locale", cfg.SiteLocale).
		Str("log_level", cfg.LogLevel).
		Dur("request_delay", cfg.RequestDelay).
		Bool("headless", cfg.Headless).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
