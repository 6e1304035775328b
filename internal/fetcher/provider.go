package fetcher

import (
	"er-patch-tracker/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New returns the browser fetcher, behind a file cache when CACHE_DIR is set.
func New(cfg *config.Config, logger zerolog.Logger) Fetcher {
	var f Fetcher = NewBrowser(cfg, logger)
	if cfg.CacheDir != "" {
		f = NewFileCache(cfg.CacheDir, f, logger)
	}
	return f
}

var Module = fx.Provide(New)
